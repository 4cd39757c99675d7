package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/nav"
	"github.com/nibin-org/portfolio/internal/theme"
	"github.com/nibin-org/portfolio/web"
)

// icons are inline SVGs keyed by the names content and the theme use
var icons = map[string]string{
	"sun":      `<circle cx="12" cy="12" r="4"/><path d="M12 2v2M12 20v2M4.93 4.93l1.41 1.41M17.66 17.66l1.41 1.41M2 12h2M20 12h2M6.34 17.66l-1.41 1.41M19.07 4.93l-1.41 1.41"/>`,
	"moon":     `<path d="M12 3a6 6 0 0 0 9 9 9 9 0 1 1-9-9Z"/>`,
	"menu":     `<path d="M4 6h16M4 12h16M4 18h16"/>`,
	"close":    `<path d="M18 6 6 18M6 6l12 12"/>`,
	"file":     `<path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><path d="M14 2v6h6"/>`,
	"download": `<path d="M21 15v4a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2v-4M7 10l5 5 5-5M12 15V3"/>`,
	"external": `<path d="M18 13v6a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V8a2 2 0 0 1 2-2h6M15 3h6v6M10 14 21 3"/>`,
	"reset":    `<path d="M3 12a9 9 0 1 0 3-6.7L3 8"/><path d="M3 3v5h5"/>`,
	"arrow":    `<path d="M5 12h14M12 5l7 7-7 7"/>`,
	"mail":     `<rect x="2" y="4" width="20" height="16" rx="2"/><path d="m22 7-10 6L2 7"/>`,
	"github":   `<path d="M9 19c-5 1.5-5-2.5-7-3m14 6v-3.87a3.37 3.37 0 0 0-.94-2.61c3.14-.35 6.44-1.54 6.44-7A5.44 5.44 0 0 0 20 4.77 5.07 5.07 0 0 0 19.91 1S18.73.65 16 2.48a13.38 13.38 0 0 0-7 0C6.27.65 5.09 1 5.09 1A5.07 5.07 0 0 0 5 4.77a5.44 5.44 0 0 0-1.5 3.78c0 5.42 3.3 6.61 6.44 7A3.37 3.37 0 0 0 9 18.13V22"/>`,
	"linkedin": `<path d="M16 8a6 6 0 0 1 6 6v7h-4v-7a2 2 0 0 0-4 0v7h-4v-7a6 6 0 0 1 6-6zM2 9h4v12H2z"/><circle cx="4" cy="4" r="2"/>`,
	"clock":    `<circle cx="12" cy="12" r="10"/><path d="M12 6v6l4 2"/>`,
	"pin":      `<path d="M20 10c0 6-8 12-8 12s-8-6-8-12a8 8 0 0 1 16 0Z"/><circle cx="12" cy="10" r="3"/>`,
	"target":   `<circle cx="12" cy="12" r="10"/><circle cx="12" cy="12" r="6"/><circle cx="12" cy="12" r="2"/>`,
	"zap":      `<path d="M13 2 3 14h9l-1 8 10-12h-9l1-8z"/>`,
}

func icon(name string) template.HTML {
	body, ok := icons[name]
	if !ok {
		return ""
	}
	return template.HTML(`<svg class="icon icon--` + name + `" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">` + body + `</svg>`)
}

// outbound rewrites external urls through the click redirect
func outbound(url string) string {
	if !external(url) {
		return url
	}
	return "/out/" + content.ShortCode(url)
}

func external(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

var funcs = template.FuncMap{
	"icon":     icon,
	"outbound": outbound,
	"external": external,
	"stamp":    stamp,
	"json":     toJSON,
	"join":     strings.Join,
	// bio paragraphs are authored markup
	"rich": func(s string) template.HTML { return template.HTML(s) },
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(web.Templates(), "*.html", "admin/*.html")
	return t, errors.Wrap(err, "parse templates")
}

// clientConfig is read by the page client from the body data-client attribute
type clientConfig struct {
	Sections  []string `json:"sections"`
	ResumeSrc string   `json:"resumeSrc"`
	HeroID    string   `json:"heroId"`
}

// contactForm refills the form after a submission without htmx
type contactForm struct {
	Name    string
	Email   string
	Message string
	Success string
	Error   string
}

type pageData struct {
	P         *content.Profile
	Theme     theme.Request
	Nav       []nav.Item
	Year      int
	Client    string
	ResumeSrc string
	Form      contactForm
}

func newPageData(p *content.Profile, t theme.Request, now time.Time) (pageData, error) {
	client, err := toJSON(clientConfig{
		Sections:  p.SectionIDs(),
		ResumeSrc: p.ResumeViewerSrc(),
		HeroID:    content.HeroID,
	})
	if err != nil {
		return pageData{}, errors.Wrap(err, "encode client config")
	}
	return pageData{
		P:     p,
		Theme: t,
		// the server cannot know the scroll position, so no link starts active
		Nav:       nav.Items(p.NavLinks, ""),
		Year:      now.Year(),
		Client:    client,
		ResumeSrc: p.ResumeViewerSrc(),
	}, nil
}

// pageCache holds rendered pages per theme variant
type pageCache struct {
	lru *lru.Cache[string, []byte]
}

func newPageCache(size int) (*pageCache, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, errors.Wrap(err, "create page cache")
	}
	return &pageCache{lru: c}, nil
}

// variantKey distinguishes every input that changes the rendered page. The
// footer year is part of it so a cached page never outlives new year's eve.
func variantKey(t theme.Request, year int) string {
	resolved := "unresolved"
	if t.Resolved {
		resolved = string(t.Theme)
	}
	return string(t.Preference) + "/" + resolved + "/" + strconv.Itoa(year)
}

func (c *pageCache) get(key string) ([]byte, bool) { return c.lru.Get(key) }
func (c *pageCache) add(key string, page []byte)   { c.lru.Add(key, page) }
func (c *pageCache) purge()                        { c.lru.Purge() }
func (c *pageCache) len() int                      { return c.lru.Len() }

func render(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.Wrapf(err, "render %s", name)
	}
	return buf.Bytes(), nil
}
