package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownLink is returned when a short code matches no outbound link
var ErrUnknownLink = errors.New("unknown outbound link")

var validate = validator.New()

// Load reads a YAML content file. An empty path yields Default().
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read content file %s", path)
	}

	// Fields absent from the file keep their authored defaults
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrapf(err, "parse content file %s", path)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the struct tags and that nav targets are unique
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(err, "invalid content")
	}

	seen := map[string]bool{HeroID: true}
	for _, l := range p.NavLinks {
		if seen[l.ID()] {
			return errors.Errorf("invalid content: duplicate section id %q", l.ID())
		}
		seen[l.ID()] = true
	}
	return nil
}

// Warnings lists soft problems that do not stop the page from rendering
func (p *Profile) Warnings() []string {
	var warnings []string
	for _, pr := range p.Projects {
		if !pr.Actionable() {
			warnings = append(warnings, fmt.Sprintf("project %q has no demo, github or npm url", pr.Name))
		}
	}
	for _, s := range p.Socials {
		if s.Href == "#" {
			warnings = append(warnings, fmt.Sprintf("social link %q points nowhere", s.Label))
		}
	}
	return warnings
}

// OutboundLink is an external url reachable through the click redirect
type OutboundLink struct {
	Code   string
	URL    string
	Source string // e.g. "project:TokVista:github" or "social:GitHub"
}

// ShortCode derives the stable redirect code for an url
func ShortCode(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:10]
}

// OutboundLinks returns every http(s) link on the page keyed by its short code
func (p *Profile) OutboundLinks() []OutboundLink {
	var links []OutboundLink
	seen := make(map[string]bool)
	add := func(url, source string) {
		if !isExternal(url) || seen[url] {
			return
		}
		seen[url] = true
		links = append(links, OutboundLink{Code: ShortCode(url), URL: url, Source: source})
	}

	for _, pr := range p.Projects {
		for _, l := range pr.Links() {
			add(l.URL, "project:"+pr.Name+":"+l.Kind)
		}
	}
	for _, s := range p.Socials {
		add(s.Href, "social:"+s.Label)
	}
	return links
}

// Lookup finds the outbound link for a short code
func (p *Profile) Lookup(code string) (OutboundLink, error) {
	for _, l := range p.OutboundLinks() {
		if l.Code == code {
			return l, nil
		}
	}
	return OutboundLink{}, errors.Wrapf(ErrUnknownLink, "code %s", code)
}

func isExternal(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}
