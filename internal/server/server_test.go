package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/config"
	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/jobs"
	"github.com/nibin-org/portfolio/internal/mail"
	"github.com/nibin-org/portfolio/internal/store"
	"github.com/nibin-org/portfolio/internal/theme"
)

var testNow = time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

type fakeMailer struct {
	sent []store.Message
	err  error
}

func (f *fakeMailer) Send(m store.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

type testServer struct {
	*Server
	store  *store.Store
	mailer *fakeMailer
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T, tweak ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RunMode = "test"
	cfg.Admin.HashSalt = "test-salt"
	for _, f := range tweak {
		f(cfg)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "test.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	m := &fakeMailer{}
	reg := prometheus.NewRegistry()
	s, err := New(Options{
		Config:    cfg,
		Logger:    zap.NewNop(),
		Store:     st,
		Mailer:    m,
		Registry:  reg,
		Retention: jobs.NewRetention(st, cfg.Retention, zap.NewNop()),
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return &testServer{Server: s, store: st, mailer: m, reg: reg}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func (ts *testServer) get(path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return ts.do(req)
}

func (ts *testServer) scrape() string {
	return ts.get("/metrics").Body.String()
}

func postForm(path string, form url.Values, htmx bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return req
}

func TestIndexResolvedFromCookie(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/", "Cookie", "theme=dark")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `<html lang="en" class="dark" data-theme="dark" data-theme-pref="dark">`)
	assert.Contains(t, body, `data-theme-toggle><svg class="icon icon--sun"`)
	assert.Contains(t, body, "icon--sun")
	assert.NotContains(t, body, "/static/js/theme.js")
	assert.Equal(t, theme.HintHeader, w.Header().Get("Accept-CH"))
	assert.Contains(t, w.Header().Get("Vary"), "Cookie")
	assert.Empty(t, w.Header().Get("Critical-CH"))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestIndexUnresolvedAsksForHint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `<html lang="en" data-theme-pref="system">`)
	assert.Contains(t, body, "/static/js/theme.js")
	assert.Contains(t, body, `aria-label="Toggle theme"`)
	// the sun and moon templates for the client are always present, the button
	// itself stays empty
	assert.Contains(t, body, `data-theme-toggle></button>`)
	assert.Equal(t, theme.HintHeader, w.Header().Get("Critical-CH"))

	w = ts.get("/", theme.HintHeader, `"light"`)
	assert.Contains(t, w.Body.String(), `class="light"`)
	assert.Contains(t, w.Body.String(), `data-theme-toggle><svg class="icon icon--moon"`)
	assert.Empty(t, w.Header().Get("Critical-CH"))
}

func TestIndexContent(t *testing.T) {
	ts := newTestServer(t)
	body := ts.get("/").Body.String()
	p := content.Default()

	for _, id := range p.SectionIDs() {
		assert.Contains(t, body, `<section id="`+id+`"`)
	}
	for _, l := range p.NavLinks {
		assert.Contains(t, body, `data-nav="`+l.ID()+`"`)
	}
	assert.NotContains(t, body, `aria-current="page"`)
	assert.Contains(t, body, "<strong>Nibin Kurian</strong>")
	assert.Contains(t, body, `href="/out/`+content.ShortCode("https://github.com/nibin-org")+`"`)
	assert.Contains(t, body, `href="mailto:nibhinkurian@example.com"`)
	assert.Contains(t, body, `id="`+"resume-panel"+`"`)
	assert.Contains(t, body, "2026")
	assert.Contains(t, body, "data-hero-badge")
	assert.Contains(t, body, "data-about-reveal")
	assert.Contains(t, body, "data-code-line")
}

func TestPageCache(t *testing.T) {
	ts := newTestServer(t)

	ts.get("/", "Cookie", "theme=light")
	ts.get("/", "Cookie", "theme=light")
	ts.get("/", "Cookie", "theme=dark")
	assert.Equal(t, 2, ts.pages.len())
	assert.Contains(t, ts.scrape(), "portfolio_page_cache_hits_total 1")

	p := content.Default()
	p.Name = "Jane Doe"
	ts.Reload(p)
	assert.Equal(t, 0, ts.pages.len())
	assert.Contains(t, ts.get("/", "Cookie", "theme=light").Body.String(), "Jane Doe")
}

func TestResume(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/resume.pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=Nibin_Kurian_Resume.pdf", w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = ts.get("/resume/download")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=Nibin_Kurian_Resume.pdf", w.Header().Get("Content-Disposition"))
}

func TestResumeOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 custom"), 0o644))
	ts := newTestServer(t, func(c *config.Config) { c.Content.Resume = path })

	assert.Equal(t, "%PDF-1.7 custom", ts.get("/resume.pdf").Body.String())

	cfg := config.Default()
	cfg.Content.Resume = filepath.Join(t.TempDir(), "missing.pdf")
	st, err := store.Open(filepath.Join(t.TempDir(), "x.sqlite3"))
	require.NoError(t, err)
	defer st.Close()
	_, err = New(Options{Config: cfg, Store: st})
	assert.ErrorContains(t, err, "missing.pdf")
}

func TestThemeToggle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(postForm("/theme", nil, false))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "theme=dark")

	req := postForm("/theme", nil, true)
	req.Header.Set("Cookie", "theme=dark")
	w = ts.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "theme=light")
	assert.JSONEq(t, `{"theme-changed":{"theme":"light"}}`, w.Header().Get("HX-Trigger"))
	assert.Contains(t, w.Body.String(), `id="theme-toggle"`)
	assert.Contains(t, w.Body.String(), `aria-label="Switch to dark mode"`)
	assert.Contains(t, w.Body.String(), "icon--moon")
}

func TestOutbound(t *testing.T) {
	ts := newTestServer(t)
	target := "https://github.com/nibin-org"
	code := content.ShortCode(target)

	w := ts.get("/out/" + code)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, target, w.Header().Get("Location"))

	w = ts.get("/out/"+code, "DNT", "1")
	assert.Equal(t, http.StatusFound, w.Code)

	assert.Equal(t, http.StatusNotFound, ts.get("/out/nope").Code)

	links, err := ts.store.Links(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, code, links[0].Code)
	assert.EqualValues(t, 1, links[0].Clicks)
	assert.Contains(t, ts.scrape(), `portfolio_outbound_clicks_total{source="social"} 2`)
}

func contactValues(name, email, msg string) url.Values {
	return url.Values{"name": {name}, "email": {email}, "message": {msg}}
}

func TestContactSent(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(postForm("/contact", contactValues("Ada", "ada@example.com", "Hello there"), true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notice--success")

	require.Len(t, ts.mailer.sent, 1)
	assert.Equal(t, "Ada", ts.mailer.sent[0].Name)

	msgs, err := ts.store.Messages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Sent)
	assert.Len(t, msgs[0].HashedIP, 16)
}

func TestContactOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		form    url.Values
		mailErr error
		htmx    bool
		status  int
		notice  string
		stored  int
	}{
		{"smtp missing still stores", contactValues("Ada", "ada@example.com", "hi"), mail.ErrSMTPNotConfigured, false, http.StatusOK, "notice--success", 1},
		{"smtp failure", contactValues("Ada", "ada@example.com", "hi"), errors.New("dial tcp: refused"), false, http.StatusBadGateway, "notice--error", 1},
		{"smtp failure over htmx", contactValues("Ada", "ada@example.com", "hi"), errors.New("dial tcp: refused"), true, http.StatusOK, "notice--error", 1},
		{"missing name", contactValues("  ", "ada@example.com", "hi"), nil, false, http.StatusBadRequest, "notice--error", 0},
		{"bad email", contactValues("Ada", "not-an-email", "hi"), nil, false, http.StatusBadRequest, "notice--error", 0},
		{"too long", contactValues("Ada", "ada@example.com", strings.Repeat("x", 5001)), nil, false, http.StatusBadRequest, "notice--error", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.mailer.err = tc.mailErr

			w := ts.do(postForm("/contact", tc.form, tc.htmx))
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.notice)

			msgs, err := ts.store.Messages(context.Background(), 10)
			require.NoError(t, err)
			assert.Len(t, msgs, tc.stored)
			for _, m := range msgs {
				assert.False(t, m.Sent)
			}
		})
	}
}

func TestContactRefillsFormWithoutHTMX(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(postForm("/contact", contactValues("Ada", "not-an-email", "Hello there"), false))
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<html lang="en"`)
	assert.Contains(t, body, `name="name" required maxlength="200" value="Ada"`)
	assert.Contains(t, body, `value="not-an-email"`)
	assert.Contains(t, body, `rows="5">Hello there</textarea>`)
	assert.Contains(t, body, "notice--error")

	w = ts.do(postForm("/contact", contactValues("Ada", "ada@example.com", "Hello there"), false))
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "notice--success")
	assert.Contains(t, body, `value=""`)
	assert.NotContains(t, body, "Hello there</textarea>")

	// htmx only gets the notice
	w = ts.do(postForm("/contact", contactValues("Ada", "bad", "hi"), true))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<html")
}

func TestContactRateLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Contact.Burst = 2 })

	form := contactValues("Ada", "ada@example.com", "hi")
	assert.Equal(t, http.StatusOK, ts.do(postForm("/contact", form, false)).Code)
	assert.Equal(t, http.StatusOK, ts.do(postForm("/contact", form, false)).Code)

	w := ts.do(postForm("/contact", form, false))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "try again a little later")

	other := postForm("/contact", form, false)
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, ts.do(other).Code)
	assert.Contains(t, ts.scrape(), `portfolio_contact_messages_total{outcome="limited"} 1`)
}

func TestLimiterKeepsRecentClientsOnly(t *testing.T) {
	l, err := newLimiter(time.Hour, 1, 2)
	require.NoError(t, err)

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"))
	assert.True(t, l.allow("c"))
	assert.Equal(t, 2, l.buckets.Len())

	// a was evicted by c and starts over
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("c"))
}

func TestVisitorTracking(t *testing.T) {
	ts := newTestServer(t)

	ts.get("/", "User-Agent", "test-agent")
	ts.get("/", "DNT", "1")
	ts.get("/static/css/site.css")
	ts.get("/privacy")
	ts.get("/does-not-exist")
	ts.do(postForm("/theme", nil, false))
	ts.Flush()

	visits, err := ts.store.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "/", visits[0].Path)
	assert.Equal(t, "test-agent", visits[0].UserAgent)
	assert.Equal(t, hasher{salt: "test-salt"}.hash("192.0.2.1"), visits[0].HashedIP)
	assert.True(t, testNow.Equal(visits[0].Timestamp))
}

func TestStaticAndPrivacy(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/static/css/site.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "--accent")

	w = ts.get("/privacy")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "older than 12 months")
}

func TestHealthzAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	ts.get("/")
	w = ts.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `portfolio_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `portfolio_page_renders_total{theme="unresolved"} 1`)

	require.NoError(t, ts.store.Close())
	assert.Equal(t, http.StatusServiceUnavailable, ts.get("/healthz").Code)
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t)
	w := ts.get("/healthz", RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	ts := newTestServer(t)
	ts.engine.GET("/boom", func(*gin.Context) { panic("boom") })
	assert.Equal(t, http.StatusInternalServerError, ts.get("/boom").Code)
}

func TestReloadFile(t *testing.T) {
	ts := newTestServer(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("name: Jane Doe\n"), 0o644))
	require.NoError(t, ts.ReloadFile(good))
	assert.Equal(t, "Jane Doe", ts.Profile().Name)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nav_links: []\n"), 0o644))
	assert.Error(t, ts.ReloadFile(bad))
	assert.Equal(t, "Jane Doe", ts.Profile().Name)

	metrics := ts.scrape()
	assert.Contains(t, metrics, `portfolio_content_reloads_total{result="ok"} 1`)
	assert.Contains(t, metrics, `portfolio_content_reloads_total{result="error"} 1`)
}

func TestWatchContentMissingFile(t *testing.T) {
	ts := newTestServer(t)
	err := ts.WatchContent(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), time.Second)
	assert.ErrorContains(t, err, "nope.yaml")
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
