// Package server renders the portfolio and serves its assets, the contact form
// and the admin area over gin.
package server

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/config"
	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/jobs"
	"github.com/nibin-org/portfolio/internal/metrics"
	"github.com/nibin-org/portfolio/internal/store"
	"github.com/nibin-org/portfolio/web"
)

// Store is the persistence the handlers need
type Store interface {
	RecordVisit(ctx context.Context, v store.Visit) error
	RecordClick(ctx context.Context, c store.Click) error
	SaveMessage(ctx context.Context, m store.Message) (store.Message, error)
	MarkSent(ctx context.Context, id string) error
	Messages(ctx context.Context, limit int) ([]store.Message, error)
	Stats(ctx context.Context, now time.Time) (*store.Stats, error)
	Links(ctx context.Context, limit int) ([]store.LinkStat, error)
	RecentVisitors(ctx context.Context, limit int) ([]store.Visit, error)
	ResetLink(ctx context.Context, code string) (int64, error)
	Ping(ctx context.Context) error
}

// Mailer forwards a stored contact message
type Mailer interface {
	Send(msg store.Message) error
}

type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   Store
	Mailer  Mailer
	Profile *content.Profile
	// Registry serves /metrics. Nil disables both collection and the endpoint.
	Registry *prometheus.Registry
	// Retention backs the manual privacy cleanup. Nil disables it.
	Retention *jobs.Retention
	// Scheduler reports the next cleanup on the dashboard
	Scheduler *jobs.Scheduler
	Now       func() time.Time
}

// Server is the HTTP side of the portfolio
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     Store
	mailer    Mailer
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	retention *jobs.Retention
	scheduler *jobs.Scheduler
	now       func() time.Time

	profile   atomic.Pointer[content.Profile]
	templates *template.Template
	pages     *pageCache
	resume    []byte
	contact   *limiter
	visitors  *tracker
	admin     *adminAuth

	engine *gin.Engine
}

// New wires the engine. The profile must already be valid.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Profile == nil {
		opts.Profile = content.Default()
	}
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	cfg := opts.Config

	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	pages, err := newPageCache(cfg.Server.PageCacheSize)
	if err != nil {
		return nil, err
	}
	resume, err := loadResume(cfg.Content.Resume)
	if err != nil {
		return nil, err
	}
	contact, err := newLimiter(time.Duration(cfg.Contact.RefillMinutes)*time.Minute, cfg.Contact.Burst, cfg.Contact.TrackedClients)
	if err != nil {
		return nil, err
	}

	salt := cfg.Admin.HashSalt
	if salt == "" {
		salt = randomHex(16)
	}
	hash := hasher{salt: salt}

	s := &Server{
		cfg:       cfg,
		logger:    opts.Logger,
		store:     opts.Store,
		mailer:    opts.Mailer,
		registry:  opts.Registry,
		retention: opts.Retention,
		scheduler: opts.Scheduler,
		now:       opts.Now,
		templates: tpl,
		pages:     pages,
		resume:    resume,
		contact:   contact,
		visitors:  &tracker{store: opts.Store, hash: hash, logger: opts.Logger, now: opts.Now},
		admin:     newAdminAuth(cfg.Admin, hash),
	}
	if opts.Registry != nil {
		s.metrics = metrics.MustNewMetrics(opts.Registry)
	}
	s.profile.Store(opts.Profile)
	s.engine = s.routes()
	return s, nil
}

func loadResume(path string) ([]byte, error) {
	if path == "" {
		return web.Resume()
	}
	b, err := os.ReadFile(path)
	return b, errors.Wrapf(err, "read resume %s", path)
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(s.cfg.Server.RunMode)
	r := gin.New()
	r.SetHTMLTemplate(s.templates)
	r.Use(RequestID(), Recovery(s.logger), AccessLog(s.logger), Metrics(s.metrics), s.visitors.middleware())

	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/", s.index)
	r.HEAD("/", s.index)
	r.GET(s.Profile().Resume.Path, s.resumeInline)
	r.GET("/resume/download", s.resumeDownload)
	r.POST("/theme", s.toggleTheme)
	r.GET("/out/:code", s.outbound)
	r.POST("/contact", s.submitContact)
	r.GET("/privacy", s.privacy)
	r.GET("/healthz", s.healthz)
	if s.registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}
	s.adminRoutes(r)
	r.NoRoute(func(c *gin.Context) { c.String(http.StatusNotFound, "404 page not found") })
	return r
}

// Handler is the root handler
func (s *Server) Handler() http.Handler { return s.engine }

// Profile is the content currently served
func (s *Server) Profile() *content.Profile { return s.profile.Load() }

// Reload swaps in p and drops the rendered pages. The resume route keeps the
// path it was registered under.
func (s *Server) Reload(p *content.Profile) {
	s.profile.Store(p)
	s.pages.purge()
	s.logger.Info("content reloaded", zap.String("name", p.Name))
}

// Flush waits for background visitor writes
func (s *Server) Flush() { s.visitors.flush() }

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	err := srv.Shutdown(shutdownCtx)
	s.Flush()
	return errors.Wrap(err, "http server shutdown")
}
