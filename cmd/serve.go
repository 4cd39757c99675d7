package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/config"
	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/jobs"
	"github.com/nibin-org/portfolio/internal/logging"
	"github.com/nibin-org/portfolio/internal/mail"
	"github.com/nibin-org/portfolio/internal/server"
	"github.com/nibin-org/portfolio/internal/store"
)

type serveFlags struct {
	config  string // config file path
	port    string
	runMode string
}

// contentPollInterval is how often the watcher stats the content file
const contentPollInterval = 2 * time.Second

func init() {
	flags := new(serveFlags)

	serveCmd := &cobra.Command{
		Use:   "serve [-c config_file] [-p port]",
		Short: "Run the portfolio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.config)
			if err != nil {
				bootstrapLogger.Error("load config failed", zap.Error(err))
				return err
			}
			if cfg.File == "" && flags.config != "" {
				bootstrapLogger.Warn("config file not found, using defaults", zap.String("path", flags.config))
			}
			if flags.port != "" {
				cfg.Server.HttpPort = flags.port
			}
			if flags.runMode != "" {
				cfg.Server.RunMode = flags.runMode
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	rootCmd.AddCommand(serveCmd)
	fs := serveCmd.Flags()
	fs.StringVarP(&flags.config, "config", "c", "config.yaml", "config file")
	fs.StringVarP(&flags.port, "port", "p", "", "listen port, overrides the config")
	fs.StringVarP(&flags.runMode, "mode", "m", "", "gin run mode: debug, release or test")
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	profile, err := content.Load(cfg.Content.File)
	if err != nil {
		logger.Error("load content failed", zap.Error(err))
		return err
	}
	for _, w := range profile.Warnings() {
		logger.Warn("content warning", zap.String("warning", w))
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("open store failed", zap.String("path", cfg.Database.Path), zap.Error(err))
		return err
	}
	defer st.Close()

	retention := jobs.NewRetention(st, cfg.Retention, logger)
	scheduler, err := jobs.Schedule(cfg.Retention.Schedule, retention)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()
	// run once at boot so a long downtime does not leave stale records behind
	go func() { _, _ = retention.Run(ctx) }()

	mailer := mail.New(cfg.Mail)
	if !mailer.Configured() {
		logger.Warn("SMTP credentials not configured, contact messages are only stored")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.Admin.Password == "admin123" {
		logger.Warn("using the default admin password, set ADMIN_PASSWORD")
	}

	s, err := server.New(server.Options{
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Mailer:    mailer,
		Profile:   profile,
		Registry:  reg,
		Retention: retention,
		Scheduler: scheduler,
	})
	if err != nil {
		return err
	}

	if cfg.Content.Watch && cfg.Content.File != "" {
		if err := s.WatchContent(ctx, cfg.Content.File, contentPollInterval); err != nil {
			logger.Error("content watcher failed", zap.Error(err))
		}
	}

	logger.Info("portfolio starting",
		zap.String("addr", cfg.Addr()),
		zap.String("mode", cfg.Server.RunMode),
		zap.String("config", cfg.File),
		zap.String("content", cfg.Content.File),
		zap.Time("next_cleanup", scheduler.Next()),
	)
	if err := s.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return errors.Wrap(err, "serve")
	}
	logger.Info("portfolio stopped")
	return nil
}
