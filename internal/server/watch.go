package server

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/content"
)

// ReloadFile loads path and swaps it in. A file that does not load or
// validate leaves the served content untouched.
func (s *Server) ReloadFile(path string) error {
	p, err := content.Load(path)
	if err != nil {
		s.metrics.ContentReloaded(false)
		return err
	}
	for _, w := range p.Warnings() {
		s.logger.Warn("content warning", zap.String("file", path), zap.String("warning", w))
	}
	s.Reload(p)
	s.metrics.ContentReloaded(true)
	return nil
}

// WatchContent reloads path whenever it is written, polling every interval,
// until ctx is done
func (s *Server) WatchContent(ctx context.Context, path string, interval time.Duration) error {
	w := watcher.New()
	// one event per polling cycle
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write)
	if err := w.Add(path); err != nil {
		return errors.Wrapf(err, "watch content file %s", path)
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				s.logger.Info("content watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
				if err := s.ReloadFile(path); err != nil {
					s.logger.Error("content reload failed, keeping previous content", zap.Error(err))
				}
			case err := <-w.Error:
				s.logger.Error("content watcher error", zap.Error(err))
			case <-w.Closed:
				return
			case <-ctx.Done():
				w.Close()
				return
			}
		}
	}()

	go func() {
		if err := w.Start(interval); err != nil {
			s.logger.Error("content watcher start error", zap.Error(err))
		}
	}()
	return nil
}
