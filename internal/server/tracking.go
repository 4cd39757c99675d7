package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/store"
)

// untracked path prefixes
var untracked = []string{"/static/", "/images/", "/admin/", "/favicon", "/privacy",
	"/healthz", "/metrics", "/resume", "/out/"}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hasher turns client IPs into salted, truncated hashes
type hasher struct {
	salt string
}

func (h hasher) hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// tracker records page views in the background
type tracker struct {
	store  Store
	hash   hasher
	logger *zap.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

func shouldTrack(c *gin.Context) bool {
	if c.Request.Method != "GET" {
		return false
	}
	path := c.Request.URL.Path
	for _, p := range untracked {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	// Do Not Track
	return c.GetHeader("DNT") != "1"
}

// middleware records the view after the handler ran, so 404s are not counted
func (t *tracker) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if !shouldTrack(c) || c.Writer.Status() >= 400 {
			return
		}
		v := store.Visit{
			HashedIP:  t.hash.hash(c.ClientIP()),
			UserAgent: c.Request.UserAgent(),
			Path:      c.Request.URL.Path,
			Timestamp: t.now(),
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.store.RecordVisit(ctx, v); err != nil {
				t.logger.Warn("record visitor failed", zap.Error(err))
			}
		}()
	}
}

// flush waits for the pending writes
func (t *tracker) flush() { t.wg.Wait() }
