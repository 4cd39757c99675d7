package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/config"
)

const adminCookie = "admin_token"

// adminAuth holds the per-process session token handed out on login
type adminAuth struct {
	cfg   config.AdminConfig
	token string
	hash  hasher
}

func newAdminAuth(cfg config.AdminConfig, hash hasher) *adminAuth {
	return &adminAuth{cfg: cfg, token: randomHex(32), hash: hash}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (a *adminAuth) check(username, password string) bool {
	// both compared so timing does not reveal which one was wrong
	u := equal(username, a.cfg.Username)
	p := equal(password, a.cfg.Password)
	return u && p
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equal(token, a.token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{})
	})
	r.POST("/admin/login", s.adminLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.logger.Info("admin logout", zap.String("client", s.admin.hash.hash(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(s.admin.middleware())
	g.GET("/dashboard", s.adminDashboard)
	g.GET("/api/stats", s.adminStatsJSON)
	g.GET("/links", s.adminLinks)
	g.DELETE("/links/:code", s.adminResetLink)
	g.GET("/visitors", s.adminVisitors)
	g.GET("/messages", s.adminMessages)
	g.POST("/privacy/delete-visitor-data", s.adminPurge)
	g.GET("/export/stats", s.adminExport)
}

func (s *Server) adminLogin(c *gin.Context) {
	client := s.admin.hash.hash(c.ClientIP())
	if !s.admin.check(c.PostForm("username"), c.PostForm("password")) {
		s.logger.Warn("failed admin login", zap.String("client", client))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"Error": "Invalid credentials"})
		return
	}
	maxAge := int((time.Duration(s.cfg.Admin.SessionHours) * time.Hour).Seconds())
	c.SetCookie(adminCookie, s.admin.token, maxAge, "/admin", "", false, true)
	s.logger.Info("admin login", zap.String("client", client))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) adminError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"Error": msg})
}

func (s *Server) adminDashboard(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context(), s.now())
	if err != nil {
		s.adminError(c, "Failed to load statistics", err)
		return
	}
	var next time.Time
	if s.scheduler != nil {
		next = s.scheduler.Next()
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
		"Stats":  stats,
		"Months": s.cfg.Retention.Months,
		// zero renders nothing
		"NextCleanup": nonZero(next),
	})
}

func nonZero(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func (s *Server) adminStatsJSON(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context(), s.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) adminLinks(c *gin.Context) {
	links, err := s.store.Links(c.Request.Context(), -1)
	if err != nil {
		s.adminError(c, "Failed to load links", err)
		return
	}
	c.HTML(http.StatusOK, "admin-links.html", gin.H{"Links": links})
}

// adminResetLink drops the recorded clicks of one outbound link. The link
// itself lives in the content and stays.
func (s *Server) adminResetLink(c *gin.Context) {
	code := c.Param("code")
	n, err := s.store.ResetLink(c.Request.Context(), code)
	if err != nil {
		s.logger.Error("reset link failed", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset link"})
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	s.logger.Info("link clicks reset", zap.String("code", code), zap.Int64("clicks", n))
	if isHTMX(c) {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link reset", "clicks": n})
}

func (s *Server) adminVisitors(c *gin.Context) {
	visitors, err := s.store.RecentVisitors(c.Request.Context(), 200)
	if err != nil {
		s.adminError(c, "Failed to load visitors", err)
		return
	}
	c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"Visitors": visitors})
}

func (s *Server) adminMessages(c *gin.Context) {
	msgs, err := s.store.Messages(c.Request.Context(), 200)
	if err != nil {
		s.adminError(c, "Failed to load messages", err)
		return
	}
	c.HTML(http.StatusOK, "admin-messages.html", gin.H{"Messages": msgs})
}

func (s *Server) adminPurge(c *gin.Context) {
	if s.retention == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Retention is not configured"})
		return
	}
	n, err := s.retention.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
		return
	}
	if isHTMX(c) {
		c.String(http.StatusOK, "Removed %d records", n)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup finished", "removed": n})
}

func (s *Server) adminExport(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context(), s.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	s.logger.Info("admin stats exported", zap.String("client", s.admin.hash.hash(c.ClientIP())))
	c.JSON(http.StatusOK, stats)
}
