package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/content"
	"github.com/nibin-org/portfolio/internal/mail"
	"github.com/nibin-org/portfolio/internal/store"
	"github.com/nibin-org/portfolio/internal/theme"
)

const (
	htmlContentType = "text/html; charset=utf-8"

	contactSuccess   = "Thank you for your message! I'll get back to you soon."
	contactFailed    = "Sorry, there was an error sending your message. Please try again later."
	contactInvalid   = "Please fill in your name, a valid email address and a message."
	contactTooLong   = "That message is too long. Please shorten it and try again."
	contactThrottled = "You have sent several messages already. Please try again a little later."
)

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// hintHeaders asks the browser for the colour scheme hint on later requests
func hintHeaders(c *gin.Context, t theme.Request) {
	c.Header("Accept-CH", theme.HintHeader)
	c.Header("Vary", "Cookie, "+theme.HintHeader)
	if !t.Resolved && c.GetHeader(theme.HintHeader) == "" {
		// supporting browsers retry once with the hint attached
		c.Header("Critical-CH", theme.HintHeader)
	}
}

func (s *Server) index(c *gin.Context) {
	t := theme.FromRequest(c.Request)
	hintHeaders(c, t)

	now := s.now()
	key := variantKey(t, now.Year())
	if page, ok := s.pages.get(key); ok {
		s.metrics.PageCacheHit()
		c.Data(http.StatusOK, htmlContentType, page)
		return
	}

	page, err := s.renderPage(t, now, contactForm{})
	if err != nil {
		s.pageFailed(c, err)
		return
	}
	s.pages.add(key, page)
	if t.Resolved {
		s.metrics.PageRendered(string(t.Theme))
	} else {
		s.metrics.PageRendered("")
	}
	c.Data(http.StatusOK, htmlContentType, page)
}

func (s *Server) renderPage(t theme.Request, now time.Time, form contactForm) ([]byte, error) {
	data, err := newPageData(s.Profile(), t, now)
	if err != nil {
		return nil, err
	}
	data.Form = form
	return render(s.templates, "index.html", data)
}

func (s *Server) pageFailed(c *gin.Context, err error) {
	_ = c.Error(err)
	s.logger.Error("render page failed", zap.Error(err))
	c.String(http.StatusInternalServerError, "internal error")
}

func (s *Server) serveResume(c *gin.Context, disposition string) {
	name := s.Profile().Resume.DownloadName
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
	c.Header("Cache-Control", "public, max-age=3600")
	s.metrics.ResumeServed(disposition == "attachment")
	c.Data(http.StatusOK, "application/pdf", s.resume)
}

func (s *Server) resumeInline(c *gin.Context)   { s.serveResume(c, "inline") }
func (s *Server) resumeDownload(c *gin.Context) { s.serveResume(c, "attachment") }

// toggleTheme is the fallback for visitors without the page client. htmx
// swaps the returned toggle and announces the new theme, plain forms
// navigate back to the page.
func (s *Server) toggleTheme(c *gin.Context) {
	cur := theme.FromRequest(c.Request)
	pref := theme.Toggle(cur.Theme)
	http.SetCookie(c.Writer, theme.Cookie(pref))

	next, _ := theme.Resolve(pref, nil)
	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	trigger, _ := json.Marshal(map[string]any{"theme-changed": map[string]string{"theme": string(next)}})
	c.Header("HX-Trigger", string(trigger))
	c.HTML(http.StatusOK, "theme-toggle.html", theme.Request{Preference: pref, Theme: next, Resolved: true})
}

func (s *Server) outbound(c *gin.Context) {
	link, err := s.Profile().Lookup(c.Param("code"))
	if errors.Is(err, content.ErrUnknownLink) {
		c.String(http.StatusNotFound, "unknown link")
		return
	}

	source, _, _ := strings.Cut(link.Source, ":")
	s.metrics.OutboundClick(source)
	if c.GetHeader("DNT") != "1" {
		err := s.store.RecordClick(c.Request.Context(), store.Click{
			Code:      link.Code,
			URL:       link.URL,
			Source:    link.Source,
			HashedIP:  s.visitors.hash.hash(c.ClientIP()),
			Timestamp: s.now(),
		})
		if err != nil {
			// the visitor still gets where they were going
			s.logger.Warn("record click failed", zap.String("code", link.Code), zap.Error(err))
		}
	}
	c.Redirect(http.StatusFound, link.URL)
}

type contactRequest struct {
	Name    string `form:"name" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email,max=254"`
	Message string `form:"message" binding:"required"`
}

// contactReply answers htmx with 200 and the notice fragment. Plain form posts
// get the real status and the whole page, with the fields refilled unless the
// message went through.
func (s *Server) contactReply(c *gin.Context, status int, outcome, text string) {
	s.metrics.ContactMessage(outcome)
	ok := outcome == "sent" || outcome == "stored"

	form := contactForm{Error: text}
	if ok {
		form = contactForm{Success: text}
	} else {
		form.Name = c.PostForm("name")
		form.Email = c.PostForm("email")
		form.Message = c.PostForm("message")
	}

	if isHTMX(c) {
		name := "contact-error.html"
		if ok {
			name = "contact-success.html"
		}
		c.HTML(http.StatusOK, name, form)
		return
	}
	page, err := s.renderPage(theme.FromRequest(c.Request), s.now(), form)
	if err != nil {
		s.pageFailed(c, err)
		return
	}
	c.Data(status, htmlContentType, page)
}

func (s *Server) submitContact(c *gin.Context) {
	if !s.contact.allow(c.ClientIP()) {
		s.contactReply(c, http.StatusTooManyRequests, "limited", contactThrottled)
		return
	}

	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		s.contactReply(c, http.StatusBadRequest, "invalid", contactInvalid)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Message == "" {
		s.contactReply(c, http.StatusBadRequest, "invalid", contactInvalid)
		return
	}
	if limit := s.cfg.Contact.MaxMessage; limit > 0 && len([]rune(req.Message)) > limit {
		s.contactReply(c, http.StatusBadRequest, "invalid", contactTooLong)
		return
	}

	ctx := c.Request.Context()
	msg, err := s.store.SaveMessage(ctx, store.Message{
		Name:     req.Name,
		Email:    req.Email,
		Body:     req.Message,
		HashedIP: s.visitors.hash.hash(c.ClientIP()),
	})
	if err != nil {
		s.logger.Error("save contact message failed", zap.Error(err))
		s.contactReply(c, http.StatusInternalServerError, "failed", contactFailed)
		return
	}

	if s.mailer == nil {
		s.contactReply(c, http.StatusOK, "stored", contactSuccess)
		return
	}
	switch err := s.mailer.Send(msg); {
	case errors.Is(err, mail.ErrSMTPNotConfigured):
		s.logger.Warn("contact message stored without mail", zap.String("id", msg.ID))
		s.contactReply(c, http.StatusOK, "stored", contactSuccess)
	case err != nil:
		s.logger.Error("send contact message failed", zap.String("id", msg.ID), zap.Error(err))
		s.contactReply(c, http.StatusBadGateway, "failed", contactFailed)
	default:
		if err := s.store.MarkSent(ctx, msg.ID); err != nil {
			s.logger.Warn("mark message sent failed", zap.String("id", msg.ID), zap.Error(err))
		}
		s.logger.Info("contact message sent", zap.String("id", msg.ID))
		s.contactReply(c, http.StatusOK, "sent", contactSuccess)
	}
}

func (s *Server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"Title":  "Privacy Policy",
		"Theme":  theme.FromRequest(c.Request),
		"Months": s.cfg.Retention.Months,
	})
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
