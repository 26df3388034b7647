package web

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/ethanbaker/taskmanager/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewPage prepares the common page data for the current request. Pending
// flash messages are consumed
func (w *Web) NewPage(c *gin.Context, title string) *Page {
	page := &Page{
		Title:    title,
		Lang:     Language(c),
		Provider: utils.DetectHostingProvider(c.Request.Host),
		Path:     c.Request.URL.RequestURI(),
		Debug:    w.cfg.Debug(),
		User:     User(c),
		catalog:  w.catalog,
	}

	if page.Lang == "" {
		page.Lang = w.catalog.Default()
	}
	page.Languages = w.catalog.Languages()

	if sess := Session(c); sess != nil {
		page.CSRFToken = sess.CSRFToken
		page.Flashes = sess.PopFlashes()
	}

	return page
}

// Render writes a page with the given status through the engine's HTML
// renderer. Nothing is written when the template fails, so the 500 page can
// still go out
func (w *Web) Render(c *gin.Context, status int, name string, page *Page) {
	c.HTML(status, name, page)
	if c.Writer.Written() {
		return
	}

	err := fmt.Errorf("failed to render %s", name)
	if last := c.Errors.Last(); last != nil {
		err = last.Err
	}
	w.ServerError(c, err)
}

// Redirect answers with a 302 to a local path
func (w *Web) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// Flash queues a message for the next rendered page
func (w *Web) Flash(c *gin.Context, level, message string) {
	if sess := Session(c); sess != nil {
		sess.AddFlash(level, message)
	}
}

// NotFound renders the 404 page
func (w *Web) NotFound(c *gin.Context) {
	w.Render(c, http.StatusNotFound, "404.html", w.NewPage(c, "Page not found"))
	c.Abort()
}

// Forbidden renders the 403 page
func (w *Web) Forbidden(c *gin.Context) {
	w.Render(c, http.StatusForbidden, "403.html", w.NewPage(c, "Forbidden"))
	c.Abort()
}

// ServerError logs err and renders the 500 page. A failing 500 template
// degrades to plain text
func (w *Web) ServerError(c *gin.Context, err error) {
	w.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("ip", ClientIP(c)),
		zap.Error(err))
	_ = c.Error(err)

	var buf bytes.Buffer
	if renderErr := w.renderer.Execute(&buf, "500.html", w.NewPage(c, "Server error")); renderErr != nil {
		c.String(http.StatusInternalServerError, "Server Error (500)")
	} else {
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", buf.Bytes())
	}
	c.Abort()
}

// Login binds the user to a fresh session
func (w *Web) Login(c *gin.Context, user *tracker.User) error {
	sess, err := w.sessions.Rotate(c.Request.Context(), w.currentOrEmpty(c), user.ID)
	if err != nil {
		return err
	}

	c.Set(sessionKey, sess)
	c.Set(userKey, user)
	return w.setSessionCookie(c, sess)
}

// Logout replaces the session with an anonymous one
func (w *Web) Logout(c *gin.Context) error {
	sess, err := w.sessions.Rotate(c.Request.Context(), w.currentOrEmpty(c), 0)
	if err != nil {
		return err
	}

	c.Set(sessionKey, sess)
	c.Set(userKey, (*tracker.User)(nil))
	return w.setSessionCookie(c, sess)
}

// SetLanguage stores the interface language in the session and a cookie
func (w *Web) SetLanguage(c *gin.Context, code string) bool {
	if !w.catalog.Supported(code) {
		return false
	}

	if sess := Session(c); sess != nil {
		sess.Language = code
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(LanguageCookie, code, int((365 * 24 * time.Hour).Seconds()), "/", "", !w.cfg.Debug(), false)
	c.Set(languageKey, code)
	return true
}

// SafeRedirectTarget accepts only local absolute paths
func SafeRedirectTarget(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}

	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return fallback
	}
	return next
}

func (w *Web) currentOrEmpty(c *gin.Context) *session.Session {
	if sess := Session(c); sess != nil {
		return sess
	}
	return &session.Session{}
}

func (w *Web) setSessionCookie(c *gin.Context, sess *session.Session) error {
	value, err := w.encodeSessionID(sess.ID.String())
	if err != nil {
		return fmt.Errorf("failed to sign session cookie: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, int(w.sessions.TTL().Seconds()), "/", "", !w.cfg.Debug(), true)
	return nil
}
