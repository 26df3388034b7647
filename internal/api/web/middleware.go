package web

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoadSession attaches the visitor's session, user and language to the
// context and saves the session once the handler returns
func (w *Web) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAPIPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		sess, err := w.loadOrCreate(c)
		if err != nil {
			w.ServerError(c, err)
			return
		}
		c.Set(sessionKey, sess)

		if sess.IsAuthenticated() {
			user, err := w.store.GetUser(ctx, sess.UserID)
			switch {
			case errors.Is(err, tracker.ErrNotFound):
				sess.UserID = 0
			case err != nil:
				w.ServerError(c, err)
				return
			default:
				c.Set(userKey, user)
			}
		}

		c.Set(languageKey, w.resolveLanguage(c, sess))

		c.Next()

		if current := Session(c); current != nil {
			if err := w.sessions.Save(ctx, current); err != nil {
				w.logger.Error("failed to save session", zap.Error(err))
			}
		}
	}
}

// CSRF rejects unsafe requests whose token does not match the session
func (w *Web) CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			c.Next()
			return
		}
		if IsAPIPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := c.PostForm(CSRFField)
		if token == "" {
			token = c.GetHeader(CSRFHeader)
		}

		sess := Session(c)
		if sess == nil || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			w.logger.Warn("csrf check failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", ClientIP(c)))
			w.Forbidden(c)
			return
		}

		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page
func (w *Web) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if User(c) != nil {
			c.Next()
			return
		}

		w.logger.Warn("unauthorized access attempt",
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", ClientIP(c)))
		w.Flash(c, session.LevelError, MsgNotAuthorized)
		w.Redirect(c, "/login")
		c.Abort()
	}
}

// AllowedHosts answers 400 for hosts outside ALLOWED_HOSTS
func (w *Web) AllowedHosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !w.cfg.HostAllowed(c.Request.Host) {
			w.logger.Warn("disallowed host", zap.String("host", c.Request.Host), zap.String("ip", ClientIP(c)))
			c.String(http.StatusBadRequest, "Bad Request (400)")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Recovery turns panics into the 500 page
func (w *Web) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		w.ServerError(c, fmt.Errorf("panic: %v", recovered))
	})
}

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ClientIP(c)),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func (w *Web) loadOrCreate(c *gin.Context) (*session.Session, error) {
	ctx := c.Request.Context()

	if value, err := c.Cookie(SessionCookie); err == nil && value != "" {
		id, ok := w.decodeSessionID(value)
		if !ok {
			w.logger.Warn("session cookie with a bad signature", zap.String("ip", ClientIP(c)))
			id = ""
		}

		sess, err := w.sessions.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	}

	sess, err := w.sessions.New(ctx)
	if err != nil {
		return nil, err
	}
	if err := w.setSessionCookie(c, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// resolveLanguage picks the session choice, then the cookie, then the
// browser preference
func (w *Web) resolveLanguage(c *gin.Context, sess *session.Session) string {
	if w.catalog.Supported(sess.Language) {
		return sess.Language
	}
	if code, err := c.Cookie(LanguageCookie); err == nil && w.catalog.Supported(code) {
		return code
	}
	return w.catalog.Match(c.GetHeader("Accept-Language"))
}

// IsAPIPath reports whether a path belongs to the JSON API
func IsAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
