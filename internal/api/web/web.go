// Package web holds the HTML side of the server: template rendering, the
// session and CSRF middleware and the helpers every page handler shares
package web

import (
	"github.com/ethanbaker/taskmanager/pkg/i18n"
	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/ethanbaker/taskmanager/pkg/utils"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// Cookie names
const (
	SessionCookie  = "sessionid"
	LanguageCookie = "lang"
	CSRFField      = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
)

// MsgNotAuthorized is flashed when an anonymous visitor opens a protected page
const MsgNotAuthorized = "You are not authorized! Please log in."

// Options collects the dependencies of the web layer
type Options struct {
	Config   *utils.Config
	Logger   *zap.Logger
	Catalog  *i18n.Catalog
	Renderer *Renderer
	Sessions *session.Store
	Store    *tracker.Store

	// SecretKey signs the session cookie
	SecretKey string
}

// Web is shared by the page modules
type Web struct {
	cfg      *utils.Config
	logger   *zap.Logger
	catalog  *i18n.Catalog
	renderer *Renderer
	sessions *session.Store
	store    *tracker.Store
	cookies  *securecookie.SecureCookie
}

// New builds the web layer
func New(opts Options) *Web {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := session.DefaultTTL
	if opts.Sessions != nil {
		ttl = opts.Sessions.TTL()
	}

	return &Web{
		cfg:      opts.Config,
		logger:   logger,
		catalog:  opts.Catalog,
		renderer: opts.Renderer,
		sessions: opts.Sessions,
		store:    opts.Store,
		cookies:  newCookieCodec([]byte(opts.SecretKey), ttl),
	}
}

// Config returns the server configuration
func (w *Web) Config() *utils.Config {
	return w.cfg
}

// Catalog returns the message catalog
func (w *Web) Catalog() *i18n.Catalog {
	return w.catalog
}

// Store returns the tracker store
func (w *Web) Store() *tracker.Store {
	return w.store
}

// Sessions returns the session store
func (w *Web) Sessions() *session.Store {
	return w.sessions
}

// Logger returns a logger named after a module
func (w *Web) Logger(name string) *zap.Logger {
	return w.logger.Named(name)
}
