package home

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/ethanbaker/taskmanager/pkg/forms"
	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/ethanbaker/taskmanager/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Flash messages
const (
	msgLoggedIn     = "You are logged in."
	msgLoggedOut    = "You are logged out."
	msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

type controller struct {
	web    *web.Web
	logger *zap.Logger
}

func newController(w *web.Web) *controller {
	return &controller{web: w, logger: w.Logger("auth")}
}

// index renders the home page
func (ctrl *controller) index(c *gin.Context) {
	ctrl.web.Render(c, http.StatusOK, "index.html", ctrl.web.NewPage(c, "Task manager"))
}

// loginForm renders an empty login form
func (ctrl *controller) loginForm(c *gin.Context) {
	page := ctrl.web.NewPage(c, "Log in")
	page.Form = &forms.LoginForm{}
	ctrl.web.Render(c, http.StatusOK, "login.html", page)
}

// login checks the credentials and binds the user to the session
func (ctrl *controller) login(c *gin.Context) {
	var form forms.LoginForm
	errs := forms.Bind(c, &form)

	if errs.Valid() {
		user, err := ctrl.web.Store().Authenticate(c.Request.Context(), form.Username, form.Password)
		switch {
		case errors.Is(err, tracker.ErrInvalidCredentials):
			errs.Add(forms.NonField, msgInvalidLogin)
		case err != nil:
			ctrl.web.ServerError(c, err)
			return
		default:
			if err := ctrl.web.Login(c, user); err != nil {
				ctrl.web.ServerError(c, err)
				return
			}

			ctrl.logger.Info("user logged in", zap.Stringer("user", user), zap.String("ip", web.ClientIP(c)))
			ctrl.web.Flash(c, session.LevelSuccess, msgLoggedIn)
			ctrl.web.Redirect(c, "/")
			return
		}
	}

	ctrl.logger.Warn("failed login attempt", zap.String("username", form.Username), zap.String("ip", web.ClientIP(c)))

	page := ctrl.web.NewPage(c, "Log in")
	page.Form = &form
	page.Errors = errs
	ctrl.web.Render(c, http.StatusOK, "login.html", page)
}

// logout drops the user from the session
func (ctrl *controller) logout(c *gin.Context) {
	user := web.User(c)

	if err := ctrl.web.Logout(c); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	if user != nil {
		ctrl.logger.Info("user logged out", zap.Stringer("user", user), zap.String("ip", web.ClientIP(c)))
	}
	ctrl.web.Flash(c, session.LevelInfo, msgLoggedOut)
	ctrl.web.Redirect(c, "/")
}

// setLanguage switches the interface language and goes back to next
func (ctrl *controller) setLanguage(c *gin.Context) {
	code := c.PostForm("language")
	if !ctrl.web.SetLanguage(c, code) {
		ctrl.logger.Warn("unsupported language requested", zap.String("language", code), zap.String("ip", web.ClientIP(c)))
	}
	ctrl.web.Redirect(c, web.SafeRedirectTarget(c.PostForm("next"), "/"))
}

// debugInfo reports the environment the server sees
func (ctrl *controller) debugInfo(c *gin.Context) {
	cfg := ctrl.web.Config()

	var provider any
	if p := utils.DetectHostingProvider(c.Request.Host); p != nil {
		provider = p
	}

	var username any
	if user := web.User(c); user != nil {
		username = user.Username
	}

	c.JSON(http.StatusOK, gin.H{
		"env": gin.H{
			"DEBUG":         cfg.Debug(),
			"ALLOWED_HOSTS": cfg.GetList("ALLOWED_HOSTS"),
			"TIMEZONE":      cfg.GetWithDefault("TIMEZONE", "UTC"),
			"LANGUAGE_CODE": ctrl.web.Catalog().Default(),
		},
		"request": gin.H{
			"host":       c.Request.Host,
			"path":       c.Request.URL.Path,
			"provider":   provider,
			"method":     c.Request.Method,
			"user_agent": c.Request.UserAgent(),
			"ip":         web.ClientIP(c),
			"lang":       web.Language(c),
			"user":       username,
		},
		"server": gin.H{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"go_version": runtime.Version(),
			"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		},
	})
}
