package web

import (
	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
)

const (
	sessionKey  = "web.session"
	userKey     = "web.user"
	languageKey = "web.language"
)

// Session returns the session loaded by the session middleware
func Session(c *gin.Context) *session.Session {
	value, _ := c.Get(sessionKey)
	sess, _ := value.(*session.Session)
	return sess
}

// User returns the logged in user or nil
func User(c *gin.Context) *tracker.User {
	value, _ := c.Get(userKey)
	user, _ := value.(*tracker.User)
	return user
}

// Language returns the interface language of the request
func Language(c *gin.Context) string {
	return c.GetString(languageKey)
}

// ClientIP returns the address used in log lines. Forwarded headers are
// honoured only from the engine's trusted proxies
func ClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
