package web

import (
	"time"

	"github.com/gorilla/securecookie"
)

// newCookieCodec signs cookie values with the secret key. Values older than
// maxAge no longer decode
func newCookieCodec(secret []byte, maxAge time.Duration) *securecookie.SecureCookie {
	return securecookie.New(secret, nil).MaxAge(int(maxAge.Seconds()))
}

// encodeSessionID signs a session id for the session cookie
func (w *Web) encodeSessionID(id string) (string, error) {
	return w.cookies.Encode(SessionCookie, id)
}

// decodeSessionID returns the session id of a cookie when its signature and
// age check out
func (w *Web) decodeSessionID(value string) (string, bool) {
	var id string
	if err := w.cookies.Decode(SessionCookie, value, &id); err != nil {
		return "", false
	}
	return id, true
}
