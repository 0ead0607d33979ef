package httpapi

import (
	"net/http"
	"time"
)

// SessionCookieName is the browser session cookie.
const SessionCookieName = "_devhub_session"

// rememberDuration is the cookie lifetime when the client asks to be
// remembered; otherwise the cookie is session-scoped.
const rememberDuration = 14 * 24 * time.Hour

// CookiePolicy builds the session Set-Cookie header in one step with the
// final attribute set, so no later pass needs to rewrite it. Production
// gets Secure + SameSite=None (the SPA runs on another origin); everything
// else gets SameSite=Lax without Secure.
type CookiePolicy struct {
	Domain     string
	Production bool
}

// SessionCookie returns the cookie carrying the persistence token.
func (p CookiePolicy) SessionCookie(value string, remember bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: http.SameSiteLaxMode,
		Domain:   p.Domain,
	}
	if p.Production {
		cookie.SameSite = http.SameSiteNoneMode
	}
	if remember {
		cookie.Expires = time.Now().Add(rememberDuration)
	}
	return cookie
}

// ClearCookie returns a cookie that removes the session cookie.
func (p CookiePolicy) ClearCookie() *http.Cookie {
	cookie := p.SessionCookie("", false)
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	return cookie
}
