package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"filmshelf/internal/session"
	"filmshelf/internal/storage"
)

// Context keys for the resolved principal and its session.
const (
	principalKey = "principal"
	sessionKey   = "session"
)

// requireAuthenticated passes the request through only when a valid,
// non-expired session with a resolvable principal is attached; anyone else
// is redirected to the login page without the guarded handler running. The
// principal rides on the request context, never on shared state.
func (h handler) requireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, sess, err := h.resolveSession(c)
		if err != nil {
			clearSessionCookie(c)
			return c.Redirect(http.StatusFound, "/login")
		}
		c.Set(principalKey, user)
		c.Set(sessionKey, sess)
		setSessionCookie(c, sess)
		return next(c)
	}
}

// requireAnonymous is the inverse gate: it keeps already-authenticated
// principals off the login and registration pages.
func (h handler) requireAnonymous(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, sess, err := h.resolveSession(c); err == nil {
			c.Set(principalKey, user)
			c.Set(sessionKey, sess)
			return c.Redirect(http.StatusFound, "/")
		}
		return next(c)
	}
}

// resolveSession resolves the session cookie to a principal. Resolution is
// synchronous; the gate never authorizes against a stale principal.
func (h handler) resolveSession(c echo.Context) (storage.User, session.Session, error) {
	return h.auth.Resolve(c.Request().Context(), sessionToken(c))
}

func sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(c echo.Context, sess session.Session) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
