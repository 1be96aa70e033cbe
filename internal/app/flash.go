package app

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const flashCookie = "filmshelf_flash"

// Flash is a one-shot user-facing message, set on one response and consumed
// by the next render.
type Flash struct {
	Level   string // "success" or "error"
	Message string
}

func setFlash(c echo.Context, level, message string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(level + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the flash cookie.
func popFlash(c echo.Context) (Flash, bool) {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return Flash{}, false
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return Flash{}, false
	}
	level, message, ok := strings.Cut(value, "|")
	if !ok {
		return Flash{}, false
	}
	return Flash{Level: level, Message: message}, true
}
