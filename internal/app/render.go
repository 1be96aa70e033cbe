package app

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"filmshelf/internal/storage"
)

//go:embed view/*.html
var viewFS embed.FS

// renderer is the rendering collaborator behind echo's Renderer seam. The
// handlers only ever hand it a view name and a map of plain data; no markup
// is constructed outside the templates.
type renderer struct {
	templates *template.Template
}

func newRenderer() *renderer {
	return &renderer{
		templates: template.Must(template.ParseFS(viewFS, "view/*.html")),
	}
}

// Render satisfies [echo.Renderer].
func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// render executes a view with the ambient fields every page wants: the
// current principal, a popped flash message, and the CSRF token.
func (h handler) render(c echo.Context, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if flash, ok := popFlash(c); ok {
		data["Flash"] = flash
	}
	if user, ok := currentPrincipal(c); ok {
		data["User"] = user
	}
	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		data["CSRF"] = token
	}
	return c.Render(status, name, data)
}

func (h handler) renderBadGateway(c echo.Context) error {
	return h.render(c, 502, "502.html", map[string]any{"Title": "No Results"})
}

func (h handler) renderUnavailable(c echo.Context) error {
	return h.render(c, 503, "503.html", map[string]any{"Title": "Service Unavailable"})
}

func currentPrincipal(c echo.Context) (storage.User, bool) {
	user, ok := c.Get(principalKey).(storage.User)
	return user, ok
}
