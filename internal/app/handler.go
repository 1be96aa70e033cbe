package app

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"filmshelf/internal/auth"
	"filmshelf/internal/storage"
)

// Sample sizes the home page requests from each backend.
const (
	mongoSampleSize    = 50
	postgresSampleSize = 53
)

// handler carries the collaborators every route needs: the authentication
// workflow and one movie adapter per datastore.
type handler struct {
	auth     *auth.Service
	mongo    storage.Movies
	postgres storage.Movies
	logger   *slog.Logger
}

func (h handler) register(e *echo.Echo) {
	e.GET("/", h.home, h.requireAuthenticated)

	e.GET("/login", h.loginPage, h.requireAnonymous)
	e.POST("/login", h.login, h.requireAnonymous)
	e.GET("/logout", h.logout)
	e.DELETE("/logout", h.logout)
	e.GET("/register", h.registerPage, h.requireAnonymous)
	e.POST("/register", h.registerUser, h.requireAnonymous)
	e.GET("/account", h.account, h.requireAuthenticated)
	e.POST("/account", h.unsubscribe, h.requireAuthenticated)

	e.GET("/search/mongo", h.searchMongo, h.requireAuthenticated)
	e.GET("/search/mongo/:id", h.movieDetail(h.mongo), h.requireAuthenticated)
	e.GET("/search/postgres", h.searchPostgres, h.requireAuthenticated)
	e.GET("/search/postgres/:id", h.movieDetail(h.postgres), h.requireAuthenticated)
	e.GET("/movies/:id", h.movieByID, h.requireAuthenticated)

	e.GET("/allMongoMovies", h.allMovies(h.mongo, mongoSampleSize))
	e.GET("/allPostgresMovies", h.allMovies(h.postgres, postgresSampleSize))
}

// home fans out to both datastores for a random sample. An error from either
// adapter renders the 503 page; a backend that answers with nothing at all
// renders the 502 page.
func (h handler) home(c echo.Context) error {
	ctx := c.Request().Context()

	mongoMovies, err := h.mongo.Sample(ctx, mongoSampleSize)
	if err != nil {
		return h.renderUnavailable(c)
	}
	postgresMovies, err := h.postgres.Sample(ctx, postgresSampleSize)
	if err != nil {
		return h.renderUnavailable(c)
	}
	if len(mongoMovies) == 0 || len(postgresMovies) == 0 {
		return h.renderBadGateway(c)
	}

	return h.render(c, http.StatusOK, "home.html", map[string]any{
		"Title":          "Home",
		"MongoMovies":    mongoMovies,
		"PostgresMovies": postgresMovies,
	})
}

func (h handler) loginPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "login.html", map[string]any{"Title": "Login"})
}

func (h handler) login(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	if email == "" || password == "" {
		setFlash(c, "error", "Email and password are required")
		return c.Redirect(http.StatusFound, "/login")
	}

	sess, err := h.auth.Login(c.Request().Context(), email, password)
	switch {
	case errors.Is(err, auth.ErrNoSuchUser):
		setFlash(c, "error", "There is no user with email "+email)
		return c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, auth.ErrPasswordIncorrect):
		setFlash(c, "error", "Password Incorrect")
		return c.Redirect(http.StatusFound, "/login")
	case err != nil:
		setFlash(c, "error", "Oops, something went wrong")
		return c.Redirect(http.StatusFound, "/login")
	}

	setSessionCookie(c, sess)
	return c.Redirect(http.StatusFound, "/")
}

func (h handler) logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), sessionToken(c)); err != nil {
		h.logger.ErrorContext(c.Request().Context(), "logout failed", slog.Any("error", err))
	}
	clearSessionCookie(c)
	setFlash(c, "success", "Successfully logged out")
	return c.Redirect(http.StatusFound, "/login")
}

func (h handler) registerPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "register.html", map[string]any{"Title": "Register"})
}

func (h handler) registerUser(c echo.Context) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	password := c.FormValue("password")
	if name == "" || email == "" || password == "" {
		setFlash(c, "error", "Name, email and password are required")
		return c.Redirect(http.StatusFound, "/register")
	}

	err := h.auth.Register(c.Request().Context(), name, email, password)
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		setFlash(c, "error", "User with this email already exists")
		return c.Redirect(http.StatusFound, "/register")
	case err != nil:
		setFlash(c, "error", "Oops, something went wrong")
		return c.Redirect(http.StatusFound, "/register")
	}

	setFlash(c, "success", "User successfully created, please log in")
	return c.Redirect(http.StatusFound, "/login")
}

func (h handler) account(c echo.Context) error {
	return h.render(c, http.StatusOK, "account.html", map[string]any{"Title": "Account"})
}

// unsubscribe deletes the current principal's account, then ends the
// session. The principal comes from the gate, never from the form.
func (h handler) unsubscribe(c echo.Context) error {
	user, ok := currentPrincipal(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	if err := h.auth.Unsubscribe(c.Request().Context(), sessionToken(c), user.Email); err != nil {
		setFlash(c, "error", "Oops, something went wrong")
		return c.Redirect(http.StatusFound, "/account")
	}
	clearSessionCookie(c)
	setFlash(c, "success", "Successfully Unsubscribed")
	return c.Redirect(http.StatusFound, "/login")
}

func (h handler) searchMongo(c echo.Context) error {
	return h.search(c, h.mongo, "mongo")
}

func (h handler) searchPostgres(c echo.Context) error {
	return h.search(c, h.postgres, "postgres")
}

// search runs a title query against one adapter. A blank query never reaches
// the datastore; the user just lands back on the home page.
func (h handler) search(c echo.Context, movies storage.Movies, backend string) error {
	query := c.QueryParam("search")
	if query == "" {
		return c.Redirect(http.StatusFound, "/")
	}

	ctx := c.Request().Context()
	if user, ok := currentPrincipal(c); ok {
		h.logger.InfoContext(ctx, "movie search",
			slog.String("user", user.ID),
			slog.String("email", user.Email),
			slog.String("backend", backend),
			slog.String("query", query),
		)
	}

	results, err := movies.SearchByTitle(ctx, query)
	if err != nil {
		return h.renderUnavailable(c)
	}
	return h.render(c, http.StatusOK, "search.html", map[string]any{
		"Title":   "Search",
		"Query":   query,
		"Backend": backend,
		"Movies":  results,
	})
}

// movieDetail renders one movie from a fixed adapter. A malformed id is
// rejected before any datastore round trip.
func (h handler) movieDetail(movies storage.Movies) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.detail(c, movies, c.Param("id"))
	}
}

// movieByID is the generic detail route: an id containing any non-digit rune
// is treated as a document id and dispatched to the Mongo adapter, a purely
// numeric id goes to Postgres.
func (h handler) movieByID(c echo.Context) error {
	id := c.Param("id")
	if isNumeric(id) {
		return h.detail(c, h.postgres, id)
	}
	return h.detail(c, h.mongo, id)
}

func (h handler) detail(c echo.Context, movies storage.Movies, id string) error {
	movie, err := movies.GetByID(c.Request().Context(), id)
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		setFlash(c, "error", "Invalid movie id")
		return c.Redirect(http.StatusFound, "/")
	case errors.Is(err, storage.ErrNotFound):
		return h.renderBadGateway(c)
	case err != nil:
		return h.renderUnavailable(c)
	}
	return h.render(c, http.StatusOK, "movie.html", map[string]any{
		"Title": movie.Title,
		"Movie": movie,
	})
}

// allMovies serves a raw JSON sample from one adapter. These routes predate
// the session gate and stay open.
func (h handler) allMovies(movies storage.Movies, n int) echo.HandlerFunc {
	return func(c echo.Context) error {
		results, err := movies.Sample(c.Request().Context(), n)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "service unavailable"})
		}
		if len(results) == 0 {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "no movies found"})
		}
		return c.JSON(http.StatusOK, results)
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
