// Package webapi is the HTTP front end: it owns the browser session, enforces the access
// rules and serves the course & lesson pages as JSON.
package webapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
)

const (
	homePath         = "/"
	loginPath        = "/login"
	accessDeniedPath = "/access-denied"
)

type Deps struct {
	Conf           *core.Config
	Logger         core.Logger
	CourseSvc      *course.Service
	Sessions       sessions.Store
	Translator     ut.Translator
	SignalShutdown func()
}

// NewApp returns the echo app of the web front end.
func NewApp(deps Deps) *echo.Echo {
	conf := deps.Conf
	app := echo.New()
	app.HideBanner = true
	app.Debug = conf.Debug

	app.Pre(middleware.RemoveTrailingSlash())
	app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.TestMode {
		app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowCredentials: true,
	}))
	app.Use(sessionMiddleware(deps.Sessions, conf.Session.CookieName, deps.Logger))

	app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, deps.SignalShutdown)

	tokens := newTokenIssuer(conf)
	auth := authMiddleware(tokens)

	registerUserAPI(app, auth, deps.CourseSvc, tokens)
	registerCourseAPI(app, auth, deps.CourseSvc)
	registerLessonAPI(app, auth, deps.CourseSvc)
	return app
}

func accessDenied(ctx echo.Context) error {
	return errHttpForbidden
}

func redirect(ctx echo.Context, path string) error {
	return ctx.Redirect(http.StatusSeeOther, path)
}
