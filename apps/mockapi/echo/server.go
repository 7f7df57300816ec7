// Package mockapi serves the REST contract of the course store from an in-memory database.
package mockapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	inmemdb "github.com/trezcool/coursesphere/storage/database/inmem"
)

type Deps struct {
	Conf   *core.Config
	Logger core.Logger
	Repo   *inmemdb.Repository
}

type api struct {
	repo *inmemdb.Repository
}

// NewApp returns the echo app of the mock store.
func NewApp(deps Deps) *echo.Echo {
	app := echo.New()
	app.HideBanner = true
	app.Debug = deps.Conf.Debug

	app.Pre(middleware.RemoveTrailingSlash())
	app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !deps.Conf.TestMode {
		app.Use(middleware.Logger())
	}
	app.Use(middleware.CORS())
	app.Use(middleware.Recover())
	app.HTTPErrorHandler = newHTTPErrorHandler(deps.Logger)

	a := &api{repo: deps.Repo}
	app.GET("/users", a.queryUsers)

	app.GET("/courses", a.queryCourses)
	app.POST("/courses", a.createCourse)
	app.GET("/courses/:id", a.retrieveCourse)
	app.PUT("/courses/:id", a.updateCourse)

	app.GET("/lessons", a.queryLessons)
	app.POST("/lessons", a.createLesson)
	app.GET("/lessons/:id", a.retrieveLesson)
	app.PUT("/lessons/:id", a.updateLesson)
	app.DELETE("/lessons/:id", a.destroyLesson)
	return app
}

func newHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		var body interface{} = echo.Map{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			body = echo.Map{"error": origErr.Message}
		default:
			if origErr == course.ErrNotFound {
				code = http.StatusNotFound
				break
			}
			logger.Error(http.StatusText(code), err)
			body = echo.Map{"error": http.StatusText(code)}
		}

		if !ctx.Response().Committed {
			if err = ctx.JSON(code, body); err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// the store filters users on both fields, and returns nothing when one is missing
func (a *api) queryUsers(ctx echo.Context) error {
	email, password := ctx.QueryParam("email"), ctx.QueryParam("password")
	if email == "" || password == "" {
		return ctx.JSON(http.StatusOK, []course.User{})
	}
	users, err := a.repo.FindUsersByCredentials(ctx.Request().Context(), email, password)
	if err != nil {
		return errors.Wrap(err, "finding users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (a *api) queryCourses(ctx echo.Context) error {
	courses, err := a.repo.QueryCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (a *api) retrieveCourse(ctx echo.Context) error {
	c, err := a.repo.GetCourse(ctx.Request().Context(), course.NewID(ctx.Param("id")))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (a *api) createCourse(ctx echo.Context) error {
	var c course.Course
	if err := ctx.Bind(&c); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	c, err := a.repo.CreateCourse(ctx.Request().Context(), c)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (a *api) updateCourse(ctx echo.Context) error {
	var c course.Course
	if err := ctx.Bind(&c); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	c.ID = course.NewID(ctx.Param("id"))
	c, err := a.repo.UpdateCourse(ctx.Request().Context(), c)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (a *api) queryLessons(ctx echo.Context) error {
	lessons, err := a.repo.QueryLessons(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	if courseID := ctx.QueryParam("course_id"); courseID != "" {
		lessons = course.LessonsForCourse(lessons, course.NewID(courseID))
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (a *api) retrieveLesson(ctx echo.Context) error {
	l, err := a.repo.GetLesson(ctx.Request().Context(), course.NewID(ctx.Param("id")))
	if err != nil {
		return errors.Wrap(err, "getting lesson")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (a *api) createLesson(ctx echo.Context) error {
	var l course.Lesson
	if err := ctx.Bind(&l); err != nil {
		return errors.Wrap(err, "binding to Lesson")
	}
	l, err := a.repo.CreateLesson(ctx.Request().Context(), l)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (a *api) updateLesson(ctx echo.Context) error {
	var l course.Lesson
	if err := ctx.Bind(&l); err != nil {
		return errors.Wrap(err, "binding to Lesson")
	}
	l.ID = course.NewID(ctx.Param("id"))
	l, err := a.repo.UpdateLesson(ctx.Request().Context(), l)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (a *api) destroyLesson(ctx echo.Context) error {
	if err := a.repo.DeleteLesson(ctx.Request().Context(), course.NewID(ctx.Param("id"))); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.JSON(http.StatusOK, echo.Map{})
}
