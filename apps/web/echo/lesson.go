package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core/course"
)

type lessonForm struct {
	Course   course.Course     `json:"course"`
	Lesson   *lessonResponse   `json:"lesson"`
	Data     course.LessonData `json:"data"`
	Statuses []course.Status   `json:"statuses"`
}

type lessonResponse struct {
	course.Lesson
	EmbedURL string `json:"embed_url"`
}

func newLessonResponse(l course.Lesson) *lessonResponse {
	return &lessonResponse{Lesson: l, EmbedURL: l.EmbedURL()}
}

type lessonApi struct {
	svc *course.Service
}

func registerLessonAPI(app *echo.Echo, auth echo.MiddlewareFunc, svc *course.Service) {
	api := lessonApi{svc: svc}

	lg := app.Group("/courses/:id/lessons", auth)
	lg.GET("/new", api.newForm)
	lg.POST("", api.create)

	// detail endpoints
	lg.GET("/:lessonId/edit", api.editForm)
	lg.PUT("/:lessonId", api.update)
	lg.DELETE("/:lessonId", api.destroy)
}

// lessonRedirect sends users away from a lesson form they may not use.
func lessonRedirect(ctx echo.Context, err error) (bool, error) {
	switch errors.Cause(err) {
	case course.ErrAccessDenied:
		return true, redirect(ctx, homePath)
	case course.ErrLessonAccessDenied:
		return true, redirect(ctx, "/courses/"+course.NewID(ctx.Param("id")).String())
	}
	return false, nil
}

func (api *lessonApi) form(ctx echo.Context, lessonID course.ID) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	flow, err := contextService(ctx, api.svc).OpenLessonForm(
		ctx.Request().Context(), course.NewID(ctx.Param("id")), lessonID, usr.ID,
	)
	if err != nil {
		if ok, rErr := lessonRedirect(ctx, err); ok {
			return rErr
		}
		return errors.Wrap(err, "opening lesson form")
	}

	form := lessonForm{
		Course:   flow.Course(),
		Data:     flow.Data(),
		Statuses: course.Statuses,
	}
	if flow.Editing() {
		form.Lesson = newLessonResponse(flow.Lesson())
	}
	return ctx.JSON(http.StatusOK, form)
}

// Handlers

func (api *lessonApi) newForm(ctx echo.Context) error {
	return api.form(ctx, "")
}

func (api *lessonApi) editForm(ctx echo.Context) error {
	return api.form(ctx, course.NewID(ctx.Param("lessonId")))
}

func (api *lessonApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data course.LessonData
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LessonData")
	}

	l, err := contextService(ctx, api.svc).CreateLesson(ctx.Request().Context(), course.NewID(ctx.Param("id")), data, usr.ID)
	if err != nil {
		if ok, rErr := lessonRedirect(ctx, err); ok {
			return rErr
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, newLessonResponse(l))
}

func (api *lessonApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data course.LessonData
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LessonData")
	}

	l, err := contextService(ctx, api.svc).UpdateLesson(
		ctx.Request().Context(), course.NewID(ctx.Param("id")), course.NewID(ctx.Param("lessonId")), data, usr.ID,
	)
	if err != nil {
		if ok, rErr := lessonRedirect(ctx, err); ok {
			return rErr
		}
		return err
	}
	return ctx.JSON(http.StatusOK, newLessonResponse(l))
}

// destroy deletes a lesson and returns the course page it was on, re-clamped.
func (api *lessonApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	view, err := openCourseView(ctx, api.svc, usr)
	if err != nil {
		return err
	}
	defer view.Close()

	if err = view.DeleteLesson(ctx.Request().Context(), course.NewID(ctx.Param("lessonId")), confirmed(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newCoursePage(view))
}
