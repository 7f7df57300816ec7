package webapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core/course"
)

type (
	dashboardCourse struct {
		course.Course
		CanEdit bool `json:"can_edit"`
	}

	coursePage struct {
		Course      course.Course      `json:"course"`
		Permissions course.Permissions `json:"permissions"`
		Filter      course.Filter      `json:"filter"`
		Lessons     course.Page        `json:"lessons"`
	}

	courseForm struct {
		Course course.Course     `json:"course"`
		Data   course.CourseData `json:"data"`
	}

	instructorRequest struct {
		InstructorID course.ID `json:"instructor_id" form:"instructor_id"`
	}
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(app *echo.Echo, auth echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	app.GET(homePath, api.dashboard, auth)

	cg := app.Group("/courses", auth)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.GET("/edit", api.edit)
	dg.PUT("", api.update)
	dg.POST("/instructors", api.addInstructor)
	dg.DELETE("/instructors/:instructorId", api.removeInstructor)
}

// contextService returns the course service reporting to the request session.
func contextService(ctx echo.Context, svc *course.Service) *course.Service {
	return svc.WithNotifier(getContextNotifier(ctx))
}

// queryPage reads the `page` query param; the first page when absent or invalid.
func queryPage(ctx echo.Context) int {
	page, err := strconv.Atoi(ctx.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func confirmed(ctx echo.Context) course.Confirmer {
	ok, _ := strconv.ParseBool(ctx.QueryParam("confirm"))
	return course.ConfirmFunc(func(string) bool { return ok })
}

func newCoursePage(view *course.CourseView) coursePage {
	return coursePage{
		Course:      view.Course(),
		Permissions: view.Permissions(),
		Filter:      view.Filter(),
		Lessons:     view.Page(),
	}
}

// openCourseView loads the course of the `:id` param, with the filter & page of the query.
// The caller must close the view.
func openCourseView(ctx echo.Context, svc *course.Service, usr course.User) (*course.CourseView, error) {
	var filter course.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return nil, errors.Wrap(err, "binding to Filter")
	}

	view := contextService(ctx, svc).NewCourseView(usr.ID)
	if err := view.Load(ctx.Request().Context(), course.NewID(ctx.Param("id"))); err != nil {
		view.Close()
		return nil, err
	}
	view.SetFilter(filter)
	view.SetPage(queryPage(ctx))
	return view, nil
}

// Handlers

func (api *courseApi) dashboard(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	courses, err := contextService(ctx, api.svc).MyCourses(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "loading my courses")
	}

	data := make([]dashboardCourse, 0, len(courses))
	for _, c := range courses {
		data = append(data, dashboardCourse{Course: c, CanEdit: course.CanEditCourse(c, usr.ID)})
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *courseApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data course.CourseData
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CourseData")
	}

	c, err := contextService(ctx, api.svc).CreateCourse(ctx.Request().Context(), data, usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	view, err := openCourseView(ctx, api.svc, usr)
	if err != nil {
		if errors.Cause(err) == course.ErrAccessDenied {
			return redirect(ctx, accessDeniedPath)
		}
		return errors.Wrap(err, "loading course")
	}
	defer view.Close()
	return ctx.JSON(http.StatusOK, newCoursePage(view))
}

func (api *courseApi) edit(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	c, err := contextService(ctx, api.svc).CourseForEdit(ctx.Request().Context(), course.NewID(ctx.Param("id")), usr.ID)
	if err != nil {
		if errors.Cause(err) == course.ErrAccessDenied {
			return redirect(ctx, homePath)
		}
		return errors.Wrap(err, "loading course")
	}
	return ctx.JSON(http.StatusOK, courseForm{
		Course: c,
		Data: course.CourseData{
			Name:        c.Name,
			Description: c.Description,
			StartDate:   c.StartDate,
			EndDate:     c.EndDate,
		},
	})
}

func (api *courseApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data course.CourseData
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CourseData")
	}

	c, err := contextService(ctx, api.svc).UpdateCourse(ctx.Request().Context(), course.NewID(ctx.Param("id")), data, usr.ID)
	if err != nil {
		if errors.Cause(err) == course.ErrAccessDenied {
			return redirect(ctx, homePath)
		}
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

// addInstructor adds the posted instructor, or a random one when none is given.
func (api *courseApi) addInstructor(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data instructorRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to instructorRequest")
	}

	view, err := openCourseView(ctx, api.svc, usr)
	if err != nil {
		return err
	}
	defer view.Close()

	reqCtx := ctx.Request().Context()
	if data.InstructorID.IsZero() {
		err = view.AddRandomInstructor(reqCtx)
	} else {
		err = view.AddInstructor(reqCtx, data.InstructorID)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view.Course())
}

func (api *courseApi) removeInstructor(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	view, err := openCourseView(ctx, api.svc, usr)
	if err != nil {
		return err
	}
	defer view.Close()

	if err = view.RemoveInstructor(ctx.Request().Context(), course.NewID(ctx.Param("instructorId")), confirmed(ctx)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view.Course())
}
