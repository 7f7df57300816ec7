package course_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	testutil "github.com/trezcool/coursesphere/tests"
)

func TestCourseView_Load(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	view := f.svc.NewCourseView(testutil.Bob.ID)
	defer view.Close()
	assert.False(t, view.Loaded())

	require.NoError(t, view.Load(ctx, "1"))
	assert.True(t, view.Loaded())
	assert.Equal(t, f.course(t, "1"), view.Course())
	assert.Equal(t, course.RoleInstructor, view.Permissions().Role)

	page := view.Page()
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 6, page.Total)
	assert.Len(t, page.Lessons, 5)

	view.SetPage(2)
	assert.Equal(t, course.ID("6"), view.Page().Lessons[0].ID)

	// a new filter goes back to the first page
	view.SetFilter(course.Filter{Status: " Draft "})
	assert.Equal(t, course.Filter{Status: course.StatusDraft}, view.Filter())
	page = view.Page()
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.Total)

	view.SetPage(5)
	assert.Equal(t, 1, view.Page().Number)

	// reloading drops the filter
	require.NoError(t, view.Load(ctx, "1"))
	assert.Equal(t, course.Filter{}, view.Filter())
	assert.Equal(t, 6, view.Page().Total)

	l, ok := view.Lesson(" 3")
	assert.True(t, ok)
	assert.Equal(t, "Control flow", l.Title)
	_, ok = view.Lesson("7")
	assert.False(t, ok)
}

func TestCourseView_LoadDenied(t *testing.T) {
	f := setup(t)
	view := f.svc.NewCourseView(testutil.Dave.ID)
	defer view.Close()

	err := view.Load(context.Background(), "1")
	assert.Equal(t, course.ErrAccessDenied, errors.Cause(err))
	assert.False(t, view.Loaded())
	assert.Equal(t, course.ErrNotFound, view.AddInstructor(context.Background(), testutil.Dave.ID))
}

func TestCourseView_StaleLoad(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	view := f.svc.NewCourseView(testutil.Alice.ID)
	defer view.Close()

	entered, release := f.repo.holdOn("QueryLessons")
	defer release()

	first := make(chan error, 1)
	go func() { first <- view.Load(ctx, "2") }()
	<-entered

	require.NoError(t, view.Load(ctx, "1"))
	release()

	assert.Equal(t, course.ErrStaleView, <-first)
	assert.Equal(t, course.ID("1"), view.Course().ID)
	assert.Equal(t, course.RoleCreator, view.Permissions().Role)
	assert.Equal(t, 6, view.Page().Total)
}

func TestCourseView_Close(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	view := f.svc.NewCourseView(testutil.Alice.ID)
	require.NoError(t, view.Load(ctx, "1"))

	entered, release := f.repo.holdOn("UpdateCourse")
	defer release()

	done := make(chan error, 1)
	go func() { done <- view.AddInstructor(ctx, testutil.Dave.ID) }()
	<-entered

	view.Close()
	release()

	// the write went through, the closed view ignores its result
	require.NoError(t, <-done)
	assert.False(t, view.Course().Instructors.Contains(testutil.Dave.ID))
	assert.True(t, f.course(t, "1").Instructors.Contains(testutil.Dave.ID))

	assert.Equal(t, course.ErrStaleView, view.Load(ctx, "1"))
	assert.Equal(t, course.ErrStaleView, view.AddRandomInstructor(ctx))
}

func TestCourseView_Instructors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	view := f.svc.NewCourseView(testutil.Alice.ID)
	defer view.Close()
	require.NoError(t, view.Load(ctx, "1"))

	require.NoError(t, view.AddInstructor(ctx, testutil.Dave.ID))
	assert.Equal(t, []course.ID{testutil.Bob.ID, testutil.Dave.ID}, view.Course().Instructors.Slice())

	assert.Equal(t, course.ErrDuplicateEntry, view.AddInstructor(ctx, "4"))
	assert.Equal(t, 1, f.repo.writeCount())

	require.NoError(t, view.AddRandomInstructor(ctx))
	require.NoError(t, view.RemoveInstructor(ctx, testutil.Bob.ID, course.Confirmed))
	assert.Equal(t, []course.ID{testutil.Dave.ID, "placeholder-1"}, view.Course().Instructors.Slice())
	assert.Equal(t, view.Course(), f.course(t, "1"))

	assert.Equal(t, course.ErrNotConfirmed, view.RemoveInstructor(ctx, testutil.Dave.ID, course.Declined))
}

func TestCourseView_DeleteLesson(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	view := f.svc.NewCourseView(testutil.Alice.ID)
	defer view.Close()
	require.NoError(t, view.Load(ctx, "1"))

	// 6 lessons: the last one is alone on page 2
	view.SetPage(2)
	require.Equal(t, 2, view.Page().Number)

	f.notes.Drain()
	require.NoError(t, view.DeleteLesson(ctx, "6", course.Confirmed))
	page := view.Page()
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, note(core.LevelSuccess, "Lesson deleted"), f.notes.Drain())

	assert.Equal(t, course.ErrNotFound, view.DeleteLesson(ctx, "6", course.Confirmed))
	assert.Equal(t, course.ErrNotConfirmed, view.DeleteLesson(ctx, "5", course.Declined))
	assert.Equal(t, 5, view.Page().Total)

	f.repo.failOn("DeleteLesson", errStoreDown)
	assert.True(t, core.IsNetworkError(view.DeleteLesson(ctx, "5", course.Confirmed)))
	assert.Equal(t, 5, view.Page().Total)
}
