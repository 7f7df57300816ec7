package course_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	inmemdb "github.com/trezcool/coursesphere/storage/database/inmem"
	testutil "github.com/trezcool/coursesphere/tests"
)

var errStoreDown = core.NewNetworkError("GET /test", 503, errors.New("service unavailable"))

// spyRepo counts writes and can fail or hold any call by name.
type spyRepo struct {
	course.Repository
	db *inmemdb.DB

	mu     sync.Mutex
	writes int
	fail   map[string]error
	hold   map[string]*gate
}

type gate struct {
	entered chan struct{}
	open    chan struct{}
}

func newSpyRepo(t *testing.T) *spyRepo {
	db, repo := testutil.NewDB(t)
	return &spyRepo{Repository: repo, db: db, fail: map[string]error{}, hold: map[string]*gate{}}
}

func (r *spyRepo) call(name string, write bool) error {
	r.mu.Lock()
	if write {
		r.writes++
	}
	err, g := r.fail[name], r.hold[name]
	delete(r.hold, name)
	r.mu.Unlock()

	if g != nil {
		close(g.entered)
		<-g.open
	}
	return err
}

func (r *spyRepo) failOn(name string, err error) {
	r.mu.Lock()
	r.fail[name] = err
	r.mu.Unlock()
}

// holdOn blocks the next call to name until release is called.
// entered is closed once that call is blocked.
func (r *spyRepo) holdOn(name string) (entered <-chan struct{}, release func()) {
	g := &gate{entered: make(chan struct{}), open: make(chan struct{})}
	r.mu.Lock()
	r.hold[name] = g
	r.mu.Unlock()

	var once sync.Once
	return g.entered, func() { once.Do(func() { close(g.open) }) }
}

func (r *spyRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *spyRepo) FindUsersByCredentials(ctx context.Context, email, password string) ([]course.User, error) {
	if err := r.call("FindUsersByCredentials", false); err != nil {
		return nil, err
	}
	return r.Repository.FindUsersByCredentials(ctx, email, password)
}

func (r *spyRepo) QueryCourses(ctx context.Context) ([]course.Course, error) {
	if err := r.call("QueryCourses", false); err != nil {
		return nil, err
	}
	return r.Repository.QueryCourses(ctx)
}

func (r *spyRepo) GetCourse(ctx context.Context, id course.ID) (course.Course, error) {
	if err := r.call("GetCourse", false); err != nil {
		return course.Course{}, err
	}
	return r.Repository.GetCourse(ctx, id)
}

func (r *spyRepo) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	if err := r.call("CreateCourse", true); err != nil {
		return course.Course{}, err
	}
	return r.Repository.CreateCourse(ctx, c)
}

func (r *spyRepo) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	if err := r.call("UpdateCourse", true); err != nil {
		return course.Course{}, err
	}
	return r.Repository.UpdateCourse(ctx, c)
}

func (r *spyRepo) QueryLessons(ctx context.Context) ([]course.Lesson, error) {
	if err := r.call("QueryLessons", false); err != nil {
		return nil, err
	}
	return r.Repository.QueryLessons(ctx)
}

func (r *spyRepo) GetLesson(ctx context.Context, id course.ID) (course.Lesson, error) {
	if err := r.call("GetLesson", false); err != nil {
		return course.Lesson{}, err
	}
	return r.Repository.GetLesson(ctx, id)
}

func (r *spyRepo) CreateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	if err := r.call("CreateLesson", true); err != nil {
		return course.Lesson{}, err
	}
	return r.Repository.CreateLesson(ctx, l)
}

func (r *spyRepo) UpdateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	if err := r.call("UpdateLesson", true); err != nil {
		return course.Lesson{}, err
	}
	return r.Repository.UpdateLesson(ctx, l)
}

func (r *spyRepo) DeleteLesson(ctx context.Context, id course.ID) error {
	if err := r.call("DeleteLesson", true); err != nil {
		return err
	}
	return r.Repository.DeleteLesson(ctx, id)
}

type fixture struct {
	repo  *spyRepo
	svc   *course.Service
	notes *core.NotificationRecorder
}

func setup(t *testing.T) *fixture {
	testutil.FreezeTime(t)
	repo := newSpyRepo(t)
	validate, _ := testutil.NewValidator()
	notes := new(core.NotificationRecorder)
	svc := course.NewService(repo, testutil.StaticIdentities("placeholder-1"), validate).WithNotifier(notes)
	return &fixture{repo: repo, svc: svc, notes: notes}
}

func (f *fixture) course(t *testing.T, id course.ID) course.Course {
	t.Helper()
	c, err := f.repo.Repository.GetCourse(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCourse(%s) failed: %v", id, err)
	}
	return c
}

func note(level core.Level, msg string) []core.Notification {
	return []core.Notification{{Level: level, Message: msg}}
}
