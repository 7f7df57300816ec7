package course

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
)

// FlowState is the state of a lesson form.
type FlowState int

const (
	StateIdle FlowState = iota
	StateLoading
	StateReady
	StateSubmitting
	StateSucceeded
	// StateFailed keeps the form open; it can be submitted again.
	StateFailed
	// StateAborted means the form could not be opened.
	StateAborted
)

var flowStateNames = map[FlowState]string{
	StateIdle:       "idle",
	StateLoading:    "loading",
	StateReady:      "ready",
	StateSubmitting: "submitting",
	StateSucceeded:  "succeeded",
	StateFailed:     "failed",
	StateAborted:    "aborted",
}

func (s FlowState) String() string {
	if name, ok := flowStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// LessonFlow drives the creation (empty lesson id) or the edition of a lesson:
// Idle -> Loading -> Ready -> Submitting -> Succeeded | Failed -> Submitting ...
type LessonFlow struct {
	svc      *Service
	courseID ID
	lessonID ID
	userID   ID

	mu     sync.Mutex
	state  FlowState
	course Course
	lesson Lesson
	err    error
}

func (svc *Service) NewLessonFlow(courseID, lessonID, userID ID) *LessonFlow {
	return &LessonFlow{
		svc:      svc,
		courseID: NewID(string(courseID)),
		lessonID: NewID(string(lessonID)),
		userID:   NewID(string(userID)),
	}
}

func (f *LessonFlow) Editing() bool { return !f.lessonID.IsZero() }

func (f *LessonFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err is the error that moved the flow to Failed or Aborted.
func (f *LessonFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *LessonFlow) Course() Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.course.Clone()
}

// Lesson is the lesson being edited, or the lesson saved by a successful submit.
func (f *LessonFlow) Lesson() Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lesson
}

// Data returns the form prefill.
func (f *LessonFlow) Data() LessonData {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lesson.ID.IsZero() {
		return LessonData{Status: StatusDraft}
	}
	return LessonData{
		Title:       f.lesson.Title,
		Status:      f.lesson.Status,
		PublishDate: f.lesson.PublishDate,
		VideoURL:    f.lesson.VideoURL,
	}
}

func (f *LessonFlow) transition(from []FlowState, to FlowState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range from {
		if f.state == s {
			f.state = to
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidTransition, "%s -> %s", f.state, to)
}

func (f *LessonFlow) settle(state FlowState, err error) {
	f.mu.Lock()
	f.state = state
	f.err = err
	f.mu.Unlock()
}

// Load fetches the course (and the lesson when editing) and checks the user may use the form.
func (f *LessonFlow) Load(ctx context.Context) error {
	if err := f.transition([]FlowState{StateIdle}, StateLoading); err != nil {
		return err
	}
	svc := f.svc

	c, err := svc.repo.GetCourse(ctx, f.courseID)
	if err != nil {
		svc.notify(core.LevelError, msgDataLoadError)
		err = errors.Wrap(err, "getting course")
		f.settle(StateAborted, err)
		return err
	}
	if !CanCreateLesson(c, f.userID) {
		svc.notify(core.LevelError, msgNoPageAccess)
		f.settle(StateAborted, ErrAccessDenied)
		return ErrAccessDenied
	}

	var l Lesson
	if f.Editing() {
		l, err = svc.repo.GetLesson(ctx, f.lessonID)
		if err == nil && l.CourseID != c.ID {
			err = ErrNotFound
		}
		if err != nil {
			svc.notify(core.LevelError, msgDataLoadError)
			err = errors.Wrap(err, "getting lesson")
			f.settle(StateAborted, err)
			return err
		}
		if !CanEditOrDeleteLesson(l, c, f.userID) {
			svc.notify(core.LevelError, msgNoLessonAccess)
			f.settle(StateAborted, ErrLessonAccessDenied)
			return ErrLessonAccessDenied
		}
	}

	f.mu.Lock()
	f.course = c
	f.lesson = l
	f.state = StateReady
	f.mu.Unlock()
	return nil
}

// Submit validates data then saves the lesson. Invalid data leaves the flow Ready.
func (f *LessonFlow) Submit(ctx context.Context, data LessonData) (Lesson, error) {
	f.mu.Lock()
	state := f.state
	f.mu.Unlock()
	if state != StateReady && state != StateFailed {
		return Lesson{}, errors.Wrapf(ErrInvalidTransition, "submit from %s", state)
	}
	if err := data.Validate(f.svc.validate); err != nil {
		return Lesson{}, err
	}
	if err := f.transition([]FlowState{StateReady, StateFailed}, StateSubmitting); err != nil {
		return Lesson{}, err
	}

	l := f.Lesson()
	l.CourseID = f.courseID
	l.Title = data.Title
	l.Status = data.Status
	l.PublishDate = data.PublishDate
	l.VideoURL = data.VideoURL

	var (
		saved Lesson
		err   error
		msg   = msgLessonCreated
	)
	if f.Editing() {
		msg = msgLessonUpdated
		saved, err = f.svc.repo.UpdateLesson(ctx, l)
	} else {
		l.CreatorID = f.userID
		saved, err = f.svc.repo.CreateLesson(ctx, l)
	}
	if err != nil {
		f.svc.notify(core.LevelError, msgLessonSaveError)
		err = errors.Wrap(err, "saving lesson")
		f.settle(StateFailed, err)
		return Lesson{}, err
	}

	f.svc.notify(core.LevelSuccess, msg)
	f.mu.Lock()
	f.lesson = saved
	f.state = StateSucceeded
	f.err = nil
	f.mu.Unlock()
	return saved, nil
}
