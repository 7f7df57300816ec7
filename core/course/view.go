package course

import (
	"context"
	"sync"
)

// CourseView is the state behind one open course page: the course, its lessons,
// the active filter and the current page.
//
// Every Load starts a new generation; a response belonging to an older generation,
// or arriving after Close, is discarded.
type CourseView struct {
	svc    *Service
	userID ID

	mu      sync.Mutex
	gen     uint64
	closed  bool
	loaded  bool
	course  Course
	perms   Permissions
	lessons []Lesson
	filter  Filter
	pages   PageState
}

func (svc *Service) NewCourseView(userID ID) *CourseView {
	return &CourseView{
		svc:    svc,
		userID: NewID(string(userID)),
		pages:  NewPageState(),
	}
}

// Load fetches courseID and its lessons, resetting the filter & the page.
func (v *CourseView) Load(ctx context.Context, courseID ID) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrStaleView
	}
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	d, err := v.svc.CourseDetails(ctx, courseID, v.userID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		return ErrStaleView
	}
	if err != nil {
		return err
	}
	v.loaded = true
	v.course = d.Course
	v.perms = d.Permissions
	v.lessons = d.Lessons
	v.filter = Filter{}
	v.pages.Reset()
	return nil
}

// Close discards every pending response.
func (v *CourseView) Close() {
	v.mu.Lock()
	v.closed = true
	v.gen++
	v.mu.Unlock()
}

func (v *CourseView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

func (v *CourseView) Course() Course {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.course.Clone()
}

func (v *CourseView) Permissions() Permissions {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.perms
}

func (v *CourseView) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Lesson returns the loaded lesson with the given id.
func (v *CourseView) Lesson(id ID) (Lesson, bool) {
	id = NewID(string(id))
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, l := range v.lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// SetFilter replaces the filter and goes back to the first page.
func (v *CourseView) SetFilter(f Filter) {
	f.Clean()
	v.mu.Lock()
	v.filter = f
	v.pages.Reset()
	v.mu.Unlock()
}

// SetPage moves to page n, clamped to the filtered list.
func (v *CourseView) SetPage(n int) {
	v.mu.Lock()
	v.pages.Go(n, len(ApplyFilters(v.lessons, v.filter)))
	v.mu.Unlock()
}

// Page returns the current page of filtered lessons.
func (v *CourseView) Page() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return PageOf(ApplyFilters(v.lessons, v.filter), &v.pages)
}

// snapshot returns the loaded course and the current generation.
func (v *CourseView) snapshot() (Course, uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return Course{}, 0, ErrStaleView
	}
	if !v.loaded {
		return Course{}, 0, ErrNotFound
	}
	return v.course.Clone(), v.gen, nil
}

// apply runs fn under the lock, unless the view moved on since gen.
func (v *CourseView) apply(gen uint64, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		return
	}
	fn()
}

func (v *CourseView) AddInstructor(ctx context.Context, instructorID ID) error {
	c, gen, err := v.snapshot()
	if err != nil {
		return err
	}
	updated, err := v.svc.AddInstructor(ctx, c, instructorID, v.userID)
	if err != nil {
		return err
	}
	v.apply(gen, func() { v.course = updated })
	return nil
}

func (v *CourseView) AddRandomInstructor(ctx context.Context) error {
	c, gen, err := v.snapshot()
	if err != nil {
		return err
	}
	updated, err := v.svc.AddRandomInstructor(ctx, c, v.userID)
	if err != nil {
		return err
	}
	v.apply(gen, func() { v.course = updated })
	return nil
}

func (v *CourseView) RemoveInstructor(ctx context.Context, instructorID ID, confirm Confirmer) error {
	c, gen, err := v.snapshot()
	if err != nil {
		return err
	}
	updated, err := v.svc.RemoveInstructor(ctx, c, instructorID, v.userID, confirm)
	if err != nil {
		return err
	}
	v.apply(gen, func() { v.course = updated })
	return nil
}

// DeleteLesson deletes a loaded lesson and drops it from the list without reloading.
func (v *CourseView) DeleteLesson(ctx context.Context, lessonID ID, confirm Confirmer) error {
	c, gen, err := v.snapshot()
	if err != nil {
		return err
	}
	l, ok := v.Lesson(lessonID)
	if !ok {
		return ErrNotFound
	}
	if err := v.svc.DeleteLesson(ctx, c, l, v.userID, confirm); err != nil {
		return err
	}
	v.apply(gen, func() {
		kept := make([]Lesson, 0, len(v.lessons))
		for _, ll := range v.lessons {
			if ll.ID != l.ID {
				kept = append(kept, ll)
			}
		}
		v.lessons = kept
		v.pages.Clamp(len(ApplyFilters(v.lessons, v.filter)))
	})
	return nil
}
