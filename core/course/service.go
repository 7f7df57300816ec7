package course

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
)

var (
	// errors
	ErrNotFound            = errors.New("not found")
	ErrAccessDenied        = errors.New("permission denied")
	ErrLessonAccessDenied  = errors.New("permission denied on lesson")
	ErrDuplicateEntry      = errors.New("this instructor has already been added")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrNotConfirmed        = errors.New("action not confirmed")
	ErrStaleView           = errors.New("view is no longer active")
	ErrInvalidTransition   = errors.New("invalid form transition")
	errMissingInstructorID = core.NewValidationError(nil, core.FieldError{Field: "instructor_id", Error: "this field is required"})
)

// user-facing messages
const (
	msgLoginSucceeded   = "Login successful!"
	msgLoginFailed      = "Incorrect email or password"
	msgAuthError        = "Authentication error"
	msgCoursesLoadError = "Error loading courses"
	msgCourseLoadError  = "Error loading course"
	msgCourseCreated    = "Course created successfully"
	msgCourseUpdated    = "Course updated"
	msgCourseSaveError  = "Error saving course"
	msgAccessDenied     = "Access denied"
	msgDuplicate        = "This instructor has already been added."
	msgInstructorAdded  = "New instructor added!"
	msgInstructorAddErr = "Error adding instructor"
	msgInstructorRemove = "Instructor removed"
	msgInstructorRmErr  = "Error removing instructor"
	msgLessonCreated    = "Lesson created"
	msgLessonUpdated    = "Lesson updated"
	msgLessonSaveError  = "Error saving lesson"
	msgLessonDeleted    = "Lesson deleted"
	msgLessonDeleteErr  = "Error deleting lesson"
	msgDataLoadError    = "Error loading data"
	msgNoPageAccess     = "You do not have permission to access this page."
	msgNoLessonAccess   = "You do not have permission to edit this lesson."

	promptRemoveInstructor = "Remove this instructor?"
	promptDeleteLesson     = "Delete this lesson?"
)

type (
	// Repository is the remote store of users, courses & lessons.
	// Implementations return ErrNotFound (possibly wrapped) for unknown ids.
	Repository interface {
		// FindUsersByCredentials returns the users matching both email & password.
		FindUsersByCredentials(ctx context.Context, email, password string) ([]User, error)

		QueryCourses(ctx context.Context) ([]Course, error)
		GetCourse(ctx context.Context, id ID) (Course, error)
		CreateCourse(ctx context.Context, c Course) (Course, error)
		// UpdateCourse replaces the whole record.
		UpdateCourse(ctx context.Context, c Course) (Course, error)

		QueryLessons(ctx context.Context) ([]Lesson, error)
		GetLesson(ctx context.Context, id ID) (Lesson, error)
		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id ID) error
	}

	// IdentityGenerator fabricates ids for placeholder instructors.
	IdentityGenerator interface {
		NewIdentity(ctx context.Context) (ID, error)
	}

	// Confirmer asks the user to confirm a destructive action.
	Confirmer interface {
		Confirm(prompt string) bool
	}

	ConfirmFunc func(prompt string) bool

	Service struct {
		repo       Repository
		identities IdentityGenerator
		validate   *validator.Validate
		notifier   core.Notifier
	}

	// Details is everything the course page shows.
	Details struct {
		Course      Course      `json:"course"`
		Permissions Permissions `json:"permissions"`
		Lessons     []Lesson    `json:"lessons"`
	}
)

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })
	Declined  Confirmer = ConfirmFunc(func(string) bool { return false })
)

func NewService(repo Repository, identities IdentityGenerator, validate *validator.Validate) *Service {
	return &Service{
		repo:       repo,
		identities: identities,
		validate:   validate,
		notifier:   core.DiscardNotifier,
	}
}

// WithNotifier returns a copy of svc that reports outcomes to n.
func (svc *Service) WithNotifier(n core.Notifier) *Service {
	cp := *svc
	if n == nil {
		n = core.DiscardNotifier
	}
	cp.notifier = n
	return &cp
}

func (svc *Service) notify(level core.Level, msg string) {
	svc.notifier.Notify(core.Notification{Level: level, Message: msg})
}

// Login looks up the user matching the credentials.
func (svc *Service) Login(ctx context.Context, req LoginRequest) (User, error) {
	if err := req.Validate(svc.validate); err != nil {
		return User{}, err
	}
	users, err := svc.repo.FindUsersByCredentials(ctx, req.Email, req.Password)
	if err != nil {
		svc.notify(core.LevelError, msgAuthError)
		return User{}, errors.Wrap(err, "finding user by credentials")
	}
	if len(users) == 0 {
		svc.notify(core.LevelError, msgLoginFailed)
		return User{}, ErrInvalidCredentials
	}
	svc.notify(core.LevelSuccess, msgLoginSucceeded)
	return users[0], nil
}

// MyCourses lists the courses userID created or teaches.
func (svc *Service) MyCourses(ctx context.Context, userID ID) ([]Course, error) {
	all, err := svc.repo.QueryCourses(ctx)
	if err != nil {
		svc.notify(core.LevelError, msgCoursesLoadError)
		return nil, errors.Wrap(err, "querying courses")
	}
	return MyCourses(all, userID), nil
}

// Course fetches a course userID may view.
func (svc *Service) Course(ctx context.Context, id, userID ID) (Course, Permissions, error) {
	c, err := svc.repo.GetCourse(ctx, NewID(string(id)))
	if err != nil {
		return Course{}, Permissions{}, errors.Wrap(err, "getting course")
	}
	perms := PermissionsFor(c, userID)
	if perms.Role == RoleNone {
		return Course{}, Permissions{}, ErrAccessDenied
	}
	return c, perms, nil
}

// CourseDetails fetches a course then, only if userID may view it, its lessons.
func (svc *Service) CourseDetails(ctx context.Context, id, userID ID) (Details, error) {
	c, perms, err := svc.Course(ctx, id, userID)
	if err != nil {
		if errors.Cause(err) != ErrAccessDenied {
			svc.notify(core.LevelError, msgCourseLoadError)
		}
		return Details{}, err
	}
	all, err := svc.repo.QueryLessons(ctx)
	if err != nil {
		svc.notify(core.LevelError, msgCourseLoadError)
		return Details{}, errors.Wrap(err, "querying lessons")
	}
	return Details{
		Course:      c,
		Permissions: perms,
		Lessons:     LessonsForCourse(all, c.ID),
	}, nil
}

func (svc *Service) CreateCourse(ctx context.Context, data CourseData, creatorID ID) (Course, error) {
	if err := data.Validate(svc.validate); err != nil {
		return Course{}, err
	}
	c, err := svc.repo.CreateCourse(ctx, Course{
		Name:        data.Name,
		Description: data.Description,
		StartDate:   data.StartDate,
		EndDate:     data.EndDate,
		CreatorID:   NewID(string(creatorID)),
		Instructors: NewIDSet(),
	})
	if err != nil {
		svc.notify(core.LevelError, msgCourseSaveError)
		return Course{}, errors.Wrap(err, "creating course")
	}
	svc.notify(core.LevelSuccess, msgCourseCreated)
	return c, nil
}

// CourseForEdit fetches a course only its creator may edit.
func (svc *Service) CourseForEdit(ctx context.Context, id, userID ID) (Course, error) {
	c, err := svc.repo.GetCourse(ctx, NewID(string(id)))
	if err != nil {
		svc.notify(core.LevelError, msgCourseLoadError)
		return Course{}, errors.Wrap(err, "getting course")
	}
	if !CanEditCourse(c, userID) {
		svc.notify(core.LevelError, msgAccessDenied)
		return Course{}, ErrAccessDenied
	}
	return c, nil
}

// UpdateCourse replaces the editable fields of a course, keeping its creator & instructors.
func (svc *Service) UpdateCourse(ctx context.Context, id ID, data CourseData, userID ID) (Course, error) {
	if err := data.Validate(svc.validate); err != nil {
		return Course{}, err
	}
	c, err := svc.CourseForEdit(ctx, id, userID)
	if err != nil {
		return Course{}, err
	}
	c.Name = data.Name
	c.Description = data.Description
	c.StartDate = data.StartDate
	c.EndDate = data.EndDate

	updated, err := svc.repo.UpdateCourse(ctx, c)
	if err != nil {
		svc.notify(core.LevelError, msgCourseSaveError)
		return Course{}, errors.Wrap(err, "updating course")
	}
	svc.notify(core.LevelSuccess, msgCourseUpdated)
	return updated, nil
}

// AddInstructor adds newID to the instructors of c. Adding an existing instructor
// is skipped with a warning and no write.
func (svc *Service) AddInstructor(ctx context.Context, c Course, newID, userID ID) (Course, error) {
	if !CanManageInstructors(c, userID) {
		svc.notify(core.LevelError, msgAccessDenied)
		return c, ErrAccessDenied
	}
	newID = NewID(string(newID))
	if newID.IsZero() {
		return c, errMissingInstructorID
	}
	if c.Instructors.Contains(newID) {
		svc.notify(core.LevelWarning, msgDuplicate)
		return c, ErrDuplicateEntry
	}

	updated := c.Clone()
	updated.Instructors.Add(newID)
	saved, err := svc.repo.UpdateCourse(ctx, updated)
	if err != nil {
		svc.notify(core.LevelError, msgInstructorAddErr)
		return c, errors.Wrap(err, "adding instructor")
	}
	svc.notify(core.LevelSuccess, msgInstructorAdded)
	return saved, nil
}

// AddRandomInstructor adds a placeholder instructor with a generated id.
func (svc *Service) AddRandomInstructor(ctx context.Context, c Course, userID ID) (Course, error) {
	if !CanManageInstructors(c, userID) {
		svc.notify(core.LevelError, msgAccessDenied)
		return c, ErrAccessDenied
	}
	newID, err := svc.identities.NewIdentity(ctx)
	if err != nil {
		svc.notify(core.LevelError, msgInstructorAddErr)
		return c, errors.Wrap(err, "generating identity")
	}
	return svc.AddInstructor(ctx, c, newID, userID)
}

// RemoveInstructor removes instructorID from c once the user confirms.
func (svc *Service) RemoveInstructor(ctx context.Context, c Course, instructorID, userID ID, confirm Confirmer) (Course, error) {
	if !CanManageInstructors(c, userID) {
		svc.notify(core.LevelError, msgAccessDenied)
		return c, ErrAccessDenied
	}
	if !c.Instructors.Contains(instructorID) {
		return c, errors.Wrap(ErrNotFound, "finding instructor")
	}
	if confirm == nil || !confirm.Confirm(promptRemoveInstructor) {
		return c, ErrNotConfirmed
	}

	updated := c.Clone()
	updated.Instructors.Remove(instructorID)
	saved, err := svc.repo.UpdateCourse(ctx, updated)
	if err != nil {
		svc.notify(core.LevelError, msgInstructorRmErr)
		return c, errors.Wrap(err, "removing instructor")
	}
	svc.notify(core.LevelSuccess, msgInstructorRemove)
	return saved, nil
}

// OpenLessonForm loads a lesson form: a creation form when lessonID is empty, an edit form otherwise.
func (svc *Service) OpenLessonForm(ctx context.Context, courseID, lessonID, userID ID) (*LessonFlow, error) {
	flow := svc.NewLessonFlow(courseID, lessonID, userID)
	if err := flow.Load(ctx); err != nil {
		return flow, err
	}
	return flow, nil
}

// LessonForEdit fetches a lesson the user may edit, with its course.
func (svc *Service) LessonForEdit(ctx context.Context, courseID, lessonID, userID ID) (Course, Lesson, error) {
	if NewID(string(lessonID)).IsZero() {
		return Course{}, Lesson{}, errors.Wrap(ErrNotFound, "getting lesson")
	}
	flow, err := svc.OpenLessonForm(ctx, courseID, lessonID, userID)
	if err != nil {
		return Course{}, Lesson{}, err
	}
	return flow.Course(), flow.Lesson(), nil
}

// CreateLesson runs a whole creation flow for courseID.
func (svc *Service) CreateLesson(ctx context.Context, courseID ID, data LessonData, userID ID) (Lesson, error) {
	flow, err := svc.OpenLessonForm(ctx, courseID, "", userID)
	if err != nil {
		return Lesson{}, err
	}
	return flow.Submit(ctx, data)
}

// UpdateLesson runs a whole edit flow for lessonID.
func (svc *Service) UpdateLesson(ctx context.Context, courseID, lessonID ID, data LessonData, userID ID) (Lesson, error) {
	if NewID(string(lessonID)).IsZero() {
		return Lesson{}, errors.Wrap(ErrNotFound, "getting lesson")
	}
	flow, err := svc.OpenLessonForm(ctx, courseID, lessonID, userID)
	if err != nil {
		return Lesson{}, err
	}
	return flow.Submit(ctx, data)
}

// DeleteLesson deletes l once the user confirms.
func (svc *Service) DeleteLesson(ctx context.Context, c Course, l Lesson, userID ID, confirm Confirmer) error {
	if !CanEditOrDeleteLesson(l, c, userID) {
		svc.notify(core.LevelError, msgNoLessonAccess)
		return ErrLessonAccessDenied
	}
	if confirm == nil || !confirm.Confirm(promptDeleteLesson) {
		return ErrNotConfirmed
	}
	if err := svc.repo.DeleteLesson(ctx, l.ID); err != nil {
		svc.notify(core.LevelError, msgLessonDeleteErr)
		return errors.Wrap(err, "deleting lesson")
	}
	svc.notify(core.LevelSuccess, msgLessonDeleted)
	return nil
}
