package inmemdb

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/coursesphere/core/course"
)

// Repository implements course.Repository over a DB.
type Repository struct {
	db *DB
}

var _ course.Repository = (*Repository)(nil)

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (repo *Repository) FindUsersByCredentials(ctx context.Context, email, password string) ([]course.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := repo.db.user
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	// exact match, like the remote store
	users := make([]course.User, 0, 1)
	for _, id := range t.order {
		row := t.table[id]
		if row.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(row.PasswordHash, []byte(password)) == nil {
			users = append(users, row.User)
		}
	}
	return users, nil
}

// CreateUser adds a user with a clear password, which gets hashed.
func (repo *Repository) CreateUser(ctx context.Context, usr SeedUser) (course.User, error) {
	if err := ctx.Err(); err != nil {
		return course.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(usr.Password), HashCost)
	if err != nil {
		return course.User{}, errors.Wrap(err, "hashing password")
	}
	return repo.db.user.insert(userRow{
		User:         course.User{ID: usr.ID, Name: usr.Name, Email: usr.Email},
		PasswordHash: hash,
	}), nil
}

func (repo *Repository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := repo.db.course
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	courses := make([]course.Course, 0, len(t.order))
	for _, id := range t.order {
		courses = append(courses, t.table[id].Clone())
	}
	return courses, nil
}

func (repo *Repository) GetCourse(ctx context.Context, id course.ID) (course.Course, error) {
	if err := ctx.Err(); err != nil {
		return course.Course{}, err
	}
	t := repo.db.course
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if c, ok := t.table[course.NewID(string(id))]; ok {
		return c.Clone(), nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *Repository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	if err := ctx.Err(); err != nil {
		return course.Course{}, err
	}
	c.ID = ""
	return repo.db.course.insert(c), nil
}

func (repo *Repository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	if err := ctx.Err(); err != nil {
		return course.Course{}, err
	}
	t := repo.db.course
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[c.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	c = c.Clone()
	t.table[c.ID] = &c
	return c.Clone(), nil
}

func (repo *Repository) QueryLessons(ctx context.Context) ([]course.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := repo.db.lesson
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	lessons := make([]course.Lesson, 0, len(t.order))
	for _, id := range t.order {
		lessons = append(lessons, *t.table[id])
	}
	return lessons, nil
}

func (repo *Repository) GetLesson(ctx context.Context, id course.ID) (course.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return course.Lesson{}, err
	}
	t := repo.db.lesson
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if l, ok := t.table[course.NewID(string(id))]; ok {
		return *l, nil
	}
	return course.Lesson{}, course.ErrNotFound
}

func (repo *Repository) CreateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return course.Lesson{}, err
	}
	l.ID = ""
	return repo.db.lesson.insert(l), nil
}

func (repo *Repository) UpdateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return course.Lesson{}, err
	}
	t := repo.db.lesson
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[l.ID]; !ok {
		return course.Lesson{}, course.ErrNotFound
	}
	t.table[l.ID] = &l
	return l, nil
}

func (repo *Repository) DeleteLesson(ctx context.Context, id course.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := repo.db.lesson
	t.mutex.Lock()
	defer t.mutex.Unlock()

	id = course.NewID(string(id))
	if _, ok := t.table[id]; !ok {
		return course.ErrNotFound
	}
	delete(t.table, id)
	t.order = removeID(t.order, id)
	return nil
}
