package inmemdb

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/coursesphere/core/course"
)

var HashCost = bcrypt.DefaultCost // mockable

type (
	DB struct {
		user   *userTable
		course *courseTable
		lesson *lessonTable
	}

	userRow struct {
		course.User
		PasswordHash []byte
	}

	userTable struct {
		table map[course.ID]*userRow
		order []course.ID
		pk    int64
		mutex sync.RWMutex
	}

	courseTable struct {
		table map[course.ID]*course.Course
		order []course.ID
		pk    int64
		mutex sync.RWMutex
	}

	lessonTable struct {
		table map[course.ID]*course.Lesson
		order []course.ID
		pk    int64
		mutex sync.RWMutex
	}

	// SeedUser is a user as written in a seed file, with a clear password.
	SeedUser struct {
		ID       course.ID `json:"id"`
		Name     string    `json:"name"`
		Email    string    `json:"email"`
		Password string    `json:"password"`
	}

	// Seed is the initial content of the database, in the same shape as the REST store dump.
	Seed struct {
		Users   []SeedUser      `json:"users"`
		Courses []course.Course `json:"courses"`
		Lessons []course.Lesson `json:"lessons"`
	}
)

func Open() *DB {
	return &DB{
		user:   &userTable{table: make(map[course.ID]*userRow)},
		course: &courseTable{table: make(map[course.ID]*course.Course)},
		lesson: &lessonTable{table: make(map[course.ID]*course.Lesson)},
	}
}

// LoadSeedFile reads a seed from a JSON file.
func LoadSeedFile(path string) (Seed, error) {
	var seed Seed
	data, err := os.ReadFile(path)
	if err != nil {
		return seed, errors.Wrap(err, "reading seed file")
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return seed, errors.Wrap(err, "decoding seed file")
	}
	return seed, nil
}

// Seed inserts the seed rows, keeping their ids. Rows without an id get a new one.
func (db *DB) Seed(seed Seed) error {
	for _, su := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), HashCost)
		if err != nil {
			return errors.Wrapf(err, "hashing password of %s", su.Email)
		}
		db.user.insert(userRow{
			User:         course.User{ID: su.ID, Name: su.Name, Email: su.Email},
			PasswordHash: hash,
		})
	}
	for _, c := range seed.Courses {
		db.course.insert(c)
	}
	for _, l := range seed.Lessons {
		db.lesson.insert(l)
	}
	return nil
}

// nextID returns id when set, else the next free numeric id.
func nextID(id course.ID, pk *int64, taken func(course.ID) bool) course.ID {
	if !id.IsZero() {
		if n, ok := id.Int(); ok && n > *pk {
			*pk = n
		}
		return id
	}
	for {
		*pk++
		id = course.IntID(*pk)
		if !taken(id) {
			return id
		}
	}
}

func removeID(order []course.ID, id course.ID) []course.ID {
	for i, v := range order {
		if v == id {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}

func (t *userTable) insert(row userRow) course.User {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	row.ID = nextID(row.ID, &t.pk, func(id course.ID) bool { _, ok := t.table[id]; return ok })
	if _, exists := t.table[row.ID]; !exists {
		t.order = append(t.order, row.ID)
	}
	t.table[row.ID] = &row
	return row.User
}

func (t *courseTable) insert(c course.Course) course.Course {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	c.ID = nextID(c.ID, &t.pk, func(id course.ID) bool { _, ok := t.table[id]; return ok })
	if _, exists := t.table[c.ID]; !exists {
		t.order = append(t.order, c.ID)
	}
	c = c.Clone()
	t.table[c.ID] = &c
	return c.Clone()
}

func (t *lessonTable) insert(l course.Lesson) course.Lesson {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	l.ID = nextID(l.ID, &t.pk, func(id course.ID) bool { _, ok := t.table[id]; return ok })
	if _, exists := t.table[l.ID]; !exists {
		t.order = append(t.order, l.ID)
	}
	t.table[l.ID] = &l
	return l
}
