package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	inmemdb "github.com/trezcool/coursesphere/storage/database/inmem"
)

const Password = "secret123"

// fixture users
var (
	Alice = course.User{ID: course.IntID(1), Name: "Alice", Email: "alice@example.com"} // creator of course 1
	Bob   = course.User{ID: course.IntID(2), Name: "Bob", Email: "bob@example.com"}     // instructor on course 1
	Carol = course.User{ID: course.IntID(3), Name: "Carol", Email: "carol@example.com"} // creator of course 2
	Dave  = course.User{ID: course.IntID(4), Name: "Dave", Email: "dave@example.com"}   // no course
)

// Now is the frozen date used by FreezeTime.
var Now = time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

func seedUser(u course.User) inmemdb.SeedUser {
	return inmemdb.SeedUser{ID: u.ID, Name: u.Name, Email: u.Email, Password: Password}
}

// Seed returns a small dataset: course 1 (Alice, with Bob as instructor) has 6 lessons,
// course 2 (Carol, with Alice as instructor) has 1.
func Seed() inmemdb.Seed {
	start, end := course.NewDate(2024, time.January, 10), course.NewDate(2024, time.December, 20)
	publish := course.NewDate(2024, time.July, 1)

	seed := inmemdb.Seed{
		Users: []inmemdb.SeedUser{seedUser(Alice), seedUser(Bob), seedUser(Carol), seedUser(Dave)},
		Courses: []course.Course{
			{
				ID:          course.IntID(1),
				Name:        "Go Fundamentals",
				Description: "Types, interfaces and concurrency",
				StartDate:   start,
				EndDate:     end,
				CreatorID:   Alice.ID,
				Instructors: course.NewIDSet(Bob.ID),
			},
			{
				ID:          course.IntID(2),
				Name:        "Distributed Systems",
				StartDate:   start,
				EndDate:     end,
				CreatorID:   Carol.ID,
				Instructors: course.NewIDSet(Alice.ID),
			},
		},
	}

	lessons := []struct {
		title   string
		status  course.Status
		creator course.ID
	}{
		{"Installing Go", course.StatusPublished, Alice.ID},
		{"Variables and types", course.StatusPublished, Alice.ID},
		{"Control flow", course.StatusDraft, Bob.ID},
		{"Interfaces", course.StatusDraft, Alice.ID},
		{"Goroutines", course.StatusArchived, Bob.ID},
		{"Channels", course.StatusPublished, Alice.ID},
	}
	for i, l := range lessons {
		seed.Lessons = append(seed.Lessons, course.Lesson{
			ID:          course.IntID(int64(i + 1)),
			CourseID:    course.IntID(1),
			Title:       l.title,
			Status:      l.status,
			PublishDate: publish,
			VideoURL:    "https://www.youtube.com/watch?v=lesson" + course.IntID(int64(i+1)).String(),
			CreatorID:   l.creator,
		})
	}
	seed.Lessons = append(seed.Lessons, course.Lesson{
		ID:          course.IntID(7),
		CourseID:    course.IntID(2),
		Title:       "Consensus",
		Status:      course.StatusDraft,
		PublishDate: publish,
		VideoURL:    "https://www.youtube.com/watch?v=raft",
		CreatorID:   Carol.ID,
	})
	return seed
}

// NewDB opens an in-memory database filled with Seed.
func NewDB(t *testing.T) (*inmemdb.DB, *inmemdb.Repository) {
	t.Helper()
	inmemdb.HashCost = bcrypt.MinCost
	db := inmemdb.Open()
	if err := db.Seed(Seed()); err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}
	return db, inmemdb.NewRepository(db)
}

// NewValidator returns a validator with every custom rule registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	course.InitValidators(validate, translator)
	return validate, translator
}

// FreezeTime makes course.NowFunc return Now for the duration of the test.
func FreezeTime(t *testing.T) {
	t.Helper()
	orig := course.NowFunc
	course.NowFunc = func() time.Time { return Now }
	t.Cleanup(func() { course.NowFunc = orig })
}

// StaticIdentities always generates the same id.
type StaticIdentities course.ID

func (s StaticIdentities) NewIdentity(context.Context) (course.ID, error) {
	return course.ID(s), nil
}

// ValidLessonData returns lesson data accepted by the validators once time is frozen.
func ValidLessonData(title string) course.LessonData {
	return course.LessonData{
		Title:       title,
		Status:      course.StatusDraft,
		PublishDate: course.NewDate(2024, time.September, 1),
		VideoURL:    "https://www.youtube.com/watch?v=abc",
	}
}

// ValidCourseData returns course data accepted by the validators.
func ValidCourseData(name string) course.CourseData {
	return course.CourseData{
		Name:        name,
		Description: "A course",
		StartDate:   course.NewDate(2024, time.September, 1),
		EndDate:     course.NewDate(2024, time.December, 1),
	}
}
