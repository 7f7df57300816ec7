package course

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
)

const dateLayout = "2006-01-02"

// Lesson statuses
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

var Statuses = []Status{StatusDraft, StatusPublished, StatusArchived}

type Status string

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Date is a calendar date, transported as "2006-01-02".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, errors.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return NewDate(y, m, d), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decoding date")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalParam lets echo bind dates from forms and query strings.
func (d *Date) UnmarshalParam(param string) error {
	parsed, err := ParseDate(param)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Course struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   Date   `json:"start_date"`
	EndDate     Date   `json:"end_date"`
	CreatorID   ID     `json:"creator_id"`
	Instructors IDSet  `json:"instructors"`
}

// Clone returns a copy of c that shares no mutable state with it.
func (c Course) Clone() Course {
	c.Instructors = c.Instructors.Clone()
	return c
}

type Lesson struct {
	ID          ID     `json:"id"`
	CourseID    ID     `json:"course_id"`
	Title       string `json:"title"`
	Status      Status `json:"status"`
	PublishDate Date   `json:"publish_date"`
	VideoURL    string `json:"video_url"`
	CreatorID   ID     `json:"creator_id"`
}

// EmbedURL is the embeddable form of the lesson video link.
func (l Lesson) EmbedURL() string {
	return strings.Replace(l.VideoURL, "watch?v=", "embed/", 1)
}

// LoginRequest holds the credentials submitted on the login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email)
	return validate.Struct(lr)
}

// CourseData contains the information needed to create or edit a Course.
type CourseData struct {
	Name        string `json:"name" form:"name" validate:"required,notblank,min=3"`
	Description string `json:"description" form:"description" validate:"max=500"`
	StartDate   Date   `json:"start_date" form:"start_date" validate:"required"`
	EndDate     Date   `json:"end_date" form:"end_date" validate:"required"`
}

func (cd *CourseData) Validate(validate *validator.Validate) error {
	cd.Name = core.CleanString(cd.Name)
	cd.Description = core.CleanString(cd.Description)
	return validate.Struct(cd)
}

// LessonData contains the information needed to create or edit a Lesson.
type LessonData struct {
	Title       string `json:"title" form:"title" validate:"required,notblank,min=3"`
	Status      Status `json:"status" form:"status" validate:"required,oneof=draft published archived"`
	PublishDate Date   `json:"publish_date" form:"publish_date" validate:"required,future"`
	VideoURL    string `json:"video_url" form:"video_url" validate:"required,url"`
}

func (ld *LessonData) Validate(validate *validator.Validate) error {
	ld.Title = core.CleanString(ld.Title)
	ld.VideoURL = core.CleanString(ld.VideoURL)
	ld.Status = Status(core.CleanString(string(ld.Status), true /* lower */))
	return validate.Struct(ld)
}

// Filter narrows a lesson list. Zero values match everything.
type Filter struct {
	Title  string `query:"title" json:"title"`
	Status Status `query:"status" json:"status"`
}

func (f *Filter) Clean() {
	f.Title = core.CleanString(f.Title)
	f.Status = Status(core.CleanString(string(f.Status), true /* lower */))
}

func (f Filter) IsEmpty() bool {
	return f.Title == "" && f.Status == ""
}
