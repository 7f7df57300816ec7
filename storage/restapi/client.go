// Package restapi talks to the remote REST store of users, courses & lessons.
package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
)

var _ course.Repository = (*Repository)(nil)

// Repository implements course.Repository over HTTP.
type Repository struct {
	client *resty.Client
	logger core.Logger
}

func NewRepository(baseURL string, timeout time.Duration, logger core.Logger) *Repository {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Repository{client: client, logger: logger}
}

// NewRepositoryFromConfig points the repository at the local or the remote store depending on conf.API.Mode.
func NewRepositoryFromConfig(conf *core.Config, logger core.Logger) *Repository {
	return NewRepository(conf.BaseURL(), conf.API.Timeout, logger)
}

// do runs one request. result, when not nil, receives the decoded JSON body.
func (repo *Repository) do(ctx context.Context, method, path string, params map[string]string, body, result interface{}) error {
	op := method + " " + path
	req := repo.client.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return core.NewNetworkError(op, 0, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return errors.Wrap(course.ErrNotFound, op)
	case resp.IsError():
		return core.NewNetworkError(op, resp.StatusCode(), errors.Errorf("unexpected response %q", resp.String()))
	}
	return nil
}

// query fetches a collection. Records that fail to decode are logged and skipped,
// so one bad row does not hide the others.
func query[T any](ctx context.Context, repo *Repository, path string, params map[string]string) ([]T, error) {
	var raw []json.RawMessage
	if err := repo.do(ctx, http.MethodGet, path, params, nil, &raw); err != nil {
		return nil, err
	}
	items := make([]T, 0, len(raw))
	for i, rec := range raw {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			repo.logger.Warn(fmt.Sprintf("GET %s: skipping malformed record #%d", path, i), err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (repo *Repository) FindUsersByCredentials(ctx context.Context, email, password string) ([]course.User, error) {
	params := map[string]string{"email": email, "password": password}
	return query[course.User](ctx, repo, "/users", params)
}

func (repo *Repository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	return query[course.Course](ctx, repo, "/courses", nil)
}

func (repo *Repository) GetCourse(ctx context.Context, id course.ID) (course.Course, error) {
	var c course.Course
	if err := repo.do(ctx, http.MethodGet, "/courses/"+id.String(), nil, nil, &c); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *Repository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	c.ID = ""
	var created course.Course
	if err := repo.do(ctx, http.MethodPost, "/courses", nil, newCourseBody(c), &created); err != nil {
		return course.Course{}, err
	}
	return created, nil
}

func (repo *Repository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	updated := c.Clone()
	if err := repo.do(ctx, http.MethodPut, "/courses/"+c.ID.String(), nil, c, &updated); err != nil {
		return course.Course{}, err
	}
	return updated, nil
}

func (repo *Repository) QueryLessons(ctx context.Context) ([]course.Lesson, error) {
	return query[course.Lesson](ctx, repo, "/lessons", nil)
}

func (repo *Repository) GetLesson(ctx context.Context, id course.ID) (course.Lesson, error) {
	var l course.Lesson
	if err := repo.do(ctx, http.MethodGet, "/lessons/"+id.String(), nil, nil, &l); err != nil {
		return course.Lesson{}, err
	}
	return l, nil
}

func (repo *Repository) CreateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	var created course.Lesson
	if err := repo.do(ctx, http.MethodPost, "/lessons", nil, newLessonBody(l), &created); err != nil {
		return course.Lesson{}, err
	}
	return created, nil
}

func (repo *Repository) UpdateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	updated := l
	if err := repo.do(ctx, http.MethodPut, "/lessons/"+l.ID.String(), nil, l, &updated); err != nil {
		return course.Lesson{}, err
	}
	return updated, nil
}

func (repo *Repository) DeleteLesson(ctx context.Context, id course.ID) error {
	return repo.do(ctx, http.MethodDelete, "/lessons/"+id.String(), nil, nil, nil)
}

// the store assigns ids, so creation bodies carry none
type (
	courseBody struct {
		Name        string       `json:"name"`
		Description string       `json:"description"`
		StartDate   course.Date  `json:"start_date"`
		EndDate     course.Date  `json:"end_date"`
		CreatorID   course.ID    `json:"creator_id"`
		Instructors course.IDSet `json:"instructors"`
	}

	lessonBody struct {
		CourseID    course.ID     `json:"course_id"`
		Title       string        `json:"title"`
		Status      course.Status `json:"status"`
		PublishDate course.Date   `json:"publish_date"`
		VideoURL    string        `json:"video_url"`
		CreatorID   course.ID     `json:"creator_id"`
	}
)

func newCourseBody(c course.Course) courseBody {
	return courseBody{
		Name:        c.Name,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		CreatorID:   c.CreatorID,
		Instructors: c.Instructors,
	}
}

func newLessonBody(l course.Lesson) lessonBody {
	return lessonBody{
		CourseID:    l.CourseID,
		Title:       l.Title,
		Status:      l.Status,
		PublishDate: l.PublishDate,
		VideoURL:    l.VideoURL,
		CreatorID:   l.CreatorID,
	}
}
