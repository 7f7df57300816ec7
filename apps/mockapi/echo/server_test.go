package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	logsvc "github.com/trezcool/coursesphere/services/logger"
	testutil "github.com/trezcool/coursesphere/tests"
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func setup(t *testing.T) *echo.Echo {
	_, repo := testutil.NewDB(t)
	conf := &core.Config{TestMode: true}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return NewApp(Deps{Conf: conf, Logger: logger, Repo: repo})
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func TestMockAPI_read(t *testing.T) {
	app := setup(t)
	seed := testutil.Seed()

	usersPath := func(email, password string) string {
		v := make(url.Values)
		v.Set("email", email)
		v.Set("password", password)
		return "/users?" + v.Encode()
	}

	tests := []httpTest{
		{
			name: "login match", path: usersPath(testutil.Bob.Email, testutil.Password),
			wantCode: http.StatusOK, wantData: marshalObj(t, []course.User{testutil.Bob}),
		},
		{
			name: "login mismatch", path: usersPath(testutil.Bob.Email, "wrong!"),
			wantCode: http.StatusOK, wantData: []byte(`[]`),
		},
		{name: "login without password", path: "/users?email=bob@example.com", wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "courses", path: "/courses", wantCode: http.StatusOK, wantData: marshalObj(t, seed.Courses)},
		{name: "course", path: "/courses/2", wantCode: http.StatusOK, wantData: marshalObj(t, seed.Courses[1])},
		{name: "course (trailing slash)", path: "/courses/2/", wantCode: http.StatusOK, wantData: marshalObj(t, seed.Courses[1])},
		{name: "course not found", path: "/courses/9", wantCode: http.StatusNotFound, wantData: []byte(`{}`)},
		{name: "lessons", path: "/lessons", wantCode: http.StatusOK, wantData: marshalObj(t, seed.Lessons)},
		{name: "lessons of course", path: "/lessons?course_id=2", wantCode: http.StatusOK, wantData: marshalObj(t, seed.Lessons[6:])},
		{name: "lesson", path: "/lessons/3", wantCode: http.StatusOK, wantData: marshalObj(t, seed.Lessons[2])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestMockAPI_write(t *testing.T) {
	app := setup(t)

	newCourse := course.Course{
		Name:        "Kubernetes",
		StartDate:   course.NewDate(2024, 1, 1),
		EndDate:     course.NewDate(2024, 2, 1),
		CreatorID:   testutil.Dave.ID,
		Instructors: course.NewIDSet(),
	}
	created := newCourse
	created.ID = course.IntID(3)

	updated := created.Clone()
	updated.Instructors.Add("abc-uuid")

	newLesson := course.Lesson{CourseID: "1", Title: "Select", Status: course.StatusDraft, CreatorID: testutil.Bob.ID}
	createdLesson := newLesson
	createdLesson.ID = course.IntID(8)

	tests := []httpTest{
		{
			name: "create course", method: http.MethodPost, path: "/courses", body: marshalObj(t, newCourse),
			wantCode: http.StatusCreated, wantData: marshalObj(t, created),
		},
		{
			name: "update course", method: http.MethodPut, path: "/courses/3", body: marshalObj(t, updated),
			wantCode: http.StatusOK, wantData: marshalObj(t, updated),
		},
		{
			name: "update unknown course", method: http.MethodPut, path: "/courses/30", body: marshalObj(t, updated),
			wantCode: http.StatusNotFound,
		},
		{
			name: "create lesson", method: http.MethodPost, path: "/lessons", body: marshalObj(t, newLesson),
			wantCode: http.StatusCreated, wantData: marshalObj(t, createdLesson),
		},
		{name: "delete lesson", method: http.MethodDelete, path: "/lessons/8", wantCode: http.StatusOK, wantData: []byte(`{}`)},
		{name: "delete lesson again", method: http.MethodDelete, path: "/lessons/8", wantCode: http.StatusNotFound},
		{name: "bad body", method: http.MethodPost, path: "/lessons", body: []byte(`{"id": [}`), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
