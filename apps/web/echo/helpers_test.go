package webapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	logsvc "github.com/trezcool/coursesphere/services/logger"
	inmemdb "github.com/trezcool/coursesphere/storage/database/inmem"
	testutil "github.com/trezcool/coursesphere/tests"
)

const randomInstructor = "8d6a5c7e-5f4b-4a53-9c1e-0d2f3b4a5c6d"

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	wantPath string // redirect location
}

type testApp struct {
	*echo.Echo
	conf *core.Config
	repo *inmemdb.Repository
}

func setup(t *testing.T) *testApp {
	testutil.FreezeTime(t)
	_, repo := testutil.NewDB(t)

	conf := &core.Config{TestMode: true, AppName: "CourseSphere", SecretKey: "test-secret", JWTExpirationDelta: time.Hour}
	conf.Session.CookieName = "coursesphere"
	conf.Session.MaxAge = 3600

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	validate, translator := testutil.NewValidator()
	svc := course.NewService(repo, testutil.StaticIdentities(randomInstructor), validate)

	app := NewApp(Deps{
		Conf:       conf,
		Logger:     logger,
		CourseSvc:  svc,
		Sessions:   sessions.NewCookieStore([]byte(conf.SecretKey)),
		Translator: translator,
	})
	return &testApp{Echo: app, conf: conf, repo: repo}
}

func (app *testApp) getToken(t *testing.T, usr course.User) string {
	token, err := newTokenIssuer(app.conf).GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) serve(tt httpTest, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	app.ServeHTTP(rec, req)
	return rec
}

// notifications returns what the response left in the session flashes.
func (app *testApp) notifications(t *testing.T, token string, rec *httptest.ResponseRecorder) []core.Notification {
	rec2 := app.serve(httpTest{path: "/notifications", token: token}, rec.Result().Cookies()...)
	var notes []core.Notification
	if err := json.Unmarshal(rec2.Body.Bytes(), &notes); err != nil {
		t.Fatalf("notifications() failed: %v; body %s", err, rec2.Body.String())
	}
	return notes
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantPath != "" {
		if loc := rec.Header().Get(echo.HeaderLocation); loc != tt.wantPath {
			t.Errorf("failed! location = %q; wantPath %q", loc, tt.wantPath)
		}
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.serve(tt))
		})
	}
}
