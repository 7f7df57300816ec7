package webapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	testutil "github.com/trezcool/coursesphere/tests"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	loginBody := func(email, pwd string) []byte {
		return marshalObj(t, course.LoginRequest{Email: email, Password: pwd})
	}

	runTests(t, app, []httpTest{
		{
			name: "invalid data", method: http.MethodPost, path: "/login", body: loginBody("alice", "123"),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"email":    "email must be a valid email address",
				"password": "password must be at least 6 characters in length",
			}),
		},
		{
			name: "missing data", method: http.MethodPost, path: "/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "no matching user", method: http.MethodPost, path: "/login", body: loginBody(testutil.Alice.Email, "wrong-pass"),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "incorrect email or password"}),
		},
	})

	t.Run("success", func(t *testing.T) {
		rec := app.serve(httpTest{method: http.MethodPost, path: "/login", body: loginBody(" alice@example.com ", testutil.Password)})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, testutil.Alice, resp.User)
		assert.NotEmpty(t, resp.Token)

		// the session cookie logs the browser in
		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		home := app.serve(httpTest{path: "/me"}, cookies...)
		assert.Equal(t, http.StatusOK, home.Code)

		// and so does the token
		me := app.serve(httpTest{path: "/me", token: resp.Token})
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, testutil.Alice)}, me)

		notes := app.notifications(t, resp.Token, rec)
		assert.Equal(t, []core.Notification{{Level: core.LevelSuccess, Message: "Login successful!"}}, notes)
	})

	t.Run("failure notifies", func(t *testing.T) {
		rec := app.serve(httpTest{method: http.MethodPost, path: "/login", body: loginBody(testutil.Alice.Email, "wrong-pass")})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		// the session stays empty
		home := app.serve(httpTest{path: "/"}, rec.Result().Cookies()...)
		assert.Equal(t, http.StatusSeeOther, home.Code)
		assert.Equal(t, "/login", home.Header().Get("Location"))

		notes := app.notifications(t, app.getToken(t, testutil.Dave), rec)
		assert.Equal(t, []core.Notification{{Level: core.LevelError, Message: "Incorrect email or password"}}, notes)
	})
}

func Test_userApi_logout(t *testing.T) {
	app := setup(t)

	login := app.serve(httpTest{
		method: http.MethodPost, path: "/login",
		body: marshalObj(t, course.LoginRequest{Email: testutil.Bob.Email, Password: testutil.Password}),
	})
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	// logged in users skip the login page
	page := app.serve(httpTest{path: "/login"}, cookies...)
	checkCodeAndData(t, httpTest{wantCode: http.StatusSeeOther, wantPath: "/"}, page)

	logout := app.serve(httpTest{method: http.MethodPost, path: "/logout"}, cookies...)
	checkCodeAndData(t, httpTest{wantCode: http.StatusSeeOther, wantPath: "/login"}, logout)

	home := app.serve(httpTest{path: "/"}, logout.Result().Cookies()...)
	checkCodeAndData(t, httpTest{wantCode: http.StatusSeeOther, wantPath: "/login"}, home)
}

func Test_authMiddleware(t *testing.T) {
	app := setup(t)

	runTests(t, app, []httpTest{
		{name: "anonymous", path: "/", wantCode: http.StatusSeeOther, wantPath: "/login"},
		{name: "anonymous course", path: "/courses/1", wantCode: http.StatusSeeOther, wantPath: "/login"},
		{
			name: "bad token", path: "/", token: "not-a-jwt",
			wantCode: http.StatusUnauthorized, wantData: marshalObj(t, httpErr{Error: "user not authenticated"}),
		},
		{name: "login page", path: "/login", wantCode: http.StatusOK, wantData: []byte(`{"notifications":[]}`)},
		{
			name: "access denied page", path: "/access-denied",
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
	})
}
