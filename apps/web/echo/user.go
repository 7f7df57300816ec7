package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
)

type (
	LoginResponse struct {
		User  course.User `json:"user"`
		Token string      `json:"token"`
	}

	loginPage struct {
		Notifications []core.Notification `json:"notifications"`
	}
)

type userApi struct {
	svc    *course.Service
	tokens *tokenIssuer
}

func registerUserAPI(
	app *echo.Echo,
	auth echo.MiddlewareFunc,
	svc *course.Service,
	tokens *tokenIssuer,
) {
	api := userApi{
		svc:    svc,
		tokens: tokens,
	}

	// un-authed endpoints
	app.GET(loginPath, api.loginPage)
	app.POST(loginPath, api.login)
	app.POST("/logout", api.logout)
	app.GET(accessDeniedPath, accessDenied)

	// authed endpoints
	app.GET("/notifications", api.notifications, auth)
	app.GET("/me", api.me, auth)
}

// Handlers

func (api *userApi) loginPage(ctx echo.Context) error {
	store, backend, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if store.LoggedIn() {
		return redirect(ctx, homePath)
	}
	return ctx.JSON(http.StatusOK, loginPage{Notifications: backend.drainFlashes()})
}

func (api *userApi) login(ctx echo.Context) error {
	var data course.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	usr, err := api.svc.WithNotifier(getContextNotifier(ctx)).Login(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	store, _, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err = store.Set(usr); err != nil {
		return errors.Wrap(err, "setting session user")
	}
	token, err := api.tokens.GenerateToken(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: usr, Token: token})
}

func (api *userApi) logout(ctx echo.Context) error {
	store, _, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err = store.Clear(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return redirect(ctx, loginPath)
}

func (api *userApi) notifications(ctx echo.Context) error {
	_, backend, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	return ctx.JSON(http.StatusOK, backend.drainFlashes())
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}
