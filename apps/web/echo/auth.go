package webapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
)

const (
	bearerPrefix  = "Bearer "
	signingMethod = "HS256"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// tokenIssuer signs & checks the bearer tokens handed to API clients on login.
type tokenIssuer struct {
	key      []byte
	issuer   string
	lifetime time.Duration
}

func newTokenIssuer(conf *core.Config) *tokenIssuer {
	return &tokenIssuer{
		key:      []byte(conf.SecretKey),
		issuer:   conf.AppName,
		lifetime: conf.JWTExpirationDelta,
	}
}

func (ti *tokenIssuer) claims(usr course.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    ti.issuer,
			Subject:   usr.ID.String(),
			ExpiresAt: now.Add(ti.lifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  usr.Name,
		Email: usr.Email,
	}
}

// GenerateToken generates a signed JWT token string for usr.
func (ti *tokenIssuer) GenerateToken(usr course.User) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(signingMethod), ti.claims(usr))
	ss, err := token.SignedString(ti.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// ParseToken checks a signed token and returns the user it was issued to.
func (ti *tokenIssuer) ParseToken(raw string) (course.User, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != signingMethod {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return ti.key, nil
	})
	if err != nil {
		return course.User{}, errUnauthorized
	}
	if claims.Subject == "" {
		return course.User{}, errUnauthorized
	}
	return course.User{ID: course.NewID(claims.Subject), Name: claims.Name, Email: claims.Email}, nil
}

func bearerToken(ctx echo.Context) (string, bool) {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(auth[len(bearerPrefix):]), true
}

// authMiddleware lets through requests carrying a valid bearer token or a logged-in session.
// Anonymous requests are sent to the login page.
func authMiddleware(tokens *tokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if raw, ok := bearerToken(ctx); ok {
				usr, err := tokens.ParseToken(raw)
				if err != nil {
					return err
				}
				ctx.Set(contextUserKey, usr)
				return next(ctx)
			}

			store, _, err := getContextSession(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context session")
			}
			usr, ok := store.Get()
			if !ok {
				return ctx.Redirect(http.StatusSeeOther, loginPath)
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (course.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(course.User); ok {
		return usr, nil
	}
	return course.User{}, errUnauthorized
}
