package webapi

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	"github.com/trezcool/coursesphere/core/session"
)

const (
	contextSessionKey = "session"
	contextNotesKey   = "notifications"
	contextUserKey    = "user"

	flashKey = "notifications"
)

var errNoSessionInCtx = errors.New("session not found in echo.Context")

// NewCookieStore returns the cookie store holding the browser sessions.
func NewCookieStore(conf *core.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(conf.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   conf.Session.MaxAge,
		HttpOnly: true,
		Secure:   !conf.Debug,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// cookieBackend keeps the session user in a gorilla session. The cookie is written once,
// right before the response headers.
type cookieBackend struct {
	sess  *sessions.Session
	dirty bool
}

var _ session.Backend = (*cookieBackend)(nil)

func (b *cookieBackend) Load() (course.User, bool, error) {
	id, _ := b.sess.Values["user_id"].(string)
	if id == "" {
		return course.User{}, false, nil
	}
	name, _ := b.sess.Values["name"].(string)
	email, _ := b.sess.Values["email"].(string)
	return course.User{ID: course.NewID(id), Name: name, Email: email}, true, nil
}

func (b *cookieBackend) Save(user course.User) error {
	b.sess.Values["user_id"] = user.ID.String()
	b.sess.Values["name"] = user.Name
	b.sess.Values["email"] = user.Email
	b.dirty = true
	return nil
}

func (b *cookieBackend) Clear() error {
	delete(b.sess.Values, "user_id")
	delete(b.sess.Values, "name")
	delete(b.sess.Values, "email")
	b.dirty = true
	return nil
}

// drainFlashes returns the notifications kept for the next request.
func (b *cookieBackend) drainFlashes() []core.Notification {
	flashes := b.sess.Flashes(flashKey)
	if len(flashes) > 0 {
		b.dirty = true
	}
	notes := make([]core.Notification, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			notes = append(notes, core.ParseNotification(s))
		}
	}
	return notes
}

// sessionMiddleware opens the session of the request and saves it, with the notifications
// raised while handling the request, before the response is written.
func sessionMiddleware(store sessions.Store, name string, logger core.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := store.Get(ctx.Request(), name)
			if err != nil {
				// tampered or outdated cookie: start over with the fresh session gorilla returned
				logger.Debug("decoding session cookie", err)
			}
			backend := &cookieBackend{sess: sess}
			sessStore, err := session.Open(backend)
			if err != nil {
				return errors.Wrap(err, "opening session")
			}
			notes := new(core.NotificationRecorder)

			ctx.Set(contextSessionKey, backend)
			ctx.Set(contextSessionKey+".store", sessStore)
			ctx.Set(contextNotesKey, notes)

			ctx.Response().Before(func() {
				for _, n := range notes.Drain() {
					sess.AddFlash(n.String(), flashKey)
					backend.dirty = true
				}
				if !backend.dirty {
					return
				}
				if err := sess.Save(ctx.Request(), ctx.Response()); err != nil {
					logger.Error("saving session", err)
				}
			})
			return next(ctx)
		}
	}
}

func getContextSession(ctx echo.Context) (*session.Store, *cookieBackend, error) {
	store, ok := ctx.Get(contextSessionKey + ".store").(*session.Store)
	backend, ok2 := ctx.Get(contextSessionKey).(*cookieBackend)
	if !ok || !ok2 {
		return nil, nil, errNoSessionInCtx
	}
	return store, backend, nil
}

func getContextNotifier(ctx echo.Context) core.Notifier {
	if notes, ok := ctx.Get(contextNotesKey).(*core.NotificationRecorder); ok {
		return notes
	}
	return core.DiscardNotifier
}
