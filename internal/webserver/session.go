package webserver

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

const (
	defaultSessionName = "crmdesk_session"
	sessionNameKey     = "_session_name"
	sessionUserID      = "uid"
	sessionUser        = "username"
	flashKeyPrefix     = "flash_"
)

// Flash categories
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

var flashCategories = []string{FlashSuccess, FlashInfo, FlashWarning, FlashDanger}

// SessionUser is the identity stored in the session cookie
type SessionUser struct {
	ID       int64
	Username string
}

// Flash is a one-time message shown on the next rendered page
type Flash struct {
	Category string
	Message  string
}

// SessionName makes the configured cookie name visible to the helpers below
func SessionName(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(sessionNameKey, name)
			return next(c)
		}
	}
}

func sessionName(c echo.Context) string {
	if name := cast.ToString(c.Get(sessionNameKey)); name != "" {
		return name
	}
	return defaultSessionName
}

// Login stores the identity in the session
func Login(c echo.Context, id int64, username string) error {
	sess, err := session.Get(sessionName(c), c)
	if err != nil {
		return err
	}
	sess.Values[sessionUserID] = cast.ToString(id)
	sess.Values[sessionUser] = username
	return sess.Save(c.Request(), c.Response())
}

// Logout drops the identity but keeps the cookie for pending flashes
func Logout(c echo.Context) error {
	sess, err := session.Get(sessionName(c), c)
	if err != nil {
		return err
	}
	delete(sess.Values, sessionUserID)
	delete(sess.Values, sessionUser)
	return sess.Save(c.Request(), c.Response())
}

// CurrentUser reads the session identity
func CurrentUser(c echo.Context) (SessionUser, bool) {
	sess, err := session.Get(sessionName(c), c)
	if err != nil {
		return SessionUser{}, false
	}
	id := cast.ToInt64(sess.Values[sessionUserID])
	if id == 0 {
		return SessionUser{}, false
	}
	return SessionUser{ID: id, Username: cast.ToString(sess.Values[sessionUser])}, true
}

func AddFlash(c echo.Context, category, message string) error {
	sess, err := session.Get(sessionName(c), c)
	if err != nil {
		return err
	}
	sess.AddFlash(message, flashKeyPrefix+category)
	return sess.Save(c.Request(), c.Response())
}

// Flashes pops every pending flash message
func Flashes(c echo.Context) []Flash {
	sess, err := session.Get(sessionName(c), c)
	if err != nil {
		return nil
	}
	var out []Flash
	for _, category := range flashCategories {
		for _, msg := range sess.Flashes(flashKeyPrefix + category) {
			out = append(out, Flash{Category: category, Message: cast.ToString(msg)})
		}
	}
	if len(out) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	return out
}

// CSRFToken returns the token set by the CSRF middleware, empty when disabled
func CSRFToken(c echo.Context) string {
	return cast.ToString(c.Get(csrfCtxKey))
}
