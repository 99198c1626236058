package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"appointment-tracker/internal/auth"
	"appointment-tracker/internal/model"
	"appointment-tracker/internal/store"
	"appointment-tracker/internal/web"
)

const SessionCookie = "session"

// userKey addresses the per-request identity cache in the Echo
// context. It never outlives the request.
const userKey = "currentUser"

func NewSessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionLifetime.Seconds()),
	}
}

func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// LoadUser resolves the session cookie to a user row once per request
// and caches it in the request context. A valid token whose user no
// longer exists is an orphaned session: the cookie is expired and the
// request continues unauthenticated.
func LoadUser(st *store.Store, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				return next(c)
			}

			claims, err := auth.ParseSessionToken(ck.Value, secret)
			if err != nil {
				c.SetCookie(ExpiredSessionCookie())
				return next(c)
			}

			u, err := st.UserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				log.Errorf("resolve session user %d: %v", claims.UserID, err)
				return echo.NewHTTPError(http.StatusInternalServerError)
			}
			if u == nil {
				c.SetCookie(ExpiredSessionCookie())
				return next(c)
			}

			SetCurrentUser(c, u)
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}

func SetCurrentUser(c echo.Context, u *model.User) {
	c.Set(userKey, u)
}

// RequireUser rejects unauthenticated requests before the handler
// body runs.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			web.SetFlash(c, "Please log in first")
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// RequireAdmin additionally demands the admin flag. An authenticated
// non-admin gets 403, distinct from the needs-login redirect.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireUser(func(c echo.Context) error {
		if !CurrentUser(c).IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "administrator access required")
		}
		return next(c)
	})
}
