package middleware

import (
	"net/http"
	"time"

	"artmarket-storefront/internal/model"
	"artmarket-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "sf_session"
	sessionKey    = "session"
	sessionMaxAge = 30 * 24 * time.Hour
)

// SessionMiddleware resolves the browser session from its cookie, issuing a
// new anonymous session when there is none, and stores it on the context.
func SessionMiddleware(sessions service.SessionService, secureCookies bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			sessionID := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie.Value
			}

			session, err := sessions.Resolve(ctx, sessionID)
			if err != nil {
				return err
			}

			if session.ID != sessionID {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    session.ID,
					Path:     "/",
					MaxAge:   int(sessionMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionKey, session)
			return next(c)
		}
	}
}

// CurrentSession returns the session stored by SessionMiddleware.
func CurrentSession(c echo.Context) *model.Session {
	session, _ := c.Get(sessionKey).(*model.Session)
	return session
}
