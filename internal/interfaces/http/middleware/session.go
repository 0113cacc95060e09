package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/infrastructure/crypto"
	"github.com/artsapp/builder/internal/infrastructure/keyapi"
	"github.com/artsapp/builder/internal/interfaces/http/response"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/logger"
)

// SessionLoader loads the state of a builder session
type SessionLoader interface {
	Load(ctx context.Context, sessionID string) (models.AppState, error)
}

// CookieOptions controls the session cookie
type CookieOptions struct {
	Path   string
	Secure bool
}

// Session resolves the builder session from its signed cookie, starting a new
// one when the cookie is missing or invalid. The session state is attached to
// the request context, together with the remaining cookies of the request,
// which are forwarded to the key API.
// Session 解析会话 Cookie 并加载会话状态。
func Session(tokens *crypto.SessionTokens, sessions SessionLoader, resp *response.Responder, opts CookieOptions, log logger.Logger) gin.HandlerFunc {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		sessionID := ""
		if raw, err := c.Cookie(constants.SessionCookieName); err == nil {
			sessionID, err = tokens.Verify(ctx, raw)
			if err != nil {
				log.Debug(ctx, "Discarding invalid session cookie", logger.Err(err))
				sessionID = ""
			}
		}
		if sessionID == "" {
			sessionID = crypto.NewSessionID()
			token, expires, err := tokens.Issue(ctx, sessionID)
			if err != nil {
				resp.Error(c, err)
				return
			}
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     constants.SessionCookieName,
				Value:    token,
				Path:     opts.Path,
				Expires:  expires,
				MaxAge:   int(time.Until(expires).Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		state, err := sessions.Load(ctx, sessionID)
		if err != nil {
			resp.Error(c, err)
			return
		}

		var upstream []*http.Cookie
		for _, cookie := range c.Request.Cookies() {
			if cookie.Name != constants.SessionCookieName {
				upstream = append(upstream, cookie)
			}
		}

		ctx = service.WithAppState(ctx, state)
		ctx = context.WithValue(ctx, constants.ContextKeySessionID, sessionID)
		ctx = keyapi.WithUpstreamCookies(ctx, upstream)
		c.Set(string(constants.ContextKeySessionID), sessionID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionID returns the builder session id of the request
func SessionID(c *gin.Context) string {
	return c.GetString(string(constants.ContextKeySessionID))
}
