package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vocabquiz/internal/logging"
	"vocabquiz/internal/session"
	"vocabquiz/internal/stats"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || !session.ValidID(sessionID) {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.Config.IsProduction()
		c.SetCookie(SessionCookieName, sessionID, int(app.Config.CookieMaxAge.Seconds()), "/", "", secure, true)
		logging.FromContext(c.Request.Context(), app.Logger).Debug().Str("session", sessionID).Msg("created new session")
	}
	return sessionID
}

// loadStats returns the session's stats, or the zero record when the
// session is new, expired or unreadable.
func (app *App) loadStats(ctx context.Context, sessionID string) stats.Stats {
	s, err := app.Sessions.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logging.FromContext(ctx, app.Logger).Warn().Err(err).Str("session", sessionID).Msg("failed to load session stats")
		}
		return stats.Stats{}
	}
	return s
}

// saveStats stores the session's stats. Failures are logged and swallowed:
// the page still renders with the updated numbers.
func (app *App) saveStats(ctx context.Context, sessionID string, s stats.Stats) {
	if err := app.Sessions.Save(ctx, sessionID, s); err != nil {
		logging.FromContext(ctx, app.Logger).Warn().Err(err).Str("session", sessionID).Msg("failed to save session stats")
	}
}
