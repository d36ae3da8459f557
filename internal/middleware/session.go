package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"dojoadmin/internal/domain"
)

// SessionEstablisher bridges an authenticated identity to its Profile.
type SessionEstablisher interface {
	EstablishSession(ctx context.Context, profileID int64, email string) *domain.Profile
}

// SessionLoader attaches the full Profile for the authenticated identity.
// The establisher applies its own bounded lookup timeout and falls back to
// a minimal derived profile, so this middleware never blocks on a hanging
// store and never aborts the request.
func SessionLoader(sessions SessionEstablisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetInt64("profile_id")
		email := c.GetString("email")

		profile := sessions.EstablishSession(c.Request.Context(), profileID, email)
		c.Set("profile", profile)

		c.Next()
	}
}

// ProfileFromContext returns the session profile set by SessionLoader.
func ProfileFromContext(c *gin.Context) (*domain.Profile, bool) {
	v, ok := c.Get("profile")
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Profile)
	return p, ok
}
