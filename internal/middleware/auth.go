package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"drone-tracking/internal/client"
	domainerrors "drone-tracking/internal/errors"
	"drone-tracking/internal/jwt"
	"drone-tracking/internal/pkg/apperrors"
)

var skipAuth = map[string]bool{
	"/":       true,
	"/health": true,
}

type tokenCache interface {
	Get(ctx context.Context, token string) (*client.Identity, error)
	Set(ctx context.Context, token string, identity *client.Identity) error
}

// Auth resolves the bearer token to an identity. The local verifier
// rejects malformed or expired tokens cheaply; the user service remains
// the authoritative check, with a short redis cache in front of it.
// WebSocket subscriptions under /ws are public read-only surfaces and
// skip auth entirely.
func Auth(verifier *jwt.Verifier, authClient *client.AuthClient, cache tokenCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipAuth[c.Request.URL.Path] || strings.HasPrefix(c.Request.URL.Path, "/ws/") {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			unauthorized(c, "invalid authorization format")
			return
		}

		if _, err := verifier.ValidateToken(token); err != nil {
			slog.WarnContext(c.Request.Context(), "auth failed",
				slog.String("path", c.Request.URL.Path),
				slog.String("ip", c.ClientIP()),
				slog.String("error", err.Error()),
			)
			unauthorized(c, "invalid or expired token")
			return
		}

		ctx := c.Request.Context()

		identity, err := cache.Get(ctx, token)
		if err != nil {
			slog.ErrorContext(ctx, "token cache read failed", slog.String("error", err.Error()))
			identity = nil // fall through to remote verify
		}

		if identity == nil {
			identity, err = authClient.Verify(ctx, token)
			if err != nil {
				apperrors.ToHTTPError(c, err)
				c.Abort()
				return
			}
			if err := cache.Set(ctx, token, identity); err != nil {
				slog.ErrorContext(ctx, "token cache write failed", slog.String("error", err.Error()))
			}
		}

		c.Set("user_id", identity.UserID)
		c.Set("role", identity.Role)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrorBody{
			Code:    domainerrors.ErrUnauthorized,
			Message: msg,
		},
	})
}
