package middleware

import (
	"log/slog"
	"strings"

	"github.com/DhavalSuthar-24/profiles/pkg/logger"
	"github.com/DhavalSuthar-24/profiles/pkg/responses"
	"github.com/DhavalSuthar-24/profiles/pkg/token"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a Bearer HS256 token signed with jwtSecret and
// tags the request logger with the token subject. With an empty secret every
// request passes through.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Unauthorized(c, "Authorization header is required")
			return
		}

		scheme, raw, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
			responses.Unauthorized(c, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := token.ValidateJWT(strings.TrimSpace(raw), jwtSecret)
		if err != nil {
			logger.From(c.Request.Context()).Warn("token rejected", slog.String("error", err.Error()))
			responses.Unauthorized(c, "Invalid or expired token")
			return
		}

		ctx := c.Request.Context()
		l := logger.From(ctx).With(slog.String("subject", claims.Subject))
		c.Request = c.Request.WithContext(logger.Into(ctx, l))
		c.Next()
	}
}
