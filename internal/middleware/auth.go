package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/modules/serializer"
	"github.com/archfolio/archfolio/internal/pkg/utils/tokens"
)

// AdminAuth returns a middleware guarding the write surface with the admin
// bearer token issued by the login endpoint.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "admin_auth",
			trace.WithAttributes(attribute.String("middleware", "admin_auth")))

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		if err := tokens.Verify(cfg.Auth.TokenSecret, raw); err != nil {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		authSpan.SetAttributes(attribute.Bool("authenticated", true))
		authSpan.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
