package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "taskportal-backend/internal/auth/domain"
	"taskportal-backend/internal/auth/usecase"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserKey  = "user"
	ContextActorKey = "actor"
)

func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		user, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextActorKey, authdomain.Actor{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// ActorFrom extracts the authenticated actor placed by AuthMiddleware.
func ActorFrom(c *gin.Context) authdomain.Actor {
	if v, ok := c.Get(ContextActorKey); ok {
		if actor, ok := v.(authdomain.Actor); ok {
			return actor
		}
	}
	return authdomain.Actor{}
}
