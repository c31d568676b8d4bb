package middleware

import (
	"context"

	"secondlife/models"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
)

const authContextKey = "authContext"

// AuthResolver turns an Authorization header into a caller identity.
type AuthResolver interface {
	Resolve(ctx context.Context, header string) (*models.AuthContext, error)
}

// RequireAuth resolves the bearer token and stores the caller on the context.
func RequireAuth(resolver AuthResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Set(authContextKey, authCtx)
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. It must follow RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, ok := AuthFromContext(c)
		if !ok {
			utils.RespondError(c, utils.Unauthorized("Missing bearer token."))
			return
		}
		if !authCtx.IsAdmin() {
			utils.RespondError(c, utils.Forbidden("Admin role required."))
			return
		}
		c.Next()
	}
}

// AuthFromContext returns the caller stored by RequireAuth.
func AuthFromContext(c *gin.Context) (*models.AuthContext, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return nil, false
	}
	authCtx, ok := v.(*models.AuthContext)
	return authCtx, ok && authCtx != nil
}

// MustAuth returns the caller stored by RequireAuth and panics when absent,
// which the error handler turns into a 500.
func MustAuth(c *gin.Context) *models.AuthContext {
	authCtx, ok := AuthFromContext(c)
	if !ok {
		panic("auth context missing: route is not behind RequireAuth")
	}
	return authCtx
}
