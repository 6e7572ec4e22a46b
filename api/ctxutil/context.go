// Package ctxutil moves request-scoped values between gin and the
// context.Context handed to application services.
package ctxutil

import (
	"storefront/api/response"
	"storefront/domain/shared"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// SetActor stores the authenticated caller.
func SetActor(c *gin.Context, actor shared.Actor) {
	c.Set(actorKey, actor)
}

// Actor returns the authenticated caller; ok is false on public routes.
func Actor(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}

// RequireActor returns the caller or writes a 401 and reports false.
func RequireActor(c *gin.Context) (shared.Actor, bool) {
	actor, ok := Actor(c)
	if !ok || actor.CustomerID == "" {
		response.AbortWithAppError(c, errors.Unauthorized("authentication required"))
		return shared.Actor{}, false
	}
	return actor, true
}
