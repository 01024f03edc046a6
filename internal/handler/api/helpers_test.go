//go:build unit

package api_test

import (
	"strings"

	"turf-booking/internal/domain/user"
	"turf-booking/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	customerToken = "customer-token"
	adminToken    = "admin-token"
)

func mustActor(role user.Role) user.Actor {
	a, err := user.NewActor(uuid.New(), role)
	if err != nil {
		panic(err)
	}
	return a
}

// fakeAuth resolves a fixed token table; unknown tokens leave the context
// without an actor so the handler's own guard answers.
func fakeAuth(actors map[string]user.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if actor, ok := actors[token]; ok {
			middleware.SetActor(c, actor)
		}
		c.Next()
	}
}
