package api

import (
	"errors"
	"net/http"

	"turf-booking/internal/domain/user"
	"turf-booking/internal/handler/httperr"
	"turf-booking/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errUnauthenticated   = errors.New("request has no authenticated actor")
	errNilIdempotencyKey = errors.New("idempotency key must not be the nil UUID")
)

func requireActor(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
	}
	return actor, ok
}

func pathID(c *gin.Context, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
		return uuid.Nil, false
	}
	return id, true
}

const idempotencyKeyHeader = "Idempotency-Key"

// idempotencyKey reads the optional Idempotency-Key header. A present but
// malformed key is rejected rather than ignored.
func idempotencyKey(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(idempotencyKeyHeader)
	if raw == "" {
		return uuid.Nil, true
	}
	key, err := uuid.Parse(raw)
	if err == nil && key == uuid.Nil {
		err = errNilIdempotencyKey
	}
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key header", nil)
		return uuid.Nil, false
	}
	return key, true
}
