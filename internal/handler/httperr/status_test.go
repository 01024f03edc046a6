//go:build unit

package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"turf-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"parse", errs.ErrParse, Outcome{http.StatusBadRequest, "INVALID_START", errs.ErrParse.Error()}},
		{"duration", errs.Mark(errors.New("13 hours"), errs.ErrDuration), Outcome{http.StatusBadRequest, "INVALID_DURATION", errs.ErrDuration.Error()}},
		{"invalid resource", errs.ErrInvalidResource, Outcome{http.StatusBadRequest, "INVALID_RESOURCE", errs.ErrInvalidResource.Error()}},
		{"past booking", errs.ErrPastBooking, Outcome{http.StatusConflict, "PAST_BOOKING", errs.ErrPastBooking.Error()}},
		{"slot conflict", fmt.Errorf("create: %w", errs.ErrSlotConflict), Outcome{http.StatusConflict, "SLOT_CONFLICT", errs.ErrSlotConflict.Error()}},
		{"resource in use", errs.ErrResourceInUse, Outcome{http.StatusConflict, "RESOURCE_IN_USE", errs.ErrResourceInUse.Error()}},
		{"idempotency key reused", errs.ErrIdempotencyKeyReused, Outcome{http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED", errs.ErrIdempotencyKeyReused.Error()}},
		{"resource not found", errs.ErrResourceNotFound, Outcome{http.StatusNotFound, "RESOURCE_NOT_FOUND", errs.ErrResourceNotFound.Error()}},
		{"booking not found", errs.ErrBookingNotFound, Outcome{http.StatusNotFound, "BOOKING_NOT_FOUND", errs.ErrBookingNotFound.Error()}},
		{"not owner", errs.ErrNotOwner, Outcome{http.StatusForbidden, "NOT_OWNER", errs.ErrNotOwner.Error()}},
		{"forbidden", errs.ErrForbidden, Outcome{http.StatusForbidden, "FORBIDDEN", errs.ErrForbidden.Error()}},
		{"persistence hides cause", errs.Mark(errors.New("dial tcp: refused"), errs.ErrPersistence), Outcome{http.StatusServiceUnavailable, "UNAVAILABLE", "Service temporarily unavailable"}},
		{"unknown", errors.New("boom"), Outcome{http.StatusInternalServerError, "INTERNAL", "Internal server error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestAbortWithEngineError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	render := func(err error) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		AbortWithEngineError(c, err)
		return rec
	}

	t.Run("conflict carries code", func(t *testing.T) {
		rec := render(errs.ErrSlotConflict)
		require.Equal(t, http.StatusConflict, rec.Code)

		var body Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "SLOT_CONFLICT", body.Error.Code)
		assert.Empty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("unavailable asks client to retry", func(t *testing.T) {
		rec := render(errs.Mark(errors.New("pool exhausted"), errs.ErrPersistence))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		assert.NotContains(t, rec.Body.String(), "pool exhausted")
	})
}
