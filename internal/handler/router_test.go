//go:build unit

package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"turf-booking/internal/domain/user"
	"turf-booking/internal/handler"
	"turf-booking/internal/handler/api"
	"turf-booking/internal/handler/middleware"
	"turf-booking/internal/infra/ratelimit"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/jwt"
	"turf-booking/internal/pkg/metrics"
	"turf-booking/internal/testutil/httptest"
	commandsmock "turf-booking/internal/testutil/mock/commands"
	queriesmock "turf-booking/internal/testutil/mock/queries"
	"turf-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerFixture struct {
	engine   *gin.Engine
	tokens   *jwt.Service
	bookingQ *queriesmock.MockBookingQueries
	resource *commandsmock.MockResourceCommands
}

func newRouterFixture(t *testing.T, recorder metrics.Recorder, enableMetrics bool) *routerFixture {
	t.Helper()
	return newThrottledRouterFixture(t, recorder, enableMetrics, nil)
}

func newThrottledRouterFixture(t *testing.T, recorder metrics.Recorder, enableMetrics bool, limiter middleware.RateLimiter) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig()
	cfg.Metrics.Enabled = enableMetrics

	ctrl := gomock.NewController(t)
	bookingQ := queriesmock.NewMockBookingQueries(ctrl)
	resourceCmds := commandsmock.NewMockResourceCommands(ctrl)

	bookingHandler, err := api.NewBookingHandler(commandsmock.NewMockBookingCommands(ctrl), bookingQ, cfg)
	require.NoError(t, err)

	tokens := jwt.NewService(cfg.JWT.Secret, time.Hour)
	engine := gin.New()
	handler.NewRouter(engine, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), recorder, handler.Handlers{
		Booking:  bookingHandler,
		Resource: api.NewResourceHandler(resourceCmds, queriesmock.NewMockResourceQueries(ctrl)),
		Auth:     middleware.NewAuthMiddleware(tokens),
		Limiter:  limiter,
	})

	return &routerFixture{engine: engine, tokens: tokens, bookingQ: bookingQ, resource: resourceCmds}
}

func (f *routerFixture) token(t *testing.T, role user.Role) string {
	t.Helper()
	tok, err := f.tokens.GenerateToken(uuid.New(), role)
	require.NoError(t, err)
	return tok
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t, metrics.Nop{}, false)

	rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Service is healthy"}`, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRouter_RequestIDPropagation(t *testing.T) {
	f := newRouterFixture(t, metrics.Nop{}, false)

	send := func(id string) string {
		req := nethttptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", id)
		rec := nethttptest.NewRecorder()
		f.engine.ServeHTTP(rec, req)
		return rec.Header().Get("X-Request-ID")
	}

	upstream := uuid.NewString()
	assert.Equal(t, upstream, send(upstream))

	replaced := send("<script>")
	assert.NotEqual(t, "<script>", replaced)
	_, err := uuid.Parse(replaced)
	assert.NoError(t, err)
}

func TestRouter_Authentication(t *testing.T) {
	f := newRouterFixture(t, metrics.Nop{}, false)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/api/bookings", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/api/bookings", nil, "not-a-jwt")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := jwt.NewService("other-secret", time.Hour).GenerateToken(uuid.New(), user.RoleAdmin)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/api/bookings", nil, other)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestRouter_AdminRoutes(t *testing.T) {
	f := newRouterFixture(t, metrics.Nop{}, false)

	t.Run("customer is refused before reaching the handler", func(t *testing.T) {
		tok := f.token(t, user.RoleCustomer)

		rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/api/admin/bookings", nil, tok)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Insufficient permissions")

		rec = httptest.PerformRequest(t, f.engine, http.MethodDelete, "/api/resources/"+uuid.NewString(), nil, tok)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Insufficient permissions")
	})

	t.Run("admin passes through", func(t *testing.T) {
		f.bookingQ.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return([]*queries.BookingView{}, nil).Times(1)

		rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/api/admin/bookings", nil, f.token(t, user.RoleAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
	})

	t.Run("admin can delete resources", func(t *testing.T) {
		id := uuid.New()
		f.resource.EXPECT().DeleteResource(gomock.Any(), gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(t, f.engine, http.MethodDelete, "/api/resources/"+id.String(), nil, f.token(t, user.RoleAdmin))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	t.Run("exposes http counters when enabled", func(t *testing.T) {
		f := newRouterFixture(t, metrics.New("turf_test"), true)

		httptest.PerformRequest(t, f.engine, http.MethodGet, "/health", nil, "")
		rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/metrics", nil, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `turf_test_http_requests_total{method="GET",route="/health",status="2xx"} 1`)
	})

	t.Run("no endpoint when disabled", func(t *testing.T) {
		f := newRouterFixture(t, metrics.Nop{}, false)

		rec := httptest.PerformRequest(t, f.engine, http.MethodGet, "/metrics", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_CORSExposesBookingHeaders(t *testing.T) {
	f := newRouterFixture(t, metrics.Nop{}, false)

	req := nethttptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := nethttptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Location")
	assert.Contains(t, exposed, "X-Request-Id")
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{Limit: 1, RetryAfter: time.Second}, nil
}

func TestRouter_ThrottlesBookingCreationOnly(t *testing.T) {
	f := newThrottledRouterFixture(t, metrics.Nop{}, false, denyAll{})
	tok := f.token(t, user.RoleCustomer)

	rec := httptest.PerformRequest(t, f.engine, http.MethodPost, "/api/bookings",
		map[string]any{"resource_id": uuid.New(), "start": "2099-07-15 10:00", "duration_hours": 1}, tok)
	httptest.AssertErrorResponse(t, rec, http.StatusTooManyRequests, "Too many booking attempts")
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	f.bookingQ.EXPECT().ListByActor(gomock.Any(), gomock.Any()).Return([]*queries.BookingView{}, nil)
	rec = httptest.PerformRequest(t, f.engine, http.MethodGet, "/api/bookings", nil, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}
