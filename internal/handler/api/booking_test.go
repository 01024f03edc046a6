//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"turf-booking/internal/domain/user"
	"turf-booking/internal/handler/api"
	resdto "turf-booking/internal/handler/dto/response"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/testutil"
	"turf-booking/internal/testutil/builder"
	"turf-booking/internal/testutil/httptest"
	commandsmock "turf-booking/internal/testutil/mock/commands"
	queriesmock "turf-booking/internal/testutil/mock/queries"
	"turf-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	customer     user.Actor
	admin        user.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)

	h, err := api.NewBookingHandler(s.mockCommands, s.mockQueries, config.NewTestConfig())
	s.Require().NoError(err)

	s.customer = mustActor(user.RoleCustomer)
	s.admin = mustActor(user.RoleAdmin)
	auth := fakeAuth(map[string]user.Actor{customerToken: s.customer, adminToken: s.admin})

	s.router.POST("/api/bookings", auth, h.Create)
	s.router.GET("/api/bookings", auth, h.ListMine)
	s.router.GET("/api/bookings/:id", auth, h.Get)
	s.router.DELETE("/api/bookings/:id", auth, h.Cancel)
	s.router.GET("/api/admin/bookings", auth, h.ListAll)
	s.router.GET("/api/resources/:id/bookings", auth, h.ListForResource)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/api/bookings"
	b := builder.NewBookingBuilder().WithStart("2025-07-15 10:00").WithDuration(2)
	reqBody := b.BuildDTO()
	view := b.BuildView()

	s.Run("success: returns 201 with the booking rendered in the booking zone", func() {
		s.mockCommands.EXPECT().
			CreateBooking(gomock.Any(), s.customer, b.BuildParams()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, customerToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.ID)
		s.Equal("2025-07-15 10:00", body.Start)
		s.Equal("2025-07-15 12:00", body.End)
		s.Equal(2, body.DurationHours)
		s.Equal("100.00", body.TotalCost)
		s.Equal("Green Field Arena", body.ResourceName)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + view.ID.String()})
	})

	s.Run("error: 401 without an authenticated actor", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 400 on binding failures", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing resource_id", mutate: testutil.Field("resource_id", nil)},
			{name: "nil resource_id", mutate: testutil.Field("resource_id", uuid.Nil.String())},
			{name: "malformed resource_id", mutate: testutil.Field("resource_id", "not-a-uuid")},
			{name: "missing start", mutate: testutil.Field("start", nil)},
			{name: "empty start", mutate: testutil.Field("start", "")},
			{name: "non-numeric duration", mutate: testutil.Field("duration_hours", "two")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, customerToken)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("success: Idempotency-Key header is passed through", func() {
		key := uuid.New()
		keyed := builder.NewBookingBuilder().WithStart("2025-07-15 10:00").WithDuration(2).
			WithResourceID(b.ResourceID).WithIdempotencyKey(key)
		s.mockCommands.EXPECT().
			CreateBooking(gomock.Any(), s.customer, keyed.BuildParams()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, customerToken,
			map[string]string{"Idempotency-Key": key.String()})
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: 400 on a malformed Idempotency-Key", func() {
		for _, raw := range []string{"not-a-uuid", uuid.Nil.String()} {
			rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, customerToken,
				map[string]string{"Idempotency-Key": raw})
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid Idempotency-Key header")
		}
	})

	s.Run("error: 400 on malformed JSON", func() {
		rec := httptest.PerformRaw(s.T(), s.router, http.MethodPost, url, `{"resource_id":`, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: engine failures map to their status", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unparseable start", err: errs.ErrParse, expectCode: http.StatusBadRequest},
			{name: "duration out of range", err: errs.ErrDuration, expectCode: http.StatusBadRequest},
			{name: "start in the past", err: errs.ErrPastBooking, expectCode: http.StatusConflict},
			{name: "unknown resource", err: errs.ErrResourceNotFound, expectCode: http.StatusNotFound},
			{name: "overlapping slot", err: errs.ErrSlotConflict, expectCode: http.StatusConflict},
			{name: "idempotency key reused", err: errs.ErrIdempotencyKeyReused, expectCode: http.StatusUnprocessableEntity},
			{name: "store unavailable", err: errs.ErrPersistence, expectCode: http.StatusServiceUnavailable},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					CreateBooking(gomock.Any(), s.customer, gomock.Any()).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, customerToken)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("zero duration is left to the engine", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("duration_hours", nil))
		params := b.BuildParams()
		params.DurationHours = 0
		s.mockCommands.EXPECT().
			CreateBooking(gomock.Any(), s.customer, params).
			Return(nil, errs.ErrDuration).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, errs.ErrDuration.Error())
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	view := builder.NewBookingBuilder().WithActorID(s.customer.ID()).BuildView()
	url := "/api/bookings/" + view.ID.String()

	s.Run("success: owner reads the booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.customer, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, customerToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
		s.Equal(s.customer.ID(), body.ActorID)
	})

	s.Run("error: 403 for another actor's booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.customer, view.ID).Return(nil, errs.ErrNotOwner).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, errs.ErrNotOwner.Error())
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.admin, view.ID).Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, errs.ErrBookingNotFound.Error())
	})

	s.Run("error: 400 on invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/nope", nil, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking id")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	id := uuid.New()
	url := "/api/bookings/" + id.String()

	s.Run("success: 204 No Content", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), s.customer, id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, customerToken)
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("error: engine failures", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "already started", err: errs.ErrPastBooking, expectCode: http.StatusConflict},
			{name: "not the owner", err: errs.ErrNotOwner, expectCode: http.StatusForbidden},
			{name: "unknown booking", err: errs.ErrBookingNotFound, expectCode: http.StatusNotFound},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CancelBooking(gomock.Any(), s.customer, id).Return(tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, customerToken)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.err.Error())
			})
		}
	})
}

// ================================================================================
// TestLists
// ================================================================================

func (s *BookingHandlerTestSuite) TestListMine() {
	views := []*queries.BookingView{
		builder.NewBookingBuilder().WithActorID(s.customer.ID()).WithStart("2025-07-16 10:00").BuildView(),
		builder.NewBookingBuilder().WithActorID(s.customer.ID()).WithStart("2025-07-15 10:00").BuildView(),
	}
	s.mockQueries.EXPECT().ListByActor(gomock.Any(), s.customer.ID()).Return(views, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings", nil, customerToken)

	var body resdto.BookingListResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Require().Len(body.Bookings, 2)
	s.Equal("2025-07-16 10:00", body.Bookings[0].Start)
	s.Equal("2025-07-15 10:00", body.Bookings[1].Start)
}

func (s *BookingHandlerTestSuite) TestListAll() {
	s.Run("success: admin sees every booking", func() {
		views := []*queries.BookingView{builder.NewBookingBuilder().BuildView()}
		s.mockQueries.EXPECT().ListAll(gomock.Any(), s.admin).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/bookings", nil, adminToken)

		var body resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Bookings, 1)
	})

	s.Run("error: 403 for customers", func() {
		s.mockQueries.EXPECT().ListAll(gomock.Any(), s.customer).Return(nil, errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/bookings", nil, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})
}

func (s *BookingHandlerTestSuite) TestListForResource() {
	resourceID := uuid.New()
	url := "/api/resources/" + resourceID.String() + "/bookings"

	s.Run("success: empty list is an empty array", func() {
		s.mockQueries.EXPECT().ListForResource(gomock.Any(), resourceID).Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, customerToken)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"bookings":[]}`, rec.Body.String())
	})

	s.Run("error: 404 for unknown resource", func() {
		s.mockQueries.EXPECT().ListForResource(gomock.Any(), resourceID).Return(nil, errs.ErrResourceNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, customerToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, errs.ErrResourceNotFound.Error())
	})
}
