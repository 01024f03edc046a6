package api

import (
	"net/http"
	"time"

	reqdto "turf-booking/internal/handler/dto/request"
	resdto "turf-booking/internal/handler/dto/response"
	"turf-booking/internal/handler/httperr"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/usecase/commands"
	"turf-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds     commands.BookingCommands
	q        queries.BookingQueries
	location *time.Location
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries, cfg config.Config) (*BookingHandler, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}
	return &BookingHandler{cmds: cmds, q: q, location: loc}, nil
}

// @Summary Create booking
// @Description Book a resource for whole hours starting at a local "yyyy-MM-dd HH:mm" time
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID; a retry with the same key and body returns the original booking"
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.CreateBooking(c.Request.Context(), actor, req.ToParams(key))
	if err != nil {
		httperr.AbortWithEngineError(c, err)
		return
	}

	c.Header("Location", "/api/bookings/"+view.ID.String())
	c.JSON(http.StatusCreated, resdto.FromBookingView(view, h.location))
}

// @Summary Get booking
// @Description Get a booking by ID (owner or admin)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Invalid booking id")
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view, h.location))
}

// @Summary List own bookings
// @Description Booking history of the caller, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Router /api/bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	items, err := h.q.ListByActor(c.Request.Context(), actor.ID())
	if err != nil {
		httperr.AbortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewBookingListResponse(items, h.location))
}

// @Summary List all bookings
// @Description Every booking in the system, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BookingListResponse
// @Failure 403 {object} httperr.Response
// @Router /api/admin/bookings [get]
func (h *BookingHandler) ListAll(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	items, err := h.q.ListAll(c.Request.Context(), actor)
	if err != nil {
		httperr.AbortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewBookingListResponse(items, h.location))
}

// @Summary List resource bookings
// @Description Reservations of a resource ordered by start time
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id}/bookings [get]
func (h *BookingHandler) ListForResource(c *gin.Context) {
	resourceID, ok := pathID(c, "Invalid resource id")
	if !ok {
		return
	}

	items, err := h.q.ListForResource(c.Request.Context(), resourceID)
	if err != nil {
		httperr.AbortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.NewBookingListResponse(items, h.location))
}

// @Summary Cancel booking
// @Description Cancel an own booking that has not started yet
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Invalid booking id")
	if !ok {
		return
	}

	if err := h.cmds.CancelBooking(c.Request.Context(), actor, id); err != nil {
		httperr.AbortWithEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
