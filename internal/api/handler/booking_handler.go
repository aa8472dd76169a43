package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lakeview/hotel-booking/internal/api/metrics"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Book handles POST /rooms/:id/book.
//
// @Summary      Book a room
// @Description  At most one of any number of concurrent requests for the same room succeeds; the others get 409.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Room ID"
// @Success      201  {object}  bookResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /rooms/{id}/book [post]
func (h *BookingHandler) Book(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues(metrics.ResultDenied).Inc()
		return err
	}

	timer := prometheus.NewTimer(metrics.BookingDuration)
	booking, err := h.service.Book(c.Request().Context(), who, c.Param("id"))
	timer.ObserveDuration()
	metrics.BookingsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, bookResponse{Booking: toBookingResponse(*booking)})
}

// Mine handles GET /bookings.
//
// @Summary      List the caller's bookings, newest first
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  bookingListResponse
// @Failure      401  {object}  errorResponse
// @Router       /bookings [get]
func (h *BookingHandler) Mine(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.ListBookings(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingList(bookings))
}
