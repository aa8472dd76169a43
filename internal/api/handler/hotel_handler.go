package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lakeview/hotel-booking/internal/api/metrics"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

// HotelHandler serves the hotel catalog and the admin inventory routes.
type HotelHandler struct {
	service ports.InventoryService
}

func NewHotelHandler(service ports.InventoryService) *HotelHandler {
	return &HotelHandler{service: service}
}

// List handles GET /hotels and GET /admin/hotels.
//
// @Summary      List hotels
// @Tags         hotels
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  hotelListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /hotels [get]
// @Router       /admin/hotels [get]
func (h *HotelHandler) List(c echo.Context) error {
	hotels, err := h.service.ListHotels(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHotelList(hotels))
}

// Detail handles GET /hotels/:id.
//
// @Summary      Hotel detail with every room and its status
// @Tags         hotels
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Hotel ID"
// @Success      200  {object}  hotelDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /hotels/{id} [get]
func (h *HotelHandler) Detail(c echo.Context) error {
	detail, err := h.service.HotelDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHotelDetail(detail))
}

// Create handles POST /admin/hotels.
//
// @Summary      Add a hotel and its rooms
// @Description  Creates the hotel and room_count available rooms of room_type in one transaction.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addHotelRequest  true  "Hotel and room batch"
// @Success      201   {object}  hotelDetailResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/hotels [post]
func (h *HotelHandler) Create(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return err
	}

	var req addHotelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	detail, err := h.service.AddHotel(c.Request().Context(), actor, toAddHotelInput(req))
	if err != nil {
		return err
	}

	metrics.HotelsCreatedTotal.Inc()
	metrics.RoomsCreatedTotal.Add(float64(len(detail.Rooms)))

	return c.JSON(http.StatusCreated, toHotelDetail(detail))
}

// Delete handles DELETE /admin/hotels/:id.
//
// @Summary      Delete a hotel with its rooms and bookings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Hotel ID"
// @Success      200  {object}  deleteHotelResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/hotels/{id} [delete]
func (h *HotelHandler) Delete(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return err
	}

	res, err := h.service.DeleteHotel(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.HotelsDeletedTotal.Inc()
	metrics.RoomsDeletedTotal.Add(float64(res.RoomsDeleted))
	metrics.BookingsDeletedTotal.Add(float64(res.BookingsDeleted))

	return c.JSON(http.StatusOK, deleteHotelResponse{
		HotelID:         res.HotelID,
		RoomsDeleted:    res.RoomsDeleted,
		BookingsDeleted: res.BookingsDeleted,
	})
}
