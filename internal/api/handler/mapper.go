package handler

import (
	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}
}

func toAddHotelInput(req addHotelRequest) ports.AddHotelInput {
	return ports.AddHotelInput{
		Name:      req.Name,
		Location:  req.Location,
		ImagePath: req.ImagePath,
		RoomCount: req.RoomCount,
		RoomType:  req.RoomType,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Age:       u.Age,
		Role:      string(u.Role()),
		CreatedAt: u.CreatedAt,
	}
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:        h.ID,
		Name:      h.Name,
		Location:  h.Location,
		ImagePath: h.ImagePath,
		CreatedAt: h.CreatedAt,
	}
}

func toHotelList(hotels []domain.Hotel) hotelListResponse {
	out := hotelListResponse{Data: make([]hotelResponse, len(hotels))}
	for i, h := range hotels {
		out.Data[i] = toHotelResponse(h)
	}
	return out
}

func toHotelDetail(d *domain.HotelDetail) hotelDetailResponse {
	out := hotelDetailResponse{
		Hotel:          toHotelResponse(d.Hotel),
		Rooms:          make([]roomResponse, len(d.Rooms)),
		AvailableRooms: d.AvailableRooms(),
	}
	for i, r := range d.Rooms {
		out.Rooms[i] = roomResponse{
			ID:       r.ID,
			HotelID:  r.HotelID,
			RoomType: r.RoomType,
			Status:   string(r.Status()),
			IsBooked: r.IsBooked,
		}
	}
	return out
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		CreatedAt: b.CreatedAt,
	}
}

func toBookingList(bookings []domain.Booking) bookingListResponse {
	out := bookingListResponse{Data: make([]bookingResponse, len(bookings))}
	for i, b := range bookings {
		out.Data[i] = toBookingResponse(b)
	}
	return out
}
