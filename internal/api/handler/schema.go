package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required,max=72"`
	Age      int    `json:"age"      validate:"gte=0,lte=150"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Age       int       `json:"age"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	User userResponse `json:"user"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
	// Redirect is the page the client should open next.
	Redirect string `json:"redirect"`
}

// --- Hotels ---

type addHotelRequest struct {
	Name      string `json:"name"       validate:"required,max=200"`
	Location  string `json:"location"   validate:"required,max=200"`
	ImagePath string `json:"image_path" validate:"max=500"`
	RoomCount int    `json:"room_count" validate:"gte=0,lte=500"`
	RoomType  string `json:"room_type"  validate:"required,max=200"`
}

type hotelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type roomResponse struct {
	ID       string `json:"id"`
	HotelID  string `json:"hotel_id"`
	RoomType string `json:"room_type"`
	Status   string `json:"status"`
	IsBooked bool   `json:"is_booked"`
}

type hotelListResponse struct {
	Data []hotelResponse `json:"data"`
}

type hotelDetailResponse struct {
	Hotel          hotelResponse  `json:"hotel"`
	Rooms          []roomResponse `json:"rooms"`
	AvailableRooms int            `json:"available_rooms"`
}

type deleteHotelResponse struct {
	HotelID         string `json:"hotel_id"`
	RoomsDeleted    int64  `json:"rooms_deleted"`
	BookingsDeleted int64  `json:"bookings_deleted"`
}

// --- Bookings ---

type bookingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

type bookResponse struct {
	Booking bookingResponse `json:"booking"`
}

type bookingListResponse struct {
	Data []bookingResponse `json:"data"`
}
