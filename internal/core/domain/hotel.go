package domain

import "time"

// RoomStatus is the booking state of a room. The only transition is
// available -> booked; a booked room leaves that state only by being
// deleted together with its hotel.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomBooked    RoomStatus = "booked"
)

// CanTransitionTo reports whether a room in status s may move to next.
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	return s == RoomAvailable && next == RoomBooked
}

// Hotel is a property managed by an administrator. It owns its rooms.
type Hotel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Room belongs to exactly one hotel.
type Room struct {
	ID       string `json:"id"`
	HotelID  string `json:"hotel_id"`
	RoomType string `json:"room_type"`
	IsBooked bool   `json:"is_booked"`
}

// Status maps the stored flag to a RoomStatus.
func (r Room) Status() RoomStatus {
	if r.IsBooked {
		return RoomBooked
	}
	return RoomAvailable
}

// HotelDetail is a hotel together with all of its rooms.
type HotelDetail struct {
	Hotel Hotel
	Rooms []Room
}

// AvailableRooms counts the rooms that can still be booked.
func (d *HotelDetail) AvailableRooms() int {
	n := 0
	for _, r := range d.Rooms {
		if !r.IsBooked {
			n++
		}
	}
	return n
}

// CascadeResult reports what a hotel deletion removed.
type CascadeResult struct {
	HotelID         string
	RoomsDeleted    int64
	BookingsDeleted int64
}
