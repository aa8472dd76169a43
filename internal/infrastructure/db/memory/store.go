// Package memory is an in-process store for local development and tests.
// A single mutex guards every table, so each operation is atomic and
// isolated from every other.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

type bookingRow struct {
	domain.Booking
	seq uint64
}

// Store holds users, hotels, rooms and bookings in maps.
type Store struct {
	mu sync.RWMutex

	users      map[string]domain.User
	byUsername map[string]string

	hotels     map[string]domain.Hotel
	hotelOrder []string

	rooms        map[string]domain.Room
	roomsByHotel map[string][]string

	bookings      map[string]bookingRow
	bookingByRoom map[string]string
	seq           uint64

	newID func() string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		byUsername:    make(map[string]string),
		hotels:        make(map[string]domain.Hotel),
		rooms:         make(map[string]domain.Room),
		roomsByHotel:  make(map[string][]string),
		bookings:      make(map[string]bookingRow),
		bookingByRoom: make(map[string]string),
		newID:         uuid.NewString,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Hotels returns the hotel repository view of the store.
func (s *Store) Hotels() *HotelRepository { return &HotelRepository{s: s} }

// Bookings returns the booking repository view of the store.
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

// Ping always succeeds; it lets the store stand in for a database in
// readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

// Counts reports the number of rows per table.
func (s *Store) Counts() (users, hotels, rooms, bookings int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.hotels), len(s.rooms), len(s.bookings)
}

// Consistent checks the referential invariants: a room is booked iff
// exactly one booking references it, every room's hotel exists, and every
// booking's room exists.
func (s *Store) Consistent() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make(map[string]int, len(s.bookings))
	for id, b := range s.bookings {
		if _, ok := s.rooms[b.RoomID]; !ok {
			return fmt.Errorf("booking %s references missing room %s", id, b.RoomID)
		}
		refs[b.RoomID]++
	}
	for id, r := range s.rooms {
		if _, ok := s.hotels[r.HotelID]; !ok {
			return fmt.Errorf("room %s references missing hotel %s", id, r.HotelID)
		}
		n := refs[id]
		if r.IsBooked && n != 1 {
			return fmt.Errorf("room %s is booked but has %d bookings", id, n)
		}
		if !r.IsBooked && n != 0 {
			return fmt.Errorf("room %s is available but has %d bookings", id, n)
		}
	}
	return nil
}

// UserRepository implements ports.UserRepository.
type UserRepository struct{ s *Store }

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[user.Username]; exists {
		return nil, domain.ErrDuplicateUsername
	}

	u := *user
	u.ID = s.newID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = u
	s.byUsername[u.Username] = u.ID

	out := u
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

// HotelRepository implements ports.HotelRepository.
type HotelRepository struct{ s *Store }

var _ ports.HotelRepository = (*HotelRepository)(nil)

func (r *HotelRepository) CreateWithRooms(_ context.Context, in ports.NewHotel) (*domain.HotelDetail, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	h := domain.Hotel{
		ID:        s.newID(),
		Name:      in.Name,
		Location:  in.Location,
		ImagePath: in.ImagePath,
		CreatedAt: time.Now().UTC(),
	}

	rooms := make([]domain.Room, 0, in.RoomCount)
	ids := make([]string, 0, in.RoomCount)
	for i := 0; i < in.RoomCount; i++ {
		room := domain.Room{ID: s.newID(), HotelID: h.ID, RoomType: in.RoomType}
		rooms = append(rooms, room)
		ids = append(ids, room.ID)
	}

	s.hotels[h.ID] = h
	s.hotelOrder = append(s.hotelOrder, h.ID)
	for _, room := range rooms {
		s.rooms[room.ID] = room
	}
	s.roomsByHotel[h.ID] = ids

	return &domain.HotelDetail{Hotel: h, Rooms: rooms}, nil
}

func (r *HotelRepository) DeleteCascade(_ context.Context, hotelID string) (*domain.CascadeResult, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[hotelID]; !ok {
		return nil, domain.ErrHotelNotFound
	}

	res := &domain.CascadeResult{HotelID: hotelID}
	for _, roomID := range s.roomsByHotel[hotelID] {
		if bookingID, ok := s.bookingByRoom[roomID]; ok {
			delete(s.bookings, bookingID)
			delete(s.bookingByRoom, roomID)
			res.BookingsDeleted++
		}
		delete(s.rooms, roomID)
		res.RoomsDeleted++
	}
	delete(s.roomsByHotel, hotelID)
	delete(s.hotels, hotelID)

	for i, id := range s.hotelOrder {
		if id == hotelID {
			s.hotelOrder = append(s.hotelOrder[:i], s.hotelOrder[i+1:]...)
			break
		}
	}
	return res, nil
}

func (r *HotelRepository) List(_ context.Context) ([]domain.Hotel, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Hotel, 0, len(s.hotelOrder))
	for _, id := range s.hotelOrder {
		out = append(out, s.hotels[id])
	}
	return out, nil
}

func (r *HotelRepository) FindByID(_ context.Context, hotelID string) (*domain.Hotel, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hotels[hotelID]
	if !ok {
		return nil, domain.ErrHotelNotFound
	}
	return &h, nil
}

func (r *HotelRepository) ListRooms(_ context.Context, hotelID string) ([]domain.Room, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.roomsByHotel[hotelID]
	out := make([]domain.Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rooms[id])
	}
	return out, nil
}

// BookingRepository implements ports.BookingRepository.
type BookingRepository struct{ s *Store }

var _ ports.BookingRepository = (*BookingRepository)(nil)

func (r *BookingRepository) Book(_ context.Context, userID, roomID string, at time.Time) (*domain.Booking, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if !room.Status().CanTransitionTo(domain.RoomBooked) {
		return nil, domain.ErrRoomUnavailable
	}

	s.seq++
	b := bookingRow{
		Booking: domain.Booking{ID: s.newID(), UserID: userID, RoomID: roomID, CreatedAt: at},
		seq:     s.seq,
	}
	room.IsBooked = true
	s.rooms[roomID] = room
	s.bookings[b.ID] = b
	s.bookingByRoom[roomID] = b.ID

	out := b.Booking
	return &out, nil
}

func (r *BookingRepository) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]bookingRow, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			rows = append(rows, b)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]domain.Booking, len(rows))
	for i, b := range rows {
		out[i] = b.Booking
	}
	return out, nil
}
