package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

type HotelRepository struct {
	db *DB
}

var _ ports.HotelRepository = (*HotelRepository)(nil)

// validID reports whether id can name a row; anything else is "not found"
// rather than a driver error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *HotelRepository) CreateWithRooms(ctx context.Context, in ports.NewHotel) (*domain.HotelDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	detail := &domain.HotelDetail{Rooms: make([]domain.Room, 0, in.RoomCount)}
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		detail.Rooms = detail.Rooms[:0]

		h := &detail.Hotel
		err := tx.QueryRow(ctx, `
			INSERT INTO hotels (name, location, image_path)
			VALUES ($1, $2, $3)
			RETURNING id::text, name, location, image_path, created_at`,
			in.Name, in.Location, in.ImagePath,
		).Scan(&h.ID, &h.Name, &h.Location, &h.ImagePath, &h.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert hotel: %w", err)
		}
		h.CreatedAt = h.CreatedAt.UTC()

		if in.RoomCount == 0 {
			return nil
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO rooms (hotel_id, room_type)
			SELECT $1::uuid, $2::text FROM generate_series(1, $3::int)
			RETURNING id::text, hotel_id::text, room_type, is_booked`,
			h.ID, in.RoomType, in.RoomCount,
		)
		if err != nil {
			return fmt.Errorf("insert rooms: %w", err)
		}
		rooms, err := pgx.CollectRows(rows, scanRoom)
		if err != nil {
			return fmt.Errorf("insert rooms: %w", err)
		}
		detail.Rooms = append(detail.Rooms, rooms...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteCascade locks the hotel row and its rooms, then removes the
// bookings, rooms and the hotel itself. Locking the rooms makes a concurrent
// Book either commit before the bookings are deleted or wait and find the
// room gone.
func (r *HotelRepository) DeleteCascade(ctx context.Context, hotelID string) (*domain.CascadeResult, error) {
	if !validID(hotelID) {
		return nil, domain.ErrHotelNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := &domain.CascadeResult{HotelID: hotelID}
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id::text FROM hotels WHERE id = $1 FOR UPDATE`, hotelID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrHotelNotFound
			}
			return fmt.Errorf("lock hotel: %w", err)
		}

		if _, err := tx.Exec(ctx, `SELECT id FROM rooms WHERE hotel_id = $1 FOR UPDATE`, hotelID); err != nil {
			return fmt.Errorf("lock rooms: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM bookings
			WHERE room_id IN (SELECT id FROM rooms WHERE hotel_id = $1)`, hotelID)
		if err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		res.BookingsDeleted = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM rooms WHERE hotel_id = $1`, hotelID)
		if err != nil {
			return fmt.Errorf("delete rooms: %w", err)
		}
		res.RoomsDeleted = tag.RowsAffected()

		if _, err := tx.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, hotelID); err != nil {
			return fmt.Errorf("delete hotel: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *HotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, `
		SELECT id::text, name, location, image_path, created_at
		FROM hotels ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	hotels, err := pgx.CollectRows(rows, scanHotel)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	return hotels, nil
}

func (r *HotelRepository) FindByID(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	if !validID(hotelID) {
		return nil, domain.ErrHotelNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, `
		SELECT id::text, name, location, image_path, created_at
		FROM hotels WHERE id = $1`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("find hotel: %w", err)
	}
	h, err := pgx.CollectExactlyOneRow(rows, scanHotel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHotelNotFound
		}
		return nil, fmt.Errorf("find hotel: %w", err)
	}
	return &h, nil
}

func (r *HotelRepository) ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	if !validID(hotelID) {
		return []domain.Room{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, `
		SELECT id::text, hotel_id::text, room_type, is_booked
		FROM rooms WHERE hotel_id = $1 ORDER BY id`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	rooms, err := pgx.CollectRows(rows, scanRoom)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func scanHotel(row pgx.CollectableRow) (domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(&h.ID, &h.Name, &h.Location, &h.ImagePath, &h.CreatedAt)
	h.CreatedAt = h.CreatedAt.UTC()
	return h, err
}

func scanRoom(row pgx.CollectableRow) (domain.Room, error) {
	var r domain.Room
	err := row.Scan(&r.ID, &r.HotelID, &r.RoomType, &r.IsBooked)
	return r, err
}
