package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

type BookingRepository struct {
	client   *mongo.Client
	rooms    *mongo.Collection
	bookings *mongo.Collection
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		client:   db.Client(),
		rooms:    db.Collection(collectionRooms),
		bookings: db.Collection(collectionBookings),
	}
}

type mongoBooking struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	RoomID    primitive.ObjectID `bson:"room_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (b mongoBooking) toDomain() domain.Booking {
	return domain.Booking{
		ID:        b.ID.Hex(),
		UserID:    b.UserID.Hex(),
		RoomID:    b.RoomID.Hex(),
		CreatedAt: b.CreatedAt.UTC(),
	}
}

// Book flips the room's is_booked flag with a conditional update and inserts
// the booking in the same transaction. When the update matches nothing the
// room either does not exist or is already booked.
func (r *BookingRepository) Book(ctx context.Context, userID, roomID string, at time.Time) (*domain.Booking, error) {
	roomOID, ok := parseID(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	userOID, ok := parseID(userID)
	if !ok {
		return nil, fmt.Errorf("book room: invalid user id %q", userID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoBooking{
		ID:        primitive.NewObjectID(),
		UserID:    userOID,
		RoomID:    roomOID,
		CreatedAt: at.UTC().Truncate(time.Millisecond),
	}

	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		upd, err := r.rooms.UpdateOne(sc,
			bson.M{"_id": roomOID, "is_booked": false},
			bson.M{"$set": bson.M{"is_booked": true}},
		)
		if err != nil {
			return fmt.Errorf("mark room booked: %w", err)
		}
		if upd.MatchedCount == 0 {
			return r.missOrTaken(sc, roomOID)
		}

		if _, err := r.bookings.InsertOne(sc, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrRoomUnavailable
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b := doc.toDomain()
	return &b, nil
}

func (r *BookingRepository) missOrTaken(ctx context.Context, roomID primitive.ObjectID) error {
	err := r.rooms.FindOne(ctx, bson.M{"_id": roomID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrRoomNotFound
	case err != nil:
		return fmt.Errorf("find room: %w", err)
	}
	return domain.ErrRoomUnavailable
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	oid, ok := parseID(userID)
	if !ok {
		return []domain.Booking{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.bookings.Find(ctx, bson.M{"user_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	var docs []mongoBooking
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	out := make([]domain.Booking, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}
