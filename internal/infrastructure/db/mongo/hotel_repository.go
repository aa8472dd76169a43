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

type HotelRepository struct {
	client   *mongo.Client
	hotels   *mongo.Collection
	rooms    *mongo.Collection
	bookings *mongo.Collection
}

var _ ports.HotelRepository = (*HotelRepository)(nil)

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{
		client:   db.Client(),
		hotels:   db.Collection(collectionHotels),
		rooms:    db.Collection(collectionRooms),
		bookings: db.Collection(collectionBookings),
	}
}

type mongoHotel struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Location  string             `bson:"location"`
	ImagePath string             `bson:"image_path,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (h mongoHotel) toDomain() domain.Hotel {
	return domain.Hotel{
		ID:        h.ID.Hex(),
		Name:      h.Name,
		Location:  h.Location,
		ImagePath: h.ImagePath,
		CreatedAt: h.CreatedAt.UTC(),
	}
}

type mongoRoom struct {
	ID       primitive.ObjectID `bson:"_id"`
	HotelID  primitive.ObjectID `bson:"hotel_id"`
	RoomType string             `bson:"room_type"`
	IsBooked bool               `bson:"is_booked"`
}

func (r mongoRoom) toDomain() domain.Room {
	return domain.Room{
		ID:       r.ID.Hex(),
		HotelID:  r.HotelID.Hex(),
		RoomType: r.RoomType,
		IsBooked: r.IsBooked,
	}
}

// CreateWithRooms inserts the hotel and its rooms in one transaction.
func (r *HotelRepository) CreateWithRooms(ctx context.Context, in ports.NewHotel) (*domain.HotelDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	hotel := mongoHotel{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Location:  in.Location,
		ImagePath: in.ImagePath,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	rooms := make([]mongoRoom, in.RoomCount)
	docs := make([]interface{}, in.RoomCount)
	for i := range rooms {
		rooms[i] = mongoRoom{ID: primitive.NewObjectID(), HotelID: hotel.ID, RoomType: in.RoomType}
		docs[i] = rooms[i]
	}

	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.hotels.InsertOne(sc, hotel); err != nil {
			return fmt.Errorf("insert hotel: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := r.rooms.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert rooms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	detail := &domain.HotelDetail{Hotel: hotel.toDomain(), Rooms: make([]domain.Room, len(rooms))}
	for i, room := range rooms {
		detail.Rooms[i] = room.toDomain()
	}
	return detail, nil
}

// DeleteCascade removes bookings, rooms and the hotel in one transaction.
func (r *HotelRepository) DeleteCascade(ctx context.Context, hotelID string) (*domain.CascadeResult, error) {
	oid, ok := parseID(hotelID)
	if !ok {
		return nil, domain.ErrHotelNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := &domain.CascadeResult{HotelID: hotelID}
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		*res = domain.CascadeResult{HotelID: hotelID}

		if err := r.hotels.FindOne(sc, bson.M{"_id": oid}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrHotelNotFound
			}
			return fmt.Errorf("find hotel: %w", err)
		}

		roomIDs, err := r.roomIDs(sc, oid)
		if err != nil {
			return err
		}

		if len(roomIDs) > 0 {
			del, err := r.bookings.DeleteMany(sc, bson.M{"room_id": bson.M{"$in": roomIDs}})
			if err != nil {
				return fmt.Errorf("delete bookings: %w", err)
			}
			res.BookingsDeleted = del.DeletedCount
		}

		del, err := r.rooms.DeleteMany(sc, bson.M{"hotel_id": oid})
		if err != nil {
			return fmt.Errorf("delete rooms: %w", err)
		}
		res.RoomsDeleted = del.DeletedCount

		if _, err := r.hotels.DeleteOne(sc, bson.M{"_id": oid}); err != nil {
			return fmt.Errorf("delete hotel: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *HotelRepository) roomIDs(ctx context.Context, hotelID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := r.rooms.Find(ctx, bson.M{"hotel_id": hotelID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find rooms: %w", err)
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

func (r *HotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.hotels.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	var docs []mongoHotel
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode hotels: %w", err)
	}

	out := make([]domain.Hotel, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *HotelRepository) FindByID(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	oid, ok := parseID(hotelID)
	if !ok {
		return nil, domain.ErrHotelNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoHotel
	if err := r.hotels.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHotelNotFound
		}
		return nil, fmt.Errorf("find hotel: %w", err)
	}
	h := doc.toDomain()
	return &h, nil
}

func (r *HotelRepository) ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	oid, ok := parseID(hotelID)
	if !ok {
		return []domain.Room{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.rooms.Find(ctx, bson.M{"hotel_id": oid}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	var docs []mongoRoom
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}

	out := make([]domain.Room, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}
