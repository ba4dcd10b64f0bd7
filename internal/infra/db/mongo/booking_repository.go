package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "bookflow/internal/domain/booking"
	domainroom "bookflow/internal/domain/room"
	domainrange "bookflow/internal/domain/shared/daterange"
	domainuser "bookflow/internal/domain/user"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

// EnsureIndexes creates the unique reference index (reference codes are
// random, uniqueness is enforced here rather than assumed) and the
// compound index backing the conflict query.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}, {Key: "check_in", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	return err
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID domainuser.ID, status domainbooking.Status) ([]*domainbooking.Booking, error) {
	filter := bson.M{"user_id": string(userID)}
	if status != "" {
		filter["status"] = string(status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *BookingRepository) HasConflict(ctx context.Context, roomID domainroom.RoomID, dr domainrange.DateRange) (bool, error) {
	count, err := r.col.CountDocuments(ctx, conflictFilter(dr, string(roomID)), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingRepository) ConflictingRoomIDs(ctx context.Context, dr domainrange.DateRange) ([]domainroom.RoomID, error) {
	values, err := r.col.Distinct(ctx, "room_id", conflictFilter(dr, ""))
	if err != nil {
		return nil, err
	}
	ids := make([]domainroom.RoomID, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, domainroom.RoomID(s))
		}
	}
	return ids, nil
}

// conflictFilter mirrors the inclusive overlap predicate:
// check_in <= requested check-out AND check_out >= requested check-in,
// restricted to upcoming bookings.
func conflictFilter(dr domainrange.DateRange, roomID string) bson.M {
	filter := bson.M{
		"status":    string(domainbooking.StatusUpcoming),
		"check_in":  bson.M{"$lte": dr.CheckOut.UnixMilli()},
		"check_out": bson.M{"$gte": dr.CheckIn.UnixMilli()},
	}
	if roomID != "" {
		filter["room_id"] = roomID
	}
	return filter
}

type contactDocument struct {
	Title string `bson:"title"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

type bookingDocument struct {
	ID         string          `bson:"_id"`
	UserID     string          `bson:"user_id"`
	RoomID     string          `bson:"room_id"`
	CheckIn    int64           `bson:"check_in"`
	CheckOut   int64           `bson:"check_out"`
	Guests     int             `bson:"guests"`
	Contact    contactDocument `bson:"contact"`
	Status     string          `bson:"status"`
	TotalCents int64           `bson:"total_cents"`
	Reference  string          `bson:"reference"`
	CreatedAt  int64           `bson:"created_at"`
	UpdatedAt  int64           `bson:"updated_at"`
	Version    int64           `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:       string(b.ID),
		UserID:   string(b.UserID),
		RoomID:   string(b.RoomID),
		CheckIn:  b.Range.CheckIn.UnixMilli(),
		CheckOut: b.Range.CheckOut.UnixMilli(),
		Guests:   b.Guests,
		Contact: contactDocument{
			Title: string(b.Contact.Title),
			Name:  b.Contact.Name,
			Email: b.Contact.Email,
		},
		Status:     string(b.Status),
		TotalCents: b.TotalCents,
		Reference:  b.Reference,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
		Version:    b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:     domainbooking.BookingID(d.ID),
		UserID: domainuser.ID(d.UserID),
		RoomID: domainroom.RoomID(d.RoomID),
		Range: domainrange.DateRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		Guests: d.Guests,
		Contact: domainbooking.Contact{
			Title: domainbooking.ContactTitle(d.Contact.Title),
			Name:  d.Contact.Name,
			Email: d.Contact.Email,
		},
		Status:     domainbooking.Status(d.Status),
		TotalCents: d.TotalCents,
		Reference:  d.Reference,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
