package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainroom "bookflow/internal/domain/room"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("rooms")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.RoomID) (*domainroom.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainroom.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) Save(ctx context.Context, room *domainroom.Room) error {
	doc := newRoomDocument(room)
	filter := bson.M{"_id": doc.ID, "version": room.Version}
	doc.Version = room.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	room.Version = doc.Version
	return nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainroom.Room, error) {
	return r.find(ctx, bson.M{})
}

func (r *RoomRepository) Search(ctx context.Context, params domainroom.SearchParams) ([]*domainroom.Room, error) {
	filter := bson.M{}
	if params.MinCapacity > 0 {
		filter["capacity"] = bson.M{"$gte": params.MinCapacity}
	}
	if params.OnlyAvailable {
		filter["available"] = true
	}
	return r.find(ctx, filter)
}

// Empty reports whether the collection holds any room.
func (r *RoomRepository) Empty(ctx context.Context) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *RoomRepository) find(ctx context.Context, filter bson.M) ([]*domainroom.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainroom.Room
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type roomDocument struct {
	ID          string   `bson:"_id"`
	Title       string   `bson:"title"`
	Description string   `bson:"description"`
	PriceCents  int64    `bson:"price_cents"`
	Capacity    int      `bson:"capacity"`
	Amenities   []string `bson:"amenities"`
	PhotoURL    string   `bson:"photo_url"`
	Available   bool     `bson:"available"`
	CreatedAt   int64    `bson:"created_at"`
	UpdatedAt   int64    `bson:"updated_at"`
	Version     int64    `bson:"version"`
}

func newRoomDocument(r *domainroom.Room) roomDocument {
	return roomDocument{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Capacity:    r.Capacity,
		Amenities:   r.Amenities,
		PhotoURL:    r.PhotoURL,
		Available:   r.Available,
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
		Version:     r.Version,
	}
}

func (d roomDocument) toAggregate() *domainroom.Room {
	return &domainroom.Room{
		ID:          domainroom.RoomID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		PriceCents:  d.PriceCents,
		Capacity:    d.Capacity,
		Amenities:   d.Amenities,
		PhotoURL:    d.PhotoURL,
		Available:   d.Available,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}
