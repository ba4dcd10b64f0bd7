package room

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleRequired       = errors.New("room: title is required")
	ErrDescriptionRequired = errors.New("room: description is required")
	ErrNegativePrice       = errors.New("room: nightly price must be non-negative")
	ErrCapacityTooSmall    = errors.New("room: capacity must be at least 1")
	ErrNotFound            = errors.New("room: not found")
)

type RoomID string

// Room is a bookable hotel room. Everything except the nightly price,
// the availability flag and the photo is immutable after creation.
type Room struct {
	ID          RoomID
	Title       string
	Description string
	PriceCents  int64
	Capacity    int
	Amenities   []string
	PhotoURL    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	Save(ctx context.Context, room *Room) error
	List(ctx context.Context) ([]*Room, error)
	Search(ctx context.Context, params SearchParams) ([]*Room, error)
}

// SearchParams filters rooms by guest capacity and availability flag.
// Date-conflict exclusion happens against the booking collection, not here.
type SearchParams struct {
	MinCapacity   int
	OnlyAvailable bool
}

type CreateParams struct {
	ID          RoomID
	Title       string
	Description string
	PriceCents  int64
	Capacity    int
	Amenities   []string
	PhotoURL    string
	Now         time.Time
}

func NewRoom(params CreateParams) (*Room, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("room: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if params.PriceCents < 0 {
		return nil, ErrNegativePrice
	}
	if params.Capacity < 1 {
		return nil, ErrCapacityTooSmall
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Room{
		ID:          params.ID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		PriceCents:  params.PriceCents,
		Capacity:    params.Capacity,
		Amenities:   append([]string(nil), params.Amenities...),
		PhotoURL:    strings.TrimSpace(params.PhotoURL),
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanAccommodate is the capacity half of the availability check; the
// date-overlap half runs as a query against persisted bookings.
func (r *Room) CanAccommodate(guests int) bool {
	return guests >= 1 && guests <= r.Capacity
}

func (r *Room) SetPrice(cents int64, now time.Time) error {
	if cents < 0 {
		return ErrNegativePrice
	}
	r.PriceCents = cents
	r.touch(now)
	return nil
}

func (r *Room) SetAvailability(available bool, now time.Time) {
	r.Available = available
	r.touch(now)
}

func (r *Room) SetPhotoURL(url string, now time.Time) {
	r.PhotoURL = strings.TrimSpace(url)
	r.touch(now)
}

func (r *Room) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}
