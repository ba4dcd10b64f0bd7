package booking

import (
	"context"
	"errors"
	"time"

	"bookflow/internal/domain/room"
	"bookflow/internal/domain/shared/daterange"
	"bookflow/internal/domain/shared/events"
	"bookflow/internal/domain/user"
)

// MaxGuests caps a single booking regardless of room capacity.
const MaxGuests = 10

var (
	ErrUserRequired   = errors.New("booking: user is required")
	ErrRoomRequired   = errors.New("booking: room is required")
	ErrGuestsRange    = errors.New("booking: guests must be between 1 and 10")
	ErrCheckInPast    = errors.New("booking: check-in date must be in the future")
	ErrNotCancellable = errors.New("booking: only upcoming bookings can be cancelled")
	ErrNotFound       = errors.New("booking: not found")
	ErrNotOwned       = errors.New("booking: owned by another user")
	ErrDateConflict   = errors.New("booking: room is already booked for the requested dates")
)

type BookingID string

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusPast      Status = "past"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s names a known booking status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusUpcoming, StatusPast, StatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID         BookingID
	UserID     user.ID
	RoomID     room.RoomID
	Range      daterange.DateRange
	Guests     int
	Contact    Contact
	Status     Status
	TotalCents int64
	Reference  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByUser(ctx context.Context, userID user.ID, status Status) ([]*Booking, error)
	// HasConflict reports whether an upcoming booking for the room
	// contends with the given range (inclusive boundaries).
	HasConflict(ctx context.Context, roomID room.RoomID, dr daterange.DateRange) (bool, error)
	// ConflictingRoomIDs lists rooms with an upcoming booking
	// contending with the given range.
	ConflictingRoomIDs(ctx context.Context, dr daterange.DateRange) ([]room.RoomID, error)
}

type CreateParams struct {
	ID          BookingID
	UserID      user.ID
	RoomID      room.RoomID
	Range       daterange.DateRange
	Guests      int
	Contact     Contact
	NightlyRate int64
	Reference   string
	CreatedAt   time.Time
}

// NewBooking builds an upcoming booking and derives the total from the
// nightly rate: total = rate * nights. Overlap and capacity checks are
// the availability engine's job, not the constructor's.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.UserID == "" {
		return nil, ErrUserRequired
	}
	if params.RoomID == "" {
		return nil, ErrRoomRequired
	}
	if params.Guests < 1 || params.Guests > MaxGuests {
		return nil, ErrGuestsRange
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if err := params.Contact.Validate(); err != nil {
		return nil, err
	}
	reference := params.Reference
	if reference == "" {
		var err error
		reference, err = NewReference()
		if err != nil {
			return nil, err
		}
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	b := &Booking{
		ID:         params.ID,
		UserID:     params.UserID,
		RoomID:     params.RoomID,
		Range:      params.Range,
		Guests:     params.Guests,
		Contact:    params.Contact.normalized(),
		Status:     StatusUpcoming,
		TotalCents: params.NightlyRate * int64(params.Range.Nights()),
		Reference:  reference,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(BookingCreated{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		Range:     b.Range,
		Guests:    b.Guests,
		Total:     b.TotalCents,
		Reference: b.Reference,
		At:        now,
	})
	return b, nil
}

// Nights returns the length of the stay in whole days.
func (b *Booking) Nights() int {
	return b.Range.Nights()
}

func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusUpcoming
}

// Cancel moves an upcoming booking to cancelled. Past and cancelled are
// terminal; a second cancel fails without touching state.
func (b *Booking) Cancel(now time.Time) error {
	if !b.CanBeCancelled() {
		return ErrNotCancellable
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

// RefreshStatus lazily moves an upcoming booking whose check-out has
// passed to "past". Callers must invoke it before presenting booking
// state; there is no background sweep. Reports whether status changed.
func (b *Booking) RefreshStatus(now time.Time) bool {
	if b.Status != StatusUpcoming {
		return false
	}
	if !b.Range.CheckOut.Before(now) {
		return false
	}
	b.Status = StatusPast
	b.UpdatedAt = now.UTC()
	b.Record(BookingCompleted{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return true
}

// ValidateCheckInNotPast rejects stays starting before today (UTC,
// day granularity).
func ValidateCheckInNotPast(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(dr.CheckIn.Year(), dr.CheckIn.Month(), dr.CheckIn.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return ErrCheckInPast
	}
	return nil
}
