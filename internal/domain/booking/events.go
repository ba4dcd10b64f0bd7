package booking

import (
	"time"

	"bookflow/internal/domain/room"
	"bookflow/internal/domain/shared/daterange"
	"bookflow/internal/domain/user"
)

type BookingCreated struct {
	BookingID BookingID           `json:"booking_id"`
	RoomID    room.RoomID         `json:"room_id"`
	UserID    user.ID             `json:"user_id"`
	Range     daterange.DateRange `json:"range"`
	Guests    int                 `json:"guests"`
	Total     int64               `json:"total_cents"`
	Reference string              `json:"reference"`
	At        time.Time           `json:"at"`
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID   `json:"booking_id"`
	RoomID    room.RoomID `json:"room_id"`
	At        time.Time   `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

// BookingCompleted marks the lazy upcoming -> past transition.
type BookingCompleted struct {
	BookingID BookingID   `json:"booking_id"`
	RoomID    room.RoomID `json:"room_id"`
	At        time.Time   `json:"at"`
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }
