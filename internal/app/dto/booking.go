package dto

import (
	"time"

	domainbooking "bookflow/internal/domain/booking"
	domainroom "bookflow/internal/domain/room"
)

type ContactDTO struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingRoomSnapshot carries the room fields the booking views need;
// the room may have changed price since the booking was made, so the
// booking's own total is authoritative.
type BookingRoomSnapshot struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	PhotoURL    string `json:"photo_url"`
}

type BookingDTO struct {
	ID         string              `json:"id"`
	Reference  string              `json:"reference"`
	Room       BookingRoomSnapshot `json:"room"`
	CheckIn    time.Time           `json:"check_in"`
	CheckOut   time.Time           `json:"check_out"`
	Nights     int                 `json:"nights"`
	Guests     int                 `json:"guests"`
	Contact    ContactDTO          `json:"contact"`
	Status     string              `json:"status"`
	TotalCents int64               `json:"total_cents"`
	CreatedAt  time.Time           `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingDTO `json:"items"`
	Count int          `json:"count"`
}

func MapBooking(b *domainbooking.Booking, room *domainroom.Room) BookingDTO {
	snapshot := BookingRoomSnapshot{ID: string(b.RoomID)}
	if room != nil {
		snapshot.Title = room.Title
		snapshot.Description = room.Description
		snapshot.PriceCents = room.PriceCents
		snapshot.PhotoURL = room.PhotoURL
	}
	return BookingDTO{
		ID:        string(b.ID),
		Reference: b.Reference,
		Room:      snapshot,
		CheckIn:   b.Range.CheckIn,
		CheckOut:  b.Range.CheckOut,
		Nights:    b.Nights(),
		Guests:    b.Guests,
		Contact: ContactDTO{
			Title: string(b.Contact.Title),
			Name:  b.Contact.Name,
			Email: b.Contact.Email,
		},
		Status:     string(b.Status),
		TotalCents: b.TotalCents,
		CreatedAt:  b.CreatedAt,
	}
}
