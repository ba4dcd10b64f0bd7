package dto

import (
	"time"

	domainroom "bookflow/internal/domain/room"
)

type RoomDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Capacity    int       `json:"capacity"`
	Amenities   []string  `json:"amenities"`
	PhotoURL    string    `json:"photo_url"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoomCollection struct {
	Items []RoomDTO `json:"items"`
	Count int       `json:"count"`
}

// RoomOffer is a search hit annotated with the stay length and the
// total for the requested dates.
type RoomOffer struct {
	RoomDTO
	Nights          int   `json:"nights"`
	TotalPriceCents int64 `json:"total_price_cents"`
}

type RoomOfferCollection struct {
	Items []RoomOffer `json:"items"`
	Count int         `json:"count"`
}

func MapRoom(r *domainroom.Room) RoomDTO {
	return RoomDTO{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Capacity:    r.Capacity,
		Amenities:   append([]string(nil), r.Amenities...),
		PhotoURL:    r.PhotoURL,
		Available:   r.Available,
		CreatedAt:   r.CreatedAt,
	}
}

func MapRoomOffer(r *domainroom.Room, nights int, totalCents int64) RoomOffer {
	return RoomOffer{
		RoomDTO:         MapRoom(r),
		Nights:          nights,
		TotalPriceCents: totalCents,
	}
}
