package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainbooking "bookflow/internal/domain/booking"
	domainroom "bookflow/internal/domain/room"
	"bookflow/internal/domain/shared/daterange"
	domainuser "bookflow/internal/domain/user"
)

var (
	ErrRoomUnavailable  = errors.New("booking: room is not available")
	ErrCapacityExceeded = errors.New("booking: guest count exceeds room capacity")
	ErrStatusFilter     = errors.New("booking: unknown status filter")
)

// Service is the booking availability engine: it decides admissibility
// of new bookings, computes prices and drives status transitions.
type Service struct {
	Rooms    domainroom.Repository
	Bookings domainbooking.Repository
	Events   EventPublisher
	Logger   *slog.Logger
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time

	locks roomLocks
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type CreateParams struct {
	UserID   domainuser.ID
	RoomID   domainroom.RoomID
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Contact  domainbooking.Contact
}

// BookingView pairs a booking with its room for presentation.
type BookingView struct {
	Booking *domainbooking.Booking
	Room    *domainroom.Room
}

// RoomOffer is a search result annotated with the price of the stay.
type RoomOffer struct {
	Room       *domainroom.Room
	Nights     int
	TotalCents int64
}

// CreateBooking runs the full admission sequence: date validation,
// room lookup, capacity and availability flags, then the date-conflict
// query and the insert under a per-room lock. The lock closes the
// check-then-act window between the conflict query and the insert; two
// concurrent requests for the same room serialize here.
func (s *Service) CreateBooking(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	if params.RoomID == "" {
		return nil, domainbooking.ErrRoomRequired
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := domainbooking.ValidateCheckInNotPast(dr, now); err != nil {
		return nil, err
	}

	room, err := s.Rooms.ByID(ctx, params.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.Available {
		return nil, ErrRoomUnavailable
	}
	if !room.CanAccommodate(params.Guests) {
		if params.Guests > room.Capacity {
			return nil, ErrCapacityExceeded
		}
		return nil, domainbooking.ErrGuestsRange
	}

	unlock := s.locks.lock(room.ID)
	defer unlock()

	conflict, err := s.Bookings.HasConflict(ctx, room.ID, dr)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domainbooking.ErrDateConflict
	}

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(uuid.NewString()),
		UserID:      params.UserID,
		RoomID:      room.ID,
		Range:       dr,
		Guests:      params.Guests,
		Contact:     params.Contact,
		NightlyRate: room.PriceCents,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, b)

	if s.Logger != nil {
		s.Logger.Info("booking created",
			"booking_id", b.ID, "room_id", b.RoomID, "user_id", b.UserID,
			"reference", b.Reference, "nights", b.Nights(), "total_cents", b.TotalCents)
	}
	return b, nil
}

// ListBookings returns the caller's bookings, optionally filtered by
// status, refreshing stale "upcoming" entries first so no caller ever
// sees an upcoming booking whose check-out has passed.
func (s *Service) ListBookings(ctx context.Context, userID domainuser.ID, status domainbooking.Status) ([]BookingView, error) {
	if status != "" && !domainbooking.ValidStatus(status) {
		return nil, ErrStatusFilter
	}
	if err := s.refreshUserBookings(ctx, userID); err != nil {
		return nil, err
	}
	bookings, err := s.Bookings.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	cache := make(map[domainroom.RoomID]*domainroom.Room)
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, BookingView{Booking: b, Room: s.loadRoom(ctx, b.RoomID, cache)})
	}
	return views, nil
}

// GetBooking returns a single booking after an ownership check and a
// lazy status refresh.
func (s *Service) GetBooking(ctx context.Context, userID domainuser.ID, id domainbooking.BookingID) (BookingView, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return BookingView{}, err
	}
	if b.UserID != userID {
		return BookingView{}, domainbooking.ErrNotOwned
	}
	if b.RefreshStatus(s.now()) {
		if err := s.Bookings.Save(ctx, b); err != nil {
			return BookingView{}, err
		}
		s.publishEvents(ctx, b)
	}
	return BookingView{Booking: b, Room: s.loadRoom(ctx, b.RoomID, nil)}, nil
}

// CancelBooking cancels an upcoming booking. Cancellation is a status
// change; the record is never deleted.
func (s *Service) CancelBooking(ctx context.Context, userID domainuser.ID, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, domainbooking.ErrNotOwned
	}
	now := s.now()
	// An elapsed stay must read as past, not cancellable.
	if b.RefreshStatus(now) {
		if err := s.Bookings.Save(ctx, b); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, b)
		return nil, domainbooking.ErrNotCancellable
	}
	if err := b.Cancel(now); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, b)
	if s.Logger != nil {
		s.Logger.Info("booking cancelled", "booking_id", b.ID, "room_id", b.RoomID)
	}
	return b, nil
}

// SearchRooms finds rooms that can host the party for the requested
// dates and annotates each with the stay length and total price.
// Results keep storage order.
func (s *Service) SearchRooms(ctx context.Context, guests int, checkIn, checkOut time.Time) ([]RoomOffer, error) {
	if guests < 1 {
		return nil, domainbooking.ErrGuestsRange
	}
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if err := domainbooking.ValidateCheckInNotPast(dr, s.now()); err != nil {
		return nil, err
	}
	rooms, err := s.Rooms.Search(ctx, domainroom.SearchParams{MinCapacity: guests, OnlyAvailable: true})
	if err != nil {
		return nil, err
	}
	busyIDs, err := s.Bookings.ConflictingRoomIDs(ctx, dr)
	if err != nil {
		return nil, err
	}
	busy := make(map[domainroom.RoomID]struct{}, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = struct{}{}
	}
	nights := dr.Nights()
	offers := make([]RoomOffer, 0, len(rooms))
	for _, room := range rooms {
		if _, taken := busy[room.ID]; taken {
			continue
		}
		offers = append(offers, RoomOffer{
			Room:       room,
			Nights:     nights,
			TotalCents: room.PriceCents * int64(nights),
		})
	}
	return offers, nil
}

func (s *Service) refreshUserBookings(ctx context.Context, userID domainuser.ID) error {
	upcoming, err := s.Bookings.ListByUser(ctx, userID, domainbooking.StatusUpcoming)
	if err != nil {
		return err
	}
	now := s.now()
	for _, b := range upcoming {
		if !b.RefreshStatus(now) {
			continue
		}
		if err := s.Bookings.Save(ctx, b); err != nil {
			return err
		}
		s.publishEvents(ctx, b)
	}
	return nil
}

func (s *Service) loadRoom(ctx context.Context, id domainroom.RoomID, cache map[domainroom.RoomID]*domainroom.Room) *domainroom.Room {
	if cache != nil {
		if room, ok := cache[id]; ok {
			return room
		}
	}
	room, err := s.Rooms.ByID(ctx, id)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("room missing for booking", "room_id", id, "error", err)
		}
		return nil
	}
	if cache != nil {
		cache[id] = room
	}
	return room
}

func (s *Service) publishEvents(ctx context.Context, b *domainbooking.Booking) {
	pending := b.PendingEvents()
	b.ClearEvents()
	if s.Events == nil {
		return
	}
	for _, event := range pending {
		if err := s.Events.Publish(ctx, event); err != nil && s.Logger != nil {
			s.Logger.Warn("event publish failed", "event", event.EventName(), "aggregate_id", event.AggregateID(), "error", err)
		}
	}
}
