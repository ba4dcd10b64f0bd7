package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "bookflow/internal/domain/booking"
	domainroom "bookflow/internal/domain/room"
	"bookflow/internal/domain/shared/daterange"
	domainuser "bookflow/internal/domain/user"
)

type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return b, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID domainuser.ID, status domainbooking.Status) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	// Newest first, matching the Mongo repository's sort.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BookingRepository) HasConflict(ctx context.Context, roomID domainroom.RoomID, dr daterange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.RoomID != roomID || b.Status != domainbooking.StatusUpcoming {
			continue
		}
		if b.Range.Conflicts(dr) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) ConflictingRoomIDs(ctx context.Context, dr daterange.DateRange) ([]domainroom.RoomID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[domainroom.RoomID]struct{})
	ids := make([]domainroom.RoomID, 0)
	for _, b := range r.items {
		if b.Status != domainbooking.StatusUpcoming || !b.Range.Conflicts(dr) {
			continue
		}
		if _, ok := seen[b.RoomID]; ok {
			continue
		}
		seen[b.RoomID] = struct{}{}
		ids = append(ids, b.RoomID)
	}
	return ids, nil
}
