package memory

import (
	"context"
	"sort"
	"sync"

	domainroom "bookflow/internal/domain/room"
)

// RoomRepository keeps rooms in process memory; used when Mongo is not
// configured and in tests.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainroom.RoomID]*domainroom.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainroom.RoomID]*domainroom.Room)}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.RoomID) (*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, domainroom.ErrNotFound
	}
	return room, nil
}

func (r *RoomRepository) Save(ctx context.Context, room *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[room.ID] = room
	return nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(), nil
}

func (r *RoomRepository) Search(ctx context.Context, params domainroom.SearchParams) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainroom.Room, 0, len(r.items))
	for _, room := range r.sortedLocked() {
		if params.OnlyAvailable && !room.Available {
			continue
		}
		if params.MinCapacity > 0 && room.Capacity < params.MinCapacity {
			continue
		}
		matches = append(matches, room)
	}
	return matches, nil
}

// Empty reports whether any room has been stored; main seeds fixtures
// only into an empty repository.
func (r *RoomRepository) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items) == 0
}

// Stable order: oldest rooms first, id as tie-breaker.
func (r *RoomRepository) sortedLocked() []*domainroom.Room {
	out := make([]*domainroom.Room, 0, len(r.items))
	for _, room := range r.items {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
