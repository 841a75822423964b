package notificationRepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
)

type MemoryRepo struct {
	mu    sync.Mutex
	inbox map[string]map[string]entity.Notification
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{inbox: make(map[string]map[string]entity.Notification)}
}

func (r *MemoryRepo) Save(_ context.Context, userID string, n entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	box, ok := r.inbox[userID]
	if !ok {
		box = make(map[string]entity.Notification)
		r.inbox[userID] = box
	}
	box[n.ID] = n

	if len(box) > MaxStored {
		sorted := sortedDesc(box)
		for _, old := range sorted[MaxStored:] {
			delete(box, old.ID)
		}
	}
	return nil
}

func (r *MemoryRepo) GetAll(_ context.Context, userID string) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedDesc(r.inbox[userID]), nil
}

func (r *MemoryRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.inbox[userID][notificationID]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	r.inbox[userID][notificationID] = n
	return nil
}

func (r *MemoryRepo) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inbox, userID)
	return nil
}

func sortedDesc(box map[string]entity.Notification) []entity.Notification {
	out := make([]entity.Notification, 0, len(box))
	for _, n := range box {
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
