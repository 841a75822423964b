package messageRepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
)

// MemoryRepo backs the runtime when no database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	convs map[string]map[string]entity.Message
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{convs: make(map[string]map[string]entity.Message)}
}

func (r *MemoryRepo) GetByConversation(_ context.Context, conversationID string) ([]entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Message, 0, len(r.convs[conversationID]))
	for _, m := range r.convs[conversationID] {
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (r *MemoryRepo) ReplaceConversation(_ context.Context, conversationID string, msgs []entity.Message) error {
	kept := deliveredOnly(conversationID, msgs)

	r.mu.Lock()
	defer r.mu.Unlock()

	conv := make(map[string]entity.Message, len(kept))
	for _, m := range kept {
		conv[m.ClientMessageID] = m
	}
	r.convs[conversationID] = conv
	return nil
}

func (r *MemoryRepo) Upsert(_ context.Context, msg entity.Message) error {
	if !msg.Delivered {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[msg.ConversationID]
	if !ok {
		conv = make(map[string]entity.Message)
		r.convs[msg.ConversationID] = conv
	}
	conv[msg.ClientMessageID] = msg
	return nil
}
