package messageRepo

import (
	"context"
	"testing"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_OnlyDeliveredPersisted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	now := time.Now()

	require.NoError(t, repo.Upsert(ctx, entity.Message{ClientMessageID: "pending", ConversationID: "c1", Timestamp: now}))
	require.NoError(t, repo.Upsert(ctx, entity.Message{ClientMessageID: "sent", ConversationID: "c1", Timestamp: now, Delivered: true}))

	msgs, err := repo.GetByConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "sent", msgs[0].ClientMessageID)
}

func TestMemoryRepo_ReplaceConversation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Upsert(ctx, entity.Message{ClientMessageID: id, ConversationID: "c1", Timestamp: base.Add(time.Duration(i) * time.Second), Delivered: true}))
	}

	err := repo.ReplaceConversation(ctx, "c1", []entity.Message{
		{ClientMessageID: "y", Timestamp: base.Add(2 * time.Second), Delivered: true},
		{ClientMessageID: "x", Timestamp: base.Add(time.Second), Delivered: true},
		{ClientMessageID: "z", Timestamp: base, Delivered: false},
	})
	require.NoError(t, err)

	msgs, err := repo.GetByConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "x", msgs[0].ClientMessageID)
	assert.Equal(t, "y", msgs[1].ClientMessageID)
	assert.Equal(t, "c1", msgs[0].ConversationID)
}
