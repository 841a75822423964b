package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	messageRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/message"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/transport/socket"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/chat/mocks"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conv = "c1"

type fakeUploader struct {
	url string
	err error
}

func (f fakeUploader) Upload(context.Context, string, string) (string, error) { return f.url, f.err }

type emitted struct {
	event   string
	payload any
}

type fakeSocket struct {
	mu        sync.Mutex
	connected bool
	handlers  map[string][]socket.Handler
	emitted   []emitted
}

func newFakeSocket(connected bool) *fakeSocket {
	return &fakeSocket{connected: connected, handlers: make(map[string][]socket.Handler)}
}

func (f *fakeSocket) On(event string, h socket.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = append(f.handlers[event], h)
}

func (f *fakeSocket) Emit(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted = append(f.emitted, emitted{event: event, payload: payload})
	return nil
}

func (f *fakeSocket) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeSocket) fire(t *testing.T, event string, payload any) {
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	f.mu.Lock()
	handlers := f.handlers[event]
	f.mu.Unlock()
	for _, h := range handlers {
		h(b)
	}
}

type fixture struct {
	uc   IChatUseCase
	api  *mocks.MockChatAPI
	repo *messageRepo.MemoryRepo
}

func newFixture(t *testing.T, uploader fakeUploader) fixture {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockChatAPI(ctrl)
	repo := messageRepo.NewMemory()
	uc := New(api, repo, uploader, nil, nil, logger.Discard())
	t.Cleanup(uc.Close)
	return fixture{uc: uc, api: api, repo: repo}
}

var t0 = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

func batch(prefix string, n int, delivered bool) []entity.Message {
	out := make([]entity.Message, n)
	for i := range out {
		out[i] = entity.Message{
			ClientMessageID: fmt.Sprintf("%s-%d", prefix, i),
			ConversationID:  conv,
			SenderID:        "u2",
			Text:            fmt.Sprintf("%s message %d", prefix, i),
			Timestamp:       t0.Add(time.Duration(i) * time.Minute),
			Delivered:       delivered,
		}
	}
	return out
}

func persisted(t *testing.T, repo *messageRepo.MemoryRepo) []string {
	t.Helper()
	msgs, err := repo.GetByConversation(context.Background(), conv)
	require.NoError(t, err)
	return ids(msgs)
}

func TestMessages_RestReplacesLocalHistory(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	require.NoError(t, f.repo.ReplaceConversation(ctx, conv, batch("local", 5, true)))

	remote := batch("remote", 3, true)
	f.api.EXPECT().FetchHistory(gomock.Any(), conv).Return(remote, nil)

	first, err := f.uc.Messages(ctx, conv)
	require.NoError(t, err)
	assert.Len(t, first, 5, "local data is served before the network answers")

	f.uc.Wait()

	got, err := f.uc.Messages(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, ids(remote), ids(got))
	assert.Equal(t, ids(remote), persisted(t, f.repo))
}

func TestMessages_MemoryHitSkipsNetwork(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	f.api.EXPECT().FetchHistory(gomock.Any(), conv).Return(batch("r", 2, true), nil).Times(1)

	_, err := f.uc.Messages(context.Background(), conv)
	require.NoError(t, err)
	got, err := f.uc.Messages(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRefresh_KeepsOnlyDelivered(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	remote := append(batch("ok", 2, true), batch("pending", 1, false)...)
	f.api.EXPECT().FetchHistory(gomock.Any(), conv).Return(remote, nil)

	got, err := f.uc.Refresh(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok-0", "ok-1"}, ids(got))
	assert.Equal(t, []string{"ok-0", "ok-1"}, persisted(t, f.repo))
}

func TestReceiveLive_PendingStaysInMemoryOnly(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})

	f.api.EXPECT().FetchHistory(gomock.Any(), conv).DoAndReturn(func(context.Context, string) ([]entity.Message, error) {
		close(entered)
		<-release
		return batch("remote", 2, true), nil
	})

	done := make(chan []entity.Message)
	go func() {
		msgs, err := f.uc.Refresh(ctx, conv)
		assert.NoError(t, err)
		done <- msgs
	}()
	<-entered

	pending := entity.Message{ClientMessageID: "live-pending", ConversationID: conv, SenderID: "u2", Timestamp: t0.Add(time.Hour)}
	f.uc.ReceiveLive(ctx, pending)
	close(release)
	got := <-done

	assert.Contains(t, ids(got), "live-pending")
	assert.NotContains(t, persisted(t, f.repo), "live-pending")
}

func TestRefresh_DoesNotClobberLiveMessages(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})

	stale := batch("remote", 3, true)
	f.api.EXPECT().FetchHistory(gomock.Any(), conv).DoAndReturn(func(context.Context, string) ([]entity.Message, error) {
		close(entered)
		<-release
		return stale, nil
	})

	done := make(chan []entity.Message)
	go func() {
		msgs, _ := f.uc.Refresh(ctx, conv)
		done <- msgs
	}()
	<-entered

	live := entity.Message{ClientMessageID: "live-1", ConversationID: conv, SenderID: "u2", Text: "hey", Timestamp: t0.Add(time.Hour), Delivered: true}
	f.uc.ReceiveLive(ctx, live)
	close(release)
	got := <-done

	assert.Equal(t, []string{"remote-0", "remote-1", "remote-2", "live-1"}, ids(got))
	assert.Equal(t, []string{"remote-0", "remote-1", "remote-2", "live-1"}, persisted(t, f.repo))
}

func TestRefresh_FallsBackToLocal(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	boom := apperrors.Unavailable("backend down")
	f.api.EXPECT().FetchHistory(gomock.Any(), conv).Return(nil, boom).Times(2)

	_, err := f.uc.Refresh(ctx, conv)
	assert.ErrorIs(t, err, boom, "no local data, error surfaces")

	require.NoError(t, f.repo.ReplaceConversation(ctx, conv, batch("local", 2, true)))
	got, err := f.uc.Refresh(ctx, conv)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMessages_ColdWithoutLocalSurfacesError(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	boom := errors.New("offline")
	f.api.EXPECT().FetchHistory(gomock.Any(), conv).Return(nil, boom)

	_, err := f.uc.Messages(context.Background(), conv)
	assert.ErrorIs(t, err, boom)

	_, err = f.uc.Messages(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrEmptyConversationID)
}

func TestReceiveLive_DedupsAndKeepsLocalHistory(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	require.NoError(t, f.repo.ReplaceConversation(ctx, conv, batch("local", 2, true)))

	live := entity.Message{ClientMessageID: "live-1", ConversationID: conv, Timestamp: t0.Add(time.Hour), Delivered: true}
	f.uc.ReceiveLive(ctx, live)
	f.uc.ReceiveLive(ctx, live)
	f.uc.ReceiveLive(ctx, entity.Message{ClientMessageID: "orphan"})

	got, err := f.uc.Messages(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, []string{"local-0", "local-1", "live-1"}, ids(got))
	assert.Equal(t, []string{"local-0", "local-1", "live-1"}, persisted(t, f.repo))
}

func TestSendText_OverREST(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	f.api.EXPECT().FetchHistory(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	f.api.EXPECT().SendMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m entity.Message) (entity.Message, error) {
		assert.False(t, m.Delivered)
		assert.NotEmpty(t, m.ClientMessageID)
		return entity.Message{ClientMessageID: m.ClientMessageID, SenderID: m.SenderID, Text: m.Text, Timestamp: m.Timestamp}, nil
	})

	sent, err := f.uc.SendText(ctx, conv, "me", "hello")
	require.NoError(t, err)
	assert.True(t, sent.Delivered)
	assert.Equal(t, conv, sent.ConversationID)

	got, _ := f.uc.Messages(ctx, conv)
	require.Len(t, got, 1)
	assert.True(t, got[0].Delivered)
	assert.Equal(t, []string{sent.ClientMessageID}, persisted(t, f.repo))
}

func TestSendText_FailureLeavesPendingInMemory(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	f.api.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(entity.Message{}, errors.New("offline"))

	msg, err := f.uc.SendText(ctx, conv, "me", "hello")
	assert.Error(t, err)
	assert.False(t, msg.Delivered)

	got, _ := f.uc.Messages(ctx, conv)
	require.Len(t, got, 1)
	assert.Equal(t, msg.ClientMessageID, got[0].ClientMessageID)
	assert.Empty(t, persisted(t, f.repo))

	_, err = f.uc.SendText(ctx, conv, "me", "   ")
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
}

func TestSendText_OverSocketIsAckedByEcho(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	sock := newFakeSocket(true)
	f.uc.Bind(sock)

	msg, err := f.uc.SendText(ctx, conv, "me", "hi there")
	require.NoError(t, err)
	require.Len(t, sock.emitted, 1)
	assert.Equal(t, socket.EventSendMessage, sock.emitted[0].event)
	assert.Empty(t, persisted(t, f.repo))

	echo := msg
	echo.Delivered = true
	echo.Timestamp = msg.Timestamp.Add(-time.Second)
	sock.fire(t, socket.EventReceiveMessage, echo)

	got, _ := f.uc.Messages(ctx, conv)
	require.Len(t, got, 1)
	assert.True(t, got[0].Delivered)
	assert.Equal(t, []string{msg.ClientMessageID}, persisted(t, f.repo))
}

func TestSendVoice_UploadFailureAbandonsMessage(t *testing.T) {
	f := newFixture(t, fakeUploader{err: apperrors.ErrUploadFailed(errors.New("s3 down"))})
	ctx := context.Background()
	f.api.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Times(0)
	f.api.EXPECT().FetchHistory(gomock.Any(), conv).Return(nil, nil)

	_, err := f.uc.SendVoice(ctx, conv, "me", "/tmp/voice.m4a", 4)
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.CodeOf(err))

	got, err := f.uc.Messages(ctx, conv)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSendVoice_UploadsThenSends(t *testing.T) {
	f := newFixture(t, fakeUploader{url: "https://cdn/audio/1.m4a"})
	f.api.EXPECT().SendMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m entity.Message) (entity.Message, error) {
		assert.Equal(t, "https://cdn/audio/1.m4a", m.MediaURL)
		assert.Equal(t, 4, m.AudioDuration)
		return m, nil
	})

	sent, err := f.uc.SendVoice(context.Background(), conv, "me", "/tmp/voice.m4a", 4)
	require.NoError(t, err)
	assert.True(t, sent.IsVoice())

	_, err = f.uc.SendVoice(context.Background(), conv, "me", "/tmp/voice.m4a", 0)
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestBind_ChatHistoryMergesThroughReducer(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	sock := newFakeSocket(true)
	f.uc.Bind(sock)

	sock.fire(t, socket.EventChatHistory, map[string]any{
		"conversationId": conv,
		"messages":       append(batch("hist", 2, true), batch("hist", 1, true)...),
	})
	sock.fire(t, socket.EventChatHistory, map[string]any{"messages": []any{}})

	got, err := f.uc.Messages(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, []string{"hist-0", "hist-1"}, ids(got))
}

func TestJoin(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	assert.ErrorIs(t, f.uc.Join(conv), socket.ErrNotConnected)

	sock := newFakeSocket(true)
	f.uc.Bind(sock)
	require.NoError(t, f.uc.Join(conv))
	assert.Equal(t, socket.EventJoinRoom, sock.emitted[0].event)
	assert.Equal(t, map[string]string{"conversationId": conv}, sock.emitted[0].payload)
}

func TestConversations(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	ctx := context.Background()
	convs := []entity.Conversation{
		{ID: "old", LastActivity: t0},
		{ID: "new", LastActivity: t0.Add(time.Hour)},
	}
	gomock.InOrder(
		f.api.EXPECT().FetchConversations(gomock.Any()).Return(convs, nil),
		f.api.EXPECT().FetchConversations(gomock.Any()).Return(nil, errors.New("offline")),
	)

	got, err := f.uc.Conversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got[0].ID)

	cached, err := f.uc.Conversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, cached)

	refreshed, err := f.uc.RefreshConversations(ctx)
	require.NoError(t, err, "failed refresh serves the cached list")
	assert.Len(t, refreshed, 2)
}

func TestRunPoller(t *testing.T) {
	f := newFixture(t, fakeUploader{})
	polled := make(chan struct{}, 10)
	f.api.EXPECT().FetchConversations(gomock.Any()).DoAndReturn(func(context.Context) ([]entity.Conversation, error) {
		select {
		case polled <- struct{}{}:
		default:
		}
		return nil, nil
	}).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- f.uc.RunPoller(ctx, 5*time.Millisecond) }()

	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never fired")
	}
	cancel()
	assert.NoError(t, <-errc)
	assert.Error(t, f.uc.RunPoller(context.Background(), 0))
}
