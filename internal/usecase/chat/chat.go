package chat

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/event"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/media"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/metrics"
	messageRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/message"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/transport/socket"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=mocks/chat_api.go -package=mocks . ChatAPI

type ChatAPI interface {
	FetchHistory(ctx context.Context, conversationID string) ([]entity.Message, error)
	SendMessage(ctx context.Context, msg entity.Message) (entity.Message, error)
	FetchConversations(ctx context.Context) ([]entity.Conversation, error)
}

// Socket is the realtime channel for the /chat namespace.
type Socket interface {
	On(event string, h socket.Handler)
	Emit(event string, payload any) error
	Connected() bool
}

type IChatUseCase interface {
	// Messages answers from memory, then from the local store, and only goes
	// to the network when neither has anything.
	Messages(ctx context.Context, conversationID string) ([]entity.Message, error)
	Refresh(ctx context.Context, conversationID string) ([]entity.Message, error)
	ReceiveLive(ctx context.Context, msg entity.Message)
	ApplyHistory(ctx context.Context, conversationID string, msgs []entity.Message)
	SendText(ctx context.Context, conversationID, senderID, text string) (entity.Message, error)
	SendVoice(ctx context.Context, conversationID, senderID, audioPath string, duration int) (entity.Message, error)
	Conversations(ctx context.Context) ([]entity.Conversation, error)
	RefreshConversations(ctx context.Context) ([]entity.Conversation, error)
	RunPoller(ctx context.Context, interval time.Duration) error
	Bind(s Socket)
	Join(conversationID string) error
	Wait()
	Close()
}

// refreshWindow collects live messages that arrive while a REST refresh for
// the conversation is in flight, so the refresh can merge them back.
type refreshWindow struct {
	n    int
	live []entity.Message
}

type chatUseCase struct {
	api       ChatAPI
	repo      messageRepo.IMessageRepo
	uploader  media.Uploader
	publisher event.Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	now       func() time.Time
	newID     func() string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// writeMu orders persisted writes in the order they were issued.
	writeMu sync.Mutex

	mu            sync.Mutex
	cache         map[string][]entity.Message
	windows       map[string]*refreshWindow
	pending       map[string]map[string]entity.Message
	conversations []entity.Conversation
	convLoaded    bool
	socket        Socket
}

func New(
	api ChatAPI,
	repo messageRepo.IMessageRepo,
	uploader media.Uploader,
	publisher event.Publisher,
	m *metrics.Metrics,
	log logrus.FieldLogger,
) IChatUseCase {
	if publisher == nil {
		publisher = event.NewNoop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &chatUseCase{
		api:       api,
		repo:      repo,
		uploader:  uploader,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
		ctx:       ctx,
		cancel:    cancel,
		cache:     make(map[string][]entity.Message),
		windows:   make(map[string]*refreshWindow),
		pending:   make(map[string]map[string]entity.Message),
	}
}

func clone(msgs []entity.Message) []entity.Message {
	return append([]entity.Message{}, msgs...)
}

func (u *chatUseCase) Messages(ctx context.Context, conversationID string) ([]entity.Message, error) {
	if conversationID == "" {
		return nil, apperrors.ErrEmptyConversationID
	}

	u.mu.Lock()
	if msgs, ok := u.cache[conversationID]; ok {
		out := clone(msgs)
		u.mu.Unlock()
		return out, nil
	}
	u.mu.Unlock()

	local := u.readLocal(ctx, conversationID)
	if len(local) == 0 {
		return u.Refresh(ctx, conversationID)
	}

	u.mu.Lock()
	if _, ok := u.cache[conversationID]; !ok {
		u.cache[conversationID] = local
	}
	out := clone(u.cache[conversationID])
	u.mu.Unlock()

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		if _, err := u.Refresh(u.ctx, conversationID); err != nil {
			u.log.WithError(err).WithField("conversation_id", conversationID).Warn("background history refresh failed")
		}
	}()
	return out, nil
}

func (u *chatUseCase) readLocal(ctx context.Context, conversationID string) []entity.Message {
	local, err := u.repo.GetByConversation(ctx, conversationID)
	u.metrics.Sync("local", err)
	if err != nil {
		u.log.WithError(err).WithField("conversation_id", conversationID).Warn("reading local messages failed")
		return nil
	}
	return local
}

// ensureLoaded seeds the memory entry from the local store so a live message
// arriving first does not hide persisted history.
func (u *chatUseCase) ensureLoaded(ctx context.Context, conversationID string) {
	u.mu.Lock()
	_, ok := u.cache[conversationID]
	u.mu.Unlock()
	if ok {
		return
	}

	local := u.readLocal(ctx, conversationID)

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.cache[conversationID]; !ok {
		u.cache[conversationID] = local
	}
}

// Refresh replaces the conversation with the delivered REST history. Live
// messages received while the request was in flight, and our own unsent
// messages, are merged back in. On failure the local view is returned and the
// error only surfaces when there is nothing local to show.
func (u *chatUseCase) Refresh(ctx context.Context, conversationID string) ([]entity.Message, error) {
	if conversationID == "" {
		return nil, apperrors.ErrEmptyConversationID
	}
	log := u.log.WithField("conversation_id", conversationID)

	u.mu.Lock()
	w, ok := u.windows[conversationID]
	if !ok {
		w = &refreshWindow{}
		u.windows[conversationID] = w
	}
	w.n++
	u.mu.Unlock()

	remote, err := u.api.FetchHistory(ctx, conversationID)
	u.metrics.Sync("rest", err)
	if err != nil {
		u.mu.Lock()
		u.closeWindowLocked(conversationID, w)
		cached := clone(u.cache[conversationID])
		u.mu.Unlock()

		if len(cached) > 0 {
			log.WithError(err).Warn("history fetch failed, serving cached messages")
			return cached, nil
		}
		if local := u.readLocal(ctx, conversationID); len(local) > 0 {
			log.WithError(err).Warn("history fetch failed, serving local messages")
			u.mu.Lock()
			if len(u.cache[conversationID]) == 0 {
				u.cache[conversationID] = local
			}
			u.mu.Unlock()
			return local, nil
		}
		return nil, err
	}

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	u.mu.Lock()
	carried := append(u.pendingLocked(conversationID), w.live...)
	merged := Merge(delivered(remote), carried...)
	u.cache[conversationID] = merged
	u.closeWindowLocked(conversationID, w)
	for _, m := range merged {
		if m.Delivered {
			delete(u.pending[conversationID], m.ClientMessageID)
		}
	}
	out := clone(merged)
	u.mu.Unlock()

	if err := u.repo.ReplaceConversation(ctx, conversationID, delivered(merged)); err != nil {
		log.WithError(err).Warn("persisting refreshed history failed")
	}
	return out, nil
}

func (u *chatUseCase) closeWindowLocked(conversationID string, w *refreshWindow) {
	w.n--
	if w.n <= 0 && u.windows[conversationID] == w {
		delete(u.windows, conversationID)
	}
}

func (u *chatUseCase) pendingLocked(conversationID string) []entity.Message {
	out := make([]entity.Message, 0, len(u.pending[conversationID]))
	for _, m := range u.pending[conversationID] {
		out = append(out, m)
	}
	return out
}

// ReceiveLive applies a socket message. Delivered messages are persisted;
// pending ones stay in memory.
func (u *chatUseCase) ReceiveLive(ctx context.Context, msg entity.Message) {
	if msg.ConversationID == "" {
		u.log.Warn("dropping live message without conversation")
		return
	}
	if msg.ClientMessageID == "" {
		msg.ClientMessageID = u.newID()
	}
	u.apply(ctx, msg.ConversationID, []entity.Message{msg})
}

func (u *chatUseCase) ApplyHistory(ctx context.Context, conversationID string, msgs []entity.Message) {
	if conversationID == "" || len(msgs) == 0 {
		return
	}
	batch := make([]entity.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ClientMessageID == "" {
			continue
		}
		m.ConversationID = conversationID
		batch = append(batch, m)
	}
	u.apply(ctx, conversationID, batch)
}

func (u *chatUseCase) apply(ctx context.Context, conversationID string, msgs []entity.Message) {
	u.ensureLoaded(ctx, conversationID)

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	u.mu.Lock()
	u.cache[conversationID] = Merge(u.cache[conversationID], msgs...)
	if w := u.windows[conversationID]; w != nil {
		w.live = append(w.live, msgs...)
	}
	for _, m := range msgs {
		if m.Delivered {
			delete(u.pending[conversationID], m.ClientMessageID)
		}
	}
	u.mu.Unlock()

	for _, m := range msgs {
		if !m.Delivered {
			continue
		}
		if err := u.repo.Upsert(ctx, m); err != nil {
			u.log.WithError(err).WithField("conversation_id", conversationID).Warn("persisting live message failed")
		}
		if err := u.publisher.PublishMessage(ctx, m); err != nil {
			u.log.WithError(err).Debug("message event publish failed")
		}
	}
}

func (u *chatUseCase) SendText(ctx context.Context, conversationID, senderID, text string) (entity.Message, error) {
	if conversationID == "" {
		return entity.Message{}, apperrors.ErrEmptyConversationID
	}
	if strings.TrimSpace(text) == "" {
		return entity.Message{}, apperrors.ErrEmptyMessage
	}

	msg := entity.Message{
		ClientMessageID: u.newID(),
		ConversationID:  conversationID,
		SenderID:        senderID,
		Text:            text,
		Timestamp:       u.now(),
	}
	return u.send(ctx, msg, "text")
}

// SendVoice uploads the recording first. If the upload fails nothing is
// queued and the error is returned.
func (u *chatUseCase) SendVoice(ctx context.Context, conversationID, senderID, audioPath string, duration int) (entity.Message, error) {
	if conversationID == "" {
		return entity.Message{}, apperrors.ErrEmptyConversationID
	}
	if audioPath == "" || duration <= 0 {
		return entity.Message{}, apperrors.InvalidArg("voice message needs an audio file and a positive duration")
	}
	if u.uploader == nil {
		return entity.Message{}, apperrors.ErrUploadFailed(errors.New("no uploader configured"))
	}

	url, err := u.uploader.Upload(ctx, "audio", audioPath)
	if err != nil {
		u.metrics.MessageSent("voice", err)
		u.log.WithError(err).WithField("conversation_id", conversationID).Warn("voice upload failed, message abandoned")
		return entity.Message{}, err
	}

	msg := entity.Message{
		ClientMessageID: u.newID(),
		ConversationID:  conversationID,
		SenderID:        senderID,
		MediaURL:        url,
		AudioPath:       audioPath,
		AudioDuration:   duration,
		Timestamp:       u.now(),
	}
	return u.send(ctx, msg, "voice")
}

// send shows msg as pending, then hands it to the socket when connected (the
// acknowledgement comes back as receive_message) or to REST otherwise.
func (u *chatUseCase) send(ctx context.Context, msg entity.Message, kind string) (entity.Message, error) {
	u.ensureLoaded(ctx, msg.ConversationID)

	u.mu.Lock()
	if u.pending[msg.ConversationID] == nil {
		u.pending[msg.ConversationID] = make(map[string]entity.Message)
	}
	u.pending[msg.ConversationID][msg.ClientMessageID] = msg
	u.cache[msg.ConversationID] = Merge(u.cache[msg.ConversationID], msg)
	sock := u.socket
	u.mu.Unlock()

	log := u.log.WithField("conversation_id", msg.ConversationID)

	if sock != nil && sock.Connected() {
		err := sock.Emit(socket.EventSendMessage, msg)
		if err == nil {
			u.metrics.MessageSent(kind, nil)
			return msg, nil
		}
		log.WithError(err).Warn("socket send failed, falling back to REST")
	}

	acked, err := u.api.SendMessage(ctx, msg)
	u.metrics.MessageSent(kind, err)
	if err != nil {
		log.WithError(err).Warn("message left pending")
		return msg, err
	}

	if acked.ClientMessageID == "" {
		acked.ClientMessageID = msg.ClientMessageID
	}
	if acked.ConversationID == "" {
		acked.ConversationID = msg.ConversationID
	}
	if acked.Timestamp.IsZero() {
		acked.Timestamp = msg.Timestamp
	}
	acked.Delivered = true
	u.apply(ctx, acked.ConversationID, []entity.Message{acked})
	return acked, nil
}

func (u *chatUseCase) Conversations(ctx context.Context) ([]entity.Conversation, error) {
	u.mu.Lock()
	if u.convLoaded {
		out := append([]entity.Conversation{}, u.conversations...)
		u.mu.Unlock()
		return out, nil
	}
	u.mu.Unlock()
	return u.RefreshConversations(ctx)
}

// RefreshConversations refetches the match list, most recent activity first.
// A failed fetch keeps serving the previous list when there is one.
func (u *chatUseCase) RefreshConversations(ctx context.Context) ([]entity.Conversation, error) {
	convs, err := u.api.FetchConversations(ctx)
	u.metrics.Sync("conversations", err)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		if u.convLoaded {
			u.log.WithError(err).Warn("conversation refresh failed, serving cached list")
			return append([]entity.Conversation{}, u.conversations...), nil
		}
		return nil, err
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastActivity.After(convs[j].LastActivity)
	})
	u.conversations = convs
	u.convLoaded = true
	return append([]entity.Conversation{}, convs...), nil
}

// RunPoller refreshes the conversation list every interval until ctx ends.
func (u *chatUseCase) RunPoller(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return apperrors.InvalidArg("poll interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := u.RefreshConversations(ctx); err != nil {
				u.log.WithError(err).Debug("conversation poll failed")
			}
		}
	}
}

type historyPayload struct {
	ConversationID string            `json:"conversationId"`
	Messages       []json.RawMessage `json:"messages"`
}

// Bind subscribes to the server events of the /chat namespace.
func (u *chatUseCase) Bind(s Socket) {
	u.mu.Lock()
	u.socket = s
	u.mu.Unlock()

	s.On(socket.EventReceiveMessage, func(payload json.RawMessage) {
		var msg entity.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			u.log.WithError(err).Warn("skipping malformed live message")
			return
		}
		u.ReceiveLive(u.ctx, msg)
	})

	s.On(socket.EventChatHistory, func(payload json.RawMessage) {
		var h historyPayload
		if err := json.Unmarshal(payload, &h); err != nil || h.ConversationID == "" {
			u.log.Warn("skipping chat_history without conversation")
			return
		}
		msgs := make([]entity.Message, 0, len(h.Messages))
		for i, raw := range h.Messages {
			var m entity.Message
			if err := json.Unmarshal(raw, &m); err != nil {
				u.log.WithError(err).WithField("index", i).Warn("skipping malformed history message")
				continue
			}
			msgs = append(msgs, m)
		}
		u.ApplyHistory(u.ctx, h.ConversationID, msgs)
	})
}

func (u *chatUseCase) Join(conversationID string) error {
	if conversationID == "" {
		return apperrors.ErrEmptyConversationID
	}
	u.mu.Lock()
	s := u.socket
	u.mu.Unlock()
	if s == nil {
		return socket.ErrNotConnected
	}
	return s.Emit(socket.EventJoinRoom, map[string]string{"conversationId": conversationID})
}

func (u *chatUseCase) Wait() {
	u.wg.Wait()
}

// Close cancels background refreshes and drops the in-memory caches. The
// local store is left as is.
func (u *chatUseCase) Close() {
	u.cancel()
	u.wg.Wait()

	u.mu.Lock()
	defer u.mu.Unlock()
	u.cache = make(map[string][]entity.Message)
	u.pending = make(map[string]map[string]entity.Message)
	u.windows = make(map[string]*refreshWindow)
}
