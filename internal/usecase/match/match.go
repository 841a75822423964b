package match

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/event"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/metrics"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EventBuffer is how many undelivered match events are held before new ones
// are dropped.
const EventBuffer = 16

//go:generate mockgen -destination=mocks/match_api.go -package=mocks . MatchAPI

type MatchAPI interface {
	Swipe(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error)
	Unmatch(ctx context.Context, matchID string) error
}

type IMatchUseCase interface {
	Execute(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error)
	Unmatch(ctx context.Context, matchID string) error
	// Events has a single consumer. Match events are never replayed.
	Events() <-chan entity.MatchEvent
	OnBlock(fn func(targetID string))
}

type matchUseCase struct {
	api       MatchAPI
	publisher event.Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	events    chan entity.MatchEvent
	now       func() time.Time

	mu             sync.RWMutex
	blockListeners []func(string)
}

func NewMatchUseCase(api MatchAPI, publisher event.Publisher, m *metrics.Metrics, log logrus.FieldLogger) IMatchUseCase {
	if publisher == nil {
		publisher = event.NewNoop()
	}
	return &matchUseCase{
		api:       api,
		publisher: publisher,
		metrics:   m,
		log:       log,
		events:    make(chan entity.MatchEvent, EventBuffer),
		now:       time.Now,
	}
}

// Execute sends one swipe. Failures are returned as is; the pipeline never
// retries and leaves queue policy to the caller.
func (m *matchUseCase) Execute(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, apperrors.ErrEmptyTargetID
	}
	if action.Path() == "" {
		return nil, apperrors.InvalidArg("unknown action")
	}

	log := m.log.WithField("action", action.String()).WithField("target_id", targetID)

	result, err := m.api.Swipe(ctx, action, targetID)
	m.metrics.Swipe(action.Path(), err)
	if err != nil {
		log.WithError(err).Warn("swipe failed")
		return nil, err
	}
	if result == nil {
		result = &entity.MatchResult{}
	}

	if action == entity.ActionBlock {
		m.notifyBlocked(targetID)
	}

	if result.IsMatch && action.CanMatch() {
		ev := entity.MatchEvent{Result: *result, Action: action, TargetID: targetID, At: m.now()}
		m.emit(log, ev)
		if err := m.publisher.PublishMatch(ctx, ev); err != nil {
			log.WithError(err).Warn("match event publish failed")
		}
	}
	return result, nil
}

func (m *matchUseCase) emit(log logrus.FieldLogger, ev entity.MatchEvent) {
	select {
	case m.events <- ev:
		m.metrics.MatchEvent(true)
	default:
		m.metrics.MatchEvent(false)
		log.Warn("match event dropped, no subscriber draining events")
	}
}

func (m *matchUseCase) notifyBlocked(targetID string) {
	m.mu.RLock()
	listeners := append([]func(string){}, m.blockListeners...)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(targetID)
	}
}

func (m *matchUseCase) Unmatch(ctx context.Context, matchID string) error {
	if strings.TrimSpace(matchID) == "" {
		return apperrors.InvalidArg("match id is required")
	}
	return m.api.Unmatch(ctx, matchID)
}

func (m *matchUseCase) Events() <-chan entity.MatchEvent {
	return m.events
}

func (m *matchUseCase) OnBlock(fn func(targetID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockListeners = append(m.blockListeners, fn)
}
