package discovery

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/metrics"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

type State string

const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateSuccess     State = "success"
	StateError       State = "error"
	StateNoMoreCards State = "no_more_cards"
)

//go:generate mockgen -destination=mocks/discovery.go -package=mocks . CardAPI,Pipeline

type CardAPI interface {
	FetchCards(ctx context.Context, limit int, exclude []string) ([]entity.Card, error)
}

type Pipeline interface {
	Execute(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error)
}

type Snapshot struct {
	State     State
	Err       error
	Cursor    int
	Remaining int
	UndoDepth int
	Current   *entity.Card
}

type IDiscoveryUseCase interface {
	LoadCards(ctx context.Context, limit int) error
	CurrentCard() (entity.Card, bool)
	Like(ctx context.Context, targetID string) (*entity.MatchResult, error)
	Pass(ctx context.Context, targetID string) (*entity.MatchResult, error)
	SuperLike(ctx context.Context, targetID string) (*entity.MatchResult, error)
	Block(ctx context.Context, targetID string) (*entity.MatchResult, error)
	Act(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error)
	Undo() (entity.Card, bool)
	// Exclude keeps id out of every later fetch.
	Exclude(id string)
	State() Snapshot
	// Wait blocks until a running background prefetch has been applied.
	Wait()
	Close()
}

// discoveryUseCase owns one discovery session. actMu serialises user
// operations and list replacement, so a prefetch can never swap the list out
// from under an in-flight swipe or undo.
type discoveryUseCase struct {
	api      CardAPI
	pipeline Pipeline
	opts     Options
	metrics  *metrics.Metrics
	log      logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	actMu sync.Mutex

	mu          sync.Mutex
	cards       []entity.Card
	cursor      int
	undo        []entity.Card
	state       State
	err         error
	generation  int
	prefetching bool
	excluded    map[string]struct{}
}

func New(api CardAPI, pipeline Pipeline, opts Options, m *metrics.Metrics, log logrus.FieldLogger) IDiscoveryUseCase {
	ctx, cancel := context.WithCancel(context.Background())
	return &discoveryUseCase{
		api:      api,
		pipeline: pipeline,
		opts:     opts.withDefaults(),
		metrics:  m,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateIdle,
		excluded: make(map[string]struct{}),
	}
}

// LoadCards replaces the list with a fresh batch. On failure the current
// cards stay where they are and the error state is recorded.
func (d *discoveryUseCase) LoadCards(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = d.opts.BatchSize
	}

	d.actMu.Lock()
	defer d.actMu.Unlock()

	d.mu.Lock()
	d.state = StateLoading
	d.err = nil
	exclude := d.excludeListLocked()
	d.mu.Unlock()

	cards, err := d.api.FetchCards(ctx, limit, exclude)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.log.WithError(err).Warn("loading cards failed")
		d.state = StateError
		d.err = err
		return err
	}
	d.replaceLocked(cards)
	return nil
}

func (d *discoveryUseCase) replaceLocked(cards []entity.Card) {
	d.cards = cards
	d.cursor = 0
	d.undo = nil
	d.generation++
	d.err = nil
	d.state = StateSuccess
	if len(cards) == 0 {
		d.state = StateNoMoreCards
	}
}

func (d *discoveryUseCase) CurrentCard() (entity.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor >= len(d.cards) {
		return entity.Card{}, false
	}
	return d.cards[d.cursor], true
}

func (d *discoveryUseCase) Like(ctx context.Context, targetID string) (*entity.MatchResult, error) {
	return d.Act(ctx, entity.ActionLike, targetID)
}

func (d *discoveryUseCase) Pass(ctx context.Context, targetID string) (*entity.MatchResult, error) {
	return d.Act(ctx, entity.ActionPass, targetID)
}

func (d *discoveryUseCase) SuperLike(ctx context.Context, targetID string) (*entity.MatchResult, error) {
	return d.Act(ctx, entity.ActionSuperLike, targetID)
}

func (d *discoveryUseCase) Block(ctx context.Context, targetID string) (*entity.MatchResult, error) {
	return d.Act(ctx, entity.ActionBlock, targetID)
}

// Act sends the swipe for the card on screen and advances the cursor as the
// failure policy dictates. Only PolicyBlock surfaces delivery errors.
func (d *discoveryUseCase) Act(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, apperrors.ErrEmptyTargetID
	}

	d.actMu.Lock()
	defer d.actMu.Unlock()

	d.mu.Lock()
	if d.cursor >= len(d.cards) {
		d.mu.Unlock()
		return nil, apperrors.ErrNoMoreCards
	}
	card := d.cards[d.cursor]
	d.mu.Unlock()

	log := d.log.WithField("action", action.String()).WithField("target_id", targetID)
	if card.ID != targetID {
		log.WithField("current_id", card.ID).Warn("swipe target is not the card on screen")
	}

	result, err := d.execute(ctx, action, targetID)
	if err != nil {
		if d.opts.FailurePolicy == PolicyBlock {
			return nil, err
		}
		log.WithError(err).Warn("swipe not delivered, advancing anyway")
		result = nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.undo = append(d.undo, card)
	d.cursor++
	if d.cursor >= len(d.cards) {
		d.state = StateNoMoreCards
	}
	d.maybePrefetchLocked()
	return result, nil
}

func (d *discoveryUseCase) execute(ctx context.Context, action entity.Action, targetID string) (*entity.MatchResult, error) {
	if d.opts.FailurePolicy != PolicyRetry {
		return d.pipeline.Execute(ctx, action, targetID)
	}

	var result *entity.MatchResult
	op := func() error {
		res, err := d.pipeline.Execute(ctx, action, targetID)
		if err != nil {
			switch apperrors.CodeOf(err) {
			case apperrors.CodeInvalidArgument, apperrors.CodeUnauthenticated, apperrors.CodeNotFound:
				return backoff.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.opts.RetryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.opts.MaxRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *discoveryUseCase) maybePrefetchLocked() {
	if d.prefetching || d.ctx.Err() != nil {
		return
	}
	if len(d.cards)-d.cursor > d.opts.PrefetchThreshold {
		return
	}

	d.prefetching = true
	exclude := d.excludeListLocked()
	generation := d.generation
	d.wg.Add(1)
	go d.prefetch(generation, exclude)
}

// prefetch fetches the next batch in the background. A non-empty batch
// replaces the list; an empty or failed one keeps what is on screen.
func (d *discoveryUseCase) prefetch(generation int, exclude []string) {
	defer d.wg.Done()

	cards, err := d.api.FetchCards(d.ctx, d.opts.BatchSize, exclude)
	d.metrics.Prefetch(err)

	d.actMu.Lock()
	defer d.actMu.Unlock()
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prefetching = false
	switch {
	case err != nil:
		d.log.WithError(err).Warn("prefetch failed, keeping current cards")
	case len(cards) == 0:
		d.log.Debug("prefetch returned no cards")
	case generation != d.generation:
		d.log.Debug("list was reloaded while prefetching, dropping batch")
	default:
		d.replaceLocked(cards)
	}
}

// Undo re-shows the previous card. It never sends anything to the backend.
func (d *discoveryUseCase) Undo() (entity.Card, bool) {
	d.actMu.Lock()
	defer d.actMu.Unlock()
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.undo) == 0 || d.cursor == 0 {
		return entity.Card{}, false
	}
	last := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.cursor--
	d.state = StateSuccess
	return last, true
}

func (d *discoveryUseCase) Exclude(id string) {
	if id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.excluded[id] = struct{}{}
}

func (d *discoveryUseCase) excludeListLocked() []string {
	if len(d.excluded) == 0 {
		return nil
	}
	out := make([]string, 0, len(d.excluded))
	for id := range d.excluded {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (d *discoveryUseCase) State() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		State:     d.state,
		Err:       d.err,
		Cursor:    d.cursor,
		Remaining: len(d.cards) - d.cursor,
		UndoDepth: len(d.undo),
	}
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	if d.cursor < len(d.cards) {
		card := d.cards[d.cursor]
		s.Current = &card
	}
	return s
}

func (d *discoveryUseCase) Wait() {
	d.wg.Wait()
}

// Close ends the session: background work is cancelled and the list and undo
// stack are dropped.
func (d *discoveryUseCase) Close() {
	d.cancel()
	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cards = nil
	d.undo = nil
	d.cursor = 0
	d.state = StateIdle
}
