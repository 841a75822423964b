package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/metrics"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/match/mocks"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/logger"
	"github.com/go-faker/faker/v4"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	matches []entity.MatchEvent
}

func (p *recordingPublisher) PublishMatch(_ context.Context, ev entity.MatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matches = append(p.matches, ev)
	return nil
}

func (p *recordingPublisher) PublishMessage(context.Context, entity.Message) error { return nil }
func (p *recordingPublisher) Close() error                                      { return nil }

func setup(t *testing.T) (*mocks.MockMatchAPI, *recordingPublisher, *metrics.Metrics, IMatchUseCase) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockMatchAPI(ctrl)
	pub := &recordingPublisher{}
	m := metrics.New()
	return api, pub, m, NewMatchUseCase(api, pub, m, logger.Discard())
}

func TestExecute_EmptyTargetNeverReachesNetwork(t *testing.T) {
	api, _, _, uc := setup(t)
	api.EXPECT().Swipe(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for _, action := range []entity.Action{entity.ActionLike, entity.ActionPass, entity.ActionSuperLike, entity.ActionBlock} {
		for _, target := range []string{"", "   "} {
			res, err := uc.Execute(context.Background(), action, target)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, apperrors.ErrEmptyTargetID)
			assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
		}
	}
}

func TestExecute_MatchIsBroadcastOnce(t *testing.T) {
	api, pub, m, uc := setup(t)
	target := faker.UUIDHyphenated()
	matched := &entity.Card{ID: target, Name: faker.FirstName()}

	api.EXPECT().Swipe(gomock.Any(), entity.ActionSuperLike, target).
		Return(&entity.MatchResult{IsMatch: true, MatchID: "m1", MatchedUser: matched}, nil)

	res, err := uc.Execute(context.Background(), entity.ActionSuperLike, target)
	require.NoError(t, err)
	assert.True(t, res.IsMatch)

	select {
	case ev := <-uc.Events():
		assert.Equal(t, "m1", ev.Result.MatchID)
		assert.Equal(t, target, ev.TargetID)
		assert.Equal(t, entity.ActionSuperLike, ev.Action)
	default:
		t.Fatal("expected a match event")
	}
	select {
	case <-uc.Events():
		t.Fatal("match event must be emitted once")
	default:
	}

	require.Len(t, pub.matches, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SwipeActions.WithLabelValues("superlike", metrics.StatusOK)))
}

func TestExecute_NonMatchEmitsNothing(t *testing.T) {
	api, pub, _, uc := setup(t)
	api.EXPECT().Swipe(gomock.Any(), entity.ActionPass, "u1").Return(nil, nil)
	api.EXPECT().Swipe(gomock.Any(), entity.ActionLike, "u2").Return(&entity.MatchResult{IsMatch: false}, nil)

	res, err := uc.Execute(context.Background(), entity.ActionPass, "u1")
	require.NoError(t, err)
	assert.False(t, res.IsMatch)

	_, err = uc.Execute(context.Background(), entity.ActionLike, "u2")
	require.NoError(t, err)

	assert.Len(t, uc.Events(), 0)
	assert.Empty(t, pub.matches)
}

func TestExecute_FailureIsReturnedWithoutEvent(t *testing.T) {
	api, _, m, uc := setup(t)
	boom := errors.New("network down")
	api.EXPECT().Swipe(gomock.Any(), entity.ActionLike, "u1").Return(nil, boom).Times(1)

	res, err := uc.Execute(context.Background(), entity.ActionLike, "u1")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, uc.Events(), 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SwipeActions.WithLabelValues("like", metrics.StatusError)))
}

func TestExecute_BlockNotifiesListeners(t *testing.T) {
	api, _, _, uc := setup(t)
	api.EXPECT().Swipe(gomock.Any(), entity.ActionBlock, "u9").Return(&entity.MatchResult{}, nil)
	api.EXPECT().Swipe(gomock.Any(), entity.ActionBlock, "u10").Return(nil, errors.New("boom"))

	var blocked []string
	uc.OnBlock(func(id string) { blocked = append(blocked, id) })

	_, err := uc.Execute(context.Background(), entity.ActionBlock, "u9")
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), entity.ActionBlock, "u10")
	require.Error(t, err)

	assert.Equal(t, []string{"u9"}, blocked)
}

func TestExecute_FullBufferDrops(t *testing.T) {
	api, _, m, uc := setup(t)
	api.EXPECT().Swipe(gomock.Any(), entity.ActionLike, gomock.Any()).
		Return(&entity.MatchResult{IsMatch: true}, nil).Times(EventBuffer + 2)

	for i := 0; i < EventBuffer+2; i++ {
		_, err := uc.Execute(context.Background(), entity.ActionLike, faker.UUIDHyphenated())
		require.NoError(t, err)
	}

	assert.Len(t, uc.Events(), EventBuffer)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MatchEvents.WithLabelValues("dropped")))
}

func TestUnmatch(t *testing.T) {
	api, _, _, uc := setup(t)
	api.EXPECT().Unmatch(gomock.Any(), "m1").Return(nil)

	assert.NoError(t, uc.Unmatch(context.Background(), "m1"))
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(uc.Unmatch(context.Background(), "")))
}
