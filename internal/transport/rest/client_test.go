package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	sessionRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/session"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/jwt"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, tokens entity.Tokens) (*Client, *sessionRepo.MemoryTokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := sessionRepo.NewMemory()
	require.NoError(t, store.SaveTokens(context.Background(), tokens))
	return New(srv.URL, 5*time.Second, store, logger.Discard()), store
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"message": "ok", "data": data})
}

func TestFetchCards_SkipsMalformedEntries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/discovery/cards", func(w http.ResponseWriter, r *http.Request) {
		var body entity.FetchCardsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 5, body.Limit)
		assert.Equal(t, []string{"blocked"}, body.ExcludeProfiles)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok","data":[
			{"id":"u1","name":"An","photos":["https://cdn/1.jpg", 42, {"url":"https://cdn/2.jpg"}, {"nope":true}]},
			{"id":7},
			{"name":"no id"},
			{"id":"u2","name":"Binh","photos":[]}
		]}`))
	})
	client, _ := newTestClient(t, mux, entity.Tokens{AccessToken: "access", RefreshToken: "refresh"})

	cards, err := client.FetchCards(context.Background(), 5, []string{"blocked"})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, []string{"https://cdn/1.jpg", "https://cdn/2.jpg"}, cards[0].Photos)
	assert.Equal(t, "u2", cards[1].ID)
}

func TestFetchNotifications_SkipsInvalid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok","data":[
			{"id":"n1","type":"match","title":"It's a match","timestamp":"2026-01-02T10:00:00Z"},
			{"id":"n2","timestamp":"yesterday"},
			{"id":"","timestamp":"2026-01-02T10:00:00Z"}
		]}`))
	})
	client, _ := newTestClient(t, mux, entity.Tokens{AccessToken: "access"})

	got, err := client.FetchNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n1", got[0].ID)
}

func TestDo_RefreshesOnceForConcurrent401s(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		time.Sleep(20 * time.Millisecond)
		writeData(w, entity.AuthResponse{AccessToken: "fresh", RefreshToken: "refresh-2"})
	})
	mux.HandleFunc("/match/like/u1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeData(w, entity.MatchResult{IsMatch: true, MatchID: "m1"})
	})
	client, store := newTestClient(t, mux, entity.Tokens{AccessToken: "stale", RefreshToken: "refresh"})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := client.Swipe(context.Background(), entity.ActionLike, "u1")
			assert.NoError(t, err)
			if res != nil {
				assert.True(t, res.IsMatch)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), refreshCalls.Load())
	tokens, _ := store.Tokens(context.Background())
	assert.Equal(t, entity.Tokens{AccessToken: "fresh", RefreshToken: "refresh-2"}, tokens)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	var n atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, entity.AuthResponse{AccessToken: "token-" + string(rune('a'+n.Add(1))), RefreshToken: "r"})
	})
	mux.HandleFunc("/chat/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get(RetryCountHeader))
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, store := newTestClient(t, mux, entity.Tokens{AccessToken: "stale", RefreshToken: "r"})

	_, err := client.FetchHistory(context.Background(), "c1")
	assert.ErrorIs(t, err, apperrors.ErrRefreshExhausted)
	assert.Equal(t, []string{"0", "1", "2"}, seen)

	tokens, _ := store.Tokens(context.Background())
	assert.True(t, tokens.Empty())
}

func TestDo_RefreshFailureClearsTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/chat/conversations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, store := newTestClient(t, mux, entity.Tokens{AccessToken: "stale", RefreshToken: "expired"})

	_, err := client.FetchConversations(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	tokens, _ := store.Tokens(context.Background())
	assert.True(t, tokens.Empty())
}

type brokenStore struct {
	*sessionRepo.MemoryTokenStore
}

func (brokenStore) Clear(context.Context) error { return errors.New("redis: connection refused") }

func TestDo_ClearFailureIsLogged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/chat/conversations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := brokenStore{sessionRepo.NewMemory()}
	require.NoError(t, store.SaveTokens(context.Background(), entity.Tokens{AccessToken: "stale", RefreshToken: "expired"}))
	log, hook := logtest.NewNullLogger()
	client := New(srv.URL, 5*time.Second, store, log)

	_, err := client.FetchConversations(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	var logged bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "could not clear session tokens" {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestDo_StatusMapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/missing/messages", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such conversation", http.StatusNotFound)
	})
	mux.HandleFunc("/chat/broken/messages", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	client, _ := newTestClient(t, mux, entity.Tokens{AccessToken: "access"})

	_, err := client.FetchHistory(context.Background(), "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = client.FetchHistory(context.Background(), "broken")
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.CodeOf(err))
	assert.True(t, strings.Contains(err.Error(), "500"))
}

func TestDo_UnauthenticatedWithoutToken(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler(), entity.Tokens{})

	_, err := client.FetchConversations(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestDo_ProactiveRefreshForExpiringJWT(t *testing.T) {
	expiring, err := jwt.Sign("u1", 5*time.Second, []byte("secret"))
	require.NoError(t, err)

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeData(w, entity.AuthResponse{AccessToken: "fresh"})
	})
	mux.HandleFunc("/chat/conversations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		writeData(w, []entity.Conversation{{ID: "c1"}})
	})
	client, store := newTestClient(t, mux, entity.Tokens{AccessToken: expiring, RefreshToken: "r"})

	convs, err := client.FetchConversations(context.Background())
	require.NoError(t, err)
	assert.Len(t, convs, 1)
	assert.Equal(t, int32(1), refreshCalls.Load())

	tokens, _ := store.Tokens(context.Background())
	assert.Equal(t, "r", tokens.RefreshToken)
}
