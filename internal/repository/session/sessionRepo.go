package sessionRepo

import (
	"context"
	"sync"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// ITokenStore keeps the access/refresh pair for the signed in device.
type ITokenStore interface {
	Tokens(ctx context.Context) (entity.Tokens, error)
	SaveTokens(ctx context.Context, tokens entity.Tokens) error
	Clear(ctx context.Context) error
}

const tokensKey = ":session:tokens"

type TokenRepo struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) ITokenStore {
	return &TokenRepo{rdb: rdb}
}

func (r *TokenRepo) Tokens(_ context.Context) (entity.Tokens, error) {
	fields, err := r.rdb.HGetAll(tokensKey).Result()
	if err != nil {
		return entity.Tokens{}, errors.Wrap(err, "tokenRepo.Tokens: ")
	}
	return entity.Tokens{
		AccessToken:  fields["access"],
		RefreshToken: fields["refresh"],
	}, nil
}

func (r *TokenRepo) SaveTokens(_ context.Context, tokens entity.Tokens) error {
	err := r.rdb.HMSet(tokensKey, map[string]interface{}{
		"access":  tokens.AccessToken,
		"refresh": tokens.RefreshToken,
	}).Err()
	if err != nil {
		return errors.Wrap(err, "tokenRepo.SaveTokens: ")
	}
	return nil
}

func (r *TokenRepo) Clear(_ context.Context) error {
	return r.rdb.Del(tokensKey).Err()
}

type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens entity.Tokens
}

func NewMemory() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Tokens(_ context.Context) (entity.Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, nil
}

func (s *MemoryTokenStore) SaveTokens(_ context.Context, tokens entity.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = entity.Tokens{}
	return nil
}
