package preferenceRepo

import (
	"context"
	"strconv"
	"sync"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

const (
	FlagOnboardingDone = "onboarding_done"
	FlagProfileSetup   = "profile_setup"

	notifyMatches  = "notify_matches"
	notifyMessages = "notify_messages"
	notifyLikes    = "notify_likes"
)

type IPreferenceRepo interface {
	Flag(ctx context.Context, name string) (bool, error)
	SetFlag(ctx context.Context, name string, value bool) error
	NotificationSettings(ctx context.Context) (entity.NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, s entity.NotificationSettings) error
}

const prefsKey = ":prefs"

type PreferenceRepo struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) IPreferenceRepo {
	return &PreferenceRepo{rdb: rdb}
}

func (r *PreferenceRepo) Flag(_ context.Context, name string) (bool, error) {
	v, err := r.rdb.HGet(prefsKey, name).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "preferenceRepo.Flag: ")
	}
	b, _ := strconv.ParseBool(v)
	return b, nil
}

func (r *PreferenceRepo) SetFlag(_ context.Context, name string, value bool) error {
	return r.rdb.HSet(prefsKey, name, strconv.FormatBool(value)).Err()
}

func (r *PreferenceRepo) NotificationSettings(_ context.Context) (entity.NotificationSettings, error) {
	fields, err := r.rdb.HGetAll(prefsKey).Result()
	if err != nil {
		return entity.NotificationSettings{}, errors.Wrap(err, "preferenceRepo.NotificationSettings: ")
	}
	return settingsFromFields(fields), nil
}

func (r *PreferenceRepo) SaveNotificationSettings(_ context.Context, s entity.NotificationSettings) error {
	return r.rdb.HMSet(prefsKey, map[string]interface{}{
		notifyMatches:  strconv.FormatBool(s.Matches),
		notifyMessages: strconv.FormatBool(s.Messages),
		notifyLikes:    strconv.FormatBool(s.Likes),
	}).Err()
}

// Toggles that were never written default to on.
func settingsFromFields(fields map[string]string) entity.NotificationSettings {
	s := entity.DefaultNotificationSettings()
	read := func(key string, dst *bool) {
		if v, ok := fields[key]; ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	read(notifyMatches, &s.Matches)
	read(notifyMessages, &s.Messages)
	read(notifyLikes, &s.Likes)
	return s
}

type MemoryRepo struct {
	mu     sync.RWMutex
	fields map[string]string
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{fields: make(map[string]string)}
}

func (r *MemoryRepo) Flag(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, _ := strconv.ParseBool(r.fields[name])
	return b, nil
}

func (r *MemoryRepo) SetFlag(_ context.Context, name string, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[name] = strconv.FormatBool(value)
	return nil
}

func (r *MemoryRepo) NotificationSettings(_ context.Context) (entity.NotificationSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return settingsFromFields(r.fields), nil
}

func (r *MemoryRepo) SaveNotificationSettings(_ context.Context, s entity.NotificationSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[notifyMatches] = strconv.FormatBool(s.Matches)
	r.fields[notifyMessages] = strconv.FormatBool(s.Messages)
	r.fields[notifyLikes] = strconv.FormatBool(s.Likes)
	return nil
}
