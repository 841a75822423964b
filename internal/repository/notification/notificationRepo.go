package notificationRepo

import (
	"context"
	"encoding/json"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxStored caps the inbox; the oldest entries are evicted first.
const MaxStored = 200

var ErrNotFound = errors.New("notification not found")

type INotificationRepo interface {
	Save(ctx context.Context, userID string, n entity.Notification) error
	// GetAll returns the inbox newest first.
	GetAll(ctx context.Context, userID string) ([]entity.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	Clear(ctx context.Context, userID string) error
}

type NotificationRepo struct {
	rdb *redis.Client
	log logrus.FieldLogger
}

func New(rdb *redis.Client, log logrus.FieldLogger) INotificationRepo {
	return &NotificationRepo{rdb: rdb, log: log}
}

func indexKey(userID string) string {
	return ":user:" + userID + ":notifications"
}

func dataKey(userID string) string {
	return ":user:" + userID + ":notifications:data"
}

func (r *NotificationRepo) Save(_ context.Context, userID string, n entity.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "notificationRepo.Save.Marshal: ")
	}

	_, err = r.rdb.TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.HSet(dataKey(userID), n.ID, payload)
		pipe.ZAdd(indexKey(userID), redis.Z{
			Score:  float64(n.Timestamp.UnixMilli()),
			Member: n.ID,
		})
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "notificationRepo.Save: ")
	}

	return r.evictOverflow(userID)
}

func (r *NotificationRepo) GetAll(_ context.Context, userID string) ([]entity.Notification, error) {
	ids, err := r.rdb.ZRevRange(indexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "notificationRepo.GetAll.ZRevRange: ")
	}
	if len(ids) == 0 {
		return []entity.Notification{}, nil
	}

	raw, err := r.rdb.HMGet(dataKey(userID), ids...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "notificationRepo.GetAll.HMGet: ")
	}

	out := make([]entity.Notification, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			r.log.WithField("notification_id", ids[i]).Warn("notification payload missing")
			continue
		}
		var n entity.Notification
		if err := json.Unmarshal([]byte(s), &n); err != nil {
			r.log.WithError(err).WithField("notification_id", ids[i]).Warn("skipping unreadable notification")
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	s, err := r.rdb.HGet(dataKey(userID), notificationID).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "notificationRepo.MarkRead.HGet: ")
	}

	var n entity.Notification
	if err := json.Unmarshal([]byte(s), &n); err != nil {
		return errors.Wrap(err, "notificationRepo.MarkRead.Unmarshal: ")
	}
	n.Read = true

	payload, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "notificationRepo.MarkRead.Marshal: ")
	}
	return r.rdb.HSet(dataKey(userID), notificationID, payload).Err()
}

func (r *NotificationRepo) Clear(_ context.Context, userID string) error {
	return r.rdb.Del(indexKey(userID), dataKey(userID)).Err()
}

func (r *NotificationRepo) evictOverflow(userID string) error {
	count, err := r.rdb.ZCard(indexKey(userID)).Result()
	if err != nil {
		return errors.Wrap(err, "notificationRepo.evictOverflow.ZCard: ")
	}
	overflow := count - MaxStored
	if overflow <= 0 {
		return nil
	}

	stale, err := r.rdb.ZRange(indexKey(userID), 0, overflow-1).Result()
	if err != nil {
		return errors.Wrap(err, "notificationRepo.evictOverflow.ZRange: ")
	}

	members := make([]interface{}, len(stale))
	for i, id := range stale {
		members[i] = id
	}
	if err := r.rdb.ZRem(indexKey(userID), members...).Err(); err != nil {
		return err
	}
	r.log.WithField("evicted", len(stale)).Debug("notification inbox trimmed")
	return r.rdb.HDel(dataKey(userID), stale...).Err()
}
