package notification

import (
	"context"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	notificationRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/notification"
	preferenceRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/preference"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type NotificationAPI interface {
	FetchNotifications(ctx context.Context) ([]entity.Notification, error)
	UpdateNotificationSettings(ctx context.Context, s entity.NotificationSettings) error
}

// Identity resolves whose inbox is being read.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, error)
}

type INotificationUseCase interface {
	SaveNotification(ctx context.Context, n entity.Notification) error
	// GetAllNotifications returns the inbox newest first.
	GetAllNotifications(ctx context.Context) ([]entity.Notification, error)
	Sync(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, notificationID string) error
	Settings(ctx context.Context) (entity.NotificationSettings, error)
	UpdateSettings(ctx context.Context, s entity.NotificationSettings) error
	Clear(ctx context.Context) error
}

type notificationUseCase struct {
	api   NotificationAPI
	repo  notificationRepo.INotificationRepo
	prefs preferenceRepo.IPreferenceRepo
	who   Identity
	log   logrus.FieldLogger
	now   func() time.Time
}

func New(
	api NotificationAPI,
	repo notificationRepo.INotificationRepo,
	prefs preferenceRepo.IPreferenceRepo,
	who Identity,
	log logrus.FieldLogger,
) INotificationUseCase {
	return &notificationUseCase{
		api:   api,
		repo:  repo,
		prefs: prefs,
		who:   who,
		log:   log,
		now:   time.Now,
	}
}

// SaveNotification stores n unless the user muted its type. Missing ids and
// timestamps are filled in.
func (u *notificationUseCase) SaveNotification(ctx context.Context, n entity.Notification) error {
	userID, err := u.who.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	settings, err := u.prefs.NotificationSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.Allows(n.Type) {
		u.log.WithField("type", n.Type).Debug("notification muted by settings")
		return nil
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = u.now()
	}
	return u.repo.Save(ctx, userID, n)
}

func (u *notificationUseCase) GetAllNotifications(ctx context.Context) ([]entity.Notification, error) {
	userID, err := u.who.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return u.repo.GetAll(ctx, userID)
}

// Sync pulls the backend inbox into the local store and reports how many
// entries were saved.
func (u *notificationUseCase) Sync(ctx context.Context) (int, error) {
	remote, err := u.api.FetchNotifications(ctx)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, n := range remote {
		if err := u.SaveNotification(ctx, n); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func (u *notificationUseCase) MarkRead(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return apperrors.InvalidArg("notification id is required")
	}
	userID, err := u.who.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	err = u.repo.MarkRead(ctx, userID, notificationID)
	if err == notificationRepo.ErrNotFound {
		return apperrors.NotFound("notification not found")
	}
	return err
}

func (u *notificationUseCase) Settings(ctx context.Context) (entity.NotificationSettings, error) {
	return u.prefs.NotificationSettings(ctx)
}

// UpdateSettings saves locally first so a backend outage does not lose the
// user's choice.
func (u *notificationUseCase) UpdateSettings(ctx context.Context, s entity.NotificationSettings) error {
	if err := u.prefs.SaveNotificationSettings(ctx, s); err != nil {
		return err
	}
	if err := u.api.UpdateNotificationSettings(ctx, s); err != nil {
		u.log.WithError(err).Warn("notification settings not pushed to backend")
		return err
	}
	return nil
}

func (u *notificationUseCase) Clear(ctx context.Context) error {
	userID, err := u.who.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	return u.repo.Clear(ctx, userID)
}
