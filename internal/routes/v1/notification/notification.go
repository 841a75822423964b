package routesV1Notification

import (
	"net/http"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/notification"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
)

type syncResponse struct {
	Added int `json:"added"`
}

func ListHandler(c echo.Context, notificationCase notification.INotificationUseCase) error {
	list, err := notificationCase.GetAllNotifications(c.Request().Context())
	if err != nil {
		return http_util.EncodeError(c, err)
	}
	if list == nil {
		list = []entity.Notification{}
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.NotificationsResponse]{
		Message: "Notifications",
		Data:    entity.NotificationsResponse{Notifications: list},
	})
}

func SyncHandler(c echo.Context, notificationCase notification.INotificationUseCase) error {
	added, err := notificationCase.Sync(c.Request().Context())
	if err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[syncResponse]{
		Message: "Notifications synced",
		Data:    syncResponse{Added: added},
	})
}

func MarkReadHandler(c echo.Context, notificationCase notification.INotificationUseCase) error {
	if err := notificationCase.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[any]{Message: "Marked read"})
}

func GetSettingsHandler(c echo.Context, notificationCase notification.INotificationUseCase) error {
	settings, err := notificationCase.Settings(c.Request().Context())
	if err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.NotificationSettings]{
		Message: "Notification settings",
		Data:    settings,
	})
}

func UpdateSettingsHandler(c echo.Context, notificationCase notification.INotificationUseCase) error {
	request, ok, err := http_util.DecodeValid[entity.UpdateSettingsRequest](c)
	if !ok {
		return err
	}

	if err := notificationCase.UpdateSettings(c.Request().Context(), request.NotificationSettings); err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.NotificationSettings]{
		Message: "Notification settings updated",
		Data:    request.NotificationSettings,
	})
}
