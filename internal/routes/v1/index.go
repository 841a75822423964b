package routesV1

import (
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/middleware"
	routesV1Auth "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/routes/v1/auth"
	routesV1Chat "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/routes/v1/chat"
	routesV1Match "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/routes/v1/match"
	routesV1Notification "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/routes/v1/notification"
	routesV1Profile "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/routes/v1/profile"
	authUseCase "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/auth"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/chat"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/discovery"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/match"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/notification"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/profile"
	"github.com/labstack/echo"
)

type UseCases struct {
	Auth         authUseCase.IAuthUseCase
	Discovery    discovery.IDiscoveryUseCase
	Match        match.IMatchUseCase
	Chat         chat.IChatUseCase
	Notification notification.INotificationUseCase
	Profile      profile.IProfileUseCase
}

func InitV1Routes(e *echo.Echo, uc UseCases) {
	v1 := e.Group("/v1")

	v1.POST("/auth/signup", func(c echo.Context) error {
		return routesV1Auth.SignUpHandler(c, uc.Auth)
	})
	v1.POST("/auth/login", func(c echo.Context) error {
		return routesV1Auth.SignInHandler(c, uc.Auth)
	})
	v1.POST("/auth/otp/request", func(c echo.Context) error {
		return routesV1Auth.RequestOTPHandler(c, uc.Auth)
	})
	v1.POST("/auth/otp/verify", func(c echo.Context) error {
		return routesV1Auth.VerifyOTPHandler(c, uc.Auth)
	})

	private := v1.Group("", middleware.SessionRequired(uc.Auth))

	private.POST("/auth/logout", func(c echo.Context) error {
		return routesV1Auth.LogoutHandler(c, uc.Auth)
	})

	private.GET("/profile/onboarding", func(c echo.Context) error {
		return routesV1Profile.OnboardingHandler(c, uc.Profile)
	})
	private.POST("/profile/onboarding/:step", func(c echo.Context) error {
		return routesV1Profile.CompleteStepHandler(c, uc.Profile)
	})

	private.POST("/discovery/load", func(c echo.Context) error {
		return routesV1Match.LoadHandler(c, uc.Discovery)
	})
	private.GET("/discovery/current", func(c echo.Context) error {
		return routesV1Match.CurrentHandler(c, uc.Discovery)
	})
	private.GET("/discovery/state", func(c echo.Context) error {
		return routesV1Match.StateHandler(c, uc.Discovery)
	})
	private.POST("/discovery/undo", func(c echo.Context) error {
		return routesV1Match.UndoHandler(c, uc.Discovery)
	})
	private.POST("/discovery/:id/:action", func(c echo.Context) error {
		return routesV1Match.SwipeHandler(c, uc.Discovery)
	})

	private.DELETE("/matches/:id", func(c echo.Context) error {
		return routesV1Match.UnmatchHandler(c, uc.Match)
	})
	private.GET("/events/match", func(c echo.Context) error {
		return routesV1Match.NextMatchHandler(c, uc.Match)
	})

	private.GET("/chat/conversations", func(c echo.Context) error {
		return routesV1Chat.ConversationsHandler(c, uc.Chat)
	})
	private.GET("/chat/:conversationId/messages", func(c echo.Context) error {
		return routesV1Chat.MessagesHandler(c, uc.Chat)
	})
	private.POST("/chat/:conversationId/messages", func(c echo.Context) error {
		return routesV1Chat.SendHandler(c, uc.Chat)
	})
	private.POST("/chat/:conversationId/refresh", func(c echo.Context) error {
		return routesV1Chat.RefreshHandler(c, uc.Chat)
	})
	private.POST("/chat/:conversationId/join", func(c echo.Context) error {
		return routesV1Chat.JoinHandler(c, uc.Chat)
	})

	private.GET("/notifications", func(c echo.Context) error {
		return routesV1Notification.ListHandler(c, uc.Notification)
	})
	private.POST("/notifications/sync", func(c echo.Context) error {
		return routesV1Notification.SyncHandler(c, uc.Notification)
	})
	private.POST("/notifications/:id/read", func(c echo.Context) error {
		return routesV1Notification.MarkReadHandler(c, uc.Notification)
	})
	private.GET("/notifications/settings", func(c echo.Context) error {
		return routesV1Notification.GetSettingsHandler(c, uc.Notification)
	})
	private.PUT("/notifications/settings", func(c echo.Context) error {
		return routesV1Notification.UpdateSettingsHandler(c, uc.Notification)
	})
}
