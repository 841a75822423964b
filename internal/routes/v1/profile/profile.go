package routesV1Profile

import (
	"net/http"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/profile"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
)

func OnboardingHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	status, err := profileCase.Onboarding(c.Request().Context())
	if err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.OnboardingStatus]{
		Message: "Onboarding status",
		Data:    status,
	})
}

func CompleteStepHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	ctx := c.Request().Context()

	var err error
	switch c.Param("step") {
	case "onboarding":
		err = profileCase.CompleteOnboarding(ctx)
	case "profile":
		err = profileCase.CompleteProfileSetup(ctx)
	default:
		return c.JSON(http.StatusNotFound, http_util.HTTPResponse[any]{Message: "unknown step"})
	}
	if err != nil {
		return http_util.EncodeError(c, err)
	}
	return OnboardingHandler(c, profileCase)
}
