package routesV1Auth

import (
	"net/http"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	authUseCase "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/auth"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
)

type sessionResponse struct {
	UserID string `json:"user_id"`
}

func SignUpHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, ok, err := http_util.DecodeValid[entity.SignUpRequest](c)
	if !ok {
		return err
	}

	resp, err := authCase.Signup(c.Request().Context(), reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[sessionResponse]{
		Message: "Sign-up successful",
		Data:    sessionResponse{UserID: resp.UserID},
	})
}

func SignInHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, ok, err := http_util.DecodeValid[entity.SignInRequest](c)
	if !ok {
		return err
	}

	resp, err := authCase.Login(c.Request().Context(), reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[sessionResponse]{
		Message: "Sign-in successful",
		Data:    sessionResponse{UserID: resp.UserID},
	})
}

func RequestOTPHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, ok, err := http_util.DecodeValid[entity.OTPRequest](c)
	if !ok {
		return err
	}

	if err := authCase.RequestOTP(c.Request().Context(), reqBody); err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusAccepted, http_util.HTTPResponse[any]{Message: "OTP sent"})
}

func VerifyOTPHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, ok, err := http_util.DecodeValid[entity.OTPVerifyRequest](c)
	if !ok {
		return err
	}

	resp, err := authCase.VerifyOTP(c.Request().Context(), reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[sessionResponse]{
		Message: "OTP verified",
		Data:    sessionResponse{UserID: resp.UserID},
	})
}

func LogoutHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	if err := authCase.Logout(c.Request().Context()); err != nil {
		return http_util.EncodeError(c, err)
	}
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[any]{Message: "Logged out"})
}
