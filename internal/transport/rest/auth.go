package rest

import (
	"context"
	"net/http"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
)

func (c *Client) Login(ctx context.Context, req entity.SignInRequest) (entity.AuthResponse, error) {
	return call[entity.AuthResponse](ctx, c, request{method: http.MethodPost, path: "/auth/login", body: req})
}

func (c *Client) Signup(ctx context.Context, req entity.SignUpRequest) (entity.AuthResponse, error) {
	return call[entity.AuthResponse](ctx, c, request{method: http.MethodPost, path: "/auth/signup", body: req})
}

func (c *Client) RequestOTP(ctx context.Context, req entity.OTPRequest) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/otp/request", body: req})
	return err
}

func (c *Client) VerifyOTP(ctx context.Context, req entity.OTPVerifyRequest) (entity.AuthResponse, error) {
	return call[entity.AuthResponse](ctx, c, request{method: http.MethodPost, path: "/auth/otp/verify", body: req})
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", authed: true})
	return err
}
