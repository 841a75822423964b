package authUseCase

import (
	"context"
	"sync"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	sessionRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/session"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/jwt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=mocks/auth_api.go -package=mocks . AuthAPI

type AuthAPI interface {
	Login(ctx context.Context, req entity.SignInRequest) (entity.AuthResponse, error)
	Signup(ctx context.Context, req entity.SignUpRequest) (entity.AuthResponse, error)
	RequestOTP(ctx context.Context, req entity.OTPRequest) error
	VerifyOTP(ctx context.Context, req entity.OTPVerifyRequest) (entity.AuthResponse, error)
	Logout(ctx context.Context) error
}

type IAuthUseCase interface {
	Login(ctx context.Context, req entity.SignInRequest) (entity.AuthResponse, error)
	Signup(ctx context.Context, req entity.SignUpRequest) (entity.AuthResponse, error)
	RequestOTP(ctx context.Context, req entity.OTPRequest) error
	VerifyOTP(ctx context.Context, req entity.OTPVerifyRequest) (entity.AuthResponse, error)
	// Logout always clears the local session, even when the backend call fails.
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) (bool, error)
	CurrentUserID(ctx context.Context) (string, error)
	OnLogout(fn func(ctx context.Context))
}

// anonymousUser keys local state when the session holds opaque tokens and
// the backend never told us the user id.
const anonymousUser = "self"

type authUseCase struct {
	api    AuthAPI
	tokens sessionRepo.ITokenStore
	log    logrus.FieldLogger

	mu       sync.RWMutex
	userID   string
	onLogout []func(ctx context.Context)
}

func New(api AuthAPI, tokens sessionRepo.ITokenStore, log logrus.FieldLogger) IAuthUseCase {
	return &authUseCase{
		api:    api,
		tokens: tokens,
		log:    log,
	}
}

func (u *authUseCase) Login(ctx context.Context, req entity.SignInRequest) (entity.AuthResponse, error) {
	resp, err := u.api.Login(ctx, req)
	if err != nil {
		return entity.AuthResponse{}, err
	}
	return resp, u.persist(ctx, resp)
}

func (u *authUseCase) Signup(ctx context.Context, req entity.SignUpRequest) (entity.AuthResponse, error) {
	resp, err := u.api.Signup(ctx, req)
	if err != nil {
		return entity.AuthResponse{}, err
	}
	return resp, u.persist(ctx, resp)
}

func (u *authUseCase) RequestOTP(ctx context.Context, req entity.OTPRequest) error {
	return u.api.RequestOTP(ctx, req)
}

func (u *authUseCase) VerifyOTP(ctx context.Context, req entity.OTPVerifyRequest) (entity.AuthResponse, error) {
	resp, err := u.api.VerifyOTP(ctx, req)
	if err != nil {
		return entity.AuthResponse{}, err
	}
	return resp, u.persist(ctx, resp)
}

func (u *authUseCase) persist(ctx context.Context, resp entity.AuthResponse) error {
	if resp.AccessToken == "" {
		return apperrors.Internal("backend returned no access token")
	}

	err := u.tokens.SaveTokens(ctx, entity.Tokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	if err != nil {
		return errors.Wrap(err, "authUseCase.persist: ")
	}

	u.mu.Lock()
	u.userID = resp.UserID
	u.mu.Unlock()
	return nil
}

func (u *authUseCase) Logout(ctx context.Context) error {
	if err := u.api.Logout(ctx); err != nil {
		u.log.WithField("err", err).Warn("remote logout failed, clearing local session anyway")
	}

	u.mu.RLock()
	hooks := append([]func(context.Context){}, u.onLogout...)
	u.mu.RUnlock()

	// hooks still see the session so they can clear per-user state
	for _, fn := range hooks {
		fn(ctx)
	}
	u.mu.Lock()
	u.userID = ""
	u.mu.Unlock()

	if err := u.tokens.Clear(ctx); err != nil {
		return errors.Wrap(err, "authUseCase.Logout: ")
	}
	return nil
}

func (u *authUseCase) OnLogout(fn func(ctx context.Context)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.onLogout = append(u.onLogout, fn)
}

func (u *authUseCase) IsAuthenticated(ctx context.Context) (bool, error) {
	tokens, err := u.tokens.Tokens(ctx)
	if err != nil {
		return false, errors.Wrap(err, "authUseCase.IsAuthenticated: ")
	}
	return tokens.AccessToken != "", nil
}

func (u *authUseCase) CurrentUserID(ctx context.Context) (string, error) {
	tokens, err := u.tokens.Tokens(ctx)
	if err != nil {
		return "", errors.Wrap(err, "authUseCase.CurrentUserID: ")
	}
	if tokens.AccessToken == "" {
		return "", apperrors.ErrNotAuthenticated
	}

	if claims, err := jwt.Inspect(tokens.AccessToken); err == nil && claims.UserID != "" {
		return claims.UserID, nil
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.userID != "" {
		return u.userID, nil
	}
	return anonymousUser, nil
}
