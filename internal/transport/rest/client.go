package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	sessionRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/session"
	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/jwt"
	"github.com/sirupsen/logrus"
)

const (
	RetryCountHeader = "X-Retry-Count"
	MaxAuthRetries   = 3

	// tokens closer than this to expiry are refreshed before the request goes out
	expiryLeeway = 30 * time.Second
)

// StatusError is returned for non-2xx responses that are not handled by the
// refresh flow.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, strings.TrimSpace(e.Body))
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  sessionRepo.ITokenStore
	log     logrus.FieldLogger

	// refreshMu makes sure only one refresh call is in flight.
	refreshMu sync.Mutex
}

func New(baseURL string, timeout time.Duration, tokens sessionRepo.ITokenStore, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

type request struct {
	method string
	path   string
	body   any
	// raw replaces body when set, used for multipart uploads
	raw         []byte
	contentType string
	authed      bool
}

// call performs req and decodes the {message, data} envelope into out.
func call[T any](ctx context.Context, c *Client, req request) (T, error) {
	var zero T

	body, err := c.do(ctx, req)
	if err != nil {
		return zero, err
	}
	if len(body) == 0 {
		return zero, nil
	}

	envelope, err := http_util.DecodeBody(body, http_util.HTTPResponse[T]{})
	if err != nil {
		return zero, apperrors.Wrap(apperrors.CodeInternal, "decode response", err)
	}
	return envelope.Data, nil
}

func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	if req.authed {
		if err := c.refreshIfExpiring(ctx); err != nil {
			return nil, err
		}
	}

	for attempt := 0; ; attempt++ {
		tokens, err := c.tokens.Tokens(ctx)
		if err != nil {
			return nil, err
		}
		if req.authed && tokens.AccessToken == "" {
			return nil, apperrors.ErrNotAuthenticated
		}

		status, body, err := c.send(ctx, req, tokens.AccessToken, attempt)
		if err != nil {
			return nil, apperrors.ErrRemote(req.method+" "+req.path, err)
		}

		if status == http.StatusUnauthorized && req.authed {
			if attempt+1 >= MaxAuthRetries {
				c.log.WithField("path", req.path).Warn("giving up after repeated 401s")
				c.clearSession(ctx)
				return nil, apperrors.ErrRefreshExhausted
			}
			if err := c.refresh(ctx, tokens.AccessToken); err != nil {
				return nil, err
			}
			continue
		}

		if status < 200 || status >= 300 {
			return nil, statusToError(req, status, body)
		}
		return body, nil
	}
}

func (c *Client) send(ctx context.Context, req request, accessToken string, attempt int) (int, []byte, error) {
	var payload io.Reader
	contentType := req.contentType
	switch {
	case req.raw != nil:
		payload = bytes.NewReader(req.raw)
	case req.body != nil:
		b, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, err
		}
		payload = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, payload)
	if err != nil {
		return 0, nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.authed {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
		httpReq.Header.Set(RetryCountHeader, strconv.Itoa(attempt))
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *Client) refreshIfExpiring(ctx context.Context) error {
	tokens, err := c.tokens.Tokens(ctx)
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return nil
	}
	// opaque tokens are left to the 401 path
	if _, err := jwt.Inspect(tokens.AccessToken); err != nil || !jwt.Expired(tokens.AccessToken, expiryLeeway) {
		return nil
	}
	return c.refresh(ctx, tokens.AccessToken)
}

// refresh exchanges the refresh token. staleAccess is the token the caller saw
// fail; if another goroutine already replaced it, there is nothing to do.
func (c *Client) refresh(ctx context.Context, staleAccess string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	tokens, err := c.tokens.Tokens(ctx)
	if err != nil {
		return err
	}
	if tokens.AccessToken != "" && tokens.AccessToken != staleAccess {
		return nil
	}
	if tokens.RefreshToken == "" {
		c.clearSession(ctx)
		return apperrors.ErrNotAuthenticated
	}

	status, body, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   entity.RefreshTokenRequest{RefreshToken: tokens.RefreshToken},
	}, "", 0)
	if err != nil || status != http.StatusOK {
		c.log.WithField("status", status).WithError(err).Warn("token refresh failed, clearing session")
		c.clearSession(ctx)
		return apperrors.ErrNotAuthenticated
	}

	envelope, err := http_util.DecodeBody(body, http_util.HTTPResponse[entity.AuthResponse]{})
	if err != nil || envelope.Data.AccessToken == "" {
		c.clearSession(ctx)
		return apperrors.ErrNotAuthenticated
	}

	next := entity.Tokens{AccessToken: envelope.Data.AccessToken, RefreshToken: envelope.Data.RefreshToken}
	if next.RefreshToken == "" {
		next.RefreshToken = tokens.RefreshToken
	}
	return c.tokens.SaveTokens(ctx, next)
}

// clearSession drops the tokens so the user has to sign in again.
func (c *Client) clearSession(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.WithError(err).Warn("could not clear session tokens")
	}
}

func statusToError(req request, status int, body []byte) error {
	cause := &StatusError{Status: status, Body: string(body)}
	op := req.method + " " + req.path
	switch {
	case status == http.StatusNotFound:
		return apperrors.Wrap(apperrors.CodeNotFound, op, cause)
	case status == http.StatusUnauthorized:
		return apperrors.Wrap(apperrors.CodeUnauthenticated, op, cause)
	case status >= 400 && status < 500:
		return apperrors.Wrap(apperrors.CodeInvalidArgument, op, cause)
	default:
		return apperrors.ErrRemote(op, cause)
	}
}
