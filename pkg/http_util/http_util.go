package http_util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/validator"
	"github.com/labstack/echo"
)

type ErrorResponse struct {
	Property string `json:"property"`
	Detail   string `json:"detail"`
}

type HTTPResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type HTTPErrorResponse[T any] struct {
	HTTPResponse[T]
	Code   string          `json:"code,omitempty"`
	Errors []ErrorResponse `json:"errors,omitempty"`
}

func Encode[T any](c echo.Context, status int, v T) error {
	return c.JSON(status, v)
}

// EncodeError maps an application error onto its HTTP status.
func EncodeError(c echo.Context, err error) error {
	return c.JSON(apperrors.HTTPStatus(err), HTTPErrorResponse[any]{
		HTTPResponse: HTTPResponse[any]{Message: err.Error()},
		Code:         string(apperrors.CodeOf(err)),
	})
}

func Decode[T any](c echo.Context) (T, error) {
	var v T
	if err := c.Bind(&v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// DecodeValid binds the body and runs its Validate method. Problems are
// written to the response and reported through ok=false.
func DecodeValid[T validator.Validator](c echo.Context) (v T, ok bool, err error) {
	v, err = Decode[T](c)
	if err != nil {
		return v, false, Encode(c, http.StatusBadRequest, HTTPErrorResponse[any]{
			HTTPResponse: HTTPResponse[any]{Message: "Bad Request"},
			Errors:       []ErrorResponse{{Property: "request", Detail: "check your request"}},
		})
	}

	problems := v.Validate(c.Request().Context())
	if len(problems) > 0 {
		return v, false, Encode(c, http.StatusBadRequest, HTTPErrorResponse[any]{
			HTTPResponse: HTTPResponse[any]{Message: "Bad Request"},
			Errors:       flatten(problems),
		})
	}
	return v, true, nil
}

func DecodeBody[T any](body []byte, v T) (T, error) {
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

func flatten(problems map[string][]string) []ErrorResponse {
	keys := make([]string, 0, len(problems))
	for k := range problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []ErrorResponse
	for _, k := range keys {
		for _, detail := range problems[k] {
			out = append(out, ErrorResponse{Property: k, Detail: detail})
		}
	}
	return out
}
