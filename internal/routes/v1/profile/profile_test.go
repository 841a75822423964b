package routesV1Profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	preferenceRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/preference"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/usecase/profile"
	"github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/http_util"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileServer() *echo.Echo {
	uc := profile.NewProfileUseCase(preferenceRepo.NewMemory())

	e := echo.New()
	e.GET("/profile/onboarding", func(c echo.Context) error { return OnboardingHandler(c, uc) })
	e.POST("/profile/onboarding/:step", func(c echo.Context) error { return CompleteStepHandler(c, uc) })
	return e
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) entity.OnboardingStatus {
	t.Helper()
	var body http_util.HTTPResponse[entity.OnboardingStatus]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestOnboardingRoutes(t *testing.T) {
	e := profileServer()

	t.Run("fresh install has nothing completed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/onboarding", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.OnboardingStatus{}, decodeStatus(t, rec))
	})

	t.Run("profile step implies onboarding", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile/onboarding/profile", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.OnboardingStatus{OnboardingDone: true, ProfileSetup: true}, decodeStatus(t, rec))
	})

	t.Run("unknown step", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile/onboarding/avatar", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
