package profile

import (
	"context"
	"testing"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	preferenceRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/preference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingFlow(t *testing.T) {
	ctx := context.Background()
	uc := NewProfileUseCase(preferenceRepo.NewMemory())

	status, err := uc.Onboarding(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.OnboardingStatus{}, status)

	require.NoError(t, uc.CompleteOnboarding(ctx))
	status, _ = uc.Onboarding(ctx)
	assert.True(t, status.OnboardingDone)
	assert.False(t, status.ProfileSetup)

	require.NoError(t, uc.CompleteProfileSetup(ctx))
	status, _ = uc.Onboarding(ctx)
	assert.Equal(t, entity.OnboardingStatus{OnboardingDone: true, ProfileSetup: true}, status)

	require.NoError(t, uc.Reset(ctx))
	status, _ = uc.Onboarding(ctx)
	assert.Equal(t, entity.OnboardingStatus{}, status)
}
