package profile

import (
	"context"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	preferenceRepo "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/repository/preference"
	"github.com/pkg/errors"
)

type IProfileUseCase interface {
	Onboarding(ctx context.Context) (entity.OnboardingStatus, error)
	CompleteOnboarding(ctx context.Context) error
	CompleteProfileSetup(ctx context.Context) error
	// Reset forgets first-run progress, used on logout.
	Reset(ctx context.Context) error
}

type profileUseCase struct {
	prefs preferenceRepo.IPreferenceRepo
}

func NewProfileUseCase(prefs preferenceRepo.IPreferenceRepo) IProfileUseCase {
	return &profileUseCase{prefs: prefs}
}

func (u *profileUseCase) Onboarding(ctx context.Context) (entity.OnboardingStatus, error) {
	done, err := u.prefs.Flag(ctx, preferenceRepo.FlagOnboardingDone)
	if err != nil {
		return entity.OnboardingStatus{}, errors.Wrap(err, "profile.Onboarding: ")
	}
	setup, err := u.prefs.Flag(ctx, preferenceRepo.FlagProfileSetup)
	if err != nil {
		return entity.OnboardingStatus{}, errors.Wrap(err, "profile.Onboarding: ")
	}
	return entity.OnboardingStatus{OnboardingDone: done, ProfileSetup: setup}, nil
}

func (u *profileUseCase) CompleteOnboarding(ctx context.Context) error {
	return errors.Wrap(u.prefs.SetFlag(ctx, preferenceRepo.FlagOnboardingDone, true), "profile.CompleteOnboarding: ")
}

// CompleteProfileSetup implies onboarding is done too.
func (u *profileUseCase) CompleteProfileSetup(ctx context.Context) error {
	if err := u.prefs.SetFlag(ctx, preferenceRepo.FlagProfileSetup, true); err != nil {
		return errors.Wrap(err, "profile.CompleteProfileSetup: ")
	}
	return u.CompleteOnboarding(ctx)
}

func (u *profileUseCase) Reset(ctx context.Context) error {
	for _, flag := range []string{preferenceRepo.FlagOnboardingDone, preferenceRepo.FlagProfileSetup} {
		if err := u.prefs.SetFlag(ctx, flag, false); err != nil {
			return errors.Wrap(err, "profile.Reset: ")
		}
	}
	return nil
}
