package entity

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// OnboardingStatus is the locally persisted progress through first-run screens.
type OnboardingStatus struct {
	OnboardingDone bool `json:"onboarding_done"`
	ProfileSetup   bool `json:"profile_setup"`
}
