package entity

import (
	"context"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignUpRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Name == "" {
		problems["Name"] = append(problems["Name"], "Name is required")
	}
	if r.Email == "" {
		problems["Email"] = append(problems["Email"], "Email is required")
	} else if !emailRegex.MatchString(r.Email) {
		problems["Email"] = append(problems["Email"], "Invalid email format")
	}
	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}
	if len([]byte(r.Password)) > 72 {
		problems["Password"] = append(problems["Password"], "Password length should not exceed 72 bytes")
	}

	return problems
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Email == "" {
		problems["Email"] = append(problems["Email"], "Email is required")
	} else if !emailRegex.MatchString(r.Email) {
		problems["Email"] = append(problems["Email"], "Invalid email format")
	}
	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	return problems
}

type OTPRequest struct {
	Email string `json:"email"`
}

func (r OTPRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)
	if !emailRegex.MatchString(r.Email) {
		problems["Email"] = append(problems["Email"], "Invalid email format")
	}
	return problems
}

type OTPVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r OTPVerifyRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = OTPRequest{Email: r.Email}.Validate(ctx)
	if len(r.Code) < 4 || len(r.Code) > 8 {
		problems["Code"] = append(problems["Code"], "Code must be 4-8 characters")
	}
	return problems
}

type LoadCardsRequest struct {
	Limit int `json:"limit"`
}

func (r LoadCardsRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)
	if r.Limit < 0 || r.Limit > 100 {
		problems["Limit"] = append(problems["Limit"], "Limit must be between 0 and 100")
	}
	return problems
}

// FetchCardsRequest is the body the backend expects for a discovery batch.
type FetchCardsRequest struct {
	Limit           int      `json:"limit"`
	ExcludeProfiles []string `json:"exclude_profiles,omitempty"`
}

type SendMessageRequest struct {
	SenderID      string `json:"sender_id"`
	Text          string `json:"text"`
	AudioPath     string `json:"audio_path"`
	AudioDuration int    `json:"audio_duration"`
}

func (r SendMessageRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)
	if r.SenderID == "" {
		problems["SenderID"] = append(problems["SenderID"], "Sender is required")
	}
	if r.Text == "" && r.AudioPath == "" {
		problems["Text"] = append(problems["Text"], "Either text or audio is required")
	}
	if r.AudioPath != "" && r.AudioDuration <= 0 {
		problems["AudioDuration"] = append(problems["AudioDuration"], "Audio duration must be positive")
	}
	return problems
}

type UpdateSettingsRequest struct {
	NotificationSettings
}

func (r UpdateSettingsRequest) Validate(ctx context.Context) (problems map[string][]string) {
	return map[string][]string{}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}
