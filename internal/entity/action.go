package entity

import "time"

type Action uint

const (
	ActionLike Action = iota + 1
	ActionPass
	ActionSuperLike
	ActionBlock
)

func (a Action) String() string {
	switch a {
	case ActionLike:
		return "Like"
	case ActionPass:
		return "Pass"
	case ActionSuperLike:
		return "SuperLike"
	case ActionBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Path is the backend route segment for the action.
func (a Action) Path() string {
	switch a {
	case ActionLike:
		return "like"
	case ActionPass:
		return "pass"
	case ActionSuperLike:
		return "superlike"
	case ActionBlock:
		return "block"
	default:
		return ""
	}
}

// CanMatch is true for actions the server answers with a match verdict.
func (a Action) CanMatch() bool {
	return a == ActionLike || a == ActionSuperLike
}

func ParseAction(s string) (Action, bool) {
	for _, a := range []Action{ActionLike, ActionPass, ActionSuperLike, ActionBlock} {
		if a.Path() == s {
			return a, true
		}
	}
	return 0, false
}

type SwipeRecord struct {
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// MatchResult is ephemeral: it is shown once by the UI and never persisted.
type MatchResult struct {
	IsMatch     bool   `json:"is_match"`
	MatchID     string `json:"match_id,omitempty"`
	MatchedUser *Card  `json:"matched_user,omitempty"`
}

type MatchEvent struct {
	Result   MatchResult `json:"result"`
	Action   Action      `json:"action"`
	TargetID string      `json:"target_id"`
	At       time.Time   `json:"at"`
}
