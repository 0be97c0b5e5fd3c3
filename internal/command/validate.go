package command

import (
	"fmt"
	"strings"
)

// UnknownActionError marks a command whose action is outside the vocabulary.
type UnknownActionError struct {
	Action Action
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", string(e.Action))
}

// MissingFieldsError reports which required fields a command lacks. The
// session layer surfaces these to the user as a clarification prompt, distinct
// from a parse or execution failure.
type MissingFieldsError struct {
	Action Action
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s requires %s", string(e.Action), strings.Join(e.Fields, ", "))
}

// Validate checks the action's minimum-field contract and basic value ranges.
// It is pure: no side effects, safe to call concurrently.
func Validate(a Action, p Params) error {
	s, ok := actionSpecs[a]
	if !ok {
		return &UnknownActionError{Action: a}
	}
	if missing := s.requires(p); len(missing) > 0 {
		return &MissingFieldsError{Action: a, Fields: missing}
	}
	if p.Priority != "" {
		switch p.Priority {
		case "high", "medium", "low":
		default:
			return fmt.Errorf("invalid priority %q", p.Priority)
		}
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return fmt.Errorf("progress %d out of range 0-100", *p.Progress)
	}
	if p.VideoNumber != nil && *p.VideoNumber < 1 {
		return fmt.Errorf("video number %d must be positive", *p.VideoNumber)
	}
	return nil
}
