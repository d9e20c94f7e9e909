package access

import "fmt"

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// RuleViolationError reports a request that breaks a domain rule.
type RuleViolationError struct {
	Reason string
}

func (e *RuleViolationError) Error() string {
	return e.Reason
}

var (
	ErrTrackNotFound   = &NotFoundError{Entity: "Track"}
	ErrCommentNotFound = &NotFoundError{Entity: "Comment"}
	ErrCornerNotFound  = &NotFoundError{Entity: "Corner"}
	ErrTimeNotFound    = &NotFoundError{Entity: "Time"}

	ErrSaveOwnTrack = &RuleViolationError{Reason: "You cannot save your own track"}
	ErrAlreadySaved = &RuleViolationError{Reason: "Track already saved"}
	ErrNotSaved     = &RuleViolationError{Reason: "Track not saved"}
)
