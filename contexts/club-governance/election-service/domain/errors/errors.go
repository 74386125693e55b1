package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidElectionInput = errors.New("invalid election input")
	ErrInvalidVotingWindow  = errors.New("voting start must be before voting end")
	ErrElectionNotFound     = errors.New("election not found")
	ErrClubNotFound         = errors.New("club not found")
	ErrClubInactive         = errors.New("club is not active")
	ErrElectionStarted      = errors.New("election is immutable after voting has started")
	ErrElectionActive       = errors.New("election cannot be deleted while voting is active")
	ErrInvalidToken         = errors.New("voting token not found")
	ErrTokenAlreadyUsed     = errors.New("voting token has already been used")
	ErrVotingNotOpen        = errors.New("voting has not opened yet")
	ErrVotingClosed         = errors.New("voting has closed")
	ErrInvalidBallotInput   = errors.New("invalid ballot input")
	ErrConflict             = errors.New("conflicting concurrent write")
)

// Ballot violation codes for structural checks. Structural problems are
// collected and reported together, not one at a time.
const (
	ViolationDuplicatePosition = "duplicate_position"
	ViolationUnknownPosition   = "unknown_position"
	ViolationUnknownCandidate  = "unknown_candidate"
	ViolationMissingPosition   = "missing_position"
)

// BallotViolation is one structural rule failure in a submitted ballot.
type BallotViolation struct {
	Code        string
	PositionID  string
	CandidateID string
	Message     string
}

// BallotValidationError carries every structural violation found in one
// ballot so the voter can fix the whole submission at once.
type BallotValidationError struct {
	Violations []BallotViolation
}

func (e *BallotValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "ballot validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		parts = append(parts, violation.Message)
	}
	return fmt.Sprintf("ballot validation failed: %s", strings.Join(parts, "; "))
}

// AsBallotValidation unwraps err into a *BallotValidationError when possible.
func AsBallotValidation(err error) (*BallotValidationError, bool) {
	var validation *BallotValidationError
	if errors.As(err, &validation) {
		return validation, true
	}
	return nil, false
}
