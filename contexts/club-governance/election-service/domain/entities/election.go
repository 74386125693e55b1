package entities

import "time"

// Election is a scoped voting event for one club. The voting window
// [VotingStart, VotingEnd) gates every ballot operation, and the record
// becomes immutable for dates and nested structure once voting has started.
type Election struct {
	ElectionID  string
	ClubID      string
	Title       string
	Subtitle    string
	Description string
	Year        int
	VotingStart time.Time
	VotingEnd   time.Time
	Positions   []Position
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Position is a contested role within an election, owned exclusively by it.
type Position struct {
	PositionID  string
	ElectionID  string
	Name        string
	Description string
	Candidates  []Candidate
	CreatedAt   time.Time
}

// Candidate is a nominee attached to exactly one position.
type Candidate struct {
	CandidateID string
	PositionID  string
	Name        string
	ImageURL    string
	Vision      string
	Experience  string
	CreatedAt   time.Time
}

// VotingWindow reports where now sits relative to the election window.
type VotingWindow string

const (
	WindowPending VotingWindow = "pending"
	WindowOpen    VotingWindow = "open"
	WindowClosed  VotingWindow = "closed"
)

func (e Election) WindowAt(now time.Time) VotingWindow {
	if now.Before(e.VotingStart) {
		return WindowPending
	}
	if now.After(e.VotingEnd) {
		return WindowClosed
	}
	return WindowOpen
}

// Started reports whether voting has begun; started elections are immutable
// for dates and nested positions/candidates.
func (e Election) Started(now time.Time) bool {
	return !now.Before(e.VotingStart)
}

// PositionByID finds a position within the election.
func (e Election) PositionByID(positionID string) (Position, bool) {
	for _, position := range e.Positions {
		if position.PositionID == positionID {
			return position, true
		}
	}
	return Position{}, false
}

// CandidateByID finds a candidate within the position.
func (p Position) CandidateByID(candidateID string) (Candidate, bool) {
	for _, candidate := range p.Candidates {
		if candidate.CandidateID == candidateID {
			return candidate, true
		}
	}
	return Candidate{}, false
}
