package entities

import "time"

// VotingToken is a single-use bearer credential granting one voter one ballot
// submission in one election. The token id itself is the credential. At most
// one token exists per (election, voter) pair; Used flips to true exactly
// once, atomically with vote recording.
type VotingToken struct {
	TokenID    string
	ElectionID string
	IssuedTo   string
	Used       bool
	CreatedAt  time.Time
}

// Vote is one cast ballot line. Votes carry no voter identity: the token, not
// the vote row, links to the voter, and that link stops being reconstructable
// once the token is marked used.
type Vote struct {
	VoteID      string
	ElectionID  string
	PositionID  string
	CandidateID string
	CreatedAt   time.Time
}

// BallotEntry is one (position, candidate) selection as submitted by a voter.
type BallotEntry struct {
	PositionID  string
	CandidateID string
}

// CandidateTally is one candidate's ranked result within a position. Tied
// candidates share a rank number and keep candidate creation order.
type CandidateTally struct {
	CandidateID   string
	CandidateName string
	Votes         int
	Rank          int
}

// PositionTally is the ranked result for one contested position.
type PositionTally struct {
	PositionID   string
	PositionName string
	Candidates   []CandidateTally
	TotalVotes   int
}

// ElectionTally is the full live result set for an election. BallotsCast is
// the count of used tokens, which equals each position's total vote count for
// a consistent store.
type ElectionTally struct {
	ElectionID  string
	Positions   []PositionTally
	BallotsCast int
	TalliedAt   time.Time
}
