package ports

import (
	"context"
	"time"

	"clubsync/contexts/club-governance/election-service/domain/entities"
	"clubsync/internal/shared/events"
)

// ElectionFilter narrows and pages election listings.
type ElectionFilter struct {
	ClubID string
	Page   int
	Limit  int
}

// ElectionRepository owns election aggregates including nested positions and
// candidates. Every multi-row mutation must be atomic: nested creation,
// wholesale position replacement, and the ordered deletion cascade
// (votes, tokens, candidates, positions, election) each run in one
// transaction or not at all.
type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	UpdateElection(ctx context.Context, election entities.Election, replacePositions bool) error
	DeleteElection(ctx context.Context, electionID string) error
	ListElections(ctx context.Context, filter ElectionFilter) ([]entities.Election, int64, error)
}

// TokenRepository issues and reads single-use voting tokens.
type TokenRepository interface {
	GetToken(ctx context.Context, tokenID string) (entities.VotingToken, error)
	GetTokenByVoter(ctx context.Context, electionID string, voterID string) (entities.VotingToken, bool, error)
	// CreateToken fails with ErrConflict when the (election, voter) unique
	// constraint trips; callers re-read and return the existing token.
	CreateToken(ctx context.Context, token entities.VotingToken) error
	CountUsedTokens(ctx context.Context, electionID string) (int, error)
}

// BallotRepository records redeemed ballots.
type BallotRepository interface {
	// RedeemBallot atomically inserts the votes and flips the token to used.
	// The token row is read under a write lock inside the transaction; a
	// concurrent redeemer of the same token fails with ErrTokenAlreadyUsed
	// and inserts nothing.
	RedeemBallot(ctx context.Context, tokenID string, votes []entities.Vote) error
	ListVotesByElection(ctx context.Context, electionID string) ([]entities.Vote, error)
}

// ClubProjection is the read-only slice of club state this module needs.
type ClubProjection struct {
	ClubID string
	Name   string
	Status string
}

func (p ClubProjection) Active() bool {
	return p.Status == "active"
}

// ClubDirectory resolves the club a new election belongs to.
type ClubDirectory interface {
	GetClub(ctx context.Context, clubID string) (ClubProjection, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the shared cross-module envelope contract.
type EventEnvelope = events.Envelope

// EventPublisher fans lifecycle events out to in-process subscribers. A nil
// publisher is a no-op for pure read/test wiring.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
