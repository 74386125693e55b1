package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "clubsync/contexts/club-governance/election-service/application"
	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"
)

type SubmitBallotCommand struct {
	TokenID string
	Entries []entities.BallotEntry
}

type SubmitBallotResult struct {
	ElectionID string
	VotesCount int
}

type SubmitBallotUseCase struct {
	Elections ports.ElectionRepository
	Tokens    ports.TokenRepository
	Ballots   ports.BallotRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

// Execute validates and records one complete ballot. Token/window failures
// short-circuit in order (unknown token, used token, window); structural
// failures are collected so the voter sees every problem at once. Recording
// inserts one vote per position and flips the token inside one transaction;
// losing a concurrent race over the same token fails with ErrTokenAlreadyUsed
// and inserts nothing.
func (uc SubmitBallotUseCase) Execute(ctx context.Context, cmd SubmitBallotCommand) (SubmitBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	tokenID := strings.TrimSpace(cmd.TokenID)
	if tokenID == "" || len(cmd.Entries) == 0 {
		return SubmitBallotResult{}, domainerrors.ErrInvalidBallotInput
	}

	token, err := uc.Tokens.GetToken(ctx, tokenID)
	if err != nil {
		return SubmitBallotResult{}, err
	}
	if token.Used {
		return SubmitBallotResult{}, domainerrors.ErrTokenAlreadyUsed
	}

	election, err := uc.Elections.GetElection(ctx, token.ElectionID)
	if err != nil {
		return SubmitBallotResult{}, err
	}

	now := uc.Clock.Now().UTC()
	switch election.WindowAt(now) {
	case entities.WindowPending:
		return SubmitBallotResult{}, domainerrors.ErrVotingNotOpen
	case entities.WindowClosed:
		return SubmitBallotResult{}, domainerrors.ErrVotingClosed
	}

	normalized, err := validateBallot(election, cmd.Entries)
	if err != nil {
		logger.Warn("ballot rejected",
			"event", "ballot_validation_failed",
			"module", "club-governance/election-service",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
		return SubmitBallotResult{}, err
	}

	votes := make([]entities.Vote, 0, len(normalized))
	for _, entry := range normalized {
		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return SubmitBallotResult{}, err
		}
		votes = append(votes, entities.Vote{
			VoteID:      voteID,
			ElectionID:  election.ElectionID,
			PositionID:  entry.PositionID,
			CandidateID: entry.CandidateID,
			CreatedAt:   now,
		})
	}

	if err := uc.Ballots.RedeemBallot(ctx, tokenID, votes); err != nil {
		return SubmitBallotResult{}, err
	}
	if err := publishBallotEvent(ctx, uc.Publisher, uc.IDGen, election.ElectionID, len(votes), now); err != nil {
		return SubmitBallotResult{}, err
	}

	logger.Info("ballot recorded",
		"event", "ballot_recorded",
		"module", "club-governance/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"votes", len(votes),
	)
	return SubmitBallotResult{
		ElectionID: election.ElectionID,
		VotesCount: len(votes),
	}, nil
}

// validateBallot applies the structural rules against the election and
// returns entries normalized to the election's position order. All violations
// are collected before returning.
func validateBallot(election entities.Election, entries []entities.BallotEntry) ([]entities.BallotEntry, error) {
	var violations []domainerrors.BallotViolation

	seen := make(map[string]bool, len(entries))
	byPosition := make(map[string]entities.BallotEntry, len(entries))
	for _, entry := range entries {
		positionID := strings.TrimSpace(entry.PositionID)
		candidateID := strings.TrimSpace(entry.CandidateID)

		if seen[positionID] {
			violations = append(violations, domainerrors.BallotViolation{
				Code:       domainerrors.ViolationDuplicatePosition,
				PositionID: positionID,
				Message:    fmt.Sprintf("position %s appears more than once", positionID),
			})
			continue
		}
		seen[positionID] = true

		position, found := election.PositionByID(positionID)
		if !found {
			violations = append(violations, domainerrors.BallotViolation{
				Code:       domainerrors.ViolationUnknownPosition,
				PositionID: positionID,
				Message:    fmt.Sprintf("position %s does not belong to this election", positionID),
			})
			continue
		}
		if _, found := position.CandidateByID(candidateID); !found {
			violations = append(violations, domainerrors.BallotViolation{
				Code:        domainerrors.ViolationUnknownCandidate,
				PositionID:  positionID,
				CandidateID: candidateID,
				Message:     fmt.Sprintf("candidate %s does not run for position %s", candidateID, positionID),
			})
			continue
		}
		byPosition[positionID] = entities.BallotEntry{
			PositionID:  positionID,
			CandidateID: candidateID,
		}
	}

	// A complete ballot covers every position exactly once; missing positions
	// are named so the voter knows what to add.
	normalized := make([]entities.BallotEntry, 0, len(election.Positions))
	for _, position := range election.Positions {
		entry, covered := byPosition[position.PositionID]
		if !covered {
			if !seen[position.PositionID] {
				violations = append(violations, domainerrors.BallotViolation{
					Code:       domainerrors.ViolationMissingPosition,
					PositionID: position.PositionID,
					Message:    fmt.Sprintf("position %s (%s) has no vote", position.PositionID, position.Name),
				})
			}
			continue
		}
		normalized = append(normalized, entry)
	}

	if len(violations) > 0 {
		return nil, &domainerrors.BallotValidationError{Violations: violations}
	}
	return normalized, nil
}
