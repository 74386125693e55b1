package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "clubsync/contexts/club-governance/election-service/application"
	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"
)

type IssueTokenCommand struct {
	ElectionID string
	VoterID    string
}

type IssueTokenUseCase struct {
	Elections ports.ElectionRepository
	Tokens    ports.TokenRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

// Execute issues at most one token per (election, voter). Re-issuing returns
// the existing token unchanged, used or not, without error.
func (uc IssueTokenUseCase) Execute(ctx context.Context, cmd IssueTokenCommand) (entities.VotingToken, error) {
	logger := application.ResolveLogger(uc.Logger)

	electionID := strings.TrimSpace(cmd.ElectionID)
	voterID := strings.TrimSpace(cmd.VoterID)
	if electionID == "" || voterID == "" {
		return entities.VotingToken{}, domainerrors.ErrInvalidBallotInput
	}

	if _, err := uc.Elections.GetElection(ctx, electionID); err != nil {
		return entities.VotingToken{}, err
	}

	if existing, found, err := uc.Tokens.GetTokenByVoter(ctx, electionID, voterID); err != nil {
		return entities.VotingToken{}, err
	} else if found {
		logger.Info("voting token reissued",
			"event", "voting_token_reissued",
			"module", "club-governance/election-service",
			"layer", "application",
			"election_id", electionID,
		)
		return existing, nil
	}

	now := uc.Clock.Now().UTC()
	tokenID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.VotingToken{}, err
	}
	token := entities.VotingToken{
		TokenID:    tokenID,
		ElectionID: electionID,
		IssuedTo:   voterID,
		Used:       false,
		CreatedAt:  now,
	}
	if err := uc.Tokens.CreateToken(ctx, token); err != nil {
		// Concurrent first issue: the unique (election, voter) index decides
		// the winner and everyone returns the same token.
		if errors.Is(err, domainerrors.ErrConflict) {
			existing, found, lookupErr := uc.Tokens.GetTokenByVoter(ctx, electionID, voterID)
			if lookupErr != nil {
				return entities.VotingToken{}, lookupErr
			}
			if found {
				return existing, nil
			}
		}
		return entities.VotingToken{}, err
	}

	if err := publishEvent(ctx, uc.Publisher, uc.IDGen, "voting.token_issued", "election", electionID, now, map[string]any{
		"election_id": electionID,
	}); err != nil {
		return entities.VotingToken{}, err
	}

	logger.Info("voting token issued",
		"event", "voting_token_issued",
		"module", "club-governance/election-service",
		"layer", "application",
		"election_id", electionID,
	)
	return token, nil
}
