package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "clubsync/contexts/club-governance/election-service/application"
	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"
)

// UpdateElectionCommand is a partial patch. Nil fields are untouched; a
// non-nil Positions slice replaces the nested structure wholesale
// (delete-then-recreate, not merge).
type UpdateElectionCommand struct {
	ElectionID  string
	Title       *string
	Subtitle    *string
	Description *string
	Year        *int
	VotingStart *time.Time
	VotingEnd   *time.Time
	Positions   []PositionInput
}

func (cmd UpdateElectionCommand) touchesSchedule() bool {
	return cmd.VotingStart != nil || cmd.VotingEnd != nil || cmd.Positions != nil
}

type UpdateElectionUseCase struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

// Execute applies the patch atomically. Once voting has started the election
// is immutable for dates and nested positions/candidates.
func (uc UpdateElectionUseCase) Execute(ctx context.Context, cmd UpdateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)

	electionID := strings.TrimSpace(cmd.ElectionID)
	if electionID == "" {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}

	now := uc.Clock.Now().UTC()
	if election.Started(now) && cmd.touchesSchedule() {
		logger.Warn("election update rejected after voting start",
			"event", "election_update_immutable",
			"module", "club-governance/election-service",
			"layer", "application",
			"election_id", electionID,
		)
		return entities.Election{}, domainerrors.ErrElectionStarted
	}

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return entities.Election{}, domainerrors.ErrInvalidElectionInput
		}
		election.Title = title
	}
	if cmd.Subtitle != nil {
		election.Subtitle = strings.TrimSpace(*cmd.Subtitle)
	}
	if cmd.Description != nil {
		election.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Year != nil {
		election.Year = *cmd.Year
	}
	if cmd.VotingStart != nil {
		election.VotingStart = cmd.VotingStart.UTC()
	}
	if cmd.VotingEnd != nil {
		election.VotingEnd = cmd.VotingEnd.UTC()
	}
	if !election.VotingStart.Before(election.VotingEnd) {
		return entities.Election{}, domainerrors.ErrInvalidVotingWindow
	}

	replacePositions := cmd.Positions != nil
	if replacePositions {
		for _, position := range cmd.Positions {
			if strings.TrimSpace(position.Name) == "" {
				return entities.Election{}, domainerrors.ErrInvalidElectionInput
			}
		}
		positions, err := buildPositions(ctx, uc.IDGen, electionID, cmd.Positions, now)
		if err != nil {
			return entities.Election{}, err
		}
		election.Positions = positions
	}
	election.UpdatedAt = now

	if err := uc.Elections.UpdateElection(ctx, election, replacePositions); err != nil {
		return entities.Election{}, err
	}
	if err := publishElectionEvent(ctx, uc.Publisher, uc.IDGen, "election.updated", election, now); err != nil {
		return entities.Election{}, err
	}

	logger.Info("election updated",
		"event", "election_updated",
		"module", "club-governance/election-service",
		"layer", "application",
		"election_id", electionID,
		"positions_replaced", replacePositions,
	)
	return election, nil
}
