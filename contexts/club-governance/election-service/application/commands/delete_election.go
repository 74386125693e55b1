package commands

import (
	"context"
	"log/slog"
	"strings"

	application "clubsync/contexts/club-governance/election-service/application"
	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"
)

type DeleteElectionCommand struct {
	ElectionID string
}

type DeleteElectionUseCase struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

// Execute removes the election and everything it owns. Deletion is refused
// while the voting window is open; the repository cascades votes, tokens,
// candidates, and positions in dependency order within one transaction.
func (uc DeleteElectionUseCase) Execute(ctx context.Context, cmd DeleteElectionCommand) error {
	logger := application.ResolveLogger(uc.Logger)

	electionID := strings.TrimSpace(cmd.ElectionID)
	if electionID == "" {
		return domainerrors.ErrInvalidElectionInput
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	if election.WindowAt(now) == entities.WindowOpen {
		logger.Warn("election delete rejected while voting active",
			"event", "election_delete_active",
			"module", "club-governance/election-service",
			"layer", "application",
			"election_id", electionID,
		)
		return domainerrors.ErrElectionActive
	}

	if err := uc.Elections.DeleteElection(ctx, electionID); err != nil {
		return err
	}
	if err := publishElectionEvent(ctx, uc.Publisher, uc.IDGen, "election.deleted", election, now); err != nil {
		return err
	}

	logger.Info("election deleted",
		"event", "election_deleted",
		"module", "club-governance/election-service",
		"layer", "application",
		"election_id", electionID,
		"club_id", election.ClubID,
	)
	return nil
}
