package queries

import (
	"context"
	"strings"

	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"
)

type GetElectionUseCase struct {
	Elections ports.ElectionRepository
}

func (uc GetElectionUseCase) Execute(ctx context.Context, electionID string) (entities.Election, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}
	return uc.Elections.GetElection(ctx, electionID)
}
