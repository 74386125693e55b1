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

// CandidateInput is one nominee in a create/update payload.
type CandidateInput struct {
	Name       string
	ImageURL   string
	Vision     string
	Experience string
}

// PositionInput is one contested role plus its nominees.
type PositionInput struct {
	Name        string
	Description string
	Candidates  []CandidateInput
}

type CreateElectionCommand struct {
	ClubID      string
	Title       string
	Subtitle    string
	Description string
	Year        int
	VotingStart time.Time
	VotingEnd   time.Time
	Positions   []PositionInput
}

type CreateElectionUseCase struct {
	Elections ports.ElectionRepository
	Clubs     ports.ClubDirectory
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

// Execute validates the window and club, then persists the election with its
// nested positions and candidates as one atomic unit.
func (uc CreateElectionUseCase) Execute(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)

	clubID := strings.TrimSpace(cmd.ClubID)
	title := strings.TrimSpace(cmd.Title)
	if clubID == "" || title == "" {
		logger.Warn("election create validation failed",
			"event", "election_create_validation_failed",
			"module", "club-governance/election-service",
			"layer", "application",
			"club_id", clubID,
		)
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}
	if !cmd.VotingStart.Before(cmd.VotingEnd) {
		return entities.Election{}, domainerrors.ErrInvalidVotingWindow
	}
	for _, position := range cmd.Positions {
		if strings.TrimSpace(position.Name) == "" {
			return entities.Election{}, domainerrors.ErrInvalidElectionInput
		}
		for _, candidate := range position.Candidates {
			if strings.TrimSpace(candidate.Name) == "" {
				return entities.Election{}, domainerrors.ErrInvalidElectionInput
			}
		}
	}

	club, err := uc.Clubs.GetClub(ctx, clubID)
	if err != nil {
		return entities.Election{}, err
	}
	if !club.Active() {
		logger.Warn("election create rejected for inactive club",
			"event", "election_create_club_inactive",
			"module", "club-governance/election-service",
			"layer", "application",
			"club_id", clubID,
		)
		return entities.Election{}, domainerrors.ErrClubInactive
	}

	now := uc.Clock.Now().UTC()
	election, err := uc.buildElection(ctx, cmd, clubID, title, now)
	if err != nil {
		return entities.Election{}, err
	}

	if err := uc.Elections.CreateElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if err := publishElectionEvent(ctx, uc.Publisher, uc.IDGen, "election.created", election, now); err != nil {
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "club-governance/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"club_id", election.ClubID,
		"positions", len(election.Positions),
	)
	return election, nil
}

func (uc CreateElectionUseCase) buildElection(
	ctx context.Context,
	cmd CreateElectionCommand,
	clubID string,
	title string,
	now time.Time,
) (entities.Election, error) {
	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	election := entities.Election{
		ElectionID:  electionID,
		ClubID:      clubID,
		Title:       title,
		Subtitle:    strings.TrimSpace(cmd.Subtitle),
		Description: strings.TrimSpace(cmd.Description),
		Year:        cmd.Year,
		VotingStart: cmd.VotingStart.UTC(),
		VotingEnd:   cmd.VotingEnd.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	positions, err := buildPositions(ctx, uc.IDGen, electionID, cmd.Positions, now)
	if err != nil {
		return entities.Election{}, err
	}
	election.Positions = positions
	return election, nil
}

// buildPositions materializes position/candidate inputs with fresh ids.
// Creation order is preserved; the tally engine relies on it for stable ties.
func buildPositions(
	ctx context.Context,
	idGen ports.IDGenerator,
	electionID string,
	inputs []PositionInput,
	now time.Time,
) ([]entities.Position, error) {
	positions := make([]entities.Position, 0, len(inputs))
	for _, input := range inputs {
		positionID, err := idGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		position := entities.Position{
			PositionID:  positionID,
			ElectionID:  electionID,
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			CreatedAt:   now,
		}
		for _, candidateInput := range input.Candidates {
			candidateID, err := idGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			position.Candidates = append(position.Candidates, entities.Candidate{
				CandidateID: candidateID,
				PositionID:  positionID,
				Name:        strings.TrimSpace(candidateInput.Name),
				ImageURL:    strings.TrimSpace(candidateInput.ImageURL),
				Vision:      strings.TrimSpace(candidateInput.Vision),
				Experience:  strings.TrimSpace(candidateInput.Experience),
				CreatedAt:   now,
			})
		}
		positions = append(positions, position)
	}
	return positions, nil
}
