package httpadapter

import (
	"context"
	"log/slog"

	"clubsync/contexts/club-governance/election-service/application/commands"
	"clubsync/contexts/club-governance/election-service/application/queries"
	"clubsync/contexts/club-governance/election-service/domain/entities"
	httptransport "clubsync/contexts/club-governance/election-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	CreateElection commands.CreateElectionUseCase
	UpdateElection commands.UpdateElectionUseCase
	DeleteElection commands.DeleteElectionUseCase
	IssueToken     commands.IssueTokenUseCase
	SubmitBallot   commands.SubmitBallotUseCase
	GetElection    queries.GetElectionUseCase
	ListElections  queries.ListElectionsUseCase
	Tally          queries.TallyUseCase
	Logger         *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.CreateElection.Execute(ctx, commands.CreateElectionCommand{
		ClubID:      req.ClubID,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Year:        req.Year,
		VotingStart: req.VotingStart,
		VotingEnd:   req.VotingEnd,
		Positions:   mapPositionInputs(req.Positions),
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) UpdateElectionHandler(
	ctx context.Context,
	electionID string,
	req httptransport.UpdateElectionRequest,
) (httptransport.ElectionResponse, error) {
	cmd := commands.UpdateElectionCommand{
		ElectionID:  electionID,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Year:        req.Year,
		VotingStart: req.VotingStart,
		VotingEnd:   req.VotingEnd,
	}
	if req.Positions != nil {
		cmd.Positions = mapPositionInputs(req.Positions)
	}
	election, err := h.UpdateElection.Execute(ctx, cmd)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) DeleteElectionHandler(ctx context.Context, electionID string) error {
	return h.DeleteElection.Execute(ctx, commands.DeleteElectionCommand{ElectionID: electionID})
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	election, err := h.GetElection.Execute(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) ListElectionsHandler(
	ctx context.Context,
	clubID string,
	page int,
	limit int,
) (httptransport.ListElectionsResponse, error) {
	result, err := h.ListElections.Execute(ctx, queries.ListElectionsQuery{
		ClubID: clubID,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(result.Elections))
	for _, election := range result.Elections {
		items = append(items, mapElection(election))
	}
	return httptransport.ListElectionsResponse{
		Elections: items,
		Pagination: httptransport.PaginationResponse{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
	}, nil
}

func (h Handler) IssueTokenHandler(
	ctx context.Context,
	voterID string,
	req httptransport.IssueTokenRequest,
) (httptransport.IssueTokenResponse, error) {
	token, err := h.IssueToken.Execute(ctx, commands.IssueTokenCommand{
		ElectionID: req.ElectionID,
		VoterID:    voterID,
	})
	if err != nil {
		return httptransport.IssueTokenResponse{}, err
	}
	return httptransport.IssueTokenResponse{Token: token.TokenID}, nil
}

func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	req httptransport.SubmitVoteRequest,
) (httptransport.SubmitVoteResponse, error) {
	entries := make([]entities.BallotEntry, 0, len(req.Votes))
	for _, vote := range req.Votes {
		entries = append(entries, entities.BallotEntry{
			PositionID:  vote.PositionID,
			CandidateID: vote.CandidateID,
		})
	}
	result, err := h.SubmitBallot.Execute(ctx, commands.SubmitBallotCommand{
		TokenID: req.VotingToken,
		Entries: entries,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	return httptransport.SubmitVoteResponse{
		ElectionID: result.ElectionID,
		VotesCount: result.VotesCount,
	}, nil
}

func (h Handler) TallyHandler(ctx context.Context, electionID string) (httptransport.TallyResponse, error) {
	tally, err := h.Tally.Execute(ctx, electionID)
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	positions := make([]httptransport.PositionTallyResponse, 0, len(tally.Positions))
	for _, position := range tally.Positions {
		candidates := make([]httptransport.CandidateTallyResponse, 0, len(position.Candidates))
		for _, candidate := range position.Candidates {
			candidates = append(candidates, httptransport.CandidateTallyResponse{
				CandidateID:   candidate.CandidateID,
				CandidateName: candidate.CandidateName,
				Votes:         candidate.Votes,
				Rank:          candidate.Rank,
			})
		}
		positions = append(positions, httptransport.PositionTallyResponse{
			PositionID:   position.PositionID,
			PositionName: position.PositionName,
			TotalVotes:   position.TotalVotes,
			Candidates:   candidates,
		})
	}
	return httptransport.TallyResponse{
		ElectionID:  tally.ElectionID,
		BallotsCast: tally.BallotsCast,
		TalliedAt:   tally.TalliedAt,
		Positions:   positions,
	}, nil
}

func mapPositionInputs(positions []httptransport.PositionRequest) []commands.PositionInput {
	inputs := make([]commands.PositionInput, 0, len(positions))
	for _, position := range positions {
		input := commands.PositionInput{
			Name:        position.Name,
			Description: position.Description,
		}
		for _, candidate := range position.Candidates {
			input.Candidates = append(input.Candidates, commands.CandidateInput{
				Name:       candidate.Name,
				ImageURL:   candidate.ImageURL,
				Vision:     candidate.Vision,
				Experience: candidate.Experience,
			})
		}
		inputs = append(inputs, input)
	}
	return inputs
}

func mapElection(election entities.Election) httptransport.ElectionResponse {
	positions := make([]httptransport.PositionResponse, 0, len(election.Positions))
	for _, position := range election.Positions {
		candidates := make([]httptransport.CandidateResponse, 0, len(position.Candidates))
		for _, candidate := range position.Candidates {
			candidates = append(candidates, httptransport.CandidateResponse{
				CandidateID: candidate.CandidateID,
				PositionID:  candidate.PositionID,
				Name:        candidate.Name,
				ImageURL:    candidate.ImageURL,
				Vision:      candidate.Vision,
				Experience:  candidate.Experience,
			})
		}
		positions = append(positions, httptransport.PositionResponse{
			PositionID:  position.PositionID,
			ElectionID:  position.ElectionID,
			Name:        position.Name,
			Description: position.Description,
			Candidates:  candidates,
		})
	}
	return httptransport.ElectionResponse{
		ElectionID:  election.ElectionID,
		ClubID:      election.ClubID,
		Title:       election.Title,
		Subtitle:    election.Subtitle,
		Description: election.Description,
		Year:        election.Year,
		VotingStart: election.VotingStart,
		VotingEnd:   election.VotingEnd,
		Positions:   positions,
		CreatedAt:   election.CreatedAt,
		UpdatedAt:   election.UpdatedAt,
	}
}
