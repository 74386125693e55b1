package queries

import (
	"context"
	"sort"
	"strings"

	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"
)

type TallyUseCase struct {
	Elections ports.ElectionRepository
	Tokens    ports.TokenRepository
	Ballots   ports.BallotRepository
	Clock     ports.Clock
}

// Execute aggregates recorded votes per candidate per position and ranks them
// descending by count. Tied candidates share a rank and keep candidate
// creation order; no secondary tiebreak is applied. The result is a live
// count and never mutates state.
func (uc TallyUseCase) Execute(ctx context.Context, electionID string) (entities.ElectionTally, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return entities.ElectionTally{}, domainerrors.ErrInvalidElectionInput
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.ElectionTally{}, err
	}
	votes, err := uc.Ballots.ListVotesByElection(ctx, electionID)
	if err != nil {
		return entities.ElectionTally{}, err
	}
	ballotsCast, err := uc.Tokens.CountUsedTokens(ctx, electionID)
	if err != nil {
		return entities.ElectionTally{}, err
	}

	counts := make(map[string]int, len(votes))
	for _, vote := range votes {
		counts[vote.PositionID+"/"+vote.CandidateID]++
	}

	tally := entities.ElectionTally{
		ElectionID:  electionID,
		Positions:   make([]entities.PositionTally, 0, len(election.Positions)),
		BallotsCast: ballotsCast,
		TalliedAt:   uc.Clock.Now().UTC(),
	}
	for _, position := range election.Positions {
		tally.Positions = append(tally.Positions, tallyPosition(position, counts))
	}
	return tally, nil
}

func tallyPosition(position entities.Position, counts map[string]int) entities.PositionTally {
	result := entities.PositionTally{
		PositionID:   position.PositionID,
		PositionName: position.Name,
		Candidates:   make([]entities.CandidateTally, 0, len(position.Candidates)),
	}
	for _, candidate := range position.Candidates {
		votes := counts[position.PositionID+"/"+candidate.CandidateID]
		result.Candidates = append(result.Candidates, entities.CandidateTally{
			CandidateID:   candidate.CandidateID,
			CandidateName: candidate.Name,
			Votes:         votes,
		})
		result.TotalVotes += votes
	}

	// Stable sort keeps candidate creation order inside a tie.
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].Votes > result.Candidates[j].Votes
	})
	// Competition ranking: tied candidates share a rank number.
	for i := range result.Candidates {
		if i > 0 && result.Candidates[i].Votes == result.Candidates[i-1].Votes {
			result.Candidates[i].Rank = result.Candidates[i-1].Rank
			continue
		}
		result.Candidates[i].Rank = i + 1
	}
	return result
}
