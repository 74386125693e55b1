package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory implementation of every election-service port. The
// single mutex gives the same serialization the postgres adapter gets from
// row locking, so redeem races behave identically in tests.
type Store struct {
	mu sync.Mutex

	elections map[string]entities.Election
	tokens    map[string]entities.VotingToken
	votes     []entities.Vote
	clubs     map[string]ports.ClubProjection

	now       *time.Time
	published []ports.EventEnvelope
}

func NewStore() *Store {
	return &Store{
		elections: make(map[string]entities.Election),
		tokens:    make(map[string]entities.VotingToken),
		clubs:     make(map[string]ports.ClubProjection),
	}
}

// SetClub seeds the club directory projection.
func (s *Store) SetClub(club ports.ClubProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clubs[club.ClubID] = club
}

// SetNow pins the clock for deterministic window tests. Zero time unpins.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.IsZero() {
		s.now = nil
		return
	}
	pinned := now.UTC()
	s.now = &pinned
}

// Published returns a copy of every event the store observed.
func (s *Store) Published() []ports.EventEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.EventEnvelope(nil), s.published...)
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now != nil {
		return *s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, event)
	return nil
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.elections[election.ElectionID]; exists {
		return domainerrors.ErrConflict
	}
	s.elections[election.ElectionID] = cloneElection(election)
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, found := s.elections[strings.TrimSpace(electionID)]
	if !found {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return cloneElection(election), nil
}

func (s *Store) UpdateElection(_ context.Context, election entities.Election, replacePositions bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, found := s.elections[election.ElectionID]
	if !found {
		return domainerrors.ErrElectionNotFound
	}
	next := cloneElection(election)
	if !replacePositions {
		next.Positions = current.Positions
	}
	s.elections[election.ElectionID] = next
	return nil
}

func (s *Store) DeleteElection(_ context.Context, electionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	electionID = strings.TrimSpace(electionID)
	if _, found := s.elections[electionID]; !found {
		return domainerrors.ErrElectionNotFound
	}
	delete(s.elections, electionID)
	for tokenID, token := range s.tokens {
		if token.ElectionID == electionID {
			delete(s.tokens, tokenID)
		}
	}
	remaining := s.votes[:0]
	for _, vote := range s.votes {
		if vote.ElectionID != electionID {
			remaining = append(remaining, vote)
		}
	}
	s.votes = remaining
	return nil
}

func (s *Store) ListElections(_ context.Context, filter ports.ElectionFilter) ([]entities.Election, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		if filter.ClubID != "" && election.ClubID != filter.ClubID {
			continue
		}
		matched = append(matched, cloneElection(election))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ElectionID > matched[j].ElectionID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *Store) GetToken(_ context.Context, tokenID string) (entities.VotingToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, found := s.tokens[strings.TrimSpace(tokenID)]
	if !found {
		return entities.VotingToken{}, domainerrors.ErrInvalidToken
	}
	return token, nil
}

func (s *Store) GetTokenByVoter(_ context.Context, electionID string, voterID string) (entities.VotingToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range s.tokens {
		if token.ElectionID == strings.TrimSpace(electionID) && token.IssuedTo == strings.TrimSpace(voterID) {
			return token, true, nil
		}
	}
	return entities.VotingToken{}, false, nil
}

func (s *Store) CreateToken(_ context.Context, token entities.VotingToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tokens {
		if existing.ElectionID == token.ElectionID && existing.IssuedTo == token.IssuedTo {
			return domainerrors.ErrConflict
		}
	}
	s.tokens[token.TokenID] = token
	return nil
}

func (s *Store) CountUsedTokens(_ context.Context, electionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, token := range s.tokens {
		if token.ElectionID == strings.TrimSpace(electionID) && token.Used {
			count++
		}
	}
	return count, nil
}

func (s *Store) RedeemBallot(_ context.Context, tokenID string, votes []entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, found := s.tokens[strings.TrimSpace(tokenID)]
	if !found {
		return domainerrors.ErrInvalidToken
	}
	if token.Used {
		return domainerrors.ErrTokenAlreadyUsed
	}
	s.votes = append(s.votes, votes...)
	token.Used = true
	s.tokens[token.TokenID] = token
	return nil
}

func (s *Store) ListVotesByElection(_ context.Context, electionID string) ([]entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Vote, 0, len(s.votes))
	for _, vote := range s.votes {
		if vote.ElectionID == strings.TrimSpace(electionID) {
			items = append(items, vote)
		}
	}
	return items, nil
}

func (s *Store) GetClub(_ context.Context, clubID string) (ports.ClubProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	club, found := s.clubs[strings.TrimSpace(clubID)]
	if !found {
		return ports.ClubProjection{}, domainerrors.ErrClubNotFound
	}
	return club, nil
}

func cloneElection(election entities.Election) entities.Election {
	clone := election
	clone.Positions = make([]entities.Position, len(election.Positions))
	for i, position := range election.Positions {
		positionClone := position
		positionClone.Candidates = append([]entities.Candidate(nil), position.Candidates...)
		clone.Positions[i] = positionClone
	}
	return clone
}
