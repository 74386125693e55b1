package electionservice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	electionservice "clubsync/contexts/club-governance/election-service"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"
	httptransport "clubsync/contexts/club-governance/election-service/transport/http"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestModule(t *testing.T) electionservice.Module {
	t.Helper()
	module := electionservice.NewInMemoryModule(nil)
	module.Store.SetClub(ports.ClubProjection{ClubID: "club-1", Name: "Chess Club", Status: "active"})
	module.Store.SetNow(testNow)
	return module
}

// createElection seeds a two position election whose window is placed
// relative to the pinned clock.
func createElection(t *testing.T, module electionservice.Module, start, end time.Time) httptransport.ElectionResponse {
	t.Helper()
	created, err := module.Handler.CreateElectionHandler(context.Background(), httptransport.CreateElectionRequest{
		ClubID:      "club-1",
		Title:       "Board Election",
		Year:        2026,
		VotingStart: start,
		VotingEnd:   end,
		Positions: []httptransport.PositionRequest{
			{Name: "President", Candidates: []httptransport.CandidateRequest{{Name: "Alice"}, {Name: "Bob"}}},
			{Name: "Treasurer", Candidates: []httptransport.CandidateRequest{{Name: "Carol"}, {Name: "Dan"}}},
		},
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	return created
}

func createOpenElection(t *testing.T, module electionservice.Module) httptransport.ElectionResponse {
	t.Helper()
	return createElection(t, module, testNow.Add(-time.Hour), testNow.Add(time.Hour))
}

func issueToken(t *testing.T, module electionservice.Module, electionID, voterID string) string {
	t.Helper()
	resp, err := module.Handler.IssueTokenHandler(context.Background(), voterID, httptransport.IssueTokenRequest{
		ElectionID: electionID,
	})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	return resp.Token
}

func candidateID(t *testing.T, election httptransport.ElectionResponse, positionName, candidateName string) (string, string) {
	t.Helper()
	for _, position := range election.Positions {
		if position.Name != positionName {
			continue
		}
		for _, candidate := range position.Candidates {
			if candidate.Name == candidateName {
				return position.PositionID, candidate.CandidateID
			}
		}
	}
	t.Fatalf("candidate %s for position %s not found", candidateName, positionName)
	return "", ""
}

func fullBallot(t *testing.T, election httptransport.ElectionResponse, president, treasurer string) []httptransport.BallotEntryRequest {
	t.Helper()
	presidentPos, presidentCand := candidateID(t, election, "President", president)
	treasurerPos, treasurerCand := candidateID(t, election, "Treasurer", treasurer)
	return []httptransport.BallotEntryRequest{
		{PositionID: presidentPos, CandidateID: presidentCand},
		{PositionID: treasurerPos, CandidateID: treasurerCand},
	}
}

func castBallot(t *testing.T, module electionservice.Module, election httptransport.ElectionResponse, voterID, president, treasurer string) {
	t.Helper()
	token := issueToken(t, module, election.ElectionID, voterID)
	_, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: token,
		Votes:       fullBallot(t, election, president, treasurer),
	})
	if err != nil {
		t.Fatalf("submit ballot for %s failed: %v", voterID, err)
	}
}

func TestCreateElectionRejectsInvertedWindow(t *testing.T) {
	module := newTestModule(t)
	_, err := module.Handler.CreateElectionHandler(context.Background(), httptransport.CreateElectionRequest{
		ClubID:      "club-1",
		Title:       "Board Election",
		VotingStart: testNow.Add(2 * time.Hour),
		VotingEnd:   testNow.Add(time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrInvalidVotingWindow) {
		t.Fatalf("expected invalid voting window, got %v", err)
	}
}

func TestCreateElectionRequiresActiveClub(t *testing.T) {
	module := newTestModule(t)
	module.Store.SetClub(ports.ClubProjection{ClubID: "club-frozen", Name: "Frozen Club", Status: "suspended"})

	_, err := module.Handler.CreateElectionHandler(context.Background(), httptransport.CreateElectionRequest{
		ClubID:      "club-frozen",
		Title:       "Board Election",
		VotingStart: testNow.Add(time.Hour),
		VotingEnd:   testNow.Add(2 * time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrClubInactive) {
		t.Fatalf("expected club inactive, got %v", err)
	}

	_, err = module.Handler.CreateElectionHandler(context.Background(), httptransport.CreateElectionRequest{
		ClubID:      "club-missing",
		Title:       "Board Election",
		VotingStart: testNow.Add(time.Hour),
		VotingEnd:   testNow.Add(2 * time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrClubNotFound) {
		t.Fatalf("expected club not found, got %v", err)
	}
}

func TestIssueTokenIsIdempotentPerVoter(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)

	first := issueToken(t, module, election.ElectionID, "voter-1")
	second := issueToken(t, module, election.ElectionID, "voter-1")
	if first != second {
		t.Fatalf("expected same token on reissue, got %s and %s", first, second)
	}
	other := issueToken(t, module, election.ElectionID, "voter-2")
	if other == first {
		t.Fatal("expected distinct tokens for distinct voters")
	}
}

func TestSubmitOutsideVotingWindow(t *testing.T) {
	module := newTestModule(t)
	pending := createElection(t, module, testNow.Add(time.Hour), testNow.Add(2*time.Hour))
	token := issueToken(t, module, pending.ElectionID, "voter-1")

	_, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: token,
		Votes:       fullBallot(t, pending, "Alice", "Carol"),
	})
	if !errors.Is(err, domainerrors.ErrVotingNotOpen) {
		t.Fatalf("expected voting not open, got %v", err)
	}

	closed := createElection(t, module, testNow.Add(-2*time.Hour), testNow.Add(-time.Hour))
	closedToken := issueToken(t, module, closed.ElectionID, "voter-1")
	_, err = module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: closedToken,
		Votes:       fullBallot(t, closed, "Alice", "Carol"),
	})
	if !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected voting closed, got %v", err)
	}
}

func TestSubmitCollectsEveryStructuralViolation(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)
	token := issueToken(t, module, election.ElectionID, "voter-1")

	presidentPos, presidentCand := candidateID(t, election, "President", "Alice")
	_, treasurerCand := candidateID(t, election, "Treasurer", "Carol")

	// One ballot with a duplicated position and a candidate running for the
	// wrong position; the treasurer slot ends up uncovered.
	_, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: token,
		Votes: []httptransport.BallotEntryRequest{
			{PositionID: presidentPos, CandidateID: presidentCand},
			{PositionID: presidentPos, CandidateID: treasurerCand},
			{PositionID: "position-bogus", CandidateID: presidentCand},
		},
	})
	validation, ok := domainerrors.AsBallotValidation(err)
	if !ok {
		t.Fatalf("expected ballot validation error, got %v", err)
	}
	codes := make(map[string]int)
	for _, violation := range validation.Violations {
		codes[violation.Code]++
	}
	if codes[domainerrors.ViolationDuplicatePosition] != 1 {
		t.Fatalf("expected one duplicate_position violation, got %v", codes)
	}
	if codes[domainerrors.ViolationUnknownPosition] != 1 {
		t.Fatalf("expected one unknown_position violation, got %v", codes)
	}
	if codes[domainerrors.ViolationMissingPosition] != 1 {
		t.Fatalf("expected one missing_position violation, got %v", codes)
	}

	// A rejected ballot must not burn the token.
	if _, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: token,
		Votes:       fullBallot(t, election, "Alice", "Carol"),
	}); err != nil {
		t.Fatalf("valid ballot after rejection failed: %v", err)
	}
}

func TestSubmitRejectsWrongPositionCandidate(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)
	token := issueToken(t, module, election.ElectionID, "voter-1")

	presidentPos, _ := candidateID(t, election, "President", "Alice")
	treasurerPos, treasurerCand := candidateID(t, election, "Treasurer", "Carol")

	_, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: token,
		Votes: []httptransport.BallotEntryRequest{
			{PositionID: presidentPos, CandidateID: treasurerCand},
			{PositionID: treasurerPos, CandidateID: treasurerCand},
		},
	})
	validation, ok := domainerrors.AsBallotValidation(err)
	if !ok {
		t.Fatalf("expected ballot validation error, got %v", err)
	}
	if len(validation.Violations) != 1 || validation.Violations[0].Code != domainerrors.ViolationUnknownCandidate {
		t.Fatalf("expected single unknown_candidate violation, got %+v", validation.Violations)
	}
}

func TestSubmitUnknownAndReplayedToken(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)

	_, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: "token-bogus",
		Votes:       fullBallot(t, election, "Alice", "Carol"),
	})
	if !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	token := issueToken(t, module, election.ElectionID, "voter-1")
	if _, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: token,
		Votes:       fullBallot(t, election, "Alice", "Carol"),
	}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err = module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
		VotingToken: token,
		Votes:       fullBallot(t, election, "Bob", "Dan"),
	})
	if !errors.Is(err, domainerrors.ErrTokenAlreadyUsed) {
		t.Fatalf("expected token already used, got %v", err)
	}
}

func TestConcurrentSubmitRedeemsTokenOnce(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)
	token := issueToken(t, module, election.ElectionID, "voter-1")
	ballot := fullBallot(t, election, "Alice", "Carol")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := module.Handler.SubmitVoteHandler(context.Background(), httptransport.SubmitVoteRequest{
				VotingToken: token,
				Votes:       ballot,
			})
			results[slot] = err
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, domainerrors.ErrTokenAlreadyUsed) {
			t.Fatalf("loser should see token already used, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful redemption, got %d", succeeded)
	}

	tally, err := module.Handler.TallyHandler(context.Background(), election.ElectionID)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.BallotsCast != 1 {
		t.Fatalf("expected 1 ballot cast, got %d", tally.BallotsCast)
	}
	total := 0
	for _, position := range tally.Positions {
		total += position.TotalVotes
	}
	if total != len(election.Positions) {
		t.Fatalf("expected one vote per position, got %d votes", total)
	}
}

func TestDeleteRefusedWhileVotingOpen(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)

	err := module.Handler.DeleteElectionHandler(context.Background(), election.ElectionID)
	if !errors.Is(err, domainerrors.ErrElectionActive) {
		t.Fatalf("expected election active, got %v", err)
	}

	module.Store.SetNow(testNow.Add(2 * time.Hour))
	if err := module.Handler.DeleteElectionHandler(context.Background(), election.ElectionID); err != nil {
		t.Fatalf("delete after window close failed: %v", err)
	}
	if _, err := module.Handler.GetElectionHandler(context.Background(), election.ElectionID); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election gone, got %v", err)
	}
}

func TestUpdateScheduleFrozenAfterVotingStarts(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)

	newEnd := testNow.Add(3 * time.Hour)
	_, err := module.Handler.UpdateElectionHandler(context.Background(), election.ElectionID, httptransport.UpdateElectionRequest{
		VotingEnd: &newEnd,
	})
	if !errors.Is(err, domainerrors.ErrElectionStarted) {
		t.Fatalf("expected election started, got %v", err)
	}

	// Descriptive fields stay editable after the start.
	title := "Board Election (amended)"
	updated, err := module.Handler.UpdateElectionHandler(context.Background(), election.ElectionID, httptransport.UpdateElectionRequest{
		Title: &title,
	})
	if err != nil {
		t.Fatalf("title patch failed: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected patched title, got %s", updated.Title)
	}
}

func TestUpdateReplacesPositionsBeforeStart(t *testing.T) {
	module := newTestModule(t)
	election := createElection(t, module, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	updated, err := module.Handler.UpdateElectionHandler(context.Background(), election.ElectionID, httptransport.UpdateElectionRequest{
		Positions: []httptransport.PositionRequest{
			{Name: "Secretary", Candidates: []httptransport.CandidateRequest{{Name: "Eve"}}},
		},
	})
	if err != nil {
		t.Fatalf("position replace failed: %v", err)
	}
	if len(updated.Positions) != 1 || updated.Positions[0].Name != "Secretary" {
		t.Fatalf("expected wholesale replacement, got %+v", updated.Positions)
	}
}

func TestTallyRanksCandidatesWithSharedTies(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)

	// President splits 1-1, treasurer goes 2-0.
	castBallot(t, module, election, "voter-1", "Alice", "Carol")
	castBallot(t, module, election, "voter-2", "Bob", "Carol")

	tally, err := module.Handler.TallyHandler(context.Background(), election.ElectionID)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.BallotsCast != 2 {
		t.Fatalf("expected 2 ballots cast, got %d", tally.BallotsCast)
	}

	president := tally.Positions[0]
	if president.PositionName != "President" {
		t.Fatalf("expected president first, got %s", president.PositionName)
	}
	if president.Candidates[0].Rank != 1 || president.Candidates[1].Rank != 1 {
		t.Fatalf("expected shared rank 1 on tie, got %+v", president.Candidates)
	}
	if president.Candidates[0].CandidateName != "Alice" {
		t.Fatalf("expected creation order inside tie, got %s first", president.Candidates[0].CandidateName)
	}

	treasurer := tally.Positions[1]
	if treasurer.Candidates[0].CandidateName != "Carol" || treasurer.Candidates[0].Votes != 2 || treasurer.Candidates[0].Rank != 1 {
		t.Fatalf("expected Carol leading with 2 votes, got %+v", treasurer.Candidates[0])
	}
	if treasurer.Candidates[1].CandidateName != "Dan" || treasurer.Candidates[1].Votes != 0 || treasurer.Candidates[1].Rank != 2 {
		t.Fatalf("expected Dan listed with zero votes at rank 2, got %+v", treasurer.Candidates[1])
	}
}

func TestTallyFollowsNonTrivialRanking(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)

	castBallot(t, module, election, "voter-1", "Alice", "Carol")
	castBallot(t, module, election, "voter-2", "Alice", "Dan")
	castBallot(t, module, election, "voter-3", "Bob", "Carol")

	tally, err := module.Handler.TallyHandler(context.Background(), election.ElectionID)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}

	president := tally.Positions[0]
	if president.TotalVotes != 3 {
		t.Fatalf("expected 3 president votes, got %d", president.TotalVotes)
	}
	if president.Candidates[0].CandidateName != "Alice" || president.Candidates[0].Votes != 2 || president.Candidates[0].Rank != 1 {
		t.Fatalf("unexpected president leader: %+v", president.Candidates[0])
	}
	if president.Candidates[1].CandidateName != "Bob" || president.Candidates[1].Rank != 2 {
		t.Fatalf("unexpected president runner-up: %+v", president.Candidates[1])
	}
}

func TestBallotEventsCarryNoVoterIdentity(t *testing.T) {
	module := newTestModule(t)
	election := createOpenElection(t, module)
	castBallot(t, module, election, "voter-1", "Alice", "Carol")

	var ballotEvents int
	for _, event := range module.Store.Published() {
		if event.EventType != "voting.ballot_cast" {
			continue
		}
		ballotEvents++
		payload, ok := event.Payload.(map[string]any)
		if !ok {
			t.Fatalf("unexpected payload shape %T", event.Payload)
		}
		for key := range payload {
			if key != "election_id" && key != "ballot_size" {
				t.Fatalf("ballot event leaks field %q", key)
			}
		}
	}
	if ballotEvents != 1 {
		t.Fatalf("expected one ballot_cast event, got %d", ballotEvents)
	}
}
