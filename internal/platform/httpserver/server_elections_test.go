package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	electionservice "clubsync/contexts/club-governance/election-service"
	electionports "clubsync/contexts/club-governance/election-service/ports"
	electionhttp "clubsync/contexts/club-governance/election-service/transport/http"
	authservice "clubsync/contexts/identity-access/auth-service"
	authentities "clubsync/contexts/identity-access/auth-service/domain/entities"
	authports "clubsync/contexts/identity-access/auth-service/ports"
)

func newTestServer() (*Server, electionservice.Module) {
	elections := electionservice.NewInMemoryModule(slog.Default())
	elections.Store.SetClub(electionports.ClubProjection{
		ClubID: "club-1",
		Name:   "Chess Club",
		Status: "active",
	})

	auth := authservice.NewInMemoryModule([]byte("test-secret"), slog.Default())
	auth.Store.SetSession(authports.Session{
		SessionID: "sess-member",
		UserID:    "user-member",
		ClubID:    "club-1",
		Role:      authentities.RoleMember,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	auth.Store.SetSession(authports.Session{
		SessionID: "sess-officer",
		UserID:    "user-officer",
		ClubID:    "club-1",
		Role:      authentities.RoleOfficer,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})

	server := New(elections, auth, slog.Default(), Options{Addr: ":0"})
	return server, elections
}

func doJSON(t *testing.T, server *Server, method, path, sessionID string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func createElectionRequest(start, end time.Time) electionhttp.CreateElectionRequest {
	return electionhttp.CreateElectionRequest{
		ClubID:      "club-1",
		Title:       "Board Election",
		Year:        2026,
		VotingStart: start,
		VotingEnd:   end,
		Positions: []electionhttp.PositionRequest{
			{Name: "President", Candidates: []electionhttp.CandidateRequest{{Name: "Alice"}, {Name: "Bob"}}},
			{Name: "Treasurer", Candidates: []electionhttp.CandidateRequest{{Name: "Carol"}, {Name: "Dan"}}},
		},
	}
}

func createElectionViaHTTP(t *testing.T, server *Server, start, end time.Time) electionhttp.ElectionResponse {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/api/v1/elections", "sess-officer", createElectionRequest(start, end))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created electionhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response failed: %v", err)
	}
	return created
}

func TestElectionEndpointsRequireSession(t *testing.T) {
	server, _ := newTestServer()
	now := time.Now().UTC()
	rr := doJSON(t, server, http.MethodPost, "/api/v1/elections", "", createElectionRequest(now.Add(time.Hour), now.Add(2*time.Hour)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestElectionCreateRequiresOfficerRole(t *testing.T) {
	server, _ := newTestServer()
	now := time.Now().UTC()
	rr := doJSON(t, server, http.MethodPost, "/api/v1/elections", "sess-member", createElectionRequest(now.Add(time.Hour), now.Add(2*time.Hour)))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestElectionCrudFlow(t *testing.T) {
	server, _ := newTestServer()
	now := time.Now().UTC()
	created := createElectionViaHTTP(t, server, now.Add(time.Hour), now.Add(2*time.Hour))
	if len(created.Positions) != 2 || len(created.Positions[0].Candidates) != 2 {
		t.Fatalf("unexpected created shape: %+v", created)
	}

	listRR := doJSON(t, server, http.MethodGet, "/api/v1/elections?club_id=club-1", "sess-member", nil)
	if listRR.Code != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", listRR.Code, listRR.Body.String())
	}
	var list electionhttp.ListElectionsResponse
	if err := json.Unmarshal(listRR.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	if list.Pagination.Total != 1 || len(list.Elections) != 1 {
		t.Fatalf("expected one election listed, got %+v", list)
	}

	getRR := doJSON(t, server, http.MethodGet, "/api/v1/elections/"+created.ElectionID, "sess-member", nil)
	if getRR.Code != http.StatusOK {
		t.Fatalf("expected 200 get, got %d body=%s", getRR.Code, getRR.Body.String())
	}

	title := "Board Election (amended)"
	updateRR := doJSON(t, server, http.MethodPut, "/api/v1/elections/"+created.ElectionID, "sess-officer", electionhttp.UpdateElectionRequest{Title: &title})
	if updateRR.Code != http.StatusOK {
		t.Fatalf("expected 200 update, got %d body=%s", updateRR.Code, updateRR.Body.String())
	}
	var updated electionhttp.ElectionResponse
	if err := json.Unmarshal(updateRR.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update failed: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected patched title, got %s", updated.Title)
	}

	deleteRR := doJSON(t, server, http.MethodDelete, "/api/v1/elections/"+created.ElectionID, "sess-officer", nil)
	if deleteRR.Code != http.StatusOK {
		t.Fatalf("expected 200 delete, got %d body=%s", deleteRR.Code, deleteRR.Body.String())
	}
	missingRR := doJSON(t, server, http.MethodGet, "/api/v1/elections/"+created.ElectionID, "sess-member", nil)
	if missingRR.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d body=%s", missingRR.Code, missingRR.Body.String())
	}
}

func TestElectionDeleteRejectedWhileVotingOpen(t *testing.T) {
	server, _ := newTestServer()
	now := time.Now().UTC()
	created := createElectionViaHTTP(t, server, now.Add(-time.Hour), now.Add(time.Hour))

	rr := doJSON(t, server, http.MethodDelete, "/api/v1/elections/"+created.ElectionID, "sess-officer", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 while voting open, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp electionhttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}
	if resp.Code != "election_active" {
		t.Fatalf("expected election_active code, got %s", resp.Code)
	}
}

func TestElectionListRejectsBadPaging(t *testing.T) {
	server, _ := newTestServer()
	rr := doJSON(t, server, http.MethodGet, "/api/v1/elections?page=abc", "sess-member", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid page, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestElectionResultsRequireOfficer(t *testing.T) {
	server, _ := newTestServer()
	now := time.Now().UTC()
	created := createElectionViaHTTP(t, server, now.Add(-time.Hour), now.Add(time.Hour))

	rr := doJSON(t, server, http.MethodGet, "/api/v1/elections/"+created.ElectionID+"/results", "sess-member", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d body=%s", rr.Code, rr.Body.String())
	}
	officerRR := doJSON(t, server, http.MethodGet, "/api/v1/elections/"+created.ElectionID+"/results", "sess-officer", nil)
	if officerRR.Code != http.StatusOK {
		t.Fatalf("expected 200 for officer, got %d body=%s", officerRR.Code, officerRR.Body.String())
	}
}
