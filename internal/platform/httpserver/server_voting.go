package httpserver

import (
	"encoding/json"
	"net/http"

	electionhttp "clubsync/contexts/club-governance/election-service/transport/http"
	"clubsync/contexts/identity-access/auth-service/domain/entities"
)

// handleIssueToken mints (or re-returns) the caller's single voting token
// for one election.
//
//	@Summary  Issue voting token
//	@Tags     voting
//	@Accept   json
//	@Produce  json
//	@Success  200 {object} http.IssueTokenResponse
//	@Router   /api/v1/voting/issue-token [post]
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	principal, ok := s.requirePrincipal(ctx, w, r, entities.RoleMember)
	if !ok {
		return
	}

	var req electionhttp.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.elections.Handler.IssueTokenHandler(ctx, principal.UserID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSubmitVote redeems a voting token for one complete ballot. The token
// itself is the credential: no principal is resolved, which keeps ballot
// content disconnected from any authenticated identity.
//
//	@Summary  Submit ballot
//	@Tags     voting
//	@Accept   json
//	@Produce  json
//	@Success  200 {object} http.SubmitVoteResponse
//	@Router   /api/v1/voting/submit-vote [post]
func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	var req electionhttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.elections.Handler.SubmitVoteHandler(ctx, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
