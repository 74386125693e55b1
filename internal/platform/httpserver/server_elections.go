package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	electionhttp "clubsync/contexts/club-governance/election-service/transport/http"
	"clubsync/contexts/identity-access/auth-service/domain/entities"
)

// handleCreateElection creates an election with nested positions/candidates.
//
//	@Summary  Create election
//	@Tags     elections
//	@Accept   json
//	@Produce  json
//	@Success  201 {object} http.ElectionResponse
//	@Router   /api/v1/elections [post]
func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, ok := s.requirePrincipal(ctx, w, r, entities.RoleOfficer); !ok {
		return
	}

	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.elections.Handler.CreateElectionHandler(ctx, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleListElections lists elections newest first with pagination.
//
//	@Summary  List elections
//	@Tags     elections
//	@Produce  json
//	@Success  200 {object} http.ListElectionsResponse
//	@Router   /api/v1/elections [get]
func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, ok := s.requirePrincipal(ctx, w, r, entities.RoleMember); !ok {
		return
	}

	query := r.URL.Query()
	page := 0
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeElectionError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		page = parsed
	}
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeElectionError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.elections.Handler.ListElectionsHandler(ctx, query.Get("club_id"), page, limit)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, ok := s.requirePrincipal(ctx, w, r, entities.RoleMember); !ok {
		return
	}

	resp, err := s.elections.Handler.GetElectionHandler(ctx, r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdateElection applies a partial patch; dates and nested structure
// are frozen once voting has started.
func (s *Server) handleUpdateElection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, ok := s.requirePrincipal(ctx, w, r, entities.RoleOfficer); !ok {
		return
	}

	var req electionhttp.UpdateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.elections.Handler.UpdateElectionHandler(ctx, r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteElection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, ok := s.requirePrincipal(ctx, w, r, entities.RoleOfficer); !ok {
		return
	}

	if err := s.elections.Handler.DeleteElectionHandler(ctx, r.PathValue("election_id")); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleElectionResults returns the live ranked tally.
//
//	@Summary  Election results
//	@Tags     elections
//	@Produce  json
//	@Success  200 {object} http.TallyResponse
//	@Router   /api/v1/elections/{election_id}/results [get]
func (s *Server) handleElectionResults(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, ok := s.requirePrincipal(ctx, w, r, entities.RoleOfficer); !ok {
		return
	}

	resp, err := s.elections.Handler.TallyHandler(ctx, r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
