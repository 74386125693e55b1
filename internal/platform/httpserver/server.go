package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	electionservice "clubsync/contexts/club-governance/election-service"
	electionerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	electionhttp "clubsync/contexts/club-governance/election-service/transport/http"
	authservice "clubsync/contexts/identity-access/auth-service"
	"clubsync/contexts/identity-access/auth-service/application"
	autherrors "clubsync/contexts/identity-access/auth-service/domain/errors"
	"clubsync/contexts/identity-access/auth-service/domain/entities"
	_ "clubsync/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux            *http.ServeMux
	logger         *slog.Logger
	addr           string
	elections      electionservice.Module
	auth           authservice.Module
	sessionCookie  string
	requestTimeout time.Duration
}

type Options struct {
	Addr           string
	SessionCookie  string
	RequestTimeout time.Duration
}

func New(
	elections electionservice.Module,
	auth authservice.Module,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = "clubsync_session"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	s := &Server{
		mux:            http.NewServeMux(),
		logger:         logger,
		addr:           opts.Addr,
		elections:      elections,
		auth:           auth,
		sessionCookie:  opts.SessionCookie,
		requestTimeout: opts.RequestTimeout,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("PUT /api/v1/elections/{election_id}", s.handleUpdateElection)
	s.mux.HandleFunc("DELETE /api/v1/elections/{election_id}", s.handleDeleteElection)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/results", s.handleElectionResults)

	s.mux.HandleFunc("POST /api/v1/voting/issue-token", s.handleIssueToken)
	s.mux.HandleFunc("POST /api/v1/voting/submit-vote", s.handleSubmitVote)
}

// requestContext bounds every handler by the configured request timeout so a
// stuck database call surfaces as a timeout instead of hanging the client.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

// principal authenticates the request from either credential source: an
// Authorization bearer token, the session cookie, or the X-Session-Id header.
func (s *Server) principal(ctx context.Context, r *http.Request) (entities.Principal, error) {
	creds := application.Credentials{}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			creds.BearerToken = token
		}
	}
	if creds.BearerToken == "" {
		if cookie, err := r.Cookie(s.sessionCookie); err == nil {
			creds.SessionID = cookie.Value
		}
		if creds.SessionID == "" {
			creds.SessionID = strings.TrimSpace(r.Header.Get("X-Session-Id"))
		}
	}
	return s.auth.Service.Authenticate(ctx, creds)
}

// requirePrincipal resolves and authorizes the caller; on failure it writes
// the error response and returns ok=false.
func (s *Server) requirePrincipal(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	required entities.Role,
) (entities.Principal, bool) {
	principal, err := s.principal(ctx, r)
	if err != nil {
		writeAuthDomainError(w, err)
		return entities.Principal{}, false
	}
	if err := s.auth.Service.RequireRole(principal, required); err != nil {
		writeAuthDomainError(w, err)
		return entities.Principal{}, false
	}
	return principal, true
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	if validation, ok := electionerrors.AsBallotValidation(err); ok {
		violations := make([]electionhttp.BallotViolation, 0, len(validation.Violations))
		for _, violation := range validation.Violations {
			violations = append(violations, electionhttp.BallotViolation{
				Code:        violation.Code,
				PositionID:  violation.PositionID,
				CandidateID: violation.CandidateID,
				Message:     violation.Message,
			})
		}
		writeJSON(w, http.StatusBadRequest, electionhttp.ErrorResponse{
			Code:       "invalid_ballot",
			Message:    "ballot failed structural validation",
			Violations: violations,
		})
		return
	}

	switch {
	case errors.Is(err, electionerrors.ErrInvalidElectionInput),
		errors.Is(err, electionerrors.ErrInvalidBallotInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidVotingWindow),
		errors.Is(err, electionerrors.ErrElectionStarted):
		writeElectionError(w, http.StatusBadRequest, "invalid_state_change", err.Error())
	case errors.Is(err, electionerrors.ErrElectionActive):
		writeElectionError(w, http.StatusBadRequest, "election_active", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidToken):
		writeElectionError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, electionerrors.ErrTokenAlreadyUsed):
		writeElectionError(w, http.StatusForbidden, "token_used", err.Error())
	case errors.Is(err, electionerrors.ErrVotingNotOpen):
		writeElectionError(w, http.StatusForbidden, "voting_not_open", err.Error())
	case errors.Is(err, electionerrors.ErrVotingClosed):
		writeElectionError(w, http.StatusForbidden, "voting_closed", err.Error())
	case errors.Is(err, electionerrors.ErrClubInactive):
		writeElectionError(w, http.StatusForbidden, "club_inactive", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotFound),
		errors.Is(err, electionerrors.ErrClubNotFound):
		writeElectionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, electionerrors.ErrConflict):
		writeElectionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeElectionError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuthDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, autherrors.ErrForbidden):
		writeElectionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, autherrors.ErrUnauthenticated),
		errors.Is(err, autherrors.ErrInvalidBearer),
		errors.Is(err, autherrors.ErrSessionExpired):
		writeElectionError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeElectionError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
