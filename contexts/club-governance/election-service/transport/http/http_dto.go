package http

import "time"

type ErrorResponse struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Violations []BallotViolation `json:"violations,omitempty"`
}

// BallotViolation is one structural problem in a rejected ballot. The full
// list is returned so the voter can fix everything in one pass.
type BallotViolation struct {
	Code        string `json:"code"`
	PositionID  string `json:"position_id,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
	Message     string `json:"message"`
}

type CandidateRequest struct {
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	Vision     string `json:"vision,omitempty"`
	Experience string `json:"experience,omitempty"`
}

type PositionRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Candidates  []CandidateRequest `json:"candidates,omitempty"`
}

type CreateElectionRequest struct {
	ClubID      string            `json:"club_id"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle,omitempty"`
	Description string            `json:"description,omitempty"`
	Year        int               `json:"year"`
	VotingStart time.Time         `json:"voting_start"`
	VotingEnd   time.Time         `json:"voting_end"`
	Positions   []PositionRequest `json:"positions,omitempty"`
}

// UpdateElectionRequest is a partial patch; omitted fields stay untouched and
// a present positions array replaces the nested structure wholesale.
type UpdateElectionRequest struct {
	Title       *string           `json:"title,omitempty"`
	Subtitle    *string           `json:"subtitle,omitempty"`
	Description *string           `json:"description,omitempty"`
	Year        *int              `json:"year,omitempty"`
	VotingStart *time.Time        `json:"voting_start,omitempty"`
	VotingEnd   *time.Time        `json:"voting_end,omitempty"`
	Positions   []PositionRequest `json:"positions,omitempty"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	PositionID  string `json:"position_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url,omitempty"`
	Vision      string `json:"vision,omitempty"`
	Experience  string `json:"experience,omitempty"`
}

type PositionResponse struct {
	PositionID  string              `json:"position_id"`
	ElectionID  string              `json:"election_id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Candidates  []CandidateResponse `json:"candidates"`
}

type ElectionResponse struct {
	ElectionID  string             `json:"election_id"`
	ClubID      string             `json:"club_id"`
	Title       string             `json:"title"`
	Subtitle    string             `json:"subtitle,omitempty"`
	Description string             `json:"description,omitempty"`
	Year        int                `json:"year"`
	VotingStart time.Time          `json:"voting_start"`
	VotingEnd   time.Time          `json:"voting_end"`
	Positions   []PositionResponse `json:"positions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ListElectionsResponse struct {
	Elections  []ElectionResponse `json:"elections"`
	Pagination PaginationResponse `json:"pagination"`
}

type IssueTokenRequest struct {
	ElectionID string `json:"election_id"`
}

type IssueTokenResponse struct {
	Token string `json:"token"`
}

type BallotEntryRequest struct {
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
}

type SubmitVoteRequest struct {
	VotingToken string               `json:"voting_token"`
	Votes       []BallotEntryRequest `json:"votes"`
}

type SubmitVoteResponse struct {
	ElectionID string `json:"election_id"`
	VotesCount int    `json:"votes_count"`
}

type CandidateTallyResponse struct {
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	Votes         int    `json:"votes"`
	Rank          int    `json:"rank"`
}

type PositionTallyResponse struct {
	PositionID   string                   `json:"position_id"`
	PositionName string                   `json:"position_name"`
	TotalVotes   int                      `json:"total_votes"`
	Candidates   []CandidateTallyResponse `json:"candidates"`
}

type TallyResponse struct {
	ElectionID  string                  `json:"election_id"`
	BallotsCast int                     `json:"ballots_cast"`
	TalliedAt   time.Time               `json:"tallied_at"`
	Positions   []PositionTallyResponse `json:"positions"`
}
