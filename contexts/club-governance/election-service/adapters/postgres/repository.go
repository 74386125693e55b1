package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clubsync/contexts/club-governance/election-service/domain/entities"
	domainerrors "clubsync/contexts/club-governance/election-service/domain/errors"
	"clubsync/contexts/club-governance/election-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) error {
	rows := electionRowsFromEntity(election)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows.election).Error; err != nil {
			return err
		}
		if len(rows.positions) > 0 {
			if err := tx.Create(&rows.positions).Error; err != nil {
				return err
			}
		}
		if len(rows.candidates) > 0 {
			if err := tx.Create(&rows.candidates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("election_repo_create_failed", err,
			"election_id", election.ElectionID,
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	electionID = strings.TrimSpace(electionID)

	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", electionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_failed", err, "election_id", electionID)
	}

	positions, err := r.loadPositions(ctx, []string{electionID})
	if err != nil {
		return entities.Election{}, err
	}
	election := row.toEntity()
	election.Positions = positions[electionID]
	return election, nil
}

func (r *Repository) UpdateElection(ctx context.Context, election entities.Election, replacePositions bool) error {
	rows := electionRowsFromEntity(election)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&electionModel{}).
			Where("id = ?", rows.election.ID).
			Updates(map[string]any{
				"title":        rows.election.Title,
				"subtitle":     rows.election.Subtitle,
				"description":  rows.election.Description,
				"year":         rows.election.Year,
				"voting_start": rows.election.VotingStart,
				"voting_end":   rows.election.VotingEnd,
				"updated_at":   rows.election.UpdatedAt,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrElectionNotFound
		}
		if !replacePositions {
			return nil
		}

		// Wholesale replacement: nested structure is deleted and recreated,
		// never merged.
		if err := deleteCandidatesForElection(tx, rows.election.ID); err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", rows.election.ID).Delete(&positionModel{}).Error; err != nil {
			return err
		}
		if len(rows.positions) > 0 {
			if err := tx.Create(&rows.positions).Error; err != nil {
				return err
			}
		}
		if len(rows.candidates) > 0 {
			if err := tx.Create(&rows.candidates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return err
		}
		return r.logError("election_repo_update_failed", err,
			"election_id", election.ElectionID,
		)
	}
	return nil
}

func (r *Repository) DeleteElection(ctx context.Context, electionID string) error {
	electionID = strings.TrimSpace(electionID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Dependency order: votes, tokens, candidates, positions, election.
		if err := tx.Where("election_id = ?", electionID).Delete(&voteModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", electionID).Delete(&votingTokenModel{}).Error; err != nil {
			return err
		}
		if err := deleteCandidatesForElection(tx, electionID); err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", electionID).Delete(&positionModel{}).Error; err != nil {
			return err
		}
		del := tx.Where("id = ?", electionID).Delete(&electionModel{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return domainerrors.ErrElectionNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return err
		}
		return r.logError("election_repo_delete_failed", err, "election_id", electionID)
	}
	return nil
}

func (r *Repository) ListElections(ctx context.Context, filter ports.ElectionFilter) ([]entities.Election, int64, error) {
	tx := r.db.WithContext(ctx).Model(&electionModel{})
	if filter.ClubID != "" {
		tx = tx.Where("club_id = ?", filter.ClubID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, r.logError("election_repo_count_failed", err, "club_id", filter.ClubID)
	}

	var rows []electionModel
	if err := tx.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, r.logError("election_repo_list_failed", err, "club_id", filter.ClubID)
	}
	if len(rows) == 0 {
		return nil, total, nil
	}

	electionIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		electionIDs = append(electionIDs, row.ID)
	}
	positions, err := r.loadPositions(ctx, electionIDs)
	if err != nil {
		return nil, 0, err
	}

	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		election := row.toEntity()
		election.Positions = positions[row.ID]
		items = append(items, election)
	}
	return items, total, nil
}

func (r *Repository) GetToken(ctx context.Context, tokenID string) (entities.VotingToken, error) {
	var row votingTokenModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(tokenID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VotingToken{}, domainerrors.ErrInvalidToken
		}
		return entities.VotingToken{}, r.logError("election_repo_get_token_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetTokenByVoter(ctx context.Context, electionID string, voterID string) (entities.VotingToken, bool, error) {
	var row votingTokenModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("issued_to = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VotingToken{}, false, nil
		}
		return entities.VotingToken{}, false, r.logError("election_repo_get_token_by_voter_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateToken(ctx context.Context, token entities.VotingToken) error {
	row := votingTokenModelFromEntity(token)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("election_repo_create_token_failed", err,
			"election_id", token.ElectionID,
		)
	}
	return nil
}

func (r *Repository) CountUsedTokens(ctx context.Context, electionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&votingTokenModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("used = ?", true).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("election_repo_count_used_tokens_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return int(count), nil
}

// RedeemBallot serializes redemption per token: the token row is locked FOR
// UPDATE, the used flag re-checked under the lock, and the votes plus the
// flag flip commit together or not at all.
func (r *Repository) RedeemBallot(ctx context.Context, tokenID string, votes []entities.Vote) error {
	tokenID = strings.TrimSpace(tokenID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token votingTokenModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", tokenID).
			First(&token).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrInvalidToken
			}
			return err
		}
		if token.Used {
			return domainerrors.ErrTokenAlreadyUsed
		}

		rows := make([]voteModel, 0, len(votes))
		for _, vote := range votes {
			rows = append(rows, voteModelFromEntity(vote))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(&votingTokenModel{}).
			Where("id = ?", tokenID).
			Update("used", true).
			Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidToken) || errors.Is(err, domainerrors.ErrTokenAlreadyUsed) {
			return err
		}
		return r.logError("election_repo_redeem_ballot_failed", err)
	}
	return nil
}

func (r *Repository) ListVotesByElection(ctx context.Context, electionID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_votes_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetClub(ctx context.Context, clubID string) (ports.ClubProjection, error) {
	var row clubProjectionModel
	err := r.db.WithContext(ctx).
		Where("club_id = ?", strings.TrimSpace(clubID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ClubProjection{}, domainerrors.ErrClubNotFound
		}
		return ports.ClubProjection{}, r.logError("election_repo_get_club_failed", err,
			"club_id", strings.TrimSpace(clubID),
		)
	}
	return ports.ClubProjection{
		ClubID: row.ClubID,
		Name:   row.Name,
		Status: row.Status,
	}, nil
}

// loadPositions fetches positions and candidates for a set of elections in
// two queries and reassembles them in creation order.
func (r *Repository) loadPositions(ctx context.Context, electionIDs []string) (map[string][]entities.Position, error) {
	var positionRows []positionModel
	if err := r.db.WithContext(ctx).
		Where("election_id IN ?", electionIDs).
		Order("created_at ASC, id ASC").
		Find(&positionRows).Error; err != nil {
		return nil, r.logError("election_repo_load_positions_failed", err)
	}
	if len(positionRows) == 0 {
		return map[string][]entities.Position{}, nil
	}

	positionIDs := make([]string, 0, len(positionRows))
	for _, row := range positionRows {
		positionIDs = append(positionIDs, row.ID)
	}
	var candidateRows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("position_id IN ?", positionIDs).
		Order("created_at ASC, id ASC").
		Find(&candidateRows).Error; err != nil {
		return nil, r.logError("election_repo_load_candidates_failed", err)
	}

	candidatesByPosition := make(map[string][]entities.Candidate, len(positionRows))
	for _, row := range candidateRows {
		candidatesByPosition[row.PositionID] = append(candidatesByPosition[row.PositionID], row.toEntity())
	}

	result := make(map[string][]entities.Position, len(electionIDs))
	for _, row := range positionRows {
		position := row.toEntity()
		position.Candidates = candidatesByPosition[row.ID]
		result[row.ElectionID] = append(result[row.ElectionID], position)
	}
	return result, nil
}

func deleteCandidatesForElection(tx *gorm.DB, electionID string) error {
	subquery := tx.Model(&positionModel{}).
		Select("id").
		Where("election_id = ?", electionID)
	return tx.Where("position_id IN (?)", subquery).Delete(&candidateModel{}).Error
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "club-governance/election-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type electionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ClubID      string    `gorm:"column:club_id;index"`
	Title       string    `gorm:"column:title"`
	Subtitle    string    `gorm:"column:subtitle"`
	Description string    `gorm:"column:description"`
	Year        int       `gorm:"column:year"`
	VotingStart time.Time `gorm:"column:voting_start"`
	VotingEnd   time.Time `gorm:"column:voting_end"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:  m.ID,
		ClubID:      m.ClubID,
		Title:       m.Title,
		Subtitle:    m.Subtitle,
		Description: m.Description,
		Year:        m.Year,
		VotingStart: m.VotingStart.UTC(),
		VotingEnd:   m.VotingEnd.UTC(),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type positionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (positionModel) TableName() string {
	return "positions"
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:  m.ID,
		ElectionID:  m.ElectionID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type candidateModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	PositionID string    `gorm:"column:position_id;index"`
	Name       string    `gorm:"column:name"`
	ImageURL   string    `gorm:"column:image_url"`
	Vision     string    `gorm:"column:vision"`
	Experience string    `gorm:"column:experience"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		PositionID:  m.PositionID,
		Name:        m.Name,
		ImageURL:    m.ImageURL,
		Vision:      m.Vision,
		Experience:  m.Experience,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type votingTokenModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ElectionID string    `gorm:"column:election_id;uniqueIndex:idx_tokens_election_voter"`
	IssuedTo   string    `gorm:"column:issued_to;uniqueIndex:idx_tokens_election_voter"`
	Used       bool      `gorm:"column:used"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (votingTokenModel) TableName() string {
	return "voting_tokens"
}

func (m votingTokenModel) toEntity() entities.VotingToken {
	return entities.VotingToken{
		TokenID:    m.ID,
		ElectionID: m.ElectionID,
		IssuedTo:   m.IssuedTo,
		Used:       m.Used,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func votingTokenModelFromEntity(token entities.VotingToken) votingTokenModel {
	return votingTokenModel{
		ID:         token.TokenID,
		ElectionID: token.ElectionID,
		IssuedTo:   token.IssuedTo,
		Used:       token.Used,
		CreatedAt:  token.CreatedAt,
	}
}

type voteModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id;index"`
	PositionID  string    `gorm:"column:position_id;index"`
	CandidateID string    `gorm:"column:candidate_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:      m.ID,
		ElectionID:  m.ElectionID,
		PositionID:  m.PositionID,
		CandidateID: m.CandidateID,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		ID:          vote.VoteID,
		ElectionID:  vote.ElectionID,
		PositionID:  vote.PositionID,
		CandidateID: vote.CandidateID,
		CreatedAt:   vote.CreatedAt,
	}
}

type clubProjectionModel struct {
	ClubID string `gorm:"column:club_id;primaryKey"`
	Name   string `gorm:"column:name"`
	Status string `gorm:"column:status"`
}

func (clubProjectionModel) TableName() string {
	return "clubs"
}

type electionRows struct {
	election   electionModel
	positions  []positionModel
	candidates []candidateModel
}

func electionRowsFromEntity(election entities.Election) electionRows {
	rows := electionRows{
		election: electionModel{
			ID:          election.ElectionID,
			ClubID:      election.ClubID,
			Title:       election.Title,
			Subtitle:    election.Subtitle,
			Description: election.Description,
			Year:        election.Year,
			VotingStart: election.VotingStart,
			VotingEnd:   election.VotingEnd,
			CreatedAt:   election.CreatedAt,
			UpdatedAt:   election.UpdatedAt,
		},
	}
	for _, position := range election.Positions {
		rows.positions = append(rows.positions, positionModel{
			ID:          position.PositionID,
			ElectionID:  election.ElectionID,
			Name:        position.Name,
			Description: position.Description,
			CreatedAt:   position.CreatedAt,
		})
		for _, candidate := range position.Candidates {
			rows.candidates = append(rows.candidates, candidateModel{
				ID:         candidate.CandidateID,
				PositionID: position.PositionID,
				Name:       candidate.Name,
				ImageURL:   candidate.ImageURL,
				Vision:     candidate.Vision,
				Experience: candidate.Experience,
				CreatedAt:  candidate.CreatedAt,
			})
		}
	}
	return rows
}
