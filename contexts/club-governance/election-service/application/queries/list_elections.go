package queries

import (
	"context"
	"log/slog"
	"strings"

	application "clubsync/contexts/club-governance/election-service/application"
	"clubsync/contexts/club-governance/election-service/domain/entities"
	"clubsync/contexts/club-governance/election-service/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ListElectionsQuery struct {
	ClubID string
	Page   int
	Limit  int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

type ListElectionsResult struct {
	Elections  []entities.Election
	Pagination Pagination
}

type ListElectionsUseCase struct {
	Elections ports.ElectionRepository
	Logger    *slog.Logger
}

// Execute lists elections newest first, optionally scoped to one club.
func (uc ListElectionsUseCase) Execute(ctx context.Context, query ListElectionsQuery) (ListElectionsResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ElectionFilter{
		ClubID: strings.TrimSpace(query.ClubID),
		Page:   page,
		Limit:  limit,
	}
	items, total, err := uc.Elections.ListElections(ctx, filter)
	if err != nil {
		return ListElectionsResult{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	logger.Info("elections listed",
		"event", "elections_listed",
		"module", "club-governance/election-service",
		"layer", "application",
		"club_id", filter.ClubID,
		"count", len(items),
		"total", total,
	)
	return ListElectionsResult{
		Elections: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
