package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-progression/cache"
	"github.com/Dosada05/tournament-progression/metrics"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/repositories"
	"github.com/Dosada05/tournament-progression/standings"
)

type CategoryStandings struct {
	CategoryID int                    `json:"category_id"`
	Groups     []models.GroupStanding `json:"groups"`
	Cached     bool                   `json:"cached"`
}

type StandingsService interface {
	CategoryStandings(ctx context.Context, categoryID int) (*CategoryStandings, error)
}

type standingsService struct {
	categoryRepo repositories.CategoryRepository
	matchRepo    repositories.MatchRepository
	cache        cache.StandingsCache
	metrics      *metrics.Metrics
	locks        *TournamentLocks
	scheme       standings.PointsScheme
	logger       *slog.Logger
}

func NewStandingsService(
	categoryRepo repositories.CategoryRepository,
	matchRepo repositories.MatchRepository,
	standingsCache cache.StandingsCache,
	m *metrics.Metrics,
	locks *TournamentLocks,
	scheme standings.PointsScheme,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		categoryRepo: categoryRepo,
		matchRepo:    matchRepo,
		cache:        standingsCache,
		metrics:      m,
		locks:        locks,
		scheme:       scheme,
		logger:       logger,
	}
}

func (s *standingsService) CategoryStandings(ctx context.Context, categoryID int) (*CategoryStandings, error) {
	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	groups, ok, err := s.cache.Get(ctx, cat.TournamentID, cat.ID)
	switch {
	case err != nil:
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("standings cache read failed", slog.Int("category_id", cat.ID), slog.Any("error", err))
	case ok:
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return &CategoryStandings{CategoryID: cat.ID, Groups: groups, Cached: true}, nil
	default:
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	// Result entry invalidates the cache under the same lock.
	unlock := s.locks.Lock(cat.TournamentID)
	defer unlock()

	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{TournamentID: cat.TournamentID, CategoryID: &cat.ID})
	if err != nil {
		return nil, err
	}
	groups, err = groupStandings(*cat, matches, s.scheme)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cat.TournamentID, cat.ID, groups); err != nil {
		s.logger.Warn("standings cache write failed", slog.Int("category_id", cat.ID), slog.Any("error", err))
	}
	return &CategoryStandings{CategoryID: cat.ID, Groups: groups}, nil
}
