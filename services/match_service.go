package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-progression/brackets"
	"github.com/Dosada05/tournament-progression/cache"
	"github.com/Dosada05/tournament-progression/events"
	"github.com/Dosada05/tournament-progression/metrics"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/repositories"
	"github.com/Dosada05/tournament-progression/standings"
)

type ResultOutcome struct {
	Match               models.Match   `json:"match"`
	Resolved            []models.Match `json:"resolved"`
	TournamentCompleted bool           `json:"tournament_completed"`
}

type MatchService interface {
	// RecordResult completes a match with its set scores, then fills every slot that was
	// waiting on it. Completing the last match of a league tournament rebuilds the league.
	RecordResult(ctx context.Context, tournamentID, matchNumber int, sets models.SetScores) (*ResultOutcome, error)
}

type matchService struct {
	tx             repositories.TxRunner
	matchRepo      repositories.MatchRepository
	categoryRepo   repositories.CategoryRepository
	tournamentRepo repositories.TournamentRepository
	league         LeagueService
	cache          cache.StandingsCache
	publisher      events.Publisher
	metrics        *metrics.Metrics
	locks          *TournamentLocks
	progression    *progression
	logger         *slog.Logger
}

func NewMatchService(
	tx repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	categoryRepo repositories.CategoryRepository,
	tournamentRepo repositories.TournamentRepository,
	leagueService LeagueService,
	standingsCache cache.StandingsCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	locks *TournamentLocks,
	scheme standings.PointsScheme,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:             tx,
		matchRepo:      matchRepo,
		categoryRepo:   categoryRepo,
		tournamentRepo: tournamentRepo,
		league:         leagueService,
		cache:          standingsCache,
		publisher:      publisher,
		metrics:        m,
		locks:          locks,
		progression: &progression{
			matchRepo:    matchRepo,
			categoryRepo: categoryRepo,
			scheme:       scheme,
			logger:       logger,
		},
		logger: logger,
	}
}

func (s *matchService) RecordResult(ctx context.Context, tournamentID, matchNumber int, sets models.SetScores) (*ResultOutcome, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	out := &ResultOutcome{Resolved: []models.Match{}}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByNumber(ctx, exec, tournamentID, matchNumber)
		if err != nil {
			return handleRepositoryError(err)
		}
		if !models.CanTransition(m.Status, models.StatusCompleted) || m.Status == models.StatusCompleted {
			return fmt.Errorf("%w: match %d is %s", ErrInvalidStatusTransition, matchNumber, m.Status)
		}
		if !m.Resolved() {
			return fmt.Errorf("%w: match %d: %s vs %s", ErrMatchNotPlayable, matchNumber, m.Slot1, m.Slot2)
		}

		m.Sets = sets
		m.Status = models.StatusCompleted
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		if err := s.matchRepo.UpdateProgress(ctx, exec, m); err != nil {
			return handleRepositoryError(err)
		}
		out.Match = *m

		changed, err := s.progression.afterCompletion(ctx, exec, m)
		if err != nil {
			return err
		}
		out.Resolved = append(out.Resolved, changed...)

		out.TournamentCompleted, err = s.completeTournament(ctx, exec, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateTournament(ctx, tournamentID); err != nil {
		s.logger.Warn("failed to invalidate standings cache", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
	if len(out.Resolved) > 0 {
		s.metrics.PlaceholdersResolved.Add(float64(len(out.Resolved)))
		s.publisher.Publish(events.TournamentRoom(tournamentID), events.PlaceholderResolved, out.Resolved)
	}
	if out.TournamentCompleted {
		s.rebuildLeague(ctx, tournamentID)
	}
	return out, nil
}

// completeTournament marks the tournament completed once every category is finished.
func (s *matchService) completeTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (bool, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return false, handleRepositoryError(err)
	}
	if t.Status == models.TournamentCompleted || t.Status == models.TournamentCancelled {
		return false, nil
	}
	categories, err := s.categoryRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return false, err
	}
	if len(categories) == 0 {
		return false, nil
	}
	matches, err := s.matchRepo.List(ctx, exec, repositories.MatchFilter{TournamentID: tournamentID})
	if err != nil {
		return false, err
	}
	partners := brackets.Partners(categories)
	for _, c := range categories {
		if !brackets.CategoryFinished(c, partners, matches) {
			return false, nil
		}
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.TournamentCompleted); err != nil {
		return false, handleRepositoryError(err)
	}
	s.logger.Info("tournament completed", slog.Int("tournament_id", tournamentID))
	return true, nil
}

func (s *matchService) rebuildLeague(ctx context.Context, tournamentID int) {
	if s.league == nil {
		return
	}
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil || t.LeagueID == nil {
		return
	}
	if _, err := s.league.Recompute(ctx, *t.LeagueID, TriggerTournamentCompleted); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("league rebuild after tournament completion failed",
			slog.Int("league_id", *t.LeagueID), slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
}
