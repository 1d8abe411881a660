package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/tournament-progression/brackets"
	"github.com/Dosada05/tournament-progression/events"
	"github.com/Dosada05/tournament-progression/league"
	"github.com/Dosada05/tournament-progression/metrics"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/reconcile"
	"github.com/Dosada05/tournament-progression/repositories"
	"github.com/Dosada05/tournament-progression/standings"
	"github.com/Dosada05/tournament-progression/storage"
)

type RecomputeTrigger string

const (
	TriggerManual              RecomputeTrigger = "manual"
	TriggerScheduled           RecomputeTrigger = "scheduled"
	TriggerTournamentCompleted RecomputeTrigger = "tournament_completed"
)

const snapshotLoadConcurrency = 4

type LeagueService interface {
	// Recompute rebuilds the league table from every completed tournament. Concurrent
	// calls for the same league share one rebuild.
	Recompute(ctx context.Context, leagueID int, trigger RecomputeTrigger) (*league.Result, error)
	RecomputeAll(ctx context.Context, trigger RecomputeTrigger) error
	Standings(ctx context.Context, leagueID int) ([]models.LeagueStanding, error)
	SuggestLinks(ctx context.Context, leagueID int) ([]reconcile.Suggestion, error)
}

type LeagueSettings struct {
	Scale          league.Scale
	Scheme         standings.PointsScheme
	LinkSimilarity float64
}

type leagueService struct {
	tx              repositories.TxRunner
	leagueRepo      repositories.LeagueRepository
	tournamentRepo  repositories.TournamentRepository
	categoryRepo    repositories.CategoryRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	entityRepo      repositories.EntityRepository
	archiver        storage.SnapshotArchiver
	publisher       events.Publisher
	metrics         *metrics.Metrics
	settings        LeagueSettings
	group           singleflight.Group
	now             func() time.Time
	logger          *slog.Logger
}

func NewLeagueService(
	tx repositories.TxRunner,
	leagueRepo repositories.LeagueRepository,
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	entityRepo repositories.EntityRepository,
	archiver storage.SnapshotArchiver,
	publisher events.Publisher,
	m *metrics.Metrics,
	settings LeagueSettings,
	logger *slog.Logger,
) LeagueService {
	return &leagueService{
		tx:              tx,
		leagueRepo:      leagueRepo,
		tournamentRepo:  tournamentRepo,
		categoryRepo:    categoryRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		entityRepo:      entityRepo,
		archiver:        archiver,
		publisher:       publisher,
		metrics:         m,
		settings:        settings,
		now:             time.Now,
		logger:          logger,
	}
}

func (s *leagueService) Recompute(ctx context.Context, leagueID int, trigger RecomputeTrigger) (*league.Result, error) {
	v, err, shared := s.group.Do(strconv.Itoa(leagueID), func() (interface{}, error) {
		return s.rebuild(ctx, leagueID, trigger)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("league recompute coalesced", slog.Int("league_id", leagueID))
	}
	return v.(*league.Result), nil
}

func (s *leagueService) RecomputeAll(ctx context.Context, trigger RecomputeTrigger) error {
	ids, err := s.leagueRepo.ListIDs(ctx)
	if err != nil {
		return err
	}
	var failed int
	for _, id := range ids {
		if _, err := s.Recompute(ctx, id, trigger); err != nil {
			failed++
			s.logger.Error("league rebuild failed", slog.Int("league_id", id), slog.Any("error", err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d league rebuilds failed", failed, len(ids))
	}
	return nil
}

func (s *leagueService) rebuild(ctx context.Context, leagueID int, trigger RecomputeTrigger) (*league.Result, error) {
	start := s.now()
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, handleRepositoryError(err)
	}

	results, err := s.tournamentResults(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, r := range results {
		for _, p := range r.Placements {
			ids = append(ids, p.ParticipantID)
		}
	}
	links, err := s.entityRepo.ListLinks(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := league.Recompute(leagueID, results, links, s.settings.Scale)

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.leagueRepo.ReplaceStandings(ctx, exec, leagueID, res.Standings, s.now().UTC())
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	for _, u := range res.Unresolved {
		s.logger.Warn("placement without entity link", slog.Int("league_id", leagueID), slog.Any("error", u))
	}
	s.metrics.LeagueRecomputes.WithLabelValues(string(trigger)).Inc()
	s.metrics.RecomputeDuration.Observe(s.now().Sub(start).Seconds())
	s.metrics.UnresolvedEntities.WithLabelValues(strconv.Itoa(leagueID)).Set(float64(len(res.Unresolved)))

	if s.archiver != nil {
		if obj, err := s.archiver.Archive(ctx, leagueID, res); err != nil {
			s.logger.Warn("failed to archive league snapshot", slog.Int("league_id", leagueID), slog.Any("error", err))
		} else {
			s.logger.Info("league snapshot archived", slog.Int("league_id", leagueID), slog.String("key", obj.Key))
		}
	}

	s.logger.Info("league standings recomputed",
		slog.Int("league_id", leagueID),
		slog.String("trigger", string(trigger)),
		slog.Int("tournaments", len(res.Tournaments)),
		slog.Int("entities", len(res.Standings)),
		slog.Int("unresolved", len(res.Unresolved)))
	s.publisher.Publish(events.LeagueRoom(leagueID), events.StandingsRecomputed, res)
	return &res, nil
}

// tournamentResults loads every tournament of the league in parallel and derives its
// final placements.
func (s *leagueService) tournamentResults(ctx context.Context, leagueID int) ([]models.TournamentResult, error) {
	tournaments, err := s.tournamentRepo.ListByLeague(ctx, leagueID, nil)
	if err != nil {
		return nil, err
	}

	results := make([]models.TournamentResult, len(tournaments))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotLoadConcurrency)
	for i, t := range tournaments {
		g.Go(func() error {
			r, err := s.tournamentResult(gCtx, leagueID, t)
			if err != nil {
				return fmt.Errorf("tournament %d: %w", t.ID, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *leagueService) tournamentResult(ctx context.Context, leagueID int, t models.Tournament) (models.TournamentResult, error) {
	result := models.TournamentResult{TournamentID: t.ID, LeagueID: leagueID, Placements: []models.Placement{}}
	if t.Status == models.TournamentCancelled {
		return result, nil
	}

	categories, err := s.categoryRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return result, err
	}
	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{TournamentID: t.ID})
	if err != nil {
		return result, err
	}

	finished := len(categories) > 0
	partners := brackets.Partners(categories)
	for _, c := range categories {
		if !brackets.CategoryFinished(c, partners, matches) {
			finished = false
			if t.Status == models.TournamentCompleted {
				s.logger.Warn("completed tournament has an unfinished category",
					slog.Int("tournament_id", t.ID), slog.Int("category_id", c.ID))
			}
			continue
		}
		if brackets.KnockoutOwner(c, partners, matches) != c.ID {
			// placed with the category that owns the shared knockout
			continue
		}
		groups, err := groupStandings(c, matches, s.settings.Scheme)
		if err != nil {
			return result, err
		}
		placements, err := brackets.Placements(c, matches, groups)
		if err != nil {
			return result, err
		}
		result.Placements = append(result.Placements, placements...)
	}
	result.Complete = t.Status == models.TournamentCompleted || finished
	return result, nil
}

func (s *leagueService) Standings(ctx context.Context, leagueID int) ([]models.LeagueStanding, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.leagueRepo.ListStandings(ctx, leagueID)
}

func (s *leagueService) SuggestLinks(ctx context.Context, leagueID int) ([]reconcile.Suggestion, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, handleRepositoryError(err)
	}
	tournaments, err := s.tournamentRepo.ListByLeague(ctx, leagueID, nil)
	if err != nil {
		return nil, err
	}
	tournamentIDs := make([]int, len(tournaments))
	for i, t := range tournaments {
		tournamentIDs[i] = t.ID
	}

	var (
		participants []models.Participant
		entities     []models.Entity
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournaments(gCtx, tournamentIDs)
		return err
	})
	g.Go(func() error {
		var err error
		entities, err = s.entityRepo.ListEntities(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	links, err := s.entityRepo.ListLinks(ctx, participantIDs(participants))
	if err != nil {
		return nil, err
	}
	suggestions := reconcile.Suggest(participants, entities, links, s.settings.LinkSimilarity)
	if suggestions == nil {
		suggestions = []reconcile.Suggestion{}
	}
	return suggestions, nil
}
