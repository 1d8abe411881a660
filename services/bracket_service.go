package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-progression/brackets"
	"github.com/Dosada05/tournament-progression/cache"
	"github.com/Dosada05/tournament-progression/events"
	"github.com/Dosada05/tournament-progression/metrics"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/repositories"
	"github.com/Dosada05/tournament-progression/standings"
)

// GenerationOptions override the configured generation settings for one request.
type GenerationOptions struct {
	ScheduleOverride   []time.Time `json:"schedule_override,omitempty"`
	StartTime          *time.Time  `json:"start_time,omitempty"`
	Courts             []string    `json:"courts,omitempty"`
	QualifiersPerGroup int         `json:"qualifiers_per_group,omitempty"`
	SkipThirdPlace     *bool       `json:"skip_third_place,omitempty"`
	// Seeds orders a knockout_only draw; registration order is used when empty.
	Seeds []int `json:"seeds,omitempty"`
}

type GenerationResult struct {
	CategoryID       int                                `json:"category_id"`
	AlreadyGenerated bool                               `json:"already_generated"`
	Duplicate        *brackets.DuplicateGenerationError `json:"-"`
	Matches          []models.Match                     `json:"matches"`
}

type BracketService interface {
	GenerateKnockout(ctx context.Context, categoryID int, opts GenerationOptions) (*GenerationResult, error)
	GenerateGroupStage(ctx context.Context, categoryID int, opts GenerationOptions) (*GenerationResult, error)
	// ResolveFeeder fills the slots waiting on a completed match; safe to repeat.
	ResolveFeeder(ctx context.Context, tournamentID, matchNumber int) ([]models.Match, error)
}

type bracketService struct {
	tx              repositories.TxRunner
	categoryRepo    repositories.CategoryRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	cache           cache.StandingsCache
	publisher       events.Publisher
	metrics         *metrics.Metrics
	locks           *TournamentLocks
	cfg             brackets.Config
	scheme          standings.PointsScheme
	progression     *progression
	logger          *slog.Logger
}

func NewBracketService(
	tx repositories.TxRunner,
	categoryRepo repositories.CategoryRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standingsCache cache.StandingsCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	locks *TournamentLocks,
	cfg brackets.Config,
	scheme standings.PointsScheme,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:              tx,
		categoryRepo:    categoryRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		cache:           standingsCache,
		publisher:       publisher,
		metrics:         m,
		locks:           locks,
		cfg:             cfg,
		scheme:          scheme,
		progression: &progression{
			matchRepo:    matchRepo,
			categoryRepo: categoryRepo,
			scheme:       scheme,
			logger:       logger,
		},
		logger: logger,
	}
}

// snapshot is everything generation reads, loaded under the tournament lock.
type snapshot struct {
	category     *models.Category
	paired       *models.Category
	linked       []int
	participants []models.Participant
	matches      []models.Match
}

func (s *bracketService) load(ctx context.Context, cat *models.Category) (*snapshot, error) {
	snap := &snapshot{category: cat}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		participants, err := s.participantRepo.ListByCategory(gCtx, cat.ID)
		if err != nil {
			return fmt.Errorf("failed to list participants of category %d: %w", cat.ID, err)
		}
		snap.participants = participants
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.List(gCtx, nil, repositories.MatchFilter{TournamentID: cat.TournamentID})
		if err != nil {
			return fmt.Errorf("failed to list matches of tournament %d: %w", cat.TournamentID, err)
		}
		snap.matches = matches
		return nil
	})
	g.Go(func() error {
		categories, err := s.categoryRepo.ListByTournament(gCtx, cat.TournamentID)
		if err != nil {
			return fmt.Errorf("failed to list categories of tournament %d: %w", cat.TournamentID, err)
		}
		snap.linked = linkedCategories(cat, categories)
		return nil
	})
	if cat.Format.Crossed() && cat.PairedCategoryID != nil {
		g.Go(func() error {
			paired, err := s.categoryRepo.GetByID(gCtx, *cat.PairedCategoryID)
			if err != nil {
				return handleRepositoryError(err)
			}
			snap.paired = paired
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// linkedCategories returns the categories whose knockout stage cat shares: the one it
// names as its pair and any crossed category naming cat.
func linkedCategories(cat *models.Category, categories []models.Category) []int {
	var out []int
	if cat.Format.Crossed() && cat.PairedCategoryID != nil {
		out = append(out, *cat.PairedCategoryID)
	}
	for _, c := range categories {
		if c.ID != cat.ID && c.Format.Crossed() && c.PairedCategoryID != nil && *c.PairedCategoryID == cat.ID && !slices.Contains(out, c.ID) {
			out = append(out, c.ID)
		}
	}
	return out
}

func (s *bracketService) config(opts GenerationOptions) brackets.Config {
	cfg := s.cfg
	if len(opts.ScheduleOverride) > 0 {
		cfg.ScheduleOverride = opts.ScheduleOverride
	}
	if opts.StartTime != nil {
		cfg.StartTime = opts.StartTime
	}
	if len(opts.Courts) > 0 {
		cfg.Courts = opts.Courts
	}
	if opts.QualifiersPerGroup > 0 {
		cfg.QualifiersPerGroup = opts.QualifiersPerGroup
	}
	if opts.SkipThirdPlace != nil {
		cfg.SkipThirdPlace = *opts.SkipThirdPlace
	}
	return cfg
}

func (s *bracketService) GenerateKnockout(ctx context.Context, categoryID int, opts GenerationOptions) (*GenerationResult, error) {
	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	unlock := s.locks.Lock(cat.TournamentID)
	defer unlock()

	snap, err := s.load(ctx, cat)
	if err != nil {
		return nil, err
	}

	params := brackets.KnockoutParams{Category: *cat, Linked: snap.linked, Existing: snap.matches}
	if cat.Format == models.FormatKnockoutOnly {
		params.Participants = participantIDs(snap.participants)
		params.Seeds = opts.Seeds
		if len(params.Seeds) == 0 {
			params.Seeds = params.Participants
		}
	} else {
		if err := brackets.ValidateGroupAssignments(*cat, participantIDs(snap.participants)); err != nil {
			return nil, s.generationFailed(cat, err)
		}
		params.Groups, err = groupStandings(*cat, snap.matches, s.scheme)
		if err != nil {
			return nil, err
		}
		if snap.paired != nil {
			paired := *snap.paired
			for i := range paired.Groups {
				paired.Groups[i].Half = models.HalfB
			}
			pairedGroups, err := groupStandings(paired, snap.matches, s.scheme)
			if err != nil {
				return nil, err
			}
			params.Groups = append(params.Groups, pairedGroups...)
		}
	}

	generated, err := brackets.GenerateKnockoutStage(params, s.config(opts))
	if err != nil {
		var dup *brackets.DuplicateGenerationError
		if errors.As(err, &dup) {
			s.metrics.DuplicateGenerations.Inc()
			s.logger.Info("knockout already generated", slog.Int("category_id", cat.ID), slog.Int("existing_matches", dup.ExistingMatches))
			return &GenerationResult{CategoryID: cat.ID, AlreadyGenerated: true, Duplicate: dup, Matches: []models.Match{}}, nil
		}
		return nil, s.generationFailed(cat, err)
	}

	return s.persist(ctx, cat, generated, "knockout", events.BracketGenerated)
}

func (s *bracketService) GenerateGroupStage(ctx context.Context, categoryID int, opts GenerationOptions) (*GenerationResult, error) {
	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	unlock := s.locks.Lock(cat.TournamentID)
	defer unlock()

	snap, err := s.load(ctx, cat)
	if err != nil {
		return nil, err
	}

	generated, err := brackets.GenerateGroupStage(*cat, participantIDs(snap.participants), snap.matches, s.config(opts))
	if err != nil {
		var dup *brackets.DuplicateGenerationError
		if errors.As(err, &dup) {
			s.metrics.DuplicateGenerations.Inc()
			return &GenerationResult{CategoryID: cat.ID, AlreadyGenerated: true, Duplicate: dup, Matches: []models.Match{}}, nil
		}
		return nil, s.generationFailed(cat, err)
	}

	return s.persist(ctx, cat, generated, "group", events.GroupStageGenerated)
}

func (s *bracketService) persist(ctx context.Context, cat *models.Category, generated []models.Match, stage string, evt events.EventType) (*GenerationResult, error) {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.CreateBatch(ctx, exec, generated)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	if err := s.cache.InvalidateTournament(ctx, cat.TournamentID); err != nil {
		s.logger.Warn("failed to invalidate standings cache", slog.Int("tournament_id", cat.TournamentID), slog.Any("error", err))
	}
	s.metrics.BracketsGenerated.WithLabelValues(string(cat.Format), stage).Inc()
	s.logger.Info("stage generated",
		slog.String("stage", stage),
		slog.Int("tournament_id", cat.TournamentID),
		slog.Int("category_id", cat.ID),
		slog.Int("matches", len(generated)))

	result := &GenerationResult{CategoryID: cat.ID, Matches: generated}
	s.publisher.Publish(events.TournamentRoom(cat.TournamentID), evt, result)
	return result, nil
}

func (s *bracketService) generationFailed(cat *models.Category, err error) error {
	reason := "other"
	var (
		insufficient *brackets.InsufficientQualifiersError
		unsupported  *brackets.UnsupportedFormatError
		unassigned   *brackets.UnassignedParticipantsError
	)
	switch {
	case errors.As(err, &insufficient):
		reason = "insufficient_qualifiers"
	case errors.As(err, &unsupported):
		reason = "unsupported_format"
	case errors.As(err, &unassigned):
		reason = "unassigned_participants"
	case errors.Is(err, brackets.ErrInvalidCrossing):
		reason = "invalid_crossing"
	case errors.Is(err, brackets.ErrGroupStageOpen):
		reason = "group_stage_open"
	case errors.Is(err, brackets.ErrInvalidSeeds):
		reason = "invalid_seeds"
	}
	s.metrics.GenerationFailures.WithLabelValues(reason).Inc()
	s.logger.Warn("generation rejected", slog.Int("category_id", cat.ID), slog.String("reason", reason), slog.Any("error", err))
	return err
}

func (s *bracketService) ResolveFeeder(ctx context.Context, tournamentID, matchNumber int) ([]models.Match, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	var changed []models.Match
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		feeder, err := s.matchRepo.GetByNumber(ctx, exec, tournamentID, matchNumber)
		if err != nil {
			return handleRepositoryError(err)
		}
		if feeder.Status != models.StatusCompleted {
			return fmt.Errorf("%w: match %d is %s", ErrValidationFailed, matchNumber, feeder.Status)
		}
		changed, err = s.progression.afterCompletion(ctx, exec, feeder)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		s.metrics.PlaceholdersResolved.Add(float64(len(changed)))
		if err := s.cache.InvalidateTournament(ctx, tournamentID); err != nil {
			s.logger.Warn("failed to invalidate standings cache", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		s.publisher.Publish(events.TournamentRoom(tournamentID), events.PlaceholderResolved, changed)
	}
	if changed == nil {
		changed = []models.Match{}
	}
	return changed, nil
}
