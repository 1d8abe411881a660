package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/tournament-progression/brackets"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/repositories"
	"github.com/Dosada05/tournament-progression/standings"
)

func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%w: %v", ErrTournamentNotFound, err)
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return fmt.Errorf("%w: %v", ErrCategoryNotFound, err)
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%w: %v", ErrMatchNotFound, err)
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return fmt.Errorf("%w: %v", ErrLeagueNotFound, err)
	case errors.Is(err, repositories.ErrMatchNumberTaken), errors.Is(err, repositories.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// groupStandings ranks every group of cat from the tournament's matches.
func groupStandings(cat models.Category, matches []models.Match, scheme standings.PointsScheme) ([]models.GroupStanding, error) {
	out := make([]models.GroupStanding, 0, len(cat.Groups))
	for _, g := range cat.Groups {
		gs, err := standings.ComputeGroup(g, categoryMatches(cat.ID, matches), scheme)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidationFailed, g.Label(), err)
		}
		out = append(out, gs)
	}
	return out, nil
}

func categoryMatches(categoryID int, matches []models.Match) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.InCategory(categoryID) {
			out = append(out, m)
		}
	}
	return out
}

func participantIDs(participants []models.Participant) []int {
	ids := make([]int, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	sort.Ints(ids)
	return ids
}

// progression fills placeholder slots after a match completes. Callers hold the
// tournament lock and pass the transaction executor.
type progression struct {
	matchRepo    repositories.MatchRepository
	categoryRepo repositories.CategoryRepository
	scheme       standings.PointsScheme
	logger       *slog.Logger
}

func (p *progression) afterCompletion(ctx context.Context, exec repositories.SQLExecutor, feeder *models.Match) ([]models.Match, error) {
	all, err := p.matchRepo.List(ctx, exec, repositories.MatchFilter{TournamentID: feeder.TournamentID})
	if err != nil {
		return nil, err
	}

	changed, err := brackets.ResolvePlaceholder(*feeder, all)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if feeder.Round == models.RoundGroupStage && feeder.CategoryID != nil {
		cat, err := p.categoryRepo.GetByID(ctx, *feeder.CategoryID)
		if err != nil {
			return nil, handleRepositoryError(err)
		}
		groups, err := groupStandings(*cat, all, p.scheme)
		if err != nil {
			return nil, err
		}
		// The knockout of a crossed pair carries the other half's category id, so qualifier
		// slots are looked up across the whole tournament.
		qualified, err := brackets.ResolveGroupQualifiers(all, groups)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		changed = append(changed, qualified...)
	}

	for i := range changed {
		if err := p.matchRepo.UpdateProgress(ctx, exec, &changed[i]); err != nil {
			return nil, handleRepositoryError(err)
		}
		p.logger.Info("placeholder resolved",
			slog.Int("tournament_id", changed[i].TournamentID),
			slog.Int("match_number", changed[i].MatchNumber),
			slog.String("status", string(changed[i].Status)))
	}
	return changed, nil
}
