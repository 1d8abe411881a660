package handlers

import (
	"context"
	"errors"

	"github.com/Dosada05/tournament-progression/league"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/reconcile"
	"github.com/Dosada05/tournament-progression/services"
)

var errNotImplemented = errors.New("not implemented")

type MockBracketService struct {
	GenerateKnockoutFunc   func(ctx context.Context, categoryID int, opts services.GenerationOptions) (*services.GenerationResult, error)
	GenerateGroupStageFunc func(ctx context.Context, categoryID int, opts services.GenerationOptions) (*services.GenerationResult, error)
	ResolveFeederFunc      func(ctx context.Context, tournamentID, matchNumber int) ([]models.Match, error)
}

func (m *MockBracketService) GenerateKnockout(ctx context.Context, categoryID int, opts services.GenerationOptions) (*services.GenerationResult, error) {
	if m.GenerateKnockoutFunc != nil {
		return m.GenerateKnockoutFunc(ctx, categoryID, opts)
	}
	return nil, errNotImplemented
}

func (m *MockBracketService) GenerateGroupStage(ctx context.Context, categoryID int, opts services.GenerationOptions) (*services.GenerationResult, error) {
	if m.GenerateGroupStageFunc != nil {
		return m.GenerateGroupStageFunc(ctx, categoryID, opts)
	}
	return nil, errNotImplemented
}

func (m *MockBracketService) ResolveFeeder(ctx context.Context, tournamentID, matchNumber int) ([]models.Match, error) {
	if m.ResolveFeederFunc != nil {
		return m.ResolveFeederFunc(ctx, tournamentID, matchNumber)
	}
	return nil, errNotImplemented
}

type MockMatchService struct {
	RecordResultFunc func(ctx context.Context, tournamentID, matchNumber int, sets models.SetScores) (*services.ResultOutcome, error)
}

func (m *MockMatchService) RecordResult(ctx context.Context, tournamentID, matchNumber int, sets models.SetScores) (*services.ResultOutcome, error) {
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(ctx, tournamentID, matchNumber, sets)
	}
	return nil, errNotImplemented
}

type MockStandingsService struct {
	CategoryStandingsFunc func(ctx context.Context, categoryID int) (*services.CategoryStandings, error)
}

func (m *MockStandingsService) CategoryStandings(ctx context.Context, categoryID int) (*services.CategoryStandings, error) {
	if m.CategoryStandingsFunc != nil {
		return m.CategoryStandingsFunc(ctx, categoryID)
	}
	return nil, errNotImplemented
}

type MockIntegrityService struct {
	CheckCategoryFunc func(ctx context.Context, categoryID int) (*services.IntegrityReport, error)
}

func (m *MockIntegrityService) CheckCategory(ctx context.Context, categoryID int) (*services.IntegrityReport, error) {
	if m.CheckCategoryFunc != nil {
		return m.CheckCategoryFunc(ctx, categoryID)
	}
	return nil, errNotImplemented
}

type MockLeagueService struct {
	RecomputeFunc    func(ctx context.Context, leagueID int, trigger services.RecomputeTrigger) (*league.Result, error)
	RecomputeAllFunc func(ctx context.Context, trigger services.RecomputeTrigger) error
	StandingsFunc    func(ctx context.Context, leagueID int) ([]models.LeagueStanding, error)
	SuggestLinksFunc func(ctx context.Context, leagueID int) ([]reconcile.Suggestion, error)
}

func (m *MockLeagueService) Recompute(ctx context.Context, leagueID int, trigger services.RecomputeTrigger) (*league.Result, error) {
	if m.RecomputeFunc != nil {
		return m.RecomputeFunc(ctx, leagueID, trigger)
	}
	return nil, errNotImplemented
}

func (m *MockLeagueService) RecomputeAll(ctx context.Context, trigger services.RecomputeTrigger) error {
	if m.RecomputeAllFunc != nil {
		return m.RecomputeAllFunc(ctx, trigger)
	}
	return errNotImplemented
}

func (m *MockLeagueService) Standings(ctx context.Context, leagueID int) ([]models.LeagueStanding, error) {
	if m.StandingsFunc != nil {
		return m.StandingsFunc(ctx, leagueID)
	}
	return nil, errNotImplemented
}

func (m *MockLeagueService) SuggestLinks(ctx context.Context, leagueID int) ([]reconcile.Suggestion, error) {
	if m.SuggestLinksFunc != nil {
		return m.SuggestLinksFunc(ctx, leagueID)
	}
	return nil, errNotImplemented
}
