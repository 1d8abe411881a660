package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-progression/brackets"
	"github.com/Dosada05/tournament-progression/league"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/reconcile"
	"github.com/Dosada05/tournament-progression/services"
	"github.com/Dosada05/tournament-progression/standings"
)

func newRouter(bs services.BracketService, ms services.MatchService, ss services.StandingsService, is services.IntegrityService, ls services.LeagueService) *chi.Mux {
	r := chi.NewRouter()
	bh := NewBracketHandler(bs)
	r.Post("/categories/{categoryID}/knockout", bh.GenerateKnockout)
	r.Post("/categories/{categoryID}/group-stage", bh.GenerateGroupStage)
	r.Post("/tournaments/{tournamentID}/matches/{matchNumber}/resolve", bh.ResolveFeeder)

	mh := NewMatchHandler(ms)
	r.Put("/tournaments/{tournamentID}/matches/{matchNumber}/result", mh.RecordResult)

	sh := NewStandingsHandler(ss, is)
	r.Get("/categories/{categoryID}/standings", sh.CategoryStandings)
	r.Get("/categories/{categoryID}/integrity", sh.CategoryIntegrity)

	lh := NewLeagueHandler(ls)
	r.Post("/leagues/{leagueID}/recompute", lh.Recompute)
	r.Get("/leagues/{leagueID}/standings", lh.Standings)
	r.Get("/leagues/{leagueID}/link-suggestions", lh.LinkSuggestions)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestGenerateKnockoutCreated(t *testing.T) {
	var gotOpts services.GenerationOptions
	bs := &MockBracketService{
		GenerateKnockoutFunc: func(_ context.Context, categoryID int, opts services.GenerationOptions) (*services.GenerationResult, error) {
			assert.Equal(t, 3, categoryID)
			gotOpts = opts
			return &services.GenerationResult{
				CategoryID: 3,
				Matches:    []models.Match{{TournamentID: 1, MatchNumber: 7, Round: models.RoundSemifinal}},
			}, nil
		},
	}
	r := newRouter(bs, nil, nil, nil, nil)

	rec, body := do(t, r, http.MethodPost, "/categories/3/knockout", `{"courts":["Center","Court 2"],"skip_third_place":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, float64(3), body["category_id"])
	assert.Equal(t, false, body["already_generated"])
	assert.Len(t, body["matches"], 1)

	assert.Equal(t, []string{"Center", "Court 2"}, gotOpts.Courts)
	require.NotNil(t, gotOpts.SkipThirdPlace)
	assert.True(t, *gotOpts.SkipThirdPlace)
}

func TestGenerateKnockoutAcceptsEmptyBody(t *testing.T) {
	called := false
	bs := &MockBracketService{
		GenerateKnockoutFunc: func(_ context.Context, _ int, opts services.GenerationOptions) (*services.GenerationResult, error) {
			called = true
			assert.Empty(t, opts.Courts)
			assert.Nil(t, opts.StartTime)
			return &services.GenerationResult{CategoryID: 3, Matches: []models.Match{}}, nil
		},
	}

	rec, _ := do(t, newRouter(bs, nil, nil, nil, nil), http.MethodPost, "/categories/3/knockout", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, called)
}

func TestGenerateKnockoutAlreadyGenerated(t *testing.T) {
	bs := &MockBracketService{
		GenerateKnockoutFunc: func(context.Context, int, services.GenerationOptions) (*services.GenerationResult, error) {
			return &services.GenerationResult{
				CategoryID:       3,
				AlreadyGenerated: true,
				Duplicate:        &brackets.DuplicateGenerationError{CategoryID: 3, ExistingMatches: 4},
			}, nil
		},
	}

	rec, body := do(t, newRouter(bs, nil, nil, nil, nil), http.MethodPost, "/categories/3/knockout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["already_generated"])
	assert.Equal(t, float64(4), body["existing_matches"])
	assert.Contains(t, body["message"], "knockout stage already generated")
}

func TestGenerateKnockoutRejectsBadRequests(t *testing.T) {
	bs := &MockBracketService{
		GenerateKnockoutFunc: func(context.Context, int, services.GenerationOptions) (*services.GenerationResult, error) {
			t.Error("service must not be called")
			return nil, nil
		},
	}
	r := newRouter(bs, nil, nil, nil, nil)

	tests := []struct {
		name   string
		target string
		body   string
		msg    string
	}{
		{"non-numeric id", "/categories/abc/knockout", "", "invalid categoryID format"},
		{"zero id", "/categories/0/knockout", "", "invalid categoryID value"},
		{"unknown field", "/categories/3/knockout", `{"bracket_size":8}`, "unknown key"},
		{"malformed json", "/categories/3/knockout", `{"courts":`, "badly-formed JSON"},
		{"wrong type", "/categories/3/knockout", `{"courts":"Center"}`, "incorrect JSON type"},
		{"trailing value", "/categories/3/knockout", `{} {}`, "single JSON value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, r, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["error"], tt.msg)
		})
	}
}

func TestGenerateKnockoutErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"category not found", services.ErrCategoryNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: match number taken", services.ErrConflict), http.StatusConflict},
		{"validation", fmt.Errorf("%w: bad sets", services.ErrValidationFailed), http.StatusUnprocessableEntity},
		{"insufficient qualifiers", &brackets.InsufficientQualifiersError{CategoryID: 3, Required: 4, Available: 3}, http.StatusUnprocessableEntity},
		{"unsupported format", &brackets.UnsupportedFormatError{CategoryID: 3, Format: models.FormatGroupOnly}, http.StatusUnprocessableEntity},
		{"unassigned participants", &brackets.UnassignedParticipantsError{CategoryID: 3, ParticipantIDs: []int{7}}, http.StatusUnprocessableEntity},
		{"incomplete group match", fmt.Errorf("ranking: %w", &standings.IncompleteMatchError{MatchNumber: 2}), http.StatusUnprocessableEntity},
		{"group stage open", fmt.Errorf("mixed final: %w", brackets.ErrGroupStageOpen), http.StatusUnprocessableEntity},
		{"schedule override", brackets.ErrScheduleOverride, http.StatusUnprocessableEntity},
		{"invalid seeds", fmt.Errorf("category 5: %w: participant 7 seeded twice", brackets.ErrInvalidSeeds), http.StatusUnprocessableEntity},
		{"database down", errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &MockBracketService{
				GenerateKnockoutFunc: func(context.Context, int, services.GenerationOptions) (*services.GenerationResult, error) {
					return nil, tt.err
				},
			}
			rec, body := do(t, newRouter(bs, nil, nil, nil, nil), http.MethodPost, "/categories/3/knockout", "")
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body["error"], "connection refused")
			} else {
				assert.Equal(t, tt.err.Error(), body["error"])
			}
		})
	}
}

func TestGenerateGroupStage(t *testing.T) {
	bs := &MockBracketService{
		GenerateGroupStageFunc: func(_ context.Context, categoryID int, _ services.GenerationOptions) (*services.GenerationResult, error) {
			return &services.GenerationResult{
				CategoryID:       categoryID,
				AlreadyGenerated: true,
				Duplicate:        &brackets.DuplicateGenerationError{CategoryID: categoryID, Stage: "group", ExistingMatches: 6},
			}, nil
		},
	}

	rec, body := do(t, newRouter(bs, nil, nil, nil, nil), http.MethodPost, "/categories/4/group-stage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body["category_id"])
	assert.Contains(t, body["message"], "group stage already generated")
}

func TestResolveFeeder(t *testing.T) {
	bs := &MockBracketService{
		ResolveFeederFunc: func(_ context.Context, tournamentID, matchNumber int) ([]models.Match, error) {
			assert.Equal(t, 1, tournamentID)
			assert.Equal(t, 7, matchNumber)
			return []models.Match{
				{TournamentID: 1, MatchNumber: 9, Slot1: models.ResolvedSlot(1), Slot2: models.FeederSlot(8, models.OutcomeWinner, "Winner of SF2")},
			}, nil
		},
	}
	r := newRouter(bs, nil, nil, nil, nil)

	rec, body := do(t, r, http.MethodPost, "/tournaments/1/matches/7/resolve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["resolved"], 1)

	rec, _ = do(t, r, http.MethodPost, "/tournaments/1/matches/-2/resolve", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveFeederNotCompleted(t *testing.T) {
	bs := &MockBracketService{
		ResolveFeederFunc: func(context.Context, int, int) ([]models.Match, error) {
			return nil, fmt.Errorf("%w: match 7 is scheduled", brackets.ErrFeederNotCompleted)
		},
	}

	rec, _ := do(t, newRouter(bs, nil, nil, nil, nil), http.MethodPost, "/tournaments/1/matches/7/resolve", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRecordResult(t *testing.T) {
	ms := &MockMatchService{
		RecordResultFunc: func(_ context.Context, tournamentID, matchNumber int, sets models.SetScores) (*services.ResultOutcome, error) {
			assert.Equal(t, 1, tournamentID)
			assert.Equal(t, 9, matchNumber)
			assert.Equal(t, models.SetScores{{Side1: 6, Side2: 4}, {Side1: 7, Side2: 5}}, sets)
			return &services.ResultOutcome{
				Match:               models.Match{TournamentID: 1, MatchNumber: 9, Status: models.StatusCompleted, Sets: sets},
				Resolved:            []models.Match{},
				TournamentCompleted: true,
			}, nil
		},
	}

	rec, body := do(t, newRouter(nil, ms, nil, nil, nil), http.MethodPut, "/tournaments/1/matches/9/result",
		`{"sets":[{"side1":6,"side2":4},{"side1":7,"side2":5}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["tournament_completed"])
	match, ok := body["match"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(models.StatusCompleted), match["status"])
}

func TestRecordResultValidation(t *testing.T) {
	ms := &MockMatchService{
		RecordResultFunc: func(context.Context, int, int, models.SetScores) (*services.ResultOutcome, error) {
			return nil, fmt.Errorf("%w: match 9 is pending", services.ErrInvalidStatusTransition)
		},
	}
	r := newRouter(nil, ms, nil, nil, nil)

	rec, body := do(t, r, http.MethodPut, "/tournaments/1/matches/9/result", `{"sets":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "at least one set score is required", body["error"])

	rec, body = do(t, r, http.MethodPut, "/tournaments/1/matches/9/result", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "body must not be empty", body["error"])

	rec, _ = do(t, r, http.MethodPut, "/tournaments/1/matches/9/result", `{"sets":[{"side1":6,"side2":4}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRecordResultNotPlayable(t *testing.T) {
	ms := &MockMatchService{
		RecordResultFunc: func(context.Context, int, int, models.SetScores) (*services.ResultOutcome, error) {
			return nil, services.ErrMatchNotPlayable
		},
	}

	rec, body := do(t, newRouter(nil, ms, nil, nil, nil), http.MethodPut, "/tournaments/1/matches/9/result", `{"sets":[{"side1":6,"side2":4}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, services.ErrMatchNotPlayable.Error(), body["error"])
}

func TestCategoryStandings(t *testing.T) {
	ss := &MockStandingsService{
		CategoryStandingsFunc: func(_ context.Context, categoryID int) (*services.CategoryStandings, error) {
			if categoryID != 3 {
				return nil, services.ErrCategoryNotFound
			}
			return &services.CategoryStandings{
				CategoryID: 3,
				Groups:     []models.GroupStanding{{Group: models.Group{ID: 11, Name: "A"}, Complete: true}},
				Cached:     true,
			}, nil
		},
	}
	r := newRouter(nil, nil, ss, nil, nil)

	rec, body := do(t, r, http.MethodGet, "/categories/3/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["cached"])
	assert.Len(t, body["groups"], 1)

	rec, body = do(t, r, http.MethodGet, "/categories/8/standings", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "category not found", body["error"])
}

func TestCategoryIntegrity(t *testing.T) {
	is := &MockIntegrityService{
		CheckCategoryFunc: func(_ context.Context, categoryID int) (*services.IntegrityReport, error) {
			return &services.IntegrityReport{
				CategoryID: categoryID,
				Issues: []services.IntegrityIssue{
					{Kind: services.IssueInvalidRound, MatchNumber: 3},
				},
			}, nil
		},
	}

	rec, body := do(t, newRouter(nil, nil, nil, is, nil), http.MethodGet, "/categories/3/integrity", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["healthy"])
	assert.Len(t, body["issues"], 1)
}

func TestLeagueRecompute(t *testing.T) {
	ls := &MockLeagueService{
		RecomputeFunc: func(_ context.Context, leagueID int, trigger services.RecomputeTrigger) (*league.Result, error) {
			assert.Equal(t, services.TriggerManual, trigger)
			return &league.Result{
				LeagueID:    leagueID,
				Standings:   []models.LeagueStanding{{LeagueID: leagueID, EntityID: 7, Points: 5, TournamentsPlayed: 2, Rank: 1}},
				Unresolved:  []*league.UnresolvedEntityError{{TournamentID: 10, CategoryID: 100, ParticipantID: 103, Position: 3, Points: 1}},
				Tournaments: []int{10, 11},
			}, nil
		},
	}

	rec, body := do(t, newRouter(nil, nil, nil, nil, ls), http.MethodPost, "/leagues/2/recompute", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["league_id"])
	assert.Equal(t, []interface{}{float64(10), float64(11)}, body["tournaments"])

	unresolved, ok := body["unresolved"].([]interface{})
	require.True(t, ok)
	require.Len(t, unresolved, 1)
	assert.IsType(t, "", unresolved[0])
	assert.Contains(t, unresolved[0], "103")
}

func TestLeagueStandingsAndSuggestions(t *testing.T) {
	ls := &MockLeagueService{
		StandingsFunc: func(_ context.Context, leagueID int) ([]models.LeagueStanding, error) {
			if leagueID == 99 {
				return nil, services.ErrLeagueNotFound
			}
			return []models.LeagueStanding{{LeagueID: leagueID, EntityID: 7, Points: 5, Rank: 1}}, nil
		},
		SuggestLinksFunc: func(context.Context, int) ([]reconcile.Suggestion, error) {
			return []reconcile.Suggestion{{ParticipantID: 103, ParticipantName: "Lucas Martín", EntityID: 8, EntityName: "Lucas Martin", Similarity: 0.92}}, nil
		},
	}
	r := newRouter(nil, nil, nil, nil, ls)

	rec, body := do(t, r, http.MethodGet, "/leagues/2/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["standings"], 1)

	rec, _ = do(t, r, http.MethodGet, "/leagues/99/standings", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = do(t, r, http.MethodGet, "/leagues/2/link-suggestions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions, ok := body["suggestions"].([]interface{})
	require.True(t, ok)
	require.Len(t, suggestions, 1)
	assert.Equal(t, float64(8), suggestions[0].(map[string]interface{})["entity_id"])
}
