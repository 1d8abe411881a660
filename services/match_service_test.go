package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-progression/events"
	"github.com/Dosada05/tournament-progression/models"
)

var (
	side1Wins = models.SetScores{{Side1: 6, Side2: 4}, {Side1: 6, Side2: 4}}
	side2Wins = models.SetScores{{Side1: 4, Side2: 6}, {Side1: 6, Side2: 7}, {Side1: 2, Side2: 6}}
)

func generated(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	_, err := f.bracketService().GenerateKnockout(context.Background(), testCategory, GenerationOptions{})
	require.NoError(t, err)
	return f
}

func TestRecordResultDrivesBracketToCompletion(t *testing.T) {
	f := generated(t)
	svc := f.matchService()
	ctx := context.Background()

	out, err := svc.RecordResult(ctx, testTournament, 7, side1Wins)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Match.Status)
	require.Len(t, out.Resolved, 2)
	assert.False(t, out.TournamentCompleted)
	assert.Equal(t, models.ResolvedSlot(1), f.store.match(testTournament, 9).Slot1)
	assert.Equal(t, models.ResolvedSlot(5), f.store.match(testTournament, 10).Slot1)

	out, err = svc.RecordResult(ctx, testTournament, 8, side2Wins)
	require.NoError(t, err)
	require.Len(t, out.Resolved, 2)

	final := f.store.match(testTournament, 9)
	assert.Equal(t, models.ResolvedSlot(2), final.Slot2)
	assert.Equal(t, models.StatusScheduled, final.Status)
	third := f.store.match(testTournament, 10)
	assert.Equal(t, models.ResolvedSlot(4), third.Slot2)
	assert.Equal(t, models.StatusScheduled, third.Status)

	out, err = svc.RecordResult(ctx, testTournament, 9, side1Wins)
	require.NoError(t, err)
	assert.Empty(t, out.Resolved)
	assert.False(t, out.TournamentCompleted)
	assert.Empty(t, f.recomputed)

	out, err = svc.RecordResult(ctx, testTournament, 10, side1Wins)
	require.NoError(t, err)
	assert.True(t, out.TournamentCompleted)
	assert.Equal(t, models.TournamentCompleted, f.store.tournaments[testTournament].Status)
	assert.Equal(t, []int{testLeague}, f.recomputed)

	assert.Len(t, f.publisher.ofType(events.PlaceholderResolved), 2)
	assert.Equal(t, 4.0, counterValue(f.metrics, "bracket_placeholders_resolved_total", nil))
}

func TestRecordResultRejectsUnplayableMatches(t *testing.T) {
	f := generated(t)
	svc := f.matchService()
	ctx := context.Background()

	_, err := svc.RecordResult(ctx, testTournament, 9, side1Wins)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition, "final still waits on its semifinals")

	_, err = svc.RecordResult(ctx, testTournament, 1, side1Wins)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition, "group match already completed")

	_, err = svc.RecordResult(ctx, testTournament, 42, side1Wins)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordResultRejectsPlaceholderSlots(t *testing.T) {
	f := generated(t)
	final := f.store.match(testTournament, 9)
	final.Status = models.StatusScheduled
	f.store.setMatch(final)

	_, err := f.matchService().RecordResult(context.Background(), testTournament, 9, side1Wins)
	assert.ErrorIs(t, err, ErrMatchNotPlayable)
}

func TestRecordResultRejectsIncoherentScore(t *testing.T) {
	f := generated(t)

	_, err := f.matchService().RecordResult(context.Background(), testTournament, 7,
		models.SetScores{{Side1: 6, Side2: 4}, {Side1: 4, Side2: 6}})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, models.StatusScheduled, f.store.match(testTournament, 7).Status)
	assert.Empty(t, f.publisher.ofType(events.PlaceholderResolved))
}

func TestRecordResultWithoutLeague(t *testing.T) {
	f := generated(t)
	tournament := f.store.tournaments[testTournament]
	tournament.LeagueID = nil
	f.store.tournaments[testTournament] = tournament
	svc := f.matchService()

	for _, n := range []int{7, 8, 9, 10} {
		_, err := svc.RecordResult(context.Background(), testTournament, n, side1Wins)
		require.NoError(t, err)
	}
	assert.Equal(t, models.TournamentCompleted, f.store.tournaments[testTournament].Status)
	assert.Empty(t, f.recomputed)
}
