package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-progression/events"
	"github.com/Dosada05/tournament-progression/league"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/standings"
)

const (
	menCategory   = 30
	womenCategory = 31
)

// newPairedFixture seeds a crossed_playoffs category (men, group 41: 1, 2, 3) paired with
// a second category (women, group 42: 4, 5, 6). The men's group is finished; the women's
// last match, 5 vs 6, is still to play. Matches are numbered 1-6.
func newPairedFixture(t *testing.T) *fixture {
	t.Helper()
	f := baseFixture(t)
	women := womenCategory
	f.store.addCategory(models.Category{
		ID:                 menCategory,
		TournamentID:       testTournament,
		Name:               "Men",
		Format:             models.FormatCrossedPlayoffs,
		NumberOfGroups:     1,
		QualifiersPerGroup: 2,
		KnockoutStage:      true,
		PairedCategoryID:   &women,
		Groups: []models.Group{
			{ID: 41, CategoryID: menCategory, Name: "A", Half: models.HalfA, ParticipantIDs: []int{1, 2, 3}},
		},
	})
	f.store.addCategory(models.Category{
		ID:                 womenCategory,
		TournamentID:       testTournament,
		Name:               "Women",
		Format:             models.FormatCrossedPlayoffs,
		NumberOfGroups:     1,
		QualifiersPerGroup: 2,
		KnockoutStage:      true,
		Groups: []models.Group{
			{ID: 42, CategoryID: womenCategory, Name: "A", Half: models.HalfA, ParticipantIDs: []int{4, 5, 6}},
		},
	})

	open := won(testTournament, womenCategory, 42, 6, 5, 6)
	open.Status = models.StatusScheduled
	open.Sets = nil
	history := []models.Match{
		won(testTournament, menCategory, 41, 1, 1, 2),
		won(testTournament, menCategory, 41, 2, 1, 3),
		won(testTournament, menCategory, 41, 3, 2, 3),
		won(testTournament, womenCategory, 42, 4, 4, 5),
		won(testTournament, womenCategory, 42, 5, 4, 6),
		open,
	}
	for i := range history {
		at := baseTime.Add(time.Duration(i) * time.Hour)
		history[i].ScheduledTime = &at
	}
	f.store.addMatches(history...)
	return f
}

func TestPairedCrossedBracketPlaysToCompletion(t *testing.T) {
	f := newPairedFixture(t)
	ctx := context.Background()

	res, err := f.bracketService().GenerateKnockout(ctx, menCategory, GenerationOptions{})
	require.NoError(t, err)
	require.Len(t, res.Matches, 4)

	sf1, sf2 := f.store.match(testTournament, 7), f.store.match(testTournament, 8)
	assert.Equal(t, models.RoundCrossedSemifinal, sf1.Round)
	assert.Equal(t, models.ResolvedSlot(1), sf1.Slot1)
	assert.Equal(t, models.SlotPendingQualifier, sf1.Slot2.Kind)
	assert.Equal(t, 42, sf1.Slot2.GroupID)
	assert.Equal(t, 2, sf1.Slot2.Position)
	assert.Equal(t, models.StatusPendingQualification, sf1.Status)
	assert.Equal(t, models.ResolvedSlot(2), sf2.Slot1)
	assert.Equal(t, 1, sf2.Slot2.Position)

	svc := f.matchService()
	out, err := svc.RecordResult(ctx, testTournament, 6, side1Wins)
	require.NoError(t, err)
	require.Len(t, out.Resolved, 2)
	assert.False(t, out.TournamentCompleted)

	sf1, sf2 = f.store.match(testTournament, 7), f.store.match(testTournament, 8)
	assert.Equal(t, models.ResolvedSlot(5), sf1.Slot2)
	assert.Equal(t, models.StatusScheduled, sf1.Status)
	assert.Equal(t, models.ResolvedSlot(4), sf2.Slot2)
	assert.Equal(t, models.StatusScheduled, sf2.Status)

	_, err = svc.RecordResult(ctx, testTournament, 7, side1Wins)
	require.NoError(t, err)
	_, err = svc.RecordResult(ctx, testTournament, 8, side2Wins)
	require.NoError(t, err)

	final, third := f.store.match(testTournament, 9), f.store.match(testTournament, 10)
	assert.Equal(t, models.RoundCrossedFinal, final.Round)
	assert.Equal(t, models.ResolvedSlot(1), final.Slot1)
	assert.Equal(t, models.ResolvedSlot(4), final.Slot2)
	assert.Equal(t, models.ResolvedSlot(5), third.Slot1)
	assert.Equal(t, models.ResolvedSlot(2), third.Slot2)

	out, err = svc.RecordResult(ctx, testTournament, 9, side1Wins)
	require.NoError(t, err)
	assert.False(t, out.TournamentCompleted)
	assert.Empty(t, f.recomputed)

	out, err = svc.RecordResult(ctx, testTournament, 10, side1Wins)
	require.NoError(t, err)
	assert.True(t, out.TournamentCompleted)
	assert.Equal(t, models.TournamentCompleted, f.store.tournaments[testTournament].Status)
	assert.Equal(t, []int{testLeague}, f.recomputed)
	assert.Len(t, f.publisher.ofType(events.PlaceholderResolved), 3)
}

func TestPairedCategoryCannotRegenerateCrossedBracket(t *testing.T) {
	f := newPairedFixture(t)
	svc := f.bracketService()
	ctx := context.Background()

	_, err := svc.GenerateKnockout(ctx, menCategory, GenerationOptions{})
	require.NoError(t, err)

	res, err := svc.GenerateKnockout(ctx, womenCategory, GenerationOptions{})
	require.NoError(t, err)
	assert.True(t, res.AlreadyGenerated)
	require.NotNil(t, res.Duplicate)
	assert.Equal(t, 4, res.Duplicate.ExistingMatches)
	assert.Empty(t, res.Matches)
	assert.Len(t, f.store.matches, 10)
	assert.Len(t, f.publisher.ofType(events.BracketGenerated), 1)
}

func TestPairedCategoryPlacedWithSharedKnockout(t *testing.T) {
	f := newPairedFixture(t)
	ctx := context.Background()
	_, err := f.bracketService().GenerateKnockout(ctx, menCategory, GenerationOptions{})
	require.NoError(t, err)

	svc := f.matchService()
	for _, r := range []struct {
		number int
		sets   models.SetScores
	}{
		{6, side1Wins}, {7, side1Wins}, {8, side2Wins}, {9, side1Wins}, {10, side1Wins},
	} {
		_, err := svc.RecordResult(ctx, testTournament, r.number, r.sets)
		require.NoError(t, err, "match %d", r.number)
	}

	ls := NewLeagueService(
		fakeTx{},
		leagueStore{f.store},
		tournamentStore{f.store},
		categoryStore{f.store},
		matchStore{f.store},
		participantStore{f.store},
		entityStore{f.store},
		nil,
		f.publisher,
		f.metrics,
		LeagueSettings{Scale: league.DefaultScale(), Scheme: standings.DefaultScheme()},
		discardLogger(),
	).(*leagueService)

	result, err := ls.tournamentResult(ctx, testLeague, f.store.tournaments[testTournament])
	require.NoError(t, err)
	assert.True(t, result.Complete)

	positions := make(map[int]int)
	for _, p := range result.Placements {
		assert.Equal(t, menCategory, p.CategoryID)
		positions[p.ParticipantID] = p.Position
	}
	assert.Equal(t, map[int]int{1: 1, 4: 2, 5: 3, 2: 4}, positions)
}
