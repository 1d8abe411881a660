package brackets

import (
	"time"

	"github.com/Dosada05/tournament-progression/models"
)

const (
	testTournament = 1
	testCategory   = 3
)

var baseTime = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)

// ranked builds a group table in the given finishing order.
func ranked(id int, name string, half models.Half, complete bool, order ...int) models.GroupStanding {
	g := models.Group{ID: id, CategoryID: testCategory, Name: name, Half: half, ParticipantIDs: order}
	rows := make([]models.StandingRow, len(order))
	for i, p := range order {
		rows[i] = models.StandingRow{ParticipantID: p, GroupID: id, Rank: i + 1}
	}
	return models.GroupStanding{Group: g, Rows: rows, Complete: complete}
}

func category(format models.CategoryFormat, groups ...models.GroupStanding) models.Category {
	c := models.Category{
		ID:             testCategory,
		TournamentID:   testTournament,
		Name:           "Open",
		Format:         format,
		NumberOfGroups: len(groups),
		KnockoutStage:  format != models.FormatGroupOnly,
	}
	for _, g := range groups {
		c.Groups = append(c.Groups, g.Group)
	}
	return c
}

// groupStageHistory returns n completed group-stage matches numbered 1..n, one hour apart,
// the last one at last.
func groupStageHistory(n int, last time.Time) []models.Match {
	cat := testCategory
	out := make([]models.Match, n)
	for i := range out {
		t := last.Add(-time.Duration(n-1-i) * time.Hour)
		out[i] = models.Match{
			TournamentID:  testTournament,
			CategoryID:    &cat,
			Round:         models.RoundGroupStage,
			MatchNumber:   i + 1,
			Slot1:         models.ResolvedSlot(100 + i),
			Slot2:         models.ResolvedSlot(200 + i),
			ScheduledTime: &t,
			Status:        models.StatusCompleted,
			Sets:          models.SetScores{{Side1: 6, Side2: 2}, {Side1: 6, Side2: 2}},
		}
	}
	return out
}

func complete(m models.Match, side1Wins bool) models.Match {
	m.Status = models.StatusCompleted
	if side1Wins {
		m.Sets = models.SetScores{{Side1: 6, Side2: 3}, {Side1: 6, Side2: 4}}
	} else {
		m.Sets = models.SetScores{{Side1: 3, Side2: 6}, {Side1: 4, Side2: 6}}
	}
	return m
}

// apply replaces matches by match number.
func apply(all []models.Match, changed []models.Match) []models.Match {
	out := append([]models.Match(nil), all...)
	for _, c := range changed {
		for i := range out {
			if out[i].MatchNumber == c.MatchNumber {
				out[i] = c
			}
		}
	}
	return out
}

func byNumber(all []models.Match, n int) models.Match {
	for _, m := range all {
		if m.MatchNumber == n {
			return m
		}
	}
	return models.Match{}
}

func groupOf(groups []models.GroupStanding) map[int]int {
	out := make(map[int]int)
	for _, g := range groups {
		for _, id := range g.Group.ParticipantIDs {
			out[id] = g.Group.ID
		}
	}
	return out
}
