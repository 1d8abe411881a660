// Package standings ranks the participants of one group from its completed matches.
package standings

import (
	"cmp"
	"slices"

	"github.com/Dosada05/tournament-progression/models"
)

// PointsScheme awards table points per match. The zero value awards nothing;
// use DefaultScheme for 1 point per win.
type PointsScheme struct {
	Win  int `json:"win" envconfig:"POINTS_WIN" default:"1"`
	Loss int `json:"loss" envconfig:"POINTS_LOSS" default:"0"`
	// SetBonus is added for every set won, win or lose.
	SetBonus int `json:"set_bonus" envconfig:"POINTS_SET_BONUS" default:"0"`
}

func DefaultScheme() PointsScheme {
	return PointsScheme{Win: 1}
}

type pair struct{ a, b int }

type tally struct {
	rows    map[int]*models.StandingRow
	h2hWins map[pair]int
	played  map[pair]bool
}

// Compute returns the ranked table for group. Only completed group-stage matches between
// two members of the group are counted; everything else is ignored, except that a completed
// match lacking scores or a resolved participant fails with *IncompleteMatchError.
func Compute(group models.Group, matches []models.Match, scheme PointsScheme) ([]models.StandingRow, error) {
	t := tally{
		rows:    make(map[int]*models.StandingRow, len(group.ParticipantIDs)),
		h2hWins: make(map[pair]int),
		played:  make(map[pair]bool),
	}
	for _, id := range group.ParticipantIDs {
		t.rows[id] = &models.StandingRow{ParticipantID: id, GroupID: group.ID}
	}

	for i := range matches {
		m := &matches[i]
		if !countsFor(group, m) {
			continue
		}
		if !m.Resolved() {
			return nil, &IncompleteMatchError{MatchNumber: m.MatchNumber, Reason: models.ErrUnresolvedSlot}
		}
		p1, ok1 := m.Slot1.ParticipantID()
		p2, ok2 := m.Slot2.ParticipantID()
		if !ok1 || !ok2 || !group.Has(p1) || !group.Has(p2) {
			continue
		}
		winner, err := m.Winner()
		if err != nil {
			return nil, &IncompleteMatchError{MatchNumber: m.MatchNumber, Reason: err}
		}
		t.record(p1, p2, winner, m.Sets, scheme)
	}

	table := make([]models.StandingRow, 0, len(t.rows))
	for _, id := range group.ParticipantIDs {
		table = append(table, *t.rows[id])
	}
	t.rank(table)
	return table, nil
}

// ComputeGroup is Compute plus the group's completion flag.
func ComputeGroup(group models.Group, matches []models.Match, scheme PointsScheme) (models.GroupStanding, error) {
	rows, err := Compute(group, matches, scheme)
	if err != nil {
		return models.GroupStanding{}, err
	}
	return models.GroupStanding{Group: group, Rows: rows, Complete: Complete(group, matches)}, nil
}

// Complete reports whether every pair of group members has a settled match and no
// group-stage match among them is still open.
func Complete(group models.Group, matches []models.Match) bool {
	if len(group.ParticipantIDs) < 2 {
		return false
	}
	settled := make(map[pair]bool)
	for i := range matches {
		m := &matches[i]
		if !isGroupRound(m) || (m.GroupID != nil && *m.GroupID != group.ID) {
			continue
		}
		p1, ok1 := m.Slot1.ParticipantID()
		p2, ok2 := m.Slot2.ParticipantID()
		if !ok1 || !ok2 || !group.Has(p1) || !group.Has(p2) {
			continue
		}
		switch m.Status {
		case models.StatusCompleted, models.StatusCancelled:
			settled[key(p1, p2)] = true
		default:
			return false
		}
	}
	ids := group.ParticipantIDs
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if !settled[key(ids[i], ids[j])] {
				return false
			}
		}
	}
	return true
}

func isGroupRound(m *models.Match) bool {
	return m.Round == models.RoundGroupStage || m.Round == models.RoundLeagueStage
}

func countsFor(group models.Group, m *models.Match) bool {
	if m.Status != models.StatusCompleted || !isGroupRound(m) {
		return false
	}
	return m.GroupID == nil || *m.GroupID == group.ID
}

func key(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

func (t *tally) record(p1, p2, winner int, sets models.SetScores, scheme PointsScheme) {
	r1, r2 := t.rows[p1], t.rows[p2]
	r1.Played++
	r2.Played++
	for _, s := range sets {
		r1.GamesWon += s.Side1
		r1.GamesLost += s.Side2
		r2.GamesWon += s.Side2
		r2.GamesLost += s.Side1
		if s.Side1 > s.Side2 {
			r1.SetsWon++
			r2.SetsLost++
			r1.Points += scheme.SetBonus
		} else {
			r2.SetsWon++
			r1.SetsLost++
			r2.Points += scheme.SetBonus
		}
	}

	w, l := r1, r2
	if winner == 2 {
		w, l = r2, r1
	}
	w.Won++
	l.Lost++
	w.Points += scheme.Win
	l.Points += scheme.Loss
	t.h2hWins[pair{w.ParticipantID, l.ParticipantID}]++
	t.played[key(p1, p2)] = true
}

func (t *tally) rank(table []models.StandingRow) {
	slices.SortFunc(table, func(a, b models.StandingRow) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.SetDifference(), a.SetDifference()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.GameDifference(), a.GameDifference()); c != 0 {
			return c
		}
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})

	// head-to-head only settles a tie of exactly two participants on points
	for start := 0; start < len(table); {
		end := start + 1
		for end < len(table) && table[end].Points == table[start].Points {
			end++
		}
		if end-start == 2 {
			a, b := table[start].ParticipantID, table[start+1].ParticipantID
			if t.played[key(a, b)] && t.h2hWins[pair{b, a}] > t.h2hWins[pair{a, b}] {
				table[start], table[start+1] = table[start+1], table[start]
			}
		}
		start = end
	}

	for i := range table {
		table[i].Rank = i + 1
	}
}
