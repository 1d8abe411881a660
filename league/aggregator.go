// Package league rebuilds league standings from the final placements of every completed
// tournament of the league.
package league

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"github.com/Dosada05/tournament-progression/models"
)

// Result is a full standings rebuild plus the placements that could not be attributed.
type Result struct {
	LeagueID    int                      `json:"league_id"`
	Standings   []models.LeagueStanding  `json:"standings"`
	Unresolved  []*UnresolvedEntityError `json:"unresolved"`
	Tournaments []int                    `json:"tournaments"`
}

// Err joins the unresolved placements, or returns nil when every placement was attributed.
func (r Result) Err() error {
	if len(r.Unresolved) == 0 {
		return nil
	}
	errs := make([]error, len(r.Unresolved))
	for i, u := range r.Unresolved {
		errs[i] = u
	}
	return errors.Join(errs...)
}

// Recompute rebuilds the standings of leagueID from scratch. Only results of that league
// marked complete count. A placement accrues points to every entity linked to its
// participant; a participant with no link is reported in Result.Unresolved.
//
// The output depends only on the inputs, never on their order.
func Recompute(leagueID int, results []models.TournamentResult, links []models.EntityLink, scale Scale) Result {
	entitiesOf := make(map[int][]int)
	for _, l := range links {
		if !slices.Contains(entitiesOf[l.ParticipantID], l.EntityID) {
			entitiesOf[l.ParticipantID] = append(entitiesOf[l.ParticipantID], l.EntityID)
		}
	}
	for _, ids := range entitiesOf {
		slices.Sort(ids)
	}

	placements := make(map[int][]models.Placement)
	for _, r := range results {
		if r.LeagueID == leagueID && r.Complete {
			placements[r.TournamentID] = append(placements[r.TournamentID], r.Placements...)
		}
	}

	res := Result{LeagueID: leagueID, Standings: []models.LeagueStanding{}, Unresolved: []*UnresolvedEntityError{}}
	res.Tournaments = slices.Sorted(maps.Keys(placements))
	if res.Tournaments == nil {
		res.Tournaments = []int{}
	}
	totals := make(map[int]*models.LeagueStanding)

	for _, tournamentID := range res.Tournaments {
		played := make(map[int]bool)
		seen := make(map[models.Placement]bool)
		for _, p := range placements[tournamentID] {
			p.TournamentID = tournamentID
			if seen[p] {
				continue
			}
			seen[p] = true

			points := scale.Points(p.Position)
			entities := entitiesOf[p.ParticipantID]
			if len(entities) == 0 {
				res.Unresolved = append(res.Unresolved, &UnresolvedEntityError{
					TournamentID:  tournamentID,
					CategoryID:    p.CategoryID,
					ParticipantID: p.ParticipantID,
					Position:      p.Position,
					Points:        points,
				})
				continue
			}
			for _, e := range entities {
				row, ok := totals[e]
				if !ok {
					row = &models.LeagueStanding{LeagueID: leagueID, EntityID: e}
					totals[e] = row
				}
				row.Points += points
				if !played[e] {
					played[e] = true
					row.TournamentsPlayed++
				}
			}
		}
	}

	for _, row := range totals {
		res.Standings = append(res.Standings, *row)
	}
	slices.SortFunc(res.Standings, func(a, b models.LeagueStanding) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(a.TournamentsPlayed, b.TournamentsPlayed); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	for i := range res.Standings {
		res.Standings[i].Rank = i + 1
	}

	slices.SortFunc(res.Unresolved, func(a, b *UnresolvedEntityError) int {
		if c := cmp.Compare(a.TournamentID, b.TournamentID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.CategoryID, b.CategoryID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ParticipantID, b.ParticipantID); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	return res
}
