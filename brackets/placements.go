package brackets

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Dosada05/tournament-progression/models"
)

// CategoryComplete reports whether the category has nothing left to play: every match of
// its final stage is completed or cancelled, and at least one exists.
func CategoryComplete(cat models.Category, matches []models.Match) bool {
	knockout := cat.Format != models.FormatGroupOnly && cat.KnockoutStage
	found := false
	for i := range matches {
		m := &matches[i]
		if !m.InCategory(cat.ID) || m.Round.IsKnockout() != knockout {
			continue
		}
		found = true
		if m.Status != models.StatusCompleted && m.Status != models.StatusCancelled {
			return false
		}
	}
	return found
}

// Partners maps each half of a crossed pair to the other half, in both directions.
func Partners(categories []models.Category) map[int]int {
	out := make(map[int]int)
	for _, c := range categories {
		if c.Format.Crossed() && c.PairedCategoryID != nil && *c.PairedCategoryID != c.ID {
			out[c.ID] = *c.PairedCategoryID
			out[*c.PairedCategoryID] = c.ID
		}
	}
	return out
}

// KnockoutOwner returns the category whose id the knockout matches of cat's pair carry:
// cat itself unless only its partner has knockout matches.
func KnockoutOwner(cat models.Category, partners map[int]int, matches []models.Match) int {
	partner, ok := partners[cat.ID]
	if !ok || countRounds(matches, cat.ID, models.RoundTag.IsKnockout) > 0 {
		return cat.ID
	}
	if countRounds(matches, partner, models.RoundTag.IsKnockout) > 0 {
		return partner
	}
	return cat.ID
}

// CategoryFinished is CategoryComplete for a category that may be the half of a crossed
// pair. A half whose knockout stage is owned by its partner is finished once its own group
// stage is; the shared knockout is judged with the owner.
func CategoryFinished(cat models.Category, partners map[int]int, matches []models.Match) bool {
	if KnockoutOwner(cat, partners, matches) == cat.ID {
		return CategoryComplete(cat, matches)
	}
	groups := cat
	groups.KnockoutStage = false
	return CategoryComplete(groups, matches)
}

// losersPosition is the shared position of the losers of each knockout round.
var losersPosition = map[models.RoundTag]int{
	models.RoundSemifinal:        3,
	models.RoundCrossedSemifinal: 3,
	models.RoundQuarterfinal:     5,
	models.RoundOf16:             9,
	models.RoundOf32:             17,
}

// Placements returns the final positions of a finished category. Knockout categories are
// placed by the final, the 3rd-place match and the round each participant went out in;
// group_only categories by group rank. Both players of a pair share the pair's position.
func Placements(cat models.Category, matches []models.Match, groups []models.GroupStanding) ([]models.Placement, error) {
	if !CategoryComplete(cat, matches) {
		return nil, fmt.Errorf("category %d: %w", cat.ID, ErrCategoryOpen)
	}

	positions := make(map[int]int)
	place := func(s models.Slot, pos int) {
		for _, id := range s.ParticipantIDs {
			if cur, ok := positions[id]; !ok || pos < cur {
				positions[id] = pos
			}
		}
	}

	if cat.Format == models.FormatGroupOnly || !cat.KnockoutStage {
		for _, g := range groups {
			for _, row := range g.Rows {
				positions[row.ParticipantID] = row.Rank
			}
		}
	} else {
		hasThird := false
		for i := range matches {
			r := matches[i].Round
			if matches[i].InCategory(cat.ID) && (r == models.RoundThirdPlace || r == models.RoundCrossedThird) {
				hasThird = matches[i].Status == models.StatusCompleted
			}
		}
		for i := range matches {
			m := &matches[i]
			if !m.InCategory(cat.ID) || m.Status != models.StatusCompleted || !m.Round.IsKnockout() {
				continue
			}
			winner, err := m.Outcome(models.OutcomeWinner)
			if err != nil {
				return nil, err
			}
			loser, err := m.Outcome(models.OutcomeLoser)
			if err != nil {
				return nil, err
			}
			switch m.Round {
			case models.RoundFinal, models.RoundCrossedFinal:
				place(winner, 1)
				place(loser, 2)
			case models.RoundThirdPlace, models.RoundCrossedThird:
				place(winner, 3)
				place(loser, 4)
			case models.RoundSemifinal, models.RoundCrossedSemifinal:
				if !hasThird {
					place(loser, 3)
				}
			default:
				place(loser, losersPosition[m.Round])
			}
		}
	}

	out := make([]models.Placement, 0, len(positions))
	for id, pos := range positions {
		out = append(out, models.Placement{
			TournamentID:  cat.TournamentID,
			CategoryID:    cat.ID,
			ParticipantID: id,
			Position:      pos,
		})
	}
	slices.SortFunc(out, func(a, b models.Placement) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})
	return out, nil
}
