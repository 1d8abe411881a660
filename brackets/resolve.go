package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-progression/models"
)

// ResolvePlaceholder substitutes every slot waiting on feeder ("Winner of SF1") with the
// concrete participant the feeder produced, and returns the matches that changed. A match
// whose two slots are now concrete moves from pending_qualification to scheduled.
// Running it again for the same feeder changes nothing.
func ResolvePlaceholder(feeder models.Match, matches []models.Match) ([]models.Match, error) {
	if feeder.Status != models.StatusCompleted {
		return nil, fmt.Errorf("match %d: %w", feeder.MatchNumber, ErrFeederNotCompleted)
	}

	var changed []models.Match
	for _, m := range matches {
		if m.TournamentID != feeder.TournamentID || m.MatchNumber == feeder.MatchNumber {
			continue
		}
		touched := false
		for _, slot := range []*models.Slot{&m.Slot1, &m.Slot2} {
			if slot.Kind != models.SlotPendingFeeder || slot.FeederMatchNumber != feeder.MatchNumber {
				continue
			}
			resolved, err := feeder.Outcome(slot.Outcome)
			if err != nil {
				return nil, err
			}
			*slot = resolved
			touched = true
		}
		if !touched {
			continue
		}
		if err := promote(&m); err != nil {
			return nil, err
		}
		changed = append(changed, m)
	}
	return changed, nil
}

// ResolveGroupQualifiers substitutes "Nth of group X" slots for groups whose stage has
// finished, and returns the matches that changed.
func ResolveGroupQualifiers(matches []models.Match, groups []models.GroupStanding) ([]models.Match, error) {
	byGroup := make(map[int]models.GroupStanding, len(groups))
	for _, g := range groups {
		byGroup[g.Group.ID] = g
	}

	var changed []models.Match
	for _, m := range matches {
		touched := false
		for _, slot := range []*models.Slot{&m.Slot1, &m.Slot2} {
			if slot.Kind != models.SlotPendingQualifier {
				continue
			}
			g, ok := byGroup[slot.GroupID]
			if !ok || !g.Complete {
				continue
			}
			row, ok := g.At(slot.Position)
			if !ok {
				return nil, &InsufficientQualifiersError{
					CategoryID: g.Group.CategoryID,
					Required:   slot.Position,
					Available:  len(g.Rows),
					Detail:     g.Group.Label(),
				}
			}
			*slot = models.ResolvedSlot(row.ParticipantID)
			touched = true
		}
		if !touched {
			continue
		}
		if err := promote(&m); err != nil {
			return nil, err
		}
		changed = append(changed, m)
	}
	return changed, nil
}

func promote(m *models.Match) error {
	if !m.Resolved() || m.Status == models.StatusScheduled {
		return nil
	}
	if !models.CanTransition(m.Status, models.StatusScheduled) {
		return fmt.Errorf("match %d: %w: %s -> %s", m.MatchNumber, models.ErrInvalidStatusChange, m.Status, models.StatusScheduled)
	}
	m.Status = models.StatusScheduled
	return nil
}
