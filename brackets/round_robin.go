package brackets

import (
	"fmt"
	"slices"

	"github.com/Dosada05/tournament-progression/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates the group-stage matches of every group in the category.
// With one leg each member plays every other member once; with two legs, twice.
func (g *RoundRobinGenerator) GenerateBracket(params GenerateBracketParams) ([]*BracketMatch, error) {
	legs := params.Legs
	if legs != 2 {
		legs = 1
	}

	matches := make([]*BracketMatch, 0)
	for _, group := range params.Category.Groups {
		ids := group.ParticipantIDs
		if len(ids) < 2 {
			return nil, fmt.Errorf("%s: %w (found %d, min 2 required)", group.Label(), ErrNotEnoughForSchedule, len(ids))
		}
		groupID := group.ID
		order := 0
		for leg := 1; leg <= legs; leg++ {
			for i := 0; i < len(ids); i++ {
				for j := i + 1; j < len(ids); j++ {
					p1, p2 := ids[i], ids[j]
					if leg == 2 {
						p1, p2 = p2, p1
					}
					order++
					matches = append(matches, &BracketMatch{
						UID:          fmt.Sprintf("G%d-L%d-P%dvP%d", groupID, leg, p1, p2),
						Round:        models.RoundGroupStage,
						OrderInRound: order,
						GroupID:      &groupID,
						Slot1:        models.ResolvedSlot(p1),
						Slot2:        models.ResolvedSlot(p2),
					})
				}
			}
		}
	}
	return matches, nil
}

// ValidateGroupAssignments fails with *UnassignedParticipantsError when a participant of the
// category is not a member of any of its groups.
func ValidateGroupAssignments(cat models.Category, participantIDs []int) error {
	var missing []int
	for _, id := range participantIDs {
		found := slices.ContainsFunc(cat.Groups, func(g models.Group) bool { return g.Has(id) })
		if !found {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &UnassignedParticipantsError{CategoryID: cat.ID, ParticipantIDs: missing}
	}
	return nil
}

// GenerateGroupStage returns the round-robin matches of every group of the category,
// numbered and scheduled the same way as the knockout stage.
func GenerateGroupStage(cat models.Category, participantIDs []int, existing []models.Match, cfg Config) ([]models.Match, error) {
	if !cat.Format.Valid() {
		return nil, &UnsupportedFormatError{CategoryID: cat.ID, Format: cat.Format}
	}
	if cat.Format == models.FormatKnockoutOnly {
		return nil, &UnsupportedFormatError{CategoryID: cat.ID, Format: cat.Format, Reason: "has no group stage"}
	}
	if len(cat.Groups) == 0 {
		return nil, fmt.Errorf("category %d: %w: no groups", cat.ID, ErrNotEnoughForSchedule)
	}
	isGroup := func(r models.RoundTag) bool { return r == models.RoundGroupStage }
	if n := countRounds(existing, cat.ID, isGroup); n > 0 {
		return nil, &DuplicateGenerationError{CategoryID: cat.ID, Stage: "group", ExistingMatches: n}
	}
	if err := ValidateGroupAssignments(cat, participantIDs); err != nil {
		return nil, err
	}

	bracket, err := NewRoundRobinGenerator().GenerateBracket(GenerateBracketParams{Category: cat, Legs: cfg.GroupLegs})
	if err != nil {
		return nil, err
	}
	return finalize(cat, bracket, existing, cfg)
}
