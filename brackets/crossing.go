package brackets

import (
	"fmt"
	"slices"

	"github.com/Dosada05/tournament-progression/models"
)

// CrossingRule decides how qualifiers of a category are turned into first-round pairings.
type CrossingRule int

const (
	// CrossNone seeds all qualifiers into one bracket, keeping group mates apart.
	CrossNone CrossingRule = iota
	// CrossHalves pairs each qualifier of half A with the mirror-ranked qualifier of half B.
	CrossHalves
	// CrossMixedPairs builds one A+B team per rank and seeds the teams.
	CrossMixedPairs
)

func (r CrossingRule) String() string {
	switch r {
	case CrossHalves:
		return "halves"
	case CrossMixedPairs:
		return "mixed_pairs"
	}
	return "none"
}

func CrossingFor(format models.CategoryFormat) CrossingRule {
	switch format {
	case models.FormatCrossedPlayoffs:
		return CrossHalves
	case models.FormatMixedGender:
		return CrossMixedPairs
	}
	return CrossNone
}

func splitHalves(entries []entry) (a, b []entry) {
	for _, e := range entries {
		if e.half == models.HalfB {
			b = append(b, e)
		} else {
			a = append(a, e)
		}
	}
	return a, b
}

func checkHalves(categoryID int, a, b []entry) error {
	if len(a) == 0 || len(b) == 0 {
		return &InsufficientQualifiersError{
			CategoryID: categoryID,
			Required:   2 * max(len(a), len(b), 1),
			Available:  len(a) + len(b),
			Detail:     "both halves need qualifiers",
		}
	}
	if len(a) != len(b) {
		return fmt.Errorf("%w: half A has %d qualifiers, half B has %d", ErrInvalidCrossing, len(a), len(b))
	}
	return nil
}

// crossedLeaves pairs A[i] with B[n-1-i], so the best of one half meets the weakest
// qualifier of the other, and places the pairs by seed.
func crossedLeaves(categoryID int, entries []entry) ([]*node, error) {
	a, b := splitHalves(entries)
	if err := checkHalves(categoryID, a, b); err != nil {
		return nil, err
	}
	n := len(a)
	pairs := make([][2]*node, n)
	for i := range a {
		pairs[i] = [2]*node{a[i].node(), b[n-1-i].node()}
	}

	size := nextPowerOfTwo(n)
	leaves := make([]*node, 0, 2*size)
	for _, pos := range seedPositions(size) {
		if pos <= n {
			leaves = append(leaves, pairs[pos-1][0], pairs[pos-1][1])
		} else {
			leaves = append(leaves, byeNode(), byeNode())
		}
	}
	return leaves, nil
}

// mixedLeaves builds team k from the k-th ranked of half A and the (n+1-k)-th of half B.
// Every qualifier must already be a concrete participant.
func mixedLeaves(categoryID int, entries []entry) ([]*node, error) {
	a, b := splitHalves(entries)
	if err := checkHalves(categoryID, a, b); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.slot.IsResolved() {
			return nil, fmt.Errorf("category %d: %w: %s", categoryID, ErrGroupStageOpen, e.slot)
		}
	}
	n := len(a)
	teams := make([]*node, n)
	for k := range a {
		ids := append(slices.Clone(a[k].slot.ParticipantIDs), b[n-1-k].slot.ParticipantIDs...)
		teams[k] = &node{slot: models.ResolvedSlot(ids...)}
	}
	return seededLeaves(teams), nil
}

// validateCrossed checks every resolved crossed match names distinct participants on both
// sides and, for mixed teams, one player from each half per side.
func validateCrossed(rule CrossingRule, halfOf map[int]models.Half, matches []*BracketMatch) error {
	for _, bm := range matches {
		seen := make(map[int]bool, 4)
		for _, s := range []models.Slot{bm.Slot1, bm.Slot2} {
			if !s.IsResolved() {
				continue
			}
			if rule == CrossMixedPairs {
				if len(s.ParticipantIDs) != 2 {
					return fmt.Errorf("%w: %s side %s needs 2 players", ErrInvalidCrossing, bm.UID, s)
				}
				h1, ok1 := halfOf[s.ParticipantIDs[0]]
				h2, ok2 := halfOf[s.ParticipantIDs[1]]
				if !ok1 || !ok2 || h1 == h2 {
					return fmt.Errorf("%w: %s side %s is not one player per half", ErrInvalidCrossing, bm.UID, s)
				}
			}
			for _, id := range s.ParticipantIDs {
				if seen[id] {
					return fmt.Errorf("%w: %s repeats participant %d", ErrInvalidCrossing, bm.UID, id)
				}
				seen[id] = true
			}
		}
	}
	return nil
}
