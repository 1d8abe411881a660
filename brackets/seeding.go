package brackets

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Dosada05/tournament-progression/models"
)

// entry is one qualifier: a resolved participant, or a pending "Nth of group X" slot when
// the group has not finished yet.
type entry struct {
	slot     models.Slot
	groupID  int
	position int
	half     models.Half
}

func (e entry) node() *node {
	return &node{slot: e.slot, groupID: e.groupID}
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func sortedGroups(groups []models.GroupStanding) []models.GroupStanding {
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b models.GroupStanding) int {
		if c := cmp.Compare(a.Group.Half, b.Group.Half); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Group.Name, b.Group.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Group.ID, b.Group.ID)
	})
	return out
}

// qualifiers takes the top perGroup of every group, position-major: all group winners in
// group order, then all runners-up, and so on.
func qualifiers(categoryID int, groups []models.GroupStanding, perGroup int) ([]entry, error) {
	if perGroup < 1 {
		perGroup = 1
	}
	groups = sortedGroups(groups)

	required := perGroup * len(groups)
	available := 0
	var short []string
	for _, g := range groups {
		n := min(len(g.Rows), perGroup)
		available += n
		if n < perGroup {
			short = append(short, fmt.Sprintf("%s has %d", g.Group.Label(), len(g.Rows)))
		}
	}
	if len(groups) == 0 || available < required {
		e := &InsufficientQualifiersError{CategoryID: categoryID, Required: required, Available: available}
		if len(short) > 0 {
			e.Detail = fmt.Sprint(short)
		}
		if len(groups) == 0 {
			e.Detail = "no groups"
		}
		return nil, e
	}

	entries := make([]entry, 0, required)
	for pos := 1; pos <= perGroup; pos++ {
		for _, g := range groups {
			entries = append(entries, qualifierEntry(g, pos))
		}
	}
	return entries, nil
}

func qualifierEntry(g models.GroupStanding, pos int) entry {
	e := entry{groupID: g.Group.ID, position: pos, half: g.Group.Half}
	if row, ok := g.At(pos); ok && g.Complete {
		e.slot = models.ResolvedSlot(row.ParticipantID)
		return e
	}
	e.slot = models.QualifierSlot(g.Group.ID, pos, fmt.Sprintf("%s of %s", ordinal(pos), g.Group.Label()))
	return e
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// seedPositions returns 1-based seeds in bracket order so that seed 1 and seed 2 can only
// meet in the final: 4 → [1 4 2 3], 8 → [1 8 4 5 2 7 3 6].
func seedPositions(size int) []int {
	positions := []int{1}
	for len(positions) < size {
		total := len(positions)*2 + 1
		expanded := make([]int, 0, len(positions)*2)
		for _, s := range positions {
			expanded = append(expanded, s, total-s)
		}
		positions = expanded
	}
	return positions
}

// seededLeaves places seeds into a full bracket, padding the lowest seeds' opponents with byes.
func seededLeaves(seeds []*node) []*node {
	size := nextPowerOfTwo(max(len(seeds), 2))
	leaves := make([]*node, 0, size)
	for _, pos := range seedPositions(size) {
		if pos <= len(seeds) {
			leaves = append(leaves, seeds[pos-1])
		} else {
			leaves = append(leaves, byeNode())
		}
	}
	return leaves
}

func sameGroup(a, b *node) bool {
	return !a.isByePlaceholder && !b.isByePlaceholder && a.groupID != 0 && a.groupID == b.groupID
}

// separateGroups swaps the lower-seeded side of first-round pairings so that no pairing
// is between two members of the same group, whenever another pairing allows the swap.
func separateGroups(leaves []*node) {
	pairs := len(leaves) / 2
	for k := 0; k < pairs; k++ {
		if !sameGroup(leaves[2*k], leaves[2*k+1]) {
			continue
		}
		for step := 1; step < pairs; step++ {
			j := (k + step) % pairs
			hi, lo := leaves[2*j], leaves[2*j+1]
			if hi.isByePlaceholder || lo.isByePlaceholder {
				continue
			}
			if sameGroup(leaves[2*k], lo) || sameGroup(hi, leaves[2*k+1]) {
				continue
			}
			leaves[2*k+1], leaves[2*j+1] = leaves[2*j+1], leaves[2*k+1]
			break
		}
	}
}
