package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-progression/models"
)

// BracketMatch is a knockout match before match numbers and times are allocated.
type BracketMatch struct {
	UID          string
	Round        models.RoundTag
	OrderInRound int
	GroupID      *int

	Slot1 models.Slot
	Slot2 models.Slot

	SourceMatch1UID *string
	SourceMatch2UID *string

	IsPlaceholder bool
}

type node struct {
	slot             models.Slot
	groupID          int
	sourceMatchUID   *string
	isByePlaceholder bool
}

func byeNode() *node {
	return &node{slot: models.Slot{Kind: models.SlotBye}, isByePlaceholder: true}
}

func roundTag(size int, crossed bool) (models.RoundTag, string, error) {
	switch size {
	case 2:
		if crossed {
			return models.RoundCrossedFinal, "F", nil
		}
		return models.RoundFinal, "F", nil
	case 4:
		if crossed {
			return models.RoundCrossedSemifinal, "SF", nil
		}
		return models.RoundSemifinal, "SF", nil
	case 8:
		return models.RoundQuarterfinal, "QF", nil
	case 16:
		return models.RoundOf16, "R16-", nil
	case 32:
		return models.RoundOf32, "R32-", nil
	}
	return "", "", fmt.Errorf("no knockout round for a bracket of %d slots", size)
}

// buildTree plays the leaves off pairwise, round by round, until one node remains.
// Leaves must be in bracket order and their count a power of two. A participant facing a
// bye advances without a match being created.
func buildTree(leaves []*node, crossed, thirdPlace bool) ([]*BracketMatch, error) {
	n := len(leaves)
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("bracket needs a power-of-two number of leaves, got %d", n)
	}

	all := make([]*BracketMatch, 0, n)
	var semifinals []*BracketMatch
	current := leaves

	for len(current) > 1 {
		tag, prefix, err := roundTag(len(current), crossed)
		if err != nil {
			return nil, err
		}
		next := make([]*node, 0, len(current)/2)
		inRound := make([]*BracketMatch, 0, len(current)/2)

		for i := 0; i < len(current); i += 2 {
			node1, node2 := current[i], current[i+1]

			switch {
			case node1.isByePlaceholder && node2.isByePlaceholder:
				next = append(next, byeNode())
				continue
			case node2.isByePlaceholder:
				next = append(next, node1)
				continue
			case node1.isByePlaceholder:
				next = append(next, node2)
				continue
			}

			order := len(inRound) + 1
			uid := fmt.Sprintf("%s%d", prefix, order)
			if tag == models.RoundFinal || tag == models.RoundCrossedFinal {
				uid = prefix
			}
			bm := &BracketMatch{
				UID:             uid,
				Round:           tag,
				OrderInRound:    order,
				Slot1:           node1.slot,
				Slot2:           node2.slot,
				SourceMatch1UID: node1.sourceMatchUID,
				SourceMatch2UID: node2.sourceMatchUID,
			}
			bm.IsPlaceholder = !bm.Slot1.IsResolved() || !bm.Slot2.IsResolved()
			inRound = append(inRound, bm)

			matchUID := uid
			next = append(next, &node{
				slot:           models.FeederSlot(0, models.OutcomeWinner, "Winner of "+uid),
				sourceMatchUID: &matchUID,
			})
		}

		if len(current) == 4 {
			semifinals = inRound
		}
		all = append(all, inRound...)
		current = next
	}

	if current[0].isByePlaceholder || len(all) == 0 {
		return nil, fmt.Errorf("bracket of %d leaves produced no playable match", n)
	}

	if thirdPlace && len(semifinals) == 2 {
		tag := models.RoundThirdPlace
		if crossed {
			tag = models.RoundCrossedThird
		}
		sf1, sf2 := semifinals[0].UID, semifinals[1].UID
		all = append(all, &BracketMatch{
			UID:             "3P",
			Round:           tag,
			OrderInRound:    1,
			Slot1:           models.FeederSlot(0, models.OutcomeLoser, "Loser of "+sf1),
			Slot2:           models.FeederSlot(0, models.OutcomeLoser, "Loser of "+sf2),
			SourceMatch1UID: &sf1,
			SourceMatch2UID: &sf2,
			IsPlaceholder:   true,
		})
	}
	return all, nil
}
