package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type SlotKind string

const (
	SlotResolved         SlotKind = "resolved"
	SlotPendingFeeder    SlotKind = "pending_feeder"
	SlotPendingQualifier SlotKind = "pending_qualifier"
	SlotBye              SlotKind = "bye"
)

type Outcome string

const (
	OutcomeWinner Outcome = "winner"
	OutcomeLoser  Outcome = "loser"
)

// Slot is one side of a match. Exactly one variant is populated, selected by Kind:
//
//	resolved:          ParticipantIDs (one id, or two for crossed individual pairs)
//	pending_feeder:    FeederMatchNumber + Outcome ("Winner of SF1")
//	pending_qualifier: GroupID + Position ("2nd of group B")
//	bye:               nothing; the opposite side advances without playing
type Slot struct {
	Kind              SlotKind `json:"kind"`
	ParticipantIDs    []int    `json:"participant_ids,omitempty"`
	FeederMatchNumber int      `json:"feeder_match_number,omitempty"`
	Outcome           Outcome  `json:"outcome,omitempty"`
	GroupID           int      `json:"group_id,omitempty"`
	Position          int      `json:"position,omitempty"`
	Label             string   `json:"label,omitempty"`
}

func ResolvedSlot(ids ...int) Slot {
	return Slot{Kind: SlotResolved, ParticipantIDs: slices.Clone(ids)}
}

func FeederSlot(matchNumber int, o Outcome, label string) Slot {
	return Slot{Kind: SlotPendingFeeder, FeederMatchNumber: matchNumber, Outcome: o, Label: label}
}

func QualifierSlot(groupID, position int, label string) Slot {
	return Slot{Kind: SlotPendingQualifier, GroupID: groupID, Position: position, Label: label}
}

func (s Slot) IsResolved() bool {
	return s.Kind == SlotResolved && len(s.ParticipantIDs) > 0
}

// ParticipantID returns the single participant of a resolved one-person side.
func (s Slot) ParticipantID() (int, bool) {
	if !s.IsResolved() || len(s.ParticipantIDs) != 1 {
		return 0, false
	}
	return s.ParticipantIDs[0], true
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotResolved:
		parts := make([]string, len(s.ParticipantIDs))
		for i, id := range s.ParticipantIDs {
			parts[i] = fmt.Sprintf("P%d", id)
		}
		return strings.Join(parts, "+")
	case SlotPendingFeeder, SlotPendingQualifier:
		if s.Label != "" {
			return s.Label
		}
		if s.Kind == SlotPendingFeeder {
			return fmt.Sprintf("%s of match %d", s.Outcome, s.FeederMatchNumber)
		}
		return fmt.Sprintf("#%d of group %d", s.Position, s.GroupID)
	case SlotBye:
		return "bye"
	}
	return "unknown"
}

func (s Slot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Slot) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func scanJSON(src interface{}, dst interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
	return json.Unmarshal(data, dst)
}
