package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotColumn(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
		json string
	}{
		{"resolved pair", ResolvedSlot(4, 9), `{"kind":"resolved","participant_ids":[4,9]}`},
		{"feeder", FeederSlot(7, OutcomeLoser, "Loser of SF1"),
			`{"kind":"pending_feeder","feeder_match_number":7,"outcome":"loser","label":"Loser of SF1"}`},
		{"qualifier", QualifierSlot(12, 2, "2nd of B"),
			`{"kind":"pending_qualifier","group_id":12,"position":2,"label":"2nd of B"}`},
		{"bye", Slot{Kind: SlotBye}, `{"kind":"bye"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.slot.Value()
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(v.([]byte)))

			var fromBytes, fromText Slot
			require.NoError(t, fromBytes.Scan(v))
			require.NoError(t, fromText.Scan(tt.json))
			assert.Equal(t, tt.slot, fromBytes)
			assert.Equal(t, tt.slot, fromText)
		})
	}
}

func TestSlotScanEdgeCases(t *testing.T) {
	s := ResolvedSlot(3)
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, ResolvedSlot(3), s, "NULL leaves the slot untouched")

	err := s.Scan(int64(3))
	assert.ErrorContains(t, err, "cannot scan int64")

	assert.Error(t, s.Scan([]byte(`{"kind":`)))
}

func TestSlotResolution(t *testing.T) {
	id, ok := ResolvedSlot(5).ParticipantID()
	assert.True(t, ok)
	assert.Equal(t, 5, id)

	_, ok = ResolvedSlot(4, 9).ParticipantID()
	assert.False(t, ok, "a pair has no single participant")

	assert.False(t, Slot{Kind: SlotResolved}.IsResolved())
	assert.False(t, QualifierSlot(12, 1, "").IsResolved())

	assert.Equal(t, "P4+P9", ResolvedSlot(4, 9).String())
	assert.Equal(t, "winner of match 7", FeederSlot(7, OutcomeWinner, "").String())
	assert.Equal(t, "#2 of group 12", QualifierSlot(12, 2, "").String())
	assert.Equal(t, "bye", Slot{Kind: SlotBye}.String())
}
