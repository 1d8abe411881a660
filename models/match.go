package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type MatchStatus string

const (
	StatusPendingQualification MatchStatus = "pending_qualification"
	StatusScheduled            MatchStatus = "scheduled"
	StatusInProgress           MatchStatus = "in_progress"
	StatusCompleted            MatchStatus = "completed"
	StatusCancelled            MatchStatus = "cancelled"
)

// RoundTag is a closed enumeration; anything outside it is rejected.
type RoundTag string

const (
	RoundGroupStage       RoundTag = "group_stage"
	RoundOf32             RoundTag = "round_of_32"
	RoundOf16             RoundTag = "round_of_16"
	RoundQuarterfinal     RoundTag = "quarterfinal"
	RoundSemifinal        RoundTag = "semifinal"
	RoundFinal            RoundTag = "final"
	RoundThirdPlace       RoundTag = "3rd_place"
	RoundLeagueStage      RoundTag = "league_stage"
	RoundCrossedSemifinal RoundTag = "crossed_semifinal"
	RoundCrossedFinal     RoundTag = "crossed_final"
	RoundCrossedThird     RoundTag = "crossed_3rd_place"
)

// MaxSets bounds the per-match set list.
const MaxSets = 5

var (
	ErrInvalidRound        = errors.New("invalid round tag")
	ErrMissingCategory     = errors.New("match has no category id")
	ErrUnresolvedSlot      = errors.New("match has an unresolved participant slot")
	ErrMissingScores       = errors.New("match has no set scores")
	ErrIncoherentScore     = errors.New("set scores do not determine a winner")
	ErrTooManySets         = errors.New("match has more sets than allowed")
	ErrInvalidStatusChange = errors.New("invalid match status transition")
)

var validRounds = map[RoundTag]bool{
	RoundGroupStage: true, RoundOf32: true, RoundOf16: true, RoundQuarterfinal: true,
	RoundSemifinal: true, RoundFinal: true, RoundThirdPlace: true, RoundLeagueStage: true,
	RoundCrossedSemifinal: true, RoundCrossedFinal: true, RoundCrossedThird: true,
}

func (r RoundTag) Valid() bool {
	return validRounds[r]
}

// IsKnockout reports whether the round belongs to a knockout tree.
func (r RoundTag) IsKnockout() bool {
	return r.Valid() && r != RoundGroupStage && r != RoundLeagueStage
}

func ParseRoundTag(s string) (RoundTag, error) {
	r := RoundTag(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRound, s)
	}
	return r, nil
}

type SetScore struct {
	Side1 int `json:"side1"`
	Side2 int `json:"side2"`
}

// SetScores is stored as a JSONB array.
type SetScores []SetScore

func (s SetScores) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *SetScores) Scan(src interface{}) error {
	return scanJSON(src, s)
}

type Match struct {
	ID            int         `json:"id" db:"id"`
	TournamentID  int         `json:"tournament_id" db:"tournament_id"`
	CategoryID    *int        `json:"category_id" db:"category_id"`
	GroupID       *int        `json:"group_id,omitempty" db:"group_id"`
	Round         RoundTag    `json:"round" db:"round"`
	MatchNumber   int         `json:"match_number" db:"match_number"`
	BracketUID    string      `json:"bracket_uid,omitempty" db:"bracket_uid"`
	Slot1         Slot        `json:"slot1" db:"slot1"`
	Slot2         Slot        `json:"slot2" db:"slot2"`
	Court         *string     `json:"court,omitempty" db:"court"`
	ScheduledTime *time.Time  `json:"scheduled_time,omitempty" db:"scheduled_time"`
	Status        MatchStatus `json:"status" db:"status"`
	Sets          SetScores   `json:"sets" db:"sets"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// Resolved reports whether both slots name concrete participants.
func (m *Match) Resolved() bool {
	return m.Slot1.IsResolved() && m.Slot2.IsResolved()
}

func (m *Match) InCategory(categoryID int) bool {
	return m.CategoryID != nil && *m.CategoryID == categoryID
}

// Winner derives the winning side (1 or 2) from set scores.
func (m *Match) Winner() (int, error) {
	if len(m.Sets) == 0 {
		return 0, ErrMissingScores
	}
	if len(m.Sets) > MaxSets {
		return 0, ErrTooManySets
	}
	won1, won2 := 0, 0
	for _, s := range m.Sets {
		switch {
		case s.Side1 < 0 || s.Side2 < 0:
			return 0, fmt.Errorf("%w: negative games in set", ErrIncoherentScore)
		case s.Side1 > s.Side2:
			won1++
		case s.Side2 > s.Side1:
			won2++
		default:
			return 0, fmt.Errorf("%w: drawn set %d-%d", ErrIncoherentScore, s.Side1, s.Side2)
		}
	}
	switch {
	case won1 > won2:
		return 1, nil
	case won2 > won1:
		return 2, nil
	}
	return 0, ErrIncoherentScore
}

// Outcome returns the slot holding the winner or the loser of a completed match.
func (m *Match) Outcome(o Outcome) (Slot, error) {
	if m.Status != StatusCompleted {
		return Slot{}, fmt.Errorf("match %d is %s, not completed", m.MatchNumber, m.Status)
	}
	if !m.Resolved() {
		return Slot{}, fmt.Errorf("match %d: %w", m.MatchNumber, ErrUnresolvedSlot)
	}
	side, err := m.Winner()
	if err != nil {
		return Slot{}, fmt.Errorf("match %d: %w", m.MatchNumber, err)
	}
	if o == OutcomeLoser {
		side = 3 - side
	}
	if side == 1 {
		return m.Slot1, nil
	}
	return m.Slot2, nil
}

// Validate checks the record-level invariants every stored match must satisfy.
func (m *Match) Validate() error {
	if !m.Round.Valid() {
		return fmt.Errorf("match %d: %w: %q", m.MatchNumber, ErrInvalidRound, m.Round)
	}
	if m.CategoryID == nil {
		return fmt.Errorf("match %d: %w", m.MatchNumber, ErrMissingCategory)
	}
	if len(m.Sets) > MaxSets {
		return fmt.Errorf("match %d: %w", m.MatchNumber, ErrTooManySets)
	}
	if m.Status == StatusCompleted {
		if !m.Resolved() {
			return fmt.Errorf("match %d: completed with %w", m.MatchNumber, ErrUnresolvedSlot)
		}
		if _, err := m.Winner(); err != nil {
			return fmt.Errorf("match %d: %w", m.MatchNumber, err)
		}
	}
	return nil
}

var allowedMatchTransitions = map[MatchStatus][]MatchStatus{
	StatusPendingQualification: {StatusScheduled, StatusCancelled},
	StatusScheduled:            {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress:           {StatusCompleted, StatusCancelled},
	StatusCompleted:            {},
	StatusCancelled:            {},
}

func CanTransition(current, next MatchStatus) bool {
	if current == next {
		return true
	}
	for _, allowed := range allowedMatchTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}
