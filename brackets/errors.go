package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-progression/models"
)

var (
	ErrGroupStageOpen       = errors.New("group stage is not finished")
	ErrInvalidCrossing      = errors.New("crossed match does not have the required distinct participants")
	ErrScheduleOverride     = errors.New("schedule override does not cover every generated match")
	ErrFeederNotCompleted   = errors.New("feeder match is not completed")
	ErrNotEnoughForSchedule = errors.New("not enough participants to build a schedule")
	ErrCategoryOpen         = errors.New("category still has matches to play")
	ErrInvalidSeeds         = errors.New("seeds must be distinct participants of the category")
)

// InsufficientQualifiersError means fewer ranked participants exist than knockout slots.
type InsufficientQualifiersError struct {
	CategoryID int
	Required   int
	Available  int
	Detail     string
}

func (e *InsufficientQualifiersError) Error() string {
	msg := fmt.Sprintf("category %d has %d qualifying slots but only %d ranked participants",
		e.CategoryID, e.Required, e.Available)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

type UnsupportedFormatError struct {
	CategoryID int
	Format     models.CategoryFormat
	Reason     string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("category %d: format %q %s", e.CategoryID, e.Format, e.Reason)
	}
	return fmt.Sprintf("category %d: unsupported format %q", e.CategoryID, e.Format)
}

// DuplicateGenerationError is returned when the category already has matches of the stage
// being generated. It is a benign no-op, not a failure.
type DuplicateGenerationError struct {
	CategoryID      int
	Stage           string
	ExistingMatches int
}

func (e *DuplicateGenerationError) Error() string {
	stage := e.Stage
	if stage == "" {
		stage = "knockout"
	}
	return fmt.Sprintf("%s stage already generated for category %d (%d existing matches)",
		stage, e.CategoryID, e.ExistingMatches)
}

// UnassignedParticipantsError lists participants of a grouped category that belong to no group.
type UnassignedParticipantsError struct {
	CategoryID     int
	ParticipantIDs []int
}

func (e *UnassignedParticipantsError) Error() string {
	return fmt.Sprintf("category %d has %d participants without a group: %v",
		e.CategoryID, len(e.ParticipantIDs), e.ParticipantIDs)
}
