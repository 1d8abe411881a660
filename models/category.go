package models

import "fmt"

type CategoryFormat string

const (
	FormatGroupOnly       CategoryFormat = "group_only"
	FormatGroupKnockout   CategoryFormat = "group_knockout"
	FormatKnockoutOnly    CategoryFormat = "knockout_only"
	FormatCrossedPlayoffs CategoryFormat = "crossed_playoffs"
	FormatMixedGender     CategoryFormat = "mixed_gender"
)

func (f CategoryFormat) Valid() bool {
	switch f {
	case FormatGroupOnly, FormatGroupKnockout, FormatKnockoutOnly, FormatCrossedPlayoffs, FormatMixedGender:
		return true
	}
	return false
}

// Crossed reports whether knockout pairings span the two halves of the category.
func (f CategoryFormat) Crossed() bool {
	return f == FormatCrossedPlayoffs || f == FormatMixedGender
}

type Category struct {
	ID                 int            `json:"id" db:"id"`
	TournamentID       int            `json:"tournament_id" db:"tournament_id"`
	Name               string         `json:"name" db:"name"`
	Format             CategoryFormat `json:"format" db:"format"`
	NumberOfGroups     int            `json:"number_of_groups" db:"number_of_groups"`
	KnockoutStage      bool           `json:"knockout_stage" db:"knockout_stage"`
	QualifiersPerGroup int            `json:"qualifiers_per_group" db:"qualifiers_per_group"`
	// PairedCategoryID links the other half of a crossed or mixed category.
	PairedCategoryID *int `json:"paired_category_id,omitempty" db:"paired_category_id"`

	Groups []Group `json:"groups,omitempty" db:"-"`
}

// Half distinguishes the two independent halves of a crossed category
// (for mixed_gender: HalfA = men, HalfB = women).
type Half int

const (
	HalfA Half = 0
	HalfB Half = 1
)

func (h Half) String() string {
	if h == HalfB {
		return "B"
	}
	return "A"
}

type Group struct {
	ID             int    `json:"id" db:"id"`
	CategoryID     int    `json:"category_id" db:"category_id"`
	Name           string `json:"name" db:"name"`
	Half           Half   `json:"half" db:"half"`
	ParticipantIDs []int  `json:"participant_ids" db:"-"`
}

func (g Group) Label() string {
	if g.Name != "" {
		return g.Name
	}
	return fmt.Sprintf("group %d", g.ID)
}

func (g Group) Has(participantID int) bool {
	for _, id := range g.ParticipantIDs {
		if id == participantID {
			return true
		}
	}
	return false
}
