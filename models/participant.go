package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Participant is an individual player or a fixed pair registered in one category.
// It is never mutated after creation.
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	CategoryID   int       `json:"category_id" db:"category_id"`
	GroupID      *int      `json:"group_id,omitempty" db:"group_id"`
	Name         string    `json:"name" db:"name"`
	Gender       *Gender   `json:"gender,omitempty" db:"gender"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// EntityLink is the auditable participant → durable identity mapping used for league points.
// A pair participant has one link per player.
type EntityLink struct {
	ParticipantID int       `json:"participant_id" db:"participant_id"`
	EntityID      int       `json:"entity_id" db:"entity_id"`
	Source        string    `json:"source" db:"source"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Entity is a durable identity (account) that outlives tournaments.
type Entity struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
