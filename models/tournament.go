package models

import "time"

type TournamentStatus string

const (
	TournamentScheduled TournamentStatus = "scheduled"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCancelled TournamentStatus = "cancelled"
)

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	LeagueID  *int             `json:"league_id,omitempty" db:"league_id"`
	StartDate time.Time        `json:"start_date" db:"start_date"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	Categories []Category `json:"categories,omitempty" db:"-"`
}
