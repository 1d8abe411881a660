package models

import "time"

type League struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type LeagueStanding struct {
	LeagueID          int       `json:"league_id" db:"league_id"`
	EntityID          int       `json:"entity_id" db:"entity_id"`
	Points            int       `json:"points" db:"points"`
	TournamentsPlayed int       `json:"tournaments_played" db:"tournaments_played"`
	Rank              int       `json:"rank" db:"rank"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Placement is a participant's final position in one category of a tournament.
type Placement struct {
	TournamentID  int `json:"tournament_id"`
	CategoryID    int `json:"category_id"`
	ParticipantID int `json:"participant_id"`
	Position      int `json:"position"`
}

// TournamentResult holds the final placements of a tournament belonging to a league.
type TournamentResult struct {
	TournamentID int         `json:"tournament_id"`
	LeagueID     int         `json:"league_id"`
	Complete     bool        `json:"complete"`
	Placements   []Placement `json:"placements"`
}
