package models

// StandingRow is derived from completed matches and never stored authoritatively.
type StandingRow struct {
	ParticipantID int `json:"participant_id"`
	GroupID       int `json:"group_id"`
	Played        int `json:"played"`
	Won           int `json:"won"`
	Lost          int `json:"lost"`
	SetsWon       int `json:"sets_won"`
	SetsLost      int `json:"sets_lost"`
	GamesWon      int `json:"games_won"`
	GamesLost     int `json:"games_lost"`
	Points        int `json:"points"`
	Rank          int `json:"rank"`
}

func (r StandingRow) SetDifference() int {
	return r.SetsWon - r.SetsLost
}

func (r StandingRow) GameDifference() int {
	return r.GamesWon - r.GamesLost
}

// GroupStanding is a ranked group table plus whether every group-stage match is settled.
type GroupStanding struct {
	Group    Group         `json:"group"`
	Rows     []StandingRow `json:"rows"`
	Complete bool          `json:"complete"`
}

// At returns the row ranked at position (1-based).
func (g GroupStanding) At(position int) (StandingRow, bool) {
	if position < 1 || position > len(g.Rows) {
		return StandingRow{}, false
	}
	return g.Rows[position-1], true
}
