package league

import "fmt"

// UnresolvedEntityError reports a placement whose participant has no entity link, so its
// points went to nobody.
type UnresolvedEntityError struct {
	TournamentID  int `json:"tournament_id"`
	CategoryID    int `json:"category_id"`
	ParticipantID int `json:"participant_id"`
	Position      int `json:"position"`
	Points        int `json:"points"`
}

func (e *UnresolvedEntityError) Error() string {
	return fmt.Sprintf("participant %d (tournament %d, category %d, position %d) has no entity link: %d league points not attributed",
		e.ParticipantID, e.TournamentID, e.CategoryID, e.Position, e.Points)
}
