package standings

import "fmt"

// IncompleteMatchError reports a completed match that cannot be scored.
type IncompleteMatchError struct {
	MatchNumber int
	Reason      error
}

func (e *IncompleteMatchError) Error() string {
	return fmt.Sprintf("match %d cannot be counted in standings: %v", e.MatchNumber, e.Reason)
}

func (e *IncompleteMatchError) Unwrap() error {
	return e.Reason
}
