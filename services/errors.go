package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidStatusTransition = errors.New("invalid match status transition")
	ErrMatchNotPlayable        = errors.New("match participants are not resolved yet")
	ErrConflict                = errors.New("conflicting change")

	ErrTournamentNotFound = fmt.Errorf("tournament %w", ErrNotFound)
	ErrCategoryNotFound   = fmt.Errorf("category %w", ErrNotFound)
	ErrMatchNotFound      = fmt.Errorf("match %w", ErrNotFound)
	ErrLeagueNotFound     = fmt.Errorf("league %w", ErrNotFound)
)
