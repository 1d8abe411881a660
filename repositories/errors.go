package repositories

import "errors"

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchNumberTaken   = errors.New("match number already used in tournament")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrLeagueNotFound     = errors.New("league not found")
	ErrConflict           = errors.New("conflicting row exists")
	ErrReferenceInvalid   = errors.New("referenced row does not exist")
)
