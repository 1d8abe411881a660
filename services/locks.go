package services

import "sync"

// TournamentLocks serialises structural writes (generation, result entry, placeholder
// resolution) per tournament. Different tournaments never wait on each other.
type TournamentLocks struct {
	mu    sync.Mutex
	locks map[int]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func NewTournamentLocks() *TournamentLocks {
	return &TournamentLocks{locks: make(map[int]*refLock)}
}

// Lock blocks until the tournament is free and returns the matching unlock.
func (t *TournamentLocks) Lock(tournamentID int) func() {
	t.mu.Lock()
	l, ok := t.locks[tournamentID]
	if !ok {
		l = &refLock{}
		t.locks[tournamentID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, tournamentID)
		}
		t.mu.Unlock()
	}
}

func (t *TournamentLocks) held() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
