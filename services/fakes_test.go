package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Dosada05/tournament-progression/events"
	"github.com/Dosada05/tournament-progression/league"
	"github.com/Dosada05/tournament-progression/metrics"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/reconcile"
	"github.com/Dosada05/tournament-progression/repositories"
	"github.com/Dosada05/tournament-progression/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore backs every repository interface with maps, so services can be exercised
// without postgres.
type memStore struct {
	mu           sync.Mutex
	tournaments  map[int]models.Tournament
	categories   map[int]models.Category
	participants []models.Participant
	matches      []models.Match
	leagues      map[int]models.League
	standings    map[int][]models.LeagueStanding
	links        []models.EntityLink
	entities     []models.Entity
	nextID       int
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: make(map[int]models.Tournament),
		categories:  make(map[int]models.Category),
		leagues:     make(map[int]models.League),
		standings:   make(map[int][]models.LeagueStanding),
	}
}

func (s *memStore) addCategory(c models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
	for _, g := range c.Groups {
		for _, id := range g.ParticipantIDs {
			groupID := g.ID
			s.participants = append(s.participants, models.Participant{
				ID: id, TournamentID: c.TournamentID, CategoryID: c.ID, GroupID: &groupID,
			})
		}
	}
}

func (s *memStore) addMatches(ms ...models.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range ms {
		s.nextID++
		m.ID = s.nextID
		s.matches = append(s.matches, m)
	}
}

func (s *memStore) match(tournamentID, number int) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.TournamentID == tournamentID && m.MatchNumber == number {
			return m
		}
	}
	return models.Match{}
}

func (s *memStore) setMatch(m models.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.matches {
		if s.matches[i].TournamentID == m.TournamentID && s.matches[i].MatchNumber == m.MatchNumber {
			s.matches[i] = m
		}
	}
}

type fakeTx struct{}

func (fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type tournamentStore struct{ *memStore }

func (s tournamentStore) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (s tournamentStore) ListByLeague(_ context.Context, leagueID int, status *models.TournamentStatus) ([]models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Tournament
	for _, t := range s.tournaments {
		if t.LeagueID != nil && *t.LeagueID == leagueID && (status == nil || t.Status == *status) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b models.Tournament) int { return a.ID - b.ID })
	return out, nil
}

func (s tournamentStore) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	s.tournaments[id] = t
	return nil
}

type categoryStore struct{ *memStore }

func (s categoryStore) GetByID(_ context.Context, id int) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	c.Groups = slices.Clone(c.Groups)
	return &c, nil
}

func (s categoryStore) ListByTournament(_ context.Context, tournamentID int) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.TournamentID == tournamentID {
			c.Groups = slices.Clone(c.Groups)
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Category) int { return a.ID - b.ID })
	return out, nil
}

type participantStore struct{ *memStore }

func (s participantStore) ListByCategory(_ context.Context, categoryID int) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Participant
	for _, p := range s.participants {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s participantStore) ListByTournaments(_ context.Context, tournamentIDs []int) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Participant
	for _, p := range s.participants {
		if slices.Contains(tournamentIDs, p.TournamentID) {
			out = append(out, p)
		}
	}
	return out, nil
}

type matchStore struct{ *memStore }

func (s matchStore) List(_ context.Context, _ repositories.SQLExecutor, f repositories.MatchFilter) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Match
	for _, m := range s.matches {
		switch {
		case m.TournamentID != f.TournamentID:
		case f.CategoryID != nil && !m.InCategory(*f.CategoryID):
		case f.Round != nil && m.Round != *f.Round:
		case f.Status != nil && m.Status != *f.Status:
		default:
			out = append(out, m)
		}
	}
	return out, nil
}

func (s matchStore) GetByNumber(_ context.Context, _ repositories.SQLExecutor, tournamentID, matchNumber int) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.TournamentID == tournamentID && m.MatchNumber == matchNumber {
			return &m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (s matchStore) CreateBatch(_ context.Context, _ repositories.SQLExecutor, ms []models.Match) error {
	s.mu.Lock()
	for _, m := range ms {
		for _, existing := range s.matches {
			if existing.TournamentID == m.TournamentID && existing.MatchNumber == m.MatchNumber {
				s.mu.Unlock()
				return repositories.ErrMatchNumberTaken
			}
		}
	}
	s.mu.Unlock()
	s.addMatches(ms...)
	return nil
}

func (s matchStore) UpdateProgress(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.matches {
		if s.matches[i].TournamentID == m.TournamentID && s.matches[i].MatchNumber == m.MatchNumber {
			s.matches[i].Slot1 = m.Slot1
			s.matches[i].Slot2 = m.Slot2
			s.matches[i].Status = m.Status
			s.matches[i].Sets = m.Sets
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

type leagueStore struct{ *memStore }

func (s leagueStore) GetByID(_ context.Context, id int) (*models.League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	return &l, nil
}

func (s leagueStore) ListIDs(_ context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.leagues))
	for id := range s.leagues {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s leagueStore) ListStandings(_ context.Context, leagueID int) ([]models.LeagueStanding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.standings[leagueID]), nil
}

func (s leagueStore) ReplaceStandings(_ context.Context, _ repositories.SQLExecutor, leagueID int, rows []models.LeagueStanding, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]models.LeagueStanding, len(rows))
	for i, r := range rows {
		r.UpdatedAt = at
		stored[i] = r
	}
	s.standings[leagueID] = stored
	return nil
}

type entityStore struct{ *memStore }

func (s entityStore) ListLinks(_ context.Context, participantIDs []int) ([]models.EntityLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EntityLink
	for _, l := range s.links {
		if slices.Contains(participantIDs, l.ParticipantID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s entityStore) ListEntities(_ context.Context) ([]models.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entities), nil
}

type publishedEvent struct {
	Room    string
	Type    events.EventType
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(room string, t events.EventType, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Type: t, Payload: payload})
}

func (p *recordingPublisher) ofType(t events.EventType) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// MockLeagueService lets match service tests observe league rebuilds.
type MockLeagueService struct {
	RecomputeFunc    func(ctx context.Context, leagueID int, trigger RecomputeTrigger) (*league.Result, error)
	RecomputeAllFunc func(ctx context.Context, trigger RecomputeTrigger) error
}

func (m *MockLeagueService) Recompute(ctx context.Context, leagueID int, trigger RecomputeTrigger) (*league.Result, error) {
	if m.RecomputeFunc != nil {
		return m.RecomputeFunc(ctx, leagueID, trigger)
	}
	return nil, errors.New("not implemented")
}

func (m *MockLeagueService) RecomputeAll(ctx context.Context, trigger RecomputeTrigger) error {
	if m.RecomputeAllFunc != nil {
		return m.RecomputeAllFunc(ctx, trigger)
	}
	return errors.New("not implemented")
}

func (m *MockLeagueService) Standings(context.Context, int) ([]models.LeagueStanding, error) {
	return nil, errors.New("not implemented")
}

func (m *MockLeagueService) SuggestLinks(context.Context, int) ([]reconcile.Suggestion, error) {
	return nil, errors.New("not implemented")
}

type fakeArchiver struct {
	mu       sync.Mutex
	archived []int
	err      error
}

func (a *fakeArchiver) Archive(_ context.Context, leagueID int, _ interface{}) (*storage.UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	a.archived = append(a.archived, leagueID)
	return &storage.UploadResult{Key: "league-standings/snapshot.json"}, nil
}

// won returns a completed group-stage match between p1 and p2 that side 1 wins.
func won(tournamentID, categoryID, groupID, number, p1, p2 int) models.Match {
	cat, group := categoryID, groupID
	return models.Match{
		TournamentID: tournamentID,
		CategoryID:   &cat,
		GroupID:      &group,
		Round:        models.RoundGroupStage,
		MatchNumber:  number,
		Slot1:        models.ResolvedSlot(p1),
		Slot2:        models.ResolvedSlot(p2),
		Status:       models.StatusCompleted,
		Sets:         models.SetScores{{Side1: 6, Side2: 2}, {Side1: 6, Side2: 3}},
	}
}

// counterValue reads a counter or gauge from the registry; labels must match exactly.
func counterValue(m *metrics.Metrics, name string, labels map[string]string) float64 {
	families, err := m.Registry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			pairs := metric.GetLabel()
			if len(pairs) != len(labels) {
				continue
			}
			match := true
			for _, p := range pairs {
				if labels[p.GetName()] != p.GetValue() {
					match = false
				}
			}
			if !match {
				continue
			}
			if c := metric.GetCounter(); c != nil {
				return c.GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}
