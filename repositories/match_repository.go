package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/tournament-progression/models"
)

type MatchFilter struct {
	TournamentID int
	CategoryID   *int
	Round        *models.RoundTag
	Status       *models.MatchStatus
}

type MatchRepository interface {
	List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error)
	GetByNumber(ctx context.Context, exec SQLExecutor, tournamentID, matchNumber int) (*models.Match, error)
	// CreateBatch inserts every match or none; pass a transaction executor.
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error
	UpdateProgress(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

var matchColumns = []string{
	"id", "tournament_id", "category_id", "group_id", "round", "match_number", "bracket_uid",
	"slot1", "slot2", "court", "scheduled_time", "status", "sets", "created_at",
}

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.CategoryID,
		&m.GroupID,
		&m.Round,
		&m.MatchNumber,
		&m.BracketUID,
		&m.Slot1,
		&m.Slot2,
		&m.Court,
		&m.ScheduledTime,
		&m.Status,
		&m.Sets,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error) {
	q := psql.Select(matchColumns...).From("matches").
		Where(sq.Eq{"tournament_id": filter.TournamentID}).
		OrderBy("match_number ASC")
	if filter.CategoryID != nil {
		q = q.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.Round != nil {
		q = q.Where(sq.Eq{"round": *filter.Round})
	}
	if filter.Status != nil {
		q = q.Where(sq.Eq{"status": *filter.Status})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build match query: %w", err)
	}
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", filter.TournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) GetByNumber(ctx context.Context, exec SQLExecutor, tournamentID, matchNumber int) (*models.Match, error) {
	query, args, err := psql.Select(matchColumns...).From("matches").
		Where(sq.Eq{"tournament_id": tournamentID, "match_number": matchNumber}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build match query: %w", err)
	}

	m := &models.Match{}
	if err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, query, args...), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d of tournament %d: %w", matchNumber, tournamentID, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	q := psql.Insert("matches").Columns(
		"tournament_id", "category_id", "group_id", "round", "match_number", "bracket_uid",
		"slot1", "slot2", "court", "scheduled_time", "status", "sets",
	)
	for i := range matches {
		m := &matches[i]
		if err := m.Validate(); err != nil {
			return err
		}
		q = q.Values(m.TournamentID, m.CategoryID, m.GroupID, m.Round, m.MatchNumber, m.BracketUID,
			m.Slot1, m.Slot2, m.Court, m.ScheduledTime, m.Status, m.Sets)
	}
	query, args, err := q.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build match insert: %w", err)
	}

	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return r.handleMatchError(err)
	}
	defer rows.Close()

	// postgres returns inserted rows in VALUES order
	i := 0
	for rows.Next() {
		if err := rows.Scan(&matches[i].ID, &matches[i].CreatedAt); err != nil {
			return fmt.Errorf("failed to scan inserted match: %w", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return r.handleMatchError(err)
	}
	return nil
}

func (r *postgresMatchRepository) UpdateProgress(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query, args, err := psql.Update("matches").
		Set("slot1", m.Slot1).
		Set("slot2", m.Slot2).
		Set("status", m.Status).
		Set("sets", m.Sets).
		Set("scheduled_time", m.ScheduledTime).
		Set("court", m.Court).
		Where(sq.Eq{"tournament_id": m.TournamentID, "match_number": m.MatchNumber}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build match update: %w", err)
	}
	result, err := executor(r.db, exec).ExecContext(ctx, query, args...)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	return constraintError(err, map[string]error{
		"matches_tournament_number_key": ErrMatchNumberTaken,
		"matches_tournament_id_fkey":    ErrTournamentNotFound,
		"matches_category_id_fkey":      ErrCategoryNotFound,
	})
}
