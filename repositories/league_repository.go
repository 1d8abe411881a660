package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/tournament-progression/models"
)

type LeagueRepository interface {
	GetByID(ctx context.Context, id int) (*models.League, error)
	ListIDs(ctx context.Context) ([]int, error)
	ListStandings(ctx context.Context, leagueID int) ([]models.LeagueStanding, error)
	// ReplaceStandings swaps the league's whole table; run it in a transaction.
	ReplaceStandings(ctx context.Context, exec SQLExecutor, leagueID int, rows []models.LeagueStanding, at time.Time) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query, args, err := psql.Select("id", "name").From("leagues").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build league query: %w", err)
	}
	l := &models.League{}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&l.ID, &l.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league %d: %w", id, err)
	}
	return l, nil
}

func (r *postgresLeagueRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM leagues ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan league id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresLeagueRepository) ListStandings(ctx context.Context, leagueID int) ([]models.LeagueStanding, error) {
	query, args, err := psql.Select("league_id", "entity_id", "points", "tournaments_played", "rank", "updated_at").
		From("league_standings").
		Where(sq.Eq{"league_id": leagueID}).
		OrderBy("rank ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build standings query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings of league %d: %w", leagueID, err)
	}
	defer rows.Close()

	standings := make([]models.LeagueStanding, 0)
	for rows.Next() {
		var s models.LeagueStanding
		if err := rows.Scan(&s.LeagueID, &s.EntityID, &s.Points, &s.TournamentsPlayed, &s.Rank, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standing rows: %w", err)
	}
	return standings, nil
}

func (r *postgresLeagueRepository) ReplaceStandings(ctx context.Context, exec SQLExecutor, leagueID int, rows []models.LeagueStanding, at time.Time) error {
	exec = executor(r.db, exec)

	query, args, err := psql.Delete("league_standings").Where(sq.Eq{"league_id": leagueID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build standings delete: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear standings of league %d: %w", leagueID, err)
	}
	if len(rows) == 0 {
		return nil
	}

	insert := psql.Insert("league_standings").
		Columns("league_id", "entity_id", "points", "tournaments_played", "rank", "updated_at")
	for _, s := range rows {
		insert = insert.Values(leagueID, s.EntityID, s.Points, s.TournamentsPlayed, s.Rank, at)
	}
	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build standings insert: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return constraintError(err, map[string]error{
			"league_standings_league_id_fkey": ErrLeagueNotFound,
		})
	}
	return nil
}
