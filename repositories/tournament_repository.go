package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/tournament-progression/models"
)

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByLeague(ctx context.Context, leagueID int, status *models.TournamentStatus) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

var tournamentColumns = []string{"id", "name", "league_id", "start_date", "status", "created_at"}

func scanTournament(row interface{ Scan(...interface{}) error }, t *models.Tournament) error {
	return row.Scan(&t.ID, &t.Name, &t.LeagueID, &t.StartDate, &t.Status, &t.CreatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query, args, err := psql.Select(tournamentColumns...).From("tournaments").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build tournament query: %w", err)
	}
	t := &models.Tournament{}
	if err := scanTournament(r.db.QueryRowContext(ctx, query, args...), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListByLeague(ctx context.Context, leagueID int, status *models.TournamentStatus) ([]models.Tournament, error) {
	q := psql.Select(tournamentColumns...).From("tournaments").
		Where(sq.Eq{"league_id": leagueID}).
		OrderBy("id ASC")
	if status != nil {
		q = q.Where(sq.Eq{"status": *status})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build tournament query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments of league %d: %w", leagueID, err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := scanTournament(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query, args, err := psql.Update("tournaments").Set("status", status).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build tournament update: %w", err)
	}
	result, err := executor(r.db, exec).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update status of tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
