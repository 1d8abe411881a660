package repositories

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/tournament-progression/models"
)

type ParticipantRepository interface {
	ListByCategory(ctx context.Context, categoryID int) ([]models.Participant, error)
	ListByTournaments(ctx context.Context, tournamentIDs []int) ([]models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) ListByCategory(ctx context.Context, categoryID int) ([]models.Participant, error) {
	return r.list(ctx, sq.Eq{"category_id": categoryID})
}

func (r *postgresParticipantRepository) ListByTournaments(ctx context.Context, tournamentIDs []int) ([]models.Participant, error) {
	if len(tournamentIDs) == 0 {
		return []models.Participant{}, nil
	}
	return r.list(ctx, sq.Eq{"tournament_id": tournamentIDs})
}

func (r *postgresParticipantRepository) list(ctx context.Context, where sq.Eq) ([]models.Participant, error) {
	query, args, err := psql.Select("id", "tournament_id", "category_id", "group_id", "name", "gender", "created_at").
		From("participants").
		Where(where).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participant query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var gender sql.NullString
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.CategoryID, &p.GroupID, &p.Name, &gender, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		if gender.Valid {
			g := models.Gender(gender.String)
			p.Gender = &g
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}
