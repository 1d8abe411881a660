package repositories

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/tournament-progression/models"
)

// EntityRepository reads durable identities and the explicit participant links to them.
type EntityRepository interface {
	ListLinks(ctx context.Context, participantIDs []int) ([]models.EntityLink, error)
	ListEntities(ctx context.Context) ([]models.Entity, error)
}

type postgresEntityRepository struct {
	db *sql.DB
}

func NewPostgresEntityRepository(db *sql.DB) EntityRepository {
	return &postgresEntityRepository{db: db}
}

func (r *postgresEntityRepository) ListLinks(ctx context.Context, participantIDs []int) ([]models.EntityLink, error) {
	links := make([]models.EntityLink, 0)
	if len(participantIDs) == 0 {
		return links, nil
	}
	query, args, err := psql.Select("participant_id", "entity_id", "source", "created_at").
		From("participant_entity_links").
		Where(sq.Eq{"participant_id": participantIDs}).
		OrderBy("participant_id ASC", "entity_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build link query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.EntityLink
		if err := rows.Scan(&l.ParticipantID, &l.EntityID, &l.Source, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entity link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity links: %w", err)
	}
	return links, nil
}

func (r *postgresEntityRepository) ListEntities(ctx context.Context) ([]models.Entity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM entities ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	entities := make([]models.Entity, 0)
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}
	return entities, nil
}
