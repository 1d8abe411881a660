package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/tournament-progression/models"
)

// CategoryRepository loads categories together with their groups and group members.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int) (*models.Category, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Category, error)
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

var categoryColumns = []string{
	"id", "tournament_id", "name", "format", "number_of_groups", "knockout_stage",
	"qualifiers_per_group", "paired_category_id",
}

func scanCategory(row interface{ Scan(...interface{}) error }, c *models.Category) error {
	return row.Scan(&c.ID, &c.TournamentID, &c.Name, &c.Format, &c.NumberOfGroups, &c.KnockoutStage,
		&c.QualifiersPerGroup, &c.PairedCategoryID)
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	query, args, err := psql.Select(categoryColumns...).From("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category query: %w", err)
	}
	c := &models.Category{}
	if err := scanCategory(r.db.QueryRowContext(ctx, query, args...), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to scan category %d: %w", id, err)
	}

	groups, err := r.groups(ctx, []int{c.ID})
	if err != nil {
		return nil, err
	}
	c.Groups = groups[c.ID]
	return c, nil
}

func (r *postgresCategoryRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Category, error) {
	query, args, err := psql.Select(categoryColumns...).From("categories").
		Where(sq.Eq{"tournament_id": tournamentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var c models.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	groups, err := r.groups(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Groups = groups[categories[i].ID]
	}
	return categories, nil
}

// groups returns the groups of each category keyed by category id, members filled in.
func (r *postgresCategoryRepository) groups(ctx context.Context, categoryIDs []int) (map[int][]models.Group, error) {
	out := make(map[int][]models.Group, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}

	query, args, err := psql.Select("g.id", "g.category_id", "g.name", "g.half", "p.id").
		From("groups g").
		LeftJoin("participants p ON p.group_id = g.id").
		Where(sq.Eq{"g.category_id": categoryIDs}).
		OrderBy("g.category_id ASC", "g.half ASC", "g.name ASC", "g.id ASC", "p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	index := make(map[int]int)
	for rows.Next() {
		var g models.Group
		var participantID sql.NullInt64
		if err := rows.Scan(&g.ID, &g.CategoryID, &g.Name, &g.Half, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		i, ok := index[g.ID]
		if !ok {
			g.ParticipantIDs = []int{}
			out[g.CategoryID] = append(out[g.CategoryID], g)
			i = len(out[g.CategoryID]) - 1
			index[g.ID] = i
		}
		if participantID.Valid {
			grp := &out[g.CategoryID][i]
			grp.ParticipantIDs = append(grp.ParticipantIDs, int(participantID.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return out, nil
}
