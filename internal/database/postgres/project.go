package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/manoj-yg/projectshowcase/internal/database"
	"github.com/manoj-yg/projectshowcase/internal/models"
)

type projectRecord struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	LiveURL     string         `db:"live_url"`
	Description string         `db:"description"`
	TechStack   pq.StringArray `db:"tech_stack"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *projectRecord) ToProject() *models.Project {
	return &models.Project{
		ID:          r.ID,
		Name:        r.Name,
		LiveURL:     r.LiveURL,
		Description: r.Description,
		TechStack:   r.TechStack,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{
		db: db,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, name, liveURL, description string, techStack []string) (*models.Project, error) {
	const op = "database.postgres.ProjectRepository.Create"

	rec := new(projectRecord)
	query := `INSERT INTO projects(name, live_url, description, tech_stack)
		VALUES ($1, $2, $3, $4)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, name, liveURL, description, pq.StringArray(techStack))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create project record: %w", op, err)
	}

	return rec.ToProject(), nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	const op = "database.postgres.ProjectRepository.GetByID"

	rec := new(projectRecord)
	query := `SELECT * FROM projects WHERE id = $1`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrProjectNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get project record: %w", op, err)
	}

	return rec.ToProject(), nil
}

// List returns one page of projects ordered newest-first together with the
// total number of stored projects.
func (r *ProjectRepository) List(ctx context.Context, offset, limit int) ([]models.Project, int64, error) {
	const op = "database.postgres.ProjectRepository.List"

	var recs []projectRecord
	query := `SELECT * FROM projects
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &recs, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list project records: %w", op, err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM projects`); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count project records: %w", op, err)
	}

	projects := make([]models.Project, 0, len(recs))
	for _, rec := range recs {
		projects = append(projects, *rec.ToProject())
	}

	return projects, total, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	const op = "database.postgres.ProjectRepository.Update"

	rec := new(projectRecord)
	query := `UPDATE projects
		SET name = COALESCE($1, name),
			live_url = COALESCE($2, live_url),
			description = COALESCE($3, description),
			tech_stack = COALESCE($4, tech_stack),
			updated_at = now()
		WHERE id = $5
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query,
		patch.Name, patch.LiveURL, patch.Description, pq.StringArray(patch.TechStack), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrProjectNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update project record: %w", op, err)
	}

	return rec.ToProject(), nil
}

// Delete removes the project with the given id. Deleting an absent id is
// not an error.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	const op = "database.postgres.ProjectRepository.Delete"

	query := `DELETE FROM projects WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to delete project record: %w", op, err)
	}

	return nil
}

// ExistingIDs filters the given ids down to those that resolve to stored
// projects. The result carries no particular order.
func (r *ProjectRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	const op = "database.postgres.ProjectRepository.ExistingIDs"

	var existing []int64
	query := `SELECT id FROM projects WHERE id = ANY($1)`

	if err := r.db.SelectContext(ctx, &existing, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("%s: failed to filter project ids: %w", op, err)
	}

	return existing, nil
}

// RecentIDs returns the ids of the most recently created projects,
// newest-first.
func (r *ProjectRepository) RecentIDs(ctx context.Context, limit int) ([]int64, error) {
	const op = "database.postgres.ProjectRepository.RecentIDs"

	var ids []int64
	query := `SELECT id FROM projects
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &ids, query, limit); err != nil {
		return nil, fmt.Errorf("%s: failed to list recent project ids: %w", op, err)
	}

	return ids, nil
}
