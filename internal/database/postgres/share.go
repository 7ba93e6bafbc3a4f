package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/manoj-yg/projectshowcase/internal/database"
	"github.com/manoj-yg/projectshowcase/internal/models"
)

type shareRecord struct {
	ID         int64     `db:"id"`
	ShareID    string    `db:"share_id"`
	ViewCount  int64     `db:"view_count"`
	LastViewed time.Time `db:"last_viewed"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *shareRecord) ToShare() *models.Share {
	return &models.Share{
		ID:         r.ID,
		ShareID:    r.ShareID,
		ViewCount:  r.ViewCount,
		LastViewed: r.LastViewed,
		CreatedAt:  r.CreatedAt,
	}
}

type ShareRepository struct {
	db *sqlx.DB
}

func NewShareRepository(db *sqlx.DB) *ShareRepository {
	return &ShareRepository{
		db: db,
	}
}

// Create persists a share under the given public id referencing the given
// projects in order. The share row and its reference rows are written in a
// single transaction.
func (r *ShareRepository) Create(ctx context.Context, shareID string, projectIDs []int64) (*models.Share, error) {
	const op = "database.postgres.ShareRepository.Create"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	rec := new(shareRecord)
	query := `INSERT INTO shares(share_id)
		VALUES ($1)
		RETURNING *`

	if err := tx.GetContext(ctx, rec, query, shareID); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShareIDExists)
		}

		return nil, fmt.Errorf("%s: failed to create share record: %w", op, err)
	}

	refQuery := `INSERT INTO share_projects(share_id, project_id, position)
		VALUES ($1, $2, $3)`

	for pos, projectID := range projectIDs {
		if _, err := tx.ExecContext(ctx, refQuery, rec.ID, projectID, pos); err != nil {
			return nil, fmt.Errorf("%s: failed to create share reference: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	share := rec.ToShare()
	share.ProjectIDs = projectIDs

	return share, nil
}

// Resolve looks up a live share by its public id, increments its view
// counter and returns the share together with its referenced projects in
// reference order. Shares older than ttl are treated as absent; references
// to deleted projects are dropped.
func (r *ShareRepository) Resolve(ctx context.Context, shareID string, ttl time.Duration) (*models.Share, []models.Project, error) {
	const op = "database.postgres.ShareRepository.Resolve"

	rec := new(shareRecord)
	query := `UPDATE shares
		SET view_count = view_count + 1, last_viewed = now()
		WHERE share_id = $1 AND created_at > now() - make_interval(secs => $2)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, shareID, ttl.Seconds())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%s: %w", op, database.ErrShareNotFound)
		}

		return nil, nil, fmt.Errorf("%s: failed to resolve share record: %w", op, err)
	}

	var projRecs []projectRecord
	projQuery := `SELECT p.* FROM projects p
		JOIN share_projects sp ON sp.project_id = p.id
		WHERE sp.share_id = $1
		ORDER BY sp.position`

	if err := r.db.SelectContext(ctx, &projRecs, projQuery, rec.ID); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to load shared projects: %w", op, err)
	}

	projects := make([]models.Project, 0, len(projRecs))
	share := rec.ToShare()

	for _, projRec := range projRecs {
		projects = append(projects, *projRec.ToProject())
		share.ProjectIDs = append(share.ProjectIDs, projRec.ID)
	}

	return share, projects, nil
}

// DeleteExpired removes shares whose expiry window has passed and reports
// how many were removed. Reference rows go away through the cascade.
func (r *ShareRepository) DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	const op = "database.postgres.ShareRepository.DeleteExpired"

	query := `DELETE FROM shares
		WHERE created_at <= now() - make_interval(secs => $1)`

	res, err := r.db.ExecContext(ctx, query, ttl.Seconds())
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete expired shares: %w", op, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to read affected rows: %w", op, err)
	}

	return deleted, nil
}
