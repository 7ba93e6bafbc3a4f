package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manoj-yg/projectshowcase/internal/database"
	"github.com/manoj-yg/projectshowcase/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shareIDLength is the width of the public share id. It is part of the
// external contract and never changes, so collisions are handled by
// regenerating rather than growing the id.
const shareIDLength = 8

const (
	defaultShareTTL       = 30 * 24 * time.Hour
	defaultRecentProjects = 10
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for
// generating a unique share id is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating share id")

// ShareRepository defines the interface for working with shares at the
// business logic layer.
type ShareRepository interface {
	// Create persists a share under the given public id referencing the
	// given projects in order.
	Create(ctx context.Context, shareID string, projectIDs []int64) (*models.Share, error)

	// Resolve looks up a live share by its public id, increments its view
	// counter and returns it together with its referenced projects.
	Resolve(ctx context.Context, shareID string, ttl time.Duration) (*models.Share, []models.Project, error)

	// DeleteExpired removes shares older than ttl and reports how many
	// were removed.
	DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error)
}

// ProjectDirectory is the slice of the project repository the share service
// needs to snapshot project references.
type ProjectDirectory interface {
	// ExistingIDs filters ids down to those that resolve to stored
	// projects.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	// RecentIDs returns the ids of the most recently created projects,
	// newest-first.
	RecentIDs(ctx context.Context, limit int) ([]int64, error)
}

// ShareConfig tunes the share lifecycle.
type ShareConfig struct {
	// TTL is the fixed lifetime of a share counted from creation.
	TTL time.Duration
	// RecentProjects is how many of the newest projects a share includes
	// when no explicit ids are supplied.
	RecentProjects int
}

// ShareService creates time-limited share links over the project collection
// and resolves them back to their referenced projects.
type ShareService struct {
	shares   ShareRepository
	projects ProjectDirectory
	cfg      ShareConfig
}

// NewShareService creates a new ShareService. Zero config fields fall back
// to a 30-day TTL and the 10 most recent projects.
func NewShareService(shares ShareRepository, projects ProjectDirectory, cfg ShareConfig) *ShareService {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultShareTTL
	}
	if cfg.RecentProjects < 1 {
		cfg.RecentProjects = defaultRecentProjects
	}

	return &ShareService{
		shares:   shares,
		projects: projects,
		cfg:      cfg,
	}
}

// CreateShare persists a new share. Supplied project ids are filtered to
// existing ones preserving the caller's order; ids that don't resolve are
// silently dropped. Without explicit ids the share snapshots the most
// recently created projects.
func (s *ShareService) CreateShare(ctx context.Context, projectIDs []int64) (*models.Share, error) {
	const op = "service.ShareService.CreateShare"
	const maxRetries = 5

	var (
		ids []int64
		err error
	)

	if len(projectIDs) > 0 {
		ids, err = s.snapshotIDs(ctx, projectIDs)
	} else {
		ids, err = s.projects.RecentIDs(ctx, s.cfg.RecentProjects)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to select projects: %w", op, err)
	}

	for i := 0; i < maxRetries; i++ {
		shareID, err := gonanoid.New(shareIDLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate share id: %w", op, err)
		}

		share, err := s.shares.Create(ctx, shareID, ids)
		if err != nil {
			if errors.Is(err, database.ErrShareIDExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to create share: %w", op, err)
		}

		return share, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// snapshotIDs keeps the caller's ordering while dropping duplicates and ids
// that don't resolve to stored projects.
func (s *ShareService) snapshotIDs(ctx context.Context, projectIDs []int64) ([]int64, error) {
	existing, err := s.projects.ExistingIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	keep := make(map[int64]bool, len(existing))
	for _, id := range existing {
		keep[id] = true
	}

	ids := make([]int64, 0, len(existing))
	for _, id := range projectIDs {
		if keep[id] {
			ids = append(ids, id)
			keep[id] = false
		}
	}

	return ids, nil
}

// ResolveShare resolves a public share id to the share metadata and its
// referenced projects, counting the view. References to projects that no
// longer exist are silently dropped; expired shares resolve as not found.
func (s *ShareService) ResolveShare(ctx context.Context, shareID string) (*models.Share, []models.Project, error) {
	const op = "service.ShareService.ResolveShare"

	share, projects, err := s.shares.Resolve(ctx, shareID, s.cfg.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to resolve share: %w", op, err)
	}

	return share, projects, nil
}

// PurgeExpired deletes shares past their expiry window and reports how many
// were removed.
func (s *ShareService) PurgeExpired(ctx context.Context) (int64, error) {
	const op = "service.ShareService.PurgeExpired"

	deleted, err := s.shares.DeleteExpired(ctx, s.cfg.TTL)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to purge expired shares: %w", op, err)
	}

	return deleted, nil
}
