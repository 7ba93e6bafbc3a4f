package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/manoj-yg/projectshowcase/internal/models"
)

const (
	defaultPage     = 1
	defaultPageSize = 6
)

// ValidationError signals that a create or update payload failed the
// explicit schema checks. Its message is safe to surface to the caller.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ProjectRepository defines the interface for working with projects at the
// business logic layer.
type ProjectRepository interface {
	// Create inserts a new project into the repository.
	Create(ctx context.Context, name, liveURL, description string, techStack []string) (*models.Project, error)

	// GetByID retrieves a project by its id.
	GetByID(ctx context.Context, id int64) (*models.Project, error)

	// List returns one page of projects ordered newest-first plus the
	// total number of stored projects.
	List(ctx context.Context, offset, limit int) ([]models.Project, int64, error)

	// Update applies the non-nil fields of patch to the stored project.
	Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error)

	// Delete removes a project by its id. Removing an absent id is not an
	// error.
	Delete(ctx context.Context, id int64) error
}

// ProjectService provides CRUD operations and paginated listing over the
// project collection.
type ProjectService struct {
	repo     ProjectRepository
	pageSize int
}

// NewProjectService creates a new ProjectService with the provided
// repository and default page size.
func NewProjectService(repo ProjectRepository, pageSize int) *ProjectService {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	return &ProjectService{
		repo:     repo,
		pageSize: pageSize,
	}
}

// normalizeTechStack splits every entry on commas, trims the pieces and
// drops empty ones, so a JSON list and a comma-separated string normalize
// to the same stored form.
func normalizeTechStack(entries []string) []string {
	var out []string

	for _, entry := range entries {
		for _, item := range strings.Split(entry, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}

	return out
}

func validateProjectFields(name, liveURL, description string, techStack []string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return NewValidationError("name is required")
	case strings.TrimSpace(liveURL) == "":
		return NewValidationError("liveUrl is required")
	case strings.TrimSpace(description) == "":
		return NewValidationError("description is required")
	case len(techStack) == 0:
		return NewValidationError("techStack must contain at least one entry")
	}

	if u, err := url.Parse(liveURL); err != nil || u.Scheme == "" || u.Host == "" {
		return NewValidationError("liveUrl must be a valid URL")
	}

	return nil
}

// List returns the requested page of projects ordered by creation time
// descending. Page numbers below 1 fall back to the first page; limits
// below 1 fall back to the configured default.
func (s *ProjectService) List(ctx context.Context, page, limit int) (*models.ProjectPage, error) {
	const op = "service.ProjectService.List"

	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = s.pageSize
	}

	projects, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list projects: %w", op, err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &models.ProjectPage{
		Projects:      projects,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProjects: total,
	}, nil
}

// Get retrieves a single project by its id.
func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	const op = "service.ProjectService.Get"

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get project: %w", op, err)
	}

	return project, nil
}

// Create validates the given fields, normalizes the tech stack and persists
// a new project.
func (s *ProjectService) Create(ctx context.Context, name, liveURL, description string, techStack []string) (*models.Project, error) {
	const op = "service.ProjectService.Create"

	techStack = normalizeTechStack(techStack)

	if err := validateProjectFields(name, liveURL, description, techStack); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	project, err := s.repo.Create(ctx, name, liveURL, description, techStack)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create project: %w", op, err)
	}

	return project, nil
}

// Update replaces only the supplied fields of an existing project, applying
// the same normalization as Create to a supplied tech stack.
func (s *ProjectService) Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	const op = "service.ProjectService.Update"

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%s: %w", op, NewValidationError("name must not be empty"))
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, fmt.Errorf("%s: %w", op, NewValidationError("description must not be empty"))
	}
	if patch.LiveURL != nil {
		if u, err := url.Parse(*patch.LiveURL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s: %w", op, NewValidationError("liveUrl must be a valid URL"))
		}
	}
	if patch.TechStack != nil {
		patch.TechStack = normalizeTechStack(patch.TechStack)
		if len(patch.TechStack) == 0 {
			return nil, fmt.Errorf("%s: %w", op, NewValidationError("techStack must contain at least one entry"))
		}
	}

	project, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update project: %w", op, err)
	}

	return project, nil
}

// Delete removes a project. The operation is idempotent: deleting an id
// that doesn't exist still succeeds.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	const op = "service.ProjectService.Delete"

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete project: %w", op, err)
	}

	return nil
}
