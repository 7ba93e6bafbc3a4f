package service

import (
	"context"
	"time"

	"github.com/manoj-yg/projectshowcase/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

func (r *MockProjectRepository) Create(ctx context.Context, name, liveURL, description string, techStack []string) (*models.Project, error) {
	args := r.Called(ctx, name, liveURL, description, techStack)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (r *MockProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	args := r.Called(ctx, id)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (r *MockProjectRepository) List(ctx context.Context, offset, limit int) ([]models.Project, int64, error) {
	args := r.Called(ctx, offset, limit)
	projects, _ := args.Get(0).([]models.Project)
	total, _ := args.Get(1).(int64)
	return projects, total, args.Error(2)
}

func (r *MockProjectRepository) Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	args := r.Called(ctx, id, patch)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (r *MockProjectRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockProjectRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	args := r.Called(ctx, ids)
	existing, _ := args.Get(0).([]int64)
	return existing, args.Error(1)
}

func (r *MockProjectRepository) RecentIDs(ctx context.Context, limit int) ([]int64, error) {
	args := r.Called(ctx, limit)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type MockShareRepository struct {
	mock.Mock
}

func (r *MockShareRepository) Create(ctx context.Context, shareID string, projectIDs []int64) (*models.Share, error) {
	args := r.Called(ctx, shareID, projectIDs)
	share, _ := args.Get(0).(*models.Share)
	return share, args.Error(1)
}

func (r *MockShareRepository) Resolve(ctx context.Context, shareID string, ttl time.Duration) (*models.Share, []models.Project, error) {
	args := r.Called(ctx, shareID, ttl)
	share, _ := args.Get(0).(*models.Share)
	projects, _ := args.Get(1).([]models.Project)
	return share, projects, args.Error(2)
}

func (r *MockShareRepository) DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	args := r.Called(ctx, ttl)
	deleted, _ := args.Get(0).(int64)
	return deleted, args.Error(1)
}
