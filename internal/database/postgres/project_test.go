package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/manoj-yg/projectshowcase/internal/database"
	"github.com/manoj-yg/projectshowcase/internal/models"
	"github.com/stretchr/testify/assert"
)

var errUnknown = errors.New("unknown error")

var projectColumns = []string{"id", "name", "live_url", "description", "tech_stack", "created_at", "updated_at"}

func setupProjectRepository(t testing.TB) (*ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewProjectRepository(db)

	t.Cleanup(func() {
		mockDB.Close()
		db.Close()
	})

	return repo, mock
}

func TestProjectRepository_Create(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnError(errUnknown)

		project, err := repo.Create(context.TODO(), "X", "https://x.io", "d", []string{"A"})

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, project)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		rows := sqlmock.NewRows(projectColumns).
			AddRow(1, "X", "https://x.io", "d", `{A,B}`, time.Time{}, time.Time{})

		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnRows(rows)

		wantProject := models.Project{
			ID:          1,
			Name:        "X",
			LiveURL:     "https://x.io",
			Description: "d",
			TechStack:   []string{"A", "B"},
		}

		project, err := repo.Create(context.TODO(), "X", "https://x.io", "d", []string{"A", "B"})

		assert.NoError(t, err)
		assert.NotNil(t, project)
		assert.Equal(t, wantProject, *project)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_GetByID(t *testing.T) {
	t.Run("project not found", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		mock.ExpectQuery(`SELECT \* FROM projects`).
			WithArgs(int64(1)).
			WillReturnError(sql.ErrNoRows)

		project, err := repo.GetByID(context.TODO(), 1)

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
		assert.Nil(t, project)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		rows := sqlmock.NewRows(projectColumns).
			AddRow(1, "X", "https://x.io", "d", `{A}`, time.Time{}, time.Time{})

		mock.ExpectQuery(`SELECT \* FROM projects`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		project, err := repo.GetByID(context.TODO(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, project)
		assert.Equal(t, []string{"A"}, project.TechStack)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_List(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		mock.ExpectQuery(`SELECT \* FROM projects`).
			WillReturnError(errUnknown)

		projects, total, err := repo.List(context.TODO(), 0, 6)

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, projects)
		assert.Zero(t, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		rows := sqlmock.NewRows(projectColumns).
			AddRow(2, "Y", "https://y.io", "d", `{B}`, time.Time{}, time.Time{}).
			AddRow(1, "X", "https://x.io", "d", `{A}`, time.Time{}, time.Time{})

		mock.ExpectQuery(`SELECT \* FROM projects`).
			WithArgs(6, 0).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT count\(\*\) FROM projects`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		projects, total, err := repo.List(context.TODO(), 0, 6)

		assert.NoError(t, err)
		assert.Len(t, projects, 2)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, int64(2), projects[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Update(t *testing.T) {
	t.Run("project not found", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		mock.ExpectQuery(`UPDATE projects`).
			WillReturnError(sql.ErrNoRows)

		project, err := repo.Update(context.TODO(), 1, models.ProjectPatch{})

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
		assert.Nil(t, project)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		rows := sqlmock.NewRows(projectColumns).
			AddRow(1, "Y", "https://x.io", "d", `{A}`, time.Time{}, time.Time{})

		mock.ExpectQuery(`UPDATE projects`).
			WillReturnRows(rows)

		name := "Y"
		project, err := repo.Update(context.TODO(), 1, models.ProjectPatch{Name: &name})

		assert.NoError(t, err)
		assert.NotNil(t, project)
		assert.Equal(t, "Y", project.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Delete(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		mock.ExpectExec(`DELETE FROM projects`).
			WithArgs(int64(1)).
			WillReturnError(errUnknown)

		err := repo.Delete(context.TODO(), 1)

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent id still succeeds", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		mock.ExpectExec(`DELETE FROM projects`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(context.TODO(), 42))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_ExistingIDs(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		rows := sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(3)

		mock.ExpectQuery(`SELECT id FROM projects`).
			WillReturnRows(rows)

		ids, err := repo.ExistingIDs(context.TODO(), []int64{3, 99, 1})

		assert.NoError(t, err)
		assert.Equal(t, []int64{1, 3}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_RecentIDs(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := setupProjectRepository(t)

		rows := sqlmock.NewRows([]string{"id"}).AddRow(9).AddRow(8)

		mock.ExpectQuery(`SELECT id FROM projects`).
			WithArgs(10).
			WillReturnRows(rows)

		ids, err := repo.RecentIDs(context.TODO(), 10)

		assert.NoError(t, err)
		assert.Equal(t, []int64{9, 8}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
