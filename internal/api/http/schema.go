package http

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/manoj-yg/projectshowcase/internal/models"
)

// techStackField accepts either a JSON array of strings or a single
// comma-separated string; the service layer normalizes both to the same
// stored form.
type techStackField []string

func (f *techStackField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = []string{s}
		return nil
	}

	return errors.New("techStack must be a string or an array of strings")
}

// createProjectRequest is the payload for creating a project.
type createProjectRequest struct {
	Name        string         `json:"name" validate:"required"`
	LiveURL     string         `json:"liveUrl" validate:"required,url"`
	Description string         `json:"description" validate:"required"`
	TechStack   techStackField `json:"techStack" validate:"required,min=1"`
}

// updateProjectRequest is the payload for a partial project update. Absent
// fields are left untouched.
type updateProjectRequest struct {
	Name        *string         `json:"name" validate:"omitempty,min=1"`
	LiveURL     *string         `json:"liveUrl" validate:"omitempty,url"`
	Description *string         `json:"description" validate:"omitempty,min=1"`
	TechStack   *techStackField `json:"techStack" validate:"omitempty,min=1"`
}

func (req *updateProjectRequest) toPatch() models.ProjectPatch {
	patch := models.ProjectPatch{
		Name:        req.Name,
		LiveURL:     req.LiveURL,
		Description: req.Description,
	}
	if req.TechStack != nil {
		patch.TechStack = *req.TechStack
	}

	return patch
}

// projectResponse is the wire form of a project.
type projectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	LiveURL     string    `json:"liveUrl"`
	Description string    `json:"description"`
	TechStack   []string  `json:"techStack"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		LiveURL:     project.LiveURL,
		Description: project.Description,
		TechStack:   project.TechStack,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func toProjectResponses(projects []models.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectResponse(&projects[i]))
	}

	return out
}

// listProjectsResponse is the paginated listing body.
type listProjectsResponse struct {
	Projects      []projectResponse `json:"projects"`
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalProjects int64             `json:"totalProjects"`
}

// createShareRequest is the payload for creating a share link. An absent or
// empty id list snapshots the most recent projects instead.
type createShareRequest struct {
	ProjectIDs []int64 `json:"projectIds"`
}

// createShareResponse reports the new share link.
type createShareResponse struct {
	Success  bool   `json:"success"`
	ShareID  string `json:"shareId"`
	ShareURL string `json:"shareUrl"`
	ShortURL string `json:"shortUrl"`
	Projects int    `json:"projects"`
}

// shareMetaResponse is the share metadata returned on resolution.
type shareMetaResponse struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	ViewCount  int64     `json:"viewCount"`
	LastViewed time.Time `json:"lastViewed"`
}

// resolveShareResponse is the body of a successful share resolution.
type resolveShareResponse struct {
	Success  bool              `json:"success"`
	Share    shareMetaResponse `json:"share"`
	Projects []projectResponse `json:"projects"`
}

// shareErrorResponse is the failure body of the share endpoints.
type shareErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// healthResponse reports process liveness and storage reachability.
type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}
