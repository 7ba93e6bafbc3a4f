package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/manoj-yg/projectshowcase/internal/database"
	"github.com/manoj-yg/projectshowcase/internal/service"
	"github.com/manoj-yg/projectshowcase/pkg/response"
)

// handleHealth reports process liveness, storage reachability and the
// deployment environment.
func handleHealth(db Pinger, env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbState := "connected"
		if err := db.PingContext(r.Context()); err != nil {
			dbState = "disconnected"
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, healthResponse{
			Status:      "OK",
			Database:    dbState,
			Environment: env,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// handleListProjects handles GET requests for the paginated project listing.
// Unparseable or missing page/limit query parameters fall back to their
// defaults rather than failing the request.
func handleListProjects(svc ProjectService) http.HandlerFunc {
	const op = "api.http.handleListProjects"

	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		result, err := svc.List(r.Context(), page, limit)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, listProjectsResponse{
			Projects:      toProjectResponses(result.Projects),
			CurrentPage:   result.CurrentPage,
			TotalPages:    result.TotalPages,
			TotalProjects: result.TotalProjects,
		})
	}
}

// handleGetProject handles GET requests for a single project. An id that
// doesn't parse can't resolve to a stored project, so it reads as not found.
func handleGetProject(svc ProjectService) http.HandlerFunc {
	const op = "api.http.handleGetProject"

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ProjectNotFoundResponse)
			return
		}

		project, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, database.ErrProjectNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ProjectNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toProjectResponse(project))
	}
}

// handleCreateProject handles POST requests to create a project.
//
// The request schema is validated before the service layer is invoked; the
// service additionally rejects tech stacks that normalize to nothing.
func handleCreateProject(svc ProjectService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateProject"

	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		project, err := svc.Create(r.Context(), req.Name, req.LiveURL, req.Description, req.TechStack)
		if err != nil {
			var vErr *service.ValidationError
			if errors.As(err, &vErr) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Message{Message: vErr.Error()})
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toProjectResponse(project))
	}
}

// handleUpdateProject handles PUT requests to partially update a project.
// Only the supplied fields are replaced.
func handleUpdateProject(svc ProjectService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleUpdateProject"

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ProjectNotFoundResponse)
			return
		}

		var req updateProjectRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		project, err := svc.Update(r.Context(), id, req.toPatch())
		if err != nil {
			var vErr *service.ValidationError

			switch {
			case errors.Is(err, database.ErrProjectNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ProjectNotFoundResponse)
			case errors.As(err, &vErr):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Message{Message: vErr.Error()})
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toProjectResponse(project))
	}
}

// handleDeleteProject handles DELETE requests for a project. The removal is
// idempotent: deleting an absent id still acknowledges success.
func handleDeleteProject(svc ProjectService) http.HandlerFunc {
	const op = "api.http.handleDeleteProject"

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			// nothing stored under an unparseable id
			render.Status(r, http.StatusOK)
			render.JSON(w, r, response.ProjectDeletedResponse)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.ProjectDeletedResponse)
	}
}

// handleCreateShare handles POST requests to create a share link. An empty
// or absent body snapshots the most recent projects.
func handleCreateShare(svc ShareService) http.HandlerFunc {
	const op = "api.http.handleCreateShare"
	const failureMsg = "Failed to create share link"

	return func(w http.ResponseWriter, r *http.Request) {
		var req createShareRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, shareErrorResponse{Message: "Request body is malformed."})
			return
		}

		share, err := svc.CreateShare(r.Context(), req.ProjectIDs)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, shareErrorResponse{Message: failureMsg})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, createShareResponse{
			Success:  true,
			ShareID:  share.ShareID,
			ShareURL: fmt.Sprintf("%s://%s/api/share/%s", requestScheme(r), r.Host, share.ShareID),
			ShortURL: "/share/" + share.ShareID,
			Projects: len(share.ProjectIDs),
		})
	}
}

// handleResolveShare handles GET requests to resolve a share link. Each
// successful resolution counts a view; expired or unknown share ids read as
// not found.
func handleResolveShare(svc ShareService) http.HandlerFunc {
	const op = "api.http.handleResolveShare"
	const notFoundMsg = "Share link not found or expired"
	const failureMsg = "Failed to retrieve shared portfolio"

	return func(w http.ResponseWriter, r *http.Request) {
		shareID := chi.URLParam(r, "shareId")

		share, projects, err := svc.ResolveShare(r.Context(), shareID)
		if err != nil {
			if errors.Is(err, database.ErrShareNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, shareErrorResponse{Message: notFoundMsg})
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, shareErrorResponse{Message: failureMsg})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, resolveShareResponse{
			Success: true,
			Share: shareMetaResponse{
				ID:         share.ShareID,
				CreatedAt:  share.CreatedAt,
				ViewCount:  share.ViewCount,
				LastViewed: share.LastViewed,
			},
			Projects: toProjectResponses(projects),
		})
	}
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}

	return "http"
}
