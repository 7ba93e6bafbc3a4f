package http

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/manoj-yg/projectshowcase/internal/models"
)

// ProjectService defines the interface for the project CRUD business logic.
type ProjectService interface {
	// List returns the requested page of projects ordered newest-first.
	List(ctx context.Context, page, limit int) (*models.ProjectPage, error)

	// Get retrieves a single project by its id.
	Get(ctx context.Context, id int64) (*models.Project, error)

	// Create validates, normalizes and persists a new project.
	Create(ctx context.Context, name, liveURL, description string, techStack []string) (*models.Project, error)

	// Update replaces only the supplied fields of an existing project.
	Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error)

	// Delete removes a project. Deleting an absent id still succeeds.
	Delete(ctx context.Context, id int64) error
}

// ShareService defines the interface for the share-link business logic.
type ShareService interface {
	// CreateShare persists a share referencing the given projects, or the
	// most recent ones when none are given.
	CreateShare(ctx context.Context, projectIDs []int64) (*models.Share, error)

	// ResolveShare resolves a public share id, counting the view.
	ResolveShare(ctx context.Context, shareID string) (*models.Share, []models.Project, error)
}

// Pinger reports storage reachability for the health endpoint. *sqlx.DB
// satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Config carries the deployment-mode knobs of the router.
type Config struct {
	// Env is the environment name reported by the health endpoint.
	Env string
	// StaticDir, when set, makes every non-API path serve the prebuilt
	// client bundle with a fallback to its entry document.
	StaticDir string
}

// getValidate initializes a new validator instance for validating incoming
// request payloads. It customizes tag name extraction from struct fields to
// match JSON tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and
// middleware configured.
func NewRouter(logger *httplog.Logger, projectSvc ProjectService, shareSvc ShareService, db Pinger, cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		validate := getValidate()

		r.Get("/health", handleHealth(db, cfg.Env))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handleListProjects(projectSvc))
			r.Post("/", handleCreateProject(projectSvc, validate))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handleGetProject(projectSvc))
				r.Put("/", handleUpdateProject(projectSvc, validate))
				r.Delete("/", handleDeleteProject(projectSvc))
			})
		})

		r.Route("/share", func(r chi.Router) {
			r.Post("/create", handleCreateShare(shareSvc))
			r.Get("/{shareId}", handleResolveShare(shareSvc))
		})
	})

	if cfg.StaticDir != "" {
		r.NotFound(spaHandler(cfg.StaticDir))
	}

	return r
}

// spaHandler serves the prebuilt client bundle. Paths that don't map to a
// file fall back to the entry document so client-side routing keeps working.
func spaHandler(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))

		if info, err := os.Stat(path); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}

		fileServer.ServeHTTP(w, r)
	}
}
