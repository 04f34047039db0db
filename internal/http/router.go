package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notetree/internal/handlers"
	"notetree/internal/service"
)

const healthPath = "/api/health"

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Tree       service.TreeService
	Attributes service.AttributeService
	Revisions  service.RevisionService
	Notes      service.NoteService
	DB         handlers.Pinger
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	treeHandler := handlers.NewTreeHandler(deps.Tree)
	noteHandler := handlers.NewNoteHandler(deps.Notes)
	attributeHandler := handlers.NewAttributeHandler(deps.Attributes)
	revisionHandler := handlers.NewRevisionHandler(deps.Revisions)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB))

		r.Get("/tree/validate", treeHandler.Validate)
		r.Get("/tree/audit", treeHandler.Audit)

		r.Put("/branches/{branchId}/move-to/{parentNoteId}", treeHandler.Move)
		r.Delete("/branches/{branchId}", treeHandler.DeleteBranch)

		r.Post("/notes/display", noteHandler.Display)
		r.Post("/notes/relation-map", attributeHandler.RelationMap)
		r.Delete("/attributes/{attributeId}", attributeHandler.Delete)

		r.Route("/notes/{noteId}", func(r chi.Router) {
			r.Get("/", noteHandler.Get)
			r.Get("/children", treeHandler.Children)
			r.Put("/clone-to/{parentNoteId}", treeHandler.Clone)
			r.Put("/parent", treeHandler.Relocate)
			r.Put("/sort", treeHandler.Sort)

			r.Get("/attributes", attributeHandler.List)
			r.Put("/attributes", attributeHandler.Save)

			r.Get("/revisions", revisionHandler.List)
			r.Post("/revisions", revisionHandler.Snapshot)
			r.Delete("/revisions", revisionHandler.EraseAll)
			r.Get("/revisions/{revisionId}", revisionHandler.Get)
			r.Delete("/revisions/{revisionId}", revisionHandler.Erase)
			r.Get("/revisions/{revisionId}/download", revisionHandler.Download)
			r.Get("/revisions/{revisionId}/preview", revisionHandler.Preview)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
