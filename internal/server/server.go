// Package server exposes a workspace over HTTP.
//
// The routes mirror what an interactive canvas does: list and manage
// ontologies, drop and connect nodes, drag positions, edit properties, run
// text sync and validation, import and export. Every handler calls one
// workspace operation and encodes its result as JSON. Engine error codes
// map onto HTTP statuses in [statusFor].
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/ontoforge/pkg/cache"
	"github.com/matzehuels/ontoforge/pkg/render"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer sets the registry served on /metrics. Without it /metrics
// is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithDiagramCache sets the cache for rendered SVG diagrams. The default
// is an in-memory LRU.
func WithDiagramCache(c cache.Cache) Option {
	return func(s *Server) { s.diagrams = c }
}

// Server serves one workspace.
type Server struct {
	ws       *workspace.Workspace
	logger   *log.Logger
	gatherer prometheus.Gatherer
	validate *validator.Validate
	diagrams cache.Cache
	renderer *render.Renderer
}

// diagramCacheSize bounds the default in-memory diagram cache.
const diagramCacheSize = 64

// New returns a server for ws.
func New(ws *workspace.Workspace, opts ...Option) *Server {
	s := &Server{
		ws:       ws,
		logger:   log.Default(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diagrams == nil {
		s.diagrams = cache.NewMemoryCache(diagramCacheSize, cache.DefaultTTL)
	}
	s.renderer = render.NewRenderer(s.diagrams, s.logger)
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/workspace", s.getWorkspace)
		r.Post("/workspace/save", s.saveWorkspace)
		r.Post("/workspace/load", s.loadWorkspace)
		r.Get("/vocabulary", s.listStandardTypes)

		r.Route("/ontologies", func(r chi.Router) {
			r.Get("/", s.listOntologies)
			r.Post("/", s.createOntology)
			r.Post("/example", s.loadExample)
			r.Post("/import", s.importOntology)
			r.Route("/{ontologyID}", func(r chi.Router) {
				r.Get("/", s.getOntology)
				r.Delete("/", s.deleteOntology)
				r.Post("/duplicate", s.duplicateOntology)
				r.Post("/activate", s.activateOntology)
			})
		})

		r.Route("/active", func(r chi.Router) {
			r.Get("/", s.getActive)
			r.Patch("/", s.updateMetadata)
			r.Put("/viewport", s.setViewport)
			r.Put("/properties/{key}", s.setOntologyProperty)
			r.Delete("/properties/{key}", s.deleteOntologyProperty)
			r.Get("/export", s.exportActive)
			r.Get("/diagram.dot", s.diagramDOT)
			r.Get("/diagram.svg", s.diagramSVG)
			r.Post("/validate", s.validateActive)

			r.Route("/nodes", func(r chi.Router) {
				r.Post("/", s.dropNode)
				r.Put("/positions", s.movePositions)
				r.Patch("/{nodeID}", s.updateNode)
				r.Delete("/{nodeID}", s.deleteNode)
			})
			r.Route("/edges", func(r chi.Router) {
				r.Post("/", s.connect)
				r.Patch("/{edgeID}", s.updateEdge)
				r.Delete("/{edgeID}", s.deleteEdge)
			})
			r.Post("/edits/flush", s.flushEdits)

			r.Route("/types", func(r chi.Router) {
				r.Get("/", s.listTypes)
				r.Post("/", s.addType)
				r.Delete("/{token}", s.removeType)
			})

			r.Get("/selection", s.getSelection)
			r.Put("/selection", s.setSelection)
			r.Post("/selection/delete", s.deleteSelection)

			r.Route("/view", func(r chi.Router) {
				r.Get("/", s.getView)
				r.Put("/mode", s.setViewMode)
				r.Put("/text", s.setText)
				r.Put("/format", s.setTextFormat)
				r.Post("/sync", s.syncViews)
			})
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
