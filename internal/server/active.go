package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ontoforge/pkg/codec"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/render"
)

func (s *Server) graph() (*graphstore.Store, error) {
	g := s.ws.Graph()
	if g == nil {
		return nil, errs.New(errs.ErrCodeNoActiveOntology, "no active ontology")
	}
	return g, nil
}

func (s *Server) getActive(w http.ResponseWriter, _ *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, codec.FromOntology(g.Snapshot()))
}

func (s *Server) updateMetadata(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req metadataRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Name != nil {
		if err := errs.ValidateOntologyName(*req.Name); err != nil {
			s.respondError(w, err)
			return
		}
	}
	g.UpdateMetadata(graphstore.MetadataPatch{
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
		Namespace:   req.Namespace,
		Author:      req.Author,
	})
	respondJSON(w, http.StatusOK, summarize(g.Snapshot(), s.ws.ActiveID()))
}

func (s *Server) setViewport(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req viewportRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	g.SetViewport(ontology.Viewport{X: req.X, Y: req.Y, Zoom: req.Zoom})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setOntologyProperty(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req propertyRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	g.SetOntologyProperty(chi.URLParam(r, "key"), req.Value)
	respondJSON(w, http.StatusOK, g.OntologyProperties())
}

func (s *Server) deleteOntologyProperty(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	key := chi.URLParam(r, "key")
	if !g.DeleteOntologyProperty(key) {
		s.respondError(w, errs.New(errs.ErrCodeNotFound, "property %q not found", key))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportActive(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := s.ws.Export(r.Context(), &buf)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) dot(r *http.Request) (string, error) {
	g, err := s.graph()
	if err != nil {
		return "", err
	}
	q := r.URL.Query()
	return render.ToDOT(g.Snapshot(), render.Options{
		Detailed:     q.Get("detailed") == "true",
		UsePositions: q.Get("positions") == "true",
	}), nil
}

func (s *Server) diagramDOT(w http.ResponseWriter, r *http.Request) {
	dot, err := s.dot(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) diagramSVG(w http.ResponseWriter, r *http.Request) {
	dot, err := s.dot(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	svg, cached, err := s.renderer.SVG(r.Context(), dot)
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInternal, err, "render diagram"))
		return
	}
	if cached {
		w.Header().Set("X-Diagram-Cache", "hit")
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// validateActive runs validation. With ?fix=true every fixable suggestion
// is applied first and the report reflects the result.
func (s *Server) validateActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := s.ws.ValidateOntology(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if r.URL.Query().Get("fix") == "true" {
		fixed := 0
		for _, sg := range report.Suggestions {
			if !sg.Fixable() {
				continue
			}
			if err := sg.Remediation(ctx); err != nil {
				s.respondError(w, err)
				return
			}
			fixed++
		}
		if fixed > 0 {
			if report, err = s.ws.ValidateOntology(ctx); err != nil {
				s.respondError(w, err)
				return
			}
		}
	}
	respondJSON(w, http.StatusOK, toReport(report))
}
