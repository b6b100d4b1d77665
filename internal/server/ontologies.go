package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ontoforge/pkg/codec"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
)

func (s *Server) getWorkspace(w http.ResponseWriter, _ *http.Request) {
	info := s.ws.EnsureWorkspace()
	respondJSON(w, http.StatusOK, workspaceResponse{
		ID:            info.ID,
		Name:          info.Name,
		Author:        info.Author,
		Created:       info.Created,
		Collaborators: info.Collaborators,
		ActiveID:      s.ws.ActiveID(),
	})
}

func (s *Server) saveWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Save(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadWorkspace(w http.ResponseWriter, r *http.Request) {
	ok, err := s.ws.Load(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"loaded": ok})
}

func (s *Server) listStandardTypes(w http.ResponseWriter, _ *http.Request) {
	std := vocabulary.Standards()
	out := make([]typeInfo, len(std))
	for i, info := range std {
		out[i] = toTypeInfo(info)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) listOntologies(w http.ResponseWriter, _ *http.Request) {
	active := s.ws.ActiveID()
	all := s.ws.Ontologies()
	out := make([]ontologySummary, len(all))
	for i, o := range all {
		out[i] = summarize(o, active)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createOntology(w http.ResponseWriter, _ *http.Request) {
	o := s.ws.CreateNewOntology()
	respondJSON(w, http.StatusCreated, codec.FromOntology(o))
}

func (s *Server) loadExample(w http.ResponseWriter, _ *http.Request) {
	o, err := s.ws.LoadExample()
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, codec.FromOntology(o))
}

func (s *Server) importOntology(w http.ResponseWriter, r *http.Request) {
	o, err := s.ws.Import(r.Context(), r.Body)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, summarize(o, s.ws.ActiveID()))
}

func (s *Server) getOntology(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ontologyID")
	o, ok := s.ws.Ontology(id)
	if !ok {
		s.respondError(w, errs.New(errs.ErrCodeOntologyNotFound, "ontology %s not found", id))
		return
	}
	respondJSON(w, http.StatusOK, codec.FromOntology(o))
}

func (s *Server) deleteOntology(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ontologyID")
	if !s.ws.DeleteOntology(id) {
		s.respondError(w, errs.New(errs.ErrCodeOntologyNotFound, "ontology %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) duplicateOntology(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if r.ContentLength != 0 {
		if err := s.decode(r, &req); err != nil {
			s.respondError(w, err)
			return
		}
	}
	o, err := s.ws.DuplicateOntology(chi.URLParam(r, "ontologyID"), req.Name)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, summarize(o, s.ws.ActiveID()))
}

func (s *Server) activateOntology(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.SetActive(chi.URLParam(r, "ontologyID")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
