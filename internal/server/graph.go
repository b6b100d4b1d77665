package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ontoforge/pkg/codec"
	"github.com/matzehuels/ontoforge/pkg/dualview"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
)

func nodeDoc(n ontology.Node) codec.NodeDoc { return codec.FromNodes([]ontology.Node{n})[0] }
func edgeDoc(e ontology.Edge) codec.EdgeDoc { return codec.FromEdges([]ontology.Edge{e})[0] }

// =============================================================================
// Nodes
// =============================================================================

func (s *Server) dropNode(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	n, err := s.ws.DropNode(req.Kind, ontology.Position{X: req.X, Y: req.Y})
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, nodeDoc(n))
}

func (s *Server) movePositions(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req map[string]codec.PositionDoc
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	positions := make(map[string]ontology.Position, len(req))
	for id, p := range req {
		positions[id] = ontology.Position{X: p.X, Y: p.Y}
	}
	respondJSON(w, http.StatusOK, countResponse{Count: g.UpdateNodePositions(positions)})
}

func (req nodePatchRequest) dataPatch() graphstore.NodeDataPatch {
	p := graphstore.NodeDataPatch{
		Label:       req.Label,
		EntityType:  req.EntityType,
		Description: req.Description,
		Properties:  req.Properties,
		Content:     req.Content,
		Author:      req.Author,
		Source:      req.Source,
	}
	if req.NoteType != nil {
		p.NoteType = graphstore.Ptr(ontology.NoteType(*req.NoteType))
	}
	return p
}

func (s *Server) updateNode(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	id := chi.URLParam(r, "nodeID")
	var req nodePatchRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	data := req.dataPatch()

	if req.Debounce {
		if req.Position != nil {
			g.UpdateNodePositions(map[string]ontology.Position{id: {X: req.Position.X, Y: req.Position.Y}})
		}
		if err := s.ws.ScheduleNodeEdit(id, data); err != nil {
			s.respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	patch := graphstore.NodePatch{}
	if req.Position != nil {
		patch.Position = &ontology.Position{X: req.Position.X, Y: req.Position.Y}
	}
	if !data.IsEmpty() {
		patch.Data = &data
	}
	if !g.UpdateNode(id, patch) {
		if _, ok := g.Node(id); !ok {
			s.respondError(w, errs.New(errs.ErrCodeNotFound, "node %s not found", id))
			return
		}
	}
	n, _ := g.Node(id)
	respondJSON(w, http.StatusOK, nodeDoc(n))
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if s.ws.DeleteElements([]string{id}, nil) == 0 {
		s.respondError(w, errs.New(errs.ErrCodeNotFound, "node %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Edges
// =============================================================================

// connect mirrors a connection drawn on the canvas. Without a
// relationshipType a connection between two non-note nodes comes back as
// pending.
func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	res, err := s.ws.Connect(req.Source, req.Target)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if res.Edge != nil {
		doc := edgeDoc(*res.Edge)
		respondJSON(w, http.StatusCreated, connectResponse{Edge: &doc})
		return
	}
	if req.RelationshipType == "" {
		respondJSON(w, http.StatusAccepted, connectResponse{
			Pending: &pendingDoc{Source: res.Pending.Source, Target: res.Pending.Target},
		})
		return
	}
	rt := ontology.ParseRelationshipType(vocabulary.Normalize(req.RelationshipType))
	e, err := s.ws.CompleteConnection(*res.Pending, rt)
	if err != nil {
		s.respondError(w, err)
		return
	}
	doc := edgeDoc(e)
	respondJSON(w, http.StatusCreated, connectResponse{Edge: &doc})
}

func (req edgePatchRequest) dataPatch() graphstore.EdgeDataPatch {
	p := graphstore.EdgeDataPatch{
		Properties: req.Properties,
		Strength:   req.Strength,
		IsInferred: req.IsInferred,
	}
	if req.RelationshipType != nil {
		p.RelationshipType = graphstore.Ptr(ontology.ParseRelationshipType(*req.RelationshipType))
	}
	return p
}

func (s *Server) updateEdge(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph()
	if err != nil {
		s.respondError(w, err)
		return
	}
	id := chi.URLParam(r, "edgeID")
	var req edgePatchRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	data := req.dataPatch()

	if req.Debounce && req.Source == nil && req.Target == nil {
		if err := s.ws.ScheduleEdgeEdit(id, data); err != nil {
			s.respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	patch := graphstore.EdgePatch{Source: req.Source, Target: req.Target}
	if !data.IsEmpty() {
		patch.Data = &data
	}
	ok, err := g.UpdateEdge(id, patch)
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeIntegrityViolation, err, "update edge %s", id))
		return
	}
	if !ok {
		if _, exists := g.Edge(id); !exists {
			s.respondError(w, errs.New(errs.ErrCodeNotFound, "edge %s not found", id))
			return
		}
	}
	e, _ := g.Edge(id)
	respondJSON(w, http.StatusOK, edgeDoc(e))
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "edgeID")
	if s.ws.DeleteElements(nil, []string{id}) == 0 {
		s.respondError(w, errs.New(errs.ErrCodeNotFound, "edge %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) flushEdits(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, countResponse{Count: s.ws.FlushEdits()})
}

// =============================================================================
// Custom relationship types
// =============================================================================

func (s *Server) registry() (*vocabulary.Registry, error) {
	reg := s.ws.Vocabulary()
	if reg == nil {
		return nil, errs.New(errs.ErrCodeNoActiveOntology, "no active ontology")
	}
	return reg, nil
}

func (s *Server) listTypes(w http.ResponseWriter, _ *http.Request) {
	reg, err := s.registry()
	if err != nil {
		s.respondError(w, err)
		return
	}
	all := reg.All()
	out := make([]typeInfo, len(all))
	for i, rt := range all {
		out[i] = toTypeInfo(vocabulary.Describe(rt))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) addType(w http.ResponseWriter, r *http.Request) {
	reg, err := s.registry()
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req typeRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	token, added, err := reg.EnsureCustomRelationshipType(req.Token)
	if err != nil {
		s.respondError(w, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]any{"token": token, "added": added})
}

func (s *Server) removeType(w http.ResponseWriter, r *http.Request) {
	reg, err := s.registry()
	if err != nil {
		s.respondError(w, err)
		return
	}
	token := chi.URLParam(r, "token")
	if !reg.RemoveCustomRelationshipType(token) {
		s.respondError(w, errs.New(errs.ErrCodeNotFound, "relationship type %q not registered", token))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Selection
// =============================================================================

func (s *Server) selectionState() selectionResponse {
	sel := s.ws.Selection()
	return selectionResponse{
		Mode:  string(sel.Mode()),
		Nodes: nonNil(sel.Nodes()),
		Edges: nonNil(sel.Edges()),
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func (s *Server) getSelection(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.selectionState())
}

func (s *Server) setSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	s.ws.Selection().Select(req.Nodes, req.Edges)
	s.ws.ReconcileSelection()
	respondJSON(w, http.StatusOK, s.selectionState())
}

func (s *Server) deleteSelection(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, countResponse{Count: s.ws.DeleteSelection()})
}

// =============================================================================
// Dual view
// =============================================================================

func (s *Server) viewState() viewResponse {
	dv := s.ws.DualView()
	st := dv.State()
	return viewResponse{
		Mode:       string(st.ActiveMode),
		IsSync:     st.IsSync,
		Text:       st.TextContent,
		TextFormat: st.TextFormat,
		Formats:    dv.Formats().Names(),
	}
}

func (s *Server) getView(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.viewState())
}

func (s *Server) setViewMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	s.ws.FlushEdits()
	if err := s.ws.DualView().SetViewMode(dualview.Mode(req.Mode)); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.viewState())
}

func (s *Server) setText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	s.ws.DualView().SetTextContent(req.Content)
	respondJSON(w, http.StatusOK, s.viewState())
}

func (s *Server) setTextFormat(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.ws.DualView().SetTextFormat(req.Format); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.viewState())
}

func (s *Server) syncViews(w http.ResponseWriter, _ *http.Request) {
	s.ws.FlushEdits()
	if err := s.ws.DualView().SyncViews(); err != nil {
		s.respondError(w, err)
		return
	}
	s.ws.ReconcileSelection()
	respondJSON(w, http.StatusOK, s.viewState())
}
