package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ontoforge/pkg/codec"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

type testServer struct {
	t  *testing.T
	ws *workspace.Workspace
	h  http.Handler
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()
	logger := log.New(io.Discard)
	ws := workspace.New(workspace.WithLogger(logger), workspace.WithDebounce(time.Hour))
	t.Cleanup(ws.Close)
	opts = append([]Option{WithLogger(logger)}, opts...)
	return &testServer{t: t, ws: ws, h: New(ws, opts...).Handler()}
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNoActiveOntology(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/api/active/", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, string(errs.ErrCodeNoActiveOntology), body.Code)
}

func TestOntologyLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/ontologies/", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := decodeBody[codec.Document](t, rec)
	assert.Equal(t, workspace.DefaultOntologyName, doc.Name)

	rec = ts.do(http.MethodPost, "/api/ontologies/"+doc.ID+"/duplicate", map[string]string{"name": "Copy"})
	require.Equal(t, http.StatusCreated, rec.Code)
	cp := decodeBody[ontologySummary](t, rec)
	assert.True(t, cp.Active)

	list := decodeBody[[]ontologySummary](t, ts.do(http.MethodGet, "/api/ontologies/", nil))
	require.Len(t, list, 2)

	rec = ts.do(http.MethodDelete, "/api/ontologies/"+cp.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodDelete, "/api/ontologies/"+cp.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/ontologies/"+doc.ID+"/activate", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, doc.ID, ts.ws.ActiveID())
}

func TestDropConnectAndEdit(t *testing.T) {
	ts := newTestServer(t)
	ts.ws.CreateNewOntology()

	a := decodeBody[codec.NodeDoc](t, ts.do(http.MethodPost, "/api/active/nodes/", map[string]any{"kind": "entity", "x": 10, "y": 20}))
	b := decodeBody[codec.NodeDoc](t, ts.do(http.MethodPost, "/api/active/nodes/", map[string]any{"kind": "entity"}))
	assert.Equal(t, "New Entity", a.Data.Label)
	assert.Equal(t, 10.0, a.Position.X)

	rec := ts.do(http.MethodPost, "/api/active/nodes/", map[string]any{"kind": "widget"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/active/edges/", map[string]string{"source": a.ID, "target": b.ID})
	require.Equal(t, http.StatusAccepted, rec.Code)
	pending := decodeBody[connectResponse](t, rec)
	require.NotNil(t, pending.Pending)

	rec = ts.do(http.MethodPost, "/api/active/edges/", map[string]string{
		"source": a.ID, "target": b.ID, "relationshipType": "Works For",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[connectResponse](t, rec)
	require.NotNil(t, created.Edge)
	assert.Equal(t, "works_for", created.Edge.Data.RelationshipType)
	assert.True(t, ts.ws.Vocabulary().Has("works_for"))

	rec = ts.do(http.MethodPatch, "/api/active/nodes/"+a.ID, map[string]any{"label": "Person"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Person", decodeBody[codec.NodeDoc](t, rec).Data.Label)

	rec = ts.do(http.MethodPatch, "/api/active/nodes/"+b.ID, map[string]any{"label": "Org", "debounce": true})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	n, _ := ts.ws.Graph().Node(b.ID)
	assert.Equal(t, "New Entity", n.Data.Label)
	assert.Equal(t, countResponse{Count: 1}, decodeBody[countResponse](t, ts.do(http.MethodPost, "/api/active/edits/flush", nil)))
	n, _ = ts.ws.Graph().Node(b.ID)
	assert.Equal(t, "Org", n.Data.Label)

	rec = ts.do(http.MethodPatch, "/api/active/edges/"+created.Edge.ID, map[string]any{"strength": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(http.MethodPatch, "/api/active/edges/"+created.Edge.ID, map[string]any{"target": "ghost"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(http.MethodPatch, "/api/active/nodes/missing", map[string]any{"label": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPut, "/api/active/nodes/positions", map[string]any{
		a.ID: map[string]float64{"x": 1, "y": 2}, "missing": map[string]float64{"x": 0, "y": 0},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[countResponse](t, rec).Count)

	rec = ts.do(http.MethodDelete, "/api/active/nodes/"+a.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, ts.ws.Graph().Edges())
}

func TestSelection(t *testing.T) {
	ts := newTestServer(t)
	ts.ws.CreateNewOntology()
	n, err := ts.ws.DropNode("entity", ontology.Position{})
	require.NoError(t, err)

	rec := ts.do(http.MethodPut, "/api/active/selection", map[string]any{"nodes": []string{n.ID, "gone"}})
	require.Equal(t, http.StatusOK, rec.Code)
	sel := decodeBody[selectionResponse](t, rec)
	assert.Equal(t, "node", sel.Mode)
	assert.Equal(t, []string{n.ID}, sel.Nodes)

	rec = ts.do(http.MethodPost, "/api/active/selection/delete", nil)
	assert.Equal(t, 1, decodeBody[countResponse](t, rec).Count)
	sel = decodeBody[selectionResponse](t, ts.do(http.MethodGet, "/api/active/selection", nil))
	assert.Equal(t, "ontology", sel.Mode)
	assert.Empty(t, sel.Nodes)
}

func TestImportExport(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.ws.LoadExample()
	require.NoError(t, err)

	rec := ts.do(http.MethodGet, "/api/active/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "organization-example.json")
	exported := rec.Body.String()

	rec = ts.do(http.MethodPost, "/api/ontologies/import", exported)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, ts.ws.Ontologies(), 1)

	rec = ts.do(http.MethodPost, "/api/ontologies/import", `{"id":"x","nodes":[],"edges":[{"id":"e","source":"a","target":"b","kind":"relationship","data":{"strength":1}}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(errs.ErrCodeIntegrityViolation), decodeBody[errorBody](t, rec).Code)

	rec = ts.do(http.MethodPost, "/api/ontologies/import", `{not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestValidateAndFix(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.ws.LoadExample()
	require.NoError(t, err)
	require.True(t, ts.ws.Vocabulary().RemoveCustomRelationshipType("works_for"))

	report := decodeBody[reportResponse](t, ts.do(http.MethodPost, "/api/active/validate", nil))
	assert.True(t, report.IsValid)
	require.NotEmpty(t, report.Warnings)

	rec := ts.do(http.MethodPost, "/api/active/validate?fix=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.ws.Vocabulary().Has("works_for"))
}

func TestTypes(t *testing.T) {
	ts := newTestServer(t)
	ts.ws.CreateNewOntology()

	rec := ts.do(http.MethodPost, "/api/active/types/", map[string]string{"token": "Reports To"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.do(http.MethodPost, "/api/active/types/", map[string]string{"token": "reports_to"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodPost, "/api/active/types/", map[string]string{"token": "is_a"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ts.ws.Vocabulary().Has("is_a"))
	rec = ts.do(http.MethodPost, "/api/active/types/", map[string]string{"token": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	types := decodeBody[[]typeInfo](t, ts.do(http.MethodGet, "/api/active/types/", nil))
	last := types[len(types)-1]
	assert.Equal(t, "reports_to", last.Token)
	assert.True(t, last.Custom)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/api/active/types/reports_to", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/api/active/types/reports_to", nil).Code)
}

func TestDualView(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.ws.LoadExample()
	require.NoError(t, err)

	rec := ts.do(http.MethodPut, "/api/active/view/mode", map[string]string{"mode": "text"})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[viewResponse](t, rec)
	assert.True(t, view.IsSync)
	assert.Contains(t, view.Text, "Person")

	rec = ts.do(http.MethodPut, "/api/active/view/text", map[string]string{"content": "{broken"})
	assert.False(t, decodeBody[viewResponse](t, rec).IsSync)

	before := len(ts.ws.Graph().Nodes())
	rec = ts.do(http.MethodPost, "/api/active/view/sync", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(errs.ErrCodeParse), decodeBody[errorBody](t, rec).Code)
	assert.Len(t, ts.ws.Graph().Nodes(), before)

	rec = ts.do(http.MethodPut, "/api/active/view/format", map[string]string{"format": "xml"})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestDiagramDOT(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.ws.LoadExample()
	require.NoError(t, err)

	rec := ts.do(http.MethodGet, "/api/active/diagram.dot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digraph")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "ontoforge_test_total", Help: "test"}))
	ts := newTestServer(t, WithGatherer(reg))

	rec := ts.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ontoforge_test_total")

	plain := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, plain.do(http.MethodGet, "/metrics", nil).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errs.Code
		want int
	}{
		{errs.ErrCodeNotFound, http.StatusNotFound},
		{errs.ErrCodeOntologyNotFound, http.StatusNotFound},
		{errs.ErrCodeNoActiveOntology, http.StatusConflict},
		{errs.ErrCodeIntegrityViolation, http.StatusUnprocessableEntity},
		{errs.ErrCodeParse, http.StatusUnprocessableEntity},
		{errs.ErrCodeConcurrentOperation, http.StatusLocked},
		{errs.ErrCodeInvalidToken, http.StatusBadRequest},
		{errs.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.code), tt.code)
	}
}
