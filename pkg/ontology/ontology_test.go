package ontology

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testOntology() *Ontology {
	o := New("Test", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	o.Nodes = []Node{
		{ID: "n1", Kind: NodeKindEntity, Data: NodeData{Label: "Person", Properties: Properties{"tags": []any{"a"}}}},
		{ID: "n2", Kind: NodeKindEntity, Data: NodeData{Label: "Organization"}},
	}
	o.Edges = []Edge{
		{ID: "e1", Source: "n1", Target: "n2", Kind: EdgeKindRelationship,
			Data: EdgeData{RelationshipType: Standard(RelRelatesTo), Strength: 1}},
	}
	return o
}

func TestNew(t *testing.T) {
	now := time.Now()
	o := New("Untitled", now)

	if !strings.HasPrefix(o.ID, "ontology-") {
		t.Errorf("ID = %q, want ontology- prefix", o.ID)
	}
	if !strings.HasPrefix(o.Namespace, NamespaceBase) || !strings.HasSuffix(o.Namespace, "#") {
		t.Errorf("Namespace = %q", o.Namespace)
	}
	if !o.Created.Equal(now) || !o.LastModified.Equal(now) {
		t.Error("timestamps not initialised to now")
	}
	if o.CustomProperties == nil {
		t.Error("CustomProperties should be non-nil")
	}
	if o.Viewport.Zoom != 1 {
		t.Errorf("Viewport.Zoom = %v, want 1", o.Viewport.Zoom)
	}
	if other := New("Untitled", now); other.ID == o.ID {
		t.Error("New should generate distinct IDs")
	}
}

func TestCloneIsDeep(t *testing.T) {
	o := testOntology()
	o.CustomProperties = Properties{"domain": map[string]any{"area": "hr"}}
	o.CustomRelationshipTypes = []string{"manages"}

	c := o.Clone()
	c.Nodes[0].Data.Label = "Changed"
	c.Nodes[0].Data.Properties["tags"].([]any)[0] = "b"
	c.CustomProperties["domain"].(map[string]any)["area"] = "finance"
	c.CustomRelationshipTypes[0] = "owns"
	c.Edges[0].Target = "n1"

	if o.Nodes[0].Data.Label != "Person" {
		t.Error("node label leaked through clone")
	}
	if o.Nodes[0].Data.Properties["tags"].([]any)[0] != "a" {
		t.Error("nested slice leaked through clone")
	}
	if o.CustomProperties["domain"].(map[string]any)["area"] != "hr" {
		t.Error("nested map leaked through clone")
	}
	if o.CustomRelationshipTypes[0] != "manages" {
		t.Error("custom types leaked through clone")
	}
	if o.Edges[0].Target != "n2" {
		t.Error("edge leaked through clone")
	}
}

func TestCloneNil(t *testing.T) {
	var o *Ontology
	if o.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestLookups(t *testing.T) {
	o := testOntology()

	if n, ok := o.Node("n2"); !ok || n.Data.Label != "Organization" {
		t.Errorf("Node(n2) = %+v, %v", n, ok)
	}
	if _, ok := o.Node("missing"); ok {
		t.Error("Node(missing) should not be found")
	}
	if e, ok := o.Edge("e1"); !ok || e.Source != "n1" {
		t.Errorf("Edge(e1) = %+v, %v", e, ok)
	}
	if got := len(o.IncidentEdges("n2")); got != 1 {
		t.Errorf("IncidentEdges(n2) = %d, want 1", got)
	}
	if got := len(o.IncidentEdges("n3")); got != 0 {
		t.Errorf("IncidentEdges(n3) = %d, want 0", got)
	}
}

func TestCheckIntegrity(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Ontology)
		wantErr error
	}{
		{"valid", func(o *Ontology) {}, nil},
		{"empty node id", func(o *Ontology) { o.Nodes[0].ID = "" }, ErrInvalidNodeID},
		{"duplicate node", func(o *Ontology) { o.Nodes[1].ID = "n1" }, ErrDuplicateNodeID},
		{"bad node kind", func(o *Ontology) { o.Nodes[0].Kind = "widget" }, ErrInvalidKind},
		{"empty edge id", func(o *Ontology) { o.Edges[0].ID = "" }, ErrInvalidEdgeID},
		{"duplicate edge", func(o *Ontology) { o.Edges = append(o.Edges, o.Edges[0]) }, ErrDuplicateEdgeID},
		{"bad edge kind", func(o *Ontology) { o.Edges[0].Kind = "" }, ErrInvalidKind},
		{"dangling source", func(o *Ontology) { o.Edges[0].Source = "ghost" }, ErrUnknownSourceNode},
		{"dangling target", func(o *Ontology) { o.Edges[0].Target = "ghost" }, ErrUnknownTargetNode},
		{"standard as custom", func(o *Ontology) { o.CustomRelationshipTypes = []string{"is_a"} }, ErrStandardTokenAsCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOntology()
			tt.mutate(o)
			err := o.CheckIntegrity()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CheckIntegrity() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CheckIntegrity() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseKinds(t *testing.T) {
	for _, k := range NodeKinds {
		if got, ok := ParseNodeKind(string(k)); !ok || got != k {
			t.Errorf("ParseNodeKind(%q) = %q, %v", k, got, ok)
		}
	}
	if _, ok := ParseNodeKind("class"); ok {
		t.Error("ParseNodeKind(class) should fail")
	}
	if _, ok := ParseEdgeKind("note_connection"); !ok {
		t.Error("ParseEdgeKind(note_connection) should succeed")
	}
	if _, ok := ParseNoteType("todo"); !ok {
		t.Error("ParseNoteType(todo) should succeed")
	}
	if _, ok := ParseNoteType("memo"); ok {
		t.Error("ParseNoteType(memo) should fail")
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{Node{ID: "n1", Kind: NodeKindEntity, Data: NodeData{Label: "Person"}}, "Person"},
		{Node{ID: "n2", Kind: NodeKindNote, Data: NodeData{Content: "check this"}}, "check this"},
		{Node{ID: "n3", Kind: NodeKindEntity}, "n3"},
	}
	for _, tt := range tests {
		if got := tt.node.DisplayLabel(); got != tt.want {
			t.Errorf("DisplayLabel(%s) = %q, want %q", tt.node.ID, got, tt.want)
		}
	}
}

func TestClampStrength(t *testing.T) {
	tests := map[float64]float64{-0.5: 0, 0: 0, 0.4: 0.4, 1: 1, 3: 1}
	for in, want := range tests {
		if got := ClampStrength(in); got != want {
			t.Errorf("ClampStrength(%v) = %v, want %v", in, got, want)
		}
	}
}
