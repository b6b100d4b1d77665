package codec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// relTypeComparer compares relationship types by token; the type has
// unexported fields.
var relTypeComparer = cmp.Comparer(func(a, b ontology.RelationshipType) bool { return a == b })

func sample() *ontology.Ontology {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return &ontology.Ontology{
		ID:           "ontology-1",
		Name:         "People & Orgs",
		Description:  "who works where",
		Version:      "1.2.0",
		Namespace:    "http://ontoforge.local/ontology/1#",
		Author:       "ada",
		Created:      created,
		LastModified: created.Add(time.Hour),
		CustomProperties: ontology.Properties{
			"license": "MIT",
			"tags":    []any{"hr", "org"},
		},
		CustomRelationshipTypes: []string{"works_for"},
		Nodes: []ontology.Node{
			{ID: "person", Kind: ontology.NodeKindEntity, Position: ontology.Position{X: 10, Y: 20},
				Data: ontology.NodeData{Label: "Person", EntityType: "Class", Description: "a human",
					Properties: ontology.Properties{"abstract": false}}},
			{ID: "org", Kind: ontology.NodeKindEntity,
				Data: ontology.NodeData{Label: "Organization", EntityType: "Class", Properties: ontology.Properties{}}},
			{ID: "age", Kind: ontology.NodeKindDataProperty,
				Data: ontology.NodeData{Label: "age", EntityType: "integer", Properties: ontology.Properties{}}},
			{ID: "note", Kind: ontology.NodeKindNote, Position: ontology.Position{X: -5, Y: 3.5},
				Data: ontology.NodeData{Content: "check payroll", NoteType: ontology.NoteTodo, Author: "ada",
					Created: created, Modified: created.Add(time.Minute), Properties: ontology.Properties{}}},
			{ID: "foaf", Kind: ontology.NodeKindExternalReference,
				Data: ontology.NodeData{Label: "foaf:Person", Source: "http://xmlns.com/foaf/0.1/", Properties: ontology.Properties{}}},
		},
		Edges: []ontology.Edge{
			{ID: "e1", Source: "person", Target: "org", Kind: ontology.EdgeKindRelationship,
				Data: ontology.EdgeData{RelationshipType: ontology.Custom("works_for"), Strength: 0.8,
					Properties: ontology.Properties{"since": "2020"}}},
			{ID: "e2", Source: "person", Target: "age", Kind: ontology.EdgeKindRelationship,
				Data: ontology.EdgeData{RelationshipType: ontology.Standard(ontology.RelHasProperty), Strength: 1,
					IsInferred: true, Properties: ontology.Properties{}}},
			{ID: "e3", Source: "note", Target: "person", Kind: ontology.EdgeKindNoteConnection,
				Data: ontology.EdgeData{RelationshipType: ontology.Standard(ontology.RelAnnotates), Strength: 1,
					Properties: ontology.Properties{}}},
		},
		Viewport: ontology.Viewport{X: 12, Y: -4, Zoom: 1.5},
	}
}

func TestRoundTrip(t *testing.T) {
	in := sample()
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out, relTypeComparer); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestOrphanedCustomTokenSurvivesRoundTrip(t *testing.T) {
	in := sample()
	in.CustomRelationshipTypes = nil

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	e, _ := out.Edge("e1")
	if !e.Data.RelationshipType.IsCustom() || e.Data.RelationshipType.Token() != "works_for" {
		t.Errorf("relationship type = %v, want custom works_for", e.Data.RelationshipType)
	}
	if len(out.CustomRelationshipTypes) != 0 {
		t.Errorf("CustomRelationshipTypes = %v, want empty", out.CustomRelationshipTypes)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   errs.Code
		cause  error
	}{
		{name: "malformed", input: `{"id": `, code: errs.ErrCodeInvalidFormat},
		{name: "missing id", input: `{"name": "x", "nodes": [], "edges": []}`, code: errs.ErrCodeInvalidFormat},
		{
			name:  "bad node kind",
			input: `{"id": "o", "nodes": [{"id": "a", "kind": "widget"}], "edges": []}`,
			code:  errs.ErrCodeInvalidFormat,
		},
		{
			name: "strength out of range",
			input: `{"id": "o", "nodes": [{"id": "a", "kind": "entity"}],
				"edges": [{"id": "e", "source": "a", "target": "a", "kind": "relationship", "data": {"strength": 2}}]}`,
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name:  "zero zoom",
			input: `{"id": "o", "nodes": [], "edges": [], "viewport": {"x": 0, "y": 0, "zoom": 0}}`,
			code:  errs.ErrCodeInvalidFormat,
		},
		{
			name: "dangling edge",
			input: `{"id": "o", "nodes": [{"id": "a", "kind": "entity"}],
				"edges": [{"id": "e", "source": "a", "target": "ghost", "kind": "relationship", "data": {"strength": 1}}]}`,
			code:  errs.ErrCodeIntegrityViolation,
			cause: ontology.ErrUnknownTargetNode,
		},
		{
			name:  "duplicate node",
			input: `{"id": "o", "nodes": [{"id": "a", "kind": "entity"}, {"id": "a", "kind": "note"}], "edges": []}`,
			code:  errs.ErrCodeIntegrityViolation,
			cause: ontology.ErrDuplicateNodeID,
		},
		{
			name:  "standard token as custom",
			input: `{"id": "o", "customRelationshipTypes": ["is_a"], "nodes": [], "edges": []}`,
			code:  errs.ErrCodeIntegrityViolation,
			cause: ontology.ErrStandardTokenAsCustom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Unmarshal([]byte(tt.input))
			if o != nil {
				t.Error("Unmarshal returned an ontology on failure")
			}
			if !errs.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestValidationMessageNamesField(t *testing.T) {
	_, err := Unmarshal([]byte(`{"id": "o", "nodes": [{"kind": "entity"}], "edges": []}`))
	if err == nil || !strings.Contains(err.Error(), "nodes[0].id is required") {
		t.Errorf("error = %v", err)
	}
}

func TestMissingViewportDefaults(t *testing.T) {
	o, err := Unmarshal([]byte(`{"id": "o", "nodes": [], "edges": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if o.Viewport != ontology.DefaultViewport {
		t.Errorf("Viewport = %+v", o.Viewport)
	}
	if o.CustomProperties == nil {
		t.Error("CustomProperties should be non-nil")
	}
}

func TestEdgeStrength(t *testing.T) {
	o, err := Unmarshal([]byte(`{"id": "o", "nodes": [{"id": "a", "kind": "entity"}],
		"edges": [
			{"id": "unset", "source": "a", "target": "a", "kind": "relationship", "data": {}},
			{"id": "zero", "source": "a", "target": "a", "kind": "relationship", "data": {"strength": 0}}
		]}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	unset, _ := o.Edge("unset")
	zero, _ := o.Edge("zero")
	if unset.Data.Strength != ontology.DefaultStrength {
		t.Errorf("absent strength = %v, want %v", unset.Data.Strength, ontology.DefaultStrength)
	}
	if zero.Data.Strength != 0 {
		t.Errorf("explicit zero strength = %v", zero.Data.Strength)
	}

	data, err := Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if e, _ := back.Edge("zero"); e.Data.Strength != 0 {
		t.Errorf("zero strength after round trip = %v", e.Data.Strength)
	}
}

func TestExportImportFile(t *testing.T) {
	in := sample()
	path := filepath.Join(t.TempDir(), Filename(in))

	if err := ExportFile(in, path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"relationshipType": "works_for"`)) {
		t.Error("relationship type not written as a bare token")
	}
	out, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if out.Name != in.Name || len(out.Nodes) != len(in.Nodes) {
		t.Errorf("imported %q with %d nodes", out.Name, len(out.Nodes))
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"People & Orgs", "people-orgs.json"},
		{"  Untitled Ontology ", "untitled-ontology.json"},
		{"v2.0 draft", "v2-0-draft.json"},
		{"", "ontology.json"},
		{"***", "ontology.json"},
	}
	for _, tt := range tests {
		if got := Filename(&ontology.Ontology{Name: tt.name}); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
		}
		if err := errs.ValidateFilename(Filename(&ontology.Ontology{Name: tt.name})); err != nil {
			t.Errorf("Filename(%q) is not a safe filename: %v", tt.name, err)
		}
	}
}

func TestWriteNil(t *testing.T) {
	if err := Write(&bytes.Buffer{}, nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Write(nil) error = %v", err)
	}
}
