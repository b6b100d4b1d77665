package validation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
)

func valid() *ontology.Ontology {
	o := ontology.New("People", time.Now())
	o.Description = "people and where they work"
	o.CustomRelationshipTypes = []string{"works_for"}
	o.Nodes = []ontology.Node{
		{ID: "p", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "Person", Description: "a human"}},
		{ID: "o", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "Organization", Description: "a company"}},
	}
	o.Edges = []ontology.Edge{
		{ID: "e", Source: "p", Target: "o", Kind: ontology.EdgeKindRelationship,
			Data: ontology.EdgeData{RelationshipType: ontology.Custom("works_for"), Strength: 1}},
	}
	return o
}

func messages(issues []Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.ElementID+": "+i.Message)
	}
	return out
}

func TestValidOntology(t *testing.T) {
	r, err := New().Validate(context.Background(), valid(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsValid || len(r.Errors) != 0 || len(r.Warnings) != 0 || len(r.Suggestions) != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestErrors(t *testing.T) {
	o := valid()
	o.Name = " "
	o.CustomRelationshipTypes = append(o.CustomRelationshipTypes, "is_a")
	o.Nodes = append(o.Nodes,
		ontology.Node{ID: "p", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "Copy", Description: "x"}},
		ontology.Node{ID: "age", Kind: ontology.NodeKindDataProperty},
	)
	o.Edges = append(o.Edges,
		ontology.Edge{ID: "x", Source: "p", Target: "ghost", Kind: ontology.EdgeKindRelationship,
			Data: ontology.EdgeData{RelationshipType: ontology.Standard(ontology.RelIsA), Strength: 1}},
		ontology.Edge{ID: "y", Source: "p", Target: "age", Kind: ontology.EdgeKindRelationship,
			Data: ontology.EdgeData{Strength: 1.5}},
	)

	r, err := New().Validate(context.Background(), o, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		": Ontology has no name",
		`p: Duplicate node ID "p"`,
		`x: Edge target "ghost" does not exist`,
		"age: Data property has no label",
		"y: Relationship has no type",
		"y: Strength 1.5 is outside [0, 1]",
		`: Standard relationship type "is_a" is listed as custom`,
	}
	if diff := cmp.Diff(want, messages(r.Errors)); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
	if r.IsValid {
		t.Error("IsValid = true with errors")
	}
	for _, i := range r.Errors {
		if i.Severity != SeverityError {
			t.Errorf("%s: severity %q", i.Message, i.Severity)
		}
	}
}

func TestWarnings(t *testing.T) {
	o := valid()
	o.CustomRelationshipTypes = nil
	o.Nodes = append(o.Nodes,
		ontology.Node{ID: "lonely", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "person", Description: "dup"}},
		ontology.Node{ID: "n", Kind: ontology.NodeKindNote},
	)
	o.Edges = append(o.Edges,
		ontology.Edge{ID: "loop", Source: "o", Target: "o", Kind: ontology.EdgeKindRelationship,
			Data: ontology.EdgeData{RelationshipType: ontology.Standard(ontology.RelPartOf), Strength: 1}},
	)

	r, err := New().Validate(context.Background(), o, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"lonely: Entity is not connected to anything",
		`lonely: Entity label duplicates "p"`,
		`e: Relationship type "works_for" is not registered`,
		"loop: Relationship points at its own source",
		"n: Note is empty",
	}
	if diff := cmp.Diff(want, messages(r.Warnings)); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
	if !r.IsValid {
		t.Error("warnings alone should not invalidate")
	}
	if r.Warnings[0].ElementLabel != "person" {
		t.Errorf("ElementLabel = %q", r.Warnings[0].ElementLabel)
	}
}

func TestSuggestionsAndRemediation(t *testing.T) {
	o := valid()
	o.Description = ""
	o.Namespace = ""
	o.CustomRelationshipTypes = nil
	o.Nodes[0].Data.Description = ""

	store := graphstore.New(graphstore.NewMemorySlot(o))
	reg := vocabulary.NewRegistry(store)

	r, err := New().Validate(context.Background(), store.Snapshot(), reg)
	if err != nil {
		t.Fatal(err)
	}
	var msgs []string
	var fix *Suggestion
	for i, s := range r.Suggestions {
		msgs = append(msgs, s.Message)
		if s.Fixable() {
			fix = &r.Suggestions[i]
		}
	}
	want := []string{
		"Add a description to the ontology",
		"Set a namespace IRI for the ontology",
		"Register custom relationship types: works_for",
		"1 entity has no description",
	}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Fatalf("suggestions (-want +got):\n%s", diff)
	}
	if fix == nil {
		t.Fatal("no fixable suggestion")
	}
	for range 2 {
		if err := fix.Remediation(context.Background()); err != nil {
			t.Fatalf("Remediation: %v", err)
		}
	}
	if diff := cmp.Diff([]string{"works_for"}, reg.Custom()); diff != "" {
		t.Errorf("custom types (-want +got):\n%s", diff)
	}
}

func TestConcurrentValidationRejected(t *testing.T) {
	e := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	e.beforeRule = func(string) {
		once.Do(func() {
			close(started)
			<-release
		})
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = e.Validate(context.Background(), valid(), nil)
	}()

	<-started
	if !e.IsValidating() {
		t.Error("IsValidating() = false during a run")
	}
	_, err := e.Validate(context.Background(), valid(), nil)
	if !errs.Is(err, errs.ErrCodeConcurrentOperation) {
		t.Errorf("second Validate error = %v, want CONCURRENT_OPERATION", err)
	}
	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Errorf("first Validate error = %v", firstErr)
	}
	if e.IsValidating() {
		t.Error("IsValidating() = true after run")
	}
	if _, err := e.Validate(context.Background(), valid(), nil); err != nil {
		t.Errorf("Validate after run: %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Validate(ctx, valid(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNilOntology(t *testing.T) {
	if _, err := New().Validate(context.Background(), nil, nil); !errs.Is(err, errs.ErrCodeNoActiveOntology) {
		t.Errorf("error = %v", err)
	}
}
