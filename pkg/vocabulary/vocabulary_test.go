package vocabulary

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

func newRegistry(t *testing.T) (*Registry, *graphstore.Store) {
	t.Helper()
	store := graphstore.New(graphstore.NewMemorySlot(ontology.New("Test", time.Now())))
	return NewRegistry(store), store
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"works_for", "works_for"},
		{"  Works For ", "works_for"},
		{"co-author!", "co_author"},
		{"Reports   To", "reports_to"},
		{"a.b-c d", "a_b_c_d"},
		{"__lead", "lead"},
		{"trail--", "trail"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStandards(t *testing.T) {
	infos := Standards()
	if len(infos) != len(ontology.StandardTokens()) {
		t.Fatalf("Standards() = %d entries", len(infos))
	}
	for _, info := range infos {
		if info.Label == "" || info.Description == "" {
			t.Errorf("%s: missing label or description", info.Type)
		}
		if info.Custom {
			t.Errorf("%s: marked custom", info.Type)
		}
		wantDashed := info.Type == ontology.Standard(ontology.RelAnnotates)
		if info.Style.Dashed != wantDashed {
			t.Errorf("%s: Dashed = %v", info.Type, info.Style.Dashed)
		}
	}
}

func TestDescribeCustom(t *testing.T) {
	info := Describe(ontology.Custom("works_for"))
	if !info.Custom || info.Label != "works for" {
		t.Errorf("Describe(works_for) = %+v", info)
	}
}

func TestAddCustomDoesNotDeduplicate(t *testing.T) {
	r, _ := newRegistry(t)

	for range 2 {
		if err := r.AddCustomRelationshipType("employs"); err != nil {
			t.Fatalf("AddCustomRelationshipType: %v", err)
		}
	}
	if diff := cmp.Diff([]string{"employs", "employs"}, r.Custom()); diff != "" {
		t.Errorf("Custom() (-want +got):\n%s", diff)
	}
	if got := len(r.All()); got != len(ontology.StandardTokens())+1 {
		t.Errorf("All() = %d entries, duplicates should collapse", got)
	}

	if !r.RemoveCustomRelationshipType("employs") {
		t.Fatal("RemoveCustomRelationshipType = false")
	}
	if len(r.Custom()) != 0 {
		t.Errorf("Custom() = %v, remove should drop every occurrence", r.Custom())
	}
	if r.RemoveCustomRelationshipType("employs") {
		t.Error("removing an absent token returned true")
	}
}

func TestEnsureDeduplicates(t *testing.T) {
	r, _ := newRegistry(t)

	tok, added, err := r.EnsureCustomRelationshipType("Employs")
	if err != nil || !added || tok != "employs" {
		t.Fatalf("first Ensure = %q, %v, %v", tok, added, err)
	}
	tok, added, err = r.EnsureCustomRelationshipType(" employs ")
	if err != nil || added || tok != "employs" {
		t.Fatalf("second Ensure = %q, %v, %v", tok, added, err)
	}
	if diff := cmp.Diff([]string{"employs"}, r.Custom()); diff != "" {
		t.Errorf("Custom() (-want +got):\n%s", diff)
	}

	_, added, err = r.EnsureCustomRelationshipType("Is A")
	if err != nil || added {
		t.Errorf("Ensure(standard) = %v, %v", added, err)
	}
	if _, _, err := r.EnsureCustomRelationshipType("!!"); !errs.Is(err, errs.ErrCodeInvalidToken) {
		t.Errorf("Ensure(!!) error = %v", err)
	}
}

func TestAddCustomRejects(t *testing.T) {
	r, store := newRegistry(t)
	before := store.Snapshot()

	if err := r.AddCustomRelationshipType(""); !errs.Is(err, errs.ErrCodeInvalidToken) {
		t.Errorf("empty token error = %v", err)
	}
	err := r.AddCustomRelationshipType("part_of")
	if !errors.Is(err, ontology.ErrStandardTokenAsCustom) {
		t.Errorf("standard token error = %v", err)
	}
	if store.Snapshot() != before {
		t.Error("rejected add published a snapshot")
	}
}

func TestRemoveLeavesOrphanedEdges(t *testing.T) {
	r, store := newRegistry(t)
	_ = r.AddCustomRelationshipType("employs")
	_ = store.AddNode(ontology.Node{ID: "a", Kind: ontology.NodeKindEntity})
	_ = store.AddNode(ontology.Node{ID: "b", Kind: ontology.NodeKindEntity})
	_ = store.AddEdge(ontology.Edge{ID: "e", Source: "a", Target: "b",
		Data: ontology.EdgeData{RelationshipType: ontology.Custom("employs")}})

	if got := Orphaned(store.Snapshot()); len(got) != 0 {
		t.Errorf("Orphaned before remove = %v", got)
	}
	r.RemoveCustomRelationshipType("employs")

	e, _ := store.Edge("e")
	if e.Data.RelationshipType.Token() != "employs" {
		t.Errorf("edge type = %v, want employs kept", e.Data.RelationshipType)
	}
	if diff := cmp.Diff([]string{"employs"}, Orphaned(store.Snapshot())); diff != "" {
		t.Errorf("Orphaned (-want +got):\n%s", diff)
	}
	if r.Has("employs") {
		t.Error("Has(employs) after remove")
	}
}
