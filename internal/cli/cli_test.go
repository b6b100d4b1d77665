package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ontoforge/pkg/config"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/storage"
)

// testEnv is a config file pointing at a private data directory.
type testEnv struct {
	dir     string
	cfgPath string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.Author = "Ada"
	cfg.LogLevel = "error"
	path := filepath.Join(dir, "config.toml")
	if err := cfg.Write(path); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return testEnv{dir: dir, cfgPath: path}
}

func (e testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func (e testEnv) mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := e.run(t, args...); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
}

func (e testEnv) state(t *testing.T) *storage.State {
	t.Helper()
	fs, err := storage.NewFileStore(filepath.Join(e.dir, "data"))
	if err != nil {
		t.Fatal(err)
	}
	st, err := fs.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st == nil {
		t.Fatal("no saved workspace")
	}
	return st
}

func (e testEnv) active(t *testing.T) *ontology.Ontology {
	t.Helper()
	st := e.state(t)
	for _, o := range st.Ontologies {
		if o.ID == st.Meta.ActiveID {
			return o
		}
	}
	t.Fatalf("active ontology %q not saved", st.Meta.ActiveID)
	return nil
}

func findNode(o *ontology.Ontology, label string) (ontology.Node, bool) {
	for _, n := range o.Nodes {
		if n.Data.Label == label {
			return n, true
		}
	}
	return ontology.Node{}, false
}

func TestNewCreatesActiveOntology(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "new", "Team Model", "--description", "People and teams")

	o := env.active(t)
	if o.Name != "Team Model" {
		t.Errorf("Name = %q, want %q", o.Name, "Team Model")
	}
	if o.Description != "People and teams" {
		t.Errorf("Description = %q", o.Description)
	}
	if o.Author != "Ada" {
		t.Errorf("Author = %q, want Ada", o.Author)
	}

	env.mustRun(t, "list")
	env.mustRun(t, "show")
}

func TestNewRejectsInvalidName(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(t, "new", "   ")
	if !errs.Is(err, errs.ErrCodeInvalidName) {
		t.Fatalf("err = %v, want INVALID_NAME", err)
	}
}

func TestGraphCommandsWithoutActive(t *testing.T) {
	env := newTestEnv(t)
	for _, args := range [][]string{
		{"node", "add", "entity"},
		{"node", "list"},
		{"types"},
		{"export", "-o", filepath.Join(env.dir, "x.json")},
	} {
		err := env.run(t, args...)
		if !errs.Is(err, errs.ErrCodeNoActiveOntology) {
			t.Errorf("%v: err = %v, want NO_ACTIVE_ONTOLOGY", args, err)
		}
	}
}

func TestNodeAndEdgeCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "new", "People")
	env.mustRun(t, "node", "add", "entity", "--label", "Person", "--x", "10", "--y", "20")
	env.mustRun(t, "node", "add", "entity", "--label", "Company")
	env.mustRun(t, "node", "add", "note", "--content", "Check payroll", "--note-type", "todo")

	o := env.active(t)
	person, ok := findNode(o, "Person")
	if !ok {
		t.Fatal("Person not saved")
	}
	if person.Position != (ontology.Position{X: 10, Y: 20}) {
		t.Errorf("Position = %+v", person.Position)
	}
	company, _ := findNode(o, "Company")

	var note ontology.Node
	for _, n := range o.Nodes {
		if n.IsNote() {
			note = n
		}
	}
	if note.Data.Content != "Check payroll" || note.Data.NoteType != ontology.NoteTodo {
		t.Errorf("note data = %+v", note.Data)
	}

	env.mustRun(t, "edge", "add", person.ID, company.ID, "--type", "Works For", "--strength", "0.5")
	env.mustRun(t, "edge", "add", note.ID, person.ID)

	o = env.active(t)
	if len(o.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(o.Edges))
	}
	rel := o.Edges[0]
	if got := rel.Data.RelationshipType.Token(); got != "works_for" {
		t.Errorf("relationship = %q, want works_for", got)
	}
	if rel.Data.Strength != 0.5 {
		t.Errorf("Strength = %v, want 0.5", rel.Data.Strength)
	}
	if !o.HasCustomRelationshipType("works_for") {
		t.Error("works_for should be registered")
	}
	if o.Edges[1].Kind != ontology.EdgeKindNoteConnection {
		t.Errorf("note edge kind = %q", o.Edges[1].Kind)
	}

	env.mustRun(t, "node", "rm", person.ID)
	o = env.active(t)
	if len(o.Nodes) != 2 || len(o.Edges) != 0 {
		t.Errorf("after rm: %d nodes, %d edges; want 2, 0", len(o.Nodes), len(o.Edges))
	}
}

func TestEdgeAddRequiresType(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "example")

	err := env.run(t, "edge", "add", "person", "organization")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestNodeSetIsSaved(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "example")
	env.mustRun(t, "node", "set", "person", "--label", "Employee", "--x", "5")

	o := env.active(t)
	n, ok := o.Node("person")
	if !ok {
		t.Fatal("person missing")
	}
	if n.Data.Label != "Employee" {
		t.Errorf("Label = %q, want Employee", n.Data.Label)
	}
	if n.Position.X != 5 {
		t.Errorf("X = %v, want 5", n.Position.X)
	}

	if err := env.run(t, "node", "set", "ghost", "--label", "x"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestOntologyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "example")
	id := env.state(t).Meta.ActiveID

	env.mustRun(t, "duplicate", id, "--name", "Copy")
	st := env.state(t)
	if len(st.Ontologies) != 2 {
		t.Fatalf("len(Ontologies) = %d, want 2", len(st.Ontologies))
	}
	if st.Meta.ActiveID == id {
		t.Error("the copy should be active")
	}

	env.mustRun(t, "open", id)
	if got := env.state(t).Meta.ActiveID; got != id {
		t.Errorf("ActiveID = %q, want %q", got, id)
	}

	env.mustRun(t, "delete", id)
	st = env.state(t)
	if len(st.Ontologies) != 1 || st.Meta.ActiveID != "" {
		t.Errorf("after delete: %d ontologies, active %q", len(st.Ontologies), st.Meta.ActiveID)
	}

	if err := env.run(t, "delete", id); !errs.Is(err, errs.ErrCodeOntologyNotFound) {
		t.Errorf("err = %v, want ONTOLOGY_NOT_FOUND", err)
	}
}

func TestExportImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "example")
	id := env.state(t).Meta.ActiveID

	out := filepath.Join(env.dir, "org.json")
	env.mustRun(t, "export", "-o", out)
	env.mustRun(t, "delete", id)
	env.mustRun(t, "import", out)

	o := env.active(t)
	if o.ID != id {
		t.Errorf("imported ID = %q, want %q", o.ID, id)
	}
	if len(o.Nodes) == 0 || len(o.Edges) == 0 {
		t.Error("imported ontology should keep its graph")
	}

	dot := filepath.Join(env.dir, "org.dot")
	env.mustRun(t, "export", "-f", "dot", "-o", dot)
	data, err := os.ReadFile(dot)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot output starts with %q", string(data[:min(20, len(data))]))
	}
}

func TestExportUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "example")
	if err := env.run(t, "export", "-f", "gif"); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestImportMissingFile(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(t, "import", filepath.Join(env.dir, "missing.json"))
	if !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH", err)
	}
}

func TestValidateExample(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "example")
	env.mustRun(t, "validate")
}

func TestTextApplyRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "example")
	before := env.active(t)

	bad := filepath.Join(env.dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := env.run(t, "text", "apply", bad, "--format", "json")
	if !errs.Is(err, errs.ErrCodeParse) {
		t.Fatalf("err = %v, want PARSE_ERROR", err)
	}
	after := env.active(t)
	if len(after.Nodes) != len(before.Nodes) || len(after.Edges) != len(before.Edges) {
		t.Error("graph should be unchanged after a failed sync")
	}
}

func TestTypesCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "new", "Types")
	env.mustRun(t, "types", "add", "Reports To")
	env.mustRun(t, "types", "add", "is_a")

	o := env.active(t)
	if !o.HasCustomRelationshipType("reports_to") {
		t.Error("reports_to should be registered")
	}
	if o.HasCustomRelationshipType("is_a") {
		t.Error("standard types are never registered as custom")
	}

	env.mustRun(t, "types", "rm", "reports_to")
	if env.active(t).HasCustomRelationshipType("reports_to") {
		t.Error("reports_to should be gone")
	}
	if err := env.run(t, "types", "rm", "reports_to"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "config", "init"})
	root.SetOut(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config init: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != storage.BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, storage.BackendFile)
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.toml"), "list"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}
