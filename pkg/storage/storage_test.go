package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

func sampleState() *State {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := ontology.New("People", now)
	a.CustomRelationshipTypes = []string{"employs"}
	a.Nodes = []ontology.Node{
		{ID: "p", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "Person", Properties: ontology.Properties{}}},
		{ID: "o", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "Org", Properties: ontology.Properties{}}},
	}
	a.Edges = []ontology.Edge{
		{ID: "e", Source: "o", Target: "p", Kind: ontology.EdgeKindRelationship,
			Data: ontology.EdgeData{RelationshipType: ontology.Custom("employs"), Strength: 1, Properties: ontology.Properties{}}},
		{ID: "f", Source: "p", Target: "o", Kind: ontology.EdgeKindRelationship,
			Data: ontology.EdgeData{RelationshipType: ontology.Custom("works_for"), Strength: 1, Properties: ontology.Properties{}}},
	}
	b := ontology.New("Empty", now)

	return &State{
		Meta: Meta{
			WorkspaceID:   "workspace-1",
			Name:          "My Workspace",
			Created:       now,
			Collaborators: []Collaborator{{ID: "user-local", Name: "ada", Role: "owner"}},
			ActiveID:      b.ID,
		},
		Ontologies: []*ontology.Ontology{a, b},
	}
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, st, "empty store should load nil")

	in := sampleState()
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Meta.WorkspaceID, out.Meta.WorkspaceID)
	assert.Equal(t, in.Meta.ActiveID, out.Meta.ActiveID)
	assert.Equal(t, in.Meta.Collaborators, out.Meta.Collaborators)
	assert.True(t, in.Meta.Created.Equal(out.Meta.Created))
	require.Len(t, out.Ontologies, 2)
	assert.Equal(t, "People", out.Ontologies[0].Name)
	assert.Equal(t, "Empty", out.Ontologies[1].Name)

	// The unregistered custom token on edge f survives the round trip.
	f, ok := out.Ontologies[0].Edge("f")
	require.True(t, ok)
	assert.True(t, f.Data.RelationshipType.IsCustom())
	assert.Equal(t, "works_for", f.Data.RelationshipType.Token())
	assert.Equal(t, []string{"employs"}, out.Ontologies[0].CustomRelationshipTypes)

	// Saving a smaller state drops ontologies that are gone.
	in.Ontologies = in.Ontologies[:1]
	in.Meta.ActiveID = ""
	require.NoError(t, s.Save(ctx, in))
	out, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Ontologies, 1)
	assert.Empty(t, out.Meta.ActiveID)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreRejectsCorruptOntology(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	corrupt := `{"meta": {"workspaceId": "w"}, "ontologies": [
		{"id": "o", "nodes": [], "edges": [{"id": "e", "source": "a", "target": "b", "kind": "relationship", "data": {"strength": 1}}]}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, workspaceFile), []byte(corrupt), 0o600))

	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeIntegrityViolation), "got %v", err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ws.db"))
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("ONTOFORGE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ONTOFORGE_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	prefix := "ontoforge-test:" + time.Now().Format("150405.000000") + ":"
	s, err := NewRedisStore(ctx, url, prefix)
	require.NoError(t, err)
	defer func() {
		_ = s.client.Del(ctx, s.metaKey(), s.docsKey(), s.orderKey()).Err()
		_ = s.Close()
	}()
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ONTOFORGE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ONTOFORGE_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "ontoforge_test_"+time.Now().Format("150405"))
	require.NoError(t, err)
	defer func() {
		_ = s.db.Drop(ctx)
		_ = s.Close()
	}()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Backend: BackendFile, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendSQLite, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: BackendRedis})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))
}
