// Package storage persists a workspace: its metadata and every ontology in
// it.
//
// A [Store] saves and loads the complete workspace state in one call.
// Ontologies are stored as codec documents, so loading runs the same shape
// and integrity checks as importing a file.
//
// Available backends:
//   - [FileStore]: a JSON file in a directory (default)
//   - [SQLiteStore]: a SQLite database (pure Go driver)
//   - [RedisStore]: a Redis instance
//   - [MongoStore]: a MongoDB database
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/ontoforge/pkg/codec"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Collaborator is a person listed on the workspace. Collaborators are
// informational only.
type Collaborator struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Role string `json:"role,omitempty" bson:"role,omitempty"`
}

// Meta is the workspace-level record.
type Meta struct {
	WorkspaceID   string         `json:"workspaceId"`
	Name          string         `json:"name"`
	Author        string         `json:"author,omitempty"`
	Created       time.Time      `json:"created"`
	Collaborators []Collaborator `json:"collaborators"`
	ActiveID      string         `json:"activeId,omitempty"`
}

// State is everything a workspace persists. Ontologies keep their order.
type State struct {
	Meta       Meta
	Ontologies []*ontology.Ontology
}

// Store persists workspace state.
type Store interface {
	// Save replaces the stored state with st.
	Save(ctx context.Context, st *State) error
	// Load returns the stored state, or nil if nothing has been saved.
	Load(ctx context.Context) (*State, error)
	Close() error
}

// record is one encoded ontology.
type record struct {
	ID      string
	Payload []byte
}

func encodeState(st *State) (meta []byte, recs []record, err error) {
	meta, err = json.Marshal(st.Meta)
	if err != nil {
		return nil, nil, fmt.Errorf("encode meta: %w", err)
	}
	recs = make([]record, len(st.Ontologies))
	for i, o := range st.Ontologies {
		data, err := codec.Marshal(o)
		if err != nil {
			return nil, nil, fmt.Errorf("encode ontology %s: %w", o.ID, err)
		}
		recs[i] = record{ID: o.ID, Payload: data}
	}
	return meta, recs, nil
}

func decodeState(meta []byte, recs []record) (*State, error) {
	st := &State{}
	if err := json.Unmarshal(meta, &st.Meta); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	st.Ontologies = make([]*ontology.Ontology, 0, len(recs))
	for _, r := range recs {
		o, err := codec.Unmarshal(r.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode ontology %s: %w", r.ID, err)
		}
		st.Ontologies = append(st.Ontologies, o)
	}
	return st, nil
}
