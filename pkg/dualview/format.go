package dualview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ontoforge/pkg/codec"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Built-in text format names.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Graph is the text-view document: the node and edge collections plus the
// custom relationship types. Ontology metadata is edited through the
// property panel and is not part of the text.
type Graph struct {
	Nodes                   []codec.NodeDoc `json:"nodes" yaml:"nodes" toml:"nodes" validate:"dive"`
	Edges                   []codec.EdgeDoc `json:"edges" yaml:"edges" toml:"edges" validate:"dive"`
	CustomRelationshipTypes []string        `json:"customRelationshipTypes" yaml:"customRelationshipTypes" toml:"customRelationshipTypes" validate:"dive,required"`
}

// graphDoc is the decoding target for text documents. The collections are
// pointers so an absent key can be told apart from an empty list.
type graphDoc struct {
	Nodes                   *[]codec.NodeDoc `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges                   *[]codec.EdgeDoc `json:"edges" yaml:"edges" toml:"edges"`
	CustomRelationshipTypes []string         `json:"customRelationshipTypes" yaml:"customRelationshipTypes" toml:"customRelationshipTypes"`
}

// ErrMissingCollection is returned when a text document lacks the nodes or
// edges key.
var ErrMissingCollection = errors.New("document must contain nodes and edges")

func (d graphDoc) graph() (Graph, error) {
	var missing []string
	if d.Nodes == nil {
		missing = append(missing, "nodes")
	}
	if d.Edges == nil {
		missing = append(missing, "edges")
	}
	if len(missing) > 0 {
		return Graph{}, fmt.Errorf("%w: missing %s", ErrMissingCollection, strings.Join(missing, ", "))
	}
	return Graph{Nodes: *d.Nodes, Edges: *d.Edges, CustomRelationshipTypes: d.CustomRelationshipTypes}, nil
}

// Format converts between a [Graph] and one text syntax. Unmarshal must
// reject documents with unknown keys or without the nodes and edges
// collections. Implementations must be safe for concurrent use.
type Format interface {
	Name() string
	Marshal(Graph) ([]byte, error)
	Unmarshal([]byte) (Graph, error)
}

// Formats is a registry of text formats keyed by name.
type Formats struct {
	mu sync.RWMutex
	m  map[string]Format
}

// NewFormats returns a registry holding fs.
func NewFormats(fs ...Format) *Formats {
	r := &Formats{m: make(map[string]Format, len(fs))}
	for _, f := range fs {
		r.Register(f)
	}
	return r
}

// DefaultFormats returns a registry with the JSON, YAML and TOML formats.
func DefaultFormats() *Formats {
	return NewFormats(JSON{}, YAML{}, TOML{})
}

// Register adds f, replacing any format with the same name.
func (r *Formats) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[f.Name()] = f
}

// Get returns the format registered under name.
func (r *Formats) Get(name string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.m[name]
	return f, ok
}

// Names returns the registered format names in sorted order.
func (r *Formats) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.m))
	for n := range r.m {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// JSON is the indented JSON text format.
type JSON struct{}

func (JSON) Name() string { return FormatJSON }

func (JSON) Marshal(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

func (JSON) Unmarshal(data []byte) (Graph, error) {
	var d graphDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Graph{}, fmt.Errorf("%w: empty document", ErrMissingCollection)
		}
		return Graph{}, err
	}
	if dec.More() {
		return Graph{}, errors.New("unexpected data after document")
	}
	return d.graph()
}

// YAML is the YAML text format.
type YAML struct{}

func (YAML) Name() string { return FormatYAML }

func (YAML) Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAML) Unmarshal(data []byte) (Graph, error) {
	var d graphDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Graph{}, fmt.Errorf("%w: empty document", ErrMissingCollection)
		}
		return Graph{}, err
	}
	return d.graph()
}

// TOML is the TOML text format. Nodes and edges are written as arrays of
// tables. TOML has no null, so a graph holding a nil property value cannot
// be marshaled.
type TOML struct{}

func (TOML) Name() string { return FormatTOML }

// ErrNullValue is returned when a value has no TOML representation.
var ErrNullValue = errors.New("toml cannot represent null values")

func (TOML) Marshal(g Graph) ([]byte, error) {
	for _, n := range g.Nodes {
		if path, ok := findNull(n.Data.Properties, "properties"); ok {
			return nil, fmt.Errorf("%w: node %s %s", ErrNullValue, n.ID, path)
		}
	}
	for _, e := range g.Edges {
		if path, ok := findNull(e.Data.Properties, "properties"); ok {
			return nil, fmt.Errorf("%w: edge %s %s", ErrNullValue, e.ID, path)
		}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (TOML) Unmarshal(data []byte) (Graph, error) {
	var d graphDoc
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return Graph{}, err
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		// Keys nested below a property bag are free-form.
		if slices.Contains(k[:len(k)-1], "properties") {
			continue
		}
		unknown = append(unknown, k.String())
	}
	if len(unknown) > 0 {
		return Graph{}, fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return d.graph()
}

// findNull returns the path of the first nil value below v.
func findNull(v any, path string) (string, bool) {
	switch t := v.(type) {
	case nil:
		return path, true
	case ontology.Properties:
		return findNull(map[string]any(t), path)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if p, ok := findNull(t[k], path+"."+k); ok {
				return p, true
			}
		}
	case []any:
		for i, x := range t {
			if p, ok := findNull(x, fmt.Sprintf("%s[%d]", path, i)); ok {
				return p, true
			}
		}
	}
	return "", false
}
