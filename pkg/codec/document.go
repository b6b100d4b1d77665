package codec

import (
	"slices"
	"time"

	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Document is the persisted form of an ontology.
type Document struct {
	ID                      string              `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name                    string              `json:"name" yaml:"name" toml:"name"`
	Description             string              `json:"description" yaml:"description" toml:"description"`
	Version                 string              `json:"version" yaml:"version" toml:"version"`
	Namespace               string              `json:"namespace" yaml:"namespace" toml:"namespace"`
	Author                  string              `json:"author" yaml:"author" toml:"author"`
	Created                 time.Time           `json:"created" yaml:"created" toml:"created"`
	LastModified            time.Time           `json:"lastModified" yaml:"lastModified" toml:"lastModified"`
	CustomProperties        ontology.Properties `json:"customProperties" yaml:"customProperties" toml:"customProperties"`
	CustomRelationshipTypes []string            `json:"customRelationshipTypes" yaml:"customRelationshipTypes" toml:"customRelationshipTypes" validate:"dive,required"`
	Nodes                   []NodeDoc           `json:"nodes" yaml:"nodes" toml:"nodes" validate:"dive"`
	Edges                   []EdgeDoc           `json:"edges" yaml:"edges" toml:"edges" validate:"dive"`
	Viewport                *ViewportDoc        `json:"viewport,omitempty" yaml:"viewport,omitempty" toml:"viewport,omitempty"`
}

// NodeDoc is the persisted form of a node.
type NodeDoc struct {
	ID       string      `json:"id" yaml:"id" toml:"id" validate:"required"`
	Kind     string      `json:"kind" yaml:"kind" toml:"kind" validate:"required,oneof=entity data_property note external_reference"`
	Position PositionDoc `json:"position" yaml:"position" toml:"position"`
	Data     NodeDataDoc `json:"data" yaml:"data" toml:"data"`
}

// NodeDataDoc is the persisted payload of a node. Kind-specific fields are
// omitted when empty.
type NodeDataDoc struct {
	Label       string              `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	EntityType  string              `json:"entityType,omitempty" yaml:"entityType,omitempty" toml:"entityType,omitempty"`
	Properties  ontology.Properties `json:"properties" yaml:"properties" toml:"properties"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Content     string              `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	NoteType    string              `json:"noteType,omitempty" yaml:"noteType,omitempty" toml:"noteType,omitempty" validate:"omitempty,oneof=general todo question decision reference"`
	Author      string              `json:"author,omitempty" yaml:"author,omitempty" toml:"author,omitempty"`
	Created     *time.Time          `json:"created,omitempty" yaml:"created,omitempty" toml:"created,omitempty"`
	Modified    *time.Time          `json:"modified,omitempty" yaml:"modified,omitempty" toml:"modified,omitempty"`
	Source      string              `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
}

// EdgeDoc is the persisted form of an edge.
type EdgeDoc struct {
	ID     string      `json:"id" yaml:"id" toml:"id" validate:"required"`
	Source string      `json:"source" yaml:"source" toml:"source" validate:"required"`
	Target string      `json:"target" yaml:"target" toml:"target" validate:"required"`
	Kind   string      `json:"kind" yaml:"kind" toml:"kind" validate:"required,oneof=relationship note_connection"`
	Data   EdgeDataDoc `json:"data" yaml:"data" toml:"data"`
}

// EdgeDataDoc is the persisted payload of an edge.
type EdgeDataDoc struct {
	RelationshipType string              `json:"relationshipType,omitempty" yaml:"relationshipType,omitempty" toml:"relationshipType,omitempty"`
	Properties       ontology.Properties `json:"properties" yaml:"properties" toml:"properties"`
	Strength         *float64            `json:"strength,omitempty" yaml:"strength,omitempty" toml:"strength,omitempty" validate:"omitempty,gte=0,lte=1"`
	IsInferred       bool                `json:"isInferred,omitempty" yaml:"isInferred,omitempty" toml:"isInferred,omitempty"`
}

// PositionDoc is a persisted canvas coordinate.
type PositionDoc struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// ViewportDoc is the persisted diagram viewport.
type ViewportDoc struct {
	X    float64 `json:"x" yaml:"x" toml:"x"`
	Y    float64 `json:"y" yaml:"y" toml:"y"`
	Zoom float64 `json:"zoom" yaml:"zoom" toml:"zoom" validate:"gt=0"`
}

// FromOntology converts o to its document form.
func FromOntology(o *ontology.Ontology) Document {
	doc := Document{
		ID:                      o.ID,
		Name:                    o.Name,
		Description:             o.Description,
		Version:                 o.Version,
		Namespace:               o.Namespace,
		Author:                  o.Author,
		Created:                 o.Created,
		LastModified:            o.LastModified,
		CustomProperties:        nonNil(o.CustomProperties.Clone()),
		CustomRelationshipTypes: nonNilSlice(slices.Clone(o.CustomRelationshipTypes)),
		Nodes:                   FromNodes(o.Nodes),
		Edges:                   FromEdges(o.Edges),
		Viewport:                &ViewportDoc{X: o.Viewport.X, Y: o.Viewport.Y, Zoom: o.Viewport.Zoom},
	}
	return doc
}

// FromNodes converts nodes to their document form.
func FromNodes(nodes []ontology.Node) []NodeDoc {
	out := make([]NodeDoc, len(nodes))
	for i, n := range nodes {
		out[i] = NodeDoc{
			ID:       n.ID,
			Kind:     string(n.Kind),
			Position: PositionDoc{X: n.Position.X, Y: n.Position.Y},
			Data: NodeDataDoc{
				Label:       n.Data.Label,
				EntityType:  n.Data.EntityType,
				Properties:  nonNil(n.Data.Properties.Clone()),
				Description: n.Data.Description,
				Content:     n.Data.Content,
				NoteType:    string(n.Data.NoteType),
				Author:      n.Data.Author,
				Created:     timePtr(n.Data.Created),
				Modified:    timePtr(n.Data.Modified),
				Source:      n.Data.Source,
			},
		}
	}
	return out
}

// FromEdges converts edges to their document form.
func FromEdges(edges []ontology.Edge) []EdgeDoc {
	out := make([]EdgeDoc, len(edges))
	for i, e := range edges {
		out[i] = EdgeDoc{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Kind:   string(e.Kind),
			Data: EdgeDataDoc{
				RelationshipType: e.Data.RelationshipType.Token(),
				Properties:       nonNil(e.Data.Properties.Clone()),
				Strength:         &e.Data.Strength,
				IsInferred:       e.Data.IsInferred,
			},
		}
	}
	return out
}

// ToOntology converts doc back to an ontology. It does not validate; see
// [Validate] and [ontology.Ontology.CheckIntegrity].
func (doc Document) ToOntology() *ontology.Ontology {
	o := &ontology.Ontology{
		ID:                      doc.ID,
		Name:                    doc.Name,
		Description:             doc.Description,
		Version:                 doc.Version,
		Namespace:               doc.Namespace,
		Author:                  doc.Author,
		Created:                 doc.Created,
		LastModified:            doc.LastModified,
		CustomProperties:        nonNil(doc.CustomProperties.Clone()),
		CustomRelationshipTypes: slices.Clone(doc.CustomRelationshipTypes),
		Nodes:                   ToNodes(doc.Nodes),
		Edges:                   ToEdges(doc.Edges),
		Viewport:                ontology.DefaultViewport,
	}
	if doc.Viewport != nil {
		o.Viewport = ontology.Viewport{X: doc.Viewport.X, Y: doc.Viewport.Y, Zoom: doc.Viewport.Zoom}
	}
	return o
}

// ToNodes converts node documents to nodes.
func ToNodes(docs []NodeDoc) []ontology.Node {
	out := make([]ontology.Node, len(docs))
	for i, d := range docs {
		out[i] = ontology.Node{
			ID:       d.ID,
			Kind:     ontology.NodeKind(d.Kind),
			Position: ontology.Position{X: d.Position.X, Y: d.Position.Y},
			Data: ontology.NodeData{
				Label:       d.Data.Label,
				EntityType:  d.Data.EntityType,
				Properties:  nonNil(d.Data.Properties.Clone()),
				Description: d.Data.Description,
				Content:     d.Data.Content,
				NoteType:    ontology.NoteType(d.Data.NoteType),
				Author:      d.Data.Author,
				Created:     timeVal(d.Data.Created),
				Modified:    timeVal(d.Data.Modified),
				Source:      d.Data.Source,
			},
		}
	}
	return out
}

// ToEdges converts edge documents to edges.
func ToEdges(docs []EdgeDoc) []ontology.Edge {
	out := make([]ontology.Edge, len(docs))
	for i, d := range docs {
		out[i] = ontology.Edge{
			ID:     d.ID,
			Source: d.Source,
			Target: d.Target,
			Kind:   ontology.EdgeKind(d.Kind),
			Data: ontology.EdgeData{
				RelationshipType: ontology.ParseRelationshipType(d.Data.RelationshipType),
				Properties:       nonNil(d.Data.Properties.Clone()),
				Strength:         strengthVal(d.Data.Strength),
				IsInferred:       d.Data.IsInferred,
			},
		}
	}
	return out
}

// strengthVal maps an absent strength to [ontology.DefaultStrength].
func strengthVal(s *float64) float64 {
	if s == nil {
		return ontology.DefaultStrength
	}
	return *s
}

func nonNil(p ontology.Properties) ontology.Properties {
	if p == nil {
		return ontology.Properties{}
	}
	return p
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
