package graphstore

import (
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// NodePatch describes a partial node update. Nil fields are left unchanged.
type NodePatch struct {
	Kind     *ontology.NodeKind
	Position *ontology.Position
	Data     *NodeDataPatch
}

// NodeDataPatch merges into [ontology.NodeData] field by field. A non-nil
// Properties replaces the whole bag; use [Store.SetNodeProperty] for
// per-key edits.
type NodeDataPatch struct {
	Label       *string
	EntityType  *string
	Description *string
	Properties  ontology.Properties
	Content     *string
	NoteType    *ontology.NoteType
	Author      *string
	Source      *string
}

// IsEmpty reports whether p sets no field.
func (p NodeDataPatch) IsEmpty() bool {
	return p.Label == nil && p.EntityType == nil && p.Description == nil &&
		p.Properties == nil && p.Content == nil && p.NoteType == nil &&
		p.Author == nil && p.Source == nil
}

// Merge returns p with every field set in next overriding p's.
func (p NodeDataPatch) Merge(next NodeDataPatch) NodeDataPatch {
	if next.Label != nil {
		p.Label = next.Label
	}
	if next.EntityType != nil {
		p.EntityType = next.EntityType
	}
	if next.Description != nil {
		p.Description = next.Description
	}
	if next.Properties != nil {
		p.Properties = next.Properties
	}
	if next.Content != nil {
		p.Content = next.Content
	}
	if next.NoteType != nil {
		p.NoteType = next.NoteType
	}
	if next.Author != nil {
		p.Author = next.Author
	}
	if next.Source != nil {
		p.Source = next.Source
	}
	return p
}

// apply merges p into d and reports whether note content changed.
func (p NodeDataPatch) apply(d *ontology.NodeData) (contentChanged bool) {
	if p.Label != nil {
		d.Label = *p.Label
	}
	if p.EntityType != nil {
		d.EntityType = *p.EntityType
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Properties != nil {
		d.Properties = p.Properties.Clone()
	}
	if p.Content != nil && *p.Content != d.Content {
		d.Content = *p.Content
		contentChanged = true
	}
	if p.NoteType != nil {
		if t, ok := ontology.ParseNoteType(string(*p.NoteType)); ok {
			d.NoteType = t
		}
	}
	if p.Author != nil {
		d.Author = *p.Author
	}
	if p.Source != nil {
		d.Source = *p.Source
	}
	return contentChanged
}

// EdgePatch describes a partial edge update. Nil fields are left unchanged.
type EdgePatch struct {
	Source *string
	Target *string
	Kind   *ontology.EdgeKind
	Data   *EdgeDataPatch
}

// EdgeDataPatch merges into [ontology.EdgeData] field by field. A nil or
// zero RelationshipType never clears the edge's current type.
type EdgeDataPatch struct {
	RelationshipType *ontology.RelationshipType
	Properties       ontology.Properties
	Strength         *float64
	IsInferred       *bool
}

// IsEmpty reports whether p sets no field.
func (p EdgeDataPatch) IsEmpty() bool {
	return p.RelationshipType == nil && p.Properties == nil && p.Strength == nil && p.IsInferred == nil
}

// Merge returns p with every field set in next overriding p's.
func (p EdgeDataPatch) Merge(next EdgeDataPatch) EdgeDataPatch {
	if next.RelationshipType != nil {
		p.RelationshipType = next.RelationshipType
	}
	if next.Properties != nil {
		p.Properties = next.Properties
	}
	if next.Strength != nil {
		p.Strength = next.Strength
	}
	if next.IsInferred != nil {
		p.IsInferred = next.IsInferred
	}
	return p
}

func (p EdgeDataPatch) apply(d *ontology.EdgeData) {
	if p.RelationshipType != nil && !p.RelationshipType.IsZero() {
		d.RelationshipType = *p.RelationshipType
	}
	if p.Properties != nil {
		d.Properties = p.Properties.Clone()
	}
	if p.Strength != nil {
		d.Strength = ontology.ClampStrength(*p.Strength)
	}
	if p.IsInferred != nil {
		d.IsInferred = *p.IsInferred
	}
}

// MetadataPatch describes a partial update of ontology-level metadata.
type MetadataPatch struct {
	Name        *string
	Description *string
	Version     *string
	Namespace   *string
	Author      *string
}

func (p MetadataPatch) apply(o *ontology.Ontology) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Version != nil {
		o.Version = *p.Version
	}
	if p.Namespace != nil {
		o.Namespace = *p.Namespace
	}
	if p.Author != nil {
		o.Author = *p.Author
	}
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T { return &v }
