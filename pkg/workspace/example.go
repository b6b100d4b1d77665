package workspace

import (
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// ExampleName is the name of the ontology created by LoadExample.
const ExampleName = "Organization Example"

// LoadExample appends a small sample ontology and activates it: three
// entities, a data property, a note and one custom relationship type.
func (w *Workspace) LoadExample() (*ontology.Ontology, error) {
	now := w.now()
	o := ontology.New(ExampleName, now)
	o.Author = w.author
	o.Description = "People, the organizations they work for and the projects they run."

	store := graphstore.New(graphstore.NewMemorySlot(o), graphstore.WithClock(w.now))

	entity := func(id, label, desc string, x, y float64) ontology.Node {
		return ontology.Node{
			ID:       id,
			Kind:     ontology.NodeKindEntity,
			Position: ontology.Position{X: x, Y: y},
			Data:     ontology.NodeData{Label: label, EntityType: "Class", Description: desc},
		}
	}
	nodes := []ontology.Node{
		entity("person", "Person", "A human being.", 100, 100),
		entity("organization", "Organization", "A company or institution.", 400, 100),
		entity("project", "Project", "A planned piece of work.", 400, 300),
		{
			ID:       "email",
			Kind:     ontology.NodeKindDataProperty,
			Position: ontology.Position{X: 100, Y: 300},
			Data:     ontology.NodeData{Label: "email", EntityType: "string"},
		},
		{
			ID:       "note-1",
			Kind:     ontology.NodeKindNote,
			Position: ontology.Position{X: 650, Y: 100},
			Data: ontology.NodeData{
				Content:  "Should contractors be modeled as Person?",
				NoteType: ontology.NoteQuestion,
				Author:   w.author,
			},
		},
	}
	for _, n := range nodes {
		if err := store.AddNode(n); err != nil {
			return nil, err
		}
	}

	rel := func(id, src, tgt string, rt ontology.RelationshipType) ontology.Edge {
		return ontology.Edge{
			ID: id, Source: src, Target: tgt,
			Kind: ontology.EdgeKindRelationship,
			Data: ontology.EdgeData{RelationshipType: rt, Strength: ontology.DefaultStrength},
		}
	}
	edges := []ontology.Edge{
		rel("edge-works-for", "person", "organization", ontology.Custom("works_for")),
		rel("edge-has-email", "person", "email", ontology.Standard(ontology.RelHasProperty)),
		rel("edge-runs", "organization", "project", ontology.Standard(ontology.RelRelatesTo)),
		{ID: "edge-note", Source: "note-1", Target: "person", Kind: ontology.EdgeKindNoteConnection,
			Data: ontology.EdgeData{Strength: ontology.DefaultStrength}},
	}
	err := store.Apply(func(o *ontology.Ontology) error {
		o.CustomRelationshipTypes = append(o.CustomRelationshipTypes, "works_for")
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := store.AddEdge(e); err != nil {
			return nil, err
		}
	}

	out := store.Snapshot()
	w.appendAndActivate(out)
	w.logger.Info("example ontology loaded", "ontology", out.ID)
	return out, nil
}
