package graphstore

import (
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Property bags are edited one key at a time; other keys are left untouched.

// SetOntologyProperty sets key in the ontology-level property bag.
func (s *Store) SetOntologyProperty(key string, value any) bool {
	if key == "" {
		return false
	}
	ok, _ := s.transition(OpSetProperty, func(o *ontology.Ontology) (bool, error) {
		if o.CustomProperties == nil {
			o.CustomProperties = ontology.Properties{}
		}
		o.CustomProperties[key] = value
		return true, nil
	})
	return ok
}

// DeleteOntologyProperty removes key from the ontology-level property bag.
func (s *Store) DeleteOntologyProperty(key string) bool {
	ok, _ := s.transition(OpDeleteProperty, func(o *ontology.Ontology) (bool, error) {
		return deleteKey(o.CustomProperties, key), nil
	})
	return ok
}

// SetNodeProperty sets key in node id's property bag. It returns false if
// the node does not exist.
func (s *Store) SetNodeProperty(id, key string, value any) bool {
	if key == "" {
		return false
	}
	ok, _ := s.transition(OpSetProperty, func(o *ontology.Ontology) (bool, error) {
		i := o.NodeIndex(id)
		if i < 0 {
			return false, nil
		}
		d := &o.Nodes[i].Data
		if d.Properties == nil {
			d.Properties = ontology.Properties{}
		}
		d.Properties[key] = value
		return true, nil
	})
	return ok
}

// DeleteNodeProperty removes key from node id's property bag.
func (s *Store) DeleteNodeProperty(id, key string) bool {
	ok, _ := s.transition(OpDeleteProperty, func(o *ontology.Ontology) (bool, error) {
		i := o.NodeIndex(id)
		if i < 0 {
			return false, nil
		}
		return deleteKey(o.Nodes[i].Data.Properties, key), nil
	})
	return ok
}

// SetEdgeProperty sets key in edge id's property bag. It returns false if
// the edge does not exist.
func (s *Store) SetEdgeProperty(id, key string, value any) bool {
	if key == "" {
		return false
	}
	ok, _ := s.transition(OpSetProperty, func(o *ontology.Ontology) (bool, error) {
		i := o.EdgeIndex(id)
		if i < 0 {
			return false, nil
		}
		d := &o.Edges[i].Data
		if d.Properties == nil {
			d.Properties = ontology.Properties{}
		}
		d.Properties[key] = value
		return true, nil
	})
	return ok
}

// DeleteEdgeProperty removes key from edge id's property bag.
func (s *Store) DeleteEdgeProperty(id, key string) bool {
	ok, _ := s.transition(OpDeleteProperty, func(o *ontology.Ontology) (bool, error) {
		i := o.EdgeIndex(id)
		if i < 0 {
			return false, nil
		}
		return deleteKey(o.Edges[i].Data.Properties, key), nil
	})
	return ok
}

func deleteKey(p ontology.Properties, key string) bool {
	if _, ok := p[key]; !ok {
		return false
	}
	delete(p, key)
	return true
}
