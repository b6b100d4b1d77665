// Package ontology defines the data model of an ontology workspace: the
// [Ontology] document, its [Node] and [Edge] elements, and the
// [RelationshipType] tagged union that types every edge.
//
// # Model
//
// An ontology is a named, versioned graph. Nodes are one of four kinds:
//
//   - entity: a class or concept ("Person", "Organization")
//   - data_property: a literal-valued attribute ("birthDate")
//   - note: free-form annotation with author and timestamps
//   - external_reference: a pointer to a concept defined elsewhere
//
// Edges are directed and either a relationship between two elements or a
// note_connection attaching a note to something it annotates.
//
// # Relationship Types
//
// Relationship types are modelled as a tagged union: either one of the fixed
// [StandardRelationship] values, or a custom token registered per ontology.
// Switches over [StandardRelationship] stay exhaustive while ontologies are
// still free to extend the vocabulary:
//
//	rt := ontology.ParseRelationshipType("manages_workflow")
//	if std, ok := rt.Standard(); ok {
//	    switch std {
//	    case ontology.RelIsA:
//	        // ...
//	    }
//	}
//
// # Snapshots
//
// Values of this package are plain data. The graphstore package treats every
// *Ontology it publishes as an immutable snapshot: mutations produce a new
// pointer via [Ontology.Clone], so hosts can detect changes by identity.
//
// # Integrity
//
// [Ontology.CheckIntegrity] verifies the structural invariants every
// admitted ontology must satisfy: non-empty unique ids, resolvable edge
// endpoints, and a custom vocabulary disjoint from the standard one.
package ontology
