package ontology_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/ontoforge/pkg/ontology"
)

func ExampleParseRelationshipType() {
	for _, tok := range []string{"is_a", "manages_workflow"} {
		rt := ontology.ParseRelationshipType(tok)
		if std, ok := rt.Standard(); ok {
			fmt.Println("standard:", std)
			continue
		}
		fmt.Println("custom:", rt)
	}
	// Output:
	// standard: is_a
	// custom: manages_workflow
}

func ExampleOntology_CheckIntegrity() {
	o := ontology.New("Example", time.Now())
	o.Nodes = []ontology.Node{{ID: "n1", Kind: ontology.NodeKindEntity}}
	o.Edges = []ontology.Edge{{ID: "e1", Source: "n1", Target: "n2", Kind: ontology.EdgeKindRelationship}}

	fmt.Println(o.CheckIntegrity())
	// Output:
	// edge e1: unknown target node "n2"
}
