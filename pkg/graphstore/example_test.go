package graphstore_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

func Example() {
	o := ontology.New("People", time.Now())
	store := graphstore.New(graphstore.NewMemorySlot(o))

	_ = store.AddNode(ontology.Node{ID: "person", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "Person"}})
	_ = store.AddNode(ontology.Node{ID: "org", Kind: ontology.NodeKindEntity, Data: ontology.NodeData{Label: "Organization"}})
	_ = store.AddEdge(ontology.Edge{
		ID: "works", Source: "person", Target: "org",
		Data: ontology.EdgeData{RelationshipType: ontology.ParseRelationshipType("works_for")},
	})

	store.DeleteNode("org")
	fmt.Println(len(store.Nodes()), "node,", len(store.Edges()), "edges")
	fmt.Println("unchanged:", store.UpdateNodeData("org", graphstore.NodeDataPatch{Label: graphstore.Ptr("x")}))
	// Output:
	// 1 node, 0 edges
	// unchanged: false
}
