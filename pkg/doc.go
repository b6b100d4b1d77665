// Package pkg provides the core libraries of Ontoforge, a state engine for
// modeling ontologies as editable graphs.
//
// # Overview
//
// An ontology is a graph of entities, data properties, notes and external
// references connected by typed relationships. The pkg directory is
// organized into four main areas:
//
//  1. Model - [ontology] types and the [vocabulary] of relationship types
//  2. State - [graphstore] transitions, [selection], [dualview] and the
//     [workspace] that ties them to a collection of ontologies
//  3. Interchange - the [codec] document format, [render] for DOT and SVG,
//     and [storage] backends
//  4. Support - [config], [errors], [validation], [debounce], [cache] and
//     [observability] hooks
//
// # Architecture
//
// The typical data flow through Ontoforge:
//
//	Canvas / CLI / HTTP
//	         ↓
//	    [workspace] (active ontology, drop, connect, scheduled edits)
//	         ↓
//	    [graphstore] (atomic graph transitions)
//	         ↓
//	    [dualview] ⇄ text (JSON, YAML, TOML)
//	         ↓
//	    [codec] / [render] / [storage]
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/ontoforge/pkg/ontology"
//	    "github.com/matzehuels/ontoforge/pkg/workspace"
//	)
//
//	ws := workspace.New()
//	ws.CreateNewOntology()
//	person, _ := ws.DropNode("entity", ontology.Position{X: 100, Y: 100})
//	org, _ := ws.DropNode("entity", ontology.Position{X: 300, Y: 100})
//	res, _ := ws.Connect(person.ID, org.ID)
//	ws.CompleteConnection(*res.Pending, ontology.ParseRelationshipType("works_for"))
//
// [ontology]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/ontology
// [vocabulary]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/vocabulary
// [graphstore]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/graphstore
// [selection]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/selection
// [dualview]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/dualview
// [workspace]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/workspace
// [codec]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/codec
// [render]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/render
// [storage]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/storage
// [config]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/errors
// [validation]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/validation
// [debounce]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/debounce
// [cache]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/ontoforge/pkg/observability
package pkg
