// Package render draws an ontology as a node-link diagram.
//
// # Overview
//
// [ToDOT] converts an ontology snapshot into Graphviz DOT source. Each node
// kind gets its own shape, relationship edges are labeled with their type,
// and note connections are drawn dashed. [RenderSVG] lays the DOT out
// in-process and returns SVG:
//
//	dot := render.ToDOT(o, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG using the external rsvg-convert tool
// (from librsvg).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering.
package render
