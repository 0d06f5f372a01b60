// Package nodelink renders family graphs as node-link diagrams.
//
// # Overview
//
// This package produces Graphviz previews of a family graph, optionally
// styled by a pipeline result. It is a debugging aid for transformer
// output, not a production renderer.
//
// # Usage
//
// Convert a graph and its visual metadata to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, result.Visual, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Layout
//
// When the metadata positions any individual the DOT uses the neato engine
// with pinned positions (pos="x,y!"), so the preview shows exactly where a
// layout transformer put everyone. Without positions it falls back to a
// top-to-bottom dot layout with parents above children.
//
// Hidden individuals and edges are omitted, as are dangling edges.
// Colours, sizes, shapes and stroke styles come from the metadata, falling
// back to the result's global defaults.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
