// Package render turns pipeline results into viewable files.
//
// # Overview
//
// The pipeline itself only produces visual metadata. This package holds the
// preview renderers that draw that metadata for inspection:
//
//   - Node-link previews via Graphviz (in [nodelink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// A missing rsvg-convert is reported as [ErrConverterMissing].
//
// [nodelink]: github.com/matzehuels/lineage/pkg/render/nodelink
package render
