package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/transformer"
)

func TestDiagnosticsTable(t *testing.T) {
	out := diagnosticsTable([]pipeline.Diagnostic{
		{InstanceID: "fan-chart", TransformerName: "Fan chart", ExecutionTimeMs: 1.5, Success: true},
		{InstanceID: "node-color", TransformerName: "Node color", Success: false, Error: "TRANSFORMER_EXECUTION_ERROR: boom"},
	})
	for _, want := range []string{"Instance", "fan-chart", "Fan chart", "1.50ms", iconSuccess, iconError, "boom"} {
		assert.Contains(t, out, want)
	}
}

func TestPrintDiagnosticsWarnings(t *testing.T) {
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	defer func() { uiOut = prev }()

	printDiagnostics(&pipeline.Result{
		Warnings: []pipeline.Warning{{Code: "GRAPH_REFERENCE_ERROR", EntityID: "e1", Message: `edge e1 references unknown individual "ghost"`}},
	})
	assert.Contains(t, buf.String(), "GRAPH_REFERENCE_ERROR")
	assert.Contains(t, buf.String(), "ghost")
}

func TestAllowedValues(t *testing.T) {
	tests := []struct {
		spec transformer.ParamSpec
		want string
	}{
		{transformer.Number("size", "Size", 10, 1, 50), "1 – 50"},
		{transformer.Select("shape", "Shape", "circle", "circle", "square"), "circle | square"},
		{transformer.Color("color", "Color", "#000000"), "#rrggbb"},
		{transformer.Boolean("hide", "Hide", true), ""},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, allowedValues(tt.spec))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0.5", formatValue(0.5))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, `""`, formatValue(""))
	assert.Equal(t, "circle", formatValue("circle"))
}

func TestJobNames(t *testing.T) {
	assert.Equal(t,
		[]string{"fan", "", "", "tree"},
		jobNames([]string{"a/fan.toml", "a/dup.yaml", "b/dup.toml", "tree.json"}))
}

func TestTimingsTable(t *testing.T) {
	out := timingsTable([]observability.StageTiming{
		{TransformerID: "fan-chart", Runs: 2, Failures: 1, Total: 3 * time.Millisecond, Max: 2 * time.Millisecond},
	})
	assert.Contains(t, out, "fan-chart")
	assert.Contains(t, out, "1.5ms")
	assert.Contains(t, out, "3.0ms")
}
