package genealogy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

// Read decodes a JSON [Data] document and indexes it.
func Read(r io.Reader) (*Graph, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode graph")
	}
	return New(d)
}

// ReadFile reads a JSON graph document from path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, lerrors.Wrap(lerrors.ErrCodeNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}

// Export returns the graph as a serializable document.
func (g *Graph) Export() Data {
	d := Data{
		Individuals: make([]Individual, len(g.individuals)),
		Families:    make([]Family, len(g.families)),
		Edges:       append([]Edge(nil), g.edges...),
	}
	for i, ind := range g.individuals {
		d.Individuals[i] = *ind
	}
	for i, f := range g.families {
		d.Families[i] = *f
	}
	return d
}

// WriteFile writes the graph as pretty-printed JSON.
func WriteFile(g *Graph, path string) error {
	data, err := json.MarshalIndent(g.Export(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
