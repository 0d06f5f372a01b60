package genealogy

import "fmt"

// Anonymize returns a companion graph with names, dates and places removed.
// IDs, links, sex, birth and death years and loader metadata are kept, so
// every layout and dimension computes the same values on both graphs.
func (g *Graph) Anonymize() *Graph {
	d := g.Export()
	for i := range d.Individuals {
		ind := &d.Individuals[i]
		ind.Name = fmt.Sprintf("Person %d", i+1)
		ind.Birth = redact(ind.Birth)
		ind.Death = redact(ind.Death)
	}
	return MustNew(d)
}

func redact(e *Event) *Event {
	if e == nil {
		return nil
	}
	return &Event{Year: e.Year}
}
