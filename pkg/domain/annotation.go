package domain

// GeneAnnotation maps internal gene identifiers to external gene symbols.
// The mapping may be many-to-one: several internal identifiers can share a
// symbol. Repeated rows for the same internal identifier keep the first
// symbol seen.
type GeneAnnotation struct {
	symbols map[string]string
}

// NewGeneAnnotation builds a lookup from (internal id, external symbol) rows.
func NewGeneAnnotation(rows [][2]string) GeneAnnotation {
	symbols := make(map[string]string, len(rows))
	for _, row := range rows {
		id, symbol := row[0], row[1]
		if id == "" || symbol == "" {
			continue
		}
		if _, ok := symbols[id]; !ok {
			symbols[id] = symbol
		}
	}
	return GeneAnnotation{symbols: symbols}
}

// Lookup returns the external symbol for an internal gene id. Genes absent
// from the annotation are reported via ok=false; absence is not an error.
func (a GeneAnnotation) Lookup(geneID string) (string, bool) {
	symbol, ok := a.symbols[geneID]
	return symbol, ok
}

// Len returns the number of annotated internal identifiers.
func (a GeneAnnotation) Len() int { return len(a.symbols) }
