package domain

import "math"

// Pseudocount is the fixed offset added before the log2 transform. It is a
// single constant shared by every stratum so that fold changes remain
// comparable across regions.
const Pseudocount = 0.5

// ExpressionMatrix holds normalized expression magnitudes (FPKM) for genes
// (rows) across samples (columns). Identifiers on both axes are unique.
type ExpressionMatrix struct {
	GeneIDs   []string    `json:"gene_ids"`
	SampleIDs []string    `json:"sample_ids"`
	Values    [][]float64 `json:"values"`
}

// NewExpressionMatrix validates shape and identifier uniqueness and returns
// the matrix. Values must be nonnegative; violations surface as
// NumericDomainError.
func NewExpressionMatrix(geneIDs, sampleIDs []string, values [][]float64) (ExpressionMatrix, error) {
	m := ExpressionMatrix{GeneIDs: geneIDs, SampleIDs: sampleIDs, Values: values}
	if err := m.Validate(); err != nil {
		return ExpressionMatrix{}, err
	}
	return m, nil
}

// Genes returns the number of gene rows.
func (m ExpressionMatrix) Genes() int { return len(m.GeneIDs) }

// Samples returns the number of sample columns.
func (m ExpressionMatrix) Samples() int { return len(m.SampleIDs) }

// Validate checks shape consistency, identifier uniqueness, and value domain.
func (m ExpressionMatrix) Validate() error {
	if len(m.Values) != len(m.GeneIDs) {
		return NumericDomainError{Reason: "row count does not match gene identifier count"}
	}
	seenGenes := make(map[string]struct{}, len(m.GeneIDs))
	for _, id := range m.GeneIDs {
		if _, dup := seenGenes[id]; dup {
			return NumericDomainError{GeneID: id, Reason: "duplicate gene identifier"}
		}
		seenGenes[id] = struct{}{}
	}
	seenSamples := make(map[string]struct{}, len(m.SampleIDs))
	for _, id := range m.SampleIDs {
		if _, dup := seenSamples[id]; dup {
			return NumericDomainError{SampleID: id, Reason: "duplicate sample identifier"}
		}
		seenSamples[id] = struct{}{}
	}
	for i, row := range m.Values {
		if len(row) != len(m.SampleIDs) {
			return NumericDomainError{GeneID: m.GeneIDs[i], Reason: "row width does not match sample identifier count"}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NumericDomainError{GeneID: m.GeneIDs[i], SampleID: m.SampleIDs[j], Value: v, Reason: "value is not finite"}
			}
			if v < 0 {
				return NumericDomainError{GeneID: m.GeneIDs[i], SampleID: m.SampleIDs[j], Value: v, Reason: "expression magnitude is negative"}
			}
		}
	}
	return nil
}

// Log2Transform returns a new matrix with log2(value + Pseudocount) applied to
// every cell. The receiver is never mutated; input matrices are read-only for
// the lifetime of a stratum run.
func (m ExpressionMatrix) Log2Transform() (ExpressionMatrix, error) {
	out := ExpressionMatrix{
		GeneIDs:   append([]string(nil), m.GeneIDs...),
		SampleIDs: append([]string(nil), m.SampleIDs...),
		Values:    make([][]float64, len(m.Values)),
	}
	for i, row := range m.Values {
		dst := make([]float64, len(row))
		for j, v := range row {
			if v < 0 {
				return ExpressionMatrix{}, NumericDomainError{GeneID: m.GeneIDs[i], SampleID: m.SampleIDs[j], Value: v, Reason: "expression magnitude is negative"}
			}
			lv := math.Log2(v + Pseudocount)
			if math.IsNaN(lv) || math.IsInf(lv, 0) {
				return ExpressionMatrix{}, NumericDomainError{GeneID: m.GeneIDs[i], SampleID: m.SampleIDs[j], Value: v, Reason: "log transform produced a non-finite value"}
			}
			dst[j] = lv
		}
		out.Values[i] = dst
	}
	return out, nil
}
