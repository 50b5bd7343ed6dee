// Package stats implements the per-stratum inference chain: linear model
// fitting over sample groups, empirical-Bayes variance moderation, contrast
// evaluation, Benjamini-Hochberg correction, and significance classification.
//
// All functions are pure: they read fixed-size inputs and return derived
// values without touching shared state, so callers may run strata and
// contrasts concurrently.
package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"degcore/pkg/domain"
)

// LinearModelFit holds the per-gene least-squares solution for one stratum.
// The design is one-hot with no intercept, so the coefficient for a group is
// exactly the mean of the log-expression values of its samples.
type LinearModelFit struct {
	Stratum     domain.Stratum
	GeneIDs     []string
	Groups      []domain.Group // coefficient column order
	GroupCounts []int          // samples per group, aligned with Groups

	Coefficients [][]float64 // genes x groups: fitted group means
	ResidualVar  []float64   // per-gene residual variance s^2
	ResidualDF   float64     // n - k, shared by all genes
	AMean        []float64   // per-gene mean log-expression (moderation covariate)
}

// GroupIndex returns the coefficient column for a group, or -1.
func (f *LinearModelFit) GroupIndex(g domain.Group) int {
	for i, candidate := range f.Groups {
		if candidate == g {
			return i
		}
	}
	return -1
}

// FitLinearModel fits the group-means model to a log-transformed expression
// matrix. The design must populate all eight canonical groups; a missing
// group surfaces as DegenerateDesignError before any per-gene work starts.
// Samples present in the design but absent from the matrix are an input
// mismatch, not a statistical condition, and fail with a plain error.
func FitLinearModel(m domain.ExpressionMatrix, design domain.SampleDesign, stratum domain.Stratum) (*LinearModelFit, error) {
	if err := design.Validate(stratum); err != nil {
		return nil, err
	}

	colIndex := make(map[string]int, len(m.SampleIDs))
	for j, id := range m.SampleIDs {
		colIndex[id] = j
	}

	groups := domain.AllGroups()
	groupCols := make([][]int, len(groups))
	groupPos := make(map[domain.Group]int, len(groups))
	for i, g := range groups {
		groupPos[g] = i
	}
	for _, sampleID := range design.SampleIDs() {
		col, ok := colIndex[sampleID]
		if !ok {
			return nil, fmt.Errorf("fit stratum %q: design sample %q missing from expression matrix", stratum.Key(), sampleID)
		}
		g := design.Assignments[sampleID]
		pos := groupPos[g]
		groupCols[pos] = append(groupCols[pos], col)
	}

	n := len(design.Assignments)
	k := len(groups)
	fit := &LinearModelFit{
		Stratum:      stratum,
		GeneIDs:      append([]string(nil), m.GeneIDs...),
		Groups:       groups,
		GroupCounts:  make([]int, k),
		Coefficients: make([][]float64, len(m.GeneIDs)),
		ResidualVar:  make([]float64, len(m.GeneIDs)),
		ResidualDF:   float64(n - k),
		AMean:        make([]float64, len(m.GeneIDs)),
	}
	for i, cols := range groupCols {
		fit.GroupCounts[i] = len(cols)
	}

	buf := make([]float64, 0, n)
	for gi, row := range m.Values {
		coeffs := make([]float64, k)
		var rss float64
		for pos, cols := range groupCols {
			buf = buf[:0]
			for _, c := range cols {
				buf = append(buf, row[c])
			}
			mean := stat.Mean(buf, nil)
			coeffs[pos] = mean
			for _, v := range buf {
				d := v - mean
				rss += d * d
			}
		}
		fit.Coefficients[gi] = coeffs

		buf = buf[:0]
		for _, cols := range groupCols {
			for _, c := range cols {
				buf = append(buf, row[c])
			}
		}
		fit.AMean[gi] = stat.Mean(buf, nil)

		if fit.ResidualDF > 0 {
			fit.ResidualVar[gi] = rss / fit.ResidualDF
		} else {
			// Saturated design: no residual degrees of freedom. The variance
			// carries no information; downstream inference fails closed.
			fit.ResidualVar[gi] = 0
		}
	}
	return fit, nil
}
