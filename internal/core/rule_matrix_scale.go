package core

import (
	"context"
	"fmt"

	"degcore/pkg/domain"
)

// Raw count matrices routinely peak in the thousands. A maximum this low
// suggests the input was already log-transformed upstream.
const linearScaleCeiling = 50.0

// NewMatrixScaleRule returns the pre-fit rule that flags matrices whose
// values look already log-scaled. The pipeline applies its own log2
// transform unconditionally, so a pre-transformed input would be squashed
// twice. Heuristic only, hence log severity.
func NewMatrixScaleRule() domain.Rule {
	return matrixScaleRule{}
}

type matrixScaleRule struct{}

func (matrixScaleRule) Name() string { return "matrix_scale" }

func (matrixScaleRule) Evaluate(_ context.Context, view domain.StudyView) (domain.Result, error) {
	m := view.Matrix()
	if m.Genes() == 0 || m.Samples() == 0 {
		return domain.Result{}, nil
	}
	max := 0.0
	for _, row := range m.Values {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	res := domain.Result{}
	if max < linearScaleCeiling {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "matrix_scale",
			Severity: domain.SeverityLog,
			Stratum:  view.Stratum(),
			Message:  fmt.Sprintf("matrix maximum %.2f is unusually low for linear-scale counts; input may already be log-transformed", max),
		})
	}
	return res, nil
}
