package core

import (
	"context"
	"fmt"

	"degcore/pkg/domain"
)

// NewContrastCoverageRule returns the pre-fit rule requiring every group a
// contrast touches to carry at least one sample. A missing group makes the
// contrast inestimable, so the violation blocks the stratum.
func NewContrastCoverageRule() domain.Rule {
	return contrastCoverageRule{}
}

type contrastCoverageRule struct{}

func (contrastCoverageRule) Name() string { return "contrast_coverage" }

func (contrastCoverageRule) Evaluate(_ context.Context, view domain.StudyView) (domain.Result, error) {
	counts := view.Design().GroupCounts()
	res := domain.Result{}
	for _, c := range view.Contrasts() {
		for _, g := range c.Groups() {
			if counts[g] > 0 {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "contrast_coverage",
				Severity: domain.SeverityBlock,
				Stratum:  view.Stratum(),
				Message:  fmt.Sprintf("contrast %s references group %s with no samples", c.ID, g.Label()),
			})
		}
	}
	return res, nil
}
