package core

import (
	"context"
	"fmt"

	"degcore/pkg/domain"
)

// NewReplicationRule returns the pre-fit rule flagging groups with fewer than
// two replicates. One sample per group leaves zero residual degrees of
// freedom, which forces every test in the stratum to fail closed (p = 1), so
// the condition is surfaced as a warning rather than a block.
func NewReplicationRule() domain.Rule {
	return replicationRule{}
}

type replicationRule struct{}

func (replicationRule) Name() string { return "replication" }

func (replicationRule) Evaluate(_ context.Context, view domain.StudyView) (domain.Result, error) {
	counts := view.Design().GroupCounts()
	res := domain.Result{}
	for _, g := range domain.AllGroups() {
		if n := counts[g]; n == 1 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "replication",
				Severity: domain.SeverityWarn,
				Stratum:  view.Stratum(),
				Message:  fmt.Sprintf("group %s has a single replicate; tests will not reach significance", g.Label()),
			})
		}
	}
	return res, nil
}
