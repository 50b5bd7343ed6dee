// Package domain defines the core value types of the differential-expression
// engine: experimental groups, sample designs, contrasts, per-gene statistics,
// regulated gene sets, and the persistence contracts shared by every storage
// driver.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Group identifies one of the eight experimental cells of the three-factor
// design. The structured form is authoritative; the delimited string label
// exists only at serialization boundaries.
type Group struct {
	APOE4    bool `json:"apoe4"`
	TBI      bool `json:"tbi"`
	Dementia bool `json:"dementia"`
}

// Label renders the canonical serialized form of the group, e.g.
// "apoe4_pos.tbi_pos.dementia".
func (g Group) Label() string {
	parts := []string{"apoe4_neg", "tbi_neg", "no_dementia"}
	if g.APOE4 {
		parts[0] = "apoe4_pos"
	}
	if g.TBI {
		parts[1] = "tbi_pos"
	}
	if g.Dementia {
		parts[2] = "dementia"
	}
	return strings.Join(parts, ".")
}

// ParseGroupLabel parses the canonical label form produced by Label.
func ParseGroupLabel(label string) (Group, error) {
	parts := strings.Split(label, ".")
	if len(parts) != 3 {
		return Group{}, fmt.Errorf("parse group label %q: expected 3 factor segments", label)
	}
	var g Group
	switch parts[0] {
	case "apoe4_pos":
		g.APOE4 = true
	case "apoe4_neg":
	default:
		return Group{}, fmt.Errorf("parse group label %q: unknown APOE4 segment %q", label, parts[0])
	}
	switch parts[1] {
	case "tbi_pos":
		g.TBI = true
	case "tbi_neg":
	default:
		return Group{}, fmt.Errorf("parse group label %q: unknown TBI segment %q", label, parts[1])
	}
	switch parts[2] {
	case "dementia":
		g.Dementia = true
	case "no_dementia":
	default:
		return Group{}, fmt.Errorf("parse group label %q: unknown dementia segment %q", label, parts[2])
	}
	return g, nil
}

// AllGroups returns the eight groups of the full factorial design in a fixed,
// deterministic order. Every fit expects all of them to be populated.
func AllGroups() []Group {
	groups := make([]Group, 0, 8)
	for _, apoe := range []bool{true, false} {
		for _, tbi := range []bool{true, false} {
			for _, dem := range []bool{true, false} {
				groups = append(groups, Group{APOE4: apoe, TBI: tbi, Dementia: dem})
			}
		}
	}
	return groups
}

// SampleDesign assigns every sample of a stratum to exactly one group.
type SampleDesign struct {
	Assignments map[string]Group `json:"assignments"`
}

// NewSampleDesign constructs a design from explicit assignments.
func NewSampleDesign(assignments map[string]Group) SampleDesign {
	cp := make(map[string]Group, len(assignments))
	for id, g := range assignments {
		cp[id] = g
	}
	return SampleDesign{Assignments: cp}
}

// SampleIDs returns the sample identifiers in deterministic order.
func (d SampleDesign) SampleIDs() []string {
	ids := make([]string, 0, len(d.Assignments))
	for id := range d.Assignments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GroupCounts tallies the number of samples assigned to each group.
func (d SampleDesign) GroupCounts() map[Group]int {
	counts := make(map[Group]int, 8)
	for _, g := range d.Assignments {
		counts[g]++
	}
	return counts
}

// Validate checks that every canonical group has at least one sample. It is
// the pre-fit degeneracy gate: a missing group makes the design matrix
// singular and must be rejected before any inversion is attempted.
func (d SampleDesign) Validate(stratum Stratum) error {
	counts := d.GroupCounts()
	for _, g := range AllGroups() {
		if counts[g] == 0 {
			return DegenerateDesignError{Stratum: stratum, Group: g}
		}
	}
	return nil
}

// Stratum identifies one independently analyzed data partition. Strata never
// share fitted models, p-value pools, or gene sets.
type Stratum struct {
	Region string `json:"region"`
}

// Key returns the stable identifier used for persistence buckets and metrics.
func (s Stratum) Key() string { return s.Region }

// GenotypePairing names the within-stratum pairing of a TBI-effect contrast
// with a dementia-effect contrast for one APOE4 status.
type GenotypePairing struct {
	APOE4 bool `json:"apoe4"`
}

// Key returns the stable identifier of the pairing.
func (p GenotypePairing) Key() string {
	if p.APOE4 {
		return "apoe4_pos"
	}
	return "apoe4_neg"
}
