package genesets

import (
	"sort"

	"degcore/pkg/domain"
)

// Intersect computes the per-direction overlap of two regulated gene sets
// from the same stratum. Results are de-duplicated and sorted for
// determinism; identifier comparison is exact. The operation is commutative.
// An empty direction on either side yields an empty overlap, never an error.
func Intersect(stratum domain.Stratum, pairing domain.GenotypePairing, a, b domain.RegulatedGeneSet) domain.Intersection {
	return domain.Intersection{
		Stratum:       stratum,
		Pairing:       pairing,
		Contrasts:     [2]domain.ContrastID{a.Contrast, b.Contrast},
		Upregulated:   intersectIDs(a.Upregulated, b.Upregulated),
		Downregulated: intersectIDs(a.Downregulated, b.Downregulated),
		Significant:   intersectIDs(a.Significant, b.Significant),
	}
}

func intersectIDs(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return []string{}
	}
	inA := make(map[string]struct{}, len(a))
	for _, id := range a {
		inA[id] = struct{}{}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, id := range b {
		if _, ok := inA[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
