package stats

import "sort"

// BenjaminiHochberg returns step-up adjusted p-values in the input order.
// adjusted[i] = min over j with p[j] >= p[i] of (p[j] * n / rank(j)), clipped
// to [0, 1]. The adjustment is monotone: re-sorting genes by ascending raw
// p-value yields non-decreasing adjusted values.
//
// Callers scope each invocation to exactly one contrast within one stratum;
// pooling across contrasts or strata would change the false-discovery
// guarantee being made.
func BenjaminiHochberg(p []float64) []float64 {
	n := len(p)
	adjusted := make([]float64, n)
	if n == 0 {
		return adjusted
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return p[order[a]] < p[order[b]] })

	running := 1.0
	for rank := n; rank >= 1; rank-- {
		idx := order[rank-1]
		candidate := p[idx] * float64(n) / float64(rank)
		if candidate < running {
			running = candidate
		}
		adjusted[idx] = running
	}
	for i, v := range adjusted {
		if v > 1 {
			adjusted[i] = 1
		} else if v < 0 {
			adjusted[i] = 0
		}
	}
	return adjusted
}
