package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"degcore/pkg/domain"
)

// ContrastStat is the per-gene inference result for one contrast.
type ContrastStat struct {
	GeneID string  `json:"gene_id"`
	LogFC  float64 `json:"log_fc"`
	StdErr float64 `json:"std_err"`
	TStat  float64 `json:"t_stat"`
	PValue float64 `json:"p_value"`
}

// EvaluateContrast computes effect size, standard error, moderated t
// statistic, and two-sided p-value for every gene under the given contrast.
//
// The contrast must sum to zero (InvalidContrastError otherwise) and every
// participating group must carry at least one sample in the fitted stratum
// (DegenerateDesignError otherwise). When the moderated fit carries no usable
// degrees of freedom, inference fails closed: t = 0, p = 1.
func EvaluateContrast(fit *LinearModelFit, mod ModeratedVariances, c domain.Contrast) ([]ContrastStat, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Unscaled variance multiplier: sum over groups of c_g^2 / n_g.
	var unscaled float64
	weights := make([]float64, len(fit.Groups))
	for i, g := range fit.Groups {
		w := c.Coefficients[g]
		weights[i] = w
		if w == 0 {
			continue
		}
		if fit.GroupCounts[i] == 0 {
			return nil, domain.DegenerateDesignError{Stratum: fit.Stratum, Group: g}
		}
		unscaled += w * w / float64(fit.GroupCounts[i])
	}

	df := mod.TotalDF
	var tdist distuv.StudentsT
	if df > 0 && !math.IsInf(df, 1) {
		tdist = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	}

	out := make([]ContrastStat, len(fit.GeneIDs))
	for gi, geneID := range fit.GeneIDs {
		var logFC float64
		for i, w := range weights {
			if w != 0 {
				logFC += w * fit.Coefficients[gi][i]
			}
		}

		se := math.Sqrt(mod.PostVar[gi] * unscaled)
		stat := ContrastStat{GeneID: geneID, LogFC: logFC, StdErr: se}
		switch {
		case df <= 0 || !(se > 0) || math.IsNaN(se):
			stat.TStat = 0
			stat.PValue = 1
		case math.IsInf(df, 1):
			z := logFC / se
			stat.TStat = z
			stat.PValue = 2 * distuv.UnitNormal.Survival(math.Abs(z))
		default:
			t := logFC / se
			stat.TStat = t
			stat.PValue = 2 * tdist.Survival(math.Abs(t))
		}
		if stat.PValue > 1 {
			stat.PValue = 1
		}
		out[gi] = stat
	}
	return out, nil
}
