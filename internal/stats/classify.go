package stats

import "degcore/pkg/domain"

// Fixed classification thresholds. Identical for the raw and corrected
// schemes and deliberately not configurable: published gene lists must be
// reproducible from the inputs alone.
const (
	LogFCThreshold  = 0.5
	PValueThreshold = 0.05
)

// Classify labels one gene under one scheme. The label is a pure function of
// (logFC, p) against the fixed thresholds.
func Classify(logFC, p float64) domain.Significance {
	if p < PValueThreshold {
		switch {
		case logFC > LogFCThreshold:
			return domain.Upregulated
		case logFC < -LogFCThreshold:
			return domain.Downregulated
		}
	}
	return domain.NotSignificant
}

// BuildResultTable assembles the immutable per-gene record set for one
// contrast: raw statistics, BH-adjusted p-values, and both significance
// labels.
func BuildResultTable(stratum domain.Stratum, contrast domain.ContrastID, stats []ContrastStat) domain.ResultTable {
	raw := make([]float64, len(stats))
	for i, s := range stats {
		raw[i] = s.PValue
	}
	adjusted := BenjaminiHochberg(raw)

	rows := make([]domain.GeneStatResult, len(stats))
	for i, s := range stats {
		rows[i] = domain.GeneStatResult{
			GeneID:          s.GeneID,
			LogFC:           s.LogFC,
			PValue:          s.PValue,
			AdjPValue:       adjusted[i],
			Significance:    Classify(s.LogFC, s.PValue),
			AdjSignificance: Classify(s.LogFC, adjusted[i]),
		}
	}
	return domain.ResultTable{Stratum: stratum, Contrast: contrast, Rows: rows}
}
