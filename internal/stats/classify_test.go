package stats

import (
	"testing"

	"degcore/pkg/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		logFC float64
		p     float64
		want  domain.Significance
	}{
		{"strong up", 2.0, 1e-6, domain.Upregulated},
		{"strong down", -2.0, 1e-6, domain.Downregulated},
		{"null effect", 0, 1e-6, domain.NotSignificant},
		{"large effect weak evidence", 3.0, 0.2, domain.NotSignificant},
		{"boundary logFC excluded", 0.5, 0.01, domain.NotSignificant},
		{"boundary p excluded", 1.0, 0.05, domain.NotSignificant},
		{"just inside both", 0.51, 0.049, domain.Upregulated},
		{"just inside down", -0.51, 0.049, domain.Downregulated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.logFC, tc.p); got != tc.want {
				t.Fatalf("Classify(%g, %g) = %s, want %s", tc.logFC, tc.p, got, tc.want)
			}
		})
	}
}

func TestBuildResultTablePartition(t *testing.T) {
	stats := []ContrastStat{
		{GeneID: "up", LogFC: 2, PValue: 1e-8},
		{GeneID: "down", LogFC: -2, PValue: 1e-8},
		{GeneID: "flat", LogFC: 0.1, PValue: 0.9},
		{GeneID: "loud_but_noisy", LogFC: 3, PValue: 0.5},
	}
	table := BuildResultTable(domain.Stratum{Region: "hippocampus"}, domain.DementiaEffectAPOE4Pos, stats)

	if len(table.Rows) != len(stats) {
		t.Fatalf("row count %d, want %d", len(table.Rows), len(stats))
	}
	for _, scheme := range []string{"raw", "adjusted"} {
		counts := map[domain.Significance]int{}
		for _, row := range table.Rows {
			label := row.Significance
			if scheme == "adjusted" {
				label = row.AdjSignificance
			}
			counts[label]++
		}
		total := counts[domain.Upregulated] + counts[domain.Downregulated] + counts[domain.NotSignificant]
		if total != len(stats) {
			t.Fatalf("%s scheme partition leaks: %v", scheme, counts)
		}
	}
	for _, row := range table.Rows {
		if row.AdjPValue < row.PValue {
			t.Fatalf("gene %s: adjusted p %g below raw %g", row.GeneID, row.AdjPValue, row.PValue)
		}
	}
}

func TestBuildResultTableSyntheticTwoGroup(t *testing.T) {
	// The canonical synthetic check: a forced +2 logFC with p ~ 0 must come
	// out Upregulated under both schemes; a zero logFC must stay
	// NotSignificant under both.
	stats := []ContrastStat{
		{GeneID: "forced", LogFC: 2, PValue: 1e-12},
		{GeneID: "null", LogFC: 0, PValue: 0.97},
	}
	table := BuildResultTable(domain.Stratum{Region: "synthetic"}, domain.TBIEffectAPOE4Pos, stats)

	forced := table.Rows[0]
	if forced.Significance != domain.Upregulated || forced.AdjSignificance != domain.Upregulated {
		t.Fatalf("forced gene labels: %s / %s", forced.Significance, forced.AdjSignificance)
	}
	null := table.Rows[1]
	if null.Significance != domain.NotSignificant || null.AdjSignificance != domain.NotSignificant {
		t.Fatalf("null gene labels: %s / %s", null.Significance, null.AdjSignificance)
	}
}
