package stats

import (
	"errors"
	"math"
	"testing"

	"degcore/pkg/domain"
)

// buildStudy creates a design with perGroup samples per canonical group and a
// matrix whose values come from gen(geneIndex, group, replicate).
func buildStudy(t *testing.T, genes int, perGroup int, gen func(gi int, g domain.Group, rep int) float64) (domain.ExpressionMatrix, domain.SampleDesign) {
	t.Helper()
	assignments := make(map[string]domain.Group)
	var sampleIDs []string
	var sampleGroups []domain.Group
	var sampleReps []int
	for _, g := range domain.AllGroups() {
		for rep := 0; rep < perGroup; rep++ {
			id := g.Label() + "_r" + string(rune('a'+rep))
			assignments[id] = g
			sampleIDs = append(sampleIDs, id)
			sampleGroups = append(sampleGroups, g)
			sampleReps = append(sampleReps, rep)
		}
	}
	design := domain.NewSampleDesign(assignments)

	geneIDs := make([]string, genes)
	values := make([][]float64, genes)
	for gi := 0; gi < genes; gi++ {
		geneIDs[gi] = "gene_" + string(rune('A'+gi))
		row := make([]float64, len(sampleIDs))
		for si := range sampleIDs {
			row[si] = gen(gi, sampleGroups[si], sampleReps[si])
		}
		values[gi] = row
	}
	m, err := domain.NewExpressionMatrix(geneIDs, sampleIDs, values)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	return m, design
}

func TestFitLinearModelGroupMeans(t *testing.T) {
	// Two replicates per group; values depend on the group only, plus a
	// replicate offset of +/-1 so residual variance is exact.
	m, design := buildStudy(t, 2, 2, func(gi int, g domain.Group, rep int) float64 {
		base := 10.0
		if g.Dementia {
			base += 4
		}
		if rep == 1 {
			return base + 1
		}
		return base - 1
	})

	stratum := domain.Stratum{Region: "parietal_cortex"}
	fit, err := FitLinearModel(m, design, stratum)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	if fit.ResidualDF != float64(16-8) {
		t.Fatalf("expected residual df 8, got %g", fit.ResidualDF)
	}
	for _, g := range domain.AllGroups() {
		idx := fit.GroupIndex(g)
		if idx < 0 {
			t.Fatalf("missing group column for %s", g.Label())
		}
		want := 10.0
		if g.Dementia {
			want = 14.0
		}
		if got := fit.Coefficients[0][idx]; math.Abs(got-want) > 1e-12 {
			t.Errorf("group %s mean = %g, want %g", g.Label(), got, want)
		}
	}
	// Each group contributes deviations of +/-1 around its mean: RSS = 16,
	// s^2 = 16/8 = 2 for every gene.
	for gi, s2 := range fit.ResidualVar {
		if math.Abs(s2-2) > 1e-12 {
			t.Errorf("gene %d residual variance = %g, want 2", gi, s2)
		}
	}
}

func TestFitLinearModelDegenerateDesign(t *testing.T) {
	m, design := buildStudy(t, 1, 1, func(int, domain.Group, int) float64 { return 1 })
	// Remove all samples of one group entirely.
	victim := domain.Group{APOE4: true, TBI: true, Dementia: true}
	delete(design.Assignments, victim.Label()+"_ra")

	_, err := FitLinearModel(m, design, domain.Stratum{Region: "hippocampus"})
	var dde domain.DegenerateDesignError
	if !errors.As(err, &dde) {
		t.Fatalf("expected DegenerateDesignError, got %v", err)
	}
	if dde.Group != victim {
		t.Fatalf("unexpected degenerate group %s", dde.Group.Label())
	}
}

func TestFitLinearModelMissingSampleColumn(t *testing.T) {
	m, design := buildStudy(t, 1, 1, func(int, domain.Group, int) float64 { return 1 })
	// Add a design sample the matrix has never seen; keep the same group so
	// the design itself stays non-degenerate.
	design.Assignments["phantom"] = domain.Group{APOE4: true, TBI: true, Dementia: true}

	_, err := FitLinearModel(m, design, domain.Stratum{Region: "hippocampus"})
	if err == nil {
		t.Fatal("expected error for design sample missing from matrix")
	}
	var dde domain.DegenerateDesignError
	if errors.As(err, &dde) {
		t.Fatalf("input mismatch must not masquerade as degenerate design: %v", err)
	}
}

func TestFitLinearModelSaturatedDesign(t *testing.T) {
	m, design := buildStudy(t, 3, 1, func(gi int, g domain.Group, _ int) float64 {
		return float64(gi) + 1
	})
	fit, err := FitLinearModel(m, design, domain.Stratum{Region: "temporal_cortex"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if fit.ResidualDF != 0 {
		t.Fatalf("expected zero residual df, got %g", fit.ResidualDF)
	}
	for _, s2 := range fit.ResidualVar {
		if s2 != 0 {
			t.Fatalf("saturated fit must zero residual variance, got %g", s2)
		}
	}
}
