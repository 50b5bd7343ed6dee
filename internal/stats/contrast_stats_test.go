package stats

import (
	"errors"
	"math"
	"testing"

	"degcore/pkg/domain"
)

func fittedStudy(t *testing.T, perGroup int, gen func(gi int, g domain.Group, rep int) float64, genes int) (*LinearModelFit, ModeratedVariances) {
	t.Helper()
	m, design := buildStudy(t, genes, perGroup, gen)
	fit, err := FitLinearModel(m, design, domain.Stratum{Region: "hippocampus"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	return fit, ModerateVariances(fit)
}

func TestEvaluateContrastDetectsShift(t *testing.T) {
	// Gene 0 carries a +2 dementia shift; genes 1..5 are null. Small
	// replicate noise keeps variances positive and stable.
	noise := []float64{0.05, -0.05, 0.02, -0.02}
	fit, mod := fittedStudy(t, 4, func(gi int, g domain.Group, rep int) float64 {
		base := 8.0 + noise[rep]
		if gi == 0 && g.Dementia {
			base += 2
		}
		return base
	}, 6)

	contrast := domain.CanonicalContrasts()[0] // dementia effect, APOE4+
	stats, err := EvaluateContrast(fit, mod, contrast)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(stats) != 6 {
		t.Fatalf("expected 6 gene stats, got %d", len(stats))
	}

	shifted := stats[0]
	if math.Abs(shifted.LogFC-2) > 1e-9 {
		t.Fatalf("expected logFC 2 for shifted gene, got %g", shifted.LogFC)
	}
	if shifted.PValue >= 1e-4 {
		t.Fatalf("expected tiny p-value for shifted gene, got %g", shifted.PValue)
	}
	for _, s := range stats[1:] {
		if math.Abs(s.LogFC) > 1e-9 {
			t.Errorf("null gene %s has logFC %g", s.GeneID, s.LogFC)
		}
		if s.PValue < 0.5 {
			t.Errorf("null gene %s has suspicious p-value %g", s.GeneID, s.PValue)
		}
	}
}

func TestEvaluateContrastRejectsNonZeroSum(t *testing.T) {
	fit, mod := fittedStudy(t, 2, func(_ int, _ domain.Group, rep int) float64 {
		return 5 + 0.1*float64(rep)
	}, 2)

	bad := domain.Contrast{
		ID: "bad",
		Coefficients: map[domain.Group]float64{
			{APOE4: true, TBI: true, Dementia: true}: 1,
		},
	}
	_, err := EvaluateContrast(fit, mod, bad)
	var ice domain.InvalidContrastError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidContrastError, got %v", err)
	}
}

func TestEvaluateContrastSaturatedDesignFailsClosed(t *testing.T) {
	fit, mod := fittedStudy(t, 1, func(gi int, g domain.Group, _ int) float64 {
		base := 4.0
		if g.Dementia {
			base += 3
		}
		return base
	}, 3)

	stats, err := EvaluateContrast(fit, mod, domain.CanonicalContrasts()[0])
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for _, s := range stats {
		if s.PValue != 1 || s.TStat != 0 {
			t.Fatalf("saturated design must fail closed, got t=%g p=%g", s.TStat, s.PValue)
		}
		if math.Abs(s.LogFC-3) > 1e-9 {
			t.Fatalf("logFC must still be reported, got %g", s.LogFC)
		}
	}
}

func TestEvaluateContrastTwoSidedSymmetry(t *testing.T) {
	noise := []float64{0.1, -0.1}
	fit, mod := fittedStudy(t, 2, func(gi int, g domain.Group, rep int) float64 {
		base := 6.0 + noise[rep]
		if g.Dementia {
			if gi == 0 {
				base += 1.5
			} else {
				base -= 1.5
			}
		}
		return base
	}, 2)

	stats, err := EvaluateContrast(fit, mod, domain.CanonicalContrasts()[0])
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if math.Abs(stats[0].PValue-stats[1].PValue) > 1e-9 {
		t.Fatalf("mirror-image effects must have equal p-values: %g vs %g", stats[0].PValue, stats[1].PValue)
	}
	if math.Abs(stats[0].LogFC+stats[1].LogFC) > 1e-9 {
		t.Fatalf("mirror-image logFC mismatch: %g vs %g", stats[0].LogFC, stats[1].LogFC)
	}
}
