package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewExpressionMatrixValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		_, err := NewExpressionMatrix(
			[]string{"g1", "g2"},
			[]string{"s1", "s2", "s3"},
			[][]float64{{0, 1, 2}, {3, 4, 5}},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate gene id", func(t *testing.T) {
		_, err := NewExpressionMatrix(
			[]string{"g1", "g1"},
			[]string{"s1"},
			[][]float64{{1}, {2}},
		)
		var nde NumericDomainError
		if !errors.As(err, &nde) {
			t.Fatalf("expected NumericDomainError, got %v", err)
		}
	})

	t.Run("duplicate sample id", func(t *testing.T) {
		_, err := NewExpressionMatrix(
			[]string{"g1"},
			[]string{"s1", "s1"},
			[][]float64{{1, 2}},
		)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("negative magnitude", func(t *testing.T) {
		_, err := NewExpressionMatrix(
			[]string{"g1"},
			[]string{"s1"},
			[][]float64{{-0.1}},
		)
		var nde NumericDomainError
		if !errors.As(err, &nde) {
			t.Fatalf("expected NumericDomainError, got %v", err)
		}
		if nde.GeneID != "g1" || nde.SampleID != "s1" {
			t.Fatalf("unexpected error coordinates: %+v", nde)
		}
	})

	t.Run("non finite magnitude", func(t *testing.T) {
		_, err := NewExpressionMatrix(
			[]string{"g1"},
			[]string{"s1"},
			[][]float64{{math.NaN()}},
		)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, err := NewExpressionMatrix(
			[]string{"g1"},
			[]string{"s1", "s2"},
			[][]float64{{1}},
		)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLog2Transform(t *testing.T) {
	m, err := NewExpressionMatrix(
		[]string{"g1"},
		[]string{"s1", "s2"},
		[][]float64{{0, 1.5}},
	)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}

	lm, err := m.Log2Transform()
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	want0 := math.Log2(0 + Pseudocount)
	want1 := math.Log2(1.5 + Pseudocount)
	if lm.Values[0][0] != want0 || lm.Values[0][1] != want1 {
		t.Fatalf("unexpected transformed values: %v", lm.Values[0])
	}
	// Source matrix untouched.
	if m.Values[0][0] != 0 || m.Values[0][1] != 1.5 {
		t.Fatalf("source matrix mutated: %v", m.Values[0])
	}
}

func TestLog2TransformRejectsNegative(t *testing.T) {
	m := ExpressionMatrix{
		GeneIDs:   []string{"g1"},
		SampleIDs: []string{"s1"},
		Values:    [][]float64{{-2}},
	}
	_, err := m.Log2Transform()
	var nde NumericDomainError
	if !errors.As(err, &nde) {
		t.Fatalf("expected NumericDomainError, got %v", err)
	}
}
