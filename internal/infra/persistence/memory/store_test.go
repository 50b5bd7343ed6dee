package memory

import (
	"context"
	"errors"
	"testing"

	"degcore/pkg/domain"
)

func sampleResults(region string) domain.StratumResults {
	table := domain.ResultTable{
		Stratum:  domain.Stratum{Region: region},
		Contrast: domain.DementiaEffectAPOE4Pos,
		Rows: []domain.GeneStatResult{
			{GeneID: "g1", LogFC: 1.2, PValue: 0.01, AdjPValue: 0.04,
				Significance: domain.Upregulated, AdjSignificance: domain.Upregulated},
		},
	}
	return domain.StratumResults{
		Stratum: domain.Stratum{Region: region},
		Tables:  map[domain.ContrastID]domain.ResultTable{table.Contrast: table},
		GeneSets: map[domain.ContrastID]domain.RegulatedGeneSet{
			table.Contrast: {
				Stratum:     domain.Stratum{Region: region},
				Contrast:    table.Contrast,
				Upregulated: []string{"GFAP"},
				Significant: []string{"GFAP"},
			},
		},
		Intersections: map[string]domain.Intersection{},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	want := sampleResults("hippocampus")
	if err := store.SaveStratumResults(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.GetStratumResults(ctx, domain.Stratum{Region: "hippocampus"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Tables) != 1 || got.Tables[domain.DementiaEffectAPOE4Pos].Rows[0].GeneID != "g1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSaveRejectsOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if err := store.SaveStratumResults(ctx, sampleResults("fwm")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	err := store.SaveStratumResults(ctx, sampleResults("fwm"))
	var already domain.ErrAlreadyStored
	if !errors.As(err, &already) {
		t.Fatalf("expected ErrAlreadyStored, got %v", err)
	}
	if already.Key != "fwm" {
		t.Fatalf("unexpected key %q", already.Key)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := NewStore()
	_, err := store.GetStratumResults(context.Background(), domain.Stratum{Region: "absent"})
	var notFound domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if err := store.SaveStratumResults(ctx, sampleResults("hippocampus")); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := store.GetStratumResults(ctx, domain.Stratum{Region: "hippocampus"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.GeneSets[domain.DementiaEffectAPOE4Pos].Upregulated[0] = "MUTATED"

	second, err := store.GetStratumResults(ctx, domain.Stratum{Region: "hippocampus"})
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.GeneSets[domain.DementiaEffectAPOE4Pos].Upregulated[0] != "GFAP" {
		t.Fatal("stored state aliased by caller mutation")
	}
}

func TestListOrderedByStratumKey(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for _, region := range []string{"pcx", "fwm", "hippocampus"} {
		if err := store.SaveStratumResults(ctx, sampleResults(region)); err != nil {
			t.Fatalf("save %s: %v", region, err)
		}
	}
	list, err := store.ListStratumResults(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	keys := make([]string, len(list))
	for i, r := range list {
		keys[i] = r.Stratum.Key()
	}
	want := []string{"fwm", "hippocampus", "pcx"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("order = %v, want %v", keys, want)
		}
	}
}

func TestFailuresLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	stratum := domain.Stratum{Region: "fwm"}
	if err := store.SaveStratumFailure(ctx, domain.StratumFailure{Stratum: stratum, Stage: "fit", Reason: "first"}); err != nil {
		t.Fatalf("save failure: %v", err)
	}
	if err := store.SaveStratumFailure(ctx, domain.StratumFailure{Stratum: stratum, Stage: "rules", Reason: "second"}); err != nil {
		t.Fatalf("overwrite failure: %v", err)
	}
	failures, err := store.ListFailures(ctx)
	if err != nil {
		t.Fatalf("list failures: %v", err)
	}
	if len(failures) != 1 || failures[0].Reason != "second" {
		t.Fatalf("failures = %+v", failures)
	}
}

func TestExportImportState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if err := store.SaveStratumResults(ctx, sampleResults("hippocampus")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveStratumFailure(ctx, domain.StratumFailure{
		Stratum: domain.Stratum{Region: "fwm"}, Stage: "fit", Reason: "degenerate",
	}); err != nil {
		t.Fatalf("save failure: %v", err)
	}

	snap := store.ExportState()
	fresh := NewStore()
	fresh.ImportState(snap)

	if _, err := fresh.GetStratumResults(ctx, domain.Stratum{Region: "hippocampus"}); err != nil {
		t.Fatalf("imported results missing: %v", err)
	}
	failures, err := fresh.ListFailures(ctx)
	if err != nil || len(failures) != 1 {
		t.Fatalf("imported failures = %v, err %v", failures, err)
	}
}
