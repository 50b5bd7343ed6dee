package domain

import (
	"context"
	"errors"
	"testing"
)

type stubView struct {
	stratum Stratum
}

func (v stubView) Stratum() Stratum         { return v.stratum }
func (v stubView) Matrix() ExpressionMatrix { return ExpressionMatrix{} }
func (v stubView) Design() SampleDesign     { return SampleDesign{} }
func (v stubView) Contrasts() []Contrast    { return nil }

type staticRule struct {
	name   string
	result Result
	err    error
}

func (r staticRule) Name() string { return r.name }
func (r staticRule) Evaluate(context.Context, StudyView) (Result, error) {
	return r.result, r.err
}

func TestRulesEngineAggregates(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "a", result: Result{Violations: []Violation{{Rule: "a", Severity: SeverityWarn}}}})
	engine.Register(staticRule{name: "b", result: Result{Violations: []Violation{{Rule: "b", Severity: SeverityBlock}}}})

	res, err := engine.Evaluate(context.Background(), stubView{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(res.Violations))
	}
	if !res.HasBlocking() {
		t.Fatal("expected blocking result")
	}
}

func TestRulesEngineStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "bad", err: boom})
	engine.Register(staticRule{name: "never"})

	_, err := engine.Evaluate(context.Background(), stubView{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestResultHasBlockingFalseForWarnings(t *testing.T) {
	r := Result{Violations: []Violation{{Severity: SeverityWarn}, {Severity: SeverityLog}}}
	if r.HasBlocking() {
		t.Fatal("warnings must not block")
	}
}

func TestAnnotationLookup(t *testing.T) {
	ann := NewGeneAnnotation([][2]string{
		{"ENSG1", "GFAP"},
		{"ENSG1", "GFAP_DUP"}, // repeated rows keep the first symbol
		{"ENSG2", "APOE"},
		{"ENSG3", "APOE"}, // many-to-one is permitted
		{"", "IGNORED"},
	})
	if ann.Len() != 3 {
		t.Fatalf("expected 3 annotated ids, got %d", ann.Len())
	}
	if sym, ok := ann.Lookup("ENSG1"); !ok || sym != "GFAP" {
		t.Fatalf("unexpected lookup result: %q %v", sym, ok)
	}
	if _, ok := ann.Lookup("ENSG999"); ok {
		t.Fatal("expected missing annotation")
	}
}
