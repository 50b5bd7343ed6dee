package core

import (
	"context"
	"fmt"
	"strings"

	"degcore/internal/genesets"
	"degcore/internal/stats"
	"degcore/pkg/domain"
)

// Pipeline stage names recorded on stratum failures.
const (
	StageRules     = "rules"
	StageTransform = "transform"
	StageFit       = "fit"
	StageContrast  = "contrast"
)

// StratumInput bundles the per-stratum raw inputs.
type StratumInput struct {
	Stratum domain.Stratum
	Matrix  domain.ExpressionMatrix
	Design  domain.SampleDesign
}

// StudyInput is the full request for a comparative study run.
type StudyInput struct {
	Strata []StratumInput
	// Contrasts defaults to the four canonical contrasts when empty.
	Contrasts  []domain.Contrast
	Annotation domain.GeneAnnotation
	// Pairings defaults to both genotype pairings when empty.
	Pairings []domain.GenotypePairing
}

func (in StudyInput) contrasts() []domain.Contrast {
	if len(in.Contrasts) > 0 {
		return in.Contrasts
	}
	return domain.CanonicalContrasts()
}

func (in StudyInput) pairings() []domain.GenotypePairing {
	if len(in.Pairings) > 0 {
		return in.Pairings
	}
	return []domain.GenotypePairing{{APOE4: true}, {APOE4: false}}
}

// stratumView adapts one stratum's inputs to the rule evaluation interface.
type stratumView struct {
	stratum   domain.Stratum
	matrix    domain.ExpressionMatrix
	design    domain.SampleDesign
	contrasts []domain.Contrast
}

func (v stratumView) Stratum() domain.Stratum         { return v.stratum }
func (v stratumView) Matrix() domain.ExpressionMatrix { return v.matrix }
func (v stratumView) Design() domain.SampleDesign     { return v.design }
func (v stratumView) Contrasts() []domain.Contrast    { return v.contrasts }

// stratumOutcome is the terminal state of one stratum pipeline: either a
// results bundle or a failure, plus any intersections skipped on the way.
type stratumOutcome struct {
	results *domain.StratumResults
	failure *domain.StratumFailure
	skipped []domain.SkippedIntersection
}

// runStratum executes the statistical pipeline for one stratum. Errors never
// escape as Go errors; they are folded into a StratumFailure so one bad
// stratum cannot take down the study.
func (s *Service) runStratum(ctx context.Context, input StratumInput, study StudyInput) stratumOutcome {
	// A failed stratum also records every intersection that depended on it as
	// explicitly skipped, so downstream readers see the gap rather than infer
	// it from absence.
	fail := func(stage string, err error) stratumOutcome {
		s.logger.Warn("stratum pipeline failed",
			"stratum", input.Stratum.Key(), "stage", stage, "reason", err.Error())
		out := stratumOutcome{failure: &domain.StratumFailure{
			Stratum: input.Stratum,
			Stage:   stage,
			Reason:  err.Error(),
		}}
		for _, pairing := range study.pairings() {
			out.skipped = append(out.skipped, domain.SkippedIntersection{
				Stratum: input.Stratum,
				Pairing: pairing,
				Reason:  fmt.Sprintf("stratum failed at stage %s: %s", stage, err.Error()),
			})
		}
		return out
	}

	contrasts := study.contrasts()
	view := stratumView{
		stratum:   input.Stratum,
		matrix:    input.Matrix,
		design:    input.Design,
		contrasts: contrasts,
	}
	ruleResult, err := s.engine.Evaluate(ctx, view)
	if err != nil {
		return fail(StageRules, err)
	}
	for _, v := range ruleResult.Violations {
		switch v.Severity {
		case domain.SeverityWarn:
			s.logger.Warn("rule violation", "stratum", input.Stratum.Key(), "rule", v.Rule, "message", v.Message)
		case domain.SeverityLog:
			s.logger.Info("rule finding", "stratum", input.Stratum.Key(), "rule", v.Rule, "message", v.Message)
		}
	}
	if ruleResult.HasBlocking() {
		return fail(StageRules, fmt.Errorf("blocking rule violations: %s", summarizeViolations(ruleResult)))
	}

	transformed, err := input.Matrix.Log2Transform()
	if err != nil {
		return fail(StageTransform, err)
	}

	fit, err := stats.FitLinearModel(transformed, input.Design, input.Stratum)
	if err != nil {
		return fail(StageFit, err)
	}
	moderated := stats.ModerateVariances(fit)

	results := domain.StratumResults{
		Stratum:       input.Stratum,
		Tables:        make(map[domain.ContrastID]domain.ResultTable, len(contrasts)),
		GeneSets:      make(map[domain.ContrastID]domain.RegulatedGeneSet, len(contrasts)),
		Intersections: make(map[string]domain.Intersection, 2),
	}
	for _, c := range contrasts {
		cs, err := stats.EvaluateContrast(fit, moderated, c)
		if err != nil {
			return fail(StageContrast, fmt.Errorf("contrast %s: %w", c.ID, err))
		}
		table := stats.BuildResultTable(input.Stratum, c.ID, cs)
		results.Tables[c.ID] = table
		results.GeneSets[c.ID] = genesets.BuildRegulated(table, study.Annotation)
	}

	var skipped []domain.SkippedIntersection
	for _, pairing := range study.pairings() {
		tbiID, dementiaID := domain.PairedContrasts(pairing)
		tbiSet, okTBI := results.GeneSets[tbiID]
		dementiaSet, okDementia := results.GeneSets[dementiaID]
		if !okTBI || !okDementia {
			missing := tbiID
			if okTBI {
				missing = dementiaID
			}
			skipped = append(skipped, domain.SkippedIntersection{
				Stratum: input.Stratum,
				Pairing: pairing,
				Reason:  fmt.Sprintf("contrast %s not evaluated in this run", missing),
			})
			continue
		}
		results.Intersections[pairing.Key()] = genesets.Intersect(input.Stratum, pairing, tbiSet, dementiaSet)
	}

	return stratumOutcome{results: &results, skipped: skipped}
}

func summarizeViolations(res domain.Result) string {
	parts := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		if v.Severity != domain.SeverityBlock {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", v.Rule, v.Message))
	}
	return strings.Join(parts, "; ")
}
