// Command degcore-check validates a study manifest and its referenced data
// files, then dry-runs the admission rules against every stratum. It never
// fits models and never touches storage, so it is safe as a pre-flight or CI
// gate. Exit status is nonzero when the manifest is malformed or any stratum
// carries a blocking rule violation.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"degcore/internal/adapters/ingest"
	"degcore/internal/core"
	"degcore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	manifestPath := flag.String("manifest", "", "path to the study manifest (YAML)")
	flag.Parse()

	if err := runCheck(os.Stdout, *manifestPath); err != nil {
		fmt.Fprintln(os.Stderr, "degcore-check:", err)
		exitFunc(1)
	}
}

// checkView adapts loaded stratum inputs to the rule evaluation interface.
type checkView struct {
	stratum   domain.Stratum
	matrix    domain.ExpressionMatrix
	design    domain.SampleDesign
	contrasts []domain.Contrast
}

func (v checkView) Stratum() domain.Stratum         { return v.stratum }
func (v checkView) Matrix() domain.ExpressionMatrix { return v.matrix }
func (v checkView) Design() domain.SampleDesign     { return v.design }
func (v checkView) Contrasts() []domain.Contrast    { return v.contrasts }

func runCheck(w io.Writer, manifestPath string) error {
	if manifestPath == "" {
		return fmt.Errorf("-manifest is required")
	}

	manifest, err := ingest.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	input, err := manifest.BuildStudyInput()
	if err != nil {
		return err
	}

	contrasts := input.Contrasts
	if len(contrasts) == 0 {
		contrasts = domain.CanonicalContrasts()
	}
	for _, c := range contrasts {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	engine := core.NewDefaultRulesEngine()
	blocking := 0
	for _, stratum := range input.Strata {
		view := checkView{
			stratum:   stratum.Stratum,
			matrix:    stratum.Matrix,
			design:    stratum.Design,
			contrasts: contrasts,
		}
		result, err := engine.Evaluate(context.Background(), view)
		if err != nil {
			return fmt.Errorf("stratum %s: %w", stratum.Stratum.Key(), err)
		}
		for _, v := range result.Violations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", stratum.Stratum.Key(), v.Severity, v.Rule, v.Message)
			if v.Severity == domain.SeverityBlock {
				blocking++
			}
		}
	}

	if blocking > 0 {
		return fmt.Errorf("%d blocking violation(s) in study %s", blocking, manifest.Study)
	}
	fmt.Fprintf(w, "study %s: %d strata ok\n", manifest.Study, len(input.Strata))
	return nil
}
