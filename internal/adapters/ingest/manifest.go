package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"degcore/internal/core"
	"degcore/pkg/domain"
)

// Manifest describes a full study on disk: one annotation file and one
// matrix/design pair per stratum. Relative paths resolve against the
// manifest's own directory.
type Manifest struct {
	Study      string            `yaml:"study"`
	Annotation string            `yaml:"annotation"`
	Strata     []StratumManifest `yaml:"strata"`

	dir string
}

// StratumManifest names the input files of one stratum.
type StratumManifest struct {
	Region string `yaml:"region"`
	Matrix string `yaml:"matrix"`
	Design string `yaml:"design"`
}

// LoadManifest reads and validates a study manifest from path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	m.dir = filepath.Dir(path)
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	if m.Study == "" {
		return fmt.Errorf("manifest missing study name")
	}
	if len(m.Strata) == 0 {
		return fmt.Errorf("manifest lists no strata")
	}
	seen := make(map[string]struct{}, len(m.Strata))
	for _, s := range m.Strata {
		if s.Region == "" {
			return fmt.Errorf("stratum missing region")
		}
		if _, dup := seen[s.Region]; dup {
			return fmt.Errorf("duplicate stratum %s", s.Region)
		}
		seen[s.Region] = struct{}{}
		if s.Matrix == "" || s.Design == "" {
			return fmt.Errorf("stratum %s missing matrix or design path", s.Region)
		}
	}
	return nil
}

func (m Manifest) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.dir, path)
}

// BuildStudyInput reads every file the manifest names and assembles the
// study request.
func (m Manifest) BuildStudyInput() (core.StudyInput, error) {
	input := core.StudyInput{}

	if m.Annotation != "" {
		f, err := os.Open(m.resolve(m.Annotation))
		if err != nil {
			return core.StudyInput{}, fmt.Errorf("open annotation: %w", err)
		}
		annotation, err := ReadGeneAnnotation(f)
		_ = f.Close()
		if err != nil {
			return core.StudyInput{}, err
		}
		input.Annotation = annotation
	}

	for _, s := range m.Strata {
		mf, err := os.Open(m.resolve(s.Matrix))
		if err != nil {
			return core.StudyInput{}, fmt.Errorf("open matrix for %s: %w", s.Region, err)
		}
		matrix, err := ReadExpressionMatrix(mf)
		_ = mf.Close()
		if err != nil {
			return core.StudyInput{}, fmt.Errorf("stratum %s: %w", s.Region, err)
		}

		df, err := os.Open(m.resolve(s.Design))
		if err != nil {
			return core.StudyInput{}, fmt.Errorf("open design for %s: %w", s.Region, err)
		}
		design, err := ReadSampleDesign(df)
		_ = df.Close()
		if err != nil {
			return core.StudyInput{}, fmt.Errorf("stratum %s: %w", s.Region, err)
		}

		input.Strata = append(input.Strata, core.StratumInput{
			Stratum: domain.Stratum{Region: s.Region},
			Matrix:  matrix,
			Design:  design,
		})
	}
	return input, nil
}
