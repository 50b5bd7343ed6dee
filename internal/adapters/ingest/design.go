package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"degcore/pkg/domain"
)

// ReadSampleDesign parses a sample-to-group assignment CSV with the header
// "sample_id,apoe4,tbi,dementia". Factor columns accept true/false, 1/0,
// yes/no, and pos/neg, case-insensitively.
func ReadSampleDesign(r io.Reader) (domain.SampleDesign, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return domain.SampleDesign{}, fmt.Errorf("read design header: %w", err)
	}
	want := []string{"sample_id", "apoe4", "tbi", "dementia"}
	if len(header) != len(want) {
		return domain.SampleDesign{}, fmt.Errorf("design header %v, want %v", header, want)
	}
	for i, col := range want {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return domain.SampleDesign{}, fmt.Errorf("design header %v, want %v", header, want)
		}
	}

	assignments := make(map[string]domain.Group)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.SampleDesign{}, fmt.Errorf("read design line %d: %w", line, err)
		}
		id := strings.TrimSpace(record[0])
		if id == "" {
			return domain.SampleDesign{}, fmt.Errorf("design line %d: empty sample identifier", line)
		}
		if _, dup := assignments[id]; dup {
			return domain.SampleDesign{}, fmt.Errorf("design line %d: duplicate sample %s", line, id)
		}
		var group domain.Group
		for i, target := range []*bool{&group.APOE4, &group.TBI, &group.Dementia} {
			v, err := parseFactor(record[i+1])
			if err != nil {
				return domain.SampleDesign{}, fmt.Errorf("design line %d, column %s: %w", line, want[i+1], err)
			}
			*target = v
		}
		assignments[id] = group
	}
	if len(assignments) == 0 {
		return domain.SampleDesign{}, fmt.Errorf("design has no samples")
	}
	return domain.SampleDesign{Assignments: assignments}, nil
}

func parseFactor(field string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "true", "1", "yes", "pos":
		return true, nil
	case "false", "0", "no", "neg":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized factor value %q", field)
	}
}
