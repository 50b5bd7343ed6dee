package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"degcore/pkg/domain"
)

// ReadGeneAnnotation parses a probe-to-symbol CSV with the header
// "gene_id,symbol". When a gene identifier appears more than once the first
// mapping wins; rows with an empty symbol are skipped.
func ReadGeneAnnotation(r io.Reader) (domain.GeneAnnotation, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return domain.GeneAnnotation{}, fmt.Errorf("read annotation header: %w", err)
	}
	if len(header) != 2 || strings.ToLower(header[0]) != "gene_id" || strings.ToLower(header[1]) != "symbol" {
		return domain.GeneAnnotation{}, fmt.Errorf("annotation header %v, want [gene_id symbol]", header)
	}

	var rows [][2]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.GeneAnnotation{}, fmt.Errorf("read annotation line %d: %w", line, err)
		}
		id := strings.TrimSpace(record[0])
		symbol := strings.TrimSpace(record[1])
		if id == "" || symbol == "" {
			continue
		}
		rows = append(rows, [2]string{id, symbol})
	}
	return domain.NewGeneAnnotation(rows), nil
}
