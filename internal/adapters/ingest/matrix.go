// Package ingest parses study inputs from their interchange formats: CSV for
// expression matrices, sample designs, and annotations, YAML for the study
// manifest that ties them together.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"degcore/pkg/domain"
)

// ReadExpressionMatrix parses a gene-by-sample CSV. The header row is
// "gene_id" followed by sample identifiers; every data row is a gene
// identifier followed by one raw intensity per sample. The parsed matrix is
// validated before being returned.
func ReadExpressionMatrix(r io.Reader) (domain.ExpressionMatrix, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return domain.ExpressionMatrix{}, fmt.Errorf("read matrix header: %w", err)
	}
	if len(header) < 2 || header[0] != "gene_id" {
		return domain.ExpressionMatrix{}, fmt.Errorf("matrix header must start with gene_id, got %v", header)
	}
	sampleIDs := append([]string(nil), header[1:]...)

	var geneIDs []string
	var values [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.ExpressionMatrix{}, fmt.Errorf("read matrix line %d: %w", line, err)
		}
		if len(record) != len(header) {
			return domain.ExpressionMatrix{}, fmt.Errorf("matrix line %d: %d fields, want %d", line, len(record), len(header))
		}
		row := make([]float64, len(sampleIDs))
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return domain.ExpressionMatrix{}, fmt.Errorf("matrix line %d, sample %s: %w", line, sampleIDs[i], err)
			}
			row[i] = v
		}
		geneIDs = append(geneIDs, record[0])
		values = append(values, row)
	}
	return domain.NewExpressionMatrix(geneIDs, sampleIDs, values)
}
