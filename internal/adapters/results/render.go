package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"degcore/pkg/domain"
)

type renderedArtifact struct {
	key         string
	kind        string
	contentType string
	payload     []byte
}

// renderArtifacts materializes one stratum's outputs: a CSV statistics table
// and a CSV gene list per contrast, plus one JSON intersection summary.
// Contrasts render in identifier order so export layouts are deterministic.
func renderArtifacts(results domain.StratumResults) ([]renderedArtifact, error) {
	region := results.Stratum.Key()

	contrastIDs := make([]domain.ContrastID, 0, len(results.Tables))
	for id := range results.Tables {
		contrastIDs = append(contrastIDs, id)
	}
	sort.Slice(contrastIDs, func(i, j int) bool { return contrastIDs[i] < contrastIDs[j] })

	var out []renderedArtifact
	for _, id := range contrastIDs {
		payload, err := renderTableCSV(results.Tables[id])
		if err != nil {
			return nil, err
		}
		out = append(out, renderedArtifact{
			key:         fmt.Sprintf("%s/tables/%s.csv", region, id),
			kind:        "table",
			contentType: "text/csv",
			payload:     payload,
		})

		if set, ok := results.GeneSets[id]; ok {
			payload, err := renderGeneSetCSV(set)
			if err != nil {
				return nil, err
			}
			out = append(out, renderedArtifact{
				key:         fmt.Sprintf("%s/gene_sets/%s.csv", region, id),
				kind:        "gene_set",
				contentType: "text/csv",
				payload:     payload,
			})
		}
	}

	payload, err := json.MarshalIndent(results.Intersections, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode intersections: %w", err)
	}
	out = append(out, renderedArtifact{
		key:         fmt.Sprintf("%s/intersections.json", region),
		kind:        "intersections",
		contentType: "application/json",
		payload:     payload,
	})
	return out, nil
}

func renderTableCSV(table domain.ResultTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"gene_id", "log_fc", "p_value", "adj_p_value", "significance", "adj_significance"}); err != nil {
		return nil, err
	}
	for _, row := range table.Rows {
		record := []string{
			row.GeneID,
			formatFloat(row.LogFC),
			formatFloat(row.PValue),
			formatFloat(row.AdjPValue),
			string(row.Significance),
			string(row.AdjSignificance),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderGeneSetCSV(set domain.RegulatedGeneSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"symbol", "direction"}); err != nil {
		return nil, err
	}
	for _, symbol := range set.Upregulated {
		if err := w.Write([]string{symbol, string(domain.Upregulated)}); err != nil {
			return nil, err
		}
	}
	for _, symbol := range set.Downregulated {
		if err := w.Write([]string{symbol, string(domain.Downregulated)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
