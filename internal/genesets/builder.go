// Package genesets derives regulated-gene identifier collections from result
// tables and computes overlaps between related contrasts within a stratum.
package genesets

import "degcore/pkg/domain"

// BuildRegulated maps the raw-scheme significant genes of one result table to
// external identifiers, partitioned by direction. The significant collection
// is the ordered concatenation of upregulated then downregulated.
//
// Genes without an annotation entry are excluded from all three collections;
// the exclusion is counted in Unmapped but is not an error.
func BuildRegulated(table domain.ResultTable, annotation domain.GeneAnnotation) domain.RegulatedGeneSet {
	set := domain.RegulatedGeneSet{
		Stratum:  table.Stratum,
		Contrast: table.Contrast,
	}
	for _, row := range table.Rows {
		var bucket *[]string
		switch row.Significance {
		case domain.Upregulated:
			bucket = &set.Upregulated
		case domain.Downregulated:
			bucket = &set.Downregulated
		default:
			continue
		}
		symbol, ok := annotation.Lookup(row.GeneID)
		if !ok {
			set.Unmapped++
			continue
		}
		*bucket = append(*bucket, symbol)
	}
	set.Significant = make([]string, 0, len(set.Upregulated)+len(set.Downregulated))
	set.Significant = append(set.Significant, set.Upregulated...)
	set.Significant = append(set.Significant, set.Downregulated...)
	return set
}
