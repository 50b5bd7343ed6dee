package domain

// Significance labels a gene's call under one classification scheme.
type Significance string

// Classification labels. The partition is exhaustive: every gene carries
// exactly one label per scheme.
const (
	Upregulated    Significance = "upregulated"
	Downregulated  Significance = "downregulated"
	NotSignificant Significance = "not_significant"
)

// GeneStatResult is one immutable per-gene record for one contrast. Produced
// once by the pipeline and never mutated afterwards.
type GeneStatResult struct {
	GeneID          string       `json:"gene_id"`
	LogFC           float64      `json:"log_fc"`
	PValue          float64      `json:"p_value"`
	AdjPValue       float64      `json:"adj_p_value"`
	Significance    Significance `json:"significance"`
	AdjSignificance Significance `json:"adj_significance"`
}

// ResultTable holds all gene records for one contrast within one stratum.
// Row order follows the expression matrix gene order.
type ResultTable struct {
	Stratum  Stratum          `json:"stratum"`
	Contrast ContrastID       `json:"contrast"`
	Rows     []GeneStatResult `json:"rows"`
}

// RegulatedGeneSet holds the external identifiers of regulated genes for one
// contrast within one stratum, partitioned by direction. Significant is the
// ordered concatenation of Upregulated then Downregulated.
type RegulatedGeneSet struct {
	Stratum       Stratum    `json:"stratum"`
	Contrast      ContrastID `json:"contrast"`
	Upregulated   []string   `json:"upregulated"`
	Downregulated []string   `json:"downregulated"`
	Significant   []string   `json:"significant"`
	// Unmapped counts genes that met the significance criteria but carried no
	// annotation entry. They are excluded from all three collections.
	Unmapped int `json:"unmapped"`
}

// Intersection holds the de-duplicated overlap between the regulated sets of
// two contrasts within the same stratum.
type Intersection struct {
	Stratum       Stratum         `json:"stratum"`
	Pairing       GenotypePairing `json:"pairing"`
	Contrasts     [2]ContrastID   `json:"contrasts"`
	Upregulated   []string        `json:"upregulated"`
	Downregulated []string        `json:"downregulated"`
	Significant   []string        `json:"significant"`
}

// StratumResults is the complete, derived-once output of one stratum run.
type StratumResults struct {
	Stratum       Stratum                          `json:"stratum"`
	Tables        map[ContrastID]ResultTable       `json:"tables"`
	GeneSets      map[ContrastID]RegulatedGeneSet  `json:"gene_sets"`
	Intersections map[string]Intersection          `json:"intersections"`
}

// StratumFailure records why a stratum produced no results. Downstream steps
// that depend on a failed stratum are skipped, never silently emptied.
type StratumFailure struct {
	Stratum Stratum `json:"stratum"`
	Stage   string  `json:"stage"`
	Reason  string  `json:"reason"`
}

// SkippedIntersection reports an intersection that was not computed because a
// dependency failed.
type SkippedIntersection struct {
	Stratum Stratum         `json:"stratum"`
	Pairing GenotypePairing `json:"pairing"`
	Reason  string          `json:"reason"`
}

// StudyReport is the comparative report across all strata: the only place
// where per-stratum outputs meet.
type StudyReport struct {
	Results  []StratumResults      `json:"results"`
	Failures []StratumFailure      `json:"failures"`
	Skipped  []SkippedIntersection `json:"skipped_intersections"`
}
