package domain

import "fmt"

// DegenerateDesignError reports a stratum whose design is missing samples for
// a required group. The fit cannot proceed for that stratum.
type DegenerateDesignError struct {
	Stratum Stratum
	Group   Group
}

func (e DegenerateDesignError) Error() string {
	return fmt.Sprintf("degenerate design in stratum %q: group %s has no samples", e.Stratum.Key(), e.Group.Label())
}

// InvalidContrastError reports a contrast whose coefficients do not describe a
// pure difference of group means.
type InvalidContrastError struct {
	Contrast ContrastID
	Sum      float64
}

func (e InvalidContrastError) Error() string {
	return fmt.Sprintf("invalid contrast %q: coefficients sum to %g, want 0", e.Contrast, e.Sum)
}

// NumericDomainError reports expression values outside the domain of the
// log transform, or transform output that is not finite.
type NumericDomainError struct {
	GeneID   string
	SampleID string
	Value    float64
	Reason   string
}

func (e NumericDomainError) Error() string {
	return fmt.Sprintf("numeric domain violation for gene %q sample %q (value %g): %s", e.GeneID, e.SampleID, e.Value, e.Reason)
}

// ErrNotFound indicates a missing persisted record.
type ErrNotFound struct {
	Bucket string
	Key    string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Bucket, e.Key)
}

// ErrAlreadyStored indicates an attempt to overwrite a derived-once record.
// Result tables and gene sets are immutable after their first save.
type ErrAlreadyStored struct {
	Bucket string
	Key    string
}

func (e ErrAlreadyStored) Error() string {
	return fmt.Sprintf("%s %q already stored; results are immutable once derived", e.Bucket, e.Key)
}
