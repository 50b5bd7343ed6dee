package domain

import (
	"encoding/json"
	"math"
)

// ContrastID names a contrast by its semantic meaning. Identifiers are stable
// across strata; nothing in the engine refers to contrasts by position.
type ContrastID string

// The four canonical contrasts of the study design. Each isolates one factor
// while holding the other two fixed.
const (
	// DementiaEffectAPOE4Pos compares dementia vs. no-dementia within APOE4+, TBI+.
	DementiaEffectAPOE4Pos ContrastID = "dementia_effect_apoe4_pos"
	// TBIEffectAPOE4Pos compares TBI+ vs. TBI- within APOE4+, dementia.
	TBIEffectAPOE4Pos ContrastID = "tbi_effect_apoe4_pos"
	// DementiaEffectAPOE4Neg compares dementia vs. no-dementia within APOE4-, TBI+.
	DementiaEffectAPOE4Neg ContrastID = "dementia_effect_apoe4_neg"
	// TBIEffectAPOE4Neg compares TBI+ vs. TBI- within APOE4-, dementia.
	TBIEffectAPOE4Neg ContrastID = "tbi_effect_apoe4_neg"
)

// Contrast is a named coefficient vector over group means that sums to zero.
type Contrast struct {
	ID           ContrastID
	Description  string
	Coefficients map[Group]float64
}

// contrastSumTolerance bounds accumulated float error when checking the
// sum-to-zero contract.
const contrastSumTolerance = 1e-9

// Validate enforces the pure-difference contract: coefficients must sum to
// zero within tolerance.
func (c Contrast) Validate() error {
	var sum float64
	for _, w := range c.Coefficients {
		sum += w
	}
	if math.Abs(sum) > contrastSumTolerance {
		return InvalidContrastError{Contrast: c.ID, Sum: sum}
	}
	return nil
}

// Groups returns the groups participating in the contrast (nonzero weight).
func (c Contrast) Groups() []Group {
	var groups []Group
	for _, g := range AllGroups() {
		if c.Coefficients[g] != 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

type contrastPayload struct {
	ID           ContrastID         `json:"id"`
	Description  string             `json:"description"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// MarshalJSON serializes coefficients under group labels; the structured Group
// form never leaks into stored payloads.
func (c Contrast) MarshalJSON() ([]byte, error) {
	coeffs := make(map[string]float64, len(c.Coefficients))
	for g, w := range c.Coefficients {
		coeffs[g.Label()] = w
	}
	return json.Marshal(contrastPayload{ID: c.ID, Description: c.Description, Coefficients: coeffs})
}

// UnmarshalJSON restores the structured coefficient map from group labels.
func (c *Contrast) UnmarshalJSON(data []byte) error {
	var p contrastPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	coeffs := make(map[Group]float64, len(p.Coefficients))
	for label, w := range p.Coefficients {
		g, err := ParseGroupLabel(label)
		if err != nil {
			return err
		}
		coeffs[g] = w
	}
	c.ID = p.ID
	c.Description = p.Description
	c.Coefficients = coeffs
	return nil
}

func pairwise(id ContrastID, desc string, plus, minus Group) Contrast {
	return Contrast{
		ID:          id,
		Description: desc,
		Coefficients: map[Group]float64{
			plus:  1,
			minus: -1,
		},
	}
}

// CanonicalContrasts returns the four fixed contrasts evaluated in every
// stratum, in deterministic order.
func CanonicalContrasts() []Contrast {
	return []Contrast{
		pairwise(DementiaEffectAPOE4Pos,
			"dementia effect within APOE4+, TBI+",
			Group{APOE4: true, TBI: true, Dementia: true},
			Group{APOE4: true, TBI: true, Dementia: false}),
		pairwise(TBIEffectAPOE4Pos,
			"TBI effect within APOE4+, dementia",
			Group{APOE4: true, TBI: true, Dementia: true},
			Group{APOE4: true, TBI: false, Dementia: true}),
		pairwise(DementiaEffectAPOE4Neg,
			"dementia effect within APOE4-, TBI+",
			Group{APOE4: false, TBI: true, Dementia: true},
			Group{APOE4: false, TBI: true, Dementia: false}),
		pairwise(TBIEffectAPOE4Neg,
			"TBI effect within APOE4-, dementia",
			Group{APOE4: false, TBI: true, Dementia: true},
			Group{APOE4: false, TBI: false, Dementia: true}),
	}
}

// PairedContrasts returns the (TBI effect, dementia effect) contrast pair
// whose gene sets are intersected for the given genotype pairing.
func PairedContrasts(p GenotypePairing) (tbi ContrastID, dementia ContrastID) {
	if p.APOE4 {
		return TBIEffectAPOE4Pos, DementiaEffectAPOE4Pos
	}
	return TBIEffectAPOE4Neg, DementiaEffectAPOE4Neg
}
