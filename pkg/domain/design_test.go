package domain

import (
	"errors"
	"testing"
)

func TestGroupLabelRoundTrip(t *testing.T) {
	for _, g := range AllGroups() {
		parsed, err := ParseGroupLabel(g.Label())
		if err != nil {
			t.Fatalf("parse %q: %v", g.Label(), err)
		}
		if parsed != g {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", g, g.Label(), parsed)
		}
	}
}

func TestParseGroupLabelRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"apoe4_pos",
		"apoe4_pos.tbi_pos",
		"apoe4_maybe.tbi_pos.dementia",
		"apoe4_pos.tbi_maybe.dementia",
		"apoe4_pos.tbi_pos.maybe",
		"apoe4_pos.tbi_pos.dementia.extra",
	}
	for _, label := range cases {
		if _, err := ParseGroupLabel(label); err == nil {
			t.Errorf("expected error for label %q", label)
		}
	}
}

func TestAllGroupsCoversFactorial(t *testing.T) {
	groups := AllGroups()
	if len(groups) != 8 {
		t.Fatalf("expected 8 groups, got %d", len(groups))
	}
	seen := make(map[Group]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g]; dup {
			t.Fatalf("duplicate group %v", g)
		}
		seen[g] = struct{}{}
	}
}

func fullDesign() SampleDesign {
	assignments := make(map[string]Group, 8)
	for _, g := range AllGroups() {
		assignments["s_"+g.Label()] = g
	}
	return NewSampleDesign(assignments)
}

func TestSampleDesignValidate(t *testing.T) {
	stratum := Stratum{Region: "hippocampus"}

	t.Run("full design passes", func(t *testing.T) {
		if err := fullDesign().Validate(stratum); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing group is degenerate", func(t *testing.T) {
		d := fullDesign()
		missing := Group{APOE4: true, TBI: true, Dementia: true}
		delete(d.Assignments, "s_"+missing.Label())
		err := d.Validate(stratum)
		var dde DegenerateDesignError
		if !errors.As(err, &dde) {
			t.Fatalf("expected DegenerateDesignError, got %v", err)
		}
		if dde.Group != missing {
			t.Fatalf("expected missing group %v, got %v", missing, dde.Group)
		}
		if dde.Stratum != stratum {
			t.Fatalf("expected stratum %v, got %v", stratum, dde.Stratum)
		}
	})
}

func TestGenotypePairingKey(t *testing.T) {
	if (GenotypePairing{APOE4: true}).Key() != "apoe4_pos" {
		t.Fatal("unexpected key for APOE4+ pairing")
	}
	if (GenotypePairing{}).Key() != "apoe4_neg" {
		t.Fatal("unexpected key for APOE4- pairing")
	}
}
