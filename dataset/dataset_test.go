package dataset_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexsql/vexsql"
	"github.com/vexsql/vexsql/dataset"
	"github.com/vexsql/vexsql/perturb"
)

func newBuilder(t *testing.T, opts ...dataset.Option) *dataset.Builder {
	t.Helper()

	schema, fks := vexsql.DefaultSchema()
	require.NoError(t, vexsql.Validate(schema, fks))

	return dataset.NewBuilder(schema, fks, opts...)
}

func TestBuild_RecordShape(t *testing.T) {
	records := newBuilder(t, dataset.WithSeed(3)).Build(20)
	require.Len(t, records, 20)

	for i, rec := range records {
		if rec.ID != i+1 {
			t.Errorf("record %d: ID = %d, want %d", i, rec.ID, i+1)
		}

		if rec.SQL == "" {
			t.Errorf("record %d: empty SQL", rec.ID)
		}

		if rec.SQL != rec.Perturbations.Original.SQL {
			t.Errorf("record %d: top-level SQL differs from original variant", rec.ID)
		}

		if rec.Perturbations.Original.NLPrompt == "" {
			t.Errorf("record %d: empty original prompt", rec.ID)
		}

		if len(rec.Tables) == 0 {
			t.Errorf("record %d: no tables", rec.ID)
		}

		single := rec.Perturbations.Single
		if len(single) != 13 {
			t.Fatalf("record %d: %d single variants, want 13", rec.ID, len(single))
		}

		applicable := 0

		for j, v := range single {
			if v.PerturbationID != j+1 {
				t.Errorf("record %d: variant %d has ID %d", rec.ID, j, v.PerturbationID)
			}

			if v.Applicable {
				applicable++

				if v.PerturbedNLPrompt == nil || *v.PerturbedNLPrompt == "" {
					t.Errorf("record %d: applicable variant %s has no prompt", rec.ID, v.PerturbationName)
				}

				if v.ChangesMade == nil || *v.ChangesMade == "" {
					t.Errorf("record %d: applicable variant %s has no change description", rec.ID, v.PerturbationName)
				}

				if v.ReasonNotApplicable != nil {
					t.Errorf("record %d: applicable variant %s carries a reason", rec.ID, v.PerturbationName)
				}
			} else {
				if v.PerturbedNLPrompt != nil {
					t.Errorf("record %d: inapplicable variant %s has a prompt", rec.ID, v.PerturbationName)
				}

				if v.ChangesMade != nil {
					t.Errorf("record %d: inapplicable variant %s carries a change description", rec.ID, v.PerturbationName)
				}

				if v.ReasonNotApplicable == nil || *v.ReasonNotApplicable == "" {
					t.Errorf("record %d: inapplicable variant %s has no reason", rec.ID, v.PerturbationName)
				}
			}
		}

		meta := rec.Perturbations.Metadata
		if meta.TotalApplicable != applicable {
			t.Errorf("record %d: metadata applicable = %d, counted %d", rec.ID, meta.TotalApplicable, applicable)
		}

		if meta.TotalApplicable+meta.TotalNotApplicable != 13 {
			t.Errorf("record %d: metadata counts do not sum to 13", rec.ID)
		}

		wantRate := float64(applicable) / 13
		if meta.ApplicabilityRate != wantRate {
			t.Errorf("record %d: rate = %v, want %v", rec.ID, meta.ApplicabilityRate, wantRate)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := newBuilder(t, dataset.WithSeed(9), dataset.WithCompound(true)).Build(10)
	b := newBuilder(t, dataset.WithSeed(9), dataset.WithCompound(true)).Build(10)

	ja, err := json.Marshal(a)
	require.NoError(t, err)

	jb, err := json.Marshal(b)
	require.NoError(t, err)

	if !bytes.Equal(ja, jb) {
		t.Error("same seed produced different datasets")
	}
}

func TestBuild_Compound(t *testing.T) {
	records := newBuilder(t, dataset.WithSeed(4), dataset.WithCompound(true)).Build(30)

	seen := false

	for _, rec := range records {
		c := rec.Perturbations.Compound
		if c == nil {
			continue
		}

		seen = true

		if len(c.PerturbationIDs) < 2 || len(c.PerturbationIDs) > 5 {
			t.Errorf("record %d: compound has %d types, want 2..5", rec.ID, len(c.PerturbationIDs))
		}

		if len(c.PerturbationIDs) != len(c.PerturbationNames) {
			t.Errorf("record %d: compound IDs and names length mismatch", rec.ID)
		}

		if c.PerturbedNLPrompt == "" {
			t.Errorf("record %d: compound has empty prompt", rec.ID)
		}

		for i := 1; i < len(c.PerturbationIDs); i++ {
			if c.PerturbationIDs[i] <= c.PerturbationIDs[i-1] {
				t.Errorf("record %d: compound IDs not in taxonomy order: %v", rec.ID, c.PerturbationIDs)
			}
		}
	}

	if !seen {
		t.Error("no compound variant across 30 records")
	}
}

// The JSON keys are the dataset contract; decode into a raw map to pin them.
func TestWrite_JSONKeys(t *testing.T) {
	records := newBuilder(t, dataset.WithSeed(2)).Build(1)

	var buf bytes.Buffer
	require.NoError(t, dataset.Write(&buf, records, false))

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 1)

	for _, key := range []string{"id", "complexity", "sql", "tables", "generated_perturbations"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("record missing key %q", key)
		}
	}

	var gp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw[0]["generated_perturbations"], &gp))

	for _, key := range []string{"original", "single_perturbations", "metadata"} {
		if _, ok := gp[key]; !ok {
			t.Errorf("generated_perturbations missing key %q", key)
		}
	}

	var variants []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(gp["single_perturbations"], &variants))
	require.Len(t, variants, len(perturb.All()))

	// The nullable fields must be present as explicit null even on variants
	// where they are unset, so check every variant, not just the first.
	for i, variant := range variants {
		for _, key := range []string{"perturbation_id", "perturbation_name", "applicable", "perturbed_nl_prompt", "changes_made", "reason_not_applicable"} {
			if _, ok := variant[key]; !ok {
				t.Errorf("variant %d missing key %q", i, key)
			}
		}
	}

	var meta map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(gp["metadata"], &meta))

	for _, key := range []string{"total_applicable_perturbations", "total_not_applicable", "applicability_rate"} {
		if _, ok := meta[key]; !ok {
			t.Errorf("metadata missing key %q", key)
		}
	}
}

func TestStats(t *testing.T) {
	records := newBuilder(t, dataset.WithSeed(6)).Build(40)
	s := dataset.Stats(records)

	if s.Records != 40 {
		t.Errorf("Records = %d, want 40", s.Records)
	}

	total := 0
	for _, n := range s.ByComplexity {
		total += n
	}

	if total != 40 {
		t.Errorf("complexity counts sum to %d, want 40", total)
	}

	for _, typ := range perturb.All() {
		a := s.Applicability[typ.Name()]
		if a.Total != 40 {
			t.Errorf("%s: total = %d, want 40", typ.Name(), a.Total)
		}

		if a.Applicable > a.Total {
			t.Errorf("%s: applicable %d exceeds total %d", typ.Name(), a.Applicable, a.Total)
		}
	}

	out := dataset.FormatStats(s, false)
	if out == "" {
		t.Error("FormatStats returned empty string")
	}
}
