// Package dataset assembles generated queries and their rendered perturbation
// variants into the benchmark's JSON record format.
package dataset

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"os"

	"github.com/vexsql/vexsql"
	"github.com/vexsql/vexsql/generator"
	"github.com/vexsql/vexsql/perturb"
	"github.com/vexsql/vexsql/render"
)

// Record is one benchmark entry: a gold query plus its full variant set.
type Record struct {
	ID            int           `json:"id"`
	Complexity    string        `json:"complexity"`
	SQL           string        `json:"sql"`
	Tables        []string      `json:"tables"`
	Perturbations Perturbations `json:"generated_perturbations"`
}

// Perturbations groups the rendered variants of one record.
type Perturbations struct {
	Original Original  `json:"original"`
	Single   []Variant `json:"single_perturbations"`
	Compound *Compound `json:"compound,omitempty"`
	Metadata Metadata  `json:"metadata"`
}

// Original is the unperturbed rendering.
type Original struct {
	NLPrompt   string   `json:"nl_prompt"`
	SQL        string   `json:"sql"`
	Tables     []string `json:"tables"`
	Complexity string   `json:"complexity"`
}

// Variant is one single-perturbation rendering, or the applicability record
// explaining why none was produced. The three nullable fields always appear
// in the JSON, as explicit null when unset, since consumers index them by key.
type Variant struct {
	PerturbationID      int     `json:"perturbation_id"`
	PerturbationName    string  `json:"perturbation_name"`
	Applicable          bool    `json:"applicable"`
	PerturbedNLPrompt   *string `json:"perturbed_nl_prompt"`
	ChangesMade         *string `json:"changes_made"`
	ReasonNotApplicable *string `json:"reason_not_applicable"`
}

// Compound is the optional multi-perturbation rendering.
type Compound struct {
	PerturbationIDs   []int    `json:"perturbation_ids"`
	PerturbationNames []string `json:"perturbation_names"`
	PerturbedNLPrompt string   `json:"perturbed_nl_prompt"`
}

// Metadata summarizes applicability over the taxonomy.
type Metadata struct {
	TotalApplicable    int     `json:"total_applicable_perturbations"`
	TotalNotApplicable int     `json:"total_not_applicable"`
	ApplicabilityRate  float64 `json:"applicability_rate"`
}

// Builder produces records over a schema. Variant seeds are derived from the
// record ID, so regenerating any single record reproduces it exactly without
// replaying the rest of the dataset's randomness.
type Builder struct {
	gen      *generator.Generator
	seed     int64
	compound bool
	weights  map[generator.Complexity]float64
}

// Option configures a Builder.
type Option func(*Builder)

// WithSeed sets the generation seed. The default is 1.
func WithSeed(seed int64) Option {
	return func(b *Builder) { b.seed = seed }
}

// WithCompound enables the compound variant on each record.
func WithCompound(enabled bool) Option {
	return func(b *Builder) { b.compound = enabled }
}

// WithWeights overrides the generator's complexity distribution.
func WithWeights(weights map[generator.Complexity]float64) Option {
	return func(b *Builder) { b.weights = weights }
}

// NewBuilder creates a Builder over a validated schema and foreign-key graph.
func NewBuilder(schema *vexsql.Schema, fks *vexsql.ForeignKeyGraph, opts ...Option) *Builder {
	b := &Builder{seed: 1}
	for _, opt := range opts {
		opt(b)
	}

	genOpts := []generator.Option{generator.WithSeed(b.seed)}
	if b.weights != nil {
		genOpts = append(genOpts, generator.WithWeights(b.weights))
	}

	b.gen = generator.New(schema, fks, genOpts...)

	return b
}

// Build produces n records with IDs 1 through n.
func (b *Builder) Build(n int) []Record {
	records := make([]Record, 0, n)
	for id := 1; id <= n; id++ {
		records = append(records, b.BuildRecord(id))
	}

	return records
}

// BuildRecord generates one query and renders its full variant set. The
// original variant uses seed id*100 and each single perturbation uses
// id*100 + its type ID, so every variant's randomness is independent.
func (b *Builder) BuildRecord(id int) Record {
	stmt, class := b.gen.Generate()

	base := int64(id) * 100
	tables := stmt.Tables()

	original := Original{
		NLPrompt:   render.Statement(stmt, perturb.NewConfig(base)),
		SQL:        stmt.SQL(),
		Tables:     tables,
		Complexity: string(class),
	}

	var (
		single     []Variant
		applicable []perturb.Type
	)

	for _, t := range perturb.All() {
		v := Variant{
			PerturbationID:   t.ID(),
			PerturbationName: t.Name(),
		}

		if t.Applicable(stmt) {
			prompt := render.Statement(stmt, perturb.NewConfig(base+int64(t.ID()), t))
			changes := t.Changes()

			v.Applicable = true
			v.PerturbedNLPrompt = &prompt
			v.ChangesMade = &changes
			applicable = append(applicable, t)
		} else {
			reason := t.ReasonNotApplicable(stmt)
			v.ReasonNotApplicable = &reason
		}

		single = append(single, v)
	}

	rec := Record{
		ID:         id,
		Complexity: string(class),
		SQL:        original.SQL,
		Tables:     tables,
		Perturbations: Perturbations{
			Original: original,
			Single:   single,
			Metadata: Metadata{
				TotalApplicable:    len(applicable),
				TotalNotApplicable: len(single) - len(applicable),
				ApplicabilityRate:  float64(len(applicable)) / float64(len(single)),
			},
		},
	}

	if b.compound && len(applicable) >= 2 {
		rec.Perturbations.Compound = b.buildCompound(id, stmt, applicable)
	}

	return rec
}

// buildCompound renders one variant with two to five applicable perturbations
// active at once. The selection is keyed to the record ID so it is stable
// regardless of how many records precede this one.
func (b *Builder) buildCompound(id int, stmt *vexsql.Statement, applicable []perturb.Type) *Compound {
	rng := contextRand(b.seed, fmt.Sprintf("compound_%d", id))

	most := 5
	if most > len(applicable) {
		most = len(applicable)
	}

	n := 2 + rng.Intn(most-1)
	perm := rng.Perm(len(applicable))

	chosen := make([]perturb.Type, n)
	for i := range chosen {
		chosen[i] = applicable[perm[i]]
	}

	// Report in taxonomy order.
	ids := make([]int, 0, n)
	names := make([]string, 0, n)

	for _, t := range perturb.All() {
		for _, c := range chosen {
			if c == t {
				ids = append(ids, t.ID())
				names = append(names, t.Name())
			}
		}
	}

	prompt := render.Statement(stmt, perturb.NewConfig(int64(id)*100, chosen...))

	return &Compound{
		PerturbationIDs:   ids,
		PerturbationNames: names,
		PerturbedNLPrompt: prompt,
	}
}

func contextRand(seed int64, context string) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d_%s", seed, context)

	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// Write encodes records as a JSON array.
func Write(w io.Writer, records []Record, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	return nil
}

// Load reads a dataset file written by Write.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding dataset %s: %w", path, err)
	}

	return records, nil
}
