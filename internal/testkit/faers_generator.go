package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"pvsynergy/domain/faers"
)

// FAERSGeneratorConfig configures the synthetic adverse-event generator
type FAERSGeneratorConfig struct {
	DrugCount           int     `json:"drug_count"`
	ReactionCount       int     `json:"reaction_count"`
	CombinationCount    int     `json:"combination_count"`
	CasesPerDrug        int     `json:"cases_per_drug"`
	CasesPerCombination int     `json:"cases_per_combination"`
	SynergyRate         float64 `json:"synergy_rate"`   // share of combinations with one boosted reaction
	SynergyBoost        float64 `json:"synergy_boost"`  // weight multiplier of the boosted reaction
	BenchmarkRate       float64 `json:"benchmark_rate"` // share of boosted pairs listed in the benchmark
	Seed                int64   `json:"seed"`
}

// DefaultFAERSConfig returns defaults sized for a quick demo run
func DefaultFAERSConfig() FAERSGeneratorConfig {
	return FAERSGeneratorConfig{
		DrugCount:           25,
		ReactionCount:       40,
		CombinationCount:    60,
		CasesPerDrug:        400,
		CasesPerCombination: 120,
		SynergyRate:         0.3,
		SynergyBoost:        4,
		BenchmarkRate:       0.5,
		Seed:                42,
	}
}

// GeneratedSet is a complete input set in source order
type GeneratedSet struct {
	SingleCases      []faers.SingleCase
	CombinationCases []faers.CombinationCase
	Drugs            []faers.Drug
	Reactions        []faers.Reaction
	Benchmark        []faers.BenchmarkEntry

	caseSeq int
}

func (s *GeneratedSet) nextCaseID(prefix string) string {
	s.caseSeq++
	return fmt.Sprintf("%s_%06d", prefix, s.caseSeq)
}

// Inputs builds the lookup indexes the pipeline consumes.
func (s *GeneratedSet) Inputs() faers.Inputs {
	return faers.Inputs{
		SingleCases:      s.SingleCases,
		CombinationCases: s.CombinationCases,
		Drugs:            faers.NewDrugIndex(s.Drugs),
		Reactions:        faers.NewReactionIndex(s.Reactions),
		Benchmark:        faers.NewBenchmarkIndex(s.Benchmark),
	}
}

// InputFiles are the paths of a written input set
type InputFiles struct {
	MultiDrug  string
	SingleDrug string
	Drugs      string
	Reactions  string
	Benchmark  string
}

// WriteCSV writes the set under dir with the file names and columns the loader
// expects.
func (s *GeneratedSet) WriteCSV(dir string) (InputFiles, error) {
	files := InputFiles{
		MultiDrug:  filepath.Join(dir, "01_md_data_init.csv"),
		SingleDrug: filepath.Join(dir, "01_sd_data_init.csv"),
		Drugs:      filepath.Join(dir, "01_drugs_ids.csv"),
		Reactions:  filepath.Join(dir, "01_snomed_ids.csv"),
		Benchmark:  filepath.Join(dir, "01_kompas_benchmark_data_drug_ids.csv"),
	}

	md := [][]string{{"case_id", "tox_drug_id_y", "snomed_reaction"}}
	for _, c := range s.CombinationCases {
		md = append(md, []string{c.CaseID, c.Pair.String(), c.Reaction.String()})
	}
	sd := [][]string{{"case_id", "tox_drug_id_y", "snomed_reaction"}}
	for _, c := range s.SingleCases {
		sd = append(sd, []string{c.CaseID, c.Drug.String(), c.Reaction.String()})
	}
	drugs := [][]string{{"id", "name"}}
	for _, d := range s.Drugs {
		drugs = append(drugs, []string{d.ID.String(), d.Name})
	}
	reactions := [][]string{{"snomed_reaction", "meddra_preferred_term_name", "meddra_high_level_term", "meddra_high_level_term_name"}}
	for _, r := range s.Reactions {
		reactions = append(reactions, []string{r.ID.String(), r.PreferredTermName, r.HighLevelTerm, r.HighLevelTermName})
	}
	bench := [][]string{{"combination", "snomed_id", "bench_freq"}}
	for _, b := range s.Benchmark {
		bench = append(bench, []string{b.Combination, b.Reaction.String(), strconv.FormatFloat(b.Frequency, 'g', -1, 64)})
	}

	for path, rows := range map[string][][]string{
		files.MultiDrug:  md,
		files.SingleDrug: sd,
		files.Drugs:      drugs,
		files.Reactions:  reactions,
		files.Benchmark:  bench,
	} {
		if err := writeRows(path, rows); err != nil {
			return InputFiles{}, err
		}
	}
	return files, nil
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

var drugNames = []string{
	"aspirin", "warfarin", "ibuprofen", "metformin", "lisinopril", "atorvastatin",
	"amlodipine", "omeprazole", "simvastatin", "losartan", "clopidogrel", "sertraline",
	"citalopram", "tramadol", "prednisone", "furosemide", "digoxin", "amiodarone",
	"fluconazole", "clarithromycin", "methotrexate", "tacrolimus", "lithium", "haloperidol",
	"apixaban", "rivaroxaban", "spironolactone", "allopurinol", "carbamazepine", "phenytoin",
}

// FAERSDataGenerator generates deterministic synthetic adverse-event reports
type FAERSDataGenerator struct {
	config FAERSGeneratorConfig
	rng    *rand.Rand
}

// NewFAERSDataGenerator creates a new generator seeded from config
func NewFAERSDataGenerator(config FAERSGeneratorConfig) *FAERSDataGenerator {
	return &FAERSDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a full input set. Each drug gets a random reaction profile;
// a combination reports from the mixture of its two profiles, with one reaction
// boosted for synergistic pairs.
func (g *FAERSDataGenerator) Generate() (*GeneratedSet, error) {
	cfg := g.config
	if cfg.DrugCount < 2 {
		return nil, fmt.Errorf("drug_count must be >= 2, got %d", cfg.DrugCount)
	}
	if cfg.ReactionCount < 1 {
		return nil, fmt.Errorf("reaction_count must be >= 1, got %d", cfg.ReactionCount)
	}

	set := &GeneratedSet{}
	reactionIDs := make([]faers.ReactionID, cfg.ReactionCount)
	for i := range reactionIDs {
		reactionIDs[i] = faers.ReactionID(10000000 + i*17)
		set.Reactions = append(set.Reactions, faers.Reaction{
			ID:                reactionIDs[i],
			PreferredTermName: fmt.Sprintf("Reaction %d", i+1),
			HighLevelTerm:     strconv.Itoa(10000000 + i),
			HighLevelTermName: fmt.Sprintf("Reaction group %d", i/5+1),
		})
	}

	profiles := make([][]float64, cfg.DrugCount)
	for d := 0; d < cfg.DrugCount; d++ {
		id := faers.DrugID(d + 1)
		set.Drugs = append(set.Drugs, faers.Drug{ID: id, Name: g.drugName(d)})
		profiles[d] = g.profile(cfg.ReactionCount)
		for i := 0; i < cfg.CasesPerDrug; i++ {
			set.SingleCases = append(set.SingleCases, faers.SingleCase{
				CaseID:   set.nextCaseID("sd"),
				Drug:     id,
				Reaction: reactionIDs[g.pick(profiles[d])],
			})
		}
	}

	seen := make(map[faers.DrugPair]bool)
	for c := 0; c < cfg.CombinationCount && len(seen) < cfg.DrugCount*(cfg.DrugCount-1)/2; c++ {
		a, b := g.rng.Intn(cfg.DrugCount), g.rng.Intn(cfg.DrugCount)
		pair := faers.NewDrugPair(faers.DrugID(a+1), faers.DrugID(b+1))
		if a == b || seen[pair] {
			c--
			continue
		}
		seen[pair] = true

		weights := make([]float64, cfg.ReactionCount)
		for r := range weights {
			weights[r] = profiles[a][r] + profiles[b][r]
		}
		if g.rng.Float64() < cfg.SynergyRate {
			boosted := g.rng.Intn(cfg.ReactionCount)
			weights[boosted] *= cfg.SynergyBoost
			if g.rng.Float64() < cfg.BenchmarkRate {
				set.Benchmark = append(set.Benchmark, faers.BenchmarkEntry{
					// benchmark names do not follow drug id order
					Combination: g.drugName(b) + faers.CombinationSeparator + g.drugName(a),
					Reaction:    reactionIDs[boosted],
					Frequency:   float64(g.rng.Intn(20)+1) / 100,
				})
			}
		}

		for i := 0; i < cfg.CasesPerCombination; i++ {
			set.CombinationCases = append(set.CombinationCases, faers.CombinationCase{
				CaseID:   set.nextCaseID("md"),
				Pair:     pair,
				Reaction: reactionIDs[g.pick(weights)],
			})
		}
	}
	return set, nil
}

func (g *FAERSDataGenerator) drugName(i int) string {
	if i < len(drugNames) {
		return drugNames[i]
	}
	return fmt.Sprintf("drug_%d", i+1)
}

// profile draws a skewed reaction distribution: a few reactions dominate.
func (g *FAERSDataGenerator) profile(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = g.rng.ExpFloat64()
	}
	return w
}

func (g *FAERSDataGenerator) pick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	x := g.rng.Float64() * total
	for i, w := range weights {
		x -= w
		if x < 0 {
			return i
		}
	}
	return len(weights) - 1
}
