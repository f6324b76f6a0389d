package engine

// Gene assigns one course session a venue, an absolute start slot and an
// instructor. Genes are bound to sessions by position.
type Gene struct {
	Room       int
	Start      int
	Instructor int
}

// Individual is a complete candidate timetable: one gene per session. An
// individual is owned by the run that produced it; retained elites are never
// mutated in place, variation always works on fresh copies.
type Individual struct {
	Genes   []Gene
	Penalty float64
	Scored  bool
}

func newIndividual(sessions int) *Individual {
	return &Individual{Genes: make([]Gene, sessions)}
}

// Clone returns a deep copy carrying the cached penalty.
func (ind *Individual) Clone() *Individual {
	genes := make([]Gene, len(ind.Genes))
	copy(genes, ind.Genes)
	return &Individual{Genes: genes, Penalty: ind.Penalty, Scored: ind.Scored}
}

// Initialization strategies.
const (
	StrategyNaive  = "naive"
	StrategyGreedy = "greedy"
)

// Config carries the full parameter set for one optimization run. It is
// constructed per run and passed explicitly; there is no shared mutable
// registry of operators.
type Config struct {
	Days        int
	SlotsPerDay int
	LunchSlot   int
	// ClosingSlot is the exclusive end bound inside a day: a session
	// occupying [start, start+duration) must keep start+duration <= ClosingSlot.
	ClosingSlot int

	Population     int
	Generations    int
	Runs           int
	TournamentSize int
	CrossoverProb  float64
	// MutationProb selects offspring for mutation; GeneMutationProb is then
	// applied independently per gene component.
	MutationProb     float64
	GeneMutationProb float64

	Strategy string
	Seed     int64
	Workers  int
	Weights  Weights
}

// TotalSlots returns the absolute slot count of the teaching week.
func (c *Config) TotalSlots() int {
	return c.Days * c.SlotsPerDay
}

func (c *Config) normalize() {
	// LunchSlot 0 is a legal explicit choice, so it only falls back to the
	// default when the whole geometry block was left unset.
	if c.Days <= 0 && c.SlotsPerDay <= 0 && c.LunchSlot == 0 {
		c.LunchSlot = 4
	}
	if c.Days <= 0 {
		c.Days = 5
	}
	if c.SlotsPerDay <= 0 {
		c.SlotsPerDay = 10
	}
	if c.LunchSlot < 0 || c.LunchSlot >= c.SlotsPerDay {
		c.LunchSlot = 4
	}
	if c.ClosingSlot <= 0 || c.ClosingSlot > c.SlotsPerDay {
		c.ClosingSlot = c.SlotsPerDay - 1
	}
	if c.Population <= 0 {
		c.Population = 500
	}
	if c.Generations <= 0 {
		c.Generations = 150
	}
	if c.Runs <= 0 {
		c.Runs = 1
	}
	if c.TournamentSize <= 0 {
		c.TournamentSize = 5
	}
	if c.CrossoverProb <= 0 {
		c.CrossoverProb = 0.8
	}
	if c.MutationProb <= 0 {
		c.MutationProb = 0.5
	}
	if c.GeneMutationProb <= 0 {
		c.GeneMutationProb = 0.2
	}
	if c.Strategy == "" {
		c.Strategy = StrategyGreedy
	}
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
}

// Preset returns the named search-budget preset. Slot geometry keeps zero
// values so callers can overlay deployment configuration afterwards.
func Preset(name string) (Config, bool) {
	switch name {
	case "draft":
		return Config{Population: 150, Generations: 60, Runs: 1, TournamentSize: 5, CrossoverProb: 0.8, MutationProb: 0.4, GeneMutationProb: 0.2}, true
	case "balanced":
		return Config{Population: 500, Generations: 150, Runs: 1, TournamentSize: 5, CrossoverProb: 0.8, MutationProb: 0.5, GeneMutationProb: 0.2}, true
	case "precise":
		return Config{Population: 800, Generations: 300, Runs: 3, TournamentSize: 5, CrossoverProb: 0.8, MutationProb: 0.5, GeneMutationProb: 0.2}, true
	}
	return Config{}, false
}

// PresetNames lists selectable presets in ascending cost order.
func PresetNames() []string {
	return []string{"draft", "balanced", "precise"}
}
