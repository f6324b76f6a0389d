package engine

import "gonum.org/v1/gonum/stat"

// Weights is the penalty schedule. Hard constraints sit orders of magnitude
// above soft ones so the search never trades a clash for load balance.
type Weights struct {
	LunchOverlap    float64
	Overrun         float64
	RoomClash       float64
	InstructorClash float64
	CohortClash     float64
	RoomCategory    float64
	RoomMisuse      float64
	FixedTime       float64
	FixedRoom       float64
	FixedInstructor float64
	Blackout        float64
	HeadLoadBand    float64
	MinLoadPerHour  float64
	FullWeekPerDay  float64
	ImbalanceFactor float64
}

// DefaultWeights returns the production penalty schedule.
func DefaultWeights() Weights {
	return Weights{
		LunchOverlap:    1_000_000,
		Overrun:         100_000,
		RoomClash:       500_000,
		InstructorClash: 500_000,
		CohortClash:     500_000,
		RoomCategory:    50_000,
		RoomMisuse:      5_000,
		FixedTime:       500_000,
		FixedRoom:       100_000,
		FixedInstructor: 200_000,
		Blackout:        20_000,
		HeadLoadBand:    50_000,
		MinLoadPerHour:  10_000,
		FullWeekPerDay:  20_000,
		ImbalanceFactor: 1_000,
	}
}

// evalState carries the decoded placements and reservation maps for a single
// candidate evaluation. State is created fresh per Penalty call, so clash
// bookkeeping never leaks between candidates or runs.
type evalState struct {
	data *Dataset
	cfg  *Config
	w    Weights

	genes []Gene
	day   []int
	slot  []int

	roomBusy   map[int]bool
	instrBusy  map[int]bool
	cohortBusy map[int]bool

	hours      []int
	daysActive []map[int]bool
}

func newEvalState(data *Dataset, cfg *Config, genes []Gene) *evalState {
	st := &evalState{
		data:       data,
		cfg:        cfg,
		w:          cfg.Weights,
		genes:      genes,
		day:        make([]int, len(genes)),
		slot:       make([]int, len(genes)),
		roomBusy:   make(map[int]bool),
		instrBusy:  make(map[int]bool),
		cohortBusy: make(map[int]bool),
		hours:      make([]int, len(data.Instructors)),
		daysActive: make([]map[int]bool, len(data.Instructors)),
	}
	for i, g := range genes {
		st.day[i] = g.Start / cfg.SlotsPerDay
		st.slot[i] = g.Start % cfg.SlotsPerDay
		dur := data.Sessions[i].Duration
		st.hours[g.Instructor] += dur
		if st.daysActive[g.Instructor] == nil {
			st.daysActive[g.Instructor] = make(map[int]bool)
		}
		st.daysActive[g.Instructor][st.day[i]] = true
	}
	return st
}

// Rule is one constraint evaluator. Gene rules score a single placement and
// may record reservations in the shared state; aggregate rules score the
// whole candidate after every gene has been visited.
type Rule struct {
	Name      string
	Gene      func(st *evalState, i int, g Gene) float64
	Aggregate func(st *evalState) float64
}

// Rules returns the full constraint catalog in evaluation order. Clash rules
// charge once per extra occupant of a slot, so k overlapping sessions cost
// k-1 clash units.
func Rules() []Rule {
	return []Rule{
		{Name: "lunch_overlap", Gene: lunchOverlap},
		{Name: "day_overrun", Gene: dayOverrun},
		{Name: "room_clash", Gene: roomClash},
		{Name: "instructor_clash", Gene: instructorClash},
		{Name: "cohort_clash", Gene: cohortClash},
		{Name: "room_category", Gene: roomCategory},
		{Name: "room_misuse", Gene: roomMisuse},
		{Name: "fixed_placement", Gene: fixedPlacement},
		{Name: "instructor_blackout", Gene: instructorBlackout},
		{Name: "instructor_load", Aggregate: instructorLoad},
		{Name: "full_week_presence", Aggregate: fullWeekPresence},
		{Name: "load_imbalance", Aggregate: loadImbalance},
	}
}

func lunchOverlap(st *evalState, i int, g Gene) float64 {
	dur := st.data.Sessions[i].Duration
	if st.slot[i] <= st.cfg.LunchSlot && st.cfg.LunchSlot < st.slot[i]+dur {
		return st.w.LunchOverlap
	}
	return 0
}

func dayOverrun(st *evalState, i int, g Gene) float64 {
	if st.slot[i]+st.data.Sessions[i].Duration > st.cfg.ClosingSlot {
		return st.w.Overrun
	}
	return 0
}

func roomClash(st *evalState, i int, g Gene) float64 {
	var p float64
	for t := 0; t < st.data.Sessions[i].Duration; t++ {
		key := (g.Start+t)*len(st.data.Rooms) + g.Room
		if st.roomBusy[key] {
			p += st.w.RoomClash
		} else {
			st.roomBusy[key] = true
		}
	}
	return p
}

func instructorClash(st *evalState, i int, g Gene) float64 {
	var p float64
	for t := 0; t < st.data.Sessions[i].Duration; t++ {
		key := (g.Start+t)*len(st.data.Instructors) + g.Instructor
		if st.instrBusy[key] {
			p += st.w.InstructorClash
		} else {
			st.instrBusy[key] = true
		}
	}
	return p
}

func cohortClash(st *evalState, i int, g Gene) float64 {
	var p float64
	cohort := st.data.Sessions[i].Cohort
	for t := 0; t < st.data.Sessions[i].Duration; t++ {
		key := (g.Start+t)*len(st.data.Cohorts) + cohort
		if st.cohortBusy[key] {
			p += st.w.CohortClash
		} else {
			st.cohortBusy[key] = true
		}
	}
	return p
}

func roomCategory(st *evalState, i int, g Gene) float64 {
	s := &st.data.Sessions[i]
	if s.RoomCategory != "" && st.data.Rooms[g.Room].Category != s.RoomCategory {
		return st.w.RoomCategory
	}
	return 0
}

func roomMisuse(st *evalState, i int, g Gene) float64 {
	s := &st.data.Sessions[i]
	if s.RoomCategory == "" && st.data.RestrictedCategory(st.data.Rooms[g.Room].Category) {
		return st.w.RoomMisuse
	}
	return 0
}

func fixedPlacement(st *evalState, i int, g Gene) float64 {
	s := &st.data.Sessions[i]
	if !s.Fixed {
		return 0
	}
	var p float64
	if st.day[i] != s.FixedDay || st.slot[i] != s.FixedSlot {
		p += st.w.FixedTime
	}
	if g.Room != s.FixedRoom {
		p += st.w.FixedRoom
	}
	if s.Advisor >= 0 && g.Instructor != s.Advisor {
		p += st.w.FixedInstructor
	}
	return p
}

func instructorBlackout(st *evalState, i int, g Gene) float64 {
	var p float64
	end := st.slot[i] + st.data.Sessions[i].Duration - 1
	for _, w := range st.data.Instructors[g.Instructor].Blackouts {
		if w.Day == st.day[i] && st.slot[i] <= w.ToSlot && end >= w.FromSlot {
			p += st.w.Blackout
		}
	}
	return p
}

func instructorLoad(st *evalState) float64 {
	var p float64
	for i, in := range st.data.Instructors {
		h := st.hours[i]
		if in.Head {
			if h < in.MinHours || h > in.MaxHours {
				p += st.w.HeadLoadBand
			}
			continue
		}
		if h < in.MinHours {
			p += st.w.MinLoadPerHour * float64(in.MinHours-h)
		}
	}
	return p
}

func fullWeekPresence(st *evalState) float64 {
	var p float64
	for i, in := range st.data.Instructors {
		if !in.FullWeek {
			continue
		}
		active := len(st.daysActive[i])
		if active < st.cfg.Days {
			p += st.w.FullWeekPerDay * float64(st.cfg.Days-active)
		}
	}
	return p
}

// loadImbalance charges the population standard deviation of assigned hours
// across instructors that teach at all. Idle instructors are already covered
// by the minimum-load rule.
func loadImbalance(st *evalState) float64 {
	loads := make([]float64, 0, len(st.hours))
	for _, h := range st.hours {
		if h > 0 {
			loads = append(loads, float64(h))
		}
	}
	if len(loads) < 2 {
		return 0
	}
	return stat.PopStdDev(loads, nil) * st.w.ImbalanceFactor
}

// Evaluator scores candidates against the constraint catalog.
type Evaluator struct {
	data  *Dataset
	cfg   *Config
	rules []Rule
}

// NewEvaluator builds an evaluator over the given domain model.
func NewEvaluator(data *Dataset, cfg *Config) *Evaluator {
	return &Evaluator{data: data, cfg: cfg, rules: Rules()}
}

// Penalty returns the total weighted penalty of a gene sequence. Lower is
// better; zero means every constraint is satisfied.
func (e *Evaluator) Penalty(genes []Gene) float64 {
	st := newEvalState(e.data, e.cfg, genes)
	var total float64
	for _, r := range e.rules {
		if r.Gene == nil {
			continue
		}
		for i, g := range genes {
			total += r.Gene(st, i, g)
		}
	}
	for _, r := range e.rules {
		if r.Aggregate != nil {
			total += r.Aggregate(st)
		}
	}
	return total
}

// Breakdown returns the per-rule penalty contributions, used by reporting
// endpoints to explain why a timetable scored the way it did.
func (e *Evaluator) Breakdown(genes []Gene) map[string]float64 {
	st := newEvalState(e.data, e.cfg, genes)
	out := make(map[string]float64, len(e.rules))
	for _, r := range e.rules {
		if r.Gene == nil {
			continue
		}
		var sum float64
		for i, g := range genes {
			sum += r.Gene(st, i, g)
		}
		out[r.Name] = sum
	}
	for _, r := range e.rules {
		if r.Aggregate != nil {
			out[r.Name] = r.Aggregate(st)
		}
	}
	return out
}

// Score evaluates and caches the penalty on the individual.
func (e *Evaluator) Score(ind *Individual) {
	ind.Penalty = e.Penalty(ind.Genes)
	ind.Scored = true
}
