package engine

import (
	"math/rand"

	"go.uber.org/zap"
)

// placementRetries bounds the rejection sampling in the naive strategy.
// After this many draws the last draw is kept unrepaired and left for the
// penalty function to select against.
const placementRetries = 8

type window struct {
	day  int
	slot int
}

// Initializer seeds populations with candidate timetables. The naive
// strategy samples placements independently; the greedy strategy walks
// sessions in shuffled order and books the first conflict-free placement
// against transient reservation sets that live only for that one candidate.
type Initializer struct {
	data   *Dataset
	cfg    *Config
	logger *zap.Logger

	windows []window
}

// NewInitializer precomputes the legal start windows for the slot geometry.
func NewInitializer(data *Dataset, cfg *Config, logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	z := &Initializer{data: data, cfg: cfg, logger: logger}
	for d := 0; d < cfg.Days; d++ {
		for s := 0; s < cfg.ClosingSlot; s++ {
			if s == cfg.LunchSlot {
				continue
			}
			z.windows = append(z.windows, window{day: d, slot: s})
		}
	}
	return z
}

// NewIndividual draws one candidate using the configured strategy.
func (z *Initializer) NewIndividual(rng *rand.Rand) *Individual {
	if z.cfg.Strategy == StrategyNaive {
		return z.naive(rng)
	}
	return z.greedy(rng)
}

func (z *Initializer) naive(rng *rand.Rand) *Individual {
	ind := newIndividual(len(z.data.Sessions))
	for i := range z.data.Sessions {
		s := &z.data.Sessions[i]
		if s.Fixed {
			ind.Genes[i] = z.fixedGene(rng, s)
			continue
		}
		rooms := z.data.CandidateRooms(s)
		g := Gene{
			Room:       rooms[rng.Intn(len(rooms))],
			Instructor: s.Eligible[rng.Intn(len(s.Eligible))],
		}
		day, slot, ok := z.drawWindow(rng, s.Duration)
		if !ok {
			z.logger.Debug("placement retries exhausted, keeping unrepaired draw",
				zap.String("subject", s.SubjectCode),
				zap.Int("duration", s.Duration))
		}
		g.Start = day*z.cfg.SlotsPerDay + slot
		ind.Genes[i] = g
	}
	return ind
}

// drawWindow rejection-samples a start that fits duration inside the day
// without touching lunch. The last draw is returned even when no legal one
// was found within the retry budget.
func (z *Initializer) drawWindow(rng *rand.Rand, duration int) (day, slot int, ok bool) {
	for attempt := 0; attempt < placementRetries; attempt++ {
		day = rng.Intn(z.cfg.Days)
		slot = rng.Intn(z.cfg.ClosingSlot)
		if z.legalWindow(slot, duration) {
			return day, slot, true
		}
	}
	return day, slot, false
}

func (z *Initializer) legalWindow(slot, duration int) bool {
	if slot+duration > z.cfg.ClosingSlot {
		return false
	}
	if slot <= z.cfg.LunchSlot && z.cfg.LunchSlot < slot+duration {
		return false
	}
	return true
}

func (z *Initializer) fixedGene(rng *rand.Rand, s *Session) Gene {
	instructor := s.Advisor
	if instructor < 0 {
		instructor = s.Eligible[rng.Intn(len(s.Eligible))]
	}
	return Gene{
		Room:       s.FixedRoom,
		Start:      s.FixedDay*z.cfg.SlotsPerDay + s.FixedSlot,
		Instructor: instructor,
	}
}

type reservations struct {
	room   map[int]bool
	instr  map[int]bool
	cohort map[int]bool
}

func newReservations() *reservations {
	return &reservations{
		room:   make(map[int]bool),
		instr:  make(map[int]bool),
		cohort: make(map[int]bool),
	}
}

func (z *Initializer) greedy(rng *rand.Rand) *Individual {
	ind := newIndividual(len(z.data.Sessions))
	res := newReservations()

	// Fixed sessions book their mandated placements first so movable work
	// routes around them.
	var movable []int
	for i := range z.data.Sessions {
		s := &z.data.Sessions[i]
		if !s.Fixed {
			movable = append(movable, i)
			continue
		}
		g := z.fixedGene(rng, s)
		z.reserve(res, i, g)
		ind.Genes[i] = g
	}
	rng.Shuffle(len(movable), func(a, b int) {
		movable[a], movable[b] = movable[b], movable[a]
	})

	for _, i := range movable {
		s := &z.data.Sessions[i]
		instructor := s.Eligible[rng.Intn(len(s.Eligible))]
		g, ok := z.searchPlacement(rng, s, instructor, res)
		if !ok {
			// No conflict-free placement remains; fall back to a naive
			// draw and let selection pressure work on it.
			rooms := z.data.CandidateRooms(s)
			day, slot, _ := z.drawWindow(rng, s.Duration)
			g = Gene{
				Room:       rooms[rng.Intn(len(rooms))],
				Start:      day*z.cfg.SlotsPerDay + slot,
				Instructor: instructor,
			}
			z.logger.Debug("greedy placement fell back to random draw",
				zap.String("subject", s.SubjectCode))
		}
		z.reserve(res, i, g)
		ind.Genes[i] = g
	}
	return ind
}

func (z *Initializer) searchPlacement(rng *rand.Rand, s *Session, instructor int, res *reservations) (Gene, bool) {
	rooms := append([]int(nil), z.data.CandidateRooms(s)...)
	rng.Shuffle(len(rooms), func(a, b int) { rooms[a], rooms[b] = rooms[b], rooms[a] })

	windows := append([]window(nil), z.windows...)
	rng.Shuffle(len(windows), func(a, b int) { windows[a], windows[b] = windows[b], windows[a] })

	for _, w := range windows {
		if !z.legalWindow(w.slot, s.Duration) {
			continue
		}
		start := w.day*z.cfg.SlotsPerDay + w.slot
		for _, room := range rooms {
			if z.free(res, s, room, start, instructor) {
				return Gene{Room: room, Start: start, Instructor: instructor}, true
			}
		}
	}
	return Gene{}, false
}

func (z *Initializer) free(res *reservations, s *Session, room, start, instructor int) bool {
	for t := 0; t < s.Duration; t++ {
		abs := start + t
		if res.room[abs*len(z.data.Rooms)+room] {
			return false
		}
		if res.instr[abs*len(z.data.Instructors)+instructor] {
			return false
		}
		if res.cohort[abs*len(z.data.Cohorts)+s.Cohort] {
			return false
		}
	}
	return true
}

func (z *Initializer) reserve(res *reservations, i int, g Gene) {
	s := &z.data.Sessions[i]
	for t := 0; t < s.Duration; t++ {
		abs := g.Start + t
		res.room[abs*len(z.data.Rooms)+g.Room] = true
		res.instr[abs*len(z.data.Instructors)+g.Instructor] = true
		res.cohort[abs*len(z.data.Cohorts)+s.Cohort] = true
	}
}
