package engine

import "math/rand"

// Mutate perturbs the individual in place, one component draw per gene.
// Fixed sessions are never touched, and category-restricted sessions keep
// their room so a mandated venue cannot drift away permanently. The cached
// score is invalidated.
func Mutate(rng *rand.Rand, data *Dataset, cfg *Config, ind *Individual) {
	for i := range ind.Genes {
		s := &data.Sessions[i]
		if s.Fixed {
			continue
		}
		g := &ind.Genes[i]
		if s.RoomCategory == "" && rng.Float64() < cfg.GeneMutationProb {
			rooms := data.CandidateRooms(s)
			g.Room = rooms[rng.Intn(len(rooms))]
		}
		if rng.Float64() < cfg.GeneMutationProb {
			g.Start = redrawStart(rng, cfg, s.Duration)
		}
		if rng.Float64() < cfg.GeneMutationProb {
			g.Instructor = s.Eligible[rng.Intn(len(s.Eligible))]
		}
	}
	ind.Scored = false
}

// redrawStart picks a fresh day and a non-lunch start, then clamps the start
// so the session ends by the closing slot. Clamping can land on a
// lunch-overlapping window for long sessions; the penalty function handles
// that case.
func redrawStart(rng *rand.Rand, cfg *Config, duration int) int {
	day := rng.Intn(cfg.Days)
	slot := rng.Intn(cfg.ClosingSlot)
	if slot == cfg.LunchSlot {
		slot = (slot + 1) % cfg.ClosingSlot
	}
	if slot+duration > cfg.ClosingSlot {
		slot = cfg.ClosingSlot - duration
		if slot < 0 {
			slot = 0
		}
	}
	return day*cfg.SlotsPerDay + slot
}

// Crossover performs two-point crossover, returning two fresh children and
// leaving the parents untouched. The children carry no valid score.
func Crossover(rng *rand.Rand, a, b *Individual) (*Individual, *Individual) {
	c1, c2 := a.Clone(), b.Clone()
	c1.Scored = false
	c2.Scored = false
	n := len(c1.Genes)
	if n < 2 {
		return c1, c2
	}
	p1 := rng.Intn(n)
	p2 := rng.Intn(n)
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	for i := p1; i <= p2; i++ {
		c1.Genes[i], c2.Genes[i] = c2.Genes[i], c1.Genes[i]
	}
	return c1, c2
}
