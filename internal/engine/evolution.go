package engine

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// runSeedStride separates per-restart seeds far enough that the streams do
// not trivially overlap.
const runSeedStride = 0x9E3779B9

// Engine drives the generational search: independent restarts, tournament
// selection, two-point crossover, per-gene mutation and single-slot elitism.
type Engine struct {
	data   *Dataset
	cfg    Config
	logger *zap.Logger
}

// Result describes the outcome of a full optimization request.
type Result struct {
	Best        *Individual
	Penalty     float64
	Runs        int
	Generations int
	Elapsed     time.Duration
}

// New builds an engine over a prepared dataset. The config is normalized
// once here; zero fields fall back to the balanced defaults.
func New(data *Dataset, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.normalize()
	return &Engine{data: data, cfg: cfg, logger: logger}
}

// Config returns the normalized run configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run executes the configured number of independent restarts and returns the
// best timetable found across all of them. Cancelling the context stops each
// run at its next generation boundary; the best candidate seen so far is
// still returned.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	baseSeed := e.cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	var (
		mu   sync.Mutex
		best *Individual
		wg   sync.WaitGroup
	)
	for r := 0; r < e.cfg.Runs; r++ {
		wg.Add(1)
		go func(run int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(baseSeed + int64(run)*runSeedStride))
			candidate := e.runOnce(ctx, run, rng)
			if candidate == nil {
				return
			}
			mu.Lock()
			if best == nil || candidate.Penalty < best.Penalty {
				best = candidate
			}
			mu.Unlock()
		}(r)
	}
	wg.Wait()

	if best == nil {
		return nil, ctx.Err()
	}
	res := &Result{
		Best:        best,
		Penalty:     best.Penalty,
		Runs:        e.cfg.Runs,
		Generations: e.cfg.Generations,
		Elapsed:     time.Since(started),
	}
	e.logger.Info("optimization finished",
		zap.Float64("penalty", res.Penalty),
		zap.Int("runs", res.Runs),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (e *Engine) runOnce(ctx context.Context, run int, rng *rand.Rand) *Individual {
	eval := NewEvaluator(e.data, &e.cfg)
	init := NewInitializer(e.data, &e.cfg, e.logger)

	pop := make([]*Individual, e.cfg.Population)
	for i := range pop {
		pop[i] = init.NewIndividual(rng)
	}

	var best *Individual
	for gen := 0; ; gen++ {
		e.evaluate(pop, eval)
		for _, ind := range pop {
			if best == nil || ind.Penalty < best.Penalty {
				best = ind.Clone()
			}
		}
		if gen >= e.cfg.Generations || ctx.Err() != nil || best.Penalty == 0 {
			e.logger.Debug("run finished",
				zap.Int("run", run),
				zap.Int("generation", gen),
				zap.Float64("best_penalty", best.Penalty))
			return best
		}

		next := make([]*Individual, 0, e.cfg.Population+1)
		for len(next) < e.cfg.Population {
			p1 := e.tournament(rng, pop)
			p2 := e.tournament(rng, pop)
			var c1, c2 *Individual
			if rng.Float64() < e.cfg.CrossoverProb {
				c1, c2 = Crossover(rng, p1, p2)
			} else {
				c1, c2 = p1.Clone(), p2.Clone()
			}
			if rng.Float64() < e.cfg.MutationProb {
				Mutate(rng, e.data, &e.cfg, c1)
			}
			if rng.Float64() < e.cfg.MutationProb {
				Mutate(rng, e.data, &e.cfg, c2)
			}
			next = append(next, c1, c2)
		}
		next = next[:e.cfg.Population]
		// Single-slot elitism: the incumbent re-enters as a copy, so later
		// mutation of the population cannot corrupt it.
		next[0] = best.Clone()
		pop = next
	}
}

// evaluate scores every unscored individual, fanning the work out across a
// bounded set of workers. The evaluator itself is stateless between calls.
func (e *Engine) evaluate(pop []*Individual, eval *Evaluator) {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pop) {
		workers = len(pop)
	}
	if workers <= 1 {
		for _, ind := range pop {
			if !ind.Scored {
				eval.Score(ind)
			}
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (len(pop) + workers - 1) / workers
	for lo := 0; lo < len(pop); lo += chunk {
		hi := lo + chunk
		if hi > len(pop) {
			hi = len(pop)
		}
		wg.Add(1)
		go func(part []*Individual) {
			defer wg.Done()
			for _, ind := range part {
				if !ind.Scored {
					eval.Score(ind)
				}
			}
		}(pop[lo:hi])
	}
	wg.Wait()
}

func (e *Engine) tournament(rng *rand.Rand, pop []*Individual) *Individual {
	best := pop[rng.Intn(len(pop))]
	for k := 1; k < e.cfg.TournamentSize; k++ {
		challenger := pop[rng.Intn(len(pop))]
		if challenger.Penalty < best.Penalty {
			best = challenger
		}
	}
	return best
}
