package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializerIsDeterministicForSeed(t *testing.T) {
	d := fixtureDataset(t)

	for _, strategy := range []string{StrategyNaive, StrategyGreedy} {
		cfg := testConfig()
		cfg.Strategy = strategy
		init := NewInitializer(d, &cfg, nil)

		a := init.NewIndividual(rand.New(rand.NewSource(123)))
		b := init.NewIndividual(rand.New(rand.NewSource(123)))
		assert.Equal(t, a.Genes, b.Genes, "strategy %s", strategy)
	}
}

func TestInitializerRespectsFixedAndCategory(t *testing.T) {
	d := fixtureDataset(t)
	cfg := testConfig()
	rng := rand.New(rand.NewSource(11))

	for _, strategy := range []string{StrategyNaive, StrategyGreedy} {
		cfg.Strategy = strategy
		init := NewInitializer(d, &cfg, nil)
		for i := 0; i < 50; i++ {
			ind := init.NewIndividual(rng)
			require.Len(t, ind.Genes, len(d.Sessions))
			// The lab session only ever gets the computer room.
			assert.Equal(t, 2, ind.Genes[2].Room)
			for j, g := range ind.Genes {
				assert.Contains(t, d.Sessions[j].Eligible, g.Instructor)
			}
		}
	}
}

func TestGreedyInitializerAvoidsReservationConflicts(t *testing.T) {
	d := fixtureDataset(t)
	cfg := testConfig()
	cfg.Strategy = StrategyGreedy
	eval := NewEvaluator(d, &cfg)
	init := NewInitializer(d, &cfg, nil)
	rng := rand.New(rand.NewSource(3))

	w := DefaultWeights()
	for i := 0; i < 25; i++ {
		ind := init.NewIndividual(rng)
		b := eval.Breakdown(ind.Genes)
		assert.Zero(t, b["room_clash"])
		assert.Zero(t, b["instructor_clash"])
		assert.Zero(t, b["cohort_clash"])
		assert.Zero(t, b["lunch_overlap"])
		assert.Zero(t, b["day_overrun"])
		assert.Less(t, b["room_misuse"], 2*w.RoomMisuse+1)
	}
}

func TestEngineRunIsDeterministicForSeed(t *testing.T) {
	d := fixtureDataset(t)
	cfg := testConfig()
	cfg.Population = 20
	cfg.Generations = 5
	cfg.Seed = 42

	r1, err := New(d, cfg, nil).Run(context.Background())
	require.NoError(t, err)
	r2, err := New(d, cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r1.Penalty, r2.Penalty)
	assert.Equal(t, r1.Best.Genes, r2.Best.Genes)
}

func TestEngineConvergesToZeroPenalty(t *testing.T) {
	d := fixtureDataset(t)

	for _, strategy := range []string{StrategyGreedy, StrategyNaive} {
		cfg := testConfig()
		cfg.Strategy = strategy
		cfg.Population = 50
		cfg.Generations = 50
		cfg.Seed = 42

		res, err := New(d, cfg, nil).Run(context.Background())
		require.NoError(t, err)
		require.NotNil(t, res.Best)
		assert.Zero(t, res.Penalty, "strategy %s", strategy)
		assert.Equal(t, res.Penalty, res.Best.Penalty)
		assert.Len(t, res.Best.Genes, len(d.Sessions))
	}
}

func TestEngineRunsMultipleRestarts(t *testing.T) {
	d := fixtureDataset(t)
	cfg := testConfig()
	cfg.Population = 20
	cfg.Generations = 3
	cfg.Runs = 3
	cfg.Seed = 9

	res, err := New(d, cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Runs)
	assert.NotNil(t, res.Best)
	assert.Positive(t, res.Elapsed)
}

func TestEngineCancelledContextStillReturnsBestSoFar(t *testing.T) {
	d := fixtureDataset(t)
	cfg := testConfig()
	cfg.Population = 20
	cfg.Generations = 1000
	cfg.Seed = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(d, cfg, nil).Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.Len(t, res.Best.Genes, len(d.Sessions))
}

func TestEngineNormalizesZeroConfig(t *testing.T) {
	d := fixtureDataset(t)
	e := New(d, Config{}, nil)

	cfg := e.Config()
	assert.Equal(t, 5, cfg.Days)
	assert.Equal(t, 10, cfg.SlotsPerDay)
	assert.Equal(t, 4, cfg.LunchSlot)
	assert.Equal(t, 9, cfg.ClosingSlot)
	assert.Equal(t, 500, cfg.Population)
	assert.Equal(t, StrategyGreedy, cfg.Strategy)
	assert.Equal(t, DefaultWeights(), cfg.Weights)
}

func TestEngineKeepsExplicitLunchAtSlotZero(t *testing.T) {
	d := fixtureDataset(t)
	e := New(d, Config{Days: 5, SlotsPerDay: 10, LunchSlot: 0}, nil)

	assert.Equal(t, 0, e.Config().LunchSlot)
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, ok := Preset(name)
		require.True(t, ok, name)
		assert.Positive(t, cfg.Population)
		assert.Positive(t, cfg.Generations)
		assert.Equal(t, 0.8, cfg.CrossoverProb)
		// Geometry stays zero so deployment config can overlay it.
		assert.Zero(t, cfg.Days)
	}

	_, ok := Preset("warp-speed")
	assert.False(t, ok)
}
