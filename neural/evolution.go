package neural

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Params tunes one species' evolution.
type Params struct {
	MutationRate     float64
	MutationStrength float64
	ElitePct         float64
	CrossoverRate    float64

	// Hidden is the hidden layer width for fresh brains; 0 means
	// DefaultHidden.
	Hidden int
}

// DefaultParams returns the standard evolution parameters.
func DefaultParams() Params {
	return Params{
		MutationRate:     0.1,
		MutationStrength: 0.2,
		ElitePct:         0.2,
		CrossoverRate:    0.7,
		Hidden:           DefaultHidden,
	}
}

// GenStats summarizes one evolved generation.
type GenStats struct {
	Generation int
	PoolSize   int

	MeanFitness float64
	MaxFitness  float64
	MinFitness  float64

	MeanAge          float64
	MaxAge           int
	MeanEnergyGained float64

	TotalOffspring int
	MeanOffspring  float64
}

// Engine evolves brain pools generation by generation. One engine serves
// one species.
type Engine struct {
	params Params
	rng    *rand.Rand
	log    *slog.Logger

	generation int
	history    []GenStats
}

// NewEngine creates an evolution engine.
func NewEngine(params Params, rng *rand.Rand, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{params: params, rng: rng, log: log}
}

// Generation returns how many generations have been evolved.
func (e *Engine) Generation() int { return e.generation }

// History returns the per-generation statistics, oldest first.
func (e *Engine) History() []GenStats { return e.history }

// Evolve produces target brains from the dead pool. An empty pool yields
// fresh random brains. Otherwise the top performers survive verbatim and
// every remaining offspring descends from elite parents, drawn by
// fitness-weighted sampling, then mutated.
func (e *Engine) Evolve(pool []*Brain, target int) []*Brain {
	e.generation++

	if len(pool) == 0 {
		out := make([]*Brain, target)
		for i := range out {
			out[i] = NewBrainSized(e.rng, e.params.Hidden)
		}
		e.record(pool, nil)
		return out
	}

	raw := make([]float64, len(pool))
	for i, b := range pool {
		raw[i] = rawFitness(b)
	}
	norm := normalize(raw)

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return norm[order[a]] > norm[order[b]] })

	eliteCount := int(math.Ceil(float64(len(pool)) * e.params.ElitePct))
	if eliteCount < 1 {
		eliteCount = 1
	}
	elites := order[:eliteCount]

	var next []*Brain
	for _, idx := range elites {
		if len(next) >= target {
			break
		}
		next = append(next, WrapNetwork(pool[idx].Net.Clone()))
	}

	for len(next) < target {
		var child *Network
		if e.rng.Float64() < e.params.CrossoverRate && len(elites) >= 2 {
			a, b := e.pickParents(elites, norm)
			child = pool[a].Net.Crossover(e.rng, pool[b].Net)
		} else {
			idx := e.pickElite(elites, norm)
			child = pool[idx].Net.Clone()
		}
		child.Mutate(e.rng, e.params.MutationRate, e.params.MutationStrength)
		next = append(next, WrapNetwork(child))
	}

	e.record(pool, raw)
	e.log.Info("generation evolved",
		"generation", e.generation,
		"pool", len(pool),
		"target", target,
		"elites", eliteCount,
	)
	return next[:target]
}

// pickElite draws one elite pool index, weighted by fitness.
func (e *Engine) pickElite(elites []int, norm []float64) int {
	weights := make([]float64, len(elites))
	for i, idx := range elites {
		weights[i] = norm[idx]
	}
	return elites[weightedPick(e.rng, weights)]
}

// pickParents selects two distinct elites, weighted by fitness.
func (e *Engine) pickParents(elites []int, norm []float64) (int, int) {
	a := e.pickElite(elites, norm)
	b := a
	for b == a {
		b = e.pickElite(elites, norm)
	}
	return a, b
}

// rawFitness scores one finished life. Longevity dominates, reproduction
// weighs heavily, and foraging efficiency rewards energy gained per tick
// lived.
func rawFitness(b *Brain) float64 {
	f := float64(b.Age)*2 + b.EnergyGained*0.1 + math.Pow(float64(b.Offspring), 1.5)*20
	if b.Age > 0 {
		f += b.EnergyGained / float64(b.Age) * 5
	}
	if f < 0 {
		return 0
	}
	return f
}

// normalize min-max scales scores into [0,1]. A flat pool maps to 0.5
// everywhere so selection stays uniform.
func normalize(raw []float64) []float64 {
	lo, hi := floats.Min(raw), floats.Max(raw)
	out := make([]float64, len(raw))
	if hi == lo {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range raw {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// weightedPick draws an index proportionally to weight+0.1, so even the
// weakest candidate keeps a small chance.
func weightedPick(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w + 0.1
	}
	r := rng.Float64() * total
	for i, w := range weights {
		r -= w + 0.1
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func (e *Engine) record(pool []*Brain, raw []float64) {
	gs := GenStats{Generation: e.generation, PoolSize: len(pool)}
	if len(pool) > 0 {
		ages := make([]float64, len(pool))
		energy := make([]float64, len(pool))
		for i, b := range pool {
			ages[i] = float64(b.Age)
			energy[i] = b.EnergyGained
			gs.TotalOffspring += b.Offspring
			if b.Age > gs.MaxAge {
				gs.MaxAge = b.Age
			}
		}
		gs.MeanFitness = stat.Mean(raw, nil)
		gs.MaxFitness = floats.Max(raw)
		gs.MinFitness = floats.Min(raw)
		gs.MeanAge = stat.Mean(ages, nil)
		gs.MeanEnergyGained = stat.Mean(energy, nil)
		gs.MeanOffspring = float64(gs.TotalOffspring) / float64(len(pool))
	}
	e.history = append(e.history, gs)
}

// Report renders the latest generation's statistics with the trend against
// the one before it.
func (e *Engine) Report() string {
	if len(e.history) == 0 {
		return "no generations evolved yet"
	}
	cur := e.history[len(e.history)-1]

	var b strings.Builder
	fmt.Fprintf(&b, "generation %d (pool %d)\n", cur.Generation, cur.PoolSize)
	fmt.Fprintf(&b, "  fitness: mean %.1f, max %.1f, min %.1f\n",
		cur.MeanFitness, cur.MaxFitness, cur.MinFitness)
	fmt.Fprintf(&b, "  age: mean %.1f, max %d\n", cur.MeanAge, cur.MaxAge)
	fmt.Fprintf(&b, "  energy gained: mean %.1f\n", cur.MeanEnergyGained)
	fmt.Fprintf(&b, "  offspring: total %d, mean %.2f\n", cur.TotalOffspring, cur.MeanOffspring)

	if len(e.history) > 1 {
		prev := e.history[len(e.history)-2]
		delta := cur.MeanFitness - prev.MeanFitness
		trend := "flat"
		if delta > 0.01 {
			trend = "improving"
		} else if delta < -0.01 {
			trend = "declining"
		}
		fmt.Fprintf(&b, "  trend: %s (%+.1f mean fitness)\n", trend, delta)
	}
	return b.String()
}
