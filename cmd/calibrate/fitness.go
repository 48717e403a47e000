package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/amoeba/config"
	"github.com/pthm-cable/amoeba/game"
	"github.com/pthm-cable/amoeba/systems"
)

// Fitness weights and the score given to runs that blow up.
const (
	areaWeight       = 1.0
	distortionWeight = 0.5
	explodedFitness  = 1e6
)

// Evaluator runs headless simulations and scores how well bodies keep their
// shape while being steered.
type Evaluator struct {
	params     *ParamVector
	maxTicks   uint64
	seeds      []int64
	baseConfig *config.Config

	mu   sync.Mutex
	last RunResult
}

// RunResult holds the shape error accumulated over one or more runs.
type RunResult struct {
	AreaError  float64 // mean |area - target| / target
	Distortion float64 // mean coefficient of variation of node-centroid distance
	Exploded   bool    // a node went non-finite
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *Evaluator {
	return &Evaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// Last returns the result of the most recent Evaluate call.
func (e *Evaluator) Last() RunResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel and their results are averaged.
func (e *Evaluator) Evaluate(x []float64) float64 {
	results := make([]RunResult, len(e.seeds))
	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = e.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg RunResult
	for _, r := range results {
		avg.AreaError += r.AreaError
		avg.Distortion += r.Distortion
		avg.Exploded = avg.Exploded || r.Exploded
	}
	n := float64(len(results))
	avg.AreaError /= n
	avg.Distortion /= n

	e.mu.Lock()
	e.last = avg
	e.mu.Unlock()

	return fitness(avg)
}

func fitness(r RunResult) float64 {
	if r.Exploded {
		return explodedFitness
	}
	return areaWeight*r.AreaError + distortionWeight*r.Distortion
}

// runSimulation steers the seed bodies toward a stream of food items and
// records their shape error every tick.
func (e *Evaluator) runSimulation(x []float64, seed int64) RunResult {
	cfg := e.copyConfig()
	e.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(game.Options{
		Config:   cfg,
		Seed:     seed,
		Headless: true,
		Offline:  true,
	})
	if err != nil {
		return RunResult{Exploded: true}
	}
	defer g.Unload()

	// Separate stream for target placement so it does not perturb the world.
	rng := rand.New(rand.NewSource(seed + 7))
	w := g.World()
	place := func() {
		w.AddFood(r2.Vec{X: rng.Float64() * w.Width, Y: rng.Float64() * w.Height})
	}
	place()

	var areaSum, distortionSum float64
	var samples int
	for g.Tick() < e.maxTicks {
		g.UpdateHeadless()
		if len(w.Foods()) == 0 {
			place()
		}

		for _, b := range w.Bodies() {
			area, distortion, ok := shapeError(b)
			if !ok {
				return RunResult{Exploded: true}
			}
			areaSum += area
			distortionSum += distortion
			samples++
		}
	}

	if samples == 0 {
		return RunResult{}
	}
	return RunResult{
		AreaError:  areaSum / float64(samples),
		Distortion: distortionSum / float64(samples),
	}
}

// shapeError returns the relative area error and the ring distortion of b.
// ok is false when the mesh has gone non-finite.
func shapeError(b *systems.Body) (area, distortion float64, ok bool) {
	c := b.Centroid()
	dists := make([]float64, len(b.Nodes()))
	for i, n := range b.Nodes() {
		if math.IsNaN(n.Pos.X) || math.IsNaN(n.Pos.Y) || math.IsInf(n.Pos.X, 0) || math.IsInf(n.Pos.Y, 0) {
			return 0, 0, false
		}
		dists[i] = r2.Norm(r2.Sub(n.Pos, c))
	}

	target := b.TargetVolume()
	if target > 0 {
		area = math.Abs(b.Volume()-target) / target
	}

	mean, std := stat.MeanStdDev(dists, nil)
	if mean > 0 {
		distortion = std / mean
	}
	return area, distortion, true
}

// copyConfig returns a copy of the base config that runs may mutate.
func (e *Evaluator) copyConfig() *config.Config {
	cfg := *e.baseConfig
	cfg.Seeds = append([]config.SeedConfig(nil), e.baseConfig.Seeds...)
	return &cfg
}
