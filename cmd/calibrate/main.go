// Package main searches soft-body mesh constants with CMA-ES for bodies that
// hold their area and round shape while being steered toward food.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/amoeba/config"
)

// EvalRecord is one row of the calibration log.
type EvalRecord struct {
	Eval               int     `csv:"eval"`
	Fitness            float64 `csv:"fitness"`
	AreaError          float64 `csv:"area_error"`
	Distortion         float64 `csv:"distortion"`
	Exploded           bool    `csv:"exploded"`
	PerimeterStiffness float64 `csv:"perimeter_stiffness"`
	DiagonalStiffness  float64 `csv:"diagonal_stiffness"`
	Damping            float64 `csv:"perimeter_damping"`
	PressureConstant   float64 `csv:"pressure_constant"`
}

func newEvalRecord(eval int, fit float64, r RunResult, p []float64) EvalRecord {
	return EvalRecord{
		Eval:               eval,
		Fitness:            fit,
		AreaError:          r.AreaError,
		Distortion:         r.Distortion,
		Exploded:           r.Exploded,
		PerimeterStiffness: p[0],
		DiagonalStiffness:  p[1],
		Damping:            p[2],
		PressureConstant:   p[3],
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Uint64("max-ticks", 1800, "Simulation ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewEvaluator(params, *maxTicks, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // sequential; seeds already run in parallel
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	evalCount := 0
	bestFitness := explodedFitness
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fit := evaluator.Evaluate(clamped)
			result := evaluator.Last()
			evalCount++

			if fit < bestFitness || bestParams == nil {
				bestFitness = fit
				bestParams = clamped
			}

			rows := []EvalRecord{newEvalRecord(evalCount, fit, result, clamped)}
			if headerWritten {
				err = gocsv.MarshalWithoutHeaders(rows, logFile)
			} else {
				err = gocsv.Marshal(rows, logFile)
				headerWritten = true
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: area=%.4f distortion=%.4f fitness=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, result.AreaError, result.Distortion, fit, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fit
		},
	}

	fmt.Printf("Starting CMA-ES calibration with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Path, bestParams[i])
	}

	bestCfg := evaluator.copyConfig()
	params.ApplyToConfig(bestCfg, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
