// Package block runs a full inforce file — many policy cells — through the
// projection kernel and, optionally, the CARVM reserve optimizer, fanning
// work out across a bounded worker pool and reducing back into a stable,
// policy-order result slice.
package block

import (
	"sync"

	eng "github.com/rpgo/fia-glwb-engine/internal/engine"
	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/rpgo/fia-glwb-engine/internal/projection"
	"github.com/rpgo/fia-glwb-engine/internal/reserves"
)

// Config parameterizes one block run.
type Config struct {
	// MaxWorkers bounds how many cells project concurrently. Zero means
	// unbounded (one goroutine per cell).
	MaxWorkers int

	// WithReserves also runs each cell through a CARVM reserve
	// calculation at ValuationMonth. All cells share one CARVM
	// calculator and its roll-forward cache; cache entries are keyed by
	// policy ID, so no entry is reused across cells.
	WithReserves   bool
	ValuationMonth uint32
	ReserveConfig  reserves.CARVMConfig

	// Logger traces dispatch-level progress; nil means no-op.
	Logger eng.Logger
}

// DefaultConfig runs every cell's projection with no reserve calculation
// and no worker cap.
func DefaultConfig() Config {
	return Config{MaxWorkers: 0, WithReserves: false, Logger: eng.NopLogger{}}
}

// CellResult pairs one cell's projection (and, if requested, reserve)
// output with its source policy.
type CellResult struct {
	Policy  policy.Policy
	Result  *projection.Result
	Reserve *reserves.Result
}

// Run projects every cell in cells, in parallel up to Config.MaxWorkers,
// and returns results in the same order as cells — the fan-out is
// unordered, but the fan-in writes into a pre-sized slice indexed by
// position, so the result order never depends on goroutine scheduling.
func Run(cells []policy.Policy, projectionEngine *projection.Engine, config Config) []CellResult {
	logger := config.Logger
	if logger == nil {
		logger = eng.NopLogger{}
	}

	results := make([]CellResult, len(cells))

	var wg sync.WaitGroup
	var semaphore chan struct{}
	if config.MaxWorkers > 0 {
		semaphore = make(chan struct{}, config.MaxWorkers)
	}

	var carvmCalc *reserves.CARVMCalculator
	if config.WithReserves {
		// Built once up-front; CARVMCalculator's cache carries its own
		// sync.RWMutex, so every cell-goroutine can share it safely.
		carvmCalc = reserves.NewCARVMCalculator(projectionEngine.Assumptions(), config.ReserveConfig)
	}

	logger.Infof("block run starting: %d cells, max_workers=%d, with_reserves=%t", len(cells), config.MaxWorkers, config.WithReserves)

	for i, cell := range cells {
		wg.Add(1)
		go func(idx int, p policy.Policy) {
			defer wg.Done()
			if semaphore != nil {
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
			}

			cellResult := CellResult{Policy: p}
			cellResult.Result = projectionEngine.ProjectPolicy(p)

			if config.WithReserves && carvmCalc != nil {
				reserveResult := carvmCalc.CalculateReserve(p, config.ValuationMonth)
				cellResult.Reserve = &reserveResult
			}

			results[idx] = cellResult
		}(i, cell)
	}

	wg.Wait()
	logger.Infof("block run complete: %d cells projected", len(cells))
	return results
}
