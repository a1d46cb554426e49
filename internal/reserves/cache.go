package reserves

import (
	"fmt"
	"math"
	"sync"
)

// CachedPath is a full CARVM solve's result, retained so that subsequent
// valuation months can be rolled forward instead of re-solved: before the
// optimal activation month, adjust for time value and mortality; at or
// after it, take the simple PV of the remaining income stream. CSV always
// remains a floor.
type CachedPath struct {
	PolicyID               uint32
	SolveMonth             uint32
	OptimalActivationMonth uint32
	ReserveAtSolve         float64

	AVAtSolve     float64
	BBAtSolve     float64
	ITMAtSolve    float64
	SCRateAtSolve float64

	MonthlyIncomeAmount      float64
	DeathBenefitPVRemaining  float64

	OptimalPWDSchedule        []float64
	RemainingFreeAmountAtSolve float64
}

// NewCachedPath builds a cache entry from a full solve's output.
func NewCachedPath(policyID, solveMonth, optimalActivationMonth uint32, reserve, av, bb, monthlyIncome, deathPV, scRate float64) CachedPath {
	itm := math.MaxFloat64
	if av > 0.0 {
		itm = bb / av
	}
	return CachedPath{
		PolicyID:                   policyID,
		SolveMonth:                 solveMonth,
		OptimalActivationMonth:     optimalActivationMonth,
		ReserveAtSolve:             reserve,
		AVAtSolve:                  av,
		BBAtSolve:                  bb,
		ITMAtSolve:                 itm,
		SCRateAtSolve:              scRate,
		MonthlyIncomeAmount:        monthlyIncome,
		DeathBenefitPVRemaining:    deathPV,
		RemainingFreeAmountAtSolve: av * 0.10,
	}
}

// IsPotentiallyValid reports whether the cache entry could still apply at
// currentMonth — it is only ever usable at or after the solve month.
func (c CachedPath) IsPotentiallyValid(currentMonth uint32) bool {
	return currentMonth >= c.SolveMonth
}

// MonthsSinceSolve is the elapsed time since the full solve.
func (c CachedPath) MonthsSinceSolve(currentMonth uint32) uint32 {
	return saturatingSub(currentMonth, c.SolveMonth)
}

// PastOptimalActivation reports whether currentMonth is at or past the
// cached optimal activation month.
func (c CachedPath) PastOptimalActivation(currentMonth uint32) bool {
	return currentMonth >= c.OptimalActivationMonth
}

// ApproachingActivation reports whether currentMonth is within
// thresholdMonths of the cached optimal activation month.
func (c CachedPath) ApproachingActivation(currentMonth, thresholdMonths uint32) bool {
	monthsToActivation := saturatingSub(c.OptimalActivationMonth, currentMonth)
	return monthsToActivation <= thresholdMonths
}

func saturatingSub(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

// RevalidationCriteria governs when a cached path must be thrown away in
// favor of a full re-solve.
type RevalidationCriteria struct {
	PeriodicRevalidationMonths uint32
	ITMChangeThreshold         float64
	ActivationProximityMonths  uint32
	AVDeviationThreshold       float64
	CheckSCBoundaries          bool
}

// DefaultRevalidationCriteria re-solves every 12 months, on a 10% ITM
// swing, within 6 months of activation, or on a 15% AV deviation.
func DefaultRevalidationCriteria() RevalidationCriteria {
	return RevalidationCriteria{
		PeriodicRevalidationMonths: 12,
		ITMChangeThreshold:         0.10,
		ActivationProximityMonths:  6,
		AVDeviationThreshold:       0.15,
		CheckSCBoundaries:          true,
	}
}

// NeedsRevalidation returns the reason a full re-solve is required, or
// empty if the cached path can still be rolled forward.
func (r RevalidationCriteria) NeedsRevalidation(cached CachedPath, currentMonth uint32, currentAV, currentBB float64) string {
	monthsElapsed := saturatingSub(currentMonth, cached.SolveMonth)
	if monthsElapsed >= r.PeriodicRevalidationMonths {
		return fmt.Sprintf("periodic revalidation: %d months since last solve", monthsElapsed)
	}

	currentITM := math.MaxFloat64
	if currentAV > 0.0 {
		currentITM = currentBB / currentAV
	}
	itmChange := math.Abs(currentITM-cached.ITMAtSolve) / math.Max(cached.ITMAtSolve, 0.01)
	if itmChange > r.ITMChangeThreshold {
		return fmt.Sprintf("ITM changed by %.1f%% (threshold %.1f%%)", itmChange*100.0, r.ITMChangeThreshold*100.0)
	}

	if cached.ApproachingActivation(currentMonth, r.ActivationProximityMonths) {
		return fmt.Sprintf("within %d months of optimal activation", r.ActivationProximityMonths)
	}

	avChange := math.Abs(currentAV-cached.AVAtSolve) / math.Max(cached.AVAtSolve, 1.0)
	if avChange > r.AVDeviationThreshold {
		return fmt.Sprintf("AV changed by %.1f%% from solve time", avChange*100.0)
	}

	return ""
}

// Cache holds cached CARVM solves across a block's policies, safe for
// concurrent use by the worker pool that drives per-cell reserve runs.
type Cache struct {
	mu            sync.RWMutex
	entries       map[uint32]CachedPath
	criteria      RevalidationCriteria
	cacheHits     uint64
	cacheMisses   uint64
	revalidations uint64
}

// NewCache builds an empty cache with the default revalidation criteria.
func NewCache() *Cache {
	return NewCacheWithCriteria(DefaultRevalidationCriteria())
}

// NewCacheWithCriteria builds an empty cache with custom revalidation
// criteria.
func NewCacheWithCriteria(criteria RevalidationCriteria) *Cache {
	return &Cache{entries: make(map[uint32]CachedPath), criteria: criteria}
}

// Get returns the cached path for a policy, if any.
func (c *Cache) Get(policyID uint32) (CachedPath, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path, ok := c.entries[policyID]
	return path, ok
}

// Insert stores a cache entry, keyed by its own PolicyID.
func (c *Cache) Insert(path CachedPath) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path.PolicyID] = path
}

// Remove deletes a policy's cached path, if present.
func (c *Cache) Remove(policyID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, policyID)
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint32]CachedPath)
	c.cacheHits = 0
	c.cacheMisses = 0
	c.revalidations = 0
}

// Len is the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RecordHit increments the cache-hit counter.
func (c *Cache) RecordHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheHits++
}

// RecordMiss increments the cache-miss counter.
func (c *Cache) RecordMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheMisses++
}

// RecordRevalidation increments the revalidation counter.
func (c *Cache) RecordRevalidation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revalidations++
}

// HitRate is cache hits over total lookups, 0 if there have been none.
func (c *Cache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.cacheHits + c.cacheMisses
	if total == 0 {
		return 0.0
	}
	return float64(c.cacheHits) / float64(total)
}

// Criteria returns the cache's revalidation criteria.
func (c *Cache) Criteria() RevalidationCriteria {
	return c.criteria
}
