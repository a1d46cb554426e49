package block

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpgo/fia-glwb-engine/internal/assumptions"
	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/rpgo/fia-glwb-engine/internal/projection"
)

func testCells(n int) []policy.Policy {
	cells := make([]policy.Policy, n)
	for i := 0; i < n; i++ {
		cells[i] = policy.New(
			uint32(i+1),
			policy.QualStatusQualified,
			70,
			policy.GenderMale,
			decimal.NewFromInt(100_000),
			decimal.NewFromInt(1),
			decimal.NewFromInt(100_000),
			policy.CreditingIndexed,
			10,
			decimal.NewFromFloat(0.0475),
			decimal.NewFromFloat(0.01),
			decimal.NewFromFloat(0.3),
			policy.RollupSimple,
		)
	}
	return cells
}

func testEngineForBlock() *projection.Engine {
	set := assumptions.LoadDefault()
	config := projection.DefaultConfig()
	config.ProjectionMonths = 24
	return projection.New(set, config)
}

func TestRunPreservesOrder(t *testing.T) {
	cells := testCells(8)
	engine := testEngineForBlock()

	results := Run(cells, engine, Config{MaxWorkers: 4})

	assert.Len(t, results, 8)
	for i, r := range results {
		assert.Equal(t, cells[i].PolicyID, r.Policy.PolicyID)
		assert.NotNil(t, r.Result)
		assert.Nil(t, r.Reserve)
	}
}

func TestRunWithUnboundedWorkers(t *testing.T) {
	cells := testCells(5)
	engine := testEngineForBlock()

	results := Run(cells, engine, DefaultConfig())

	assert.Len(t, results, 5)
	for _, r := range results {
		assert.True(t, len(r.Result.Cashflows) > 0)
	}
}

func TestRunWithReserves(t *testing.T) {
	cells := testCells(3)
	engine := testEngineForBlock()

	reserveConfig := testReserveConfig()
	config := Config{MaxWorkers: 2, WithReserves: true, ValuationMonth: 0, ReserveConfig: reserveConfig}

	results := Run(cells, engine, config)

	assert.Len(t, results, 3)
	for _, r := range results {
		assert.NotNil(t, r.Reserve)
		assert.True(t, r.Reserve.GrossReserve.GreaterThan(decimal.Zero))
	}
}
