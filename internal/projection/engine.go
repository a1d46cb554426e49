package projection

import (
	"math"

	"github.com/rpgo/fia-glwb-engine/internal/assumptions"
	"github.com/rpgo/fia-glwb-engine/internal/engine"
	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/shopspring/decimal"
)

// HedgeParams are the indexed-product derivative economics used to
// compute hedge gains from non-persisting policyholders.
type HedgeParams struct {
	OptionBudget     float64
	AppreciationRate float64
	FinancingFee     float64
}

// DefaultHedgeParams is 3.15% option budget, 20% appreciation rate, 5%
// financing fee.
func DefaultHedgeParams() HedgeParams {
	return HedgeParams{OptionBudget: 0.0315, AppreciationRate: 0.20, FinancingFee: 0.05}
}

// Config parameterizes a single policy's monthly projection run.
type Config struct {
	ProjectionMonths uint32
	Crediting        CreditingApproach
	DetailedOutput   bool
	TreasuryChange   float64

	// FixedLapseRate, when set, overrides the predictive lapse model with
	// an even 1/12-skew conversion of this flat annual rate — for testing.
	FixedLapseRate *float64

	// HedgeParams, when nil, disables hedge-gain calculation entirely.
	HedgeParams *HedgeParams

	// CapAVLost caps the hedge-gain av_lost term at BOP AV. Off by
	// default to match the reference spreadsheet's uncapped behavior;
	// set true for the arithmetically-corrected alternative.
	CapAVLost bool
}

// DefaultConfig is a 768-month (64-year) run with zero net-zero option
// budget crediting and hedge gains enabled.
func DefaultConfig() Config {
	hedge := DefaultHedgeParams()
	return Config{
		ProjectionMonths: 768,
		Crediting:        OptionBudgetCrediting{BudgetRate: 0.0, EquityKicker: 0.0},
		DetailedOutput:   true,
		HedgeParams:      &hedge,
	}
}

// Engine runs the monthly projection kernel for one policy cell against a
// fixed assumption Set and Config.
type Engine struct {
	assumptions assumptions.Set
	config      Config
	logger      engine.Logger
}

// New builds a projection Engine with a no-op logger.
func New(set assumptions.Set, config Config) *Engine {
	return &Engine{assumptions: set, config: config, logger: engine.NopLogger{}}
}

// SetLogger sets the engine's logger, used to trace early-exhaustion
// stops and other per-cell diagnostics. If nil is provided, a no-op
// logger is used.
func (e *Engine) SetLogger(logger engine.Logger) {
	if logger == nil {
		e.logger = engine.NopLogger{}
		return
	}
	e.logger = logger
}

// Assumptions returns the engine's assumption set, so a caller driving
// many cells through this engine (e.g. a block runner that also wants a
// CARVM calculator) can build against the same tables.
func (e *Engine) Assumptions() assumptions.Set {
	return e.assumptions
}

// ProjectPolicy runs the full monthly recursion for one cell, stopping
// early once lives are exhausted.
func (e *Engine) ProjectPolicy(p policy.Policy) *Result {
	result := NewResult(p.PolicyID)
	state := FromPolicy(p)

	for month := uint32(1); month <= e.config.ProjectionMonths; month++ {
		state.AdvanceMonth(p)

		if state.IncomeActivated && state.LockedPayoutRate == nil {
			rate := e.assumptions.Product.GLWB.PayoutFactors.GetSingleLife(state.AttainedAge)
			state.LockedPayoutRate = &rate
		}

		row := e.calculateMonth(p, state)
		result.AddRow(row)

		if state.Lives <= 1e-10 {
			e.logger.Debugf("policy %d: lives exhausted at month %d of %d", p.PolicyID, month, e.config.ProjectionMonths)
			break
		}
	}

	return result
}

func (e *Engine) calculateMonth(p policy.Policy, state *State) *CashflowRow {
	row := NewCashflowRow(state.ProjectionMonth)

	row.PolicyYear = state.PolicyYear
	row.MonthInPolicyYear = state.MonthInPolicyYear
	row.AttainedAge = state.AttainedAge

	row.BOPAV = decimal.NewFromFloat(state.BOPAV)
	row.BOPBenefitBase = decimal.NewFromFloat(state.BOPBenefitBase)
	row.PreDecrementAV = decimal.NewFromFloat(state.PreDecrementAV())
	row.Lives = decimal.NewFromFloat(state.Lives)

	if state.ProjectionMonth == 1 {
		row.Premium = p.InitialPremium
	}

	e.calculateDecrements(p, state, row)
	e.applyDecrements(state, row)
	e.calculateCashflows(p, state, row)

	if state.ProjectionMonth == 1 {
		state.FirstMonthTotalCommission, _ = row.AgentCommission.Add(row.IMOOverride).Add(row.WholesalerOverride).Float64()
	}

	ytdWD, _ := row.SystematicWithdrawal.Float64()
	state.YTDSystematicWD += ytdWD

	state.EOPAV, _ = row.EOPAV.Float64()
	state.AVPersistency, _ = row.AVPersistency.Float64()
	state.BBPersistency, _ = row.BBPersistency.Float64()
	state.LivesPersistency, _ = row.LivesPersistency.Float64()
	state.Lives, _ = row.Lives.Float64()

	state.PriorBOPAV = state.BOPAV
	state.PriorBOPBB = state.BOPBenefitBase

	e.updateBenefitBase(p, state, row)

	return row
}

func (e *Engine) calculateDecrements(p policy.Policy, state *State, row *CashflowRow) {
	mortality := e.assumptions.Mortality

	row.BaselineMortality = decimal.NewFromFloat(mortality.BaselineAnnualRate(state.AttainedAge, p.Gender))
	row.MortalityImprovement = decimal.NewFromFloat(mortality.ImprovementRate(state.AttainedAge, p.Gender))
	row.FinalMortality = mortality.MonthlyRate(state.AttainedAge, p.Gender, state.ProjectionMonth)

	scRate := e.assumptions.Product.Base.SurrenderCharges.GetRate(state.PolicyYear)
	row.SurrenderCharge = decimal.NewFromFloat(scRate)

	fpwPct := e.assumptions.PWD.FPWPercent(state.PolicyYear, state.AttainedAge, p.QualStatus)
	row.FPWPercent = decimal.NewFromFloat(fpwPct)

	row.GLWBActivated = state.IncomeActivated

	row.NonSystematicPWDRate = e.assumptions.PWD.MonthlyRateAdjusted(
		state.PolicyYear, state.AttainedAge, p.QualStatus, state.IncomeActivated,
	)

	itm := state.PriorITM()

	row.LapseSkew = decimal.NewFromFloat(e.assumptions.Lapse.GetSkew(state.PolicyYear, state.MonthInPolicyYear, uint32(p.SCPeriod)))
	row.BaseLapseComponent = decimal.NewFromFloat(e.assumptions.Lapse.BaseComponentWithBucket(
		state.PolicyYear, state.IncomeActivated, p.BenefitBaseBucket, uint32(p.SCPeriod),
	))
	row.DynamicLapseComponent = decimal.NewFromFloat(e.assumptions.Lapse.DynamicComponent(itm, state.IncomeActivated))

	var finalLapse decimal.Decimal
	switch {
	case state.BOPAV <= 0.0:
		finalLapse = decimal.Zero
	case e.config.FixedLapseRate != nil:
		if state.ProjectionMonth == 1 {
			finalLapse = decimal.Zero
		} else {
			finalLapse = decimal.NewFromFloat(1.0 - math.Pow(1.0-*e.config.FixedLapseRate, 1.0/12.0))
		}
	default:
		finalLapse = e.assumptions.Lapse.MonthlyLapseRateWithSkew(
			state.ProjectionMonth, state.PolicyYear, state.MonthInPolicyYear,
			state.IncomeActivated, itm, uint32(p.SCPeriod), p.BenefitBaseBucket,
		)
	}
	row.FinalLapseRate = finalLapse

	if state.ProjectionMonth%12 == 0 {
		if state.IncomeActivated {
			row.RiderChargeRate = decimal.NewFromFloat(e.assumptions.Product.GLWB.PostActivationCharge)
		} else {
			row.RiderChargeRate = decimal.NewFromFloat(e.assumptions.Product.GLWB.PreActivationCharge)
		}
	} else {
		row.RiderChargeRate = decimal.Zero
	}

	row.CreditedRate = decimal.NewFromFloat(e.config.Crediting.MonthlyRate(p, state))

	if state.IncomeActivated {
		payoutRate := e.assumptions.Product.GLWB.PayoutFactors.GetSingleLife(state.AttainedAge)
		if state.LockedPayoutRate != nil {
			payoutRate = *state.LockedPayoutRate
		}
		row.SystematicWithdrawal = decimal.NewFromFloat(state.BOPBenefitBase * payoutRate / 12.0)
	} else {
		row.SystematicWithdrawal = decimal.Zero
	}

	if state.PolicyYear <= uint32(p.SCPeriod) && !state.IncomeActivated {
		row.RollupRate = decimal.NewFromFloat(e.assumptions.Product.GLWB.RollupRate / 12.0)
	} else {
		row.RollupRate = decimal.Zero
	}
}

func (e *Engine) applyDecrements(state *State, row *CashflowRow) {
	mortalityDec, _ := row.FinalMortality.Float64()
	lapseDec, _ := row.FinalLapseRate.Float64()

	monthlyPersistency := (1.0 - mortalityDec) * (1.0 - lapseDec)

	row.AVPersistency = decimal.NewFromFloat(state.AVPersistency * monthlyPersistency)
	row.BBPersistency = decimal.NewFromFloat(state.BBPersistency * monthlyPersistency)
	row.LivesPersistency = decimal.NewFromFloat(state.LivesPersistency * monthlyPersistency)

	if state.LivesPersistency > 0 {
		livesPersistencyF, _ := row.LivesPersistency.Float64()
		row.Lives = decimal.NewFromFloat(state.Lives * livesPersistencyF / state.LivesPersistency)
	} else {
		row.Lives = decimal.Zero
	}
}

func (e *Engine) calculateCashflows(p policy.Policy, state *State, row *CashflowRow) {
	bopAV := state.BOPAV
	lives := state.Lives

	systematicWD, _ := row.SystematicWithdrawal.Float64()
	creditedRate, _ := row.CreditedRate.Float64()

	preDecAV := math.Max(0.0, bopAV-systematicWD) * (1.0 + creditedRate)
	row.PreDecrementAV = decimal.NewFromFloat(preDecAV)

	riderChargeRate, _ := row.RiderChargeRate.Float64()
	riderRate := 0.0
	if bopAV > 0.0 {
		riderRate = riderChargeRate * state.BOPBenefitBase / bopAV
	}

	finalMortality, _ := row.FinalMortality.Float64()
	finalLapse, _ := row.FinalLapseRate.Float64()
	nonSystematicPWDRate, _ := row.NonSystematicPWDRate.Float64()

	avPersistency := (1.0 - finalMortality) * (1.0 - finalLapse) * (1.0 - nonSystematicPWDRate) * (1.0 - riderRate)

	decrementPool := preDecAV * (1.0 - avPersistency)

	sumOfRates := finalMortality + finalLapse + nonSystematicPWDRate + riderRate

	var mortDec, lapseDec, pwdDec, riderDec, surrChgDec float64
	if sumOfRates > 0.0 {
		allocationBase := decrementPool / sumOfRates

		mortDec = allocationBase * finalMortality

		fpwPct, _ := row.FPWPercent.Float64()
		scRate, _ := row.SurrenderCharge.Float64()

		netOfSCFactor := fpwPct + (1.0-fpwPct)*(1.0-scRate)
		lapseDec = allocationBase * finalLapse * netOfSCFactor

		surrChgDec = allocationBase * finalLapse * (1.0 - fpwPct) * scRate

		pwdDec = allocationBase*nonSystematicPWDRate + systematicWD

		riderDec = allocationBase * riderRate
	} else {
		pwdDec = systematicWD
	}

	row.MortalityDec = decimal.NewFromFloat(mortDec)
	row.LapseDec = decimal.NewFromFloat(lapseDec)
	row.PWDDec = decimal.NewFromFloat(pwdDec)
	row.RiderChargesDec = decimal.NewFromFloat(riderDec)
	row.SurrenderChargesDec = decimal.NewFromFloat(surrChgDec)

	interestCredits := preDecAV - math.Max(0.0, bopAV-systematicWD)
	row.InterestCreditsDec = decimal.NewFromFloat(interestCredits)

	row.MortalityCF = decimal.NewFromFloat(mortDec * lives)
	row.LapseCF = decimal.NewFromFloat(lapseDec * lives)
	row.PWDCF = decimal.NewFromFloat(pwdDec * lives)
	row.RiderChargesCF = decimal.NewFromFloat(riderDec * lives)
	row.SurrenderChargesCF = decimal.NewFromFloat(surrChgDec * lives)
	row.InterestCreditsCF = decimal.NewFromFloat(interestCredits * lives)

	eopAV := math.Max(0.0, bopAV+interestCredits-(mortDec+lapseDec+pwdDec+riderDec+surrChgDec))
	row.EOPAV = decimal.NewFromFloat(eopAV)

	row.Expenses = decimal.NewFromFloat(eopAV * e.assumptions.Product.Base.ExpenseRateOfAV / 12.0)

	if state.ProjectionMonth == 1 {
		comm := e.assumptions.Product.Commissions.Calculate(p.InitialPremium, p.IssueAge)
		row.AgentCommission = comm.Agent
		row.IMOOverride = comm.IMOOverride
		row.IMOConversionOwed = comm.IMOConversionOwed
		row.WholesalerOverride = comm.WholesalerOverride
		row.WholesalerConversionOwed = comm.WholesalerConversionOwed
	}

	if state.ProjectionMonth == 13 {
		bonusRate := e.assumptions.Product.Commissions.BonusRate(p.IssueAge)
		row.BonusComp = decimal.NewFromFloat(bopAV * bonusRate)
	}

	chargebackFactor := e.assumptions.Product.Commissions.ChargebackFactor(state.ProjectionMonth, state.PolicyYear)
	if chargebackFactor > 0.0 && state.InitialLives > 0.0 {
		livesPersistencyF, _ := row.LivesPersistency.Float64()
		livesPersistencyThisMonth := livesPersistencyF / state.LivesPersistency
		livesLostRate := 1.0 - livesPersistencyThisMonth

		var firstMonthCommission float64
		if state.ProjectionMonth == 1 {
			firstMonthCommission, _ = row.AgentCommission.Add(row.IMOOverride).Add(row.WholesalerOverride).Float64()
		} else {
			firstMonthCommission = state.FirstMonthTotalCommission
		}

		chargeback := state.Lives * livesLostRate / state.InitialLives * firstMonthCommission * chargebackFactor
		row.Chargebacks = decimal.NewFromFloat(chargeback)
	}

	e.calculateHedgeGains(p, state, row)

	totalCommission := row.AgentCommission.Add(row.IMOOverride).Add(row.WholesalerOverride).Add(row.BonusComp)
	row.TotalNetCashflow = row.Premium.
		Sub(row.MortalityDec).
		Sub(row.LapseDec).
		Sub(row.PWDDec).
		Sub(row.Expenses).
		Sub(totalCommission).
		Add(row.Chargebacks).
		Add(row.HedgeGains)
}

func (e *Engine) calculateHedgeGains(p policy.Policy, state *State, row *CashflowRow) {
	if p.CreditingStrategy == policy.CreditingFixed {
		row.NetIndexCreditReimbursement = decimal.Zero
		row.HedgeGains = decimal.Zero
		return
	}

	if e.config.HedgeParams == nil {
		row.NetIndexCreditReimbursement = decimal.Zero
		row.HedgeGains = decimal.Zero
		return
	}
	params := e.config.HedgeParams

	netAppreciation := 1.0 + params.AppreciationRate - params.FinancingFee

	laggedPolicyYear := state.PolicyYear
	if state.MonthInPolicyYear == 1 && state.PolicyYear > 1 {
		laggedPolicyYear = state.PolicyYear - 1
	}
	laggedRateMult := 1.0
	if laggedPolicyYear > 10 {
		laggedRateMult = 0.5
	}

	optionCost := params.OptionBudget * laggedRateMult * (1.0 + params.FinancingFee)
	creditedRate, _ := row.CreditedRate.Float64()
	reimbursement := math.Max(0.0, state.BOPAV*(creditedRate-optionCost))
	row.NetIndexCreditReimbursement = decimal.NewFromFloat(reimbursement)

	riderChargeRate, _ := row.RiderChargeRate.Float64()
	riderRate := 0.0
	if state.BOPAV > 0.0 {
		riderRate = riderChargeRate * state.BOPBenefitBase / state.BOPAV
	}

	finalMortality, _ := row.FinalMortality.Float64()
	finalLapse, _ := row.FinalLapseRate.Float64()
	nonSystematicPWDRate, _ := row.NonSystematicPWDRate.Float64()

	monthlyAVPersistency := (1.0 - finalMortality) * (1.0 - finalLapse) * (1.0 - nonSystematicPWDRate) * (1.0 - riderRate)

	avLost := state.BOPAV * (1.0 - monthlyAVPersistency)
	if e.config.CapAVLost {
		avLost = math.Min(avLost, state.BOPAV)
	}

	laggedMonth := uint32(1)
	switch {
	case state.ProjectionMonth == 1:
		laggedMonth = 1
	case state.MonthInPolicyYear == 1:
		laggedMonth = 12
	default:
		laggedMonth = state.MonthInPolicyYear - 1
	}

	hedgeGains := avLost*params.OptionBudget*laggedRateMult*math.Pow(netAppreciation, float64(laggedMonth)/12.0) + reimbursement
	row.HedgeGains = decimal.NewFromFloat(hedgeGains)
}

// updateBenefitBase applies BB persistency and, during the SC period
// before income activation, the annual rollup — at month 12 of each
// policy year, relative to last year's rollup multiple.
func (e *Engine) updateBenefitBase(p policy.Policy, state *State, row *CashflowRow) {
	finalMortality, _ := row.FinalMortality.Float64()
	finalLapse, _ := row.FinalLapseRate.Float64()
	nonSystematicPWDRate, _ := row.NonSystematicPWDRate.Float64()

	monthlyBBPersistency := (1.0 - finalMortality) * (1.0 - finalLapse) * (1.0 - nonSystematicPWDRate)
	state.BOPBenefitBase *= monthlyBBPersistency

	switch {
	case state.IncomeActivated:
		// No rollup after activation; BB only decays via persistency.
	case state.MonthInPolicyYear == 12 && state.PolicyYear <= uint32(p.SCPeriod):
		bbBonus := e.assumptions.Product.GLWB.BonusRate
		rollupRate := e.assumptions.Product.GLWB.RollupRate
		py := math.Min(float64(state.PolicyYear), 10.0)
		pyPrev := math.Min(float64(state.PolicyYear-1), 10.0)
		rollupFactor := (1.0 + bbBonus + rollupRate*py) / (1.0 + bbBonus + rollupRate*pyPrev)
		state.BOPBenefitBase *= rollupFactor
	}
}
