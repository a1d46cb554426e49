package projection

import "github.com/shopspring/decimal"

// CashflowRow is one month's full output for a single policy cell: the
// external contract other components (block aggregation, reserves) read
// from. Monetary and rate fields are decimal.Decimal at this boundary;
// the kernel computes them in float64 and converts once per row.
type CashflowRow struct {
	ProjectionMonth   uint32
	PolicyYear        uint32
	MonthInPolicyYear uint32
	AttainedAge       uint8

	BaselineMortality      decimal.Decimal
	MortalityImprovement   decimal.Decimal
	FinalMortality         decimal.Decimal
	SurrenderCharge        decimal.Decimal
	FPWPercent             decimal.Decimal
	GLWBActivated          bool
	NonSystematicPWDRate   decimal.Decimal
	LapseSkew              decimal.Decimal
	BaseLapseComponent     decimal.Decimal
	DynamicLapseComponent  decimal.Decimal
	FinalLapseRate         decimal.Decimal

	Premium        decimal.Decimal
	BOPAV          decimal.Decimal
	BOPBenefitBase decimal.Decimal
	PreDecrementAV decimal.Decimal

	RiderChargeRate       decimal.Decimal
	CreditedRate          decimal.Decimal
	SystematicWithdrawal  decimal.Decimal
	RollupRate            decimal.Decimal

	AVPersistency    decimal.Decimal
	BBPersistency    decimal.Decimal
	LivesPersistency decimal.Decimal
	Lives            decimal.Decimal

	MortalityDec       decimal.Decimal
	LapseDec           decimal.Decimal
	PWDDec             decimal.Decimal
	RiderChargesDec    decimal.Decimal
	SurrenderChargesDec decimal.Decimal
	InterestCreditsDec decimal.Decimal

	MortalityCF       decimal.Decimal
	LapseCF           decimal.Decimal
	PWDCF             decimal.Decimal
	RiderChargesCF    decimal.Decimal
	SurrenderChargesCF decimal.Decimal
	InterestCreditsCF decimal.Decimal
	EOPAV             decimal.Decimal

	Expenses                 decimal.Decimal
	AgentCommission          decimal.Decimal
	IMOOverride              decimal.Decimal
	IMOConversionOwed        decimal.Decimal
	WholesalerOverride       decimal.Decimal
	WholesalerConversionOwed decimal.Decimal
	Chargebacks              decimal.Decimal
	BonusComp                decimal.Decimal

	TotalNetCashflow              decimal.Decimal
	NetIndexCreditReimbursement   decimal.Decimal
	HedgeGains                    decimal.Decimal
}

// NewCashflowRow returns a row with AV/BB/lives persistency defaulted to
// 1.0 and every dollar/rate field at zero, matching the reference
// implementation's per-month default.
func NewCashflowRow(projectionMonth uint32) *CashflowRow {
	return &CashflowRow{
		ProjectionMonth:   projectionMonth,
		PolicyYear:        1,
		MonthInPolicyYear: 1,
		AVPersistency:     decimal.NewFromInt(1),
		BBPersistency:     decimal.NewFromInt(1),
		LivesPersistency:  decimal.NewFromInt(1),

		BaselineMortality:           decimal.Zero,
		MortalityImprovement:       decimal.Zero,
		FinalMortality:             decimal.Zero,
		SurrenderCharge:            decimal.Zero,
		FPWPercent:                 decimal.Zero,
		NonSystematicPWDRate:       decimal.Zero,
		LapseSkew:                  decimal.Zero,
		BaseLapseComponent:         decimal.Zero,
		DynamicLapseComponent:      decimal.Zero,
		FinalLapseRate:             decimal.Zero,
		Premium:                    decimal.Zero,
		BOPAV:                      decimal.Zero,
		BOPBenefitBase:             decimal.Zero,
		PreDecrementAV:             decimal.Zero,
		RiderChargeRate:            decimal.Zero,
		CreditedRate:               decimal.Zero,
		SystematicWithdrawal:       decimal.Zero,
		RollupRate:                 decimal.Zero,
		Lives:                      decimal.Zero,
		MortalityDec:               decimal.Zero,
		LapseDec:                   decimal.Zero,
		PWDDec:                     decimal.Zero,
		RiderChargesDec:            decimal.Zero,
		SurrenderChargesDec:        decimal.Zero,
		InterestCreditsDec:         decimal.Zero,
		MortalityCF:                decimal.Zero,
		LapseCF:                    decimal.Zero,
		PWDCF:                      decimal.Zero,
		RiderChargesCF:             decimal.Zero,
		SurrenderChargesCF:         decimal.Zero,
		InterestCreditsCF:          decimal.Zero,
		EOPAV:                      decimal.Zero,
		Expenses:                   decimal.Zero,
		AgentCommission:            decimal.Zero,
		IMOOverride:                decimal.Zero,
		IMOConversionOwed:          decimal.Zero,
		WholesalerOverride:         decimal.Zero,
		WholesalerConversionOwed:   decimal.Zero,
		Chargebacks:                decimal.Zero,
		BonusComp:                  decimal.Zero,
		TotalNetCashflow:           decimal.Zero,
		NetIndexCreditReimbursement: decimal.Zero,
		HedgeGains:                 decimal.Zero,
	}
}

// Result is the complete monthly cashflow vector for one policy cell.
type Result struct {
	PolicyID      uint32
	Cashflows     []*CashflowRow
	PVLiabilities decimal.Decimal
	PVPremiums    decimal.Decimal
}

// NewResult returns an empty Result for the given policy id.
func NewResult(policyID uint32) *Result {
	return &Result{
		PolicyID:      policyID,
		PVLiabilities: decimal.Zero,
		PVPremiums:    decimal.Zero,
	}
}

// AddRow appends a cashflow row.
func (r *Result) AddRow(row *CashflowRow) {
	r.Cashflows = append(r.Cashflows, row)
}

// Summary is a run's aggregate statistics, used by callers that don't
// need the full monthly detail.
type Summary struct {
	TotalMonths       uint32
	TotalPremium      decimal.Decimal
	TotalMortality    decimal.Decimal
	TotalLapse        decimal.Decimal
	TotalPWD          decimal.Decimal
	TotalRiderCharges decimal.Decimal
	TotalNetCF        decimal.Decimal
	FinalAV           decimal.Decimal
	FinalLives        decimal.Decimal
}

// Summary aggregates every monthly row into totals and final-state
// values.
func (r *Result) Summary() Summary {
	s := Summary{
		TotalMonths:       uint32(len(r.Cashflows)),
		TotalPremium:      decimal.Zero,
		TotalMortality:    decimal.Zero,
		TotalLapse:        decimal.Zero,
		TotalPWD:          decimal.Zero,
		TotalRiderCharges: decimal.Zero,
		TotalNetCF:        decimal.Zero,
		FinalAV:           decimal.Zero,
		FinalLives:        decimal.Zero,
	}
	for _, row := range r.Cashflows {
		s.TotalPremium = s.TotalPremium.Add(row.Premium)
		s.TotalMortality = s.TotalMortality.Add(row.MortalityCF)
		s.TotalLapse = s.TotalLapse.Add(row.LapseCF)
		s.TotalPWD = s.TotalPWD.Add(row.PWDCF)
		s.TotalRiderCharges = s.TotalRiderCharges.Add(row.RiderChargesCF)
		s.TotalNetCF = s.TotalNetCF.Add(row.TotalNetCashflow)
	}
	if len(r.Cashflows) > 0 {
		last := r.Cashflows[len(r.Cashflows)-1]
		s.FinalAV = last.EOPAV
		s.FinalLives = last.Lives
	}
	return s
}
