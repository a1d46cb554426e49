package assumptions

import (
	"math"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/shopspring/decimal"
)

// rmdAgeRate pairs an attained age with its RMD distribution rate.
type rmdAgeRate struct {
	age  uint8
	rate float64
}

// RMDTable is the IRS Required Minimum Distribution rate schedule by
// attained age, starting at age 73.
type RMDTable struct {
	rates []rmdAgeRate
}

// DefaultRMDTable reproduces the Non-systematic PWDs sheet's distribution
// periods and rates.
func DefaultRMDTable() RMDTable {
	return RMDTable{rates: []rmdAgeRate{
		{73, 0.0377358490566038}, {74, 0.0392156862745098}, {75, 0.0406504065040650},
		{76, 0.0421940928270042}, {77, 0.0436681222707424}, {78, 0.0454545454545455},
		{79, 0.0473933649289099}, {80, 0.0495049504950495}, {81, 0.0515463917525773},
		{82, 0.0540540540540541}, {83, 0.0564971751412429}, {84, 0.0595238095238095},
		{85, 0.0625}, {86, 0.0657894736842105}, {87, 0.0694444444444444},
		{88, 0.0729927007299270}, {89, 0.0775193798449612}, {90, 0.0819672131147541},
		{91, 0.0869565217391304}, {92, 0.0925925925925926}, {93, 0.0990099009900990},
		{94, 0.1052631578947368}, {95, 0.1123595505617978}, {96, 0.1190476190476190},
		{97, 0.1265822784810127}, {98, 0.1351351351351351}, {99, 0.1449275362318841},
		{100, 0.1562500000000000},
	}}
}

// GetRate returns the RMD rate for the given attained age: 0 below age 73,
// the table's last rate beyond age 100.
func (t RMDTable) GetRate(attainedAge uint8) float64 {
	if attainedAge < 73 {
		return 0.0
	}
	for _, r := range t.rates {
		if r.age == attainedAge {
			return r.rate
		}
	}
	if len(t.rates) == 0 {
		return 0.2
	}
	return t.rates[len(t.rates)-1].rate
}

// GetRateIfQualified applies the RMD rate only to qualified contracts;
// non-qualified money has no RMD requirement.
func (t RMDTable) GetRateIfQualified(attainedAge uint8, qual policy.QualStatus) float64 {
	if qual == policy.QualStatusQualified {
		return t.GetRate(attainedAge)
	}
	return 0.0
}

// FreeWithdrawalUtilization is the policy-year schedule of how much of the
// free-withdrawal amount policyholders actually take, before income
// activation.
type FreeWithdrawalUtilization struct {
	rates []float64
}

// DefaultFreeWithdrawalUtilization reproduces the Non-systematic PWDs
// sheet's 10/20/30/40% ramp.
func DefaultFreeWithdrawalUtilization() FreeWithdrawalUtilization {
	return FreeWithdrawalUtilization{rates: []float64{0.1, 0.2, 0.3, 0.4}}
}

// GetRate returns the utilization rate for the given 1-indexed policy
// year, holding the last tabulated rate beyond the table's length.
func (u FreeWithdrawalUtilization) GetRate(policyYear uint32) float64 {
	idx := int(policyYear) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(u.rates) {
		if len(u.rates) == 0 {
			return 0.4
		}
		return u.rates[len(u.rates)-1]
	}
	return u.rates[idx]
}

// PWDAssumptions combines the RMD table, free-withdrawal utilization
// ramp, and base free-withdrawal percentage into the non-systematic
// partial-withdrawal model.
type PWDAssumptions struct {
	RMD             RMDTable
	FreeUtilization FreeWithdrawalUtilization
	FreePct         float64
}

// DefaultPWDAssumptions is the 5%-free-withdrawal default.
func DefaultPWDAssumptions() PWDAssumptions {
	return PWDAssumptions{
		RMD:             DefaultRMDTable(),
		FreeUtilization: DefaultFreeWithdrawalUtilization(),
		FreePct:         0.05,
	}
}

// FPWPercent is the Free Partial Withdrawal percentage: 0 in policy year
// 1; for qualified contracts the greater of the base free percentage and
// the RMD rate; for non-qualified, the base free percentage.
func (p PWDAssumptions) FPWPercent(policyYear uint32, attainedAge uint8, qual policy.QualStatus) float64 {
	if policyYear == 1 {
		return 0.0
	}
	if qual == policy.QualStatusQualified {
		return math.Max(p.FreePct, p.RMD.GetRate(attainedAge))
	}
	return p.FreePct
}

// AnnualRate is the annual non-systematic PWD rate as a fraction of AV:
// zero once income is activated, otherwise the free percentage times its
// utilization for the policy year.
func (p PWDAssumptions) AnnualRate(policyYear uint32, attainedAge uint8, qual policy.QualStatus, incomeActivated bool) float64 {
	if incomeActivated {
		return 0.0
	}
	freeRate := p.FPWPercent(policyYear, attainedAge, qual)
	utilization := p.FreeUtilization.GetRate(policyYear)
	return freeRate * utilization
}

// MonthlyRateAdjusted converts the annual PWD rate to a monthly rate via
// 1-(1-annual)^(1/12), forcing zero for the entirety of policy year 1.
func (p PWDAssumptions) MonthlyRateAdjusted(policyYear uint32, attainedAge uint8, qual policy.QualStatus, incomeActivated bool) decimal.Decimal {
	if policyYear == 1 {
		return decimal.Zero
	}
	annual := p.AnnualRate(policyYear, attainedAge, qual, incomeActivated)
	monthly := 1.0 - math.Pow(1.0-annual, 1.0/12.0)
	return decimal.NewFromFloat(monthly)
}
