/*
Package statutory provides pre-built Philippine statutory rulesets.

PURPOSE:
  Ready-to-use Ruleset bundles for the engine: the current SSS contribution
  schedule, PhilHealth premium rates, Pag-IBIG (HDMF) rates, TRAIN-law
  withholding brackets, and the DOLE premium multipliers. These are
  convenience presets; payroll runs may supply any other revision via the
  factory package.

AVAILABLE RULESETS:
  DefaultRuleset: the 2025 schedules (SSS 15% on MSC 5,000-35,000,
                  Pag-IBIG fund salary ceiling 10,000)
  Ruleset2024:    the 2024 schedules (SSS 14% on MSC 4,000-30,000,
                  Pag-IBIG fund salary ceiling 5,000)

TABLE NOTES:
  - SSS brackets are generated: MSC steps of 500 with salary bands of
    [MSC-250, MSC+249.99], open-ended at both extremes. Shares are fixed
    per bracket (employee and employer percentages of the MSC).
  - PhilHealth: one premium rate against the monthly basic clamped to a
    floor and ceiling, split equally between employee and employer.
  - TRAIN brackets are ANNUAL income brackets with base tax + rate on the
    excess over the bracket floor.

CUSTOMIZATION:
  Presets are starting points. Real deployments often need:
  - A company-specific de minimis ceiling
  - Mid-year schedule changes (run different periods on different rulesets)
  - Special multiplier agreements above the statutory floor

SEE ALSO:
  - engine/ruleset.go: table type definitions
  - factory/ruleset.go: JSON-based ruleset creation
*/
package statutory

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// DEFAULT (2025) RULESET
// =============================================================================

// DefaultRuleset returns the 2025 Philippine statutory tables.
func DefaultRuleset() engine.Ruleset {
	return engine.Ruleset{
		Version: "ph-2025",
		SSS: sssBrackets(
			decimal.NewFromInt(5000), decimal.NewFromInt(35000),
			decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.10),
		),
		PhilHealth: engine.PhilHealthTable{
			Rate:          decimal.NewFromFloat(0.05),
			SalaryFloor:   decimal.NewFromInt(10000),
			SalaryCeiling: decimal.NewFromInt(100000),
		},
		Pagibig: engine.PagibigTable{
			EmployeeRate:      decimal.NewFromFloat(0.02),
			EmployerRate:      decimal.NewFromFloat(0.02),
			FundSalaryCeiling: decimal.NewFromInt(10000),
		},
		TaxBrackets:         trainBrackets(),
		Multipliers:         DefaultMultipliers(),
		DeMinimisMonthlyCap: decimal.NewFromInt(2500),
	}
}

// Ruleset2024 returns the 2024 schedules, kept for recomputing historical
// periods.
func Ruleset2024() engine.Ruleset {
	return engine.Ruleset{
		Version: "ph-2024",
		SSS: sssBrackets(
			decimal.NewFromInt(4000), decimal.NewFromInt(30000),
			decimal.NewFromFloat(0.045), decimal.NewFromFloat(0.095),
		),
		PhilHealth: engine.PhilHealthTable{
			Rate:          decimal.NewFromFloat(0.05),
			SalaryFloor:   decimal.NewFromInt(10000),
			SalaryCeiling: decimal.NewFromInt(100000),
		},
		Pagibig: engine.PagibigTable{
			EmployeeRate:      decimal.NewFromFloat(0.02),
			EmployerRate:      decimal.NewFromFloat(0.02),
			FundSalaryCeiling: decimal.NewFromInt(5000),
		},
		TaxBrackets:         trainBrackets(),
		Multipliers:         DefaultMultipliers(),
		DeMinimisMonthlyCap: decimal.NewFromInt(2500),
	}
}

// DefaultMultipliers returns the DOLE premium and overtime multipliers.
func DefaultMultipliers() engine.MultiplierTable {
	return engine.MultiplierTable{
		RegularWorkingDay:     decimal.NewFromFloat(1.00),
		RestDay:               decimal.NewFromFloat(1.30),
		SpecialHoliday:        decimal.NewFromFloat(1.30),
		RegularHoliday:        decimal.NewFromFloat(2.00),
		SpecialHolidayRestDay: decimal.NewFromFloat(1.50),
		RegularHolidayRestDay: decimal.NewFromFloat(2.60),

		OTRegular:        decimal.NewFromFloat(1.25),
		OTRestDay:        decimal.NewFromFloat(1.69), // 130% x 130%
		OTSpecialHoliday: decimal.NewFromFloat(1.69),
		OTRegularHoliday: decimal.NewFromFloat(2.60), // 200% x 130%
	}
}

// =============================================================================
// TABLE GENERATION
// =============================================================================

var (
	step     = decimal.NewFromInt(500)
	halfStep = decimal.NewFromInt(250)
	bandTop  = decimal.NewFromFloat(249.99)
)

// sssBrackets generates the SSS schedule between the minimum and maximum
// MSC. The first band is open at the bottom, the last at the top.
func sssBrackets(minMSC, maxMSC, employeeRate, employerRate decimal.Decimal) []engine.SSSBracket {
	var brackets []engine.SSSBracket
	for msc := minMSC; msc.LessThanOrEqual(maxMSC); msc = msc.Add(step) {
		b := engine.SSSBracket{
			MSC:           msc,
			MinSalary:     msc.Sub(halfStep),
			MaxSalary:     msc.Add(bandTop),
			EmployeeShare: msc.Mul(employeeRate).Round(2),
			EmployerShare: msc.Mul(employerRate).Round(2),
		}
		if msc.Equal(minMSC) {
			b.MinSalary = decimal.Zero
		}
		if msc.Equal(maxMSC) {
			b.MaxSalary = decimal.Zero // open-ended
		}
		brackets = append(brackets, b)
	}
	return brackets
}

// trainBrackets returns the TRAIN-law graduated annual brackets effective
// January 2023 onward.
func trainBrackets() []engine.TaxBracket {
	row := func(min, max, base int64, rate float64) engine.TaxBracket {
		return engine.TaxBracket{
			MinAnnual:    decimal.NewFromInt(min),
			MaxAnnual:    decimal.NewFromInt(max),
			BaseTax:      decimal.NewFromInt(base),
			RateOnExcess: decimal.NewFromFloat(rate),
		}
	}
	return []engine.TaxBracket{
		row(0, 250_000, 0, 0),
		row(250_000, 400_000, 0, 0.15),
		row(400_000, 800_000, 22_500, 0.20),
		row(800_000, 2_000_000, 102_500, 0.25),
		row(2_000_000, 8_000_000, 402_500, 0.30),
		row(8_000_000, 0, 2_202_500, 0.35),
	}
}
