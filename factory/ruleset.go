/*
Package factory provides JSON to Go ruleset conversion.

PURPOSE:
  Converts JSON ruleset definitions into engine.Ruleset bundles. This
  enables statutory table revisions without code changes - a compliance
  officer can publish a new contribution schedule as JSON, and payroll
  runs pick it up per run.

WHY JSON?
  - Non-developers can revise tables when schedules change
  - Version control for statutory revisions
  - Database/API storage of ruleset bundles per payroll run

JSON SCHEMA:
  {
    "version": "ph-2025",
    "sss": [
      {"min_salary": 0, "max_salary": 5249.99, "msc": 5000,
       "employee_share": 250, "employer_share": 500},
      ...
    ],
    "philhealth": {"rate": 0.05, "salary_floor": 10000, "salary_ceiling": 100000},
    "pagibig": {"employee_rate": 0.02, "employer_rate": 0.02, "fund_salary_ceiling": 10000},
    "tax_brackets": [
      {"min_annual": 0, "max_annual": 250000, "base_tax": 0, "rate_on_excess": 0},
      ...
    ],
    "multipliers": {"rest_day": 1.3, "regular_holiday": 2.0, ...},
    "de_minimis_monthly_cap": 2500
  }

DEFAULTS:
  Omitted sections fall back to the current preset (statutory package), so
  a revision can override just the table that changed.

VALIDATION:
  - SSS and tax brackets must be present in ascending order
  - rates must be non-negative
  - only the LAST bracket may be open-ended (zero max)

SEE ALSO:
  - engine/ruleset.go: target types
  - statutory/tables.go: preset fallbacks
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type RulesetJSON struct {
	Version             string            `json:"version"`
	SSS                 []SSSBracketJSON  `json:"sss,omitempty"`
	PhilHealth          *PhilHealthJSON   `json:"philhealth,omitempty"`
	Pagibig             *PagibigJSON      `json:"pagibig,omitempty"`
	TaxBrackets         []TaxBracketJSON  `json:"tax_brackets,omitempty"`
	Multipliers         *MultipliersJSON  `json:"multipliers,omitempty"`
	DeMinimisMonthlyCap *float64          `json:"de_minimis_monthly_cap,omitempty"`
}

type SSSBracketJSON struct {
	MinSalary     float64 `json:"min_salary"`
	MaxSalary     float64 `json:"max_salary"` // zero on the last bracket = open-ended
	MSC           float64 `json:"msc"`
	EmployeeShare float64 `json:"employee_share"`
	EmployerShare float64 `json:"employer_share"`
}

type PhilHealthJSON struct {
	Rate          float64 `json:"rate"`
	SalaryFloor   float64 `json:"salary_floor"`
	SalaryCeiling float64 `json:"salary_ceiling"`
}

type PagibigJSON struct {
	EmployeeRate      float64 `json:"employee_rate"`
	EmployerRate      float64 `json:"employer_rate"`
	FundSalaryCeiling float64 `json:"fund_salary_ceiling"`
}

type TaxBracketJSON struct {
	MinAnnual    float64 `json:"min_annual"`
	MaxAnnual    float64 `json:"max_annual"` // zero on the last bracket = open-ended
	BaseTax      float64 `json:"base_tax"`
	RateOnExcess float64 `json:"rate_on_excess"`
}

type MultipliersJSON struct {
	RegularWorkingDay     float64 `json:"regular_working_day"`
	RestDay               float64 `json:"rest_day"`
	SpecialHoliday        float64 `json:"special_holiday"`
	RegularHoliday        float64 `json:"regular_holiday"`
	SpecialHolidayRestDay float64 `json:"special_holiday_rest_day"`
	RegularHolidayRestDay float64 `json:"regular_holiday_rest_day"`
	OTRegular             float64 `json:"ot_regular"`
	OTRestDay             float64 `json:"ot_rest_day"`
	OTSpecialHoliday      float64 `json:"ot_special_holiday"`
	OTRegularHoliday      float64 `json:"ot_regular_holiday"`
}

// =============================================================================
// FACTORY
// =============================================================================

// RulesetFactory parses JSON ruleset bundles.
type RulesetFactory struct{}

// NewRulesetFactory creates a ruleset factory.
func NewRulesetFactory() *RulesetFactory { return &RulesetFactory{} }

// ParseRuleset converts a JSON document into a validated engine.Ruleset.
// Omitted sections fall back to the current preset.
func (f *RulesetFactory) ParseRuleset(jsonStr string) (engine.Ruleset, error) {
	var doc RulesetJSON
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return engine.Ruleset{}, fmt.Errorf("invalid ruleset JSON: %w", err)
	}
	return f.FromJSON(doc)
}

// FromJSON converts an already-decoded document.
func (f *RulesetFactory) FromJSON(doc RulesetJSON) (engine.Ruleset, error) {
	base := statutory.DefaultRuleset()
	rs := engine.Ruleset{
		Version:             doc.Version,
		SSS:                 base.SSS,
		PhilHealth:          base.PhilHealth,
		Pagibig:             base.Pagibig,
		TaxBrackets:         base.TaxBrackets,
		Multipliers:         base.Multipliers,
		DeMinimisMonthlyCap: base.DeMinimisMonthlyCap,
	}
	if rs.Version == "" {
		rs.Version = base.Version
	}

	if len(doc.SSS) > 0 {
		brackets, err := f.sssBrackets(doc.SSS)
		if err != nil {
			return engine.Ruleset{}, err
		}
		rs.SSS = brackets
	}
	if doc.PhilHealth != nil {
		if doc.PhilHealth.Rate < 0 {
			return engine.Ruleset{}, fmt.Errorf("philhealth: negative rate")
		}
		rs.PhilHealth = engine.PhilHealthTable{
			Rate:          decimal.NewFromFloat(doc.PhilHealth.Rate),
			SalaryFloor:   decimal.NewFromFloat(doc.PhilHealth.SalaryFloor),
			SalaryCeiling: decimal.NewFromFloat(doc.PhilHealth.SalaryCeiling),
		}
	}
	if doc.Pagibig != nil {
		if doc.Pagibig.EmployeeRate < 0 || doc.Pagibig.EmployerRate < 0 {
			return engine.Ruleset{}, fmt.Errorf("pagibig: negative rate")
		}
		rs.Pagibig = engine.PagibigTable{
			EmployeeRate:      decimal.NewFromFloat(doc.Pagibig.EmployeeRate),
			EmployerRate:      decimal.NewFromFloat(doc.Pagibig.EmployerRate),
			FundSalaryCeiling: decimal.NewFromFloat(doc.Pagibig.FundSalaryCeiling),
		}
	}
	if len(doc.TaxBrackets) > 0 {
		brackets, err := f.taxBrackets(doc.TaxBrackets)
		if err != nil {
			return engine.Ruleset{}, err
		}
		rs.TaxBrackets = brackets
	}
	if doc.Multipliers != nil {
		rs.Multipliers = multipliersFromJSON(*doc.Multipliers)
	}
	if doc.DeMinimisMonthlyCap != nil {
		rs.DeMinimisMonthlyCap = decimal.NewFromFloat(*doc.DeMinimisMonthlyCap)
	}

	return rs, nil
}

func (f *RulesetFactory) sssBrackets(rows []SSSBracketJSON) ([]engine.SSSBracket, error) {
	out := make([]engine.SSSBracket, 0, len(rows))
	for i, row := range rows {
		if row.EmployeeShare < 0 || row.EmployerShare < 0 {
			return nil, fmt.Errorf("sss bracket %d: negative share", i)
		}
		if row.MaxSalary == 0 && i != len(rows)-1 {
			return nil, fmt.Errorf("sss bracket %d: only the last bracket may be open-ended", i)
		}
		if i > 0 && row.MinSalary < rows[i-1].MinSalary {
			return nil, fmt.Errorf("sss bracket %d: brackets must ascend", i)
		}
		out = append(out, engine.SSSBracket{
			MinSalary:     decimal.NewFromFloat(row.MinSalary),
			MaxSalary:     decimal.NewFromFloat(row.MaxSalary),
			MSC:           decimal.NewFromFloat(row.MSC),
			EmployeeShare: decimal.NewFromFloat(row.EmployeeShare),
			EmployerShare: decimal.NewFromFloat(row.EmployerShare),
		})
	}
	return out, nil
}

func (f *RulesetFactory) taxBrackets(rows []TaxBracketJSON) ([]engine.TaxBracket, error) {
	out := make([]engine.TaxBracket, 0, len(rows))
	for i, row := range rows {
		if row.RateOnExcess < 0 || row.RateOnExcess > 1 {
			return nil, fmt.Errorf("tax bracket %d: rate must be in [0,1]", i)
		}
		if row.MaxAnnual == 0 && i != len(rows)-1 {
			return nil, fmt.Errorf("tax bracket %d: only the last bracket may be open-ended", i)
		}
		if i > 0 && row.MinAnnual != rows[i-1].MaxAnnual {
			return nil, fmt.Errorf("tax bracket %d: brackets must be contiguous", i)
		}
		out = append(out, engine.TaxBracket{
			MinAnnual:    decimal.NewFromFloat(row.MinAnnual),
			MaxAnnual:    decimal.NewFromFloat(row.MaxAnnual),
			BaseTax:      decimal.NewFromFloat(row.BaseTax),
			RateOnExcess: decimal.NewFromFloat(row.RateOnExcess),
		})
	}
	return out, nil
}

func multipliersFromJSON(m MultipliersJSON) engine.MultiplierTable {
	base := statutory.DefaultMultipliers()
	set := func(target *decimal.Decimal, v float64) {
		if v > 0 {
			*target = decimal.NewFromFloat(v)
		}
	}
	set(&base.RegularWorkingDay, m.RegularWorkingDay)
	set(&base.RestDay, m.RestDay)
	set(&base.SpecialHoliday, m.SpecialHoliday)
	set(&base.RegularHoliday, m.RegularHoliday)
	set(&base.SpecialHolidayRestDay, m.SpecialHolidayRestDay)
	set(&base.RegularHolidayRestDay, m.RegularHolidayRestDay)
	set(&base.OTRegular, m.OTRegular)
	set(&base.OTRestDay, m.OTRestDay)
	set(&base.OTSpecialHoliday, m.OTSpecialHoliday)
	set(&base.OTRegularHoliday, m.OTRegularHoliday)
	return base
}
