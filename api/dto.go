/*
dto.go - Request/response data structures for the payroll API

PURPOSE:
  JSON contracts at the HTTP boundary, plus the conversions between DTOs
  and engine inputs/outputs. Money comes IN as JSON numbers and goes OUT
  as 2-decimal strings so clients never see float artifacts.

SEE ALSO:
  - handlers.go: usage
  - engine/types.go: the target structures
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
)

// =============================================================================
// REQUEST DTOs
// =============================================================================

type ProfileDTO struct {
	WageType         string  `json:"wage_type"` // MONTHLY | DAILY | HOURLY
	BaseRate         float64 `json:"base_rate"`
	WorkDaysPerMonth float64 `json:"work_days_per_month,omitempty"` // default 26
	HoursPerDay      float64 `json:"hours_per_day,omitempty"`       // default 8

	OvertimeEligible  bool `json:"overtime_eligible"`
	NightDiffEligible bool `json:"night_diff_eligible"`
	BenefitsEligible  bool `json:"benefits_eligible"`

	DeMinimisAllowance float64 `json:"de_minimis_allowance,omitempty"`
	OtherAllowance     float64 `json:"other_allowance,omitempty"`
}

type PeriodDTO struct {
	Start        string `json:"start"` // 2006-01-02
	End          string `json:"end"`
	Cutoff       string `json:"cutoff,omitempty"`
	PayDate      string `json:"pay_date,omitempty"`
	PeriodNumber int    `json:"period_number"`
	Frequency    string `json:"frequency"` // MONTHLY | SEMI_MONTHLY | WEEKLY
}

type ShiftDTO struct {
	Start        string `json:"start"` // wall-clock "09:00"
	End          string `json:"end"`
	BreakMinutes int    `json:"break_minutes,omitempty"`
}

// DayDTO carries one attendance day. Either pre-aggregated minute fields
// or raw clock timestamps may be supplied; when clocks and a shift are
// present the server derives the minute buckets.
type DayDTO struct {
	Date    string `json:"date"`
	DayType string `json:"day_type,omitempty"` // empty = resolve from calendar

	WorkedMinutes    int `json:"worked_minutes,omitempty"`
	LateMinutes      int `json:"late_minutes,omitempty"`
	UndertimeMinutes int `json:"undertime_minutes,omitempty"`
	AbsentMinutes    int `json:"absent_minutes,omitempty"`

	EarlyInOTMinutes int  `json:"early_in_ot_minutes,omitempty"`
	LateOutOTMinutes int  `json:"late_out_ot_minutes,omitempty"`
	BreakOTMinutes   int  `json:"break_ot_minutes,omitempty"`
	EarlyInApproved  bool `json:"early_in_approved,omitempty"`
	LateOutApproved  bool `json:"late_out_approved,omitempty"`

	RestDayOTMinutes int `json:"rest_day_ot_minutes,omitempty"`
	HolidayOTMinutes int `json:"holiday_ot_minutes,omitempty"`
	NightDiffMinutes int `json:"night_diff_minutes,omitempty"`

	DailyRateOverride *float64 `json:"daily_rate_override,omitempty"`
	IsPaidLeave       bool     `json:"is_paid_leave,omitempty"`

	// Raw attendance capture (optional).
	Shift               *ShiftDTO `json:"shift,omitempty"`
	ClockIn             *string   `json:"clock_in,omitempty"` // RFC3339
	ClockOut            *string   `json:"clock_out,omitempty"`
	BreakMinutesApplied *int      `json:"break_minutes_applied,omitempty"`
}

type RegularizationDTO struct {
	EmploymentType     string  `json:"employment_type"` // REGULAR | PROBATIONARY | CONTRACTUAL
	RegularizationDate *string `json:"regularization_date,omitempty"`
}

type AdjustmentDTO struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	IsDeduction bool    `json:"is_deduction,omitempty"`
}

type PenaltyDTO struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type YTDDTO struct {
	Gross         float64 `json:"gross,omitempty"`
	TaxableIncome float64 `json:"taxable_income,omitempty"`
	TaxWithheld   float64 `json:"tax_withheld,omitempty"`
	SSSEmployee   float64 `json:"sss_ee,omitempty"`
	PhilHealthEE  float64 `json:"philhealth_ee,omitempty"`
	PagibigEE     float64 `json:"pagibig_ee,omitempty"`
	NetPay        float64 `json:"net_pay,omitempty"`
}

type HolidayDTO struct {
	Date string `json:"date"`
	Type string `json:"type"` // REGULAR | SPECIAL
	Name string `json:"name,omitempty"`
}

type EmployeeDTO struct {
	EmployeeID        string            `json:"employee_id"`
	Profile           ProfileDTO        `json:"profile"`
	Days              []DayDTO          `json:"days"`
	Regularization    RegularizationDTO `json:"regularization"`
	Adjustments       []AdjustmentDTO   `json:"adjustments,omitempty"`
	Penalties         []PenaltyDTO      `json:"penalties,omitempty"`
	StatutoryOverride *float64          `json:"statutory_override,omitempty"`
	TaxOnFullEarnings bool              `json:"tax_on_full_earnings,omitempty"`
	PreviousYTD       YTDDTO            `json:"previous_ytd,omitempty"`
}

type ComputePayslipRequest struct {
	Employee EmployeeDTO          `json:"employee"`
	Period   PeriodDTO            `json:"period"`
	Holidays []HolidayDTO         `json:"holidays,omitempty"`
	RestDays []int                `json:"rest_days,omitempty"` // time.Weekday values
	Ruleset  *factory.RulesetJSON `json:"ruleset,omitempty"`
}

type ComputeRunRequest struct {
	Employees []EmployeeDTO        `json:"employees"`
	Period    PeriodDTO            `json:"period"`
	Holidays  []HolidayDTO         `json:"holidays,omitempty"`
	RestDays  []int                `json:"rest_days,omitempty"`
	Ruleset   *factory.RulesetJSON `json:"ruleset,omitempty"`
}

// =============================================================================
// RESPONSE DTOs
// =============================================================================

type LineDTO struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Quantity    *string `json:"quantity,omitempty"`
	Rate        *string `json:"rate,omitempty"`
	Multiplier  *string `json:"multiplier,omitempty"`
	Amount      string  `json:"amount"`
	SortOrder   int     `json:"sort_order"`
	RuleCode    string  `json:"rule_code"`
}

type StatutoryDTO struct {
	SSSEmployee        string `json:"sss_ee"`
	SSSEmployer        string `json:"sss_er"`
	PhilHealthEmployee string `json:"philhealth_ee"`
	PhilHealthEmployer string `json:"philhealth_er"`
	PagibigEmployee    string `json:"pagibig_ee"`
	PagibigEmployer    string `json:"pagibig_er"`
	WithholdingTax     string `json:"withholding_tax"`
}

type YTDOutDTO struct {
	Gross         string `json:"gross"`
	TaxableIncome string `json:"taxable_income"`
	TaxWithheld   string `json:"tax_withheld"`
	SSSEmployee   string `json:"sss_ee"`
	PhilHealthEE  string `json:"philhealth_ee"`
	PagibigEE     string `json:"pagibig_ee"`
	NetPay        string `json:"net_pay"`
}

type PayslipDTO struct {
	ID              string       `json:"id,omitempty"`
	EmployeeID      string       `json:"employee_id"`
	Lines           []LineDTO    `json:"lines"`
	GrossPay        string       `json:"gross_pay"`
	TotalEarnings   string       `json:"total_earnings"`
	TotalDeductions string       `json:"total_deductions"`
	NetPay          string       `json:"net_pay"`
	Statutory       StatutoryDTO `json:"statutory"`
	YTD             YTDOutDTO    `json:"ytd"`
}

type RunDTO struct {
	ID              string       `json:"id"`
	PeriodStart     string       `json:"period_start"`
	PeriodEnd       string       `json:"period_end"`
	RulesetVersion  string       `json:"ruleset_version"`
	EmployeeCount   int          `json:"employee_count"`
	FailedCount     int          `json:"failed_count"`
	TotalEarnings   string       `json:"total_earnings"`
	TotalDeductions string       `json:"total_deductions"`
	TotalNet        string       `json:"total_net"`
	Errors          []string     `json:"errors,omitempty"`
	Payslips        []PayslipDTO `json:"payslips,omitempty"`
	CreatedAt       string       `json:"created_at,omitempty"`
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ErrorDTO struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DTO -> ENGINE CONVERSIONS
// =============================================================================

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func (p ProfileDTO) toEngine() engine.PayProfile {
	workDays := p.WorkDaysPerMonth
	if workDays == 0 {
		workDays = 26
	}
	hours := p.HoursPerDay
	if hours == 0 {
		hours = 8
	}
	return engine.PayProfile{
		WageType:           engine.WageType(p.WageType),
		BaseRate:           decimal.NewFromFloat(p.BaseRate),
		WorkDaysPerMonth:   decimal.NewFromFloat(workDays),
		HoursPerDay:        decimal.NewFromFloat(hours),
		OvertimeEligible:   p.OvertimeEligible,
		NightDiffEligible:  p.NightDiffEligible,
		BenefitsEligible:   p.BenefitsEligible,
		DeMinimisAllowance: decimal.NewFromFloat(p.DeMinimisAllowance),
		OtherAllowance:     decimal.NewFromFloat(p.OtherAllowance),
	}
}

func (p PeriodDTO) toEngine() (engine.PayPeriod, error) {
	start, err := parseDate(p.Start)
	if err != nil {
		return engine.PayPeriod{}, fmt.Errorf("period start: %w", err)
	}
	end, err := parseDate(p.End)
	if err != nil {
		return engine.PayPeriod{}, fmt.Errorf("period end: %w", err)
	}
	cutoff, err := parseDate(p.Cutoff)
	if err != nil {
		return engine.PayPeriod{}, fmt.Errorf("period cutoff: %w", err)
	}
	payDate, err := parseDate(p.PayDate)
	if err != nil {
		return engine.PayPeriod{}, fmt.Errorf("period pay date: %w", err)
	}

	frequency := engine.PayFrequency(p.Frequency)
	if frequency == "" {
		frequency = engine.FrequencySemiMonthly
	}
	periodNumber := p.PeriodNumber
	if periodNumber < 1 {
		periodNumber = 1
	}
	return engine.PayPeriod{
		Start:        start,
		End:          end,
		Cutoff:       cutoff,
		PayDate:      payDate,
		PeriodNumber: periodNumber,
		Frequency:    frequency,
	}, nil
}

func (r RegularizationDTO) toEngine() (engine.Regularization, error) {
	reg := engine.Regularization{EmploymentType: engine.EmploymentType(r.EmploymentType)}
	if r.RegularizationDate != nil {
		d, err := parseDate(*r.RegularizationDate)
		if err != nil {
			return reg, fmt.Errorf("regularization date: %w", err)
		}
		reg.RegularizationDate = &d
	}
	return reg, nil
}

func (y YTDDTO) toEngine() engine.YearToDate {
	return engine.YearToDate{
		Gross:         decimal.NewFromFloat(y.Gross),
		TaxableIncome: decimal.NewFromFloat(y.TaxableIncome),
		TaxWithheld:   decimal.NewFromFloat(y.TaxWithheld),
		SSSEmployee:   decimal.NewFromFloat(y.SSSEmployee),
		PhilHealthEE:  decimal.NewFromFloat(y.PhilHealthEE),
		PagibigEE:     decimal.NewFromFloat(y.PagibigEE),
		NetPay:        decimal.NewFromFloat(y.NetPay),
	}
}

// =============================================================================
// ENGINE -> DTO CONVERSIONS
// =============================================================================

func fixed2(d decimal.Decimal) string { return d.StringFixed(2) }

func optString(d *decimal.Decimal, places int32) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(places)
	return &s
}

func payslipToDTO(p *engine.ComputedPayslip) PayslipDTO {
	lines := make([]LineDTO, len(p.Lines))
	for i, line := range p.Lines {
		lines[i] = LineDTO{
			Category:    string(line.Category),
			Description: line.Description,
			Quantity:    optString(line.Quantity, 0),
			Rate:        optString(line.Rate, 2),
			Multiplier:  optString(line.Multiplier, 2),
			Amount:      fixed2(line.Amount),
			SortOrder:   line.SortOrder,
			RuleCode:    line.RuleCode,
		}
	}
	return PayslipDTO{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		Lines:           lines,
		GrossPay:        fixed2(p.GrossPay),
		TotalEarnings:   fixed2(p.TotalEarnings),
		TotalDeductions: fixed2(p.TotalDeductions),
		NetPay:          fixed2(p.NetPay),
		Statutory: StatutoryDTO{
			SSSEmployee:        fixed2(p.Statutory.SSSEmployee),
			SSSEmployer:        fixed2(p.Statutory.SSSEmployer),
			PhilHealthEmployee: fixed2(p.Statutory.PhilHealthEmployee),
			PhilHealthEmployer: fixed2(p.Statutory.PhilHealthEmployer),
			PagibigEmployee:    fixed2(p.Statutory.PagibigEmployee),
			PagibigEmployer:    fixed2(p.Statutory.PagibigEmployer),
			WithholdingTax:     fixed2(p.Statutory.WithholdingTax),
		},
		YTD: YTDOutDTO{
			Gross:         fixed2(p.YTD.Gross),
			TaxableIncome: fixed2(p.YTD.TaxableIncome),
			TaxWithheld:   fixed2(p.YTD.TaxWithheld),
			SSSEmployee:   fixed2(p.YTD.SSSEmployee),
			PhilHealthEE:  fixed2(p.YTD.PhilHealthEE),
			PagibigEE:     fixed2(p.YTD.PagibigEE),
			NetPay:        fixed2(p.YTD.NetPay),
		},
	}
}
