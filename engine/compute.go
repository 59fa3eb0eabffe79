/*
compute.go - Per-employee orchestration and batch payroll runs

PURPOSE:
  ComputePayslip runs the full pipeline for one employee in a strict,
  fixed order; ComputePayroll repeats it across a batch, concurrently, with
  per-employee error attribution.

ORCHESTRATION ORDER (fixed; downstream amounts depend on upstream ones):
  derive rates -> basic pay (grouped by effective day rate) -> late /
  undertime -> absences -> overtime -> night differential -> holiday and
  rest-day premiums -> allowances -> manual adjustments -> penalties ->
  statutory contributions (if eligible) -> withholding tax (if eligible) ->
  sort lines -> totals -> net pay -> YTD roll-forward.

DETERMINISM:
  The computation is pure: no I/O, no clocks, no shared mutable state.
  Identical inputs always produce byte-identical lines and totals. Batch
  results are collected in input order regardless of which worker finishes
  first.

FAILURE ISOLATION:
  A failing employee (unknown wage type, bad schedule string) becomes an
  EmployeeError in the run result; the rest of the batch is unaffected.
  Worker panics are recovered into the same error channel.

SEE ALSO:
  - lines.go: the generation rules called here
  - statutory.go / tax.go: contribution and withholding steps
*/
package engine

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// ComputeEngine orchestrates payslip computation against one ruleset
// revision. Safe for concurrent use; it holds no mutable state.
type ComputeEngine struct {
	Ruleset Ruleset

	// Workers bounds batch concurrency. Zero means GOMAXPROCS.
	Workers int
}

// New builds an engine over a ruleset.
func New(ruleset Ruleset) *ComputeEngine {
	return &ComputeEngine{Ruleset: ruleset}
}

// =============================================================================
// EMPLOYEE INPUT
// =============================================================================

// EmployeeInput is the complete per-employee input contract.
type EmployeeInput struct {
	EmployeeID string
	Profile    PayProfile
	Days       []AttendanceDayInput

	Regularization Regularization
	Adjustments    []ManualAdjustment
	Penalties      []PenaltyDeduction

	// StatutoryOverride, when positive, replaces the contribution base
	// with an MSC-equivalent of this daily wage.
	StatutoryOverride *decimal.Decimal

	// TaxOnFullEarnings opts into the full-earnings taxable base.
	TaxOnFullEarnings bool

	// PreviousYTD is the explicit year-to-date carry-forward.
	PreviousYTD YearToDate
}

// =============================================================================
// SINGLE PAYSLIP
// =============================================================================

// ComputePayslip computes one employee's payslip for the period.
func (e *ComputeEngine) ComputePayslip(in EmployeeInput, period PayPeriod) (*ComputedPayslip, error) {
	standard, err := CalculateDerivedRates(in.Profile)
	if err != nil {
		return nil, err
	}

	gen := NewLineGenerator(in.Profile, standard, e.Ruleset.Multipliers)
	periodsPerMonth := period.Frequency.PeriodsPerMonth()

	var lines []PayslipLine
	appendLine := func(line PayslipLine, ok bool) {
		if ok {
			lines = append(lines, line)
		}
	}

	lines = append(lines, gen.BasicPayLines(in.Days)...)
	appendLine(gen.LateUndertimeLine(in.Days))
	appendLine(gen.AbsentLine(in.Days))
	lines = append(lines, gen.OvertimeLines(in.Days)...)
	appendLine(gen.NightDiffLine(in.Days))
	lines = append(lines, gen.HolidayLines(in.Days)...)
	appendLine(gen.RestDayLine(in.Days))
	lines = append(lines, gen.AllowanceLines(periodsPerMonth)...)
	lines = append(lines, gen.AdjustmentLines(in.Adjustments)...)
	lines = append(lines, gen.PenaltyLines(in.Penalties)...)

	// Statutory contributions and withholding run only for affirmatively
	// eligible employees; everyone else gets zero, never an error.
	var breakdown StatutoryBreakdown
	var taxable decimal.Decimal
	if IsEligibleForStatutory(in.Regularization, period, in.Profile.BenefitsEligible) {
		statLines, sb, taxBase, err := e.statutoryLines(in, standard, lines, periodsPerMonth, period)
		if err != nil {
			return nil, err
		}
		lines = append(lines, statLines...)
		breakdown = sb
		taxable = taxBase
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].SortOrder < lines[j].SortOrder })

	earnings, deductions := sumTotals(lines)
	net := earnings.Sub(deductions)

	payslip := &ComputedPayslip{
		EmployeeID:      in.EmployeeID,
		Period:          period,
		Lines:           lines,
		GrossPay:        earnings,
		TotalEarnings:   earnings,
		TotalDeductions: deductions,
		NetPay:          net,
		Statutory:       breakdown,
		ProfileSnapshot: in.Profile,
	}
	payslip.YTD = rollForward(in.PreviousYTD, payslip, taxable)
	return payslip, nil
}

// statutoryLines computes contributions and withholding from the earning
// lines generated so far. Returns the statutory lines, the breakdown, and
// the period's taxable base (for the YTD roll-forward).
func (e *ComputeEngine) statutoryLines(
	in EmployeeInput,
	standard DerivedRates,
	earned []PayslipLine,
	periodsPerMonth decimal.Decimal,
	period PayPeriod,
) ([]PayslipLine, StatutoryBreakdown, decimal.Decimal, error) {

	calc := &StatutoryCalculator{Ruleset: e.Ruleset}
	monthlyGross := StatutoryBase(standard, in.StatutoryOverride)

	sss, err := calc.SSS(monthlyGross, periodsPerMonth)
	if err != nil {
		return nil, StatutoryBreakdown{}, decimal.Zero, err
	}
	philhealth := calc.PhilHealth(monthlyGross, periodsPerMonth)
	pagibig := calc.Pagibig(monthlyGross, periodsPerMonth)

	breakdown := StatutoryBreakdown{
		SSSEmployee:        sss.Employee,
		SSSEmployer:        sss.Employer,
		PhilHealthEmployee: philhealth.Employee,
		PhilHealthEmployer: philhealth.Employer,
		PagibigEmployee:    pagibig.Employee,
		PagibigEmployer:    pagibig.Employer,
	}

	mode := TaxBasicPay
	if in.TaxOnFullEarnings {
		mode = TaxFullEarnings
	}
	tax, err := calc.Withholding(WithholdingInput{
		Mode:                mode,
		BasicPay:            sumByCategory(earned, CategoryBasicPay),
		LateUndertime:       sumByCategory(earned, CategoryLateUndertime),
		TotalEarnings:       sumKind(earned, KindEarning),
		DeMinimisPaid:       sumByRuleCode(earned, "ALW-DM"),
		StatutoryShares:     breakdown.EmployeeTotal(),
		YTDTaxable:          in.PreviousYTD.TaxableIncome,
		YTDTaxWithheld:      in.PreviousYTD.TaxWithheld,
		PeriodNumber:        period.PeriodNumber,
		PeriodsPerMonth:     periodsPerMonth,
		PeriodsPerYear:      period.Frequency.PeriodsPerYear(),
		DeMinimisMonthlyCap: e.Ruleset.DeMinimisMonthlyCap,
	})
	if err != nil {
		return nil, StatutoryBreakdown{}, decimal.Zero, err
	}
	breakdown.WithholdingTax = Round2(tax.Withholding)

	var lines []PayslipLine
	addPair := func(eeCat, erCat LineCategory, c Contribution, label, code string) {
		if c.Employee.IsPositive() {
			lines = append(lines, NewLine(eeCat, label, c.Employee, code+"-EE"))
		}
		if c.Employer.IsPositive() {
			lines = append(lines, NewLine(erCat, label+" (Employer)", c.Employer, code+"-ER"))
		}
	}
	addPair(CategorySSSEmployee, CategorySSSEmployer, sss, "SSS Contribution", "SSS")
	addPair(CategoryPhilHealthEmployee, CategoryPhilHealthEmployer, philhealth, "PhilHealth Contribution", "PH")
	addPair(CategoryPagibigEmployee, CategoryPagibigEmployer, pagibig, "Pag-IBIG Contribution", "HDMF")

	if tax.Withholding.IsPositive() {
		lines = append(lines, NewLine(CategoryTaxWithholding, "Withholding Tax", tax.Withholding, "WTAX"))
	}

	return lines, breakdown, tax.TaxableBase, nil
}

// =============================================================================
// TOTALS AND YTD
// =============================================================================

// sumTotals folds line amounts into earnings and deductions. Employer-share
// lines are reported but excluded from both totals. Line amounts are
// already 2-decimal, so the 4-decimal accumulation is lossless and the
// final totals are exact.
func sumTotals(lines []PayslipLine) (earnings, deductions decimal.Decimal) {
	for _, line := range lines {
		switch line.Category.Kind() {
		case KindEarning:
			earnings = Round4(earnings.Add(line.Amount))
		case KindDeduction:
			deductions = Round4(deductions.Add(line.Amount))
		}
	}
	return Round2(earnings), Round2(deductions)
}

func sumByCategory(lines []PayslipLine, category LineCategory) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Category == category {
			total = Round4(total.Add(line.Amount))
		}
	}
	return total
}

func sumByRuleCode(lines []PayslipLine, code string) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.RuleCode == code {
			total = Round4(total.Add(line.Amount))
		}
	}
	return total
}

func sumKind(lines []PayslipLine, kind LineKind) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Category.Kind() == kind {
			total = Round4(total.Add(line.Amount))
		}
	}
	return total
}

// rollForward produces the next YTD snapshot from the previous one plus
// this payslip.
func rollForward(prev YearToDate, p *ComputedPayslip, taxable decimal.Decimal) YearToDate {
	return YearToDate{
		Gross:         Round4(prev.Gross.Add(p.GrossPay)),
		TaxableIncome: Round4(prev.TaxableIncome.Add(taxable)),
		TaxWithheld:   Round4(prev.TaxWithheld.Add(p.Statutory.WithholdingTax)),
		SSSEmployee:   Round4(prev.SSSEmployee.Add(p.Statutory.SSSEmployee)),
		PhilHealthEE:  Round4(prev.PhilHealthEE.Add(p.Statutory.PhilHealthEmployee)),
		PagibigEE:     Round4(prev.PagibigEE.Add(p.Statutory.PagibigEmployee)),
		NetPay:        Round4(prev.NetPay.Add(p.NetPay)),
	}
}

// =============================================================================
// BATCH RUNS
// =============================================================================

// RunTotals aggregates a batch run.
type RunTotals struct {
	Employees         int
	Failed            int
	TotalEarnings     decimal.Decimal
	TotalDeductions   decimal.Decimal
	TotalNet          decimal.Decimal
	TotalSSSEE        decimal.Decimal
	TotalPhilHealthEE decimal.Decimal
	TotalPagibigEE    decimal.Decimal
	TotalTax          decimal.Decimal
}

// RunResult is the outcome of a batch run. Payslips appear in input order;
// failed employees appear in Errors instead.
type RunResult struct {
	Period   PayPeriod
	Payslips []*ComputedPayslip
	Errors   []*EmployeeError
	Totals   RunTotals
}

// ComputePayroll runs ComputePayslip across the batch. Each employee's
// computation is independent and side-effect-free, so the batch fans out
// across workers; results are collected in input order so identical inputs
// yield identical run output.
func (e *ComputeEngine) ComputePayroll(inputs []EmployeeInput, period PayPeriod) *RunResult {
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}
	if workers < 1 {
		workers = 1
	}

	type slot struct {
		payslip *ComputedPayslip
		err     error
	}
	slots := make([]slot, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i].payslip, slots[i].err = e.computeGuarded(inputs[i], period)
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &RunResult{Period: period}
	for i, s := range slots {
		if s.err != nil {
			result.Errors = append(result.Errors, &EmployeeError{
				EmployeeID: inputs[i].EmployeeID,
				Err:        s.err,
			})
			result.Totals.Failed++
			continue
		}
		result.Payslips = append(result.Payslips, s.payslip)
		t := &result.Totals
		t.Employees++
		t.TotalEarnings = Round4(t.TotalEarnings.Add(s.payslip.TotalEarnings))
		t.TotalDeductions = Round4(t.TotalDeductions.Add(s.payslip.TotalDeductions))
		t.TotalNet = Round4(t.TotalNet.Add(s.payslip.NetPay))
		t.TotalSSSEE = Round4(t.TotalSSSEE.Add(s.payslip.Statutory.SSSEmployee))
		t.TotalPhilHealthEE = Round4(t.TotalPhilHealthEE.Add(s.payslip.Statutory.PhilHealthEmployee))
		t.TotalPagibigEE = Round4(t.TotalPagibigEE.Add(s.payslip.Statutory.PagibigEmployee))
		t.TotalTax = Round4(t.TotalTax.Add(s.payslip.Statutory.WithholdingTax))
	}
	return result
}

// computeGuarded recovers worker panics into per-employee errors so a
// malformed input can never take down the batch.
func (e *ComputeEngine) computeGuarded(in EmployeeInput, period PayPeriod) (p *ComputedPayslip, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("computation panic: %v", r)
		}
	}()
	return e.ComputePayslip(in, period)
}
