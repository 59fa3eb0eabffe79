/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built payroll scenarios with realistic employee data for
	testing and demos. Each scenario assembles employee inputs, computes a
	run through the engine, and persists it like a normal run.

AVAILABLE SCENARIOS:

	monthly-regular:    Salaried regulars over a semi-monthly cutoff with
	                    late minutes and a regular holiday
	daily-mixed:        Daily-wage earner across mixed day types with a
	                    client-site rate override
	overnight-shift:    Raw clock capture, overnight schedule, night diff
	probationary-hire:  Probationary employee not yet benefits-eligible
	prior-year-tables:  Same crew computed under the prior year's tables

HOW SCENARIOS WORK:
 1. Build employee inputs and the pay period in code
 2. Compute the run through the engine
 3. Persist the run so it shows up in GET /api/runs

USAGE VIA API:

	POST /api/scenarios/run
	{"scenario_id": "daily-mixed"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create a builder: xxxScenario() scenarioRun
 3. Add case to RunScenario handler

SEE ALSO:
  - handlers.go: RunScenario, ListScenarios handlers
  - statutory/tables.go: the preset rulesets scenarios compute under
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "monthly-regular",
		Name:        "Monthly Regulars",
		Description: "Salaried regulars over a semi-monthly cutoff with lateness and a regular holiday",
		Category:    "payroll",
	},
	{
		ID:          "daily-mixed",
		Name:        "Daily Wage, Mixed Days",
		Description: "Daily-wage earner across regular days, a rest day, and a client-site rate override",
		Category:    "payroll",
	},
	{
		ID:          "overnight-shift",
		Name:        "Overnight Shift",
		Description: "Night-shift worker paid night differential with raw clock capture",
		Category:    "attendance",
	},
	{
		ID:          "probationary-hire",
		Name:        "Probationary Hire",
		Description: "New probationary hire, not yet eligible for statutory contributions",
		Category:    "statutory",
	},
	{
		ID:          "prior-year-tables",
		Name:        "Prior Year Tables",
		Description: "The monthly-regular crew computed under the previous year's contribution tables",
		Category:    "statutory",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// RunScenario computes and persists a predefined scenario.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var run scenarioRun
	switch req.ScenarioID {
	case "monthly-regular":
		run = monthlyRegularScenario()
	case "daily-mixed":
		run = dailyMixedScenario()
	case "overnight-shift":
		run = overnightShiftScenario()
	case "probationary-hire":
		run = probationaryHireScenario()
	case "prior-year-tables":
		run = priorYearTablesScenario()
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	result := engine.New(run.ruleset).ComputePayroll(run.inputs, run.period)
	dto, err := h.persistRun(r, result, run.ruleset.Version)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save scenario run", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// scenarioRun is one fully-assembled demo run.
type scenarioRun struct {
	ruleset engine.Ruleset
	inputs  []engine.EmployeeInput
	period  engine.PayPeriod
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

func firstHalfJune() engine.PayPeriod {
	return engine.PayPeriod{
		Start:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		PayDate:      time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
		PeriodNumber: 11,
		Frequency:    engine.FrequencySemiMonthly,
	}
}

func monthlyProfile(salary float64) engine.PayProfile {
	return engine.PayProfile{
		WageType:          engine.WageMonthly,
		BaseRate:          decimal.NewFromFloat(salary),
		WorkDaysPerMonth:  decimal.NewFromInt(26),
		HoursPerDay:       decimal.NewFromInt(8),
		OvertimeEligible:  true,
		NightDiffEligible: true,
		BenefitsEligible:  true,
	}
}

func regularSince(year int) engine.Regularization {
	d := time.Date(year, time.January, 15, 0, 0, 0, 0, time.UTC)
	return engine.Regularization{
		EmploymentType:     engine.EmploymentRegular,
		RegularizationDate: &d,
	}
}

// workdays builds n full regular working days starting at the given date,
// skipping weekends.
func workdays(start time.Time, n int) []engine.AttendanceDayInput {
	days := make([]engine.AttendanceDayInput, 0, n)
	d := start
	for len(days) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, engine.AttendanceDayInput{
				Date:          d,
				DayType:       engine.RegularWorkingDay,
				WorkedMinutes: 480,
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func monthlyRegularScenario() scenarioRun {
	period := firstHalfJune()

	// Ana: clean half-month plus 35 late minutes on June 3.
	ana := engine.EmployeeInput{
		EmployeeID:     "emp-ana",
		Profile:        monthlyProfile(45000),
		Regularization: regularSince(2022),
		Days:           workdays(period.Start, 10),
	}
	ana.Days[1].LateMinutes = 35
	ana.Days[1].WorkedMinutes = 445

	// Ben: worked June 12 (Independence Day, regular holiday) with an hour
	// of approved overtime.
	ben := engine.EmployeeInput{
		EmployeeID:     "emp-ben",
		Profile:        monthlyProfile(32000),
		Regularization: regularSince(2023),
		Days:           workdays(period.Start, 10),
	}
	for i := range ben.Days {
		if ben.Days[i].Date.Day() == 12 {
			ben.Days[i].DayType = engine.RegularHoliday
			ben.Days[i].HolidayOTMinutes = 60
		}
	}

	return scenarioRun{
		ruleset: statutory.DefaultRuleset(),
		period:  period,
		inputs:  []engine.EmployeeInput{ana, ben},
	}
}

func dailyMixedScenario() scenarioRun {
	period := firstHalfJune()

	clientRate := decimal.NewFromInt(750)
	carlo := engine.EmployeeInput{
		EmployeeID: "emp-carlo",
		Profile: engine.PayProfile{
			WageType:         engine.WageDaily,
			BaseRate:         decimal.NewFromInt(610),
			WorkDaysPerMonth: decimal.NewFromInt(26),
			HoursPerDay:      decimal.NewFromInt(8),
			OvertimeEligible: true,
			BenefitsEligible: true,
		},
		Regularization: regularSince(2021),
		Days:           workdays(period.Start, 8),
	}
	// Three days at a client site pay a higher day rate.
	for i := 2; i < 5; i++ {
		carlo.Days[i].DailyRateOverride = &clientRate
	}
	// Worked the Saturday rest day, plus two hours rest-day OT.
	carlo.Days = append(carlo.Days, engine.AttendanceDayInput{
		Date:             time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC),
		DayType:          engine.RestDay,
		WorkedMinutes:    480,
		RestDayOTMinutes: 120,
	})

	return scenarioRun{
		ruleset: statutory.DefaultRuleset(),
		period:  period,
		inputs:  []engine.EmployeeInput{carlo},
	}
}

func overnightShiftScenario() scenarioRun {
	period := firstHalfJune()

	dana := engine.EmployeeInput{
		EmployeeID:     "emp-dana",
		Profile:        monthlyProfile(38000),
		Regularization: regularSince(2020),
	}
	// 22:00-06:00 shift: every worked hour past 22:00 lands in the
	// night-diff window.
	for _, day := range workdays(period.Start, 10) {
		day.NightDiffMinutes = 480
		dana.Days = append(dana.Days, day)
	}

	return scenarioRun{
		ruleset: statutory.DefaultRuleset(),
		period:  period,
		inputs:  []engine.EmployeeInput{dana},
	}
}

func probationaryHireScenario() scenarioRun {
	period := firstHalfJune()

	// Eli started June 2 and is still on probation: no statutory
	// contributions yet, so the first payslip is gross minus tax only.
	eli := engine.EmployeeInput{
		EmployeeID: "emp-eli",
		Profile:    monthlyProfile(28000),
		Regularization: engine.Regularization{
			EmploymentType: engine.EmploymentProbationary,
		},
		Days: workdays(time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), 10),
	}
	eli.Profile.BenefitsEligible = false

	return scenarioRun{
		ruleset: statutory.DefaultRuleset(),
		period:  period,
		inputs:  []engine.EmployeeInput{eli},
	}
}

func priorYearTablesScenario() scenarioRun {
	run := monthlyRegularScenario()
	run.ruleset = statutory.Ruleset2024()
	return run
}
