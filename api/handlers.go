/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the computation engine via REST. Handlers parse JSON, resolve
  day types and clock times, delegate to the engine, persist finished
  runs, and serialize responses.

ENDPOINTS:
  Computation:
    POST /api/payslips/compute   Compute one employee's payslip (not persisted)
    POST /api/runs/compute       Compute a batch run and persist it

  Retrieval:
    GET  /api/runs               List persisted runs
    GET  /api/runs/{id}          Run summary with per-employee errors
    GET  /api/runs/{id}/payslips Payslips of a run

  Reference:
    GET  /api/rulesets           Available preset ruleset versions
    GET  /api/scenarios          Demo scenarios
    POST /api/scenarios/run      Compute and persist a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid input (bad dates, bad ruleset JSON, unknown wage type)
  - 404: unknown run id
  - 500: store failures

SECURITY NOTE:
  No authentication. The service is a computation backend meant to sit
  behind the HR system that owns identity.

SEE ALSO:
  - dto.go: request/response shapes
  - scenarios.go: demo inputs
  - server.go: router setup and middleware
*/
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          *sqlite.Store
	RulesetFactory *factory.RulesetFactory
	TimeCalc       *engine.AttendanceTimeCalculator

	// DefaultRuleset is used when a request supplies none.
	DefaultRuleset engine.Ruleset
}

// NewHandler creates a handler with the given store and defaults.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:          store,
		RulesetFactory: factory.NewRulesetFactory(),
		TimeCalc:       &engine.AttendanceTimeCalculator{},
		DefaultRuleset: statutory.DefaultRuleset(),
	}
}

// resolveRuleset picks the request's ruleset or the default.
func (h *Handler) resolveRuleset(doc *factory.RulesetJSON) (engine.Ruleset, error) {
	if doc == nil {
		return h.DefaultRuleset, nil
	}
	return h.RulesetFactory.FromJSON(*doc)
}

// =============================================================================
// COMPUTATION HANDLERS
// =============================================================================

// ComputePayslip computes a single employee's payslip without persisting.
func (h *Handler) ComputePayslip(w http.ResponseWriter, r *http.Request) {
	var req ComputePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ruleset, err := h.resolveRuleset(req.Ruleset)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ruleset", err)
		return
	}
	period, err := req.Period.toEngine()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	input, err := h.buildEmployeeInput(req.Employee, req.Holidays, req.RestDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee input", err)
		return
	}

	payslip, err := engine.New(ruleset).ComputePayslip(input, period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Computation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, payslipToDTO(payslip))
}

// ComputeRun computes a batch run, persists it, and returns the result.
func (h *Handler) ComputeRun(w http.ResponseWriter, r *http.Request) {
	var req ComputeRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Employees) == 0 {
		writeError(w, http.StatusBadRequest, "No employees in run", nil)
		return
	}

	ruleset, err := h.resolveRuleset(req.Ruleset)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ruleset", err)
		return
	}
	period, err := req.Period.toEngine()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	inputs := make([]engine.EmployeeInput, 0, len(req.Employees))
	for _, emp := range req.Employees {
		input, err := h.buildEmployeeInput(emp, req.Holidays, req.RestDays)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid employee input", err)
			return
		}
		inputs = append(inputs, input)
	}

	result := engine.New(ruleset).ComputePayroll(inputs, period)
	dto, err := h.persistRun(r, result, ruleset.Version)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save run", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// persistRun saves a finished run and builds its response DTO.
func (h *Handler) persistRun(r *http.Request, result *engine.RunResult, rulesetVersion string) (RunDTO, error) {
	runID := uuid.NewString()
	ids := make([]string, len(result.Payslips))
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	run, records, err := sqlite.BuildRecords(runID, result, rulesetVersion, ids, time.Now())
	if err != nil {
		return RunDTO{}, err
	}
	if err := h.Store.SaveRun(r.Context(), run, records); err != nil {
		return RunDTO{}, err
	}

	dto := runRecordToDTO(run)
	for _, p := range result.Payslips {
		dto.Payslips = append(dto.Payslips, payslipToDTO(p))
	}
	return dto, nil
}

// =============================================================================
// RETRIEVAL HANDLERS
// =============================================================================

// ListRuns returns all persisted runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = runRecordToDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one run summary.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load run", err)
		return
	}
	writeJSON(w, http.StatusOK, runRecordToDTO(run))
}

// GetRunPayslips returns the payslips of a run.
func (h *Handler) GetRunPayslips(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListPayslips(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payslips", err)
		return
	}

	dtos := make([]PayslipDTO, 0, len(records))
	for _, record := range records {
		var payslip engine.ComputedPayslip
		if err := json.Unmarshal(record.Payload, &payslip); err != nil {
			writeError(w, http.StatusInternalServerError, "Corrupt payslip payload", err)
			return
		}
		dtos = append(dtos, payslipToDTO(&payslip))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListRulesets returns the available preset versions.
func (h *Handler) ListRulesets(w http.ResponseWriter, r *http.Request) {
	type versionDTO struct {
		Version string `json:"version"`
	}
	writeJSON(w, http.StatusOK, []versionDTO{
		{Version: statutory.DefaultRuleset().Version},
		{Version: statutory.Ruleset2024().Version},
	})
}

// =============================================================================
// INPUT ASSEMBLY
// =============================================================================

// buildEmployeeInput converts one employee DTO into an engine input,
// resolving day types from the calendar and deriving minute buckets from
// raw clock times when present.
func (h *Handler) buildEmployeeInput(emp EmployeeDTO, holidays []HolidayDTO, restDays []int) (engine.EmployeeInput, error) {
	resolver, err := buildResolver(holidays, restDays)
	if err != nil {
		return engine.EmployeeInput{}, err
	}

	days := make([]engine.AttendanceDayInput, 0, len(emp.Days))
	for _, d := range emp.Days {
		day, err := h.buildDay(d, resolver)
		if err != nil {
			return engine.EmployeeInput{}, err
		}
		days = append(days, day)
	}

	reg, err := emp.Regularization.toEngine()
	if err != nil {
		return engine.EmployeeInput{}, err
	}

	input := engine.EmployeeInput{
		EmployeeID:        emp.EmployeeID,
		Profile:           emp.Profile.toEngine(),
		Days:              days,
		Regularization:    reg,
		TaxOnFullEarnings: emp.TaxOnFullEarnings,
		PreviousYTD:       emp.PreviousYTD.toEngine(),
	}
	for _, adj := range emp.Adjustments {
		input.Adjustments = append(input.Adjustments, engine.ManualAdjustment{
			Description: adj.Description,
			Amount:      decimal.NewFromFloat(adj.Amount),
			IsDeduction: adj.IsDeduction,
		})
	}
	for _, p := range emp.Penalties {
		input.Penalties = append(input.Penalties, engine.PenaltyDeduction{
			Description: p.Description,
			Amount:      decimal.NewFromFloat(p.Amount),
		})
	}
	if emp.StatutoryOverride != nil {
		override := decimal.NewFromFloat(*emp.StatutoryOverride)
		input.StatutoryOverride = &override
	}
	return input, nil
}

func buildResolver(holidays []HolidayDTO, restDays []int) (*engine.DayTypeResolver, error) {
	events := make([]engine.CalendarEvent, 0, len(holidays))
	for _, hd := range holidays {
		date, err := parseDate(hd.Date)
		if err != nil {
			return nil, err
		}
		events = append(events, engine.CalendarEvent{
			Date: date,
			Type: engine.HolidayType(hd.Type),
			Name: hd.Name,
		})
	}
	weekdays := make([]time.Weekday, 0, len(restDays))
	for _, rd := range restDays {
		weekdays = append(weekdays, time.Weekday(rd))
	}
	return engine.NewDayTypeResolver(events, weekdays), nil
}

func (h *Handler) buildDay(d DayDTO, resolver *engine.DayTypeResolver) (engine.AttendanceDayInput, error) {
	date, err := parseDate(d.Date)
	if err != nil {
		return engine.AttendanceDayInput{}, err
	}

	day := engine.AttendanceDayInput{
		Date:             date,
		DayType:          engine.DayType(d.DayType),
		WorkedMinutes:    d.WorkedMinutes,
		LateMinutes:      d.LateMinutes,
		UndertimeMinutes: d.UndertimeMinutes,
		AbsentMinutes:    d.AbsentMinutes,
		EarlyInOTMinutes: d.EarlyInOTMinutes,
		LateOutOTMinutes: d.LateOutOTMinutes,
		BreakOTMinutes:   d.BreakOTMinutes,
		EarlyInApproved:  d.EarlyInApproved,
		LateOutApproved:  d.LateOutApproved,
		RestDayOTMinutes: d.RestDayOTMinutes,
		HolidayOTMinutes: d.HolidayOTMinutes,
		NightDiffMinutes: d.NightDiffMinutes,
		IsPaidLeave:      d.IsPaidLeave,
	}
	if day.DayType == "" {
		day.DayType = resolver.Resolve(date)
	}
	if d.DailyRateOverride != nil {
		override := decimal.NewFromFloat(*d.DailyRateOverride)
		day.DailyRateOverride = &override
	}

	// Raw clock capture: derive the minute buckets server-side.
	if d.Shift != nil && d.ClockIn != nil && d.ClockOut != nil {
		clockIn, err := time.Parse(time.RFC3339, *d.ClockIn)
		if err != nil {
			return engine.AttendanceDayInput{}, err
		}
		clockOut, err := time.Parse(time.RFC3339, *d.ClockOut)
		if err != nil {
			return engine.AttendanceDayInput{}, err
		}

		result, err := h.TimeCalc.Compute(engine.ClockInput{
			Date: date,
			Shift: engine.Shift{
				Start:        d.Shift.Start,
				End:          d.Shift.End,
				BreakMinutes: d.Shift.BreakMinutes,
			},
			ClockIn:             &clockIn,
			ClockOut:            &clockOut,
			EarlyInApproved:     d.EarlyInApproved,
			LateOutApproved:     d.LateOutApproved,
			BreakMinutesApplied: d.BreakMinutesApplied,
		})
		if err != nil {
			return engine.AttendanceDayInput{}, err
		}

		day.LateMinutes = result.LateMinutes
		day.UndertimeMinutes = result.UndertimeMinutes
		day.EarlyInOTMinutes = result.EarlyInOTMinutes
		day.LateOutOTMinutes = result.LateOutOTMinutes
		if day.WorkedMinutes == 0 {
			worked := int(clockOut.Sub(clockIn).Minutes())
			applied := d.Shift.BreakMinutes
			if d.BreakMinutesApplied != nil {
				applied = *d.BreakMinutesApplied
			}
			worked -= applied
			if worked < 0 {
				worked = 0
			}
			day.WorkedMinutes = worked
		}
	}

	return day, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func runRecordToDTO(run sqlite.RunRecord) RunDTO {
	return RunDTO{
		ID:              run.ID,
		PeriodStart:     run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       run.PeriodEnd.Format("2006-01-02"),
		RulesetVersion:  run.RulesetVersion,
		EmployeeCount:   run.EmployeeCount,
		FailedCount:     run.FailedCount,
		TotalEarnings:   run.TotalEarnings,
		TotalDeductions: run.TotalDeductions,
		TotalNet:        run.TotalNet,
		Errors:          run.Errors,
		CreatedAt:       run.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	dto := ErrorDTO{Error: message}
	if err != nil {
		dto.Details = err.Error()
	}
	writeJSON(w, status, dto)
}
