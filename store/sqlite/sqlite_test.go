package sqlite_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// sampleResult computes a real two-employee run so the persisted payloads
// are genuine engine output, not hand-built fixtures.
func sampleResult(t *testing.T) *engine.RunResult {
	t.Helper()

	profile := engine.PayProfile{
		WageType:         engine.WageMonthly,
		BaseRate:         decimal.NewFromInt(30000),
		WorkDaysPerMonth: decimal.NewFromInt(26),
		HoursPerDay:      decimal.NewFromInt(8),
		BenefitsEligible: true,
	}
	days := make([]engine.AttendanceDayInput, 0, 10)
	for d := 2; d < 12; d++ {
		days = append(days, engine.AttendanceDayInput{
			Date:          time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC),
			DayType:       engine.RegularWorkingDay,
			WorkedMinutes: 480,
		})
	}
	inputs := []engine.EmployeeInput{
		{
			EmployeeID:     "emp-1",
			Profile:        profile,
			Days:           days,
			Regularization: engine.Regularization{EmploymentType: engine.EmploymentRegular},
		},
		{
			EmployeeID:     "emp-2",
			Profile:        profile,
			Days:           days,
			Regularization: engine.Regularization{EmploymentType: engine.EmploymentRegular},
		},
	}
	period := engine.PayPeriod{
		Start:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		Frequency:    engine.FrequencySemiMonthly,
		PeriodNumber: 11,
	}
	return engine.New(statutory.DefaultRuleset()).ComputePayroll(inputs, period)
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestStore_SaveAndGetRun(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	result := sampleResult(t)

	run, records, err := sqlite.BuildRecords("run-1", result, "ph-2025",
		[]string{"slip-1", "slip-2"}, time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(ctx, run, records))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, "ph-2025", got.RulesetVersion)
	assert.Equal(t, 2, got.EmployeeCount)
	assert.Equal(t, 0, got.FailedCount)
	assert.Equal(t, run.TotalNet, got.TotalNet)
	assert.Equal(t, "2025-06-01", got.PeriodStart.Format("2006-01-02"))
	assert.Equal(t, "2025-06-15", got.PeriodEnd.Format("2006-01-02"))
}

func TestStore_GetRunNotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_ListRunsMostRecentFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	result := sampleResult(t)

	base := time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-old", "run-mid", "run-new"} {
		run, records, err := sqlite.BuildRecords(id, result, "ph-2025",
			[]string{id + "-slip-1", id + "-slip-2"}, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, store.SaveRun(ctx, run, records))
	}

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[2].ID)
}

func TestStore_ListPayslipsRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	result := sampleResult(t)

	run, records, err := sqlite.BuildRecords("run-1", result, "ph-2025",
		[]string{"slip-1", "slip-2"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(ctx, run, records))

	payslips, err := store.ListPayslips(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, payslips, 2)
	assert.Equal(t, "emp-1", payslips[0].EmployeeID)
	assert.Equal(t, "emp-2", payslips[1].EmployeeID)

	// the JSON payload reconstructs the full computed payslip
	var slip engine.ComputedPayslip
	require.NoError(t, json.Unmarshal(payslips[0].Payload, &slip))
	assert.Equal(t, "slip-1", slip.ID)
	assert.Equal(t, "emp-1", slip.EmployeeID)
	assert.True(t, slip.NetPay.IsPositive())
	assert.NotEmpty(t, slip.Lines)
	assert.Equal(t, payslips[0].NetPay, slip.NetPay.StringFixed(2))
}

func TestStore_WriteOnce(t *testing.T) {
	// A run id can only be written once; a correction is a new run
	store := newStore(t)
	ctx := context.Background()
	result := sampleResult(t)

	run, records, err := sqlite.BuildRecords("run-1", result, "ph-2025",
		[]string{"slip-1", "slip-2"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(ctx, run, records))

	err = store.SaveRun(ctx, run, records)
	require.Error(t, err)

	// the failed second write left no partial payslips behind
	payslips, err := store.ListPayslips(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, payslips, 2)
}

func TestStore_RunErrorsPersisted(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	result := sampleResult(t)
	result.Errors = append(result.Errors, &engine.EmployeeError{
		EmployeeID: "emp-3",
		Err:        engine.ErrUnknownWageType,
	})
	result.Totals.Failed = 1

	run, records, err := sqlite.BuildRecords("run-1", result, "ph-2025",
		[]string{"slip-1", "slip-2"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(ctx, run, records))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.FailedCount)
	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "emp-3")
}

// =============================================================================
// RECORD BUILDING
// =============================================================================

func TestBuildRecords_IDCountMismatch(t *testing.T) {
	result := sampleResult(t)

	_, _, err := sqlite.BuildRecords("run-1", result, "ph-2025", []string{"only-one"}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestBuildRecords_TotalsRendered(t *testing.T) {
	result := sampleResult(t)

	run, records, err := sqlite.BuildRecords("run-1", result, "ph-2025",
		[]string{"slip-1", "slip-2"}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, result.Totals.TotalNet.StringFixed(2), run.TotalNet)
	require.Len(t, records, 2)
	for i, rec := range records {
		assert.Equal(t, "run-1", rec.RunID)
		assert.Equal(t, result.Payslips[i].NetPay.StringFixed(2), rec.NetPay)
	}
}
