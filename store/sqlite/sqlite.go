/*
Package sqlite persists completed payroll runs and their payslips.

PURPOSE:
  The engine itself is pure and never persists anything; this store is the
  downstream consumer that records finished runs so payslips can be
  retrieved later. The same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  payroll_runs: one row per batch run (period, ruleset version, totals,
                per-employee errors as JSON)
  payslips:     one row per computed payslip; the full line detail is
                stored as a JSON document, with the money totals broken
                out into indexed columns for reporting queries

WRITE-ONCE SEMANTICS:
  Runs and payslips are written once when a run completes and never
  updated. A corrected run is a NEW run against the same period.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/compute.go: RunResult, the unit of persistence
  - api/handlers.go: the writer/reader of this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// RECORDS
// =============================================================================

// RunRecord is one persisted batch run.
type RunRecord struct {
	ID              string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	RulesetVersion  string
	EmployeeCount   int
	FailedCount     int
	TotalEarnings   string
	TotalDeductions string
	TotalNet        string
	Errors          []string
	CreatedAt       time.Time
}

// PayslipRecord is one persisted payslip. Payload holds the full
// engine.ComputedPayslip as JSON.
type PayslipRecord struct {
	ID              string
	RunID           string
	EmployeeID      string
	TotalEarnings   string
	TotalDeductions string
	NetPay          string
	Payload         []byte
	CreatedAt       time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed run/payslip store. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS payroll_runs (
		id               TEXT PRIMARY KEY,
		period_start     TEXT NOT NULL,
		period_end       TEXT NOT NULL,
		ruleset_version  TEXT NOT NULL,
		employee_count   INTEGER NOT NULL,
		failed_count     INTEGER NOT NULL,
		total_earnings   TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		total_net        TEXT NOT NULL,
		errors_json      TEXT NOT NULL DEFAULT '[]',
		created_at       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payslips (
		id               TEXT PRIMARY KEY,
		run_id           TEXT NOT NULL REFERENCES payroll_runs(id),
		employee_id      TEXT NOT NULL,
		total_earnings   TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		net_pay          TEXT NOT NULL,
		payload_json     TEXT NOT NULL,
		created_at       TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payslips_run ON payslips(run_id);
	CREATE INDEX IF NOT EXISTS idx_payslips_employee ON payslips(employee_id);
	CREATE INDEX IF NOT EXISTS idx_runs_period ON payroll_runs(period_start, period_end);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// =============================================================================
// WRITES - a run and its payslips are saved atomically
// =============================================================================

// SaveRun persists a run record and its payslips in one transaction.
func (s *Store) SaveRun(ctx context.Context, run RunRecord, payslips []PayslipRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	errorsJSON, err := json.Marshal(run.Errors)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payroll_runs
		(id, period_start, period_end, ruleset_version, employee_count,
		 failed_count, total_earnings, total_deductions, total_net,
		 errors_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.PeriodStart.Format("2006-01-02"),
		run.PeriodEnd.Format("2006-01-02"),
		run.RulesetVersion,
		run.EmployeeCount,
		run.FailedCount,
		run.TotalEarnings,
		run.TotalDeductions,
		run.TotalNet,
		string(errorsJSON),
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range payslips {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payslips
			(id, run_id, employee_id, total_earnings, total_deductions,
			 net_pay, payload_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.RunID, p.EmployeeID,
			p.TotalEarnings, p.TotalDeductions, p.NetPay,
			string(p.Payload),
			p.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert payslip %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// READS
// =============================================================================

// GetRun returns one run record, or sql.ErrNoRows.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, period_start, period_end, ruleset_version, employee_count,
		       failed_count, total_earnings, total_deductions, total_net,
		       errors_json, created_at
		FROM payroll_runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, period_start, period_end, ruleset_version, employee_count,
		       failed_count, total_earnings, total_deductions, total_net,
		       errors_json, created_at
		FROM payroll_runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListPayslips returns the payslips of one run, ordered by employee.
func (s *Store) ListPayslips(ctx context.Context, runID string) ([]PayslipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, employee_id, total_earnings, total_deductions,
		       net_pay, payload_json, created_at
		FROM payslips WHERE run_id = ? ORDER BY employee_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payslips []PayslipRecord
	for rows.Next() {
		var p PayslipRecord
		var payload, createdAt string
		if err := rows.Scan(&p.ID, &p.RunID, &p.EmployeeID,
			&p.TotalEarnings, &p.TotalDeductions, &p.NetPay,
			&payload, &createdAt); err != nil {
			return nil, err
		}
		p.Payload = []byte(payload)
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var run RunRecord
	var start, end, errorsJSON, createdAt string
	err := row.Scan(&run.ID, &start, &end, &run.RulesetVersion,
		&run.EmployeeCount, &run.FailedCount,
		&run.TotalEarnings, &run.TotalDeductions, &run.TotalNet,
		&errorsJSON, &createdAt)
	if err != nil {
		return RunRecord{}, err
	}
	run.PeriodStart, _ = time.Parse("2006-01-02", start)
	run.PeriodEnd, _ = time.Parse("2006-01-02", end)
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if err := json.Unmarshal([]byte(errorsJSON), &run.Errors); err != nil {
		return RunRecord{}, err
	}
	return run, nil
}

// =============================================================================
// RECORD BUILDERS
// =============================================================================

// BuildRecords converts a finished RunResult into persistable records.
// payslipIDs must be pre-generated, one per payslip in order.
func BuildRecords(runID string, result *engine.RunResult, rulesetVersion string, payslipIDs []string, now time.Time) (RunRecord, []PayslipRecord, error) {
	if len(payslipIDs) != len(result.Payslips) {
		return RunRecord{}, nil, fmt.Errorf("payslip id count mismatch: %d ids for %d payslips",
			len(payslipIDs), len(result.Payslips))
	}

	run := RunRecord{
		ID:              runID,
		PeriodStart:     result.Period.Start,
		PeriodEnd:       result.Period.End,
		RulesetVersion:  rulesetVersion,
		EmployeeCount:   result.Totals.Employees,
		FailedCount:     result.Totals.Failed,
		TotalEarnings:   result.Totals.TotalEarnings.StringFixed(2),
		TotalDeductions: result.Totals.TotalDeductions.StringFixed(2),
		TotalNet:        result.Totals.TotalNet.StringFixed(2),
		CreatedAt:       now,
	}
	for _, e := range result.Errors {
		run.Errors = append(run.Errors, e.Error())
	}

	payslips := make([]PayslipRecord, 0, len(result.Payslips))
	for i, p := range result.Payslips {
		p.ID = payslipIDs[i]
		payload, err := json.Marshal(p)
		if err != nil {
			return RunRecord{}, nil, fmt.Errorf("marshal payslip %s: %w", p.EmployeeID, err)
		}
		payslips = append(payslips, PayslipRecord{
			ID:              p.ID,
			RunID:           runID,
			EmployeeID:      p.EmployeeID,
			TotalEarnings:   p.TotalEarnings.StringFixed(2),
			TotalDeductions: p.TotalDeductions.StringFixed(2),
			NetPay:          p.NetPay.StringFixed(2),
			Payload:         payload,
			CreatedAt:       now,
		})
	}
	return run, payslips, nil
}
