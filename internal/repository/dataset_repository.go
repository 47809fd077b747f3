package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/godilite/supportsim/internal/dataset"
	"github.com/godilite/supportsim/internal/domain"
	"github.com/godilite/supportsim/internal/repository/models"
)

const timeLayout = time.RFC3339

// generatedAtLayout is fixed width so text order matches time order.
const generatedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type DatasetRepository struct {
	db *sql.DB
}

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// SaveBundle stores the run row, its agents and its tickets in one transaction.
func (r *DatasetRepository) SaveBundle(ctx context.Context, b *dataset.Bundle) (err error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SaveBundle: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const runQuery = `
		INSERT INTO runs (id, seed, window_start, window_end, generated_at, bundle)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	meta := b.Metadata
	if _, err = tx.ExecContext(ctx, runQuery,
		meta.RunID,
		strconv.FormatUint(meta.Seed, 10),
		meta.Period.Start.Format(time.DateOnly),
		meta.Period.End.Format(time.DateOnly),
		meta.GeneratedAt.UTC().Format(generatedAtLayout),
		payload,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err = insertAgents(ctx, tx, meta.RunID, b.Agents); err != nil {
		return err
	}
	if err = insertTickets(ctx, tx, meta.RunID, b.Tickets); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveBundle: %w", err)
	}
	return nil
}

func insertAgents(ctx context.Context, tx *sql.Tx, runID string, agents []domain.Agent) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO agents (run_id, id, name, email, department, experience, shift,
			hire_date, active, supervisor, daily_target, satisfaction_target)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare agent insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range agents {
		if _, err := stmt.ExecContext(ctx,
			runID, a.ID, a.Name, a.Email, a.Department, string(a.Experience), string(a.Shift),
			a.HireDate, a.Active, a.Supervisor, a.DailyTicketTarget, a.SatisfactionTarget,
		); err != nil {
			return fmt.Errorf("insert agent %s: %w", a.ID, err)
		}
	}
	return nil
}

func insertTickets(ctx context.Context, tx *sql.Tx, runID string, tickets []domain.Ticket) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tickets (run_id, id, agent_id, department, type, priority, status, channel,
			created_at, resolved_at, resolution_minutes, first_response_minutes,
			satisfaction, sla_met, reopened, interactions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare ticket insert: %w", err)
	}
	defer stmt.Close()

	for i := range tickets {
		t := &tickets[i]
		var resolvedAt sql.NullString
		if t.ResolvedAt != nil {
			resolvedAt = sql.NullString{String: t.ResolvedAt.UTC().Format(timeLayout), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			runID, t.ID, t.AgentID, t.Department, t.Type, string(t.Priority), string(t.Status), string(t.Channel),
			t.CreatedAt.UTC().Format(timeLayout), resolvedAt,
			nullInt(t.ResolutionMinutes), nullInt(t.FirstResponseMinutes),
			nullFloat(t.Satisfaction), nullBool(t.SLAMet), t.Reopened, t.Interactions,
		); err != nil {
			return fmt.Errorf("insert ticket %s: %w", t.ID, err)
		}
	}
	return nil
}

// GetBundle loads a stored bundle. A missing run yields a nil bundle and no error.
func (r *DatasetRepository) GetBundle(ctx context.Context, runID string) (*dataset.Bundle, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT bundle FROM runs WHERE id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query GetBundle: %w", err)
	}

	var b dataset.Bundle
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("decode bundle %s: %w", runID, err)
	}
	return &b, nil
}

// LatestRunID returns the most recently generated run, or "" when none is stored.
func (r *DatasetRepository) LatestRunID(ctx context.Context) (string, error) {
	const query = `
		SELECT id FROM runs
		ORDER BY generated_at DESC, rowid DESC
		LIMIT 1
	`
	var id string
	if err := r.db.QueryRowContext(ctx, query).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query LatestRunID: %w", err)
	}
	return id, nil
}

// RunExists reports whether a run with the given id is stored.
func (r *DatasetRepository) RunExists(ctx context.Context, runID string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return false, fmt.Errorf("query RunExists: %w", err)
	}
	return n > 0, nil
}

// GetDepartmentTotals aggregates a run's tickets per department in SQL.
func (r *DatasetRepository) GetDepartmentTotals(ctx context.Context, runID string) ([]models.DepartmentTotal, error) {
	const query = `
		SELECT
			department,
			COUNT(*) AS total,
			SUM(CASE WHEN resolved_at IS NOT NULL THEN 1 ELSE 0 END) AS resolved,
			COALESCE(AVG(satisfaction), 0) AS mean_satisfaction,
			COALESCE(AVG(resolution_minutes), 0) AS mean_resolution
		FROM tickets
		WHERE run_id = ?
		GROUP BY department
		ORDER BY department
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query GetDepartmentTotals: %w", err)
	}
	defer rows.Close()

	var results []models.DepartmentTotal
	for rows.Next() {
		var d models.DepartmentTotal
		if err := rows.Scan(&d.Department, &d.TotalTickets, &d.ResolvedTickets, &d.MeanSatisfaction, &d.MeanResolution); err != nil {
			return nil, fmt.Errorf("scan GetDepartmentTotals row: %w", err)
		}
		d.MeanSatisfaction = round2(d.MeanSatisfaction)
		d.MeanResolution = round2(d.MeanResolution)
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetDepartmentTotals: %w", err)
	}
	return results, nil
}

// GetDailyCounts counts a run's tickets per creation day. Days without tickets
// are absent.
func (r *DatasetRepository) GetDailyCounts(ctx context.Context, runID string) ([]models.DailyCount, error) {
	const query = `
		SELECT substr(created_at, 1, 10) AS day, COUNT(*) AS total
		FROM tickets
		WHERE run_id = ?
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query GetDailyCounts: %w", err)
	}
	defer rows.Close()

	var results []models.DailyCount
	for rows.Next() {
		var d models.DailyCount
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return nil, fmt.Errorf("scan GetDailyCounts row: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetDailyCounts: %w", err)
	}
	return results, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
