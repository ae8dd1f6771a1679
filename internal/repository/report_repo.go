package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

const reportColumns = `id, type, title, description, location, reported_by, category, severity, status, reported_at, fact_check`

func scanReport(row pgx.Row) (*models.CrisisReport, error) {
	r := &models.CrisisReport{}
	var factCheck []byte
	err := row.Scan(
		&r.ID, &r.Type, &r.Title, &r.Description, &r.Location, &r.ReportedBy,
		&r.Category, &r.Severity, &r.Status, &r.ReportedAt, &factCheck,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(factCheck) > 0 {
		var fc models.FactCheckResult
		if err := json.Unmarshal(factCheck, &fc); err != nil {
			return nil, fmt.Errorf("decode fact_check for report %s: %w", r.ID, err)
		}
		r.FactCheck = &fc
	}
	return r, nil
}

func (r *ReportRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.CrisisReport, error) {
	var args []interface{}
	where := "WHERE TRUE"

	if t := filterValue(filter.Type); t != "" {
		args = append(args, t)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if s := filterValue(filter.Status); s != "" {
		args = append(args, s)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if s := filterValue(filter.Severity); s != "" {
		args = append(args, s)
		where += fmt.Sprintf(" AND severity = $%d", len(args))
	}

	query := "SELECT " + reportColumns + " FROM crisis_reports " + where + " ORDER BY reported_at DESC"
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.CrisisReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

func (r *ReportRepo) Get(ctx context.Context, id string) (*models.CrisisReport, error) {
	return scanReport(r.pool.QueryRow(ctx, "SELECT "+reportColumns+" FROM crisis_reports WHERE id = $1", id))
}

func (r *ReportRepo) Create(ctx context.Context, report *models.CrisisReport) error {
	report.ID = uuid.NewString()
	report.Status = models.ReportStatusPending
	report.FactCheck = nil

	query := `INSERT INTO crisis_reports (id, type, title, description, location, reported_by, category, severity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING reported_at`

	return r.pool.QueryRow(ctx, query,
		report.ID, report.Type, report.Title, report.Description, report.Location,
		report.ReportedBy, report.Category, report.Severity, report.Status,
	).Scan(&report.ReportedAt)
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id, status string) (*models.CrisisReport, error) {
	query := "UPDATE crisis_reports SET status = $1 WHERE id = $2 RETURNING " + reportColumns
	return scanReport(r.pool.QueryRow(ctx, query, status, id))
}

func (r *ReportRepo) SetFactCheck(ctx context.Context, id string, result models.FactCheckResult) (*models.CrisisReport, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	query := "UPDATE crisis_reports SET fact_check = $1 WHERE id = $2 RETURNING " + reportColumns
	return scanReport(r.pool.QueryRow(ctx, query, data, id))
}
