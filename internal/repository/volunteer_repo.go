package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

type VolunteerRepo struct {
	pool *pgxpool.Pool
}

func NewVolunteerRepo(pool *pgxpool.Pool) *VolunteerRepo {
	return &VolunteerRepo{pool: pool}
}

const volunteerColumns = `id, name, email, phone, skills, location, availability, status, to_char(join_date, 'YYYY-MM-DD')`

func scanVolunteer(row pgx.Row) (*models.Volunteer, error) {
	v := &models.Volunteer{}
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Skills, &v.Location, &v.Availability, &v.Status, &v.JoinDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if v.Skills == nil {
		v.Skills = []string{}
	}
	return v, nil
}

func (r *VolunteerRepo) List(ctx context.Context, filter models.VolunteerFilter) ([]models.Volunteer, error) {
	var args []interface{}
	where := "WHERE TRUE"

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (name ILIKE $%d OR location ILIKE $%d
			OR EXISTS (SELECT 1 FROM unnest(skills) AS skill WHERE skill ILIKE $%d))`, n, n, n)
	}
	if s := filterValue(filter.Status); s != "" {
		args = append(args, s)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, "SELECT "+volunteerColumns+" FROM volunteers "+where+" ORDER BY created_at ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	volunteers := make([]models.Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, *v)
	}
	return volunteers, rows.Err()
}

func (r *VolunteerRepo) Create(ctx context.Context, v *models.Volunteer) error {
	v.ID = uuid.NewString()
	v.Status = models.VolunteerStatusPending

	query := `INSERT INTO volunteers (id, name, email, phone, skills, location, availability, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING to_char(join_date, 'YYYY-MM-DD')`

	err := r.pool.QueryRow(ctx, query,
		v.ID, v.Name, v.Email, v.Phone, v.Skills, v.Location, v.Availability, v.Status,
	).Scan(&v.JoinDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *VolunteerRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Volunteer, error) {
	query := "UPDATE volunteers SET status = $1 WHERE id = $2 RETURNING " + volunteerColumns
	return scanVolunteer(r.pool.QueryRow(ctx, query, status, id))
}
