package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// SettingsRepo stores the single site_settings row (id = 1).
type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func scanSettings(row pgx.Row) (*models.SiteSettings, error) {
	s := &models.SiteSettings{}
	var links []byte
	if err := row.Scan(&s.BannerText, &links); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(links, &s.QuickLinks); err != nil {
		return nil, fmt.Errorf("decode quick_links: %w", err)
	}
	if s.QuickLinks == nil {
		s.QuickLinks = []models.QuickLink{}
	}
	return s, nil
}

func (r *SettingsRepo) Get(ctx context.Context) (*models.SiteSettings, error) {
	return scanSettings(r.pool.QueryRow(ctx, "SELECT banner_text, quick_links FROM site_settings WHERE id = 1"))
}

// Update applies the present fields; absent fields keep their value.
func (r *SettingsRepo) Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.SiteSettings, error) {
	var links []byte
	if req.QuickLinks != nil {
		data, err := json.Marshal(*req.QuickLinks)
		if err != nil {
			return nil, err
		}
		links = data
	}

	query := `UPDATE site_settings
		SET banner_text = COALESCE($1, banner_text),
			quick_links = COALESCE($2::jsonb, quick_links),
			updated_at = NOW()
		WHERE id = 1
		RETURNING banner_text, quick_links`

	return scanSettings(r.pool.QueryRow(ctx, query, req.BannerText, links))
}
