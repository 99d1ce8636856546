package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/lead-engine/internal/entity"
)

const leadsSchema = `
	CREATE TABLE IF NOT EXISTS leads (
		seq              BIGSERIAL PRIMARY KEY,
		id               UUID NOT NULL UNIQUE,
		name             TEXT NOT NULL,
		phone            TEXT NOT NULL,
		email            TEXT,
		source           TEXT NOT NULL,
		service_interest TEXT NOT NULL,
		location         TEXT NOT NULL,
		timestamp        TEXT NOT NULL,
		score            INTEGER NOT NULL CHECK (score BETWEEN 0 AND 100),
		category         TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	)
`

const leadColumns = `id, name, phone, email, source, service_interest, location, timestamp, score, category, created_at`

// LeadRepository stores leads in PostgreSQL. seq preserves insertion order.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, leadsSchema); err != nil {
		return fmt.Errorf("create leads table: %w", err)
	}
	return nil
}

func (r *LeadRepository) InsertMany(ctx context.Context, leads []entity.Lead) ([]string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leads (`+leadColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		_, err := stmt.ExecContext(ctx,
			l.ID,
			l.Name,
			l.Phone,
			nullString(l.Email),
			l.Source,
			l.ServiceInterest,
			l.Location,
			l.Timestamp,
			l.Score,
			string(l.Category),
			l.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return nil, entity.ErrDuplicateLead
			}
			return nil, fmt.Errorf("insert lead %s: %w", l.ID, err)
		}
		ids = append(ids, l.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id::text = $1`, id)

	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

func (r *LeadRepository) Clear(ctx context.Context) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads`)
	if err != nil {
		return 0, fmt.Errorf("clear leads: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (*entity.Lead, error) {
	var (
		lead     entity.Lead
		email    sql.NullString
		category string
	)
	err := s.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&email,
		&lead.Source,
		&lead.ServiceInterest,
		&lead.Location,
		&lead.Timestamp,
		&lead.Score,
		&category,
		&lead.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Email = email.String
	lead.Category = entity.Category(category)
	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
