package database

import (
	"context"
	"fmt"
	"time"

	"go-openclaw-mailer/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id              UUID PRIMARY KEY,
	session_id      UUID NOT NULL,
	telegram_id     BIGINT NOT NULL,
	recipient       TEXT NOT NULL,
	job_description TEXT NOT NULL,
	subject         TEXT NOT NULL DEFAULT '',
	cv_path         TEXT NOT NULL DEFAULT '',
	message_id      TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	error           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS applications_telegram_id_idx ON applications (telegram_id, created_at DESC);
`

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// EnsureSchema creates the applications table if it does not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Record inserts the outcome of one finished session
func (r *Repository) Record(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (id, session_id, telegram_id, recipient, job_description, subject, cv_path, message_id, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		app.ID, app.SessionID, app.TelegramID, app.Recipient, app.JobDescription,
		app.Subject, app.CVPath, app.MessageID, app.Status, app.Error, app.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record application: %w", err)
	}
	return nil
}

// ListApplications returns the latest applications of a Telegram user, newest first
func (r *Repository) ListApplications(ctx context.Context, telegramID int64, limit int) ([]models.Application, error) {
	query := `
		SELECT id, session_id, telegram_id, recipient, job_description, subject, cv_path, message_id, status, error, created_at
		FROM applications
		WHERE telegram_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(&app.ID, &app.SessionID, &app.TelegramID, &app.Recipient, &app.JobDescription,
			&app.Subject, &app.CVPath, &app.MessageID, &app.Status, &app.Error, &app.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
