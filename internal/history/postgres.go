package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS analysis_history (
    id               TEXT PRIMARY KEY,
    email            TEXT NOT NULL,
    role             TEXT NOT NULL,
    filename         TEXT NOT NULL DEFAULT '',
    match_score      INTEGER NOT NULL,
    source           TEXT NOT NULL,
    missing_keywords TEXT[] NOT NULL DEFAULT '{}',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS analysis_history_email_created_idx
    ON analysis_history (email, created_at DESC);`

const insertEntrySQL = `
INSERT INTO analysis_history (id, email, role, filename, match_score, source, missing_keywords, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listEntriesSQL = `
SELECT id, email, role, filename, match_score, source, missing_keywords, created_at
FROM analysis_history
WHERE email = $1
ORDER BY created_at DESC
LIMIT $2`

// maxListLimit bounds List when the caller passes no limit
const maxListLimit = 1000

// PostgresStore persists history in the analysis_history table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection pool and creates the table when missing
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (p *PostgresStore) migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create analysis_history table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Append(ctx context.Context, entry *models.HistoryEntry) error {
	entry.Email = NormalizeEmail(entry.Email)
	if entry.ID == "" {
		entry.ID = utils.GenerateRequestID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	keywords := entry.MissingKeywords
	if keywords == nil {
		keywords = []string{}
	}

	_, err := p.db.ExecContext(ctx, insertEntrySQL,
		entry.ID,
		entry.Email,
		entry.Role,
		entry.Filename,
		entry.MatchScore,
		string(entry.Source),
		pq.Array(keywords),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context, email string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := p.db.QueryContext(ctx, listEntriesSQL, NormalizeEmail(email), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var (
			e      models.HistoryEntry
			source string
		)
		if err := rows.Scan(&e.ID, &e.Email, &e.Role, &e.Filename, &e.MatchScore, &source, pq.Array(&e.MissingKeywords), &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Source = models.InsightSource(source)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
