package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// Ensure PostgresHistoryStore implements HistoryStore
var _ HistoryStore = (*PostgresHistoryStore)(nil)

// PostgresHistoryStore persists price history in PostgreSQL.
type PostgresHistoryStore struct {
	db *sql.DB
}

func NewPostgresHistoryStore(cfg *config.PostgresConfig) (*PostgresHistoryStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresHistoryStore{db: db}
	if err := store.createTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresHistoryStore) createTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS price_history (
		id BIGSERIAL PRIMARY KEY,
		run_at TIMESTAMPTZ NOT NULL,
		match_number INTEGER NOT NULL,
		stage TEXT NOT NULL DEFAULT '',
		host_team TEXT NOT NULL DEFAULT '',
		opposing_team TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		town TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		lounge_title TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL,
		currency TEXT NOT NULL,
		base_price INTEGER NOT NULL,
		portal TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_price_history_match ON price_history (match_number, run_at);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create price_history table: %w", err)
	}
	return nil
}

// SaveRun inserts one row per record inside a single transaction.
func (s *PostgresHistoryStore) SaveRun(ctx context.Context, runAt time.Time, records []models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_history
			(run_at, match_number, stage, host_team, opposing_team, venue, town, country, lounge_title, price, currency, base_price, portal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			runAt, r.MatchNumber, r.Stage, r.HostTeam, r.OpposingTeam,
			r.Venue.Name, r.Venue.Town, r.Venue.Country,
			r.LoungeTitle, r.Price, r.Currency, r.BasePrice, r.Portal)
		if err != nil {
			return fmt.Errorf("insert match %d: %w", r.MatchNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.Info("Price history saved", "rows", len(records), "run_at", runAt.Format(time.RFC3339))
	return nil
}

func (s *PostgresHistoryStore) Close() error {
	return s.db.Close()
}
