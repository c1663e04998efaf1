package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// UpsertItem inserts or replaces a basket item by title and clears any
// stored deal results in the same transaction.
func (s *PostgresStore) UpsertItem(ctx context.Context, item *domain.Item) error {
	deals, err := json.Marshal(item.Deals)
	if err != nil {
		return fmt.Errorf("encoding deals: %w", err)
	}

	args := pgx.NamedArgs{
		"title":    item.Title,
		"url":      item.URL,
		"quantity": item.Quantity,
		"deals":    deals,
	}

	return s.inBasketTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, queryUpsertItem, args).Scan(&item.CreatedAt, &item.UpdatedAt)
	})
}

// GetItem retrieves one basket item by its display title.
func (s *PostgresStore) GetItem(ctx context.Context, title string) (*domain.Item, error) {
	item, err := scanItem(s.pool.QueryRow(ctx, queryGetItem, title))
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns every basket item in insertion order.
func (s *PostgresStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, queryListItems)
	if err != nil {
		return nil, fmt.Errorf("listing basket items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItemQuantity changes an item's quantity and clears stored results.
func (s *PostgresStore) UpdateItemQuantity(ctx context.Context, title string, quantity int) error {
	return s.inBasketTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, queryUpdateItemQuantity, title, quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("item %q: %w", title, ErrNotFound)
		}
		return nil
	})
}

// DeleteItem removes one basket item and clears stored results.
func (s *PostgresStore) DeleteItem(ctx context.Context, title string) error {
	return s.inBasketTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, queryDeleteItem, title)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("item %q: %w", title, ErrNotFound)
		}
		return nil
	})
}

// ClearBasket removes every basket item and clears stored results.
func (s *PostgresStore) ClearBasket(ctx context.Context) error {
	return s.inBasketTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, queryClearBasket)
		return err
	})
}

// CountItems returns the number of items currently in the basket.
func (s *PostgresStore) CountItems(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountItems).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting basket items: %w", err)
	}
	return n, nil
}

// inBasketTx runs fn and the staleness cleanup of deal_results in one
// transaction, so the basket and its computed results never diverge.
func (s *PostgresStore) inBasketTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, queryClearResults); err != nil {
		return fmt.Errorf("clearing stale results: %w", err)
	}
	return tx.Commit(ctx)
}

// SaveResults stores the snapshot of one deal computation.
func (s *PostgresStore) SaveResults(ctx context.Context, results *domain.DealResults) error {
	individual, err := json.Marshal(results.Individual)
	if err != nil {
		return fmt.Errorf("encoding individual deals: %w", err)
	}
	cumulative, err := json.Marshal(results.Cumulative)
	if err != nil {
		return fmt.Errorf("encoding cumulative deals: %w", err)
	}
	overall, err := json.Marshal(results.Overall)
	if err != nil {
		return fmt.Errorf("encoding overall deal: %w", err)
	}

	args := pgx.NamedArgs{
		"individual":  individual,
		"cumulative":  cumulative,
		"overall":     overall,
		"computed_at": results.ComputedAt,
	}
	if _, err := s.pool.Exec(ctx, querySaveResults, args); err != nil {
		return fmt.Errorf("saving deal results: %w", err)
	}
	return nil
}

// GetResults returns the last computed snapshot, or ErrNotFound when the
// basket changed since the last computation (or none ever ran).
func (s *PostgresStore) GetResults(ctx context.Context) (*domain.DealResults, error) {
	var (
		individual []byte
		cumulative []byte
		overall    []byte
		results    domain.DealResults
	)

	err := s.pool.QueryRow(ctx, queryGetResults).
		Scan(&individual, &cumulative, &overall, &results.ComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading deal results: %w", err)
	}

	if err := json.Unmarshal(individual, &results.Individual); err != nil {
		return nil, fmt.Errorf("decoding individual deals: %w", err)
	}
	if err := json.Unmarshal(cumulative, &results.Cumulative); err != nil {
		return nil, fmt.Errorf("decoding cumulative deals: %w", err)
	}
	if err := json.Unmarshal(overall, &results.Overall); err != nil {
		return nil, fmt.Errorf("decoding overall deal: %w", err)
	}
	return &results, nil
}

// ClearResults drops the stored snapshot.
func (s *PostgresStore) ClearResults(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, queryClearResults); err != nil {
		return fmt.Errorf("clearing deal results: %w", err)
	}
	return nil
}

// InsertJobRun records the start of a scheduled job and returns its id.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun finalizes a job run with its status and row count.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	if _, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected); err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns the most recent runs of one job, newest first.
func (s *PostgresStore) ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("listing job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var run domain.JobRun
		if err := rows.Scan(
			&run.ID, &run.JobName, &run.StartedAt, &run.CompletedAt,
			&run.Status, &run.ErrorText, &run.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item  domain.Item
		deals []byte
	)
	err := row.Scan(&item.Title, &item.URL, &item.Quantity, &deals, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning basket item: %w", err)
	}
	if err := json.Unmarshal(deals, &item.Deals); err != nil {
		return nil, fmt.Errorf("decoding deals: %w", err)
	}
	return &item, nil
}
