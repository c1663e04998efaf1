// Package store defines the datastore abstraction for basket-deal-tracker.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running
// database.
package store

import (
	"context"
	"errors"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines all data access operations for basket-deal-tracker.
//
// Computed deal results are a snapshot of the basket they were computed
// from: every operation that changes the basket (upsert, quantity change,
// delete, clear) also clears the stored results so stale deals are never
// served.
type Store interface {
	// Basket
	UpsertItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, title string) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	UpdateItemQuantity(ctx context.Context, title string, quantity int) error
	DeleteItem(ctx context.Context, title string) error
	ClearBasket(ctx context.Context) error
	CountItems(ctx context.Context) (int, error)

	// Deal results
	SaveResults(ctx context.Context, results *domain.DealResults) error
	GetResults(ctx context.Context) (*domain.DealResults, error)
	ClearResults(ctx context.Context) error

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
