// Package store defines the persistence the development backend serves
// entity resources from.
package store

import (
	"context"
	"errors"
	"time"

	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/report"
)

var ErrNotFound = errors.New("record not found")

// Query selects a page of records. Page 0 returns everything.
type Query struct {
	Search string
	Page   int
	Limit  int
}

type Store[T listmanager.Record] interface {
	List(ctx context.Context, q Query) ([]T, int, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id int) error
	Patch(ctx context.Context, id int, changes map[string]any) (T, error)
}

// Transactions serves the transaction report.
type Transactions interface {
	Between(ctx context.Context, from, to time.Time) ([]report.Transaction, error)
}
