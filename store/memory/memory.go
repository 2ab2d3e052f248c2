// Package memory keeps records in process, for local work and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/report"
	"maxloyalty.com/backoffice/store"
)

type Store[T listmanager.Record] struct {
	mu     sync.RWMutex
	rows   []T
	nextID int
}

func New[T listmanager.Record](seed ...T) *Store[T] {
	s := &Store[T]{nextID: 1}
	for _, r := range seed {
		s.rows = append(s.rows, r)
		s.nextID = max(s.nextID, r.GetID()+1)
	}
	return s
}

func (s *Store[T]) List(_ context.Context, q store.Query) ([]T, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := listmanager.Filter(slices.Clone(s.rows), q.Search)
	total := len(matched)
	if q.Page < 1 {
		return matched, total, nil
	}
	limit := q.Limit
	if limit < 1 {
		limit = listmanager.DefaultItemsPerPage
	}
	return slices.Clone(listmanager.Paginate(matched, q.Page, limit)), total, nil
}

func (s *Store[T]) indexLocked(id int) int {
	return slices.IndexFunc(s.rows, func(r T) bool { return r.GetID() == id })
}

func (s *Store[T]) Get(_ context.Context, id int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d", store.ErrNotFound, id)
	}
	return s.rows[i], nil
}

func (s *Store[T]) Create(_ context.Context, record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := listmanager.SetField(&record, "id", strconv.Itoa(s.nextID)); err != nil {
		return record, err
	}
	s.nextID++
	s.rows = append(s.rows, record)
	return record, nil
}

func (s *Store[T]) Update(_ context.Context, record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(record.GetID())
	if i < 0 {
		return record, fmt.Errorf("%w: %d", store.ErrNotFound, record.GetID())
	}
	s.rows[i] = record
	return record, nil
}

func (s *Store[T]) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", store.ErrNotFound, id)
	}
	s.rows = slices.Delete(s.rows, i, i+1)
	return nil
}

// Patch applies changes keyed by field name. Either every change applies
// or none does.
func (s *Store[T]) Patch(_ context.Context, id int, changes map[string]any) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d", store.ErrNotFound, id)
	}
	record := s.rows[i]
	for name, value := range changes {
		if name == "id" {
			continue
		}
		if err := listmanager.SetField(&record, name, listmanager.PatchValue(value)); err != nil {
			return s.rows[i], err
		}
	}
	s.rows[i] = record
	return record, nil
}

// Transactions is an in-memory transaction log.
type Transactions struct {
	mu  sync.RWMutex
	txs []report.Transaction
}

func NewTransactions(txs ...report.Transaction) *Transactions {
	return &Transactions{txs: txs}
}

func (t *Transactions) Add(tx report.Transaction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.txs = append(t.txs, tx)
}

// Between returns the transactions dated within [from, to] by calendar day.
func (t *Transactions) Between(_ context.Context, from, to time.Time) ([]report.Transaction, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	end := to.AddDate(0, 0, 1)
	out := []report.Transaction{}
	for _, tx := range t.txs {
		if !tx.Fecha.Before(from) && tx.Fecha.Before(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}
