package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/report"
	"maxloyalty.com/backoffice/store"
)

// Store is a table of records of type T. Search matches the listed
// columns joined with spaces, as the list pages do.
type Store[T listmanager.Record] struct {
	db            *gorm.DB
	searchColumns []string
}

func New[T listmanager.Record](db *gorm.DB, searchColumns []string) *Store[T] {
	return &Store[T]{db: db, searchColumns: searchColumns}
}

func searchScope(columns []string, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = "`" + strings.ReplaceAll(c, "`", "") + "`"
		}
		expr := fmt.Sprintf("LOWER(CONCAT_WS(' ', %s)) LIKE ?", strings.Join(quoted, ", "))
		return db.Where(expr, "%"+strings.ToLower(term)+"%")
	}
}

func (s *Store[T]) List(ctx context.Context, q store.Query) ([]T, int, error) {
	var rows []T
	query := s.db.WithContext(ctx).Model(new(T)).Scopes(searchScope(s.searchColumns, q.Search))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("id ASC")
	if q.Page > 0 {
		limit := q.Limit
		if limit < 1 {
			limit = listmanager.DefaultItemsPerPage
		}
		query = query.Limit(limit).Offset((q.Page - 1) * limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, int(total), nil
}

func (s *Store[T]) Get(ctx context.Context, id int) (T, error) {
	var row T
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, fmt.Errorf("%w: %d", store.ErrNotFound, id)
	}
	return row, err
}

func (s *Store[T]) Create(ctx context.Context, record T) (T, error) {
	err := s.db.WithContext(ctx).Create(&record).Error
	return record, err
}

func (s *Store[T]) Update(ctx context.Context, record T) (T, error) {
	if _, err := s.Get(ctx, record.GetID()); err != nil {
		return record, err
	}
	err := s.db.WithContext(ctx).Save(&record).Error
	return record, err
}

func (s *Store[T]) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", store.ErrNotFound, id)
	}
	return nil
}

// Patch updates the named columns. Column names match the JSON names.
func (s *Store[T]) Patch(ctx context.Context, id int, changes map[string]any) (T, error) {
	delete(changes, "id")
	if len(changes) > 0 {
		res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			var zero T
			return zero, res.Error
		}
	}
	return s.Get(ctx, id)
}

const TransactionsTable = "transacciones"

type transactionRow struct {
	ID              int       `gorm:"primaryKey;column:id"`
	Fecha           time.Time `gorm:"index;column:fecha"`
	Canal           string    `gorm:"size:30;column:canal"`
	TipoCombustible string    `gorm:"size:20;column:tipo_combustible"`
	Monto           float64   `gorm:"column:monto"`
	Descuento       float64   `gorm:"column:descuento"`
	Unidades        float64   `gorm:"column:unidades"`
	ClienteNombre   string    `gorm:"size:255;column:cliente_nombre"`
	Estacion        string    `gorm:"size:100;column:estacion"`
}

type Transactions struct {
	db *gorm.DB
}

func NewTransactions(db *gorm.DB) *Transactions {
	return &Transactions{db: db}
}

func (t *Transactions) Between(ctx context.Context, from, to time.Time) ([]report.Transaction, error) {
	var rows []transactionRow
	err := t.db.WithContext(ctx).Table(TransactionsTable).
		Where("fecha >= ? AND fecha < ?", from, to.AddDate(0, 0, 1)).
		Order("fecha ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.Transaction, len(rows))
	for i, r := range rows {
		out[i] = report.Transaction(r)
	}
	return out, nil
}
