package repository

import (
	"context"
	"fmt"
	"time"

	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type transactor struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewTransactor creates a transactor. On PostgreSQL a positive lockTimeout bounds
// how long any statement inside the transaction waits for a row lock.
func NewTransactor(db *gorm.DB, lockTimeout time.Duration) domainRepo.Transactor {
	return &transactor{db: db, lockTimeout: lockTimeout}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the outer transaction
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(context.WithValue(ctx, txKey, tx))
	})
	return translateError(err)
}
