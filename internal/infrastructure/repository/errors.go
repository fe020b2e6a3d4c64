package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique constraint failure
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isRetryable reports whether err is a lock or serialization failure the client may retry
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.LockNotAvailable, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	}
	return false
}

// translateError maps driver failures to application errors. Application errors pass through.
func translateError(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	if isRetryable(err) {
		return apperror.ErrRetryable
	}
	return err
}
