package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code)
	}
	return ""
}

func errText(err error) string {
	return strings.ToLower(err.Error())
}

// IsUniqueViolation reports a unique/primary key violation from either dialect.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation {
		return true
	}
	msg := errText(err)
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(errText(err), "foreign key constraint failed")
}

func IsNotNullViolation(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgNotNullViolation {
		return true
	}
	return strings.Contains(errText(err), "not null constraint failed")
}

// IsRetryable reports serialization failures, deadlocks and lock contention.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch pgCode(err) {
	case "40001", "40P01", "55P03":
		return true
	}
	msg := errText(err)
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "could not serialize")
}
