package httperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindSlotConflict Kind = "slot_conflict"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindPersistence  Kind = "persistence"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// ErrBusiness keeps the plain code-only form used by domain rules.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrValidation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func ErrConflict(code, message string) error {
	return BusinessError{Kind: KindSlotConflict, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ErrUnauthorized(code, message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// PersistenceError wraps a storage failure that has no better classification.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func ErrPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var be BusinessError
	if errors.As(err, &be) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	return KindPersistence
}

// IsUniqueViolation reports a duplicate-key error from postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite without error translation
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
