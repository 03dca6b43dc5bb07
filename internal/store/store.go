package store

import (
	"context"
	"errors"

	"github.com/folharh/holerite-sync/internal/model"
)

// Sentinel errors for the linkage operation. Callers match them with
// errors.Is.
var (
	// ErrNotFound indicates that no record exists with the given id.
	ErrNotFound = errors.New("holerite not found")

	// ErrInvalidFuncionario indicates a missing or invalid employee id.
	ErrInvalidFuncionario = errors.New("funcionario id is required")
)

// Store defines the persistence interface for ingested payslip records.
// The email_uid uniqueness constraint behind CreateIfAbsent is the sole
// dedup boundary across sync runs.
type Store interface {
	// IsKnown reports whether a record with that email_uid already
	// exists; when true the message must be skipped entirely.
	IsKnown(ctx context.Context, emailUID string) (bool, error)

	// CreateIfAbsent inserts the record unless one with the same
	// email_uid already exists (insert-or-ignore, atomic with respect
	// to the uniqueness constraint). It returns false when the insert
	// was ignored as a duplicate.
	CreateIfAbsent(ctx context.Context, h model.Holerite) (bool, error)

	// ListAll returns every record joined with the linked employee's
	// display name, newest message first.
	ListAll(ctx context.Context) ([]model.HoleriteWithFuncionario, error)

	// LinkFuncionario sets the employee reference on a record and marks
	// it processed. Returns ErrInvalidFuncionario when funcionarioID is
	// not positive and ErrNotFound when no record has that id.
	LinkFuncionario(ctx context.Context, id string, funcionarioID int64) error
}
