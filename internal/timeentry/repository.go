package timeentry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Repository is the persistence contract the cache depends on. Adapters
// live in internal/db (SQL) and internal/remote (HTTP).
type Repository interface {
	FetchByDate(ctx context.Context, date string) ([]TimeEntry, error)
	// FetchByRange returns entries whose date lies in [start, end].
	FetchByRange(ctx context.Context, start, end string) ([]TimeEntry, error)
	Create(ctx context.Context, d Draft) (TimeEntry, error)
	Update(ctx context.Context, e TimeEntry) (TimeEntry, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNetwork  = errors.New("network failure")
	ErrAuth     = errors.New("not authorized")
	ErrNotFound = errors.New("time entry not found")
)

// RepositoryError is how the cache surfaces a failed repository call.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

func repoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Op: op, Err: err}
}

const localPrefix = "local-"

// NewLocalID returns an id that no repository will ever assign.
func NewLocalID() string { return localPrefix + uuid.NewString() }

func IsLocalID(id string) bool { return strings.HasPrefix(id, localPrefix) }
