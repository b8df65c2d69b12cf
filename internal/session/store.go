// Package session persists per-client quiz statistics keyed by the
// session cookie. Stores are best-effort: two concurrent answers from the
// same session may overwrite each other.
package session

import (
	"context"
	"errors"
	"regexp"
	"time"

	"vocabquiz/internal/stats"
)

var (
	// ErrNotFound is returned when a session has no stored stats, or they expired.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidID is returned for ids that are not canonical UUIDs.
	ErrInvalidID = errors.New("invalid session ID format")
)

var validIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ValidID reports whether id is a canonical UUID string.
func ValidID(id string) bool {
	return validIDPattern.MatchString(id)
}

// Store loads and saves session stats.
type Store interface {
	Load(ctx context.Context, id string) (stats.Stats, error)
	Save(ctx context.Context, id string, s stats.Stats) error
	Delete(ctx context.Context, id string) error
}

// Cleaner is implemented by stores that need expired sessions swept.
type Cleaner interface {
	Cleanup(maxAge time.Duration) (int, error)
}

// CleanerFunc adapts a function to Cleaner.
type CleanerFunc func(maxAge time.Duration) (int, error)

func (f CleanerFunc) Cleanup(maxAge time.Duration) (int, error) { return f(maxAge) }

// StartCleanup sweeps c every interval until ctx is done. The report
// callback, when non-nil, receives each sweep's outcome.
func StartCleanup(ctx context.Context, c Cleaner, interval, maxAge time.Duration, report func(removed int, err error)) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := c.Cleanup(maxAge)
				if report != nil {
					report(removed, err)
				}
			}
		}
	}()
}
