package challenge

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/internal/dependencies/clock"
	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/storage"
)

// Fixed lockout constants. Not runtime-configurable.
const (
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// LockoutTracker counts recent failed challenge attempts per client
// identifier and decides whether further attempts are blocked. It is a
// fixed-window limiter over the append-only attempt log: nothing is ever
// deleted, reads just filter by age.
type LockoutTracker struct {
	storage storage.Storage
	clock   clock.Clock
}

// NewLockoutTracker creates a lockout tracker
func NewLockoutTracker(store storage.Storage, clk clock.Clock) *LockoutTracker {
	return &LockoutTracker{storage: store, clock: clk}
}

// Locked reports whether the client has reached the failure cap within the
// trailing window
func (t *LockoutTracker) Locked(ctx context.Context, clientID string) (bool, error) {
	failures, err := t.FailuresInWindow(ctx, clientID)
	if err != nil {
		return false, err
	}
	return failures >= MaxAttempts, nil
}

// FailuresInWindow returns the number of failures recorded for the client
// within the trailing lockout window. Lockout decisions and
// remaining-attempt counts both derive from this one query so the two can
// never drift apart.
func (t *LockoutTracker) FailuresInWindow(ctx context.Context, clientID string) (int, error) {
	since := t.clock.Now().Add(-LockoutWindow)
	return t.storage.CountFailedAttempts(ctx, clientID, since)
}

// Record appends one attempt record, successful or not
func (t *LockoutTracker) Record(ctx context.Context, clientID string, success bool) error {
	return t.storage.RecordAttempt(ctx, &model.AuthAttempt{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Success:   success,
		CreatedAt: t.clock.Now(),
	})
}
