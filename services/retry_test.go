package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWithTransientRetry_NonTransientFailsFast(t *testing.T) {
	boom := errors.New("constraint violation")
	calls := 0

	err := withTransientRetry(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithTransientRetry_RecoversAfterDeadlock(t *testing.T) {
	calls := 0

	err := withTransientRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40P01"}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithTransientRetry_WrappedErrorStillRetried(t *testing.T) {
	calls := 0

	err := withTransientRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("failed to store result: %w", &pq.Error{Code: "55P03"})
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithTransientRetry_Exhaustion(t *testing.T) {
	calls := 0

	err := withTransientRetry(context.Background(), func() error {
		calls++
		return &pq.Error{Code: "40P01"}
	})
	assert.ErrorIs(t, err, ErrTransientStorage)
	assert.Equal(t, retryMaxAttempts, calls)
}

func TestWithTransientRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := withTransientRetry(ctx, func() error {
		return &pq.Error{Code: "40P01"}
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
