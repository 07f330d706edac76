package services

import (
	"context"
	"fmt"
	"time"

	"github.com/haneul-lab/league-system/repositories"
)

const (
	retryBaseDelay   = 500 * time.Millisecond
	retryMaxAttempts = 3
)

// withTransientRetry выполняет fn, повторяя её при транзиентных ошибках
// Postgres (deadlock, lock timeout): базовая пауза 500мс, удвоение на каждой
// попытке. Исчерпание попыток оборачивается в ErrTransientStorage; любая
// нетранзиентная ошибка возвращается сразу.
func withTransientRetry(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= retryMaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !repositories.IsTransientError(lastErr) {
			return lastErr
		}
		if attempt == retryMaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%w: %s", ErrTransientStorage, lastErr)
}
