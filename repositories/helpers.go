package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/haneul-lab/league-system/models"
)

// SQLExecutor покрывает и *sql.DB, и *sql.Tx: репозитории не знают, идёт ли
// вызов внутри транзакции.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// IsTransientError распознаёт ошибки Postgres, которые имеет смысл
// повторить: deadlock_detected и lock_not_available. Ошибка может прийти
// обёрнутой. Решение о ретрае — за сервисным слоем.
func IsTransientError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40P01", "55P03":
			return true
		}
	}
	return false
}

func marshalOrigin(origin *models.PlayerOrigin) (interface{}, error) {
	if origin == nil {
		return nil, nil
	}
	data, err := json.Marshal(origin)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player origin: %w", err)
	}
	return data, nil
}

func unmarshalOrigin(data []byte) (*models.PlayerOrigin, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var origin models.PlayerOrigin
	if err := json.Unmarshal(data, &origin); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player origin: %w", err)
	}
	return &origin, nil
}
