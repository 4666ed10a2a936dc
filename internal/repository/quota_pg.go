package repository

import (
	"context"
	"fmt"

	drepo "DivScout/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgQuotaStore accounts AI credits through a database stored procedure. The
// pool is injected and owned by the caller's lifecycle, not read from any
// package-level state.
type PgQuotaStore struct {
	pool *pgxpool.Pool
}

func NewPgQuotaStore(pool *pgxpool.Pool) *PgQuotaStore {
	return &PgQuotaStore{pool: pool}
}

// Consume decrements one credit for the user and returns the remaining
// balance. The stored procedure returns -1 when the quota is exhausted.
func (s *PgQuotaStore) Consume(ctx context.Context, userID string) (int, error) {
	var remaining int
	err := s.pool.QueryRow(ctx, "SELECT divscout.consume_ai_credit($1)", userID).Scan(&remaining)
	if err != nil {
		return 0, fmt.Errorf("consume ai credit: %w", err)
	}
	if remaining < 0 {
		return 0, drepo.ErrQuotaExceeded
	}
	return remaining, nil
}

func (s *PgQuotaStore) Close() {
	s.pool.Close()
}
