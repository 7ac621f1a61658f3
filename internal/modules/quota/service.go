package quota

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Service applies the monthly allowance to generation requests.
type Service struct {
	store   *Store
	monthly int
}

func NewService(store *Store, monthly int) *Service {
	if monthly <= 0 {
		monthly = DefaultMonthly
	}
	return &Service{store: store, monthly: monthly}
}

// Use deducts one generation from the client's monthly allowance.
// If the client row does not exist yet it is initialised and the generation is immediately consumed.
func (s *Service) Use(ctx context.Context, client string) error {
	err := s.store.Use(ctx, client, s.monthly)
	if !errors.Is(err, ErrQuotaExceeded) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureClient(ctx, client, s.monthly); initErr != nil {
		return initErr
	}
	return s.store.Use(ctx, client, s.monthly)
}

func (s *Service) Remaining(ctx context.Context, client string) (int, error) {
	return s.store.Remaining(ctx, client, s.monthly)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
