package quota

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS generation_quota (
	client_key       TEXT PRIMARY KEY,
	remaining        INTEGER NOT NULL,
	last_reset_month TEXT NOT NULL
)`

// Store handles generation_quota persistence.
type Store struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema creates the quota table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}

// Use atomically checks the monthly quota and deducts one generation.
// The counter resets to monthly when last_reset_month is behind the current month.
// Returns ErrQuotaExceeded when 0 rows are updated (quota exhausted or client absent).
func (s *Store) Use(ctx context.Context, client string, monthly int) error {
	month := s.now().UTC().Format(monthLayout)

	tag, err := s.db.Exec(ctx, `
		UPDATE generation_quota SET
			remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE remaining - 1 END,
			last_reset_month = $1
		WHERE client_key = $3 AND (last_reset_month < $1 OR remaining > 0)
	`, month, monthly, client)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// EnsureClient inserts a row with the full monthly allowance; existing rows are left alone.
func (s *Store) EnsureClient(ctx context.Context, client string, monthly int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO generation_quota (client_key, remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_key) DO NOTHING
	`, client, monthly, s.now().UTC().Format(monthLayout))
	return err
}

// Remaining reports the generations left this month; unknown clients have the full allowance.
func (s *Store) Remaining(ctx context.Context, client string, monthly int) (int, error) {
	var remaining int
	var month string
	err := s.db.QueryRow(ctx,
		`SELECT remaining, last_reset_month FROM generation_quota WHERE client_key = $1`, client,
	).Scan(&remaining, &month)
	if err != nil {
		if isNoRows(err) {
			return monthly, nil
		}
		return 0, err
	}
	if month < s.now().UTC().Format(monthLayout) {
		return monthly, nil
	}
	return remaining, nil
}
