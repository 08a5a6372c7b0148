package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/librarydesk/library-admin/internal/core/domain"
)

const dedupTTL = time.Hour

// LoanDedup remembers idempotency keys of take/free requests.
// Key format: loan:<action>:<book_id>:<idempotency_key>
type LoanDedup struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLoanDedup(client *redis.Client) *LoanDedup {
	return &LoanDedup{client: client, ttl: dedupTTL}
}

// Reserve claims the key with SET NX; false means an earlier request holds it.
// The key expires after the dedup TTL.
func (d *LoanDedup) Reserve(ctx context.Context, action domain.LoanAction, bookID int64, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, dedupKey(action, bookID, key), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup reserve: %w", err)
	}
	return ok, nil
}

// Release drops a reservation whose request failed.
func (d *LoanDedup) Release(ctx context.Context, action domain.LoanAction, bookID int64, key string) error {
	if err := d.client.Del(ctx, dedupKey(action, bookID, key)).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}

func dedupKey(action domain.LoanAction, bookID int64, key string) string {
	return fmt.Sprintf("loan:%s:%d:%s", action, bookID, key)
}
