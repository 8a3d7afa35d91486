package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker remembers processed status events so carrier retries are ignored.
// Key format: backoffice:event:<order_number>:<status>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client, ttl: dedupTTL}
}

// IsDuplicate reports whether this exact event has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, orderNumber, status string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, eventKey(orderNumber, status, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the event. SETNX keeps the first marker's TTL on replays.
func (d *DedupChecker) Mark(ctx context.Context, orderNumber, status string, ts time.Time) error {
	return d.client.SetNX(ctx, eventKey(orderNumber, status, ts), "1", d.ttl).Err()
}

func eventKey(orderNumber, status string, ts time.Time) string {
	return fmt.Sprintf("backoffice:event:%s:%s:%d", orderNumber, status, ts.Unix())
}
