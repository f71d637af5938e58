package repository

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

// CounterRepository reads completed-unit counters from Redis. Counters are
// kept as one hash per (batch, learner) under progress:<batchID>:<learnerID>,
// with the activity id as field and the completed count as value.
type CounterRepository struct {
	client *goredis.Client
}

// NewCounterRepository creates a new CounterRepository over the given client.
func NewCounterRepository(client *goredis.Client) *CounterRepository {
	return &CounterRepository{client: client}
}

// CompletedCounts fetches the completed counts for a learner's activities in
// one round trip. Activities with no counter are reported as zero: a learner
// who never started simply has nothing recorded yet.
func (r *CounterRepository) CompletedCounts(ctx context.Context, batchID, learnerID string, activityIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(activityIDs))
	if len(activityIDs) == 0 {
		return counts, nil
	}

	key := counterKey(batchID, learnerID)
	values, err := r.client.HMGet(ctx, key, activityIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("read counters %s: %w", key, err)
	}

	for i, activityID := range activityIDs {
		counts[activityID] = parseCount(values[i])
	}

	return counts, nil
}

func counterKey(batchID, learnerID string) string {
	return fmt.Sprintf("progress:%s:%s", batchID, learnerID)
}

// parseCount tolerates absent fields and junk values, both read as zero.
func parseCount(value interface{}) int {
	s, ok := value.(string)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
