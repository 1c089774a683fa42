package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"brainy-quiz-service/internal/domain"
)

// ContentSource fetches stage content from a backing store.
type ContentSource interface {
	GetStageContent(ctx context.Context, stageID string) (domain.StageContent, error)
}

// ContentCache keeps stage content in Redis as a JSON blob per stage and
// falls back to the source on a miss. Content is immutable after the
// initial load, so a TTL'd snapshot is safe to serve.
type ContentCache struct {
	client *redis.Client
	source ContentSource
	ttl    time.Duration
	sf     singleflight.Group
}

func NewContentCache(client *redis.Client, source ContentSource, ttl time.Duration) *ContentCache {
	return &ContentCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

func (c *ContentCache) GetStageContent(ctx context.Context, stageID string) (domain.StageContent, error) {
	key := c.contentKey(stageID)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var content domain.StageContent
		if jsonErr := json.Unmarshal(raw, &content); jsonErr == nil {
			return content, nil
		}
		// Corrupt entry: fall through and refill.
	}

	result, err, _ := c.sf.Do(stageID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var content domain.StageContent
			if jsonErr := json.Unmarshal(raw, &content); jsonErr == nil {
				return content, nil
			}
		}

		content, err := c.source.GetStageContent(ctx, stageID)
		if err != nil {
			return domain.StageContent{}, err
		}

		if data, err := json.Marshal(content); err == nil {
			// best-effort cache fill
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return content, nil
	})
	if err != nil {
		return domain.StageContent{}, err
	}
	return result.(domain.StageContent), nil
}

func (c *ContentCache) contentKey(stageID string) string {
	return "stage:" + stageID + ":content"
}

// ttlWithJitter uses the locked top-level rand source; fills for different
// stage ids run concurrently.
func (c *ContentCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
