package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"brainy-quiz-service/internal/domain"
)

// ContentSource fetches stage content from a backing store.
type ContentSource interface {
	GetStageContent(ctx context.Context, stageID string) (domain.StageContent, error)
}

// ContentProvider caches stage content with TTL to avoid repeated store
// hits; stages are immutable after content load, so staleness is benign.
type ContentProvider struct {
	source ContentSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedContent
}

type cachedContent struct {
	content   domain.StageContent
	expiresAt time.Time
}

func NewContentProvider(source ContentSource, ttl time.Duration) *ContentProvider {
	return &ContentProvider{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		cache:  make(map[string]cachedContent),
	}
}

func (p *ContentProvider) GetStageContent(ctx context.Context, stageID string) (domain.StageContent, error) {
	now := p.clock()

	p.mu.RLock()
	if entry, ok := p.cache[stageID]; ok && entry.expiresAt.After(now) {
		p.mu.RUnlock()
		return entry.content, nil
	}
	p.mu.RUnlock()

	result, err, _ := p.sf.Do(stageID, func() (interface{}, error) {
		now := p.clock()
		p.mu.RLock()
		if entry, ok := p.cache[stageID]; ok && entry.expiresAt.After(now) {
			p.mu.RUnlock()
			return entry.content, nil
		}
		p.mu.RUnlock()

		content, err := p.source.GetStageContent(ctx, stageID)
		if err != nil {
			return domain.StageContent{}, err
		}

		p.mu.Lock()
		p.cache[stageID] = cachedContent{
			content:   content,
			expiresAt: now.Add(p.ttlWithJitter()),
		}
		p.mu.Unlock()
		return content, nil
	})
	if err != nil {
		return domain.StageContent{}, err
	}
	return result.(domain.StageContent), nil
}

func (p *ContentProvider) ttlWithJitter() time.Duration {
	if p.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(p.ttl) / 10
	return p.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
