package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"brainy-quiz-service/internal/domain"
)

type countingSource struct {
	calls   int
	content domain.StageContent
	err     error
}

func (s *countingSource) GetStageContent(_ context.Context, _ string) (domain.StageContent, error) {
	s.calls++
	if s.err != nil {
		return domain.StageContent{}, s.err
	}
	return s.content, nil
}

func TestContentCacheFillsOnMiss(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &countingSource{content: domain.StageContent{
		Stage:     domain.Stage{ID: "general_stage_1", Title: "General"},
		Questions: []domain.Question{{ID: "q1", Prompt: "p"}},
	}}
	cache := NewContentCache(client, source, time.Minute)

	ctx := context.Background()
	content, err := cache.GetStageContent(ctx, "general_stage_1")
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if content.Stage.Title != "General" || len(content.Questions) != 1 {
		t.Fatalf("unexpected content %+v", content)
	}
	if !mr.Exists("stage:general_stage_1:content") {
		t.Fatalf("expected cache key to be filled")
	}

	// Second read is served from Redis.
	if _, err := cache.GetStageContent(ctx, "general_stage_1"); err != nil {
		t.Fatalf("get content: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected a single source hit, got %d", source.calls)
	}
}

func TestContentCacheServesExistingBlob(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	stored := domain.StageContent{Stage: domain.Stage{ID: "science_stage_1"}}
	blob, _ := json.Marshal(stored)
	mr.Set("stage:science_stage_1:content", string(blob))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &countingSource{}
	cache := NewContentCache(client, source, time.Minute)

	content, err := cache.GetStageContent(context.Background(), "science_stage_1")
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if content.Stage.ID != "science_stage_1" {
		t.Fatalf("unexpected content %+v", content)
	}
	if source.calls != 0 {
		t.Fatalf("expected source untouched on a hit, got %d calls", source.calls)
	}
}

func TestContentCacheRefillsCorruptBlob(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	mr.Set("stage:general_stage_1:content", "{not json")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &countingSource{content: domain.StageContent{Stage: domain.Stage{ID: "general_stage_1"}}}
	cache := NewContentCache(client, source, time.Minute)

	content, err := cache.GetStageContent(context.Background(), "general_stage_1")
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if content.Stage.ID != "general_stage_1" || source.calls != 1 {
		t.Fatalf("expected refill from source, got %+v calls=%d", content, source.calls)
	}
}

// stageEchoSource is stateless so it is safe to call from many goroutines.
type stageEchoSource struct{}

func (stageEchoSource) GetStageContent(_ context.Context, stageID string) (domain.StageContent, error) {
	return domain.StageContent{Stage: domain.Stage{ID: stageID}}, nil
}

func TestContentCacheConcurrentFills(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewContentCache(client, stageEchoSource{}, time.Minute)

	ctx := context.Background()
	stageIDs := []string{"general_stage_1", "general_stage_2", "science_stage_1", "science_stage_2"}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		for _, stageID := range stageIDs {
			wg.Add(1)
			go func(stageID string) {
				defer wg.Done()
				content, err := cache.GetStageContent(ctx, stageID)
				if err != nil {
					t.Errorf("get content %s: %v", stageID, err)
					return
				}
				if content.Stage.ID != stageID {
					t.Errorf("got content for %s, want %s", content.Stage.ID, stageID)
				}
			}(stageID)
		}
	}
	wg.Wait()

	for _, stageID := range stageIDs {
		if !mr.Exists("stage:" + stageID + ":content") {
			t.Fatalf("expected cache key for %s", stageID)
		}
	}
}

func TestContentCachePropagatesSourceError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &countingSource{err: domain.ErrStageNotFound}
	cache := NewContentCache(client, source, time.Minute)

	if _, err := cache.GetStageContent(context.Background(), "nope"); !errors.Is(err, domain.ErrStageNotFound) {
		t.Fatalf("expected stage not found, got %v", err)
	}
	if mr.Exists("stage:nope:content") {
		t.Fatalf("errors must not be cached")
	}
}
