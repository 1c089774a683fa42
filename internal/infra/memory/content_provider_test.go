package memory

import (
	"context"
	"errors"
	"testing"
	"time"

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

func TestContentProviderCaches(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{content: domain.StageContent{
		Stage:     domain.Stage{ID: "general_stage_1"},
		Questions: []domain.Question{{ID: "q1"}},
	}}
	provider := NewContentProvider(source, time.Minute)

	for i := 0; i < 3; i++ {
		content, err := provider.GetStageContent(ctx, "general_stage_1")
		if err != nil {
			t.Fatalf("get content: %v", err)
		}
		if content.Stage.ID != "general_stage_1" || len(content.Questions) != 1 {
			t.Fatalf("unexpected content %+v", content)
		}
	}
	if source.calls != 1 {
		t.Fatalf("expected a single source hit, got %d", source.calls)
	}
}

func TestContentProviderErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{err: domain.ErrStageNotFound}
	provider := NewContentProvider(source, time.Minute)

	if _, err := provider.GetStageContent(ctx, "nope"); !errors.Is(err, domain.ErrStageNotFound) {
		t.Fatalf("expected stage not found, got %v", err)
	}

	source.err = nil
	source.content = domain.StageContent{Stage: domain.Stage{ID: "nope"}}
	if _, err := provider.GetStageContent(ctx, "nope"); err != nil {
		t.Fatalf("expected recovery after source error, got %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected source retried, got %d calls", source.calls)
	}
}
