package app_test

import (
	"context"
	"math"
	"testing"
	"time"

	"brainy-quiz-service/internal/app"
	"brainy-quiz-service/internal/domain"
	"brainy-quiz-service/internal/infra/memory"
)

// statsFixture seeds a repository with a controllable clock so result
// ordering is deterministic.
type statsFixture struct {
	repo   *memory.QuizRepository
	stats  *app.StatsService
	userID string
	clock  *time.Time
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := &start
	now := func() time.Time { return *clock }

	repo := memory.NewQuizRepositoryWithClock(now)
	seedContent(t, repo)
	user, err := repo.CreateUser(ctx, domain.CreateUserRequest{Username: "alice"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return &statsFixture{
		repo:   repo,
		stats:  app.NewStatsServiceWithClock(repo, now),
		userID: user.ID,
		clock:  clock,
	}
}

// play records one attempt at the given stage and advances the clock so
// each result gets a distinct timestamp. Stages are seeded with two
// questions, so score 2 clears and score 1 fails.
func (f *statsFixture) play(t *testing.T, stageID string, score int) {
	t.Helper()
	*f.clock = f.clock.Add(time.Hour)
	if _, err := f.repo.CreateStageResult(context.Background(), f.userID, stageID, score, 30*time.Second); err != nil {
		t.Fatalf("create result: %v", err)
	}
}

func TestOverallStatsStreaks(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture(t)

	// cleared, cleared, failed, cleared -> best 2, current 1
	f.play(t, "general_stage_1", 2)
	f.play(t, "general_stage_1", 2)
	f.play(t, "general_stage_1", 1)
	f.play(t, "general_stage_1", 2)

	stats, err := f.stats.GetUserOverallStats(ctx, f.userID)
	if err != nil {
		t.Fatalf("overall stats: %v", err)
	}
	if stats.BestStreak != 2 {
		t.Fatalf("expected best streak 2, got %d", stats.BestStreak)
	}
	if stats.CurrentStreak != 1 {
		t.Fatalf("expected current streak 1, got %d", stats.CurrentStreak)
	}
	if stats.TotalStagesCompleted != 3 {
		t.Fatalf("expected 3 cleared attempts, got %d", stats.TotalStagesCompleted)
	}
	if stats.TotalPlayTime != 2*time.Minute {
		t.Fatalf("expected 2m total play time, got %v", stats.TotalPlayTime)
	}
	if stats.AverageStageTime != 30*time.Second {
		t.Fatalf("expected 30s average, got %v", stats.AverageStageTime)
	}
}

func TestCategoryStatsUnlockChain(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture(t)

	f.play(t, "general_stage_1", 2)

	all, err := f.stats.GetUserCategoryStats(ctx, f.userID)
	if err != nil {
		t.Fatalf("category stats: %v", err)
	}

	var general domain.CategoryStats
	found := false
	for _, cs := range all {
		if cs.Category == domain.CategoryGeneral {
			general = cs
			found = true
		} else if cs.UnlockedStage != 1 {
			t.Fatalf("untouched category %s should have stage 1 unlocked, got %d", cs.Category, cs.UnlockedStage)
		}
	}
	if !found {
		t.Fatalf("general category missing from %+v", all)
	}
	if general.CompletedStages != 1 {
		t.Fatalf("expected 1 completed stage, got %d", general.CompletedStages)
	}
	if general.UnlockedStage != 2 {
		t.Fatalf("clearing stage 1 should unlock stage 2, got %d", general.UnlockedStage)
	}
	if general.TotalStages != 2 || general.MaxStars != 6 {
		t.Fatalf("unexpected stage totals %+v", general)
	}
	if general.Accuracy != 1.0 {
		t.Fatalf("expected accuracy 1.0 over actual question counts, got %v", general.Accuracy)
	}
}

func TestRecentActivityNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture(t)

	f.play(t, "general_stage_1", 1)
	f.play(t, "general_stage_1", 2)
	f.play(t, "general_stage_1", 2)

	activity, err := f.stats.GetRecentActivity(ctx, f.userID, 2)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(activity) != 2 {
		t.Fatalf("expected limit 2, got %d entries", len(activity))
	}
	if !activity[0].CompletedAt.After(activity[1].CompletedAt) {
		t.Fatalf("expected newest first, got %v then %v", activity[0].CompletedAt, activity[1].CompletedAt)
	}
	if !activity[0].IsCleared {
		t.Fatalf("newest result should be cleared")
	}
}

func TestAchievements(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture(t)

	achievements, err := f.stats.GetAchievements(ctx, f.userID)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	if len(achievements) != 0 {
		t.Fatalf("fresh user should have no achievements, got %+v", achievements)
	}

	// 10 perfect clears: 10 stages, 30 stars, 100% accuracy.
	for i := 0; i < 10; i++ {
		f.play(t, "general_stage_1", 2)
	}
	achievements, err = f.stats.GetAchievements(ctx, f.userID)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	got := map[string]bool{}
	for _, a := range achievements {
		got[a.ID] = true
	}
	if !got["stages_10"] || !got["accuracy_90"] {
		t.Fatalf("expected stages_10 and accuracy_90, got %+v", achievements)
	}
	if got["stars_50"] {
		t.Fatalf("30 stars should not unlock stars_50")
	}
}

func TestPerformanceTrendImprovement(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture(t)

	// Two failing attempts then two perfect ones within the window.
	f.play(t, "general_stage_1", 1)
	f.play(t, "general_stage_1", 1)
	f.play(t, "general_stage_1", 2)
	f.play(t, "general_stage_1", 2)

	trend, err := f.stats.GetPerformanceTrend(ctx, f.userID, domain.RangeWeek)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(trend.DataPoints) != 4 {
		t.Fatalf("expected 4 points, got %d", len(trend.DataPoints))
	}
	for i := 1; i < len(trend.DataPoints); i++ {
		if trend.DataPoints[i].Date.Before(trend.DataPoints[i-1].Date) {
			t.Fatalf("points must be ordered oldest first")
		}
	}
	if math.Abs(trend.AverageAccuracy-0.75) > 1e-9 {
		t.Fatalf("expected average accuracy 0.75, got %v", trend.AverageAccuracy)
	}
	if math.Abs(trend.ImprovementRate-0.5) > 1e-9 {
		t.Fatalf("expected improvement 0.5, got %v", trend.ImprovementRate)
	}
}

func TestPerformanceTrendWindowExcludesOldResults(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture(t)

	f.play(t, "general_stage_1", 2)
	*f.clock = f.clock.Add(30 * 24 * time.Hour)
	f.play(t, "general_stage_1", 2)

	trend, err := f.stats.GetPerformanceTrend(ctx, f.userID, domain.RangeWeek)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(trend.DataPoints) != 1 {
		t.Fatalf("expected only the recent result in a week window, got %d", len(trend.DataPoints))
	}
	if trend.ImprovementRate != 0 {
		t.Fatalf("single point has no improvement rate, got %v", trend.ImprovementRate)
	}
}

func TestRecommendedStages(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture(t)

	f.play(t, "general_stage_1", 2)

	recommendations, err := f.stats.GetRecommendedStages(ctx, f.userID)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	var generalRec *domain.RecommendedStage
	for i := range recommendations {
		if recommendations[i].Stage.Category == domain.CategoryGeneral {
			generalRec = &recommendations[i]
		}
	}
	if generalRec == nil {
		t.Fatalf("expected a general recommendation, got %+v", recommendations)
	}
	if generalRec.Stage.StageNumber != 2 {
		t.Fatalf("expected stage 2 recommended next, got %d", generalRec.Stage.StageNumber)
	}
	if generalRec.Reason != "nextInSequence" {
		t.Fatalf("unexpected reason %q", generalRec.Reason)
	}
	// Untouched categories with no seeded stages contribute nothing.
	for _, rec := range recommendations {
		if rec.Priority < 0 || rec.Priority > 1 {
			t.Fatalf("priority out of range: %+v", rec)
		}
	}
}

func TestCategoryLeaderboardDeterministic(t *testing.T) {
	f := newStatsFixture(t)

	entries := f.stats.GetCategoryLeaderboard(domain.CategoryScience, 5)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, entry.Rank)
		}
		if i > 0 && entry.Score >= entries[i-1].Score {
			t.Fatalf("scores must descend: %+v", entries)
		}
	}
}
