package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"brainy-quiz-service/internal/domain"
)

// StatsService derives statistics from stored stage results. Nothing here
// is cached; every call recomputes from the repository.
type StatsService struct {
	repo QuizRepository
	now  func() time.Time
}

func NewStatsService(repo QuizRepository) *StatsService {
	return NewStatsServiceWithClock(repo, time.Now)
}

// NewStatsServiceWithClock is test-only for deterministic windows.
func NewStatsServiceWithClock(repo QuizRepository, now func() time.Time) *StatsService {
	return &StatsService{repo: repo, now: now}
}

// GetUserOverallStats combines the repository aggregates with streak and
// play-time scans over the full result history.
func (s *StatsService) GetUserOverallStats(ctx context.Context, userID string) (domain.UserOverallStats, error) {
	stats, err := s.repo.GetUserStageStats(ctx, userID)
	if err != nil {
		return domain.UserOverallStats{}, err
	}
	results, err := s.repo.FetchStageResults(ctx, userID, domain.ResultFilter{})
	if err != nil {
		return domain.UserOverallStats{}, err
	}

	return domain.UserOverallStats{
		TotalStagesCompleted: stats.TotalStagesCompleted,
		TotalStars:           stats.TotalStars,
		OverallAccuracy:      stats.OverallAccuracy,
		CurrentStreak:        currentStreak(results),
		BestStreak:           bestStreak(results),
		TotalPlayTime:        totalPlayTime(results),
		AverageStageTime:     averageStageTime(results),
	}, nil
}

// GetUserCategoryStats reports standing per category: completion, stars,
// accuracy over actual question counts, and the unlocked stage.
func (s *StatsService) GetUserCategoryStats(ctx context.Context, userID string) ([]domain.CategoryStats, error) {
	results, err := s.repo.FetchStageResults(ctx, userID, domain.ResultFilter{})
	if err != nil {
		return nil, err
	}

	all := make([]domain.CategoryStats, 0, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		stats, err := s.repo.GetCategoryStageStats(ctx, userID, category)
		if err != nil {
			return nil, err
		}
		stages, err := s.repo.FetchStagesByCategory(ctx, category)
		if err != nil {
			return nil, err
		}

		stageIDs := make(map[string]struct{}, len(stages))
		for _, stage := range stages {
			stageIDs[stage.ID] = struct{}{}
		}
		var categoryResults []domain.StageResult
		for _, result := range results {
			if _, ok := stageIDs[result.StageID]; ok {
				categoryResults = append(categoryResults, result)
			}
		}

		all = append(all, domain.CategoryStats{
			Category:        category,
			CompletedStages: stats.CompletedStages,
			TotalStages:     len(stages),
			TotalStars:      stats.TotalStars,
			MaxStars:        len(stages) * 3,
			Accuracy:        categoryAccuracy(categoryResults),
			AverageTime:     averageStageTime(categoryResults),
			UnlockedStage:   stats.UnlockedStage,
		})
	}
	return all, nil
}

// GetRecentActivity returns the newest results as feed entries.
func (s *StatsService) GetRecentActivity(ctx context.Context, userID string, limit int) ([]domain.RecentActivity, error) {
	results, err := s.repo.FetchStageResults(ctx, userID, domain.ResultFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	activity := make([]domain.RecentActivity, 0, len(results))
	for _, result := range results {
		activity = append(activity, domain.RecentActivity{
			ID:          result.ID,
			StageID:     result.StageID,
			Score:       result.Score,
			Stars:       result.Stars,
			Accuracy:    result.Accuracy,
			TimeSpent:   result.TimeSpent,
			CompletedAt: result.CompletedAt,
			IsCleared:   result.IsCleared,
		})
	}
	return activity, nil
}

type achievementRule struct {
	id          string
	title       string
	description string
	iconName    string
	earned      func(domain.UserOverallStats) bool
}

// achievementRules is the fixed badge table evaluated against aggregate
// counters.
var achievementRules = []achievementRule{
	{
		id:          "stages_10",
		title:       "Stage Master",
		description: "Complete 10 stages",
		iconName:    "star.fill",
		earned:      func(s domain.UserOverallStats) bool { return s.TotalStagesCompleted >= 10 },
	},
	{
		id:          "stars_50",
		title:       "Star Collector",
		description: "Earn 50 stars",
		iconName:    "star.circle.fill",
		earned:      func(s domain.UserOverallStats) bool { return s.TotalStars >= 50 },
	},
	{
		id:          "accuracy_90",
		title:       "Accuracy Master",
		description: "Reach 90% overall accuracy",
		iconName:    "target",
		earned:      func(s domain.UserOverallStats) bool { return s.OverallAccuracy >= 0.9 },
	},
}

// GetAchievements evaluates the rule table against the user's aggregates.
func (s *StatsService) GetAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	stats, err := s.GetUserOverallStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := make([]domain.Achievement, 0, len(achievementRules))
	for _, rule := range achievementRules {
		if rule.earned(stats) {
			unlocked = append(unlocked, domain.Achievement{
				ID:          rule.id,
				Title:       rule.title,
				Description: rule.description,
				IconName:    rule.iconName,
				UnlockedAt:  s.now(),
			})
		}
	}
	return unlocked, nil
}

// GetPerformanceTrend windows the result history and exposes it as a time
// series with an improvement rate (second-half accuracy minus first-half).
func (s *StatsService) GetPerformanceTrend(ctx context.Context, userID string, timeRange domain.TimeRange) (domain.PerformanceTrend, error) {
	results, err := s.repo.FetchStageResults(ctx, userID, domain.ResultFilter{})
	if err != nil {
		return domain.PerformanceTrend{}, err
	}

	windowed := filterByTimeRange(results, timeRange, s.now())
	sort.Slice(windowed, func(i, j int) bool {
		return windowed[i].CompletedAt.Before(windowed[j].CompletedAt)
	})

	points := make([]domain.TrendPoint, 0, len(windowed))
	for _, result := range windowed {
		points = append(points, domain.TrendPoint{
			Date:      result.CompletedAt,
			Accuracy:  result.Accuracy,
			Score:     result.Score,
			TimeSpent: result.TimeSpent,
		})
	}

	return domain.PerformanceTrend{
		TimeRange:       timeRange,
		DataPoints:      points,
		AverageAccuracy: averageAccuracy(windowed),
		ImprovementRate: improvementRate(windowed),
	}, nil
}

// GetRecommendedStages suggests the next unplayed stage per category,
// prioritizing categories with the least progress.
func (s *StatsService) GetRecommendedStages(ctx context.Context, userID string) ([]domain.RecommendedStage, error) {
	var recommendations []domain.RecommendedStage
	for _, category := range domain.AllCategories {
		stats, err := s.repo.GetCategoryStageStats(ctx, userID, category)
		if err != nil {
			return nil, err
		}
		stages, err := s.repo.FetchStagesByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		if stats.UnlockedStage > len(stages) {
			continue
		}
		for _, stage := range stages {
			if stage.StageNumber == stats.UnlockedStage {
				priority := 1.0
				if stats.UnlockedStage > 0 {
					priority = 1.0 - float64(stats.CompletedStages)/float64(stats.UnlockedStage)
				}
				recommendations = append(recommendations, domain.RecommendedStage{
					Stage:    stage,
					Reason:   "nextInSequence",
					Priority: priority,
				})
				break
			}
		}
	}
	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].Priority > recommendations[j].Priority
	})
	return recommendations, nil
}

// GetCategoryLeaderboard returns deterministic placeholder rankings.
// Computing real cross-user standings needs a server and is out of scope.
func (s *StatsService) GetCategoryLeaderboard(category domain.QuizCategory, limit int) []domain.LeaderboardEntry {
	if limit <= 0 {
		limit = 10
	}
	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rank := 1; rank <= limit; rank++ {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:     rank,
			UserID:   fmt.Sprintf("user-%d", rank),
			Username: fmt.Sprintf("Player %d", rank),
			Score:    1000 - rank*10,
			Stars:    30 - rank,
			Accuracy: 0.95 - float64(rank)*0.01,
		})
	}
	return entries
}

// currentStreak counts consecutive cleared results from the most recent
// backwards until the first failure.
func currentStreak(results []domain.StageResult) int {
	sorted := make([]domain.StageResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	streak := 0
	for _, result := range sorted {
		if !result.IsCleared {
			break
		}
		streak++
	}
	return streak
}

// bestStreak scans oldest to newest tracking the longest run of cleared
// results.
func bestStreak(results []domain.StageResult) int {
	sorted := make([]domain.StageResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})

	best, run := 0, 0
	for _, result := range sorted {
		if result.IsCleared {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

func totalPlayTime(results []domain.StageResult) time.Duration {
	var total time.Duration
	for _, result := range results {
		total += result.TimeSpent
	}
	return total
}

func averageStageTime(results []domain.StageResult) time.Duration {
	if len(results) == 0 {
		return 0
	}
	return totalPlayTime(results) / time.Duration(len(results))
}

// categoryAccuracy weights by each result's recorded question count;
// legacy records with a zero count fall back to the default stage size.
func categoryAccuracy(results []domain.StageResult) float64 {
	if len(results) == 0 {
		return 0
	}
	totalScore, totalQuestions := 0, 0
	for _, result := range results {
		totalScore += result.Score
		if result.TotalQuestions > 0 {
			totalQuestions += result.TotalQuestions
		} else {
			totalQuestions += domain.DefaultStageQuestions
		}
	}
	if totalQuestions == 0 {
		return 0
	}
	return float64(totalScore) / float64(totalQuestions)
}

func averageAccuracy(results []domain.StageResult) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, result := range results {
		sum += result.Accuracy
	}
	return sum / float64(len(results))
}

func improvementRate(sorted []domain.StageResult) float64 {
	if len(sorted) < 2 {
		return 0
	}
	half := len(sorted) / 2
	return averageAccuracy(sorted[len(sorted)-half:]) - averageAccuracy(sorted[:half])
}

func filterByTimeRange(results []domain.StageResult, timeRange domain.TimeRange, now time.Time) []domain.StageResult {
	var start time.Time
	switch timeRange {
	case domain.RangeWeek:
		start = now.AddDate(0, 0, -7)
	case domain.RangeMonth:
		start = now.AddDate(0, -1, 0)
	case domain.RangeThreeMonths:
		start = now.AddDate(0, -3, 0)
	case domain.RangeYear:
		start = now.AddDate(-1, 0, 0)
	default:
		start = now.AddDate(0, 0, -7)
	}

	var windowed []domain.StageResult
	for _, result := range results {
		if !result.CompletedAt.Before(start) {
			windowed = append(windowed, result)
		}
	}
	return windowed
}
