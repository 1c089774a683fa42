package domain

import "time"

// UserOverallStats is the profile-screen aggregate over all results.
type UserOverallStats struct {
	TotalStagesCompleted int           `json:"totalStagesCompleted"`
	TotalStars           int           `json:"totalStars"`
	OverallAccuracy      float64       `json:"overallAccuracy"`
	CurrentStreak        int           `json:"currentStreak"`
	BestStreak           int           `json:"bestStreak"`
	TotalPlayTime        time.Duration `json:"totalPlayTime"`
	AverageStageTime     time.Duration `json:"averageStageTime"`
}

// CategoryStats summarizes a user's standing in one category.
type CategoryStats struct {
	Category        QuizCategory  `json:"category"`
	CompletedStages int           `json:"completedStages"`
	TotalStages     int           `json:"totalStages"`
	TotalStars      int           `json:"totalStars"`
	MaxStars        int           `json:"maxStars"`
	Accuracy        float64       `json:"accuracy"`
	AverageTime     time.Duration `json:"averageTime"`
	UnlockedStage   int           `json:"unlockedStage"`
}

// RecentActivity is a feed entry derived from a stage result.
type RecentActivity struct {
	ID          string        `json:"id"`
	StageID     string        `json:"stageId"`
	Score       int           `json:"score"`
	Stars       int           `json:"stars"`
	Accuracy    float64       `json:"accuracy"`
	TimeSpent   time.Duration `json:"timeSpent"`
	CompletedAt time.Time     `json:"completedAt"`
	IsCleared   bool          `json:"isCleared"`
}

// Achievement is an unlocked badge from the fixed rule table.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IconName    string    `json:"iconName"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// TimeRange selects the rolling window for trend analysis.
type TimeRange string

const (
	RangeWeek        TimeRange = "week"
	RangeMonth       TimeRange = "month"
	RangeThreeMonths TimeRange = "threeMonths"
	RangeYear        TimeRange = "year"
)

// TrendPoint is one sample in a performance time series.
type TrendPoint struct {
	Date      time.Time     `json:"date"`
	Accuracy  float64       `json:"accuracy"`
	Score     int           `json:"score"`
	TimeSpent time.Duration `json:"timeSpent"`
}

// PerformanceTrend is the windowed series plus its summary numbers.
// ImprovementRate compares the average accuracy of the second half of the
// window against the first half.
type PerformanceTrend struct {
	TimeRange       TimeRange    `json:"timeRange"`
	DataPoints      []TrendPoint `json:"dataPoints"`
	AverageAccuracy float64      `json:"averageAccuracy"`
	ImprovementRate float64      `json:"improvementRate"`
}

// RecommendedStage suggests the next stage to attempt in a category.
type RecommendedStage struct {
	Stage    Stage   `json:"stage"`
	Reason   string  `json:"reason"`
	Priority float64 `json:"priority"`
}

// LeaderboardEntry is a ranked row. Entries are mocked; real multi-user
// ranking is out of scope.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Score    int     `json:"score"`
	Stars    int     `json:"stars"`
	Accuracy float64 `json:"accuracy"`
}
