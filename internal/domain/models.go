package domain

import "time"

// QuizCategory groups stages and questions by topic.
type QuizCategory string

const (
	CategoryGeneral QuizCategory = "general"
	CategoryHistory QuizCategory = "history"
	CategoryScience QuizCategory = "science"
	CategorySports  QuizCategory = "sports"
	CategoryMusic   QuizCategory = "music"
)

// AllCategories lists every playable category in display order.
var AllCategories = []QuizCategory{
	CategoryGeneral,
	CategoryHistory,
	CategoryScience,
	CategorySports,
	CategoryMusic,
}

// QuizDifficulty is the difficulty tier of a stage or question.
type QuizDifficulty string

const (
	DifficultyEasy   QuizDifficulty = "easy"
	DifficultyMedium QuizDifficulty = "medium"
	DifficultyHard   QuizDifficulty = "hard"
)

// QuizType tags how a question is presented. Voice questions are
// content-tagged only; playback is a client concern.
type QuizType string

const (
	TypeMultipleChoice QuizType = "multipleChoice"
	TypeShortAnswer    QuizType = "shortAnswer"
	TypeVoice          QuizType = "voice"
)

// Defaults applied when content omits the stage fields.
const (
	DefaultRequiredAccuracy = 0.7
	DefaultStageQuestions   = 10
)

// User is a player profile with denormalized rolling stats. The rolling
// fields are a cache over the user's StageResult history and are
// recomputed wholesale after every completion, never mutated in place.
type User struct {
	ID                   string       `json:"id"`
	Username             string       `json:"username"`
	Email                string       `json:"email,omitempty"`
	ProfileImageURL      string       `json:"profileImageUrl,omitempty"`
	TotalStagesCompleted int          `json:"totalStagesCompleted"`
	TotalStars           int          `json:"totalStars"`
	CurrentStreak        int          `json:"currentStreak"`
	BestStreak           int          `json:"bestStreak"`
	FavoriteCategory     QuizCategory `json:"favoriteCategory,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

// Stage is a numbered bundle of questions within a (category, difficulty)
// group. Numbering is 1-based and contiguous per group. Stages are created
// during content load and immutable afterwards.
type Stage struct {
	ID               string         `json:"id"`
	StageNumber      int            `json:"stageNumber"`
	Category         QuizCategory   `json:"category"`
	Difficulty       QuizDifficulty `json:"difficulty"`
	Title            string         `json:"title"`
	RequiredAccuracy float64        `json:"requiredAccuracy"`
	TotalQuestions   int            `json:"totalQuestions"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// Question belongs to at most one stage. OrderInStage is 1..N and unique
// within a stage; zero means unassigned.
type Question struct {
	ID            string         `json:"id"`
	Prompt        string         `json:"prompt"`
	CorrectAnswer string         `json:"correctAnswer"`
	Options       []string       `json:"options,omitempty"`
	Category      QuizCategory   `json:"category"`
	Difficulty    QuizDifficulty `json:"difficulty"`
	Type          QuizType       `json:"type"`
	AudioURL      string         `json:"audioUrl,omitempty"`
	StageID       string         `json:"stageId,omitempty"`
	OrderInStage  int            `json:"orderInStage,omitempty"`
}

// StageResult records one completed stage attempt. Accuracy, stars, and
// IsCleared are derived once at creation and stored; retries create new
// records rather than overwriting.
type StageResult struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	StageID        string        `json:"stageId"`
	Score          int           `json:"score"`
	TotalQuestions int           `json:"totalQuestions"`
	Accuracy       float64       `json:"accuracy"`
	Stars          int           `json:"stars"`
	TimeSpent      time.Duration `json:"timeSpent"`
	IsCleared      bool          `json:"isCleared"`
	CompletedAt    time.Time     `json:"completedAt"`
}

// StageContent bundles a stage with its ordered questions, the unit the
// content cache stores and the game service consumes.
type StageContent struct {
	Stage     Stage      `json:"stage"`
	Questions []Question `json:"questions"`
}

// AnswerRecord is one entry in a live session's answer log.
type AnswerRecord struct {
	QuestionID string        `json:"questionId"`
	UserAnswer string        `json:"userAnswer"`
	IsCorrect  bool          `json:"isCorrect"`
	TimeSpent  time.Duration `json:"timeSpent"`
}

// GameProgress is a point-in-time view of a live session.
type GameProgress struct {
	CurrentQuestion int           `json:"currentQuestion"`
	TotalQuestions  int           `json:"totalQuestions"`
	CorrectAnswers  int           `json:"correctAnswers"`
	TimeElapsed     time.Duration `json:"timeElapsed"`
}

// UserStageStats aggregates a user's attempts across all stages.
// TotalStagesCompleted counts cleared attempts, and OverallAccuracy is
// attempt-weighted: retries change the denominator.
type UserStageStats struct {
	TotalStagesCompleted int     `json:"totalStagesCompleted"`
	TotalStars           int     `json:"totalStars"`
	OverallAccuracy      float64 `json:"overallAccuracy"`
}

// CategoryStageStats aggregates a user's attempts within one category.
// UnlockedStage is derived by walking the contiguous cleared chain from
// stage 1 forward, so out-of-order imports cannot inflate it.
type CategoryStageStats struct {
	CompletedStages int `json:"completedStages"`
	TotalStars      int `json:"totalStars"`
	UnlockedStage   int `json:"unlockedStage"`
}
