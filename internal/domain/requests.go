package domain

// CreateUserRequest holds the fields needed to register a player.
type CreateUserRequest struct {
	Username         string
	Email            string
	ProfileImageURL  string
	FavoriteCategory QuizCategory
}

// UserPatch is a partial update: nil fields are left untouched.
type UserPatch struct {
	Username         *string
	Email            *string
	ProfileImageURL  *string
	FavoriteCategory *QuizCategory
}

// UserStatsPatch overrides individual rolling-stat counters. Prefer
// RefreshUserStats, which recomputes them from the result history.
type UserStatsPatch struct {
	TotalStagesCompleted *int
	TotalStars           *int
	CurrentStreak        *int
	BestStreak           *int
}

// CreateStageRequest carries one stage definition from the content loader.
// ID may be empty; the canonical "{category}_stage_{n}" id is generated.
type CreateStageRequest struct {
	ID               string
	StageNumber      int
	Category         QuizCategory
	Difficulty       QuizDifficulty
	Title            string
	RequiredAccuracy float64
	TotalQuestions   int
}

// CreateQuestionRequest carries one question definition. StageID and
// OrderInStage are optional; a zero OrderInStage means unassigned.
type CreateQuestionRequest struct {
	ID            string
	Prompt        string
	CorrectAnswer string
	Options       []string
	Category      QuizCategory
	Difficulty    QuizDifficulty
	Type          QuizType
	AudioURL      string
	StageID       string
	OrderInStage  int
}

// QuestionPatch is a partial update for content management; gameplay never
// mutates questions.
type QuestionPatch struct {
	Prompt        *string
	CorrectAnswer *string
	Options       *[]string
	Category      *QuizCategory
	Difficulty    *QuizDifficulty
	Type          *QuizType
	AudioURL      *string
}

// QuestionFilter selects questions. All supplied fields are ANDed.
type QuestionFilter struct {
	Category   *QuizCategory
	Difficulty *QuizDifficulty
	Type       *QuizType
	StageID    *string
	Limit      int
}

// ResultFilter selects a user's stage results, newest first.
type ResultFilter struct {
	StageID *string
	Limit   int
}
