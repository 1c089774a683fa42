package app

import (
	"context"
	"time"

	"brainy-quiz-service/internal/domain"
)

// QuizRepository is the typed CRUD and query facade over the persistent
// store (in-memory, Postgres, etc). Read misses return (nil, nil); storage
// faults propagate as errors. Writes on the same record id are serialized
// by the implementation.
type QuizRepository interface {
	// Users
	CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	FetchUsers(ctx context.Context) ([]domain.User, error)
	FetchUser(ctx context.Context, id string) (*domain.User, error)
	FetchCurrentUser(ctx context.Context) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	UpdateUserStats(ctx context.Context, id string, patch domain.UserStatsPatch) (*domain.User, error)
	RefreshUserStats(ctx context.Context, id string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)

	// Questions
	CreateQuestion(ctx context.Context, req domain.CreateQuestionRequest) (*domain.Question, error)
	FetchQuestions(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error)
	FetchQuestion(ctx context.Context, id string) (*domain.Question, error)
	FetchQuestionsForStage(ctx context.Context, stageID string) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, id string, patch domain.QuestionPatch) (*domain.Question, error)
	DeleteQuestion(ctx context.Context, id string) (bool, error)
	CountQuestions(ctx context.Context) (int, error)

	// Stages
	CreateStage(ctx context.Context, req domain.CreateStageRequest) (*domain.Stage, error)
	FetchStage(ctx context.Context, id string) (*domain.Stage, error)
	FetchStagesByCategory(ctx context.Context, category domain.QuizCategory) ([]domain.Stage, error)
	CountStagesByCategory(ctx context.Context, category domain.QuizCategory) (int, error)

	// Stage results
	CreateStageResult(ctx context.Context, userID, stageID string, score int, timeSpent time.Duration) (*domain.StageResult, error)
	FetchStageResults(ctx context.Context, userID string, filter domain.ResultFilter) ([]domain.StageResult, error)
	FetchBestStageResult(ctx context.Context, userID, stageID string) (*domain.StageResult, error)
	DeleteStageResult(ctx context.Context, id string) (bool, error)

	// Progression reads
	IsStageUnlocked(ctx context.Context, userID, stageID string) (bool, error)
	GetUserStageStats(ctx context.Context, userID string) (domain.UserStageStats, error)
	GetCategoryStageStats(ctx context.Context, userID string, category domain.QuizCategory) (domain.CategoryStageStats, error)
}

// ContentProvider serves stage content (stage plus ordered questions),
// possibly through a cache layer.
type ContentProvider interface {
	GetStageContent(ctx context.Context, stageID string) (domain.StageContent, error)
}

// SessionStore holds live game sessions keyed by session id. Sessions are
// process-lifetime state and do not survive a restart.
type SessionStore interface {
	Put(session *GameSession)
	Get(sessionID string) (*GameSession, bool)
	Delete(sessionID string)
	// Reap removes sessions idle since before cutoff and returns their ids.
	Reap(cutoff time.Time) []string
}

// RepositoryContentSource reads stage content straight from the repository.
// Cache layers wrap it.
type RepositoryContentSource struct {
	repo QuizRepository
}

func NewRepositoryContentSource(repo QuizRepository) *RepositoryContentSource {
	return &RepositoryContentSource{repo: repo}
}

func (s *RepositoryContentSource) GetStageContent(ctx context.Context, stageID string) (domain.StageContent, error) {
	stage, err := s.repo.FetchStage(ctx, stageID)
	if err != nil {
		return domain.StageContent{}, err
	}
	if stage == nil {
		return domain.StageContent{}, domain.ErrStageNotFound
	}
	questions, err := s.repo.FetchQuestionsForStage(ctx, stageID)
	if err != nil {
		return domain.StageContent{}, err
	}
	return domain.StageContent{Stage: *stage, Questions: questions}, nil
}
