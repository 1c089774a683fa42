package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"brainy-quiz-service/internal/domain"
)

// QuizRepository is an in-memory implementation of app.QuizRepository,
// used by tests and by the server when no Postgres URL is configured.
// A single RWMutex serializes writes, which is enough to keep the
// uniqueness and referential invariants.
type QuizRepository struct {
	clock func() time.Time

	mu        sync.RWMutex
	users     map[string]domain.User
	stages    map[string]domain.Stage
	questions map[string]domain.Question
	results   map[string]domain.StageResult
}

func NewQuizRepository() *QuizRepository {
	return NewQuizRepositoryWithClock(time.Now)
}

// NewQuizRepositoryWithClock allows deterministic timestamps in tests.
func NewQuizRepositoryWithClock(clock func() time.Time) *QuizRepository {
	return &QuizRepository{
		clock:     clock,
		users:     make(map[string]domain.User),
		stages:    make(map[string]domain.Stage),
		questions: make(map[string]domain.Question),
		results:   make(map[string]domain.StageResult),
	}
}

// Users

func (r *QuizRepository) CreateUser(_ context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	user := domain.User{
		ID:               uuid.NewString(),
		Username:         req.Username,
		Email:            req.Email,
		ProfileImageURL:  req.ProfileImageURL,
		FavoriteCategory: req.FavoriteCategory,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.users[user.ID] = user
	return &user, nil
}

func (r *QuizRepository) FetchUsers(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *QuizRepository) FetchUser(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

// FetchCurrentUser returns the oldest profile, the one created on first
// launch.
func (r *QuizRepository) FetchCurrentUser(_ context.Context) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var current *domain.User
	for id := range r.users {
		user := r.users[id]
		if current == nil || user.CreatedAt.Before(current.CreatedAt) {
			current = &user
		}
	}
	return current, nil
}

func (r *QuizRepository) UpdateUser(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.ProfileImageURL != nil {
		user.ProfileImageURL = *patch.ProfileImageURL
	}
	if patch.FavoriteCategory != nil {
		user.FavoriteCategory = *patch.FavoriteCategory
	}
	user.UpdatedAt = r.clock()
	r.users[id] = user
	return &user, nil
}

func (r *QuizRepository) UpdateUserStats(_ context.Context, id string, patch domain.UserStatsPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if patch.TotalStagesCompleted != nil {
		user.TotalStagesCompleted = *patch.TotalStagesCompleted
	}
	if patch.TotalStars != nil {
		user.TotalStars = *patch.TotalStars
	}
	if patch.CurrentStreak != nil {
		user.CurrentStreak = *patch.CurrentStreak
	}
	if patch.BestStreak != nil {
		user.BestStreak = *patch.BestStreak
	}
	user.UpdatedAt = r.clock()
	r.users[id] = user
	return &user, nil
}

// RefreshUserStats recomputes the rolling counters wholesale from the
// user's result history; incremental mutation drifts.
func (r *QuizRepository) RefreshUserStats(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	results := r.resultsForUserLocked(id)
	user.TotalStagesCompleted, user.TotalStars = 0, 0
	for _, result := range results {
		if result.IsCleared {
			user.TotalStagesCompleted++
		}
		user.TotalStars += result.Stars
	}
	user.CurrentStreak = streakFromNewest(results)
	user.BestStreak = longestRun(results)
	user.UpdatedAt = r.clock()
	r.users[id] = user
	return &user, nil
}

func (r *QuizRepository) DeleteUser(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

// Questions

func (r *QuizRepository) CreateQuestion(_ context.Context, req domain.CreateQuestionRequest) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	question := domain.Question{
		ID:            id,
		Prompt:        req.Prompt,
		CorrectAnswer: req.CorrectAnswer,
		Options:       append([]string(nil), req.Options...),
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		Type:          req.Type,
		AudioURL:      req.AudioURL,
		StageID:       req.StageID,
		OrderInStage:  req.OrderInStage,
	}
	r.questions[question.ID] = question
	return &question, nil
}

// FetchQuestions ANDs every supplied filter field.
func (r *QuizRepository) FetchQuestions(_ context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Question
	for _, question := range r.questions {
		if filter.Category != nil && question.Category != *filter.Category {
			continue
		}
		if filter.Difficulty != nil && question.Difficulty != *filter.Difficulty {
			continue
		}
		if filter.Type != nil && question.Type != *filter.Type {
			continue
		}
		if filter.StageID != nil && question.StageID != *filter.StageID {
			continue
		}
		matched = append(matched, question)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *QuizRepository) FetchQuestion(_ context.Context, id string) (*domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if question, ok := r.questions[id]; ok {
		return &question, nil
	}
	return nil, nil
}

func (r *QuizRepository) FetchQuestionsForStage(_ context.Context, stageID string) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var questions []domain.Question
	for _, question := range r.questions {
		if question.StageID == stageID {
			questions = append(questions, question)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].OrderInStage < questions[j].OrderInStage
	})
	return questions, nil
}

func (r *QuizRepository) UpdateQuestion(_ context.Context, id string, patch domain.QuestionPatch) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	question, ok := r.questions[id]
	if !ok {
		return nil, nil
	}
	if patch.Prompt != nil {
		question.Prompt = *patch.Prompt
	}
	if patch.CorrectAnswer != nil {
		question.CorrectAnswer = *patch.CorrectAnswer
	}
	if patch.Options != nil {
		question.Options = append([]string(nil), (*patch.Options)...)
	}
	if patch.Category != nil {
		question.Category = *patch.Category
	}
	if patch.Difficulty != nil {
		question.Difficulty = *patch.Difficulty
	}
	if patch.Type != nil {
		question.Type = *patch.Type
	}
	if patch.AudioURL != nil {
		question.AudioURL = *patch.AudioURL
	}
	r.questions[id] = question
	return &question, nil
}

func (r *QuizRepository) DeleteQuestion(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return false, nil
	}
	delete(r.questions, id)
	return true, nil
}

func (r *QuizRepository) CountQuestions(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.questions), nil
}

// Stages

func (r *QuizRepository) CreateStage(_ context.Context, req domain.CreateStageRequest) (*domain.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := req.ID
	if id == "" {
		id = domain.StageID(req.Category, req.StageNumber)
	}
	requiredAccuracy := req.RequiredAccuracy
	if requiredAccuracy == 0 {
		requiredAccuracy = domain.DefaultRequiredAccuracy
	}
	totalQuestions := req.TotalQuestions
	if totalQuestions == 0 {
		totalQuestions = domain.DefaultStageQuestions
	}
	stage := domain.Stage{
		ID:               id,
		StageNumber:      req.StageNumber,
		Category:         req.Category,
		Difficulty:       req.Difficulty,
		Title:            req.Title,
		RequiredAccuracy: requiredAccuracy,
		TotalQuestions:   totalQuestions,
		CreatedAt:        r.clock(),
	}
	r.stages[stage.ID] = stage
	return &stage, nil
}

func (r *QuizRepository) FetchStage(_ context.Context, id string) (*domain.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if stage, ok := r.stages[id]; ok {
		return &stage, nil
	}
	return nil, nil
}

func (r *QuizRepository) FetchStagesByCategory(_ context.Context, category domain.QuizCategory) ([]domain.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stagesByCategoryLocked(category), nil
}

func (r *QuizRepository) CountStagesByCategory(_ context.Context, category domain.QuizCategory) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stagesByCategoryLocked(category)), nil
}

func (r *QuizRepository) stagesByCategoryLocked(category domain.QuizCategory) []domain.Stage {
	var stages []domain.Stage
	for _, stage := range r.stages {
		if stage.Category == category {
			stages = append(stages, stage)
		}
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].StageNumber < stages[j].StageNumber })
	return stages
}

// Stage results

func (r *QuizRepository) CreateStageResult(_ context.Context, userID, stageID string, score int, timeSpent time.Duration) (*domain.StageResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage, ok := r.stages[stageID]
	if !ok {
		return nil, domain.ErrStageNotFound
	}

	accuracy, stars, cleared := domain.Grade(score, stage.TotalQuestions, stage.RequiredAccuracy)
	result := domain.StageResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		StageID:        stageID,
		Score:          score,
		TotalQuestions: stage.TotalQuestions,
		Accuracy:       accuracy,
		Stars:          stars,
		TimeSpent:      timeSpent,
		IsCleared:      cleared,
		CompletedAt:    r.clock(),
	}
	r.results[result.ID] = result
	return &result, nil
}

func (r *QuizRepository) FetchStageResults(_ context.Context, userID string, filter domain.ResultFilter) ([]domain.StageResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []domain.StageResult
	for _, result := range r.results {
		if result.UserID != userID {
			continue
		}
		if filter.StageID != nil && result.StageID != *filter.StageID {
			continue
		}
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CompletedAt.After(results[j].CompletedAt)
	})
	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
	}
	return results, nil
}

func (r *QuizRepository) FetchBestStageResult(_ context.Context, userID, stageID string) (*domain.StageResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *domain.StageResult
	for id := range r.results {
		result := r.results[id]
		if result.UserID != userID || result.StageID != stageID {
			continue
		}
		if best == nil || result.Score > best.Score {
			best = &result
		}
	}
	return best, nil
}

func (r *QuizRepository) DeleteStageResult(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.results[id]; !ok {
		return false, nil
	}
	delete(r.results, id)
	return true, nil
}

// Progression reads

// IsStageUnlocked: stage 1 of any group is always unlocked; stage N>1
// requires a cleared result for stage N-1 in the same category.
func (r *QuizRepository) IsStageUnlocked(_ context.Context, userID, stageID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stage, ok := r.stages[stageID]
	if !ok {
		return false, domain.ErrStageNotFound
	}
	if stage.StageNumber <= 1 {
		return true, nil
	}

	var previous *domain.Stage
	for id := range r.stages {
		candidate := r.stages[id]
		if candidate.Category == stage.Category && candidate.StageNumber == stage.StageNumber-1 {
			previous = &candidate
			break
		}
	}
	if previous == nil {
		return false, nil
	}

	for _, result := range r.results {
		if result.UserID == userID && result.StageID == previous.ID && result.IsCleared {
			return true, nil
		}
	}
	return false, nil
}

func (r *QuizRepository) GetUserStageStats(_ context.Context, userID string) (domain.UserStageStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.UserStageStats{}
	totalScore, totalQuestions := 0, 0
	for _, result := range r.resultsForUserLocked(userID) {
		if result.IsCleared {
			stats.TotalStagesCompleted++
		}
		stats.TotalStars += result.Stars
		totalScore += result.Score
		if result.TotalQuestions > 0 {
			totalQuestions += result.TotalQuestions
		} else {
			totalQuestions += domain.DefaultStageQuestions
		}
	}
	if totalQuestions > 0 {
		stats.OverallAccuracy = float64(totalScore) / float64(totalQuestions)
	}
	return stats, nil
}

// GetCategoryStageStats counts distinct cleared stages, so replays never
// push CompletedStages past the stage count, and derives UnlockedStage by
// walking the contiguous cleared chain from stage 1; a cleared stage 3
// without stage 2 does not unlock stage 4.
func (r *QuizRepository) GetCategoryStageStats(_ context.Context, userID string, category domain.QuizCategory) (domain.CategoryStageStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stages := r.stagesByCategoryLocked(category)
	cleared := make(map[string]bool, len(stages))
	stats := domain.CategoryStageStats{}
	for _, result := range r.resultsForUserLocked(userID) {
		stage, ok := r.stages[result.StageID]
		if !ok || stage.Category != category {
			continue
		}
		if result.IsCleared {
			cleared[result.StageID] = true
		}
		stats.TotalStars += result.Stars
	}
	stats.CompletedStages = len(cleared)

	stats.UnlockedStage = 1
	for _, stage := range stages {
		if !cleared[stage.ID] {
			break
		}
		stats.UnlockedStage = stage.StageNumber + 1
	}
	return stats, nil
}

func (r *QuizRepository) resultsForUserLocked(userID string) []domain.StageResult {
	var results []domain.StageResult
	for _, result := range r.results {
		if result.UserID == userID {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CompletedAt.Before(results[j].CompletedAt)
	})
	return results
}

// streakFromNewest expects results sorted oldest first.
func streakFromNewest(results []domain.StageResult) int {
	streak := 0
	for i := len(results) - 1; i >= 0; i-- {
		if !results[i].IsCleared {
			break
		}
		streak++
	}
	return streak
}

// longestRun expects results sorted oldest first.
func longestRun(results []domain.StageResult) int {
	best, run := 0, 0
	for _, result := range results {
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
