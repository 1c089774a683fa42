package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"brainy-quiz-service/internal/domain"
)

// QuizRepository is the durable bun-backed implementation of
// app.QuizRepository. Storage faults are wrapped and propagated; read
// misses return (nil, nil).
type QuizRepository struct {
	db *bun.DB
}

func NewQuizRepository(db *bun.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

type userRecord struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                   string    `bun:"id,pk"`
	Username             string    `bun:"username,notnull"`
	Email                string    `bun:"email"`
	ProfileImageURL      string    `bun:"profile_image_url"`
	TotalStagesCompleted int       `bun:"total_stages_completed"`
	TotalStars           int       `bun:"total_stars"`
	CurrentStreak        int       `bun:"current_streak"`
	BestStreak           int       `bun:"best_streak"`
	FavoriteCategory     string    `bun:"favorite_category"`
	CreatedAt            time.Time `bun:"created_at"`
	UpdatedAt            time.Time `bun:"updated_at"`
}

type stageRecord struct {
	bun.BaseModel `bun:"table:stages,alias:s"`

	ID               string    `bun:"id,pk"`
	StageNumber      int       `bun:"stage_number,notnull"`
	Category         string    `bun:"category,notnull"`
	Difficulty       string    `bun:"difficulty,notnull"`
	Title            string    `bun:"title,notnull"`
	RequiredAccuracy float64   `bun:"required_accuracy"`
	TotalQuestions   int       `bun:"total_questions"`
	CreatedAt        time.Time `bun:"created_at"`
}

type questionRecord struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            string   `bun:"id,pk"`
	Prompt        string   `bun:"prompt,notnull"`
	CorrectAnswer string   `bun:"correct_answer,notnull"`
	Options       []string `bun:"options,type:jsonb"`
	Category      string   `bun:"category,notnull"`
	Difficulty    string   `bun:"difficulty,notnull"`
	Type          string   `bun:"type,notnull"`
	AudioURL      string   `bun:"audio_url"`
	StageID       string   `bun:"stage_id,nullzero"`
	OrderInStage  int      `bun:"order_in_stage,nullzero"`
}

type stageResultRecord struct {
	bun.BaseModel `bun:"table:stage_results,alias:r"`

	ID             string    `bun:"id,pk"`
	UserID         string    `bun:"user_id,notnull"`
	StageID        string    `bun:"stage_id,notnull"`
	Score          int       `bun:"score,notnull"`
	TotalQuestions int       `bun:"total_questions,notnull"`
	Accuracy       float64   `bun:"accuracy,notnull"`
	Stars          int       `bun:"stars,notnull"`
	TimeSpentNS    int64     `bun:"time_spent_ns,notnull"`
	IsCleared      bool      `bun:"is_cleared,notnull"`
	CompletedAt    time.Time `bun:"completed_at"`
}

// Users

func (r *QuizRepository) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	now := time.Now()
	rec := &userRecord{
		ID:               uuid.NewString(),
		Username:         req.Username,
		Email:            req.Email,
		ProfileImageURL:  req.ProfileImageURL,
		FavoriteCategory: string(req.FavoriteCategory),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user := rec.toDomain()
	return &user, nil
}

func (r *QuizRepository) FetchUsers(ctx context.Context) ([]domain.User, error) {
	var recs []userRecord
	if err := r.db.NewSelect().Model(&recs).Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.toDomain())
	}
	return users, nil
}

func (r *QuizRepository) FetchUser(ctx context.Context, id string) (*domain.User, error) {
	rec := new(userRecord)
	err := r.db.NewSelect().Model(rec).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	user := rec.toDomain()
	return &user, nil
}

func (r *QuizRepository) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	rec := new(userRecord)
	err := r.db.NewSelect().Model(rec).Order("created_at ASC").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	user := rec.toDomain()
	return &user, nil
}

func (r *QuizRepository) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	var updated *domain.User
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rec := new(userRecord)
		err := tx.NewSelect().Model(rec).Where("u.id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if patch.Username != nil {
			rec.Username = *patch.Username
		}
		if patch.Email != nil {
			rec.Email = *patch.Email
		}
		if patch.ProfileImageURL != nil {
			rec.ProfileImageURL = *patch.ProfileImageURL
		}
		if patch.FavoriteCategory != nil {
			rec.FavoriteCategory = string(*patch.FavoriteCategory)
		}
		rec.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(rec).WherePK().Exec(ctx); err != nil {
			return err
		}
		user := rec.toDomain()
		updated = &user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (r *QuizRepository) UpdateUserStats(ctx context.Context, id string, patch domain.UserStatsPatch) (*domain.User, error) {
	var updated *domain.User
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rec := new(userRecord)
		err := tx.NewSelect().Model(rec).Where("u.id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if patch.TotalStagesCompleted != nil {
			rec.TotalStagesCompleted = *patch.TotalStagesCompleted
		}
		if patch.TotalStars != nil {
			rec.TotalStars = *patch.TotalStars
		}
		if patch.CurrentStreak != nil {
			rec.CurrentStreak = *patch.CurrentStreak
		}
		if patch.BestStreak != nil {
			rec.BestStreak = *patch.BestStreak
		}
		rec.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(rec).WherePK().Exec(ctx); err != nil {
			return err
		}
		user := rec.toDomain()
		updated = &user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user stats: %w", err)
	}
	return updated, nil
}

// RefreshUserStats recomputes the rolling counters from the stored result
// history inside one transaction.
func (r *QuizRepository) RefreshUserStats(ctx context.Context, id string) (*domain.User, error) {
	var updated *domain.User
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rec := new(userRecord)
		err := tx.NewSelect().Model(rec).Where("u.id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var results []stageResultRecord
		if err := tx.NewSelect().Model(&results).
			Where("user_id = ?", id).
			Order("completed_at ASC").
			Scan(ctx); err != nil {
			return err
		}

		rec.TotalStagesCompleted, rec.TotalStars = 0, 0
		bestRun, run := 0, 0
		for _, result := range results {
			if result.IsCleared {
				rec.TotalStagesCompleted++
				run++
				if run > bestRun {
					bestRun = run
				}
			} else {
				run = 0
			}
			rec.TotalStars += result.Stars
		}
		current := 0
		for i := len(results) - 1; i >= 0; i-- {
			if !results[i].IsCleared {
				break
			}
			current++
		}
		rec.CurrentStreak = current
		rec.BestStreak = bestRun
		rec.UpdatedAt = time.Now()

		if _, err := tx.NewUpdate().Model(rec).WherePK().Exec(ctx); err != nil {
			return err
		}
		user := rec.toDomain()
		updated = &user
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("refresh user stats: %w", err)
	}
	return updated, nil
}

func (r *QuizRepository) DeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := r.db.NewDelete().Model((*userRecord)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// Questions

func (r *QuizRepository) CreateQuestion(ctx context.Context, req domain.CreateQuestionRequest) (*domain.Question, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	rec := &questionRecord{
		ID:            id,
		Prompt:        req.Prompt,
		CorrectAnswer: req.CorrectAnswer,
		Options:       req.Options,
		Category:      string(req.Category),
		Difficulty:    string(req.Difficulty),
		Type:          string(req.Type),
		AudioURL:      req.AudioURL,
		StageID:       req.StageID,
		OrderInStage:  req.OrderInStage,
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	question := rec.toDomain()
	return &question, nil
}

func (r *QuizRepository) FetchQuestions(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	query := r.db.NewSelect().Model((*questionRecord)(nil))
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.Difficulty != nil {
		query = query.Where("difficulty = ?", string(*filter.Difficulty))
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.StageID != nil {
		query = query.Where("stage_id = ?", *filter.StageID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var recs []questionRecord
	if err := query.Order("id ASC").Scan(ctx, &recs); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(recs))
	for _, rec := range recs {
		questions = append(questions, rec.toDomain())
	}
	return questions, nil
}

func (r *QuizRepository) FetchQuestion(ctx context.Context, id string) (*domain.Question, error) {
	rec := new(questionRecord)
	err := r.db.NewSelect().Model(rec).Where("q.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch question: %w", err)
	}
	question := rec.toDomain()
	return &question, nil
}

func (r *QuizRepository) FetchQuestionsForStage(ctx context.Context, stageID string) ([]domain.Question, error) {
	var recs []questionRecord
	err := r.db.NewSelect().Model(&recs).
		Where("stage_id = ?", stageID).
		Order("order_in_stage ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch questions for stage: %w", err)
	}
	questions := make([]domain.Question, 0, len(recs))
	for _, rec := range recs {
		questions = append(questions, rec.toDomain())
	}
	return questions, nil
}

func (r *QuizRepository) UpdateQuestion(ctx context.Context, id string, patch domain.QuestionPatch) (*domain.Question, error) {
	var updated *domain.Question
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rec := new(questionRecord)
		err := tx.NewSelect().Model(rec).Where("q.id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if patch.Prompt != nil {
			rec.Prompt = *patch.Prompt
		}
		if patch.CorrectAnswer != nil {
			rec.CorrectAnswer = *patch.CorrectAnswer
		}
		if patch.Options != nil {
			rec.Options = *patch.Options
		}
		if patch.Category != nil {
			rec.Category = string(*patch.Category)
		}
		if patch.Difficulty != nil {
			rec.Difficulty = string(*patch.Difficulty)
		}
		if patch.Type != nil {
			rec.Type = string(*patch.Type)
		}
		if patch.AudioURL != nil {
			rec.AudioURL = *patch.AudioURL
		}
		if _, err := tx.NewUpdate().Model(rec).WherePK().Exec(ctx); err != nil {
			return err
		}
		question := rec.toDomain()
		updated = &question
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return updated, nil
}

func (r *QuizRepository) DeleteQuestion(ctx context.Context, id string) (bool, error) {
	res, err := r.db.NewDelete().Model((*questionRecord)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete question: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *QuizRepository) CountQuestions(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*questionRecord)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// Stages

func (r *QuizRepository) CreateStage(ctx context.Context, req domain.CreateStageRequest) (*domain.Stage, error) {
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
	rec := &stageRecord{
		ID:               id,
		StageNumber:      req.StageNumber,
		Category:         string(req.Category),
		Difficulty:       string(req.Difficulty),
		Title:            req.Title,
		RequiredAccuracy: requiredAccuracy,
		TotalQuestions:   totalQuestions,
		CreatedAt:        time.Now(),
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return nil, fmt.Errorf("create stage: %w", err)
	}
	stage := rec.toDomain()
	return &stage, nil
}

func (r *QuizRepository) FetchStage(ctx context.Context, id string) (*domain.Stage, error) {
	rec := new(stageRecord)
	err := r.db.NewSelect().Model(rec).Where("s.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch stage: %w", err)
	}
	stage := rec.toDomain()
	return &stage, nil
}

func (r *QuizRepository) FetchStagesByCategory(ctx context.Context, category domain.QuizCategory) ([]domain.Stage, error) {
	var recs []stageRecord
	err := r.db.NewSelect().Model(&recs).
		Where("category = ?", string(category)).
		Order("stage_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch stages by category: %w", err)
	}
	stages := make([]domain.Stage, 0, len(recs))
	for _, rec := range recs {
		stages = append(stages, rec.toDomain())
	}
	return stages, nil
}

func (r *QuizRepository) CountStagesByCategory(ctx context.Context, category domain.QuizCategory) (int, error) {
	count, err := r.db.NewSelect().Model((*stageRecord)(nil)).
		Where("category = ?", string(category)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count stages by category: %w", err)
	}
	return count, nil
}

// Stage results

// CreateStageResult derives accuracy, stars, and cleared status from the
// stage definition at creation time; the record is immutable afterwards.
func (r *QuizRepository) CreateStageResult(ctx context.Context, userID, stageID string, score int, timeSpent time.Duration) (*domain.StageResult, error) {
	var created *domain.StageResult
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		stage := new(stageRecord)
		err := tx.NewSelect().Model(stage).Where("s.id = ?", stageID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrStageNotFound
		}
		if err != nil {
			return err
		}

		accuracy, stars, cleared := domain.Grade(score, stage.TotalQuestions, stage.RequiredAccuracy)
		rec := &stageResultRecord{
			ID:             uuid.NewString(),
			UserID:         userID,
			StageID:        stageID,
			Score:          score,
			TotalQuestions: stage.TotalQuestions,
			Accuracy:       accuracy,
			Stars:          stars,
			TimeSpentNS:    int64(timeSpent),
			IsCleared:      cleared,
			CompletedAt:    time.Now(),
		}
		if _, err := tx.NewInsert().Model(rec).Exec(ctx); err != nil {
			return err
		}
		result := rec.toDomain()
		created = &result
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create stage result: %w", err)
	}
	return created, nil
}

func (r *QuizRepository) FetchStageResults(ctx context.Context, userID string, filter domain.ResultFilter) ([]domain.StageResult, error) {
	query := r.db.NewSelect().Model((*stageResultRecord)(nil)).
		Where("user_id = ?", userID).
		Order("completed_at DESC")
	if filter.StageID != nil {
		query = query.Where("stage_id = ?", *filter.StageID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var recs []stageResultRecord
	if err := query.Scan(ctx, &recs); err != nil {
		return nil, fmt.Errorf("fetch stage results: %w", err)
	}
	results := make([]domain.StageResult, 0, len(recs))
	for _, rec := range recs {
		results = append(results, rec.toDomain())
	}
	return results, nil
}

func (r *QuizRepository) FetchBestStageResult(ctx context.Context, userID, stageID string) (*domain.StageResult, error) {
	rec := new(stageResultRecord)
	err := r.db.NewSelect().Model(rec).
		Where("user_id = ?", userID).
		Where("stage_id = ?", stageID).
		Order("score DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch best stage result: %w", err)
	}
	result := rec.toDomain()
	return &result, nil
}

func (r *QuizRepository) DeleteStageResult(ctx context.Context, id string) (bool, error) {
	res, err := r.db.NewDelete().Model((*stageResultRecord)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete stage result: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// Progression reads

func (r *QuizRepository) IsStageUnlocked(ctx context.Context, userID, stageID string) (bool, error) {
	stage := new(stageRecord)
	err := r.db.NewSelect().Model(stage).Where("s.id = ?", stageID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrStageNotFound
	}
	if err != nil {
		return false, fmt.Errorf("is stage unlocked: %w", err)
	}
	if stage.StageNumber <= 1 {
		return true, nil
	}

	unlocked, err := r.db.NewSelect().Model((*stageResultRecord)(nil)).
		Join("JOIN stages AS prev ON prev.id = r.stage_id").
		Where("r.user_id = ?", userID).
		Where("r.is_cleared").
		Where("prev.category = ?", stage.Category).
		Where("prev.stage_number = ?", stage.StageNumber-1).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("is stage unlocked: %w", err)
	}
	return unlocked, nil
}

func (r *QuizRepository) GetUserStageStats(ctx context.Context, userID string) (domain.UserStageStats, error) {
	var recs []stageResultRecord
	if err := r.db.NewSelect().Model(&recs).Where("user_id = ?", userID).Scan(ctx); err != nil {
		return domain.UserStageStats{}, fmt.Errorf("user stage stats: %w", err)
	}

	stats := domain.UserStageStats{}
	totalScore, totalQuestions := 0, 0
	for _, rec := range recs {
		if rec.IsCleared {
			stats.TotalStagesCompleted++
		}
		stats.TotalStars += rec.Stars
		totalScore += rec.Score
		if rec.TotalQuestions > 0 {
			totalQuestions += rec.TotalQuestions
		} else {
			totalQuestions += domain.DefaultStageQuestions
		}
	}
	if totalQuestions > 0 {
		stats.OverallAccuracy = float64(totalScore) / float64(totalQuestions)
	}
	return stats, nil
}

func (r *QuizRepository) GetCategoryStageStats(ctx context.Context, userID string, category domain.QuizCategory) (domain.CategoryStageStats, error) {
	stages, err := r.FetchStagesByCategory(ctx, category)
	if err != nil {
		return domain.CategoryStageStats{}, err
	}

	var recs []stageResultRecord
	err = r.db.NewSelect().Model(&recs).
		Join("JOIN stages AS s ON s.id = r.stage_id").
		Where("r.user_id = ?", userID).
		Where("s.category = ?", string(category)).
		Scan(ctx)
	if err != nil {
		return domain.CategoryStageStats{}, fmt.Errorf("category stage stats: %w", err)
	}

	cleared := make(map[string]bool, len(stages))
	stats := domain.CategoryStageStats{}
	for _, rec := range recs {
		if rec.IsCleared {
			cleared[rec.StageID] = true
		}
		stats.TotalStars += rec.Stars
	}
	// Distinct cleared stages; replaying a cleared stage does not inflate
	// the count.
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

// Record conversions

func (rec *userRecord) toDomain() domain.User {
	return domain.User{
		ID:                   rec.ID,
		Username:             rec.Username,
		Email:                rec.Email,
		ProfileImageURL:      rec.ProfileImageURL,
		TotalStagesCompleted: rec.TotalStagesCompleted,
		TotalStars:           rec.TotalStars,
		CurrentStreak:        rec.CurrentStreak,
		BestStreak:           rec.BestStreak,
		FavoriteCategory:     domain.QuizCategory(rec.FavoriteCategory),
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
}

func (rec *stageRecord) toDomain() domain.Stage {
	return domain.Stage{
		ID:               rec.ID,
		StageNumber:      rec.StageNumber,
		Category:         domain.QuizCategory(rec.Category),
		Difficulty:       domain.QuizDifficulty(rec.Difficulty),
		Title:            rec.Title,
		RequiredAccuracy: rec.RequiredAccuracy,
		TotalQuestions:   rec.TotalQuestions,
		CreatedAt:        rec.CreatedAt,
	}
}

func (rec *questionRecord) toDomain() domain.Question {
	return domain.Question{
		ID:            rec.ID,
		Prompt:        rec.Prompt,
		CorrectAnswer: rec.CorrectAnswer,
		Options:       rec.Options,
		Category:      domain.QuizCategory(rec.Category),
		Difficulty:    domain.QuizDifficulty(rec.Difficulty),
		Type:          domain.QuizType(rec.Type),
		AudioURL:      rec.AudioURL,
		StageID:       rec.StageID,
		OrderInStage:  rec.OrderInStage,
	}
}

func (rec *stageResultRecord) toDomain() domain.StageResult {
	return domain.StageResult{
		ID:             rec.ID,
		UserID:         rec.UserID,
		StageID:        rec.StageID,
		Score:          rec.Score,
		TotalQuestions: rec.TotalQuestions,
		Accuracy:       rec.Accuracy,
		Stars:          rec.Stars,
		TimeSpent:      time.Duration(rec.TimeSpentNS),
		IsCleared:      rec.IsCleared,
		CompletedAt:    rec.CompletedAt,
	}
}
