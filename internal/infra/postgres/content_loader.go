package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"brainy-quiz-service/internal/domain"
)

// ContentLoader bulk-inserts the initial stage and question content.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

// LoadInitialDataIfNeeded seeds content exactly once: if any question
// already exists the whole batch is skipped. Stages and questions go in
// within one transaction so a failure leaves nothing behind.
func (l *ContentLoader) LoadInitialDataIfNeeded(ctx context.Context, stages []domain.CreateStageRequest, questions []domain.CreateQuestionRequest) error {
	var existing int
	if err := l.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&existing); err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if existing > 0 {
		log.Printf("quiz content already loaded (%d questions), skipping seed", existing)
		return nil
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stage := range stages {
		if err := insertStage(ctx, tx, stage); err != nil {
			return err
		}
	}
	for _, question := range questions {
		if err := insertQuestion(ctx, tx, question); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	log.Printf("loaded %d stages and %d questions", len(stages), len(questions))
	return nil
}

func insertStage(ctx context.Context, tx pgx.Tx, req domain.CreateStageRequest) error {
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
	_, err := tx.Exec(ctx,
		`INSERT INTO stages (id, stage_number, category, difficulty, title, required_accuracy, total_questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, req.StageNumber, string(req.Category), string(req.Difficulty), req.Title, requiredAccuracy, totalQuestions)
	if err != nil {
		return fmt.Errorf("insert stage %s: %w", id, err)
	}
	return nil
}

func insertQuestion(ctx context.Context, tx pgx.Tx, req domain.CreateQuestionRequest) error {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	options, err := json.Marshal(req.Options)
	if err != nil {
		return fmt.Errorf("marshal options for %s: %w", id, err)
	}

	var stageID any
	if req.StageID != "" {
		stageID = req.StageID
	}
	var orderInStage any
	if req.OrderInStage > 0 {
		orderInStage = req.OrderInStage
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO questions (id, prompt, correct_answer, options, category, difficulty, type, audio_url, stage_id, order_in_stage)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9, $10)`,
		id, req.Prompt, req.CorrectAnswer, string(options), string(req.Category), string(req.Difficulty),
		string(req.Type), req.AudioURL, stageID, orderInStage)
	if err != nil {
		return fmt.Errorf("insert question %s: %w", id, err)
	}
	return nil
}
