package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"brainy-quiz-service/internal/config"
	"brainy-quiz-service/internal/content"
	"brainy-quiz-service/internal/domain"
	"brainy-quiz-service/internal/infra/postgres"
)

// NewSeedCmd loads the initial stage and question content into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load initial quiz content into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	pack, err := loadPack(cfg)
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.NewContentLoader(pool).LoadInitialDataIfNeeded(ctx, pack.Stages, pack.Questions)
}

func loadPack(cfg config.Config) (content.Pack, error) {
	if cfg.Content.File != "" {
		return content.ParseFile(cfg.Content.File)
	}
	return samplePack(), nil
}

// samplePack provides a minimal content set; point content.file at a
// real quiz_data.json in production.
func samplePack() content.Pack {
	stages := []domain.CreateStageRequest{
		{
			StageNumber:      1,
			Category:         domain.CategoryGeneral,
			Difficulty:       domain.DifficultyEasy,
			Title:            "General Knowledge I",
			RequiredAccuracy: domain.DefaultRequiredAccuracy,
			TotalQuestions:   3,
		},
		{
			StageNumber:      2,
			Category:         domain.CategoryGeneral,
			Difficulty:       domain.DifficultyEasy,
			Title:            "General Knowledge II",
			RequiredAccuracy: domain.DefaultRequiredAccuracy,
			TotalQuestions:   3,
		},
	}
	stage1 := domain.StageID(domain.CategoryGeneral, 1)
	stage2 := domain.StageID(domain.CategoryGeneral, 2)
	questions := []domain.CreateQuestionRequest{
		{
			Prompt:        "What is the capital of France?",
			CorrectAnswer: "Paris",
			Options:       []string{"Paris", "London", "Berlin", "Madrid"},
			Category:      domain.CategoryGeneral,
			Difficulty:    domain.DifficultyEasy,
			Type:          domain.TypeMultipleChoice,
			StageID:       stage1,
			OrderInStage:  1,
		},
		{
			Prompt:        "How many continents are there?",
			CorrectAnswer: "7",
			Options:       []string{"5", "6", "7", "8"},
			Category:      domain.CategoryGeneral,
			Difficulty:    domain.DifficultyEasy,
			Type:          domain.TypeMultipleChoice,
			StageID:       stage1,
			OrderInStage:  2,
		},
		{
			Prompt:        "What is the largest ocean?",
			CorrectAnswer: "Pacific",
			Options:       []string{"Atlantic", "Indian", "Arctic", "Pacific"},
			Category:      domain.CategoryGeneral,
			Difficulty:    domain.DifficultyEasy,
			Type:          domain.TypeMultipleChoice,
			StageID:       stage1,
			OrderInStage:  3,
		},
		{
			Prompt:        "Which planet is known as the Red Planet?",
			CorrectAnswer: "Mars",
			Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
			Category:      domain.CategoryGeneral,
			Difficulty:    domain.DifficultyEasy,
			Type:          domain.TypeMultipleChoice,
			StageID:       stage2,
			OrderInStage:  1,
		},
		{
			Prompt:        "What gas do plants absorb from the air?",
			CorrectAnswer: "Carbon dioxide",
			Options:       []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"},
			Category:      domain.CategoryGeneral,
			Difficulty:    domain.DifficultyEasy,
			Type:          domain.TypeMultipleChoice,
			StageID:       stage2,
			OrderInStage:  2,
		},
		{
			Prompt:        "How many sides does a hexagon have?",
			CorrectAnswer: "6",
			Options:       []string{"5", "6", "7", "8"},
			Category:      domain.CategoryGeneral,
			Difficulty:    domain.DifficultyEasy,
			Type:          domain.TypeMultipleChoice,
			StageID:       stage2,
			OrderInStage:  3,
		},
	}
	return content.Pack{Stages: stages, Questions: questions}
}
