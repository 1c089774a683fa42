// Package content parses the bundled quiz_data.json shape into create
// requests for the repository and the bulk loader.
package content

import (
	"encoding/json"
	"fmt"
	"os"

	"brainy-quiz-service/internal/domain"
)

// Pack is the decoded content bundle.
type Pack struct {
	Stages    []domain.CreateStageRequest
	Questions []domain.CreateQuestionRequest
}

type fileFormat struct {
	Stages    []stageEntry    `json:"stages"`
	Questions []questionEntry `json:"questions"`
}

type stageEntry struct {
	ID               string  `json:"id"`
	StageNumber      int     `json:"stageNumber"`
	Category         string  `json:"category"`
	Difficulty       string  `json:"difficulty"`
	Title            string  `json:"title"`
	RequiredAccuracy float64 `json:"requiredAccuracy"`
	TotalQuestions   int     `json:"totalQuestions"`
}

type questionEntry struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Type          string   `json:"type"`
	AudioURL      string   `json:"audioURL"`
	StageID       string   `json:"stageId"`
	OrderInStage  int      `json:"orderInStage"`
}

// ParseFile decodes a quiz content file. Missing stage ids get the
// canonical "{category}_stage_{n}" form; zero thresholds and counts fall
// back to the defaults.
func ParseFile(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("read content file: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw content JSON.
func Parse(data []byte) (Pack, error) {
	var decoded fileFormat
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Pack{}, fmt.Errorf("decode content: %w", err)
	}

	pack := Pack{
		Stages:    make([]domain.CreateStageRequest, 0, len(decoded.Stages)),
		Questions: make([]domain.CreateQuestionRequest, 0, len(decoded.Questions)),
	}
	for _, stage := range decoded.Stages {
		category := domain.QuizCategory(stage.Category)
		id := stage.ID
		if id == "" {
			id = domain.StageID(category, stage.StageNumber)
		}
		requiredAccuracy := stage.RequiredAccuracy
		if requiredAccuracy == 0 {
			requiredAccuracy = domain.DefaultRequiredAccuracy
		}
		totalQuestions := stage.TotalQuestions
		if totalQuestions == 0 {
			totalQuestions = domain.DefaultStageQuestions
		}
		pack.Stages = append(pack.Stages, domain.CreateStageRequest{
			ID:               id,
			StageNumber:      stage.StageNumber,
			Category:         category,
			Difficulty:       domain.QuizDifficulty(stage.Difficulty),
			Title:            stage.Title,
			RequiredAccuracy: requiredAccuracy,
			TotalQuestions:   totalQuestions,
		})
	}
	for _, question := range decoded.Questions {
		questionType := domain.QuizType(question.Type)
		if questionType == "" {
			questionType = domain.TypeMultipleChoice
		}
		pack.Questions = append(pack.Questions, domain.CreateQuestionRequest{
			ID:            question.ID,
			Prompt:        question.Question,
			CorrectAnswer: question.CorrectAnswer,
			Options:       question.Options,
			Category:      domain.QuizCategory(question.Category),
			Difficulty:    domain.QuizDifficulty(question.Difficulty),
			Type:          questionType,
			AudioURL:      question.AudioURL,
			StageID:       question.StageID,
			OrderInStage:  question.OrderInStage,
		})
	}
	return pack, nil
}
