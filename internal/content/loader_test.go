package content

import (
	"testing"

	"brainy-quiz-service/internal/domain"
)

func TestParseAppliesDefaults(t *testing.T) {
	data := []byte(`{
		"stages": [
			{"stageNumber": 1, "category": "science", "difficulty": "easy", "title": "Science I"},
			{"id": "custom_id", "stageNumber": 2, "category": "science", "difficulty": "easy", "title": "Science II", "requiredAccuracy": 0.9, "totalQuestions": 5}
		],
		"questions": [
			{"id": "q1", "question": "What is H2O?", "correctAnswer": "Water", "options": ["Water", "Salt"], "category": "science", "difficulty": "easy", "stageId": "science_stage_1", "orderInStage": 1},
			{"id": "q2", "question": "Say hello", "correctAnswer": "hello", "category": "science", "difficulty": "easy", "type": "voice", "audioURL": "https://example.com/hello.mp3"}
		]
	}`)

	pack, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(pack.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(pack.Stages))
	}
	first := pack.Stages[0]
	if first.ID != "science_stage_1" {
		t.Fatalf("expected canonical id generated, got %q", first.ID)
	}
	if first.RequiredAccuracy != domain.DefaultRequiredAccuracy {
		t.Fatalf("expected default accuracy, got %v", first.RequiredAccuracy)
	}
	if first.TotalQuestions != domain.DefaultStageQuestions {
		t.Fatalf("expected default question count, got %d", first.TotalQuestions)
	}
	second := pack.Stages[1]
	if second.ID != "custom_id" || second.RequiredAccuracy != 0.9 || second.TotalQuestions != 5 {
		t.Fatalf("explicit fields must win, got %+v", second)
	}

	if len(pack.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(pack.Questions))
	}
	if pack.Questions[0].Prompt != "What is H2O?" {
		t.Fatalf("prompt mapped wrong: %q", pack.Questions[0].Prompt)
	}
	if pack.Questions[0].Type != domain.TypeMultipleChoice {
		t.Fatalf("missing type should default to multiple choice, got %q", pack.Questions[0].Type)
	}
	if pack.Questions[1].Type != domain.TypeVoice {
		t.Fatalf("explicit type must win, got %q", pack.Questions[1].Type)
	}
	if pack.Questions[1].AudioURL != "https://example.com/hello.mp3" {
		t.Fatalf("audio url missing: %+v", pack.Questions[1])
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
