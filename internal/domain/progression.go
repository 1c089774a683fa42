package domain

import "fmt"

// Grade derives the stored result fields from a raw score. The star ladder
// is fixed: >=0.9 three stars, >=0.8 two, >=0.7 one, else zero. A stage is
// cleared when accuracy meets its required threshold.
func Grade(score, totalQuestions int, requiredAccuracy float64) (accuracy float64, stars int, isCleared bool) {
	if totalQuestions <= 0 {
		return 0, 0, false
	}
	accuracy = float64(score) / float64(totalQuestions)
	switch {
	case accuracy >= 0.9:
		stars = 3
	case accuracy >= 0.8:
		stars = 2
	case accuracy >= 0.7:
		stars = 1
	}
	return accuracy, stars, accuracy >= requiredAccuracy
}

// StageID builds the canonical id for stage n of a category.
func StageID(category QuizCategory, n int) string {
	return fmt.Sprintf("%s_stage_%d", category, n)
}

// NextStageID returns the id of the stage a player should attempt next.
// Once every stage is completed the last stage id is returned so the
// category stays replayable.
func NextStageID(category QuizCategory, completedCount, totalStages int) string {
	next := completedCount + 1
	if totalStages > 0 && next > totalStages {
		next = totalStages
	}
	return StageID(category, next)
}

// CategoryProgress converts completion counters into display ratios. Both
// ratios are 0 when the category has no stages.
func CategoryProgress(completedStages, totalStars, totalStages int) (progressPct, starPct float64) {
	if totalStages <= 0 {
		return 0, 0
	}
	progressPct = float64(completedStages) / float64(totalStages)
	starPct = float64(totalStars) / float64(totalStages*3)
	return progressPct, starPct
}
