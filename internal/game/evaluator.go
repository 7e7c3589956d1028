package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"promptquest/internal/infra/metrics"
)

// Feedback is one UI notification produced by an evaluation.
type Feedback struct {
	Content string `json:"content"`
	Kind    string `json:"kind"` // "error" | "success" | "info"
}

const (
	FeedbackError   = "error"
	FeedbackSuccess = "success"
	FeedbackInfo    = "info"
)

// Score dimension keys of LevelResult.IndividualScores.
const (
	ScorePromptCheck      = "prompt_check"
	ScorePromptSimilarity = "prompt_similarity"
	ScoreAnswerCheck      = "answer_check"
	ScoreAnswerSimilarity = "answer_similarity"
)

// scoreFloor keeps every dimension visibly non-zero so the UI's progress
// bars always show partial progress.
const scoreFloor = 10

// LevelResult is the outcome of evaluating one turn against a level.
type LevelResult struct {
	TotalScore       float64            `json:"total_score"`
	Messages         []Feedback         `json:"messages"`
	IndividualScores map[string]float64 `json:"individual_scores"`
	Passed           bool               `json:"passed"`
}

// Evaluator scores a (prompt, answer) pair against a level's rubric.
type Evaluator struct {
	sim *SimilarityService
	log *zerolog.Logger
}

func NewEvaluator(sim *SimilarityService, logger *zerolog.Logger) *Evaluator {
	return &Evaluator{sim: sim, log: logger}
}

// Evaluate runs both rubric checks and both similarity checks, aggregates
// them into a total score and synthesizes the feedback messages. It is a
// single deterministic pass given its two string inputs; failures inside a
// similarity check degrade that dimension rather than aborting the turn.
func (e *Evaluator) Evaluate(ctx context.Context, level Level, userPrompt, modelAnswer string) LevelResult {
	promptCheck := level.CheckPrompt(userPrompt)
	answerCheck := level.CheckAnswer(modelAnswer)

	promptSim := e.similarityOrSkip(ctx, userPrompt, level.CorrectQuestion())
	answerSim := e.similarityOrSkip(ctx, modelAnswer, level.CorrectAnswer())

	scores := map[string]float64{
		ScorePromptCheck:      floored(promptCheck.Score),
		ScorePromptSimilarity: floored(promptSim * 100),
		ScoreAnswerCheck:      floored(answerCheck.Score),
		ScoreAnswerSimilarity: floored(answerSim * 100),
	}
	total := (scores[ScorePromptCheck] + scores[ScorePromptSimilarity] +
		scores[ScoreAnswerCheck] + scores[ScoreAnswerSimilarity]) / 4

	passed := total >= level.MinScoreToPass()

	var messages []Feedback
	for _, m := range promptCheck.Messages {
		messages = append(messages, Feedback{Content: m, Kind: FeedbackError})
	}
	for _, m := range answerCheck.Messages {
		messages = append(messages, Feedback{Content: m, Kind: FeedbackError})
	}
	if passed {
		messages = append(messages, Feedback{
			Content: fmt.Sprintf("Level passed! You scored %.2f points.", total),
			Kind:    FeedbackSuccess,
		})
	} else {
		messages = append(messages, Feedback{
			Content: fmt.Sprintf("Keep trying! You scored %.2f/%.0f.", total, level.MinScoreToPass()),
			Kind:    FeedbackInfo,
		})
	}

	metrics.ObserveEvaluation(level.Number(), total, passed)
	return LevelResult{
		TotalScore:       total,
		Messages:         messages,
		IndividualScores: scores,
		Passed:           passed,
	}
}

// similarityOrSkip returns 1.0 when the level has no reference text (the
// check is treated as automatically satisfied), and degrades to 0 on
// embedder failure so the dimension bottoms out at the floor.
func (e *Evaluator) similarityOrSkip(ctx context.Context, text, reference string) float64 {
	if reference == "" {
		return 1.0
	}
	sim, err := e.sim.Similarity(ctx, text, reference)
	if err != nil {
		e.log.Warn().Err(err).Msg("similarity check failed; scoring dimension at floor")
		return 0
	}
	return sim
}

func floored(score float64) float64 {
	if score < scoreFloor {
		return scoreFloor
	}
	return score
}
