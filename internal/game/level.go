// Package game implements the level catalog, rubric checks and the
// evaluation engine of the prompt-engineering training game.
package game

import "fmt"

// CheckResult is the outcome of one rubric check: a score in [0,100] and
// feedback messages for the player.
type CheckResult struct {
	Score    float64
	Messages []string
}

func pass() CheckResult { return CheckResult{Score: 100} }

func fail(format string, args ...any) CheckResult {
	return CheckResult{Score: 0, Messages: []string{fmt.Sprintf(format, args...)}}
}

// Level is one stage of the game. Implementations are a closed set collected
// in the Catalog; they are immutable and shared read-only across sessions.
// CheckPrompt and CheckAnswer must be pure functions over their argument.
type Level interface {
	Number() int
	Instructions() string
	SystemPrompt() string
	MinScoreToPass() float64

	// CorrectQuestion and CorrectAnswer are the similarity reference texts.
	// An empty string disables the corresponding similarity dimension.
	CorrectQuestion() string
	CorrectAnswer() string

	CheckPrompt(prompt string) CheckResult
	CheckAnswer(answer string) CheckResult

	OnSuccess(score float64) string
	OnFailure(score float64) string
}

// baseLevel supplies the common defaults: no system prompt, threshold 90,
// no similarity targets, trivially passing prompt check.
type baseLevel struct{}

func (baseLevel) SystemPrompt() string            { return "" }
func (baseLevel) MinScoreToPass() float64         { return 90 }
func (baseLevel) CorrectQuestion() string         { return "" }
func (baseLevel) CorrectAnswer() string           { return "" }
func (baseLevel) CheckPrompt(string) CheckResult  { return pass() }
