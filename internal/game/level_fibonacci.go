package game

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FibonacciLevel (level 4): the model must compute the 21st Fibonacci term
// (10946) without the prompt leaking it, and without any larger number
// appearing in the answer.
type FibonacciLevel struct{ baseLevel }

const fib21 = 10946

// digitRuns pulls maximal digit runs, so numbers embedded in punctuation or
// markdown are still detected.
var digitRuns = regexp.MustCompile(`[0-9]+`)

func extractNumbers(text string) []int {
	var out []int
	for _, run := range digitRuns.FindAllString(text, -1) {
		n, err := strconv.Atoi(run)
		if err != nil {
			continue // run longer than an int; treat as absent
		}
		out = append(out, n)
	}
	return out
}

func (FibonacciLevel) Number() int             { return 4 }
func (FibonacciLevel) MinScoreToPass() float64 { return 77 }

func (FibonacciLevel) Instructions() string {
	return `# 🧮 Welcome to Level 4: The Fibonacci Sequence Challenge! 🧮

Alright, number enthusiast, here's your exciting mission:

1. 🔢 Guide our AI companion to calculate the 21st term of the Fibonacci sequence.
2. 🎯 Ensure the answer includes the correct number. It's our star of the show!
3. 🚫 Keep it precise - no numbers larger than the result should appear in the response.
4. 🧠 No cheating: the AI should do the calculation, not you!

## 💡 Pro Tip:
- Encourage a step-by-step calculation approach. It's not just about the final answer, but the journey to get there!`
}

func (FibonacciLevel) CorrectQuestion() string {
	return `Please calculate the 21st term of the Fibonacci sequence. Follow these steps:
1. Start with the first two terms: 0 and 1.
2. Calculate each subsequent term by adding the two preceding terms.
3. Continue this process until you reach the 21st term.
4. Provide the final result and show your work.
Remember, the Fibonacci sequence starts with 0 and 1, and each number afterwards is the sum of the two preceding ones.`
}

func (FibonacciLevel) CorrectAnswer() string { return fibonacciWorkedAnswer }

func (FibonacciLevel) CheckPrompt(prompt string) CheckResult {
	lower := strings.ToLower(prompt)
	if strings.Contains(lower, strconv.Itoa(fib21)) {
		return fail("The prompt should not contain the answer (%d).", fib21)
	}
	if !strings.Contains(lower, "fibonacci") || !strings.Contains(lower, "21") {
		return fail("The prompt should mention the Fibonacci sequence and the 21st term.")
	}
	return pass()
}

func (FibonacciLevel) CheckAnswer(answer string) CheckResult {
	numbers := extractNumbers(answer)
	hasResult := false
	for _, n := range numbers {
		if n == fib21 {
			hasResult = true
		}
		if n > fib21 {
			return fail("Hum...The answer contains numbers larger than %d.", fib21)
		}
	}
	if !hasResult {
		return fail("Damned ! The 21st Fibonacci number is missing !")
	}
	return pass()
}

func (FibonacciLevel) OnSuccess(score float64) string {
	return fmt.Sprintf("Excellent! You've mastered the Fibonacci sequence challenge with a score of %.2f.", score)
}

func (FibonacciLevel) OnFailure(score float64) string {
	return fmt.Sprintf("Almost there! Your current score is %.2f. Make sure to include the correct 21st Fibonacci number (%d) and no larger numbers.", score, fib21)
}

// fibonacciWorkedAnswer is the similarity reference: a full step-by-step
// derivation of F(21), the kind of answer the level wants the model to give.
const fibonacciWorkedAnswer = `The Fibonacci sequence is a sequence of numbers where each term is the sum of the two preceding terms, typically with the first initial value defined as 0 (F(0) = 0) and the second initial value being 1 (F(1) = 1). This process is repeated for each subsequent term: the preceding term is added to the one that preceded it.

Step 1: F(2) = F(1) + F(0) = 1 + 0 = 1
Step 2: F(3) = F(2) + F(1) = 1 + 1 = 2
Step 3: F(4) = F(3) + F(2) = 2 + 1 = 3
Step 4: F(5) = F(4) + F(3) = 3 + 2 = 5
Step 5: F(6) = F(5) + F(4) = 5 + 3 = 8
Step 6: F(7) = F(6) + F(5) = 8 + 5 = 13
Step 7: F(8) = F(7) + F(6) = 13 + 8 = 21
Step 8: F(9) = F(8) + F(7) = 21 + 13 = 34
Step 9: F(10) = F(9) + F(8) = 34 + 21 = 55
Step 10: F(11) = F(10) + F(9) = 55 + 34 = 89
Step 11: F(12) = F(11) + F(10) = 89 + 55 = 144
Step 12: F(13) = F(12) + F(11) = 144 + 89 = 233
Step 13: F(14) = F(13) + F(12) = 233 + 144 = 377
Step 14: F(15) = F(14) + F(13) = 377 + 233 = 610
Step 15: F(16) = F(15) + F(14) = 610 + 377 = 987
Step 16: F(17) = F(16) + F(15) = 987 + 610 = 1597
Step 17: F(18) = F(17) + F(16) = 1597 + 987 = 2584
Step 18: F(19) = F(18) + F(17) = 2584 + 1597 = 4181
Step 19: F(20) = F(19) + F(18) = 4181 + 2584 = 6765
Step 20: F(21) = F(20) + F(19) = 6765 + 4181 = 10946

The 21st term of the Fibonacci sequence is therefore:

10946.

This exercise helps you understand the evolution of a well-known sequence, and each step demonstrates the logical process of adding the two previous terms to obtain the next term.`
