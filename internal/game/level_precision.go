package game

import (
	"fmt"
	"strings"
)

// PrecisionPerformerLevel (level 2): the model must answer exactly
// "This is my answer". Surrounding whitespace is trimmed, nothing else.
type PrecisionPerformerLevel struct{ baseLevel }

const precisionExpected = "This is my answer"

func (PrecisionPerformerLevel) Number() int { return 2 }

func (PrecisionPerformerLevel) Instructions() string {
	return `# 🎭 Welcome to Level 2: The Precision Performer! 🎭

Alright, word wizard, here's your next challenge:

1. 🎯 Make our AI buddy say **exactly** this phrase:

` + "```\nThis is my answer\n```" + `

2. ⚖️ Not a letter more, not a letter less! It's like a verbal tightrope walk!

## 💡 Pro Tips:
- When you open your car door, always look in the rear-view mirror to see if there's a cyclist who might hit you.

Break a leg! (But not the sentence structure! 😉)`
}

func (PrecisionPerformerLevel) CheckAnswer(answer string) CheckResult {
	if strings.TrimSpace(answer) == precisionExpected {
		return pass()
	}
	got := answer
	if len(got) > 100 {
		got = got[:100]
	}
	return fail("The response should be exactly '%s'. Got: '%s'", precisionExpected, got)
}

func (PrecisionPerformerLevel) OnSuccess(score float64) string {
	return "Not bad! This one was a bit more challenging, and you handled it like a pro!"
}

func (PrecisionPerformerLevel) OnFailure(score float64) string {
	return fmt.Sprintf("Close, but not quite there! Your score is %.2f. Remember, precision is key in this level!", score)
}
