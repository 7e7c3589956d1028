package game

import (
	"fmt"
	"strings"
)

// ChatterboxLevel (level 1): make the model answer anything under 30 words.
type ChatterboxLevel struct{ baseLevel }

func (ChatterboxLevel) Number() int { return 1 }

func (ChatterboxLevel) Instructions() string {
	return `# 🎉 Welcome to Level 1: The Chatterbox Challenge! 🎉

## 🚨 Important Notes Before You Start:

1. The model may have a system prompt that you can't access.
2. The model has no memory - it doesn't remember your previous questions!
3. We're using a smaller model than GPT-4, so expect lower performance. This is good because:
   - It makes the game more challenging (we're a bit evil 😈)
   - Techniques that work on small models will work even better on larger ones!
   - It keeps the game from being too easy 😉

Alright, AI whisperer, here's your mission:

1. 🗣️ Get our AI buddy to say **literally anything**. Yep, anything at all!
2. 🤏 But here's the twist: keep it snappy! The response should be **under 30 words**.

## 💡 Pro Tips:
- This is your warm-up lap. Easy peasy lemon squeezy!
- Remember, brevity is the soul of wit (and passing this level)!

Good luck, and let the prompt engineering begin!`
}

func (ChatterboxLevel) CorrectQuestion() string {
	return "Please provide a response on any topic, but keep it under 30 words."
}

func (ChatterboxLevel) CheckAnswer(answer string) CheckResult {
	wordCount := len(strings.Fields(answer))
	if wordCount < 30 {
		return pass()
	}
	return fail("The response has %d words. It should be less than 30.", wordCount)
}

func (ChatterboxLevel) OnSuccess(score float64) string {
	return "Well done! Okay, this level wasn't particularly challenging, but let's make things a bit more complex..."
}

func (ChatterboxLevel) OnFailure(score float64) string {
	return fmt.Sprintf("Almost there! You're at %.2f points. Just a little more effort to reach 90 points!", score)
}
