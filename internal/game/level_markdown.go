package game

import (
	"fmt"
	"regexp"
)

// MarkdownLevel (level 3): the prompt must use Markdown, and the model's
// whole answer must be wrapped in a fenced code block containing Markdown.
type MarkdownLevel struct{ baseLevel }

var (
	markdownElements = []*regexp.Regexp{
		regexp.MustCompile(`#{1,6}\s`),          // headers
		regexp.MustCompile(`\*\*.+?\*\*`),       // bold
		regexp.MustCompile(`_.+?_`),             // italic
		regexp.MustCompile(`\[.+?\]\(.+?\)`),    // links
		regexp.MustCompile("```[\\s\\S]*?```"),  // code blocks
		regexp.MustCompile(`- `),                // unordered list
		regexp.MustCompile(`\d+\. `),            // ordered list
	}
	// Inside the fenced answer the code-fence element can't occur again.
	markdownInnerElements = append(markdownElements[:4:4], markdownElements[5:]...)

	fencedAnswer  = regexp.MustCompile("^\\s*```[\\s\\S]*```\\s*$")
	fencedContent = regexp.MustCompile("```([\\s\\S]*)```")
)

// markdownScore gives 20 points per distinct Markdown element found, on top
// of a 20-point base, capped at 100.
func markdownScore(text string, elements []*regexp.Regexp) float64 {
	found := 0
	for _, re := range elements {
		if re.MatchString(text) {
			found++
		}
	}
	score := found * 20
	if score > 80 {
		score = 80
	}
	return float64(20 + score)
}

func (MarkdownLevel) Number() int             { return 3 }
func (MarkdownLevel) MinScoreToPass() float64 { return 85 }

func (MarkdownLevel) Instructions() string {
	return `# 📝 Welcome to Level 3: Markdown Mastery! 📝

Did you know that language models are often trained to respond in a language called Markdown? It's what manages the formatting of the response (like headings, bold, italic, links, etc.). For example, when you use ChatGPT and ask a question, the model will respond in Markdown, making the content more interesting and readable than plain text!

Your mission:

1. 🔍 Research Markdown syntax if you're not familiar with it.
2. 📊 Create a prompt using Markdown to structure your request.
3. 🎭 Ask the AI to respond with Markdown formatting.
4. 💻 Request the AI to wrap its entire response in a code block.

## 💡 Pro Tips:
- When models use tools (like DALL-E-3 for images or graph display), they simply incorporate a code block in their response describing what the tool should do!
- Markdown is incredibly simple and practical for taking notes quickly. Learn more about Markdown syntax here: [Markdown Guide](https://www.markdownguide.org/basic-syntax/)

Good luck, Markdown maestro!`
}

func (MarkdownLevel) CheckPrompt(prompt string) CheckResult {
	score := markdownScore(prompt, markdownElements)
	if score < 60 {
		return CheckResult{Score: score, Messages: []string{"Your prompt should use more Markdown elements."}}
	}
	return CheckResult{Score: score, Messages: []string{"Good use of Markdown in your prompt!"}}
}

func (MarkdownLevel) CheckAnswer(answer string) CheckResult {
	if !fencedAnswer.MatchString(answer) {
		return fail("The entire response should be in a code block.")
	}
	m := fencedContent.FindStringSubmatch(answer)
	if m == nil {
		return fail("No content found in the code block.")
	}
	score := markdownScore(m[1], markdownInnerElements)
	if score < 60 {
		return CheckResult{Score: score, Messages: []string{"The response should include more Markdown elements."}}
	}
	return CheckResult{Score: score, Messages: []string{"Great use of Markdown in the response!"}}
}

func (MarkdownLevel) OnSuccess(score float64) string {
	return fmt.Sprintf("Bravo! You've mastered Markdown formatting with a score of %.2f. Your structured prompts effectively guided the AI's output.", score)
}

func (MarkdownLevel) OnFailure(score float64) string {
	return fmt.Sprintf("Nice try! Your current score is %.2f. Make sure to use various Markdown elements in your prompt and check that the AI's response is in a code block with Markdown content. Keep practicing your Markdown skills!", score)
}
