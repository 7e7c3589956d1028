package game

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// XMLEngineeringLevel (level 6): the prompt must be well-formed XML carrying
// the story constraints; the answer is scored on honoring the word lists.
type XMLEngineeringLevel struct{ baseLevel }

var (
	xmlRequiredTags = []string{"character", "setting", "genre", "include_words", "exclude_words"}
	storyInclude    = []string{"butterfly", "moonlight", "whisper", "adventure", "dream"}
	storyExclude    = []string{"the", "and", "a", "is", "was"}
)

func (XMLEngineeringLevel) Number() int { return 6 }

func (XMLEngineeringLevel) Instructions() string {
	return `# 🏗️ Welcome to Level 6: XML Engineering for Prompt Crafting! 🏗️

Did you know that using XML tags in prompts can significantly enhance the structure and clarity of your instructions to AI models? Similar to Markdown, XML tags help organize different components of your prompt, leading to more accurate and higher-quality outputs.

In this level, you'll use XML tags to structure your prompts and control the AI's output.

Your mission:

1. 📝 Create a prompt using XML tags to instruct the AI to write a short story.
2. 🏷️ Use XML tags to specify two lists of words:
   - Words that MUST be included in the story: butterfly, moonlight, whisper, adventure, dream
   - Words that MUST NOT be used in the story: the, and, a, is, was
3. 🎭 Include tags for ` + "`<character>`, `<setting>`, and `<genre>`" + `.
4. 🔍 Ensure your XML is well-formed (properly nested and closed tags).

## 💡 Pro Tips:
- XML tags help separate different parts of your prompt, preventing the AI from mixing up instructions with examples or context.
- Use consistent tag names throughout your prompt for clarity.
- Nest tags for hierarchical content: ` + "`<outer><inner></inner></outer>`" + `.
- This technique is particularly effective for models like Claude.

To learn more about using XML in prompt engineering, check out this guide: [Use XML tags to structure your prompts](https://docs.anthropic.com/en/docs/build-with-claude/prompt-engineering/use-xml-tags).

Be creative and precise in your prompt crafting!`
}

func (XMLEngineeringLevel) CheckPrompt(prompt string) CheckResult {
	doc, err := parseXMLPrompt(prompt)
	if err != nil {
		return fail("The XML in your prompt is not well-formed. Please check for proper nesting and closing of tags.")
	}

	var missing []string
	for _, tag := range xmlRequiredTags {
		if _, ok := doc.tags[tag]; !ok {
			missing = append(missing, tag)
		}
	}
	if len(missing) > 0 {
		return CheckResult{Score: 50, Messages: []string{
			fmt.Sprintf("Your prompt is missing the following required tags: %s", strings.Join(missing, ", ")),
		}}
	}

	if len(strings.Fields(doc.text["include_words"])) != 5 || len(strings.Fields(doc.text["exclude_words"])) != 5 {
		return CheckResult{Score: 75, Messages: []string{
			"Both <include_words> and <exclude_words> should contain exactly 5 words each.",
		}}
	}

	return CheckResult{Score: 100, Messages: []string{
		"Great job! Your XML prompt is well-structured and includes all required elements.",
	}}
}

func (XMLEngineeringLevel) CheckAnswer(answer string) CheckResult {
	lower := strings.ToLower(answer)

	included := 0
	for _, w := range storyInclude {
		if strings.Contains(lower, w) {
			included++
		}
	}
	excluded := 0
	for _, w := range storyExclude {
		if wordPresent(lower, w) {
			excluded++
		}
	}

	score := float64(included)/5*50 + float64(5-excluded)/5*50
	var messages []string
	if included < 5 {
		messages = append(messages, fmt.Sprintf("The story is missing %d required words.", 5-included))
	}
	if excluded > 0 {
		messages = append(messages, fmt.Sprintf("The story contains %d words that should have been excluded.", excluded))
	}
	if len(messages) == 0 {
		messages = append(messages, "The AI's response correctly includes and excludes the specified words.")
	}
	return CheckResult{Score: score, Messages: messages}
}

func (XMLEngineeringLevel) OnSuccess(score float64) string {
	return fmt.Sprintf("Excellent work! You've mastered XML prompt engineering with a score of %.2f. Your structured prompts effectively controlled the AI's output.", score)
}

func (XMLEngineeringLevel) OnFailure(score float64) string {
	return fmt.Sprintf("Nice try! Your current score is %.2f. Make sure to include all required XML tags and effectively control the words used in the AI's response. Keep practicing your XML prompt engineering skills!", score)
}

// wordPresent reports whether w occurs as a whole word in lowercased text.
func wordPresent(lowerText, w string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	return re.MatchString(lowerText)
}

type xmlDoc struct {
	tags map[string]struct{}
	text map[string]string // direct character data per (lowercased) tag
}

// parseXMLPrompt requires a single root element with nothing but whitespace
// around it, mirroring strict one-document parsing.
func parseXMLPrompt(s string) (*xmlDoc, error) {
	dec := xml.NewDecoder(strings.NewReader(s))
	doc := &xmlDoc{tags: map[string]struct{}{}, text: map[string]string{}}

	depth := 0
	roots := 0
	var stack []string
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
			name := strings.ToLower(t.Name.Local)
			doc.tags[name] = struct{}{}
			stack = append(stack, name)
		case xml.EndElement:
			depth--
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if depth == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fmt.Errorf("text outside root element")
				}
				continue
			}
			name := stack[len(stack)-1]
			doc.text[name] += string(t)
		}
	}
	if roots != 1 {
		return nil, fmt.Errorf("expected exactly one root element, got %d", roots)
	}
	return doc, nil
}
