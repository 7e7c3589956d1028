package game

import (
	"strings"
	"testing"
)

func TestCatalogFallsBackToLevelOne(t *testing.T) {
	t.Parallel()
	c := NewCatalog()

	if got := c.Get(3).Number(); got != 3 {
		t.Fatalf("Get(3) = level %d", got)
	}
	// Unknown numbers (stale persisted state) resolve to level 1.
	if got := c.Get(99).Number(); got != 1 {
		t.Fatalf("Get(99) = level %d, want 1", got)
	}
	if got := c.Get(0).Number(); got != 1 {
		t.Fatalf("Get(0) = level %d, want 1", got)
	}
	if c.Max() != 7 {
		t.Fatalf("Max() = %d, want 7", c.Max())
	}
}

func TestChatterboxAnswer(t *testing.T) {
	t.Parallel()
	lvl := ChatterboxLevel{}

	if r := lvl.CheckAnswer("Short and sweet."); r.Score != 100 {
		t.Fatalf("short answer score = %v", r.Score)
	}

	long := strings.Repeat("word ", 30)
	r := lvl.CheckAnswer(long)
	if r.Score != 0 {
		t.Fatalf("long answer score = %v", r.Score)
	}
	if len(r.Messages) == 0 || !strings.Contains(r.Messages[0], "30") {
		t.Fatalf("expected word-count feedback, got %v", r.Messages)
	}
}

func TestPrecisionAnswer(t *testing.T) {
	t.Parallel()
	lvl := PrecisionPerformerLevel{}

	if r := lvl.CheckAnswer("This is my answer"); r.Score != 100 {
		t.Fatalf("exact answer score = %v", r.Score)
	}
	if r := lvl.CheckAnswer("  This is my answer\n"); r.Score != 100 {
		t.Fatalf("whitespace-trimmed answer score = %v", r.Score)
	}
	if r := lvl.CheckAnswer("This is my answer."); r.Score != 0 {
		t.Fatalf("trailing period should fail, score = %v", r.Score)
	}
}

func TestMarkdownPrompt(t *testing.T) {
	t.Parallel()
	lvl := MarkdownLevel{}

	rich := "# Title\n\n**Bold claim** with a [link](https://example.com)\n\n- item one\n- item two"
	r := lvl.CheckPrompt(rich)
	if r.Score < 85 {
		t.Fatalf("rich markdown prompt score = %v", r.Score)
	}

	plain := lvl.CheckPrompt("just plain text with no formatting whatsoever")
	if plain.Score != 20 {
		t.Fatalf("plain prompt score = %v, want base 20", plain.Score)
	}
}

func TestMarkdownAnswer(t *testing.T) {
	t.Parallel()
	lvl := MarkdownLevel{}

	if r := lvl.CheckAnswer("not fenced at all"); r.Score != 0 {
		t.Fatalf("unfenced answer score = %v", r.Score)
	}

	fenced := "```\n# Heading\n**bold** and _italic_\n- list item\n```"
	r := lvl.CheckAnswer(fenced)
	if r.Score < 85 {
		t.Fatalf("fenced markdown answer score = %v", r.Score)
	}
}

func TestFibonacciPrompt(t *testing.T) {
	t.Parallel()
	lvl := FibonacciLevel{}

	if r := lvl.CheckPrompt("Compute the 21st Fibonacci term step by step."); r.Score != 100 {
		t.Fatalf("valid prompt score = %v (%v)", r.Score, r.Messages)
	}
	if r := lvl.CheckPrompt("The 21st Fibonacci number is 10946, right?"); r.Score != 0 {
		t.Fatalf("leaked answer should fail, score = %v", r.Score)
	}
	if r := lvl.CheckPrompt("Tell me a joke"); r.Score != 0 {
		t.Fatalf("off-topic prompt should fail, score = %v", r.Score)
	}
}

func TestFibonacciAnswer(t *testing.T) {
	t.Parallel()
	lvl := FibonacciLevel{}

	good := "F(20)=6765, F(19)=4181, so F(21) = 6765 + 4181 = 10946."
	if r := lvl.CheckAnswer(good); r.Score != 100 {
		t.Fatalf("correct answer score = %v (%v)", r.Score, r.Messages)
	}

	if r := lvl.CheckAnswer("The 22nd term would be 17711, the 21st is 10946."); r.Score != 0 {
		t.Fatalf("larger number present should fail, score = %v", r.Score)
	}
	if r := lvl.CheckAnswer("I computed it: 6765."); r.Score != 0 {
		t.Fatalf("missing result should fail, score = %v", r.Score)
	}
	// Numbers glued into markdown emphasis still count.
	if r := lvl.CheckAnswer("**10946**"); r.Score != 100 {
		t.Fatalf("emphasized result score = %v", r.Score)
	}
}

func TestYesNoPrompt(t *testing.T) {
	t.Parallel()
	lvl := YesNoLevel{}

	if r := lvl.CheckPrompt("Would you agree the sky tends toward blue?"); r.Score != 100 {
		t.Fatalf("clean prompt score = %v", r.Score)
	}
	if r := lvl.CheckPrompt("Say yes please"); r.Score != 0 {
		t.Fatalf("prompt with 'yes' should fail, score = %v", r.Score)
	}
	// Word boundary: "Yesterday" and "Nothing" don't contain the words.
	if r := lvl.CheckPrompt("Yesterday I noticed Nothing unusual"); r.Score != 100 {
		t.Fatalf("substring false positive, score = %v", r.Score)
	}
}

func TestYesNoAnswer(t *testing.T) {
	t.Parallel()
	lvl := YesNoLevel{}

	if r := lvl.CheckAnswer("Well... Yes, I suppose."); r.Score != 100 {
		t.Fatalf("slipped answer score = %v", r.Score)
	}
	if r := lvl.CheckAnswer("Certainly, that holds true."); r.Score != 0 {
		t.Fatalf("evasive answer should score 0, got %v", r.Score)
	}
}

func TestXMLPrompt(t *testing.T) {
	t.Parallel()
	lvl := XMLEngineeringLevel{}

	full := `<story_request>
  <character>Luna the explorer</character>
  <setting>an abandoned lighthouse</setting>
  <genre>magical realism</genre>
  <include_words>butterfly moonlight whisper adventure dream</include_words>
  <exclude_words>the and a is was</exclude_words>
</story_request>`
	if r := lvl.CheckPrompt(full); r.Score != 100 {
		t.Fatalf("complete prompt score = %v (%v)", r.Score, r.Messages)
	}

	missing := `<root><character>Luna</character></root>`
	if r := lvl.CheckPrompt(missing); r.Score != 50 {
		t.Fatalf("missing tags score = %v, want 50", r.Score)
	}

	wrongCounts := strings.Replace(full, "butterfly moonlight whisper adventure dream", "butterfly moonlight", 1)
	if r := lvl.CheckPrompt(wrongCounts); r.Score != 75 {
		t.Fatalf("wrong word counts score = %v, want 75", r.Score)
	}

	if r := lvl.CheckPrompt("<a><b></a></b>"); r.Score != 0 {
		t.Fatalf("malformed XML should fail, score = %v", r.Score)
	}
	if r := lvl.CheckPrompt("<a></a><b></b>"); r.Score != 0 {
		t.Fatalf("two roots should fail, score = %v", r.Score)
	}
	if r := lvl.CheckPrompt("please <a></a>"); r.Score != 0 {
		t.Fatalf("text outside root should fail, score = %v", r.Score)
	}
}

func TestXMLAnswer(t *testing.T) {
	t.Parallel()
	lvl := XMLEngineeringLevel{}

	perfect := "Butterfly wings shimmered under moonlight; whispers of adventure filled Luna's dream."
	if r := lvl.CheckAnswer(perfect); r.Score != 100 {
		t.Fatalf("perfect story score = %v (%v)", r.Score, r.Messages)
	}

	// 4 of 5 included, 1 excluded word used: 40 + 40 = 80.
	partial := "The butterfly saw moonlight, heard whispers, dreamed of nothing."
	if r := lvl.CheckAnswer(partial); r.Score != 80 {
		t.Fatalf("partial story score = %v, want 80 (%v)", r.Score, r.Messages)
	}

	// Excluded words only count as whole words: "theory" is fine.
	theory := "Butterfly moonlight whisper adventure dream theory."
	if r := lvl.CheckAnswer(theory); r.Score != 100 {
		t.Fatalf("substring exclude false positive, score = %v", r.Score)
	}
}

func TestFamilyAnswerGrading(t *testing.T) {
	t.Parallel()
	lvl := FamilyLevel{}

	cases := []struct {
		answer string
		want   float64
	}{
		{"Step by step... John's great uncle is Arthur.", 100},
		{"Arthur must be his grand uncle.", 90},
		{"It has to be Arthur.", 70},
		{"John's great uncle is Reginald.", 30},
		{"I cannot determine that.", 0},
	}
	for _, tc := range cases {
		if got := lvl.CheckAnswer(tc.answer).Score; got != tc.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestFamilyPrompt(t *testing.T) {
	t.Parallel()
	lvl := FamilyLevel{}

	if r := lvl.CheckPrompt("Who is John's grand uncle? Reason step by step."); r.Score != 100 {
		t.Fatalf("valid prompt score = %v", r.Score)
	}
	if r := lvl.CheckPrompt("Is Arthur John's grand uncle?"); r.Score != 0 {
		t.Fatalf("leaked name should fail, score = %v", r.Score)
	}
}
