package seo

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSummarizeEmpty(t *testing.T) {
	for _, doc := range [][]byte{nil, []byte(""), []byte("  "), []byte("null"), []byte(`{}`), []byte(`{"sections":[]}`)} {
		if got := Summarize(doc); got != "" {
			t.Errorf("Summarize(%q) = %q, want empty", doc, got)
		}
	}
}

func TestSummarizeLongSentence(t *testing.T) {
	sentence := strings.Repeat("a", 499) + "."
	doc := []byte(`{"sections":[{"type":"paragraph","text":"` + sentence + `"}]}`)

	got := Summarize(doc)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("no ellipsis: %q", got)
	}
	body := strings.TrimSuffix(got, "...")
	if utf8.RuneCountInString(body) != 152 {
		t.Fatalf("body is %d runes, want 152", utf8.RuneCountInString(body))
	}
	if body != strings.Repeat("a", 152) {
		t.Fatalf("body altered: %q", body)
	}
}

func TestSummarizeGreedySentences(t *testing.T) {
	s1 := "Hand-made leather goods from Lisbon."
	s2 := "Every bag is stitched by one artisan."
	s3 := strings.Repeat("x", 100) + "!"
	doc := []byte(`{"sections":[
		{"type":"heading","content":"` + s1 + `"},
		{"type":"image","url":"/a.png","text":"ignored caption."},
		{"type":"row","blocks":[{"type":"paragraph","text":"<p>` + s2 + `</p>"}]},
		{"type":"text","content":"` + s3 + `"}
	]}`)

	got := Summarize(doc)
	want := s1 + " " + s2
	if got != want {
		t.Fatalf("Summarize = %q, want %q", got, want)
	}
	if utf8.RuneCountInString(got) > MaxSummary {
		t.Fatalf("summary too long: %d", utf8.RuneCountInString(got))
	}
}

func TestSummarizeStripsMarkupAndEntities(t *testing.T) {
	doc := []byte(`{"sections":[{"type":"paragraph","text":"<b>Fish &amp; chips</b> &lt;fresh&gt; &quot;daily&quot; &#39;hot&#39;<br>Open   late"}]}`)
	got := Summarize(doc)
	want := `Fish & chips <fresh> "daily" 'hot' Open late.`
	if got != want {
		t.Fatalf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarizeAddsTerminalPunctuation(t *testing.T) {
	got := Summarize([]byte(`{"sections":[{"type":"text","text":"Just a tagline"}]}`))
	if got != "Just a tagline." {
		t.Fatalf("Summarize = %q", got)
	}
}

func TestSummarizeKeepsDecimals(t *testing.T) {
	got := Summarize([]byte(`{"sections":[{"type":"text","text":"Rated 4.9 by buyers. Free returns."}]}`))
	if got != "Rated 4.9 by buyers. Free returns." {
		t.Fatalf("Summarize = %q", got)
	}
}

func TestSummarizeNonJSON(t *testing.T) {
	got := Summarize([]byte("<p>Plain body text</p>"))
	if got != "Plain body text." {
		t.Fatalf("Summarize = %q", got)
	}
}
