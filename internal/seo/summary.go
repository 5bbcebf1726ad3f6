// internal/seo/summary.go
//
// Description fallback from a page's structured document.
//
// Context
// -------
// Pages and funnel steps store their body as a JSON document shaped like
//
//	{"sections": [{"type": "heading", "content": "…"},
//	              {"type": "paragraph", "text": "…", "blocks": [ … ]}]}
//
// Summarize pulls the readable text out of it and trims it to a meta
// description:
//
//  1. Walk sections and nested blocks, keeping `content` or `text` from
//     nodes typed text, paragraph, or heading.
//  2. Strip HTML tags and decode entities (golang.org/x/net/html).
//  3. Collapse whitespace and split into sentences on . ! ?
//  4. Append whole sentences while the result stays within MaxSummary
//     runes.  A lone first sentence over the limit is cut to
//     MaxSummary-3 runes plus "...".
//  5. The result always ends in terminal punctuation.
//
// Summarize is pure: no logging and no errors.  A document that is not
// JSON is treated as a single text blob.

package seo

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxSummary is the target meta-description length in runes.
const MaxSummary = 155

const ellipsis = "..."

var textTypes = map[string]bool{
	"text":      true,
	"paragraph": true,
	"heading":   true,
}

// Summarize returns a sentence-aligned summary of doc, or "" when doc has
// no readable text.
func Summarize(doc []byte) string {
	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 || bytes.Equal(doc, []byte("null")) {
		return ""
	}

	var pieces []string
	var tree any
	if err := json.Unmarshal(doc, &tree); err != nil {
		pieces = []string{string(doc)}
	} else if s, ok := tree.(string); ok {
		pieces = []string{s}
	} else {
		collect(tree, &pieces)
	}

	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(stripTags(p))
		b.WriteByte(' ')
	}
	text := strings.Join(strings.Fields(b.String()), " ")
	if text == "" {
		return ""
	}
	return fit(sentences(text), MaxSummary)
}

// collect appends readable strings from node in document order.
func collect(node any, out *[]string) {
	switch n := node.(type) {
	case []any:
		for _, child := range n {
			collect(child, out)
		}
	case map[string]any:
		if typ, _ := n["type"].(string); textTypes[typ] {
			if s, ok := n["content"].(string); ok && s != "" {
				*out = append(*out, s)
			} else if s, ok := n["text"].(string); ok {
				*out = append(*out, s)
			}
		}
		if sec, ok := n["sections"]; ok {
			collect(sec, out)
		}
		if blocks, ok := n["blocks"]; ok {
			collect(blocks, out)
		}
	}
}

// blockTags break words apart when stripped.
var blockTags = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "blockquote": true, "section": true,
}

// stripTags drops markup, keeps text, and decodes entities.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed markup; keep what was read.
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// sentences splits text after each run of . ! ? that is followed by a
// space or the end.  A trailing fragment gets a "." appended.
func sentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if !isTerminal(r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next < len(text) {
			nr, _ := utf8.DecodeRuneInString(text[next:])
			if !unicode.IsSpace(nr) {
				continue
			}
		}
		if s := strings.TrimSpace(text[start:next]); s != "" {
			out = append(out, s)
		}
		start = next
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		out = append(out, tail+".")
	}
	return out
}

// fit greedily joins whole sentences within limit runes.
func fit(sents []string, limit int) string {
	if len(sents) == 0 {
		return ""
	}
	first := sents[0]
	if utf8.RuneCountInString(first) > limit {
		runes := []rune(first)
		return string(runes[:limit-len(ellipsis)]) + ellipsis
	}

	out := first
	n := utf8.RuneCountInString(first)
	for _, s := range sents[1:] {
		sn := utf8.RuneCountInString(s)
		if n+1+sn > limit {
			break
		}
		out += " " + s
		n += 1 + sn
	}
	return out
}

func isTerminal(r rune) bool { return r == '.' || r == '!' || r == '?' }
