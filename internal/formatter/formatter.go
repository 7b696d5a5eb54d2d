// Package formatter rewrites the lightweight inline markup used by the
// newsroom editor into display-ready HTML and extracts structured quotes.
// Everything here is pure: no I/O, no state, deterministic output.
package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
)

// The six marker pairs. Content may span multiple lines ((?s)), matching is
// non-greedy so sibling markers never swallow each other, and the pairs are
// mutually non-overlapping by construction (distinct opening tags; the bare
// [quote] pattern cannot match an attributed [quote="..."] opening).
var (
	reAttributedQuote = regexp.MustCompile(`(?s)\[quote="([^"]*)"\](.*?)\[/quote\]`)
	reBareQuote       = regexp.MustCompile(`(?s)\[quote\](.*?)\[/quote\]`)
	reHighlight       = regexp.MustCompile(`(?s)\[highlight\](.*?)\[/highlight\]`)
	reBold            = regexp.MustCompile(`(?s)\[b\](.*?)\[/b\]`)
	reItalic          = regexp.MustCompile(`(?s)\[i\](.*?)\[/i\]`)
	reHeading         = regexp.MustCompile(`(?s)\[heading\](.*?)\[/heading\]`)

	// Matches either quote form for the extraction pass. Group 1 is the
	// speaker (empty for bare quotes), group 2 the quote text.
	reAnyQuote = regexp.MustCompile(`(?s)\[quote(?:="([^"]*)")?\](.*?)\[/quote\]`)
)

// Format rewrites the inline markers in raw into display HTML and extracts
// the quote snapshot from the same raw text. Empty input yields an empty
// body and no quotes; Format never fails.
func Format(raw string) (string, []domain.Quote) {
	if raw == "" {
		return "", nil
	}
	return formatBody(raw), ExtractQuotes(raw)
}

func formatBody(raw string) string {
	body := reAttributedQuote.ReplaceAllString(raw,
		`<blockquote class="article-quote"><p>$2</p><cite>$1</cite></blockquote>`)
	body = reBareQuote.ReplaceAllString(body,
		`<blockquote class="article-quote"><p>$1</p></blockquote>`)
	body = reHighlight.ReplaceAllString(body, `<mark>$1</mark>`)
	body = reBold.ReplaceAllString(body, `<strong>$1</strong>`)
	body = reItalic.ReplaceAllString(body, `<em>$1</em>`)
	body = reHeading.ReplaceAllString(body, `<h2>$1</h2>`)
	return body
}

// ExtractQuotes scans the RAW text (not the formatted output) and returns
// quotes in left-to-right source order. Offset is the byte offset of the
// quote text inside raw, so raw[q.Offset:q.Offset+len(q.Text)] == q.Text
// holds regardless of how display formatting evolves.
func ExtractQuotes(raw string) []domain.Quote {
	matches := reAnyQuote.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	quotes := make([]domain.Quote, 0, len(matches))
	for _, m := range matches {
		// m: [start end speakerStart speakerEnd textStart textEnd]
		speaker := ""
		if m[2] >= 0 {
			speaker = raw[m[2]:m[3]]
		}
		quotes = append(quotes, domain.Quote{
			Text:    raw[m[4]:m[5]],
			Speaker: speaker,
			Offset:  m[4],
		})
	}
	return quotes
}

// PlainText strips HTML from a formatted body, returning readable text
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}

// WordCount counts whitespace-separated words in the readable text of body
func WordCount(body string) int {
	return len(strings.Fields(PlainText(formatBody(body))))
}

// Excerpt derives a short plain-text excerpt from raw marked-up content,
// cut at a word boundary within max runes.
func Excerpt(raw string, max int) string {
	text := PlainText(formatBody(raw))
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return fmt.Sprintf("%s...", strings.TrimSpace(cut))
}
