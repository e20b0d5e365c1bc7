package hack

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	wordsPerMinute = 200
	snippetLength  = 50
)

// ReadingMinutes estimates how long the body takes to read, counting words
// of its text content.
func ReadingMinutes(body string) int {
	text := body
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		text = doc.Text()
	}
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// Snippet returns the first 50 characters of s.
func Snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetLength {
		return s
	}
	return string(runes[:snippetLength])
}
