package formatter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yildizm/go-termfmt"
)

// titleCase upper-cases the first letter of each word in a macro key
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// orNA returns "N/A" for empty values
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// createConfidenceBar creates ASCII confidence bar using go-termfmt
func createConfidenceBar(confidence float64, opts *termfmt.TerminalOptions) string {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return termfmt.CreateConfidenceBar(confidence, opts)
}

// pluralize returns "1 recipe" / "3 recipes"
func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
