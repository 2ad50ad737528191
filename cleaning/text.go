package cleaning

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

const (
	// NumberToken replaces standalone integers when numeric normalization is on.
	// It has no markup or digits so that a second pass leaves it unchanged.
	NumberToken = "[num]"
)

var (
	stripPolicy = bluemonday.StrictPolicy()

	urlPattern        = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	repeatedPunct     = regexp.MustCompile(`[!?.]{2,}`)
	gluedSentence     = regexp.MustCompile(`([.!?])([a-z])`)
	orphanPunct       = regexp.MustCompile(`\s+[.,!?;:]+\s+`)
	leadingPunct      = regexp.MustCompile(`^\s*[.,!?;:]+\s+`)
	standaloneNumber  = regexp.MustCompile(`\b\d+\b`)

	typography = strings.NewReplacer(
		"\u2018", "'", "\u2019", "'",
		"\u201c", `"`, "\u201d", `"`,
		"\u2014", "-", "\u2013", "-",
	)
)

// SanitizeText decodes entities, strips markup and URLs, drops characters
// outside printable ASCII and collapses whitespace and repeated terminators.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	text = unescapeAll(text)
	// the policy re-escapes what it keeps
	text = html.UnescapeString(stripPolicy.Sanitize(text))
	text = urlPattern.ReplaceAllString(text, "")

	text = norm.NFKC.String(text)
	text = typography.Replace(text)
	text = strings.Map(printableOrSpace, text)

	text = whitespacePattern.ReplaceAllString(text, " ")
	text = repeatedPunct.ReplaceAllStringFunc(text, func(run string) string {
		return run[len(run)-1:]
	})
	return strings.TrimSpace(text)
}

// NormalizeUnicodeAndCase applies NFKC, lowercases and folds typographic
// quotes and dashes to ASCII.
func NormalizeUnicodeAndCase(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	return typography.Replace(text)
}

// NormalizeSentenceBoundaries separates glued sentences and removes
// punctuation left standing between spaces.
func NormalizeSentenceBoundaries(text string) string {
	if text == "" {
		return ""
	}
	text = gluedSentence.ReplaceAllString(text, "$1 $2")
	text = orphanPunct.ReplaceAllString(text, " ")
	text = leadingPunct.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// NormalizeNumbers replaces standalone integers with NumberToken when enabled.
func NormalizeNumbers(text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	return standaloneNumber.ReplaceAllString(text, NumberToken)
}

// NormalizeBody runs steps 2 through 5 until the text stops changing.
func NormalizeBody(text string, normalizeNumbers bool) string {
	return fixedPoint(text, func(s string) string {
		s = SanitizeText(s)
		s = NormalizeUnicodeAndCase(s)
		s = NormalizeSentenceBoundaries(s)
		return NormalizeNumbers(s, normalizeNumbers)
	})
}

// NormalizeTitle runs sanitation and case folding until the title stops changing.
func NormalizeTitle(title string) string {
	return fixedPoint(title, func(s string) string {
		return NormalizeUnicodeAndCase(SanitizeText(s))
	})
}

// passLimit bounds a fixed-point loop over text. Every nesting level of an
// escape adds at least one byte, so depth never outruns the input length.
func passLimit(text string) int {
	return len(text) + 2
}

func fixedPoint(text string, step func(string) string) string {
	for range passLimit(text) {
		next := step(text)
		if next == text {
			return next
		}
		text = next
	}
	return text
}

func unescapeAll(text string) string {
	for range passLimit(text) {
		next := html.UnescapeString(text)
		if next == text {
			return next
		}
		text = next
	}
	return text
}

func printableOrSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	if r >= 0x20 && r < 0x7f {
		return r
	}
	return -1
}
