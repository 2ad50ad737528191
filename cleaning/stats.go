package cleaning

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/newsprep/core"
)

// veryShortLength is the length under which an article is flagged very short.
const veryShortLength = 100

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// CountTokens returns the number of whitespace-separated tokens.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// CountSentences returns the number of non-blank segments between terminators.
func CountSentences(text string) int {
	count := 0
	for _, segment := range sentenceTerminators.Split(text, -1) {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}
	return count
}

// lengthFlags returns the flags for a body of charCount runes.
// Returns ok=false when the body is below minLength.
func lengthFlags(charCount, minLength, maxLength int) (flags []string, ok bool) {
	if charCount < minLength {
		return nil, false
	}
	if charCount > maxLength {
		flags = append(flags, core.FlagExtremelyLong)
	}
	if charCount < veryShortLength {
		flags = append(flags, core.FlagVeryShort)
	}
	return flags, true
}

// applyStatistics sets the derived counts of article from its body text.
func applyStatistics(article *core.CleanedArticle) {
	article.CharacterCount = utf8.RuneCountInString(article.BodyText)
	article.TokenCount = CountTokens(article.BodyText)
	article.SentenceCount = CountSentences(article.BodyText)
}
