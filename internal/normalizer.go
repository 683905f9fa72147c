package internal

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	strongToken   = regexp.MustCompile(`[A-Za-z0-9_-]{5,}`)
)

// NormalizeText collapses every whitespace run (newlines included) to a single
// space and trims both ends. NormalizeText(NormalizeText(s)) == NormalizeText(s).
func NormalizeText(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// StrongTokens returns the alphanumeric tokens (with _ and -) of at least five
// characters. Request ids and explicit markers in a question show up here.
func StrongTokens(text string) []string {
	return strongToken.FindAllString(text, -1)
}

// CompactText keeps only ASCII letters, digits and CJK ideographs, lower-cased.
// Used to compare texts that the chat surface re-punctuated or re-formatted.
func CompactText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0x4e00 && r <= 0x9fff:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeRole maps the role hints found on rendered nodes to a Role.
func normalizeRole(hint string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "user", "human", "question":
		return RoleUser, true
	case "assistant", "ai", "bot", "answer":
		return RoleAssistant, true
	default:
		return "", false
	}
}
