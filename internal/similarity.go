package internal

import "strings"

const compactTailLen = 10

// structuredKeywords are the markers that a question asks for JSON output
var structuredKeywords = []string{"json", "结构化", "严格输出"}

// IsSameQuestion reports whether a rendered user turn carries the submitted
// question. The surface may echo the question with autocorrect, markdown or
// punctuation changes, so the checks go from strict to loose.
func IsSameQuestion(rendered, submitted string) bool {
	rendered = NormalizeText(rendered)
	submitted = NormalizeText(submitted)
	if rendered == "" || submitted == "" {
		return false
	}
	if strings.Contains(rendered, submitted) {
		return true
	}

	for _, token := range StrongTokens(submitted) {
		if strings.Contains(rendered, token) {
			return true
		}
	}

	renderedCompact := CompactText(rendered)
	submittedCompact := CompactText(submitted)
	if renderedCompact == "" || submittedCompact == "" {
		return false
	}
	if strings.Contains(renderedCompact, submittedCompact) {
		return true
	}
	tail := []rune(submittedCompact)
	if len(tail) >= compactTailLen && strings.Contains(renderedCompact, string(tail[len(tail)-compactTailLen:])) {
		return true
	}
	return false
}

// LooksLikeMetadataJSON reports whether text is a generated
// {"name", "description", "topics"} payload rather than a prose answer.
func LooksLikeMetadataJSON(text string) bool {
	compact := strings.ToLower(NormalizeText(text))
	return strings.Contains(compact, `"name"`) &&
		strings.Contains(compact, `"description"`) &&
		strings.Contains(compact, `"topics"`)
}

// QuestionRequestsJSON reports whether the asker wants machine-parseable output
func QuestionRequestsJSON(question string) bool {
	q := strings.ToLower(NormalizeText(question))
	for _, keyword := range structuredKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}
