package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSameQuestion(t *testing.T) {
	tests := []struct {
		name      string
		rendered  string
		submitted string
		want      bool
	}{
		{"identical", "what is this board about", "what is this board about", true},
		{"rendered wraps question", "Q: what is this board about\n(edited)", "what is this board about", true},
		{"whitespace differences", "what  is\nthis", "what is this", true},
		{"strong token survives rewrite", "Regarding REQ-12345, summarize", "Please summarize REQ-12345 for me", true},
		{"punctuation stripped", "whats up doc", "what's up, doc?", true},
		{"cjk punctuation stripped", "请总结一下核心主题", "请总结一下核心主题！", true},
		{"cjk tail match", "帮我详细分析一下当前的研究进展情况", "你好，请帮我详细分析一下当前的研究进展情况", true},
		{"unrelated", "tell me about cats", "dogs?", false},
		{"empty rendered", "", "question", false},
		{"empty submitted", "question", "", false},
		{"short tail is not enough", "xyz", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSameQuestion(tt.rendered, tt.submitted))
		})
	}
}

func TestIsSameQuestion_Reflexive(t *testing.T) {
	inputs := []string{
		"hello",
		"What is the status of REQ-1?",
		"请阅读当前board，简要总结",
		"  spaced   out  ",
		"?!",
	}
	for _, in := range inputs {
		if NormalizeText(in) == "" {
			continue
		}
		assert.True(t, IsSameQuestion(in, in), "IsSameQuestion(%q, %q)", in, in)
	}
}

func TestLooksLikeMetadataJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"metadata payload", `{"name": "AI papers", "description": "Papers", "topics": ["ai"]}`, true},
		{"upper case keys", `{"NAME": "x", "DESCRIPTION": "y", "TOPICS": []}`, true},
		{"missing topics", `{"name": "x", "description": "y"}`, false},
		{"prose", "The board is about name description and topics.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeMetadataJSON(tt.text))
		})
	}
}

func TestQuestionRequestsJSON(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"return JSON please", true},
		{"请给出结构化结果", true},
		{"严格输出以下格式", true},
		{"summarize the board", false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, QuestionRequestsJSON(tt.question))
		})
	}
}
