package quizgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced with label", "```json\n[1,\n2]\n```", "[1, 2]"},
		{"fenced upper label", "```JSON\n[]\n```", "[]"},
		{"fenced no label", "```\n[]\n```", "[]"},
		{"fence on one line", "```json[1]```", "[1]"},
		{"surrounding whitespace", "\n  ```json\n[]\n```  \n", "[]"},
		{"crlf", "[\r\n{\"a\":1}\r\n]", "[ {\"a\":1} ]"},
		{"lone carriage return", "[1,\r2]", "[1, 2]"},
		{"newline inside string", "[{\"q\":\"a\nb\"}]", "[{\"q\":\"a b\"}]"},
		{"prose kept", "Sure! Here are your questions: [1,2,3]", "Sure! Here are your questions: [1,2,3]"},
		{"trailing fence only", "[]\n```", "[]"},
		{"array on bare fence line", "```[\n{\"a\":1}\n]\n```", "[ {\"a\":1} ]"},
		{"array after label on fence line", "```json [\n{\"a\":1}\n]```", "[ {\"a\":1} ]"},
		{"label with digits", "```json5\n[]\n```", "[]"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.in))
		})
	}
}

func TestExtract_IdempotentOnNormalizedText(t *testing.T) {
	inputs := []string{
		`[{"question":"She ... late.","options":["is","was","be","are"],"answer":2,"explanation":"..."}]`,
		`  [1, 2]  `,
		`not json at all`,
		``,
	}
	for _, in := range inputs {
		assert.Equal(t, in, Extract(in), "normalized text must pass through unchanged")
		assert.Equal(t, Extract(in), Extract(Extract(in)))
	}
}
