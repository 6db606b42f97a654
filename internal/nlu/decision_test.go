package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"untagged fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  \n```json {\"a\":1} ```\n ", `{"a":1}`},
		{"plain text", "I think you want to search", "I think you want to search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestParseDecision_FencedRoundTrip(t *testing.T) {
	d, err := ParseDecision("```json\n{\"tool_name\":\"search_google\",\"argument\":\"cats\"}\n```")
	require.NoError(t, err)

	assert.Equal(t, Decision{ToolName: "search_google", Argument: "cats"}, d)

	tool, ok := d.Tool()
	assert.True(t, ok)
	assert.Equal(t, ToolSearchGoogle, tool)
}

func TestParseDecision_MissingArgument(t *testing.T) {
	d, err := ParseDecision(`{"tool_name": "stop_assistant"}`)
	require.NoError(t, err)

	assert.Equal(t, "stop_assistant", d.ToolName)
	assert.Empty(t, d.Argument)
}

func TestParseDecision_MissingToolIsNotAFormatError(t *testing.T) {
	d, err := ParseDecision(`{"argument": "x"}`)
	require.NoError(t, err)

	_, ok := d.Tool()
	assert.False(t, ok)
}

func TestParseDecision_Malformed(t *testing.T) {
	for _, raw := range []string{
		"I think you want to search",
		"",
		"null",
		`["search_google", "cats"]`,
		`{"tool_name": 42}`,
		`{"tool_name": "search_google"`,
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseDecision(raw)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}
