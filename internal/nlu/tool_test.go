package nlu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTools_NamesRoundTrip(t *testing.T) {
	want := []string{
		"open_website",
		"play_on_youtube",
		"search_google",
		"search_on_youtube",
		"stop_assistant",
		"conversation",
	}

	tools := Tools()
	assert.Len(t, tools, len(want))

	for i, tool := range tools {
		assert.Equal(t, want[i], tool.String())
		assert.NotEmpty(t, tool.Description())

		parsed, ok := ParseTool(tool.String())
		assert.True(t, ok)
		assert.Equal(t, tool, parsed)
	}
}

func TestParseTool_Unknown(t *testing.T) {
	for _, name := range []string{"", "Open_Website", "launch_rocket"} {
		_, ok := ParseTool(name)
		assert.False(t, ok, name)
	}

	assert.Equal(t, "unknown", Tool(-1).String())
	assert.Equal(t, "unknown", toolCount.String())
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("play despacito")

	for _, tool := range Tools() {
		assert.Contains(t, p, `"`+tool.String()+`"`)
	}
	assert.Contains(t, p, `{"tool_name": "name_of_the_tool", "argument": "argument_value"}`)
	assert.True(t, strings.HasSuffix(p, "User Command: \"play despacito\"\nJSON Response:"))
}
