package nlu

import (
	"fmt"
	"strings"
)

const promptHeader = `You are a voice assistant controller. Your job is to determine the user's intent and map it to one of the available tools.
You must respond ONLY with a JSON object in the format: {"tool_name": "name_of_the_tool", "argument": "argument_value"}
Do not add explanations. Do not wrap the JSON in markdown.

Available tools:
`

var systemPrompt = func() string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for _, t := range Tools() {
		fmt.Fprintf(&b, "- %q: %s\n", t.String(), t.Description())
	}
	return b.String()
}()

// BuildPrompt appends the user's command to the fixed instruction.
func BuildPrompt(command string) string {
	return fmt.Sprintf("%s\nUser Command: %q\nJSON Response:", systemPrompt, command)
}
