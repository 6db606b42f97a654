package nlu

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrFormat = errors.New("classification format error")

// Decision is the classifier's pick for one command.
type Decision struct {
	ToolName string `json:"tool_name"`
	Argument string `json:"argument"`
}

// Tool resolves ToolName; false when the name is missing or unknown.
func (d Decision) Tool() (Tool, bool) {
	return ParseTool(d.ToolName)
}

// StripFences removes an enclosing ``` or ```json code fence.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseDecision decodes a raw classifier reply. Anything that is not a JSON
// object with string fields is reported as ErrFormat.
func ParseDecision(raw string) (Decision, error) {
	body := StripFences(raw)

	var d Decision
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return Decision{}, fmt.Errorf("%w: %v (raw: %s)", ErrFormat, err, raw)
	}

	// json accepts "null" into a zero struct; that is still not an object
	if !strings.HasPrefix(body, "{") {
		return Decision{}, fmt.Errorf("%w: not a json object (raw: %s)", ErrFormat, raw)
	}

	return d, nil
}
