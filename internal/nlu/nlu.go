package nlu

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

// Completer returns the full text reply for a single prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classify maps one command onto a Decision. Service failures are returned
// wrapped as is; replies that cannot be decoded wrap ErrFormat.
func Classify(ctx context.Context, c Completer, command string) (Decision, error) {
	raw, err := c.Complete(ctx, BuildPrompt(command))
	if err != nil {
		return Decision{}, fmt.Errorf("complete: %w", err)
	}

	log.Debug("Classifier replied", "raw", raw)

	return ParseDecision(raw)
}

type OpenAIClassifier struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAIClassifier(client openai.Client, model string) *OpenAIClassifier {
	m := openai.ChatModel(model)
	if m == "" {
		m = openai.ChatModelGPT5Nano
	}
	return &OpenAIClassifier{client: client, model: m}
}

// Complete streams the completion and joins the delta fragments.
func (c *OpenAIClassifier) Complete(ctx context.Context, prompt string) (string, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: c.model,
	})
	defer stream.Close()

	var (
		b      strings.Builder
		chunks int
	)
	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			b.WriteString(choice.Delta.Content)
		}
		chunks++
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("chat completion stream: %w", err)
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty completion after %d chunks", ErrFormat, chunks)
	}

	return b.String(), nil
}
