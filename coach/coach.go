// Package coach explains comparison results with Gemini. It is strictly
// educational: the system prompt forbids the model from giving
// buy/sell advice.
package coach

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for explanations.
const DefaultModel = "gemini-2.0-flash"

const systemPrompt = `You are an investing coach for a self-directed retail investor.
You receive a markdown report ranking tickers by weighted risk metrics
(Sharpe ratio, volatility, maximum drawdown, beta, R²) against a benchmark.

Explain, in plain language:
- why the top-ranked ticker won under these weights,
- what each metric says about each ticker,
- which weight changes would reorder the ranking.

Never recommend buying or selling. Never predict prices. Stay with the
numbers in the report.`

// Coach wraps a Gemini chat configured for ranking explanations.
type Coach struct {
	Model string
	chat  *genai.Chat
}

// New returns an unstarted Coach with the default model.
func New() *Coach { return &Coach{Model: DefaultModel} }

// Start opens the chat session.
func (c *Coach) Start(ctx context.Context, client *genai.Client) error {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}
	chat, err := client.Chats.Create(ctx, c.Model, cfg, nil)
	if err != nil {
		return fmt.Errorf("starting coach chat: %w", err)
	}
	c.chat = chat
	return nil
}

// Explain sends a comparison report and an optional user question, and
// returns the model's explanation.
func (c *Coach) Explain(ctx context.Context, report, question string) (string, error) {
	if c.chat == nil {
		return "", fmt.Errorf("coach session not started")
	}
	prompt := report
	if question != "" {
		prompt = report + "\n\nQuestion: " + question
	}
	resp, err := c.chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("asking coach: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from coach")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
