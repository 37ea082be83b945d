// Package ai calls an OpenAI-compatible chat-completions gateway to author
// the short appreciation message printed on posters.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
)

const systemPrompt = "You are a professional copywriter for an ethical, student-run NGO. Write warm, sincere appreciation messages that inspire pride and encourage sharing. Keep messages under 50 words."

const userPromptTemplate = `Generate a short, heartfelt appreciation message (2-3 sentences max) for a donor who supported "%s" at Street Cause VIIT, a student-run NGO in India.

The message should be:
- Warm and grateful
- Inspiring but not over-the-top
- Professional and ethical
- Mentioning the impact of their contribution

%sDo NOT include the donor's name in the message - it will be added separately.
Do NOT use phrases like "Dear [Name]" or greetings.
Just the appreciation text, nothing else.`

// AppreciationGenerator calls any OpenAI-compatible /v1/chat/completions
// endpoint. Works with hosted gateways as well as self-hosted models.
type AppreciationGenerator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAppreciationGenerator builds the generator client.
// baseURL should include the /v1 prefix, e.g. "https://gateway.example.com/v1".
func NewAppreciationGenerator(baseURL, apiKey, model string, timeout time.Duration) *AppreciationGenerator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &AppreciationGenerator{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ portssvc.MessageGenerator = (*AppreciationGenerator)(nil)

// GenerateMessage asks the gateway for an appreciation text. Any transport or
// API failure is returned to the caller, which substitutes the fixed fallback
// sentence; this client never invents text of its own.
func (g *AppreciationGenerator) GenerateMessage(ctx context.Context, donorName, causeLabel string, amount *decimal.Decimal) (string, error) {
	if g.baseURL == "" || g.model == "" {
		return "", fmt.Errorf("message generator not configured")
	}

	amountLine := ""
	if amount != nil {
		amountLine = fmt.Sprintf("They donated ₹%s.\n\n", amount.String())
	}
	userPrompt := fmt.Sprintf(userPromptTemplate, causeLabel, amountLine)

	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("message gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp chatErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return "", fmt.Errorf("message gateway error: %s", errResp.Error.Message)
		}
		return "", fmt.Errorf("message gateway error: %s", resp.Status)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("message gateway decode: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from message gateway")
	}
	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from message gateway")
	}
	return text, nil
}

// OpenAI-compatible request/response types.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
