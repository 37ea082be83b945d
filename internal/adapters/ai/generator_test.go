package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetcauseviit/donation_poster_app/internal/adapters/ai"
)

func chatCompletionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestGenerateMessage_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(chatCompletionResponse("  Thank you for standing with us.  "))
	}))
	defer server.Close()

	g := ai.NewAppreciationGenerator(server.URL+"/v1", "test-key", "test-model", 5*time.Second)
	amount := decimal.NewFromInt(500)

	msg, err := g.GenerateMessage(context.Background(), "Asha Rao", "Education Initiative", &amount)

	require.NoError(t, err)
	assert.Equal(t, "Thank you for standing with us.", msg)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	userMsg := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, userMsg, "Education Initiative")
	assert.Contains(t, userMsg, "₹500")
}

func TestGenerateMessage_NoAmountOmitsAmountLine(t *testing.T) {
	var userMsg string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		messages := body["messages"].([]any)
		userMsg = messages[1].(map[string]any)["content"].(string)
		_ = json.NewEncoder(w).Encode(chatCompletionResponse("Thanks."))
	}))
	defer server.Close()

	g := ai.NewAppreciationGenerator(server.URL+"/v1", "", "test-model", 5*time.Second)

	_, err := g.GenerateMessage(context.Background(), "Asha Rao", "Community Support", nil)

	require.NoError(t, err)
	assert.NotContains(t, userMsg, "₹")
}

func TestGenerateMessage_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded"},
		})
	}))
	defer server.Close()

	g := ai.NewAppreciationGenerator(server.URL+"/v1", "k", "m", 5*time.Second)

	_, err := g.GenerateMessage(context.Background(), "Asha Rao", "Healthcare Mission", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestGenerateMessage_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	g := ai.NewAppreciationGenerator(server.URL+"/v1", "k", "m", 5*time.Second)

	_, err := g.GenerateMessage(context.Background(), "Asha Rao", "Healthcare Mission", nil)
	assert.Error(t, err)
}

func TestGenerateMessage_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	g := ai.NewAppreciationGenerator(server.URL+"/v1", "k", "m", time.Second)

	_, err := g.GenerateMessage(context.Background(), "Asha Rao", "Healthcare Mission", nil)
	assert.Error(t, err)
}

func TestGenerateMessage_NotConfigured(t *testing.T) {
	g := ai.NewAppreciationGenerator("", "", "", time.Second)

	_, err := g.GenerateMessage(context.Background(), "Asha Rao", "Healthcare Mission", nil)
	assert.Error(t, err)
}
