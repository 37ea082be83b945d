package email_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetcauseviit/donation_poster_app/internal/adapters/email"
	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
)

func testParams() portssvc.PosterEmailParams {
	amount := decimal.NewFromInt(500)
	return portssvc.PosterEmailParams{
		To:         "asha@example.com",
		DonorName:  "Asha Rao",
		CauseLabel: "Education Initiative",
		Amount:     &amount,
		Message:    "Your kindness lights the way.",
		PosterPNG:  []byte("fake-png-bytes"),
	}
}

func TestSendPoster_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer server.Close()

	m := email.NewResendMailer("test-key", "Street Cause VIIT <noreply@send.streetcauseviit.org>", 5*time.Second, email.WithAPIURL(server.URL))

	err := m.SendPoster(context.Background(), testParams())

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Street Cause VIIT <noreply@send.streetcauseviit.org>", gotBody["from"])
	assert.Equal(t, []any{"asha@example.com"}, gotBody["to"])
	assert.Equal(t, "Thank You for Your Generous Donation, Asha Rao!", gotBody["subject"])

	htmlBody, _ := gotBody["html"].(string)
	assert.Contains(t, htmlBody, "Asha Rao")
	assert.Contains(t, htmlBody, "Education Initiative")
	assert.Contains(t, htmlBody, "₹500")
	assert.Contains(t, htmlBody, "Your kindness lights the way.")
	assert.Contains(t, htmlBody, "Team Street Cause VIIT")

	attachments, ok := gotBody["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 1)
	attachment := attachments[0].(map[string]any)
	assert.Equal(t, "ThankYou-Asha_Rao.png", attachment["filename"])
	decoded, err := base64.StdEncoding.DecodeString(attachment["content"].(string))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), decoded)
}

func TestSendPoster_NoAmountOmitsAmountClause(t *testing.T) {
	var htmlBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		htmlBody, _ = body["html"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := email.NewResendMailer("k", "from@example.com", 5*time.Second, email.WithAPIURL(server.URL))

	params := testParams()
	params.Amount = nil
	require.NoError(t, m.SendPoster(context.Background(), params))
	assert.NotContains(t, htmlBody, "₹")
}

func TestSendPoster_EscapesHTML(t *testing.T) {
	var htmlBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		htmlBody, _ = body["html"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := email.NewResendMailer("k", "from@example.com", 5*time.Second, email.WithAPIURL(server.URL))

	params := testParams()
	params.DonorName = `<script>alert("x")</script>`
	require.NoError(t, m.SendPoster(context.Background(), params))
	assert.NotContains(t, htmlBody, "<script>")
}

func TestSendPoster_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	m := email.NewResendMailer("k", "bad", 5*time.Second, email.WithAPIURL(server.URL))

	err := m.SendPoster(context.Background(), testParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestSendPoster_MissingRecipient(t *testing.T) {
	m := email.NewResendMailer("k", "from@example.com", 5*time.Second)

	params := testParams()
	params.To = ""
	assert.Error(t, m.SendPoster(context.Background(), params))
}

func TestSendPoster_NotConfigured(t *testing.T) {
	m := email.NewResendMailer("", "from@example.com", 5*time.Second)

	assert.Error(t, m.SendPoster(context.Background(), testParams()))
}
