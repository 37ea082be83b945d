// Package email delivers the thank-you poster over the Resend transactional
// email API.
package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
)

const defaultAPIURL = "https://api.resend.com/emails"

// ResendMailer implements PosterMailer against the Resend HTTP API.
type ResendMailer struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

// ResendMailerOption customizes the mailer.
type ResendMailerOption func(*ResendMailer)

// WithAPIURL overrides the Resend endpoint.
func WithAPIURL(url string) ResendMailerOption {
	return func(m *ResendMailer) {
		if url != "" {
			m.apiURL = url
		}
	}
}

// NewResendMailer builds the mailer. from is the sender identity, e.g.
// "Street Cause VIIT <noreply@send.streetcauseviit.org>".
func NewResendMailer(apiKey, from string, timeout time.Duration, opts ...ResendMailerOption) *ResendMailer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	m := &ResendMailer{
		apiURL: defaultAPIURL,
		apiKey: strings.TrimSpace(apiKey),
		from:   strings.TrimSpace(from),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ portssvc.PosterMailer = (*ResendMailer)(nil)

type resendAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

// SendPoster emails the rendered poster as a PNG attachment.
func (m *ResendMailer) SendPoster(ctx context.Context, p portssvc.PosterEmailParams) error {
	if m.apiKey == "" {
		return fmt.Errorf("email dispatcher not configured")
	}
	if p.To == "" {
		return fmt.Errorf("recipient address required")
	}

	attachmentName := "ThankYou-" + strings.ReplaceAll(p.DonorName, " ", "_") + ".png"
	reqBody := resendRequest{
		From:    m.from,
		To:      []string{p.To},
		Subject: fmt.Sprintf("Thank You for Your Generous Donation, %s!", p.DonorName),
		HTML:    buildHTMLBody(p),
		Attachments: []resendAttachment{
			{Filename: attachmentName, Content: base64.StdEncoding.EncodeToString(p.PosterPNG)},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email dispatch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email dispatch failed: %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// buildHTMLBody mirrors the structure of the donor email: greeting, cause and
// amount sentence, the quoted appreciation message, a note about the
// attachment and the team sign-off.
func buildHTMLBody(p portssvc.PosterEmailParams) string {
	name := html.EscapeString(p.DonorName)
	cause := html.EscapeString(p.CauseLabel)
	message := html.EscapeString(p.Message)

	amountClause := ""
	if p.Amount != nil {
		amountClause = fmt.Sprintf(" of ₹%s", p.Amount.String())
	}

	var b strings.Builder
	b.WriteString(`<div style="max-width:600px;margin:0 auto;font-family:sans-serif">`)
	fmt.Fprintf(&b, `<h1 style="color:#16a34a">Thank You, %s!</h1>`, name)
	fmt.Fprintf(&b, `<p>Dear <strong>%s</strong>,</p>`, name)
	fmt.Fprintf(&b, `<p>We are deeply grateful for your generous contribution to <strong>%s</strong>%s. Your support empowers us to continue our mission of creating positive change in our community.</p>`, cause, amountClause)
	fmt.Fprintf(&b, `<blockquote style="font-style:italic;color:#555">&quot;%s&quot;</blockquote>`, message)
	b.WriteString(`<p><strong>Your Thank You Poster is attached!</strong> Feel free to share it on social media to inspire others to contribute.</p>`)
	b.WriteString(`<p>With heartfelt gratitude,<br><strong style="color:#16a34a">Team Street Cause VIIT</strong></p>`)
	b.WriteString(`<p style="color:#aaa;font-size:11px">16 Years of Compassion in Action | Vision 2030</p>`)
	b.WriteString(`</div>`)
	return b.String()
}
