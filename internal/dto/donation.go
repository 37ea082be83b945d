package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
)

// SubmitDonationRequest defines the data needed to submit a donation.
// ScreenshotKey, when present, must reference an object already uploaded via
// the screenshot endpoint; the controller only records the reference.
type SubmitDonationRequest struct {
	DonorName     string           `json:"donorName" binding:"required,min=2,max=100"`
	DonorEmail    *string          `json:"donorEmail" binding:"omitempty,email"`
	DonorPhone    *string          `json:"donorPhone" binding:"omitempty,min=10,max=15"`
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty"`
	ShowAmount    bool             `json:"showAmount"`
	Cause         string           `json:"cause" binding:"required"`
	ScreenshotKey *string          `json:"screenshotKey" binding:"omitempty"`
}

// DecideDonationRequest carries the administrator's verdict.
type DecideDonationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// DonationResponse defines the data returned for a donation record.
type DonationResponse struct {
	DonationID     string           `json:"donationID"`
	DonorName      string           `json:"donorName"`
	DonorEmail     *string          `json:"donorEmail,omitempty"`
	DonorPhone     *string          `json:"donorPhone,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	ShowAmount     bool             `json:"showAmount"`
	Cause          string           `json:"cause"`
	CauseLabel     string           `json:"causeLabel"`
	ScreenshotURL  *string          `json:"screenshotURL,omitempty"`
	Status         string           `json:"status"`
	AIMessage      *string          `json:"aiMessage,omitempty"`
	PosterIssuedAt *time.Time       `json:"posterIssuedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// SubmitDonationResponse is returned by the public submission endpoint.
type SubmitDonationResponse struct {
	DonationID string `json:"donationID"`
	Status     string `json:"status"`
}

// IssuePosterResponse reports the issuance outcome including delivery flags.
type IssuePosterResponse struct {
	Donation     DonationResponse `json:"donation"`
	PosterIssued bool             `json:"posterIssued"`
	EmailSent    bool             `json:"emailSent"`
	Message      string           `json:"message"`
}

// DonationSummaryResponse holds the dashboard counts.
type DonationSummaryResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Issued   int `json:"issued"`
	Rejected int `json:"rejected"`
}

// UploadScreenshotResponse is returned by the screenshot upload endpoint.
type UploadScreenshotResponse struct {
	ObjectKey string `json:"objectKey"`
	URL       string `json:"url"`
}

// ToDonationResponse converts a domain.Donation to its response DTO.
func ToDonationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		DonationID:     d.DonationID,
		DonorName:      d.DonorName,
		DonorEmail:     d.DonorEmail,
		DonorPhone:     d.DonorPhone,
		Amount:         d.Amount,
		ShowAmount:     d.ShowAmount,
		Cause:          string(d.Cause),
		CauseLabel:     d.Cause.Label(),
		ScreenshotURL:  d.ScreenshotURL,
		Status:         string(d.Status),
		AIMessage:      d.AIMessage,
		PosterIssuedAt: d.PosterIssuedAt,
		CreatedAt:      d.CreatedAt,
	}
}

// ToListDonationResponse converts a slice of donations to response DTOs.
func ToListDonationResponse(donations []domain.Donation) []DonationResponse {
	res := make([]DonationResponse, len(donations))
	for i := range donations {
		res[i] = ToDonationResponse(&donations[i])
	}
	return res
}

// ToIssuePosterResponse converts a domain.IssueResult to its response DTO.
func ToIssuePosterResponse(r *domain.IssueResult) IssuePosterResponse {
	return IssuePosterResponse{
		Donation:     ToDonationResponse(&r.Donation),
		PosterIssued: r.PosterIssued,
		EmailSent:    r.EmailSent,
		Message:      r.Message,
	}
}

// ToDonationSummaryResponse converts the domain summary to its response DTO.
func ToDonationSummaryResponse(s *domain.DonationSummary) DonationSummaryResponse {
	return DonationSummaryResponse{
		Total:    s.Total,
		Pending:  s.Pending,
		Approved: s.Approved,
		Issued:   s.Issued,
		Rejected: s.Rejected,
	}
}
