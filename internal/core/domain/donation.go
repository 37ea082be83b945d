package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatus indicates where a donation record is in the moderation
// lifecycle.
type DonationStatus string

const (
	StatusPending  DonationStatus = "pending"
	StatusApproved DonationStatus = "approved"
	StatusIssued   DonationStatus = "issued"
	StatusRejected DonationStatus = "rejected"
)

// ParseDonationStatus validates a raw status string.
func ParseDonationStatus(s string) (DonationStatus, bool) {
	switch DonationStatus(s) {
	case StatusPending, StatusApproved, StatusIssued, StatusRejected:
		return DonationStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transition is legal from this status.
func (s DonationStatus) IsTerminal() bool {
	return s == StatusIssued || s == StatusRejected
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// target. The only legal paths are pending -> approved, pending -> rejected
// and approved -> issued.
func (s DonationStatus) CanTransitionTo(target DonationStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved:
		return target == StatusIssued
	}
	return false
}

// Decision is an administrator's moderation verdict on a pending donation.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision validates a raw decision string.
func ParseDecision(s string) (Decision, bool) {
	switch Decision(s) {
	case DecisionApprove, DecisionReject:
		return Decision(s), true
	}
	return "", false
}

// TargetStatus returns the status a pending donation moves to under this
// decision.
func (d Decision) TargetStatus() DonationStatus {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Donation represents a donor submission and its moderation state.
type Donation struct {
	DonationID     string           `json:"donationID"` // Primary Key (UUID)
	DonorName      string           `json:"donorName"`
	DonorEmail     *string          `json:"donorEmail,omitempty"`
	DonorPhone     *string          `json:"donorPhone,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`     // Positive contribution amount, unverified
	ShowAmount     bool             `json:"showAmount"`           // Donor consent to print the amount on the poster
	Cause          Cause            `json:"cause"`
	ScreenshotURL  *string          `json:"screenshotURL,omitempty"` // Opaque blob-store key, set at creation only
	Status         DonationStatus   `json:"status"`
	AIMessage      *string          `json:"aiMessage,omitempty"`      // Set exactly once, at issuance
	PosterIssuedAt *time.Time       `json:"posterIssuedAt,omitempty"` // Set exactly once, at issuance
	CreatedAt      time.Time        `json:"createdAt"`
}

// DonationSummary holds the aggregate counts shown on the admin dashboard.
type DonationSummary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Issued   int `json:"issued"`
	Rejected int `json:"rejected"`
}

// IssueResult reports the outcome of an issuance: the updated record plus
// per-step delivery flags, so the admin always learns whether email went out.
type IssueResult struct {
	Donation     Donation `json:"donation"`
	PosterIssued bool     `json:"posterIssued"`
	EmailSent    bool     `json:"emailSent"`
	Message      string   `json:"message"`
}

// PosterPayload is the structured input handed to the poster renderer.
// Amount is only included when the donor consented to show it.
type PosterPayload struct {
	DonorName  string
	CauseLabel string
	Amount     *decimal.Decimal
	ShowAmount bool
	Message    string
}

// FallbackMessage is the fixed appreciation text used whenever automated
// message generation is unavailable.
const FallbackMessage = "Your kindness helped turn compassion into action. Thank you for being part of Street Cause VIIT's journey."
