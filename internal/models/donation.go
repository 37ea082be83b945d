package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation mirrors the donations table row layout.
type Donation struct {
	DonationID     string           `db:"donation_id"`
	DonorName      string           `db:"donor_name"`
	DonorEmail     *string          `db:"donor_email"`
	DonorPhone     *string          `db:"donor_phone"`
	Amount         *decimal.Decimal `db:"amount"`
	ShowAmount     bool             `db:"show_amount"`
	Cause          string           `db:"cause"`
	ScreenshotURL  *string          `db:"screenshot_url"`
	Status         string           `db:"status"`
	AIMessage      *string          `db:"ai_message"`
	PosterIssuedAt *time.Time       `db:"poster_issued_at"`
	CreatedAt      time.Time        `db:"created_at"`
}
