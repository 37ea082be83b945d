package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
)

// MessageGenerator produces a short appreciation text for a donor. Callers
// substitute domain.FallbackMessage on any error; a generator failure must
// never abort issuance.
type MessageGenerator interface {
	GenerateMessage(ctx context.Context, donorName, causeLabel string, amount *decimal.Decimal) (string, error)
}

// PosterRenderer composites donor data, the appreciation message and static
// branding into a PNG poster.
type PosterRenderer interface {
	RenderPoster(ctx context.Context, payload domain.PosterPayload) ([]byte, error)
}

// PosterEmailParams holds the data for the thank-you email with the poster
// attached.
type PosterEmailParams struct {
	To         string
	DonorName  string
	CauseLabel string
	Amount     *decimal.Decimal
	Message    string
	PosterPNG  []byte
}

// PosterMailer delivers the rendered poster to the donor.
type PosterMailer interface {
	SendPoster(ctx context.Context, p PosterEmailParams) error
}

// BlobStore provides access to object storage for payment screenshots and
// rendered posters.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
