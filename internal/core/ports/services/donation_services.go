package services

import (
	"context"

	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
	"github.com/streetcauseviit/donation_poster_app/internal/dto"
)

// DonationSvcFacade is the moderation workflow consumed by the handlers: the
// public submission path plus the admin decide/issue/resend surface.
type DonationSvcFacade interface {
	// SubmitDonation validates and persists a new pending donation.
	SubmitDonation(ctx context.Context, req dto.SubmitDonationRequest) (*domain.Donation, error)

	// DecideDonation applies an approve/reject verdict to a pending donation.
	DecideDonation(ctx context.Context, donationID string, decision domain.Decision) (*domain.Donation, error)

	// IssuePoster runs the issuance pipeline (generate, render, email) and
	// marks the donation issued. Only rendering failure aborts.
	IssuePoster(ctx context.Context, donationID string) (*domain.IssueResult, error)

	// ResendPoster re-renders the poster from the stored message and
	// re-attempts email delivery. No state is mutated.
	ResendPoster(ctx context.Context, donationID string) error

	// RenderIssuedPoster re-renders the poster of an issued donation for
	// download.
	RenderIssuedPoster(ctx context.Context, donationID string) ([]byte, error)

	// ListDonations returns donations newest-first, optionally by status.
	ListDonations(ctx context.Context, status *domain.DonationStatus) ([]domain.Donation, error)

	// GetDonationByID returns a single donation or apperrors.ErrNotFound.
	GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// GetDonationSummary returns aggregate per-status counts.
	GetDonationSummary(ctx context.Context) (*domain.DonationSummary, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Donation DonationSvcFacade
	Blob     BlobStore
}
