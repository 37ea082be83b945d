package repositories

import (
	"context"
	"time"

	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
)

// DonationRepository defines persistence operations for donation records.
// Status-changing updates are compare-and-set on the expected current status:
// implementations must return apperrors.ErrInvalidTransition when the record
// is no longer in that status, so racing decisions/issues cannot corrupt state.
type DonationRepository interface {
	// SaveDonation inserts a newly submitted donation.
	SaveDonation(ctx context.Context, donation domain.Donation) error

	// FindDonationByID returns the donation or apperrors.ErrNotFound.
	FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// ListDonations returns donations ordered by created_at descending,
	// optionally filtered by status.
	ListDonations(ctx context.Context, status *domain.DonationStatus) ([]domain.Donation, error)

	// UpdateDonationStatus moves a donation from expected to target status.
	UpdateDonationStatus(ctx context.Context, donationID string, expected, target domain.DonationStatus) error

	// MarkDonationIssued commits the single durability point of issuance:
	// status becomes issued and ai_message/poster_issued_at are written
	// together, only if the record is still in the expected status.
	MarkDonationIssued(ctx context.Context, donationID string, expected domain.DonationStatus, aiMessage string, issuedAt time.Time) error

	// CountDonationsByStatus returns per-status record counts.
	CountDonationsByStatus(ctx context.Context) (map[domain.DonationStatus]int, error)
}

// RepositoryProvider aggregates all repositories for dependency injection.
type RepositoryProvider struct {
	DonationRepo DonationRepository
}
