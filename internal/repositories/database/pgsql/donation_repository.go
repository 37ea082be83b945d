package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streetcauseviit/donation_poster_app/internal/apperrors"
	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
	portsrepo "github.com/streetcauseviit/donation_poster_app/internal/core/ports/repositories"
	"github.com/streetcauseviit/donation_poster_app/internal/models"
	"github.com/streetcauseviit/donation_poster_app/internal/utils/mapping"
)

const donationColumns = `donation_id, donor_name, donor_email, donor_phone, amount, show_amount, cause, screenshot_url, status, ai_message, poster_issued_at, created_at`

type PgxDonationRepository struct {
	BaseRepository
}

// NewPgxDonationRepository creates a new repository for donation data.
func NewPgxDonationRepository(pool *pgxpool.Pool) portsrepo.DonationRepository {
	return &PgxDonationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.DonationRepository = (*PgxDonationRepository)(nil)

// SaveDonation inserts a newly submitted donation record.
func (r *PgxDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	modelDon := mapping.ToModelDonation(donation)

	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelDon.DonationID,
		modelDon.DonorName,
		modelDon.DonorEmail,
		modelDon.DonorPhone,
		modelDon.Amount,
		modelDon.ShowAmount,
		modelDon.Cause,
		modelDon.ScreenshotURL,
		modelDon.Status,
		modelDon.AIMessage,
		modelDon.PosterIssuedAt,
		modelDon.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save donation %s: %w", modelDon.DonationID, err)
	}
	return nil
}

// FindDonationByID retrieves a donation by its identifier.
func (r *PgxDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE donation_id = $1;
	`
	var modelDon models.Donation
	err := r.Pool.QueryRow(ctx, query, donationID).Scan(
		&modelDon.DonationID,
		&modelDon.DonorName,
		&modelDon.DonorEmail,
		&modelDon.DonorPhone,
		&modelDon.Amount,
		&modelDon.ShowAmount,
		&modelDon.Cause,
		&modelDon.ScreenshotURL,
		&modelDon.Status,
		&modelDon.AIMessage,
		&modelDon.PosterIssuedAt,
		&modelDon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find donation by id %s: %w", donationID, err)
	}

	domainDon := mapping.ToDomainDonation(modelDon)
	return &domainDon, nil
}

// ListDonations retrieves donations newest-first, optionally by status.
// The (status, created_at DESC) ordering is what the admin dashboard shows.
func (r *PgxDonationRepository) ListDonations(ctx context.Context, status *domain.DonationStatus) ([]domain.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
	`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	modelDonations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Donation, error) {
		var donation models.Donation
		err := row.Scan(
			&donation.DonationID,
			&donation.DonorName,
			&donation.DonorEmail,
			&donation.DonorPhone,
			&donation.Amount,
			&donation.ShowAmount,
			&donation.Cause,
			&donation.ScreenshotURL,
			&donation.Status,
			&donation.AIMessage,
			&donation.PosterIssuedAt,
			&donation.CreatedAt,
		)
		return donation, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan donations: %w", err)
	}

	donations := make([]domain.Donation, len(modelDonations))
	for i, m := range modelDonations {
		donations[i] = mapping.ToDomainDonation(m)
	}
	return donations, nil
}

// UpdateDonationStatus moves a donation between statuses with a
// compare-and-set on the expected current status. Zero affected rows means
// the record changed underneath the caller (or never held the expected
// status) and surfaces as ErrInvalidTransition.
func (r *PgxDonationRepository) UpdateDonationStatus(ctx context.Context, donationID string, expected, target domain.DonationStatus) error {
	query := `
		UPDATE donations
		SET status = $3
		WHERE donation_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, donationID, string(expected), string(target))
	if err != nil {
		return fmt.Errorf("failed to update donation %s status: %w", donationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: donation %s is no longer '%s'", apperrors.ErrInvalidTransition, donationID, expected)
	}
	return nil
}

// MarkDonationIssued commits issuance: status, ai_message and
// poster_issued_at are written together in a single compare-and-set update.
func (r *PgxDonationRepository) MarkDonationIssued(ctx context.Context, donationID string, expected domain.DonationStatus, aiMessage string, issuedAt time.Time) error {
	query := `
		UPDATE donations
		SET status = $3, ai_message = $4, poster_issued_at = $5
		WHERE donation_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, donationID, string(expected), string(domain.StatusIssued), aiMessage, issuedAt)
	if err != nil {
		return fmt.Errorf("failed to mark donation %s issued: %w", donationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: donation %s is no longer '%s'", apperrors.ErrInvalidTransition, donationID, expected)
	}
	return nil
}

// CountDonationsByStatus returns the number of donations per status.
func (r *PgxDonationRepository) CountDonationsByStatus(ctx context.Context) (map[domain.DonationStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM donations
		GROUP BY status;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.DonationStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan donation counts: %w", err)
		}
		counts[domain.DonationStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read donation counts: %w", err)
	}
	return counts, nil
}
