package mapping

import (
	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
	"github.com/streetcauseviit/donation_poster_app/internal/models"
)

// ToModelDonation converts a domain donation to its database model.
func ToModelDonation(d domain.Donation) models.Donation {
	return models.Donation{
		DonationID:     d.DonationID,
		DonorName:      d.DonorName,
		DonorEmail:     d.DonorEmail,
		DonorPhone:     d.DonorPhone,
		Amount:         d.Amount,
		ShowAmount:     d.ShowAmount,
		Cause:          string(d.Cause),
		ScreenshotURL:  d.ScreenshotURL,
		Status:         string(d.Status),
		AIMessage:      d.AIMessage,
		PosterIssuedAt: d.PosterIssuedAt,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainDonation converts a database model to a domain donation.
func ToDomainDonation(m models.Donation) domain.Donation {
	return domain.Donation{
		DonationID:     m.DonationID,
		DonorName:      m.DonorName,
		DonorEmail:     m.DonorEmail,
		DonorPhone:     m.DonorPhone,
		Amount:         m.Amount,
		ShowAmount:     m.ShowAmount,
		Cause:          domain.Cause(m.Cause),
		ScreenshotURL:  m.ScreenshotURL,
		Status:         domain.DonationStatus(m.Status),
		AIMessage:      m.AIMessage,
		PosterIssuedAt: m.PosterIssuedAt,
		CreatedAt:      m.CreatedAt,
	}
}
