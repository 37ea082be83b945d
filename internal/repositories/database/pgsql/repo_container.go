package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/streetcauseviit/donation_poster_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		DonationRepo: NewPgxDonationRepository(pool),
	}
}
