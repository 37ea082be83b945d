package services

import (
	portsrepo "github.com/streetcauseviit/donation_poster_app/internal/core/ports/repositories"
	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
)

// Collaborators groups the external collaborator ports the lifecycle
// controller orchestrates.
type Collaborators struct {
	Generator portssvc.MessageGenerator
	Renderer  portssvc.PosterRenderer
	Mailer    portssvc.PosterMailer
	Blobs     portssvc.BlobStore
}

// NewContainer creates a new service container with properly initialized
// dependencies.
func NewContainer(repos *portsrepo.RepositoryProvider, collab Collaborators, opts ...DonationServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Donation: NewDonationService(
			repos.DonationRepo,
			collab.Generator,
			collab.Renderer,
			collab.Mailer,
			collab.Blobs,
			opts...,
		),
		Blob: collab.Blobs,
	}
}
