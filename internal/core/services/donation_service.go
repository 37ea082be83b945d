package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/streetcauseviit/donation_poster_app/internal/apperrors"
	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
	portsrepo "github.com/streetcauseviit/donation_poster_app/internal/core/ports/repositories"
	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
	"github.com/streetcauseviit/donation_poster_app/internal/dto"
	"github.com/streetcauseviit/donation_poster_app/internal/middleware"
)

const (
	defaultGenerateTimeout = 20 * time.Second
	defaultEmailTimeout    = 15 * time.Second

	posterObjectPrefix = "posters/"
)

// donationService owns the donation lifecycle: submission, moderation
// decisions, poster issuance and re-delivery.
type donationService struct {
	donationRepo    portsrepo.DonationRepository
	generator       portssvc.MessageGenerator
	renderer        portssvc.PosterRenderer
	mailer          portssvc.PosterMailer
	blobs           portssvc.BlobStore
	generateTimeout time.Duration
	emailTimeout    time.Duration
}

// DonationServiceOption customizes the donation service.
type DonationServiceOption func(*donationService)

// WithGenerateTimeout bounds the appreciation-message generation call.
func WithGenerateTimeout(d time.Duration) DonationServiceOption {
	return func(s *donationService) {
		if d > 0 {
			s.generateTimeout = d
		}
	}
}

// WithEmailTimeout bounds the poster email delivery call.
func WithEmailTimeout(d time.Duration) DonationServiceOption {
	return func(s *donationService) {
		if d > 0 {
			s.emailTimeout = d
		}
	}
}

// NewDonationService creates the lifecycle controller.
func NewDonationService(
	donationRepo portsrepo.DonationRepository,
	generator portssvc.MessageGenerator,
	renderer portssvc.PosterRenderer,
	mailer portssvc.PosterMailer,
	blobs portssvc.BlobStore,
	opts ...DonationServiceOption,
) portssvc.DonationSvcFacade {
	s := &donationService{
		donationRepo:    donationRepo,
		generator:       generator,
		renderer:        renderer,
		mailer:          mailer,
		blobs:           blobs,
		generateTimeout: defaultGenerateTimeout,
		emailTimeout:    defaultEmailTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure donationService implements the facade interface
var _ portssvc.DonationSvcFacade = (*donationService)(nil)

// validateSubmission checks every field and reports the first violation,
// naming the offending field in the wrapped error.
func validateSubmission(req dto.SubmitDonationRequest) (domain.Cause, error) {
	name := strings.TrimSpace(req.DonorName)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return "", fmt.Errorf("%w: donorName must be between 2 and 100 characters", apperrors.ErrValidation)
	}
	if req.DonorEmail != nil && *req.DonorEmail != "" {
		if _, err := mail.ParseAddress(*req.DonorEmail); err != nil {
			return "", fmt.Errorf("%w: donorEmail is not a valid email address", apperrors.ErrValidation)
		}
	}
	if req.DonorPhone != nil && *req.DonorPhone != "" {
		phone := strings.TrimSpace(*req.DonorPhone)
		if n := utf8.RuneCountInString(phone); n < 10 || n > 15 {
			return "", fmt.Errorf("%w: donorPhone must be between 10 and 15 characters", apperrors.ErrValidation)
		}
	}
	if req.Amount != nil && req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	cause, ok := domain.ParseCause(req.Cause)
	if !ok {
		return "", fmt.Errorf("%w: cause '%s' is not a supported cause", apperrors.ErrValidation, req.Cause)
	}
	return cause, nil
}

// SubmitDonation validates the submission and persists a new pending record.
// The screenshot, if any, was already uploaded by the caller; only its key is
// recorded here, and an absent key is never an error.
func (s *donationService) SubmitDonation(ctx context.Context, req dto.SubmitDonationRequest) (*domain.Donation, error) {
	cause, err := validateSubmission(req)
	if err != nil {
		return nil, err
	}

	var email *string
	if req.DonorEmail != nil && *req.DonorEmail != "" {
		e := strings.TrimSpace(*req.DonorEmail)
		email = &e
	}
	var phone *string
	if req.DonorPhone != nil && *req.DonorPhone != "" {
		p := strings.TrimSpace(*req.DonorPhone)
		phone = &p
	}
	var screenshot *string
	if req.ScreenshotKey != nil && *req.ScreenshotKey != "" {
		screenshot = req.ScreenshotKey
	}

	donation := domain.Donation{
		DonationID:    uuid.NewString(),
		DonorName:     strings.TrimSpace(req.DonorName),
		DonorEmail:    email,
		DonorPhone:    phone,
		Amount:        req.Amount,
		ShowAmount:    req.ShowAmount,
		Cause:         cause,
		ScreenshotURL: screenshot,
		Status:        domain.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.donationRepo.SaveDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to save donation: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Donation submitted",
		slog.String("donation_id", donation.DonationID),
		slog.String("cause", string(donation.Cause)),
	)
	return &donation, nil
}

// DecideDonation applies an administrator verdict to a pending donation.
// The status write is compare-and-set on pending, so one of two racing
// decisions loses with ErrInvalidTransition instead of clobbering the other.
func (s *donationService) DecideDonation(ctx context.Context, donationID string, decision domain.Decision) (*domain.Donation, error) {
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}

	target := decision.TargetStatus()
	if !donation.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: cannot %s a donation in status '%s'", apperrors.ErrInvalidTransition, decision, donation.Status)
	}

	if err := s.donationRepo.UpdateDonationStatus(ctx, donationID, domain.StatusPending, target); err != nil {
		return nil, err
	}

	donation.Status = target
	middleware.GetLoggerFromCtx(ctx).Info("Donation decided",
		slog.String("donation_id", donationID),
		slog.String("decision", string(decision)),
	)
	return donation, nil
}

// IssuePoster runs the issuance pipeline for an approved donation:
//  1. generate the appreciation message (failure degrades to the fallback),
//  2. render the poster (failure aborts, record stays approved),
//  3. best-effort email delivery when the donor left an address,
//  4. commit status=issued with the message and timestamp.
//
// Once rendering succeeds the operation runs to completion; email failure is
// surfaced only as EmailSent=false on the result.
func (s *donationService) IssuePoster(ctx context.Context, donationID string) (*domain.IssueResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("donation_id", donationID))

	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if !donation.Status.CanTransitionTo(domain.StatusIssued) {
		return nil, fmt.Errorf("%w: cannot issue a poster for a donation in status '%s'", apperrors.ErrInvalidTransition, donation.Status)
	}

	message := s.generateMessage(ctx, logger, donation)

	payload := domain.PosterPayload{
		DonorName:  donation.DonorName,
		CauseLabel: donation.Cause.Label(),
		Amount:     donation.Amount,
		ShowAmount: donation.ShowAmount,
		Message:    message,
	}
	posterPNG, err := s.renderer.RenderPoster(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRender, err)
	}

	// The poster is kept in the blob store for later download; losing this
	// write does not lose the poster, it can be re-rendered from the record.
	s.storePoster(ctx, logger, donation.DonationID, posterPNG)

	emailSent := false
	if donation.DonorEmail != nil {
		emailSent = s.deliverPoster(ctx, logger, donation, message, posterPNG)
	}

	issuedAt := time.Now().UTC()
	if err := s.donationRepo.MarkDonationIssued(ctx, donationID, donation.Status, message, issuedAt); err != nil {
		return nil, err
	}

	donation.Status = domain.StatusIssued
	donation.AIMessage = &message
	donation.PosterIssuedAt = &issuedAt

	logger.Info("Poster issued", slog.Bool("email_sent", emailSent))
	return &domain.IssueResult{
		Donation:     *donation,
		PosterIssued: true,
		EmailSent:    emailSent,
		Message:      message,
	}, nil
}

// generateMessage calls the message generator with a bounded context and
// degrades silently to the fixed fallback text on any failure.
func (s *donationService) generateMessage(ctx context.Context, logger *slog.Logger, donation *domain.Donation) string {
	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	message, err := s.generator.GenerateMessage(genCtx, donation.DonorName, donation.Cause.Label(), donation.Amount)
	if err != nil || strings.TrimSpace(message) == "" {
		if err != nil {
			logger.Warn("Message generation failed, using fallback", slog.String("error", err.Error()))
		}
		return domain.FallbackMessage
	}
	return strings.TrimSpace(message)
}

// storePoster uploads the rendered poster to the blob store. Failure is
// logged and otherwise ignored.
func (s *donationService) storePoster(ctx context.Context, logger *slog.Logger, donationID string, posterPNG []byte) {
	key := posterObjectPrefix + donationID + ".png"
	if err := s.blobs.Put(ctx, key, bytes.NewReader(posterPNG), int64(len(posterPNG)), "image/png"); err != nil {
		logger.Warn("Failed to store poster object", slog.String("object_key", key), slog.String("error", err.Error()))
	}
}

// deliverPoster attempts email delivery with a bounded context and reports
// whether it succeeded.
func (s *donationService) deliverPoster(ctx context.Context, logger *slog.Logger, donation *domain.Donation, message string, posterPNG []byte) bool {
	mailCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	err := s.mailer.SendPoster(mailCtx, portssvc.PosterEmailParams{
		To:         *donation.DonorEmail,
		DonorName:  donation.DonorName,
		CauseLabel: donation.Cause.Label(),
		Amount:     donation.Amount,
		Message:    message,
		PosterPNG:  posterPNG,
	})
	if err != nil {
		logger.Warn("Poster email delivery failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// ResendPoster re-renders the poster of an issued donation from the stored
// message and re-attempts email delivery. The message is never regenerated
// and no state is mutated regardless of outcome.
func (s *donationService) ResendPoster(ctx context.Context, donationID string) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("donation_id", donationID))

	donation, posterPNG, err := s.renderIssued(ctx, donationID)
	if err != nil {
		return err
	}
	if donation.DonorEmail == nil {
		return fmt.Errorf("%w: donation has no donor email to resend to", apperrors.ErrValidation)
	}

	if !s.deliverPoster(ctx, logger, donation, *donation.AIMessage, posterPNG) {
		return fmt.Errorf("%w: donation %s", apperrors.ErrEmailDelivery, donationID)
	}
	logger.Info("Poster email resent")
	return nil
}

// RenderIssuedPoster re-renders the poster of an issued donation for
// download.
func (s *donationService) RenderIssuedPoster(ctx context.Context, donationID string) ([]byte, error) {
	_, posterPNG, err := s.renderIssued(ctx, donationID)
	return posterPNG, err
}

// renderIssued loads an issued donation and re-renders its poster using the
// persisted appreciation message.
func (s *donationService) renderIssued(ctx context.Context, donationID string) (*domain.Donation, []byte, error) {
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		return nil, nil, err
	}
	if donation.Status != domain.StatusIssued || donation.AIMessage == nil {
		return nil, nil, fmt.Errorf("%w: donation in status '%s' has no issued poster", apperrors.ErrInvalidTransition, donation.Status)
	}

	posterPNG, err := s.renderer.RenderPoster(ctx, domain.PosterPayload{
		DonorName:  donation.DonorName,
		CauseLabel: donation.Cause.Label(),
		Amount:     donation.Amount,
		ShowAmount: donation.ShowAmount,
		Message:    *donation.AIMessage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrRender, err)
	}
	return donation, posterPNG, nil
}

// ListDonations returns donations ordered by creation time descending,
// optionally filtered by status.
func (s *donationService) ListDonations(ctx context.Context, status *domain.DonationStatus) ([]domain.Donation, error) {
	donations, err := s.donationRepo.ListDonations(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	// Return empty slice if no donations found, not nil
	if donations == nil {
		return []domain.Donation{}, nil
	}
	return donations, nil
}

// GetDonationByID returns a single donation or apperrors.ErrNotFound.
func (s *donationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	return s.donationRepo.FindDonationByID(ctx, donationID)
}

// GetDonationSummary derives the dashboard counts from per-status totals.
func (s *donationService) GetDonationSummary(ctx context.Context) (*domain.DonationSummary, error) {
	counts, err := s.donationRepo.CountDonationsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}

	summary := &domain.DonationSummary{
		Pending:  counts[domain.StatusPending],
		Approved: counts[domain.StatusApproved],
		Issued:   counts[domain.StatusIssued],
		Rejected: counts[domain.StatusRejected],
	}
	summary.Total = summary.Pending + summary.Approved + summary.Issued + summary.Rejected
	return summary, nil
}

// IsRetryable reports whether an issuance failure leaves the record in a
// state where the operation can simply be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, apperrors.ErrRender)
}
