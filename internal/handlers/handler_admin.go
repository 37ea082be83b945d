package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streetcauseviit/donation_poster_app/internal/apperrors"
	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
	"github.com/streetcauseviit/donation_poster_app/internal/dto"
	"github.com/streetcauseviit/donation_poster_app/internal/middleware"
)

// adminHandler handles the moderation surface consumed by the admin view.
type adminHandler struct {
	donationService portssvc.DonationSvcFacade
}

// newAdminHandler creates a new adminHandler.
func newAdminHandler(ds portssvc.DonationSvcFacade) *adminHandler {
	return &adminHandler{donationService: ds}
}

// registerAdminRoutes registers the moderation routes.
func registerAdminRoutes(rg *gin.RouterGroup, ds portssvc.DonationSvcFacade) {
	h := newAdminHandler(ds)

	donations := rg.Group("/donations")
	{
		donations.GET("", h.listDonations)
		donations.GET("/summary", h.getSummary)
		donations.GET("/:donationID", h.getDonation)
		donations.POST("/:donationID/approve", h.approveDonation)
		donations.POST("/:donationID/reject", h.rejectDonation)
		donations.POST("/:donationID/issue", h.issuePoster)
		donations.POST("/:donationID/resend", h.resendPoster)
		donations.GET("/:donationID/poster", h.downloadPoster)
	}
}

// respondDonationError maps service errors to HTTP statuses.
func respondDonationError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Donation not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn("Invalid status transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRender):
		logger.Error("Poster rendering failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Poster rendering failed; the donation is still approved and issuance can be retried"})
	case errors.Is(err, apperrors.ErrEmailDelivery):
		logger.Error("Poster email delivery failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Poster email delivery failed; resend can be retried"})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// listDonations godoc
// @Summary List donations
// @Description Retrieves donations newest-first, optionally filtered by status
// @Tags admin
// @Produce  json
// @Param   status query string false "Status filter" Enums(pending, approved, issued, rejected)
// @Success 200 {array} dto.DonationResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 500 {object} map[string]string "Failed to list donations"
// @Security AdminToken
// @Router /admin/donations [get]
func (h *adminHandler) listDonations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var statusFilter *domain.DonationStatus
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseDonationStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown status '%s'", raw)})
			return
		}
		statusFilter = &status
	}

	donations, err := h.donationService.ListDonations(c.Request.Context(), statusFilter)
	if err != nil {
		logger.Error("Failed to list donations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list donations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListDonationResponse(donations))
}

// getSummary godoc
// @Summary Donation counts
// @Description Returns aggregate per-status donation counts for the dashboard
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.DonationSummaryResponse
// @Failure 500 {object} map[string]string "Failed to summarize donations"
// @Security AdminToken
// @Router /admin/donations/summary [get]
func (h *adminHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.donationService.GetDonationSummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to summarize donations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize donations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationSummaryResponse(summary))
}

// getDonation godoc
// @Summary Get a donation
// @Description Retrieves a single donation record
// @Tags admin
// @Produce  json
// @Param   donationID path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} map[string]string "Donation not found"
// @Security AdminToken
// @Router /admin/donations/{donationID} [get]
func (h *adminHandler) getDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("donation_id", c.Param("donationID")))

	donation, err := h.donationService.GetDonationByID(c.Request.Context(), c.Param("donationID"))
	if err != nil {
		respondDonationError(c, logger, err, "retrieve donation")
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationResponse(donation))
}

// approveDonation godoc
// @Summary Approve a pending donation
// @Tags admin
// @Produce  json
// @Param   donationID path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation is not pending"
// @Security AdminToken
// @Router /admin/donations/{donationID}/approve [post]
func (h *adminHandler) approveDonation(c *gin.Context) {
	h.decideDonation(c, domain.DecisionApprove)
}

// rejectDonation godoc
// @Summary Reject a pending donation
// @Tags admin
// @Produce  json
// @Param   donationID path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation is not pending"
// @Security AdminToken
// @Router /admin/donations/{donationID}/reject [post]
func (h *adminHandler) rejectDonation(c *gin.Context) {
	h.decideDonation(c, domain.DecisionReject)
}

func (h *adminHandler) decideDonation(c *gin.Context, decision domain.Decision) {
	donationID := c.Param("donationID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("donation_id", donationID),
		slog.String("decision", string(decision)),
	)

	donation, err := h.donationService.DecideDonation(c.Request.Context(), donationID, decision)
	if err != nil {
		respondDonationError(c, logger, err, "decide donation")
		return
	}

	logger.Info("Donation decision recorded")
	c.JSON(http.StatusOK, dto.ToDonationResponse(donation))
}

// issuePoster godoc
// @Summary Issue the thank-you poster
// @Description Generates the appreciation message, renders the poster, attempts email delivery and marks the donation issued. The response reports whether email delivery succeeded.
// @Tags admin
// @Produce  json
// @Param   donationID path string true "Donation ID"
// @Success 200 {object} dto.IssuePosterResponse
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation is not approved"
// @Failure 502 {object} map[string]string "Poster rendering failed"
// @Security AdminToken
// @Router /admin/donations/{donationID}/issue [post]
func (h *adminHandler) issuePoster(c *gin.Context) {
	donationID := c.Param("donationID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("donation_id", donationID))

	result, err := h.donationService.IssuePoster(c.Request.Context(), donationID)
	if err != nil {
		respondDonationError(c, logger, err, "issue poster")
		return
	}

	c.JSON(http.StatusOK, dto.ToIssuePosterResponse(result))
}

// resendPoster godoc
// @Summary Resend the poster email
// @Description Re-renders the poster from the stored message and re-attempts email delivery. No state is mutated.
// @Tags admin
// @Produce  json
// @Param   donationID path string true "Donation ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Donation has no donor email"
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation is not issued"
// @Failure 502 {object} map[string]string "Email delivery failed"
// @Security AdminToken
// @Router /admin/donations/{donationID}/resend [post]
func (h *adminHandler) resendPoster(c *gin.Context) {
	donationID := c.Param("donationID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("donation_id", donationID))

	if err := h.donationService.ResendPoster(c.Request.Context(), donationID); err != nil {
		respondDonationError(c, logger, err, "resend poster")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// downloadPoster godoc
// @Summary Download the poster PNG
// @Description Re-renders the poster of an issued donation and streams it
// @Tags admin
// @Produce  png
// @Param   donationID path string true "Donation ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation is not issued"
// @Security AdminToken
// @Router /admin/donations/{donationID}/poster [get]
func (h *adminHandler) downloadPoster(c *gin.Context) {
	donationID := c.Param("donationID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("donation_id", donationID))

	posterPNG, err := h.donationService.RenderIssuedPoster(c.Request.Context(), donationID)
	if err != nil {
		respondDonationError(c, logger, err, "render poster")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="poster-%s.png"`, donationID))
	c.Data(http.StatusOK, "image/png", posterPNG)
}
