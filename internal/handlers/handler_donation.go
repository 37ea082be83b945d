package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/streetcauseviit/donation_poster_app/internal/apperrors"
	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
	"github.com/streetcauseviit/donation_poster_app/internal/dto"
	"github.com/streetcauseviit/donation_poster_app/internal/middleware"
)

const (
	maxScreenshotBytes  = 5 << 20 // 5 MiB
	screenshotKeyPrefix = "screenshots/"
	screenshotURLExpiry = 24 * time.Hour
)

// donationHandler handles the public donation submission flow.
type donationHandler struct {
	donationService portssvc.DonationSvcFacade
	blobs           portssvc.BlobStore
}

// newDonationHandler creates a new donationHandler.
func newDonationHandler(ds portssvc.DonationSvcFacade, blobs portssvc.BlobStore) *donationHandler {
	return &donationHandler{
		donationService: ds,
		blobs:           blobs,
	}
}

// registerDonationRoutes registers the public submission routes.
func registerDonationRoutes(rg *gin.RouterGroup, ds portssvc.DonationSvcFacade, blobs portssvc.BlobStore) {
	h := newDonationHandler(ds, blobs)

	rg.POST("/donations", h.submitDonation)
	rg.POST("/uploads/screenshot", h.uploadScreenshot)
}

// submitDonation godoc
// @Summary Submit a donation
// @Description Records a donor submission for moderation; the record starts pending
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   donation body dto.SubmitDonationRequest true "Donation details"
// @Success 201 {object} dto.SubmitDonationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to submit donation"
// @Router /donations [post]
func (h *donationHandler) submitDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitDonation", slog.String("error", err.Error()))
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid value for field '%s'", vErrs[0].Field())})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	donation, err := h.donationService.SubmitDonation(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error submitting donation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to submit donation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit donation"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitDonationResponse{
		DonationID: donation.DonationID,
		Status:     string(donation.Status),
	})
}

// uploadScreenshot godoc
// @Summary Upload a payment screenshot
// @Description Stores the screenshot in the blob store before form submission. A failed upload is fail-open: callers submit without a screenshot reference.
// @Tags donations
// @Accept  multipart/form-data
// @Produce  json
// @Param   screenshot formData file true "Screenshot image"
// @Success 201 {object} dto.UploadScreenshotResponse
// @Failure 400 {object} map[string]string "Invalid upload"
// @Failure 502 {object} map[string]string "Blob store unavailable"
// @Router /uploads/screenshot [post]
func (h *donationHandler) uploadScreenshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'screenshot' file field"})
		return
	}
	if fileHeader.Size > maxScreenshotBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Screenshot exceeds the 5 MiB limit"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Screenshot must be an image"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded screenshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = ".png"
	}
	key := screenshotKeyPrefix + uuid.NewString() + ext

	if err := h.blobs.Put(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		logger.Error("Failed to store screenshot", slog.String("object_key", key), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to store screenshot"})
		return
	}

	url, err := h.blobs.PresignGet(c.Request.Context(), key, screenshotURLExpiry)
	if err != nil {
		// The object is stored; the key alone is enough for submission
		logger.Warn("Failed to presign screenshot URL", slog.String("object_key", key), slog.String("error", err.Error()))
	}

	logger.Info("Screenshot uploaded", slog.String("object_key", key))
	c.JSON(http.StatusCreated, dto.UploadScreenshotResponse{ObjectKey: key, URL: url})
}
