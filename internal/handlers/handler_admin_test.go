package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/streetcauseviit/donation_poster_app/internal/apperrors"
	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
	"github.com/streetcauseviit/donation_poster_app/internal/dto"
	"github.com/streetcauseviit/donation_poster_app/internal/middleware"
)

// AdminHandlerTestSuite reuses the mocks and router wiring from the donation
// handler suite; only the moderation surface is exercised here.
type AdminHandlerTestSuite struct {
	DonationHandlerTestSuite
}

// --- Auth guard ---

func (suite *AdminHandlerTestSuite) TestMissingTokenRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/donations", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListDonations", mock.Anything, mock.Anything)
}

func (suite *AdminHandlerTestSuite) TestWrongTokenRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/donations", nil)
	req.Header.Set(middleware.AdminTokenHeader, "wrong-token")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListDonations", mock.Anything, mock.Anything)
}

// --- Listing and summary ---

func (suite *AdminHandlerTestSuite) TestListDonations() {
	donations := []domain.Donation{*pendingDonation(), *pendingDonation()}
	suite.mockService.On("ListDonations", mock.Anything, (*domain.DonationStatus)(nil)).
		Return(donations, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/admin/donations", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.DonationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.Equal("Education Initiative", resp[0].CauseLabel)
}

func (suite *AdminHandlerTestSuite) TestListDonations_StatusFilter() {
	approved := domain.StatusApproved
	suite.mockService.On("ListDonations", mock.Anything, &approved).
		Return([]domain.Donation{}, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/admin/donations?status=approved", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *AdminHandlerTestSuite) TestListDonations_UnknownStatus() {
	w := suite.serveJSON(http.MethodGet, "/api/v1/admin/donations?status=bogus", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListDonations", mock.Anything, mock.Anything)
}

func (suite *AdminHandlerTestSuite) TestSummary() {
	suite.mockService.On("GetDonationSummary", mock.Anything).
		Return(&domain.DonationSummary{Total: 10, Pending: 3, Approved: 2, Issued: 4, Rejected: 1}, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/admin/donations/summary", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DonationSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(10, resp.Total)
	suite.Equal(4, resp.Issued)
}

func (suite *AdminHandlerTestSuite) TestGetDonation_NotFound() {
	donationID := uuid.NewString()
	suite.mockService.On("GetDonationByID", mock.Anything, donationID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/admin/donations/"+donationID, nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Moderation decisions ---

func (suite *AdminHandlerTestSuite) TestApproveDonation() {
	donation := pendingDonation()
	donation.Status = domain.StatusApproved
	suite.mockService.On("DecideDonation", mock.Anything, donation.DonationID, domain.DecisionApprove).
		Return(donation, nil).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donation.DonationID+"/approve", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DonationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("approved", resp.Status)
}

func (suite *AdminHandlerTestSuite) TestRejectDonation() {
	donation := pendingDonation()
	donation.Status = domain.StatusRejected
	suite.mockService.On("DecideDonation", mock.Anything, donation.DonationID, domain.DecisionReject).
		Return(donation, nil).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donation.DonationID+"/reject", nil, true)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AdminHandlerTestSuite) TestApproveDonation_AlreadyDecided() {
	donationID := uuid.NewString()
	suite.mockService.On("DecideDonation", mock.Anything, donationID, domain.DecisionApprove).
		Return(nil, fmt.Errorf("%w: donation is not pending", apperrors.ErrInvalidTransition)).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donationID+"/approve", nil, true)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Issuance ---

func (suite *AdminHandlerTestSuite) TestIssuePoster() {
	donation := pendingDonation()
	donation.Status = domain.StatusIssued
	msg := "A generated thank you."
	donation.AIMessage = &msg
	issuedAt := time.Now().UTC()
	donation.PosterIssuedAt = &issuedAt

	suite.mockService.On("IssuePoster", mock.Anything, donation.DonationID).
		Return(&domain.IssueResult{Donation: *donation, PosterIssued: true, EmailSent: false, Message: msg}, nil).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donation.DonationID+"/issue", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IssuePosterResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.PosterIssued)
	suite.False(resp.EmailSent)
	suite.Equal(msg, resp.Message)
	suite.Equal("issued", resp.Donation.Status)
}

func (suite *AdminHandlerTestSuite) TestIssuePoster_RenderFailure() {
	donationID := uuid.NewString()
	suite.mockService.On("IssuePoster", mock.Anything, donationID).
		Return(nil, fmt.Errorf("%w: encode png", apperrors.ErrRender)).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donationID+"/issue", nil, true)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "retried")
}

func (suite *AdminHandlerTestSuite) TestIssuePoster_NotApproved() {
	donationID := uuid.NewString()
	suite.mockService.On("IssuePoster", mock.Anything, donationID).
		Return(nil, fmt.Errorf("%w: cannot issue", apperrors.ErrInvalidTransition)).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donationID+"/issue", nil, true)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Resend and download ---

func (suite *AdminHandlerTestSuite) TestResendPoster() {
	donationID := uuid.NewString()
	suite.mockService.On("ResendPoster", mock.Anything, donationID).Return(nil).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donationID+"/resend", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "sent")
}

func (suite *AdminHandlerTestSuite) TestResendPoster_NoEmail() {
	donationID := uuid.NewString()
	suite.mockService.On("ResendPoster", mock.Anything, donationID).
		Return(fmt.Errorf("%w: donation has no donor email to resend to", apperrors.ErrValidation)).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donationID+"/resend", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AdminHandlerTestSuite) TestResendPoster_DeliveryFailure() {
	donationID := uuid.NewString()
	suite.mockService.On("ResendPoster", mock.Anything, donationID).
		Return(fmt.Errorf("%w: donation %s", apperrors.ErrEmailDelivery, donationID)).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/admin/donations/"+donationID+"/resend", nil, true)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "retried")
}

func (suite *AdminHandlerTestSuite) TestDownloadPoster() {
	donationID := uuid.NewString()
	suite.mockService.On("RenderIssuedPoster", mock.Anything, donationID).
		Return([]byte("png-bytes"), nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/admin/donations/"+donationID+"/poster", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("image/png", w.Header().Get("Content-Type"))
	suite.Equal("png-bytes", w.Body.String())
	suite.Contains(w.Header().Get("Content-Disposition"), donationID)
}

func TestAdminHandler(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}
