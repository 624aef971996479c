package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ymango/ymango/internal/middleware"
	"github.com/ymango/ymango/internal/services"
	appErrors "github.com/ymango/ymango/pkg/errors"
	"github.com/ymango/ymango/pkg/response"
)

// EmailVerificationHandler exposes the challenge lifecycle.
type EmailVerificationHandler struct {
	service       *services.EmailVerificationService
	requestLimits *middleware.Limiter
	verifyLimits  *middleware.Limiter
}

type requestChallengeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	DeviceID string `json:"device_id" validate:"required,max=128"`
}

type verifyChallengeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	DeviceID string `json:"device_id" validate:"required,max=128"`
	Code     string `json:"verification_number" validate:"required,numeric,max=12"`
}

type challengeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEmailVerificationHandler builds the handler. requestLimits throttles code
// issuance and verifyLimits throttles code submissions, both per (email, device).
// Either may be nil to disable it.
func NewEmailVerificationHandler(service *services.EmailVerificationService, requestLimits, verifyLimits *middleware.Limiter) *EmailVerificationHandler {
	return &EmailVerificationHandler{service: service, requestLimits: requestLimits, verifyLimits: verifyLimits}
}

// POST /api/email-verifications
func (h *EmailVerificationHandler) Request(c *gin.Context) {
	var body requestChallengeRequest
	if !bindAndValidate(c, &body) {
		return
	}

	email := strings.TrimSpace(body.Email)
	deviceID := strings.TrimSpace(body.DeviceID)
	if !h.requestLimits.Allow(requestContext(c), "verification:"+pairKey(email, deviceID)).Apply(c) {
		return
	}

	verification, err := h.service.RequestChallenge(requestContext(c), email, deviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The code is only ever delivered by email.
	response.Success(c, http.StatusCreated, challengeResponse{
		ID:        verification.ID,
		Email:     verification.Email,
		DeviceID:  verification.DeviceID,
		CreatedAt: verification.CreatedAt,
	})
}

// POST /api/email-verifications/verify
func (h *EmailVerificationHandler) Verify(c *gin.Context) {
	var body verifyChallengeRequest
	if !bindAndValidate(c, &body) {
		return
	}

	email := strings.TrimSpace(body.Email)
	deviceID := strings.TrimSpace(body.DeviceID)
	// Counts every submission, right or wrong.
	if !h.verifyLimits.Allow(requestContext(c), "verify:"+pairKey(email, deviceID)).Apply(c) {
		return
	}

	if err := h.service.Verify(requestContext(c), email, deviceID, body.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"verified": true})
}

// GET /api/email-verifications/status?email=&device_id=
func (h *EmailVerificationHandler) Status(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	deviceID := strings.TrimSpace(c.Query("device_id"))
	if email == "" || deviceID == "" {
		response.Error(c, appErrors.NewBadRequest("email and device_id are required"))
		return
	}

	verified, err := h.service.HasVerifiedChallenge(requestContext(c), email, deviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"verified": verified})
}

// pairKey folds case; limits apply to the address regardless of casing.
func pairKey(email, deviceID string) string {
	return strings.ToLower(email) + ":" + deviceID
}
