package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/dmitrijs2005/memberportal/internal/server/users"
)

type Handler struct {
	users  *users.Service
	logger logging.Logger
}

func NewHandler(us *users.Service, logger logging.Logger) *Handler {
	return &Handler{users: us, logger: logger}
}

type loginRequest struct {
	MobileNumber int64  `json:"mobile_number"`
	FCM          string `json:"fcm"`
	DeviceID     string `json:"deviceId"`
}

type verifyRequest struct {
	MobileNumber int64  `json:"mobile_number"`
	OTPCode      int    `json:"otpCode"`
	DeviceID     string `json:"deviceId"`
}

type resendRequest struct {
	MobileNumber int64 `json:"mobile_number"`
}

// Login answers in the login shape: {"data": bool, "message": string}.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"data": false, "message": "Invalid request body"})
		return
	}

	if _, err := h.users.RequestOTP(c.Request.Context(), req.MobileNumber, req.DeviceID, req.FCM); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"data": false, "message": "Invalid mobile number"})
			return
		}
		h.internalError(c, err, gin.H{"data": false})
		return
	}

	h.logger.Info(c.Request.Context(), "otp issued", "device_id", req.DeviceID)
	c.JSON(http.StatusOK, gin.H{"data": true, "message": "OTP sent"})
}

func (h *Handler) VerifyMobile(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	res, err := h.users.VerifyOTP(c.Request.Context(), req.MobileNumber, req.OTPCode, req.DeviceID)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid OTP"})
		return
	case errors.Is(err, common.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP expired"})
		return
	case errors.Is(err, common.ErrNoChallenge):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No OTP requested for this number"})
		return
	default:
		h.internalError(c, err, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    res.Member,
		"token":   res.Token,
	})
}

func (h *Handler) ResendOTP(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	ch, err := h.users.ResendOTP(c.Request.Context(), req.MobileNumber)
	if err != nil {
		if errors.Is(err, common.ErrNoChallenge) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No OTP requested for this number"})
			return
		}
		h.internalError(c, err, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "OTP resent",
		"sessionId": ch.SessionID,
		"expiresAt": ch.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), c.GetString(tokenIDKey)); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "session expired"})
			return
		}
		h.internalError(c, err, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// Me returns the caller's profile nested under "data".
func (h *Handler) Me(c *gin.Context) {
	m, err := h.users.Profile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "member not found"})
			return
		}
		h.internalError(c, err, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}

func (h *Handler) internalError(c *gin.Context, err error, body gin.H) {
	h.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	body["message"] = "Something went wrong"
	c.JSON(http.StatusInternalServerError, body)
}
