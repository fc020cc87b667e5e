package services

import (
	"bytes"
	"encoding/json"

	"github.com/dmitrijs2005/memberportal/internal/client/client"
)

// Wire bodies of the auth endpoints. The login endpoint signals success
// through a top-level "data": true, the others through "success": true.

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

type loginResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type verifyResponse struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	User    json.RawMessage `json:"user"`
	Token   string          `json:"token"`
}

type resendResponse struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	ExpiresAt string `json:"expiresAt"`
}

// result is the shape every auth endpoint is normalized into.
type result struct {
	ok      bool
	message string
	user    json.RawMessage
	token   string
}

func loginResult(resp *client.Response) result {
	var body loginResponse
	if resp == nil || resp.Decode(&body) != nil {
		return result{}
	}
	return result{ok: bytes.Equal(bytes.TrimSpace(body.Data), []byte("true")), message: body.Message}
}

func verifyResult(resp *client.Response) result {
	var body verifyResponse
	if resp == nil || resp.Decode(&body) != nil {
		return result{}
	}
	return result{ok: body.Success, message: body.Message, user: body.User, token: body.Token}
}

func resendResult(resp *client.Response) result {
	var body resendResponse
	if resp == nil || resp.Decode(&body) != nil {
		return result{}
	}
	return result{ok: body.Success, message: body.Message}
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
