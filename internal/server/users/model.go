package users

import "time"

// Member is the profile returned to the portal after login. The JSON
// names follow the portal API.
type Member struct {
	ID           string    `json:"_id"`
	MobileNumber int64     `json:"mobile_number"`
	Name         string    `json:"name"`
	FCM          string    `json:"fcm,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Challenge is an open OTP login attempt for one mobile number.
type Challenge struct {
	MobileNumber int64
	DeviceID     string
	FCM          string
	Code         string
	SessionID    string
	ExpiresAt    time.Time
}
