package services

const (
	MsgOTPSent        = "OTP sent successfully to your mobile number"
	MsgLoginSuccess   = "Logged in successfully"
	MsgLogoutSuccess  = "Logged out successfully"
	MsgNetworkError   = "Network error. Please check your connection."
	MsgSessionExpired = "Your session has expired. Please login again."
	MsgServerError    = "Something went wrong. Please try again later."
	MsgInvalidOTP     = "Please enter a valid 4-digit OTP"
	MsgInvalidMobile  = "Please enter a valid 10-digit mobile number"
	MsgLoginExpired   = "Session expired. Please try logging in again."
)

// defaultFCM is sent when no push token has been registered.
const defaultFCM = "customer_web_app"
