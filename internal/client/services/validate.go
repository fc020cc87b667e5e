package services

import "regexp"

const (
	mobileLength = 10
	otpLength    = 4
)

var (
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	otpPattern    = regexp.MustCompile(`^\d{4}$`)
)

// ValidateMobileNumber accepts ten digits starting with 6, 7, 8 or 9.
func ValidateMobileNumber(mobile string) bool {
	if len(mobile) != mobileLength {
		return false
	}
	return mobilePattern.MatchString(mobile)
}

// ValidateOTP accepts exactly four digits.
func ValidateOTP(otp string) bool {
	if len(otp) != otpLength {
		return false
	}
	return otpPattern.MatchString(otp)
}
