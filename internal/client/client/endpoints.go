package client

import (
	"net/url"
	"strings"
)

// Endpoints holds the absolute URLs of the auth API.
type Endpoints struct {
	Login        string
	VerifyMobile string
	ResendOTP    string
	Logout       string
	RefreshToken string
	Profile      string
}

// NewEndpoints joins baseURL, the route prefix and each auth path.
func NewEndpoints(baseURL, route string) (Endpoints, error) {
	root, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return Endpoints{}, err
	}
	prefix := strings.Trim(route, "/")

	join := func(path string) string {
		if prefix == "" {
			return root.JoinPath(path).String()
		}
		return root.JoinPath(prefix, path).String()
	}

	return Endpoints{
		Login:        join("auth/login"),
		VerifyMobile: join("auth/verify-mobile"),
		ResendOTP:    join("auth/resend-mobile-otp"),
		Logout:       join("auth/logout"),
		RefreshToken: join("auth/refresh-token"),
		Profile:      join("auth/me"),
	}, nil
}
