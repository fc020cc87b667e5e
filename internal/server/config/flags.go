package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-r string   API route prefix
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-o string   accepted OTP code
//	-v int      OTP validity, seconds
//
// os.Args is first filtered down to these flags with flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-s", "-t", "-o", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.RoutePrefix, "r", config.RoutePrefix, "API route prefix")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.OTPCode, "o", config.OTPCode, "accepted OTP code")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	otpValidity := fs.Int("v", int(config.OTPValidityDuration.Seconds()), "otp validity (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.OTPValidityDuration = time.Duration(*otpValidity) * time.Second
}
