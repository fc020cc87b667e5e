package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/memberportal/internal/client/client"
	"github.com/dmitrijs2005/memberportal/internal/client/services"
	"github.com/dmitrijs2005/memberportal/internal/client/session"
)

const msgNoPendingOTP = "Request an OTP first with 'login'."

// Indirection so tests can stub prompts.
var (
	getSimpleText = GetSimpleText
	getOTP        = GetOTP
)

// Login asks for a mobile number and requests an OTP for it. On success the
// shell moves to the verification screen.
func (a *App) Login(ctx context.Context) error {
	if !a.guard.AllowGuest(ctx) {
		return nil
	}

	mobile, err := getSimpleText(a.reader, "Mobile number", a.out)
	if err != nil {
		return err
	}
	if !services.ValidateMobileNumber(mobile) {
		a.Notify(ctx, services.LevelError, services.MsgInvalidMobile)
		return nil
	}

	if a.auth.SendLoginOTP(ctx, mobile) {
		a.mobile = mobile
		a.Navigate(ctx, session.RouteVerification)
	}
	return nil
}

// Verify reads the OTP and completes the pending login.
func (a *App) Verify(ctx context.Context) error {
	if !a.guard.AllowGuest(ctx) {
		return nil
	}
	if a.mobile == "" {
		a.Notify(ctx, services.LevelWarning, msgNoPendingOTP)
		return nil
	}

	otp, err := getOTP(a.reader, a.out)
	if err != nil {
		return err
	}
	if !services.ValidateOTP(otp) {
		a.Notify(ctx, services.LevelError, services.MsgInvalidOTP)
		return nil
	}

	if a.auth.VerifyOTPAndLogin(ctx, a.mobile, otp) {
		a.mobile = ""
	}
	return nil
}

// Resend requests another OTP for the pending login.
func (a *App) Resend(ctx context.Context) error {
	if !a.guard.AllowGuest(ctx) {
		return nil
	}
	if a.mobile == "" {
		a.Notify(ctx, services.LevelWarning, msgNoPendingOTP)
		return nil
	}
	a.auth.ResendOTP(ctx, a.mobile)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.guard.AllowAuthenticated(ctx) {
		return nil
	}
	a.mobile = ""
	return a.auth.Logout(ctx)
}

// WhoAmI prints the member id and the cached profile.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.guard.AllowAuthenticated(ctx) {
		return nil
	}

	id, err := a.auth.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Member: %s\n", id)

	var user json.RawMessage
	if a.auth.CurrentUser(ctx, &user) {
		return printJSON(a, user)
	}
	return nil
}

// Profile reloads the member profile from the server.
func (a *App) Profile(ctx context.Context) error {
	if !a.guard.AllowAuthenticated(ctx) {
		return nil
	}

	data, err := a.auth.FetchProfile(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			// the gateway hook already ended the session
			return nil
		}
		msg := client.ServerMessage(err)
		if msg == "" {
			msg = services.MsgNetworkError
		}
		a.Notify(ctx, services.LevelError, msg)
		return nil
	}
	return printJSON(a, data)
}

// Open navigates to route if its guard lets the current session through.
func (a *App) Open(ctx context.Context, route string) error {
	if a.guard.CanActivate(ctx, route) {
		a.Navigate(ctx, route)
	}
	return nil
}

func printJSON(a *App, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}
