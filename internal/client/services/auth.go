// Package services contains application services for the member portal
// client. This file defines the authentication service: the OTP login
// protocol, logout and the accessors feature screens use to read the
// current session.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/client/client"
	"github.com/dmitrijs2005/memberportal/internal/client/session"
	"github.com/dmitrijs2005/memberportal/internal/client/storage"
	"github.com/dmitrijs2005/memberportal/internal/logging"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Requester issues server calls. *client.Gateway implements it.
type Requester interface {
	Request(ctx context.Context, d client.Descriptor, body any, headers ...client.Header) (*client.Response, error)
}

// AuthService defines authentication operations for the shell.
//
// Contract:
//   - SendLoginOTP, VerifyOTPAndLogin, ResendOTP never fail loudly: every
//     outcome is reported through the Notifier and the returned bool.
//   - Logout always wipes local state and navigates to login; the returned
//     error only reports a failed local wipe.
//   - HandleTokenExpiry is the reaction to a 401 from any call.
type AuthService interface {
	SendLoginOTP(ctx context.Context, mobile string) bool
	VerifyOTPAndLogin(ctx context.Context, mobile, otp string) bool
	ResendOTP(ctx context.Context, mobile string) bool
	Logout(ctx context.Context) error
	HandleTokenExpiry(ctx context.Context)

	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context, dst any) bool
	AuthToken(ctx context.Context) (string, bool)
	CurrentUserID(ctx context.Context) (string, error)
	UpdateUserData(ctx context.Context, user any) error
	AuthHeaders(ctx context.Context) client.Header
	FetchProfile(ctx context.Context) (json.RawMessage, error)
}

type Options struct {
	// LogoutTimeout bounds the server notification on logout. Zero means
	// the caller's context alone decides.
	LogoutTimeout time.Duration
	// Now is the clock used for device identifiers.
	Now func() time.Time
}

type authService struct {
	req       Requester
	store     *storage.Store
	endpoints client.Endpoints
	nav       session.Navigator
	notify    Notifier
	guard     *session.Guard
	log       logging.Logger
	opts      Options
}

// NewAuthService constructs an AuthService that talks to endpoints through
// req and keeps session state in store.
func NewAuthService(req Requester, store *storage.Store, endpoints client.Endpoints,
	nav session.Navigator, notify Notifier, log logging.Logger, opts Options) AuthService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logging.Discard()
	}
	return &authService{
		req:       req,
		store:     store,
		endpoints: endpoints,
		nav:       nav,
		notify:    notify,
		guard:     session.NewGuard(store, nav),
		log:       log.With("component", "auth"),
		opts:      opts,
	}
}

func post(url string) client.Descriptor {
	return client.Descriptor{URL: url, Method: http.MethodPost}
}

// SendLoginOTP starts a login attempt: it mints a fresh device identifier
// and asks the server to text an OTP to mobile.
func (a *authService) SendLoginOTP(ctx context.Context, mobile string) bool {
	number, err := parseNumber(mobile)
	if err != nil {
		a.notify.Notify(ctx, LevelError, MsgInvalidMobile)
		return false
	}

	deviceID := session.NewDeviceID(a.opts.Now())
	if err := a.store.Set(ctx, storage.KeyDeviceID, deviceID); err != nil {
		a.log.Error(ctx, "persist device id", "error", err)
		a.notify.Notify(ctx, LevelError, MsgServerError)
		return false
	}

	fcm := defaultFCM
	var stored string
	if a.store.Get(ctx, storage.KeyFCMToken, &stored) && stored != "" {
		fcm = stored
	}

	payload := loginRequest{MobileNumber: number, FCM: fcm, DeviceID: deviceID}
	a.log.Debug(ctx, "sending login otp", "url", a.endpoints.Login, "device_id", deviceID)

	resp, err := a.req.Request(ctx, post(a.endpoints.Login), payload, client.JSONHeader())
	if err != nil {
		a.log.Warn(ctx, "send otp failed", "error", err)
		a.notify.Notify(ctx, LevelError, orDefault(client.ServerMessage(err), MsgNetworkError))
		return false
	}

	res := loginResult(resp)
	if !res.ok {
		a.notify.Notify(ctx, LevelError, orDefault(res.message, MsgServerError))
		return false
	}
	a.log.Info(ctx, "otp sent", "device_id", deviceID)
	a.notify.Notify(ctx, LevelSuccess, orDefault(res.message, MsgOTPSent))
	return true
}

// VerifyOTPAndLogin completes the login attempt started by SendLoginOTP.
// Without a stored device identifier there is no attempt to complete and
// the server is not called.
func (a *authService) VerifyOTPAndLogin(ctx context.Context, mobile, otp string) bool {
	var deviceID string
	if !a.store.Get(ctx, storage.KeyDeviceID, &deviceID) || deviceID == "" {
		a.log.Warn(ctx, "device id not found")
		a.notify.Notify(ctx, LevelError, MsgLoginExpired)
		a.nav.Navigate(ctx, session.RouteLogin)
		return false
	}

	number, err := parseNumber(mobile)
	if err != nil {
		a.notify.Notify(ctx, LevelError, MsgInvalidMobile)
		return false
	}
	code, err := strconv.Atoi(strings.TrimSpace(otp))
	if err != nil {
		a.notify.Notify(ctx, LevelError, MsgInvalidOTP)
		return false
	}

	payload := verifyRequest{MobileNumber: number, OTPCode: code, DeviceID: deviceID}
	resp, err := a.req.Request(ctx, post(a.endpoints.VerifyMobile), payload, client.JSONHeader())
	if err != nil {
		a.log.Warn(ctx, "verify otp failed", "error", err)
		a.notify.Notify(ctx, LevelError, orDefault(client.ServerMessage(err), MsgInvalidOTP))
		return false
	}

	res := verifyResult(resp)
	if !res.ok {
		a.notify.Notify(ctx, LevelError, orDefault(res.message, MsgInvalidOTP))
		return false
	}

	if err := a.saveSession(ctx, res); err != nil {
		a.log.Error(ctx, "persist session", "error", err)
		a.notify.Notify(ctx, LevelError, MsgServerError)
		return false
	}

	a.log.Info(ctx, "logged in", "token", res.token != "")
	a.notify.Notify(ctx, LevelSuccess, orDefault(res.message, MsgLoginSuccess))
	a.nav.Navigate(ctx, session.RouteDashboard)
	return true
}

func (a *authService) saveSession(ctx context.Context, res result) error {
	values := map[storage.Key]any{
		storage.KeyUserData:       res.user,
		storage.KeyIsUserLoggedIn: true,
	}
	if res.token != "" {
		values[storage.KeyToken] = res.token
	} else if err := a.store.ClearKey(ctx, storage.KeyToken); err != nil {
		return err
	}
	return a.store.SetMany(ctx, values)
}

// ResendOTP asks for another code for the current attempt. The device
// identifier stays the same.
func (a *authService) ResendOTP(ctx context.Context, mobile string) bool {
	number, err := parseNumber(mobile)
	if err != nil {
		a.notify.Notify(ctx, LevelError, MsgInvalidMobile)
		return false
	}

	resp, err := a.req.Request(ctx, post(a.endpoints.ResendOTP), resendRequest{MobileNumber: number}, client.JSONHeader())
	if err != nil {
		a.log.Warn(ctx, "resend otp failed", "error", err)
		a.notify.Notify(ctx, LevelError, orDefault(client.ServerMessage(err), MsgNetworkError))
		return false
	}

	res := resendResult(resp)
	if !res.ok {
		a.notify.Notify(ctx, LevelError, orDefault(res.message, MsgServerError))
		return false
	}
	a.notify.Notify(ctx, LevelSuccess, orDefault(res.message, MsgOTPSent))
	return true
}

// Logout tells the server the session is over, then wipes local state no
// matter how that call ended.
func (a *authService) Logout(ctx context.Context) error {
	callCtx := ctx
	if a.opts.LogoutTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.opts.LogoutTimeout)
		defer cancel()
	}

	if _, err := a.req.Request(callCtx, post(a.endpoints.Logout), map[string]any{},
		client.JSONHeader(), a.AuthHeaders(ctx)); err != nil {
		a.log.Info(ctx, "logout call failed, clearing local session anyway", "error", err)
	}

	err := a.store.ClearAll(ctx)
	if err != nil {
		a.log.Error(ctx, "clear session", "error", err)
	}
	a.nav.Navigate(ctx, session.RouteLogin)
	a.notify.Notify(ctx, LevelSuccess, MsgLogoutSuccess)
	return err
}

// HandleTokenExpiry drops the session after the server rejected it.
func (a *authService) HandleTokenExpiry(ctx context.Context) {
	if err := a.store.ClearAll(ctx); err != nil {
		a.log.Error(ctx, "clear session", "error", err)
	}
	a.nav.Navigate(ctx, session.RouteLogin)
	a.notify.Notify(ctx, LevelWarning, MsgSessionExpired)
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return a.guard.IsAuthenticated(ctx)
}

// CurrentUser decodes the cached profile into dst.
func (a *authService) CurrentUser(ctx context.Context, dst any) bool {
	return a.store.Get(ctx, storage.KeyUserData, dst)
}

func (a *authService) AuthToken(ctx context.Context) (string, bool) {
	var token string
	if !a.store.Get(ctx, storage.KeyToken, &token) || token == "" {
		return "", false
	}
	return token, true
}

// CurrentUserID reads the user id from the token claims, falling back to
// the "_id" of the cached profile for sessions without a token.
func (a *authService) CurrentUserID(ctx context.Context) (string, error) {
	if token, ok := a.AuthToken(ctx); ok {
		claims, err := session.ParseClaims(token)
		if err == nil {
			return claims.UserID, nil
		}
		a.log.Debug(ctx, "token carries no user id", "error", err)
	}

	var profile struct {
		ID string `json:"_id"`
	}
	if a.CurrentUser(ctx, &profile) && profile.ID != "" {
		return profile.ID, nil
	}
	return "", ErrNotLoggedIn
}

func (a *authService) UpdateUserData(ctx context.Context, user any) error {
	if err := a.store.Set(ctx, storage.KeyUserData, user); err != nil {
		return fmt.Errorf("update user data: %w", err)
	}
	return nil
}

// AuthHeaders returns the bearer fragment for the stored token, or an
// empty fragment when there is none.
func (a *authService) AuthHeaders(ctx context.Context) client.Header {
	token, ok := a.AuthToken(ctx)
	if !ok {
		return client.Header{}
	}
	return client.BearerHeader(token)
}

// FetchProfile reloads the member profile and refreshes the cached copy.
// Transport and auth failures go back to the caller unchanged.
func (a *authService) FetchProfile(ctx context.Context) (json.RawMessage, error) {
	d := client.Descriptor{URL: a.endpoints.Profile, Method: http.MethodGet}
	resp, err := a.req.Request(ctx, d, nil, a.AuthHeaders(ctx))
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, client.ErrMalformedResponse
	}
	if err := a.UpdateUserData(ctx, resp.Data); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// parseNumber turns a numeric form field into the integer the API expects.
func parseNumber(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
