package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/memberportal/internal/client/client"
	"github.com/dmitrijs2005/memberportal/internal/client/session"
	"github.com/dmitrijs2005/memberportal/internal/client/storage"
	"github.com/dmitrijs2005/memberportal/internal/logging"
)

func answer(body string) func(client.Descriptor) (*client.Response, error) {
	return func(client.Descriptor) (*client.Response, error) { return jsonResponse(body), nil }
}

func fail(err error) func(client.Descriptor) (*client.Response, error) {
	return func(client.Descriptor) (*client.Response, error) { return nil, err }
}

func storedString(t *testing.T, f *fixture, key storage.Key) string {
	t.Helper()
	var s string
	require.True(t, f.store.Get(context.Background(), key, &s), "missing %s", key)
	return s
}

// ---- SendLoginOTP ----

func TestSendLoginOTP_Success_PersistsDeviceIDAndToasts(t *testing.T) {
	f := newFixture(t, answer(`{"data":true,"message":"OTP sent"}`))

	ok := f.svc.SendLoginOTP(context.Background(), "9998887770")
	require.True(t, ok)
	assert.Equal(t, notice{LevelSuccess, "OTP sent"}, f.rec.last())

	deviceID := storedString(t, f, storage.KeyDeviceID)
	assert.True(t, strings.HasPrefix(deviceID, "customer_web_1760000000000_"), deviceID)

	require.Len(t, f.req.calls, 1)
	c := f.req.calls[0]
	assert.Equal(t, testEndpoints.Login, c.Descriptor.URL)
	assert.Equal(t, "POST", c.Descriptor.Method)
	assert.JSONEq(t, `{"mobile_number":9998887770,"fcm":"customer_web_app","deviceId":"`+deviceID+`"}`, string(c.Body))
}

func TestSendLoginOTP_DefaultSuccessMessage(t *testing.T) {
	f := newFixture(t, answer(`{"data":true}`))
	require.True(t, f.svc.SendLoginOTP(context.Background(), "9998887770"))
	assert.Equal(t, notice{LevelSuccess, MsgOTPSent}, f.rec.last())
}

func TestSendLoginOTP_UsesStoredFCMToken(t *testing.T) {
	f := newFixture(t, answer(`{"data":true}`))
	f.seed(t, map[storage.Key]any{storage.KeyFCMToken: "push-123"})

	require.True(t, f.svc.SendLoginOTP(context.Background(), "9998887770"))

	var body loginRequest
	require.NoError(t, json.Unmarshal(f.req.calls[0].Body, &body))
	assert.Equal(t, "push-123", body.FCM)
}

func TestSendLoginOTP_NewDeviceIDPerAttempt(t *testing.T) {
	f := newFixture(t, answer(`{"data":true}`))
	ctx := context.Background()

	require.True(t, f.svc.SendLoginOTP(ctx, "9998887770"))
	first := storedString(t, f, storage.KeyDeviceID)
	require.True(t, f.svc.SendLoginOTP(ctx, "9998887770"))
	second := storedString(t, f, storage.KeyDeviceID)

	assert.NotEqual(t, first, second)
}

func TestSendLoginOTP_Failures(t *testing.T) {
	tests := []struct {
		name    string
		respond func(client.Descriptor) (*client.Response, error)
		want    string
	}{
		{name: "data false with message", respond: answer(`{"data":false,"message":"Mobile not registered"}`), want: "Mobile not registered"},
		{name: "data false", respond: answer(`{"data":false}`), want: MsgServerError},
		{name: "data is a string", respond: answer(`{"data":"true"}`), want: MsgServerError},
		{name: "success flag is not enough", respond: answer(`{"success":true}`), want: MsgServerError},
		{name: "empty body", respond: answer(``), want: MsgServerError},
		{name: "transport", respond: fail(&client.Error{Err: client.ErrUnavailable}), want: MsgNetworkError},
		{name: "server message", respond: fail(&client.Error{Status: 400, Message: "Too many attempts", Err: client.ErrRequestFailed}), want: "Too many attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.respond)
			assert.False(t, f.svc.SendLoginOTP(context.Background(), "9998887770"))
			assert.Equal(t, notice{LevelError, tt.want}, f.rec.last())
		})
	}
}

func TestSendLoginOTP_NonNumericMobile_NoCall(t *testing.T) {
	f := newFixture(t, answer(`{"data":true}`))

	assert.False(t, f.svc.SendLoginOTP(context.Background(), "98x"))
	assert.Empty(t, f.req.calls)
	assert.Equal(t, notice{LevelError, MsgInvalidMobile}, f.rec.last())
	assert.False(t, f.store.Has(context.Background(), storage.KeyDeviceID))
}

// ---- VerifyOTPAndLogin ----

func TestVerifyOTPAndLogin_Success_StoresSession(t *testing.T) {
	f := newFixture(t, answer(`{"success":true,"user":{"_id":"u1"},"token":"abc","message":"ok"}`))
	f.seed(t, map[storage.Key]any{storage.KeyDeviceID: "customer_web_1_abcdefghi"})
	ctx := context.Background()

	require.True(t, f.svc.VerifyOTPAndLogin(ctx, "9998887770", "1234"))

	assert.Equal(t, "abc", storedString(t, f, storage.KeyToken))
	var loggedIn bool
	require.True(t, f.store.Get(ctx, storage.KeyIsUserLoggedIn, &loggedIn))
	assert.True(t, loggedIn)
	var user map[string]any
	require.True(t, f.store.Get(ctx, storage.KeyUserData, &user))
	assert.Equal(t, map[string]any{"_id": "u1"}, user)

	assert.Equal(t, []string{session.RouteDashboard}, f.rec.routes)
	assert.Equal(t, notice{LevelSuccess, "ok"}, f.rec.last())
	assert.True(t, f.svc.IsAuthenticated(ctx))

	require.Len(t, f.req.calls, 1)
	assert.Equal(t, testEndpoints.VerifyMobile, f.req.calls[0].Descriptor.URL)
	assert.JSONEq(t, `{"mobile_number":9998887770,"otpCode":1234,"deviceId":"customer_web_1_abcdefghi"}`, string(f.req.calls[0].Body))
}

func TestVerifyOTPAndLogin_NoDeviceID_NoCall(t *testing.T) {
	f := newFixture(t, answer(`{"success":true,"token":"abc"}`))

	assert.False(t, f.svc.VerifyOTPAndLogin(context.Background(), "9998887770", "1234"))
	assert.Empty(t, f.req.calls)
	assert.Equal(t, []string{session.RouteLogin}, f.rec.routes)
	assert.Equal(t, notice{LevelError, MsgLoginExpired}, f.rec.last())
}

func TestVerifyOTPAndLogin_WithoutToken_ProfileSession(t *testing.T) {
	f := newFixture(t, answer(`{"success":true,"user":{"_id":"u9"}}`))
	f.seed(t, map[storage.Key]any{storage.KeyDeviceID: "d", storage.KeyToken: "stale"})
	ctx := context.Background()

	require.True(t, f.svc.VerifyOTPAndLogin(ctx, "9998887770", "1234"))

	assert.False(t, f.store.Has(ctx, storage.KeyToken))
	assert.True(t, f.svc.IsAuthenticated(ctx))
	assert.Equal(t, notice{LevelSuccess, MsgLoginSuccess}, f.rec.last())
}

func TestVerifyOTPAndLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		respond func(client.Descriptor) (*client.Response, error)
		otp     string
		want    string
		calls   int
	}{
		{name: "rejected with message", respond: answer(`{"success":false,"message":"Invalid OTP"}`), otp: "1234", want: "Invalid OTP", calls: 1},
		{name: "rejected", respond: answer(`{"success":false}`), otp: "1234", want: MsgInvalidOTP, calls: 1},
		{name: "login shaped answer", respond: answer(`{"data":true}`), otp: "1234", want: MsgInvalidOTP, calls: 1},
		{name: "transport", respond: fail(&client.Error{Err: client.ErrUnavailable}), otp: "1234", want: MsgInvalidOTP, calls: 1},
		{name: "server message", respond: fail(&client.Error{Status: 400, Message: "OTP expired", Err: client.ErrRequestFailed}), otp: "1234", want: "OTP expired", calls: 1},
		{name: "non numeric otp", respond: answer(`{"success":true}`), otp: "12ab", want: MsgInvalidOTP, calls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.respond)
			f.seed(t, map[storage.Key]any{storage.KeyDeviceID: "d"})
			ctx := context.Background()

			assert.False(t, f.svc.VerifyOTPAndLogin(ctx, "9998887770", tt.otp))
			assert.Equal(t, notice{LevelError, tt.want}, f.rec.last())
			assert.Len(t, f.req.calls, tt.calls)
			assert.Empty(t, f.rec.routes)
			assert.False(t, f.svc.IsAuthenticated(ctx))
			assert.Equal(t, "d", storedString(t, f, storage.KeyDeviceID))
		})
	}
}

// ---- ResendOTP ----

func TestResendOTP_KeepsDeviceID(t *testing.T) {
	f := newFixture(t, answer(`{"success":true,"message":"resent","sessionId":"s1","expiresAt":"2026-01-01T00:00:00Z"}`))
	f.seed(t, map[storage.Key]any{storage.KeyDeviceID: "d-1"})

	require.True(t, f.svc.ResendOTP(context.Background(), "9998887770"))

	assert.Equal(t, "d-1", storedString(t, f, storage.KeyDeviceID))
	assert.Equal(t, notice{LevelSuccess, "resent"}, f.rec.last())
	require.Len(t, f.req.calls, 1)
	assert.Equal(t, testEndpoints.ResendOTP, f.req.calls[0].Descriptor.URL)
	assert.JSONEq(t, `{"mobile_number":9998887770}`, string(f.req.calls[0].Body))
}

func TestResendOTP_Failures(t *testing.T) {
	f := newFixture(t, answer(`{"success":false}`))
	assert.False(t, f.svc.ResendOTP(context.Background(), "9998887770"))
	assert.Equal(t, notice{LevelError, MsgServerError}, f.rec.last())

	f = newFixture(t, fail(&client.Error{Err: client.ErrUnavailable}))
	assert.False(t, f.svc.ResendOTP(context.Background(), "9998887770"))
	assert.Equal(t, notice{LevelError, MsgNetworkError}, f.rec.last())

	f = newFixture(t, answer(`{"success":true}`))
	assert.False(t, f.svc.ResendOTP(context.Background(), "phone"))
	assert.Empty(t, f.req.calls)
}

// ---- Logout / expiry ----

func TestLogout_SendsBearerAndClears(t *testing.T) {
	f := newFixture(t, answer(`{"success":true}`))
	f.seed(t, map[storage.Key]any{storage.KeyToken: "abc", storage.KeyIsUserLoggedIn: true, storage.KeyDeviceID: "d"})
	ctx := context.Background()

	require.NoError(t, f.svc.Logout(ctx))

	require.Len(t, f.req.calls, 1)
	c := f.req.calls[0]
	assert.Equal(t, testEndpoints.Logout, c.Descriptor.URL)
	assert.Equal(t, "Bearer abc", client.MergeHeaders(c.Headers...).Get("Authorization"))

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, []string{session.RouteLogin}, f.rec.routes)
	assert.Equal(t, notice{LevelSuccess, MsgLogoutSuccess}, f.rec.last())
}

func TestLogout_ServerFailureStillClears(t *testing.T) {
	f := newFixture(t, fail(&client.Error{Status: 500, Err: client.ErrRequestFailed}))
	f.seed(t, map[storage.Key]any{storage.KeyToken: "abc", storage.KeyIsUserLoggedIn: true})
	ctx := context.Background()

	require.NoError(t, f.svc.Logout(ctx))

	assert.False(t, f.svc.IsAuthenticated(ctx))
	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, []string{session.RouteLogin}, f.rec.routes)
	for _, n := range f.rec.notices {
		assert.NotEqual(t, LevelError, n.Level)
	}
}

type hangingRequester struct{}

func (hangingRequester) Request(ctx context.Context, _ client.Descriptor, _ any, _ ...client.Header) (*client.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLogout_TimeoutBoundsServerCall(t *testing.T) {
	f := newFixture(t, nil)
	f.svc = NewAuthService(hangingRequester{}, f.store, testEndpoints, f.rec, f.rec, logging.Discard(),
		Options{LogoutTimeout: 20 * time.Millisecond})
	f.seed(t, map[storage.Key]any{storage.KeyToken: "abc", storage.KeyIsUserLoggedIn: true})

	done := make(chan error, 1)
	go func() { done <- f.svc.Logout(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("logout did not return")
	}
	assert.False(t, f.svc.IsAuthenticated(context.Background()))
	assert.Equal(t, []string{session.RouteLogin}, f.rec.routes)
}

func TestHandleTokenExpiry(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, map[storage.Key]any{storage.KeyToken: "abc", storage.KeyIsUserLoggedIn: true})
	ctx := context.Background()

	f.svc.HandleTokenExpiry(ctx)

	assert.False(t, f.svc.IsAuthenticated(ctx))
	assert.Equal(t, []string{session.RouteLogin}, f.rec.routes)
	assert.Equal(t, notice{LevelWarning, MsgSessionExpired}, f.rec.last())
	assert.Empty(t, f.req.calls)
}

// ---- accessors ----

func TestAccessors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, ok := f.svc.AuthToken(ctx)
	assert.False(t, ok)
	assert.Empty(t, f.svc.AuthHeaders(ctx))
	_, err := f.svc.CurrentUserID(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, f.svc.UpdateUserData(ctx, map[string]string{"_id": "u7", "name": "Asha"}))
	var user struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	require.True(t, f.svc.CurrentUser(ctx, &user))
	assert.Equal(t, "Asha", user.Name)

	id, err := f.svc.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u7", id)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{UserID: "u42"}).SignedString([]byte("k"))
	require.NoError(t, err)
	f.seed(t, map[storage.Key]any{storage.KeyToken: tok})

	got, ok := f.svc.AuthToken(ctx)
	require.True(t, ok)
	assert.Equal(t, tok, got)
	assert.Equal(t, client.BearerHeader(tok), f.svc.AuthHeaders(ctx))

	id, err = f.svc.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u42", id)
}

func TestCurrentUserID_OpaqueTokenFallsBackToProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seed(t, map[storage.Key]any{storage.KeyToken: "abc", storage.KeyUserData: map[string]string{"_id": "u1"}})

	id, err := f.svc.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}

func TestFetchProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(d client.Descriptor) (*client.Response, error) {
		return &client.Response{Data: json.RawMessage(`{"_id":"u5","name":"Ravi"}`), StatusCode: 200}, nil
	})
	f.seed(t, map[storage.Key]any{storage.KeyToken: "abc"})

	data, err := f.svc.FetchProfile(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u5","name":"Ravi"}`, string(data))

	require.Len(t, f.req.calls, 1)
	assert.Equal(t, testEndpoints.Profile, f.req.calls[0].Descriptor.URL)
	assert.Equal(t, "GET", f.req.calls[0].Descriptor.Method)
	assert.Equal(t, "Bearer abc", client.MergeHeaders(f.req.calls[0].Headers...).Get("Authorization"))

	id, err := f.svc.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u5", id)
}

func TestFetchProfile_ErrorsPropagate(t *testing.T) {
	f := newFixture(t, fail(&client.Error{Status: 401, Err: client.ErrUnauthorized}))

	_, err := f.svc.FetchProfile(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
}
