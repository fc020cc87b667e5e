package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/memberportal/internal/client/client"
	"github.com/dmitrijs2005/memberportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memberportal/internal/client/storage"
	"github.com/dmitrijs2005/memberportal/internal/logging"
)

type call struct {
	Descriptor client.Descriptor
	Body       json.RawMessage
	Headers    []client.Header
}

// fakeRequester records every call and answers with a canned response.
type fakeRequester struct {
	mu      sync.Mutex
	calls   []call
	respond func(d client.Descriptor) (*client.Response, error)
}

func (f *fakeRequester) Request(ctx context.Context, d client.Descriptor, body any, headers ...client.Header) (*client.Response, error) {
	b, _ := json.Marshal(body)
	f.mu.Lock()
	f.calls = append(f.calls, call{Descriptor: d, Body: b, Headers: headers})
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.respond == nil {
		return nil, &client.Error{Method: d.Method, URL: d.URL, Err: client.ErrUnavailable}
	}
	return f.respond(d)
}

func jsonResponse(body string) *client.Response {
	return &client.Response{StatusCode: 200, Body: json.RawMessage(body)}
}

type notice struct {
	Level   Level
	Message string
}

type recorder struct {
	routes  []string
	notices []notice
}

func (r *recorder) Navigate(_ context.Context, route string) {
	r.routes = append(r.routes, route)
}

func (r *recorder) Notify(_ context.Context, level Level, message string) {
	r.notices = append(r.notices, notice{Level: level, Message: message})
}

func (r *recorder) last() notice {
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}

var testEndpoints = client.Endpoints{
	Login:        "http://portal.test/api/auth/login",
	VerifyMobile: "http://portal.test/api/auth/verify-mobile",
	ResendOTP:    "http://portal.test/api/auth/resend-mobile-otp",
	Logout:       "http://portal.test/api/auth/logout",
	RefreshToken: "http://portal.test/api/auth/refresh-token",
	Profile:      "http://portal.test/api/auth/me",
}

func fixedClock() time.Time { return time.UnixMilli(1760000000000) }

type fixture struct {
	svc   AuthService
	req   *fakeRequester
	rec   *recorder
	store *storage.Store
	repo  *metadata.MemoryRepository
}

func newFixture(t *testing.T, respond func(d client.Descriptor) (*client.Response, error)) *fixture {
	t.Helper()
	repo := metadata.NewMemoryRepository()
	store := storage.New(repo, logging.Discard())
	req := &fakeRequester{respond: respond}
	rec := &recorder{}
	svc := NewAuthService(req, store, testEndpoints, rec, rec, logging.Discard(), Options{Now: fixedClock})
	return &fixture{svc: svc, req: req, rec: rec, store: store, repo: repo}
}

func (f *fixture) seed(t *testing.T, values map[storage.Key]any) {
	t.Helper()
	require.NoError(t, f.store.SetMany(context.Background(), values))
}
