package session

import (
	"context"

	"github.com/dmitrijs2005/memberportal/internal/client/storage"
)

// Guard is the guest/auth guard pair. Both guards only read the store.
type Guard struct {
	store *storage.Store
	nav   Navigator
}

func NewGuard(store *storage.Store, nav Navigator) *Guard {
	return &Guard{store: store, nav: nav}
}

// IsAuthenticated accepts either proof of a session: a token with the
// logged-in flag, or a cached profile with the logged-in flag. The second
// form covers logins whose verify response carried no token.
func (g *Guard) IsAuthenticated(ctx context.Context) bool {
	var loggedIn bool
	if !g.store.Get(ctx, storage.KeyIsUserLoggedIn, &loggedIn) || !loggedIn {
		return false
	}

	var token string
	if g.store.Get(ctx, storage.KeyToken, &token) && token != "" {
		return true
	}
	return g.store.Has(ctx, storage.KeyUserData)
}

// AllowGuest guards the login screens: it passes only without a session
// and otherwise redirects to the dashboard.
func (g *Guard) AllowGuest(ctx context.Context) bool {
	if !g.IsAuthenticated(ctx) {
		return true
	}
	g.nav.Navigate(ctx, RouteDashboard)
	return false
}

// AllowAuthenticated guards protected screens: it passes only with a
// session and otherwise redirects to login.
func (g *Guard) AllowAuthenticated(ctx context.Context) bool {
	if g.IsAuthenticated(ctx) {
		return true
	}
	g.nav.Navigate(ctx, RouteLogin)
	return false
}

// CanActivate applies the guard that owns route.
func (g *Guard) CanActivate(ctx context.Context, route string) bool {
	if IsGuestRoute(route) {
		return g.AllowGuest(ctx)
	}
	return g.AllowAuthenticated(ctx)
}
