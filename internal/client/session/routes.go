// Package session decides whether the current client state is a valid
// session and gates navigation accordingly. It also owns the helpers that
// interpret session values: token claims and device identifiers.
package session

import "context"

const (
	RouteLogin        = "/login"
	RouteVerification = "/verification"
	RouteDashboard    = "/dashboard"
)

// guestRoutes may only be visited without a session. Every other route
// requires one.
var guestRoutes = map[string]struct{}{
	RouteLogin:        {},
	RouteVerification: {},
}

// ProtectedRoutes lists the screens behind the auth guard.
var ProtectedRoutes = []string{
	RouteDashboard,
	"/referrals",
	"/tyfcbslip",
	"/member",
	"/gratitude",
	"/member-details",
	"/growth-meet",
	"/event",
	"/attendance",
	"/leaderboard",
	"/profile",
	"/complaints",
	"/suggestion",
	"/event-history",
	"/visitors",
}

// IsGuestRoute reports whether route is reachable only when logged out.
func IsGuestRoute(route string) bool {
	_, ok := guestRoutes[route]
	return ok
}

// Navigator is the force-navigate hook into the application shell.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) { f(ctx, route) }
