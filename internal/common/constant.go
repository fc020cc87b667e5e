package common

// AuthorizationHeader carries "Bearer <token>" on authenticated requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeader.
const BearerPrefix = "Bearer "
