// Package client contains the request gateway of the member portal client.
//
// # Overview
//
// Every server call goes through Gateway.Request, which:
//  1. dispatches GET/POST/PUT/DELETE and answers any other verb with the
//     canned UnknownMethodResponse instead of failing;
//  2. merges ordered header fragments (later fragments win) and composes
//     the body: JSON with an application/json content type, or multipart
//     FormData with a gateway-supplied boundary content type;
//  3. unwraps the server envelope into Response, keeping the raw body for
//     endpoint-specific decoding;
//  4. on a 401 answer runs the configured UnauthorizedHandler before
//     returning the error to the caller.
//
// The package also bootstraps the local SQLite database (InitDatabase,
// RunMigrations) and derives the auth endpoint URLs (NewEndpoints).
//
// # Error Handling
//
// Failures are *Error values wrapping one of the sentinels, matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrRequestFailed,
// ErrMalformedResponse, ErrFormDataRequired. ServerMessage extracts the
// server-provided message, if any. Nothing is retried.
package client
