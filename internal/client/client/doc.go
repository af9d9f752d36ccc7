// Package client is the HTTP client for the tag API.
//
// # Overview
//
//  1. Client, the typed API surface: Login, ForgotPassword, GetCurrentUser and
//     the QR-tag CRUD operations.
//  2. HTTPClient, its implementation over net/http. Every call goes through
//     HTTPClient.Do, which attaches `Authorization: Bearer <token>` when the
//     TokenStore holds one (read afresh for every request), decodes JSON
//     bodies, and normalises all failures into *RequestFailedError.
//  3. InitDatabase and RunMigrations, which prepare the local sqlite database
//     the Session Store persists the token in.
//
// # Error Handling
//
// Every failure is a *RequestFailedError. Match with errors.Is:
// ErrRequestFailed (always), ErrUnauthorized (HTTP 401, after which the token
// store has already been cleared), ErrUnavailable (transport failure or
// undecodable body). FailureMessage extracts the text meant for users.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Responses of concurrent calls may
// complete in any order. All operations honor ctx cancellation and the
// client-wide timeout.
package client
