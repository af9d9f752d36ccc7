// Package common contains shared constants and sentinel errors used across
// the client, the session layer and the mock backend.
package common

const (
	// AuthorizationHeader carries "Bearer <token>" on authenticated requests.
	AuthorizationHeader = "Authorization"
	// BearerScheme is the Authorization scheme prefix, without the trailing space.
	BearerScheme = "Bearer"
	// RequestIDHeader correlates a client request with backend log lines.
	RequestIDHeader = "X-Request-ID"
	// ContentTypeJSON is the only request/response media type spoken by the API.
	ContentTypeJSON = "application/json"

	// TokenMetadataKey is the fixed metadata key holding the bearer token.
	TokenMetadataKey = "auth_token"
)
