// Package common contains shared constants and sentinel errors used across
// staybook components.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the access token.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only authorization scheme the server accepts.
	BearerScheme = "Bearer"

	// RequestIDHeaderName is echoed on every HTTP response so log lines can
	// be matched to client reports.
	RequestIDHeaderName = "X-Request-ID"
)
