package domain

import "time"

// Identity is the verified payload of a bearer token: who is making the request.
// It is derived from the token on every request and never stored.
type Identity struct {
	Subject   int64
	Email     string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}
