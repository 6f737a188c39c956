// Package common contains shared constants, sentinel errors and small helpers
// used by both the ProfileKeeper client and backend.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the backend
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// BearerPrefix prefixes the access token in the HTTP Authorization header.
const BearerPrefix = "Bearer "
