// Package common contains shared constants and sentinel errors used across
// fintrack components.
package common

// AuthorizationHeaderName is the gRPC metadata key (and HTTP header, in
// canonical form) that carries the bearer credential.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the authorization scheme accepted by the request gate.
const BearerScheme = "Bearer"
