package common

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer
// credential on protected calls.
const AuthorizationHeaderName = "authorization"

// BearerScheme prefixes the token inside the authorization value.
const BearerScheme = "Bearer"

// TokenType is reported to clients alongside issued tokens.
const TokenType = "bearer"
