package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ActivationPath is appended to the public API URL to build activation links.
const ActivationPath = "/api/activate/"
