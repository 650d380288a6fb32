// Package githubapi is the gateway to the GitHub REST API.
//
// Gateway wraps go-github behind typed results and GatewayError values whose
// Kind tells callers whether a credential was rejected, a limit was hit or a
// resource was missing. Every call receives the credential explicitly.
package githubapi
