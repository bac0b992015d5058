// Package provider exposes the authorization endpoint of an OpenID provider.
//
// A new provider can be configured with [ProviderOption]s and instantiated
// using [New]. By default clients, credentials and consents are stored in
// memory and ID tokens are signed with the first RS256 signing key of the
// JWKS.
//
// It is highly recommended to change the default storage with custom
// implementations of [goidc.ClientManager], [goidc.GrantManager] and
// [goidc.ConsentManager]. For more info, see [WithClientStorage],
// [WithGrantStorage] and [WithConsentStorage].
package provider
