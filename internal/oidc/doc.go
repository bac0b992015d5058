// Package oidc is a complement of the package goidc containing private structs
// and functions that are not meant to be accessible for users of goidc.
// It contains the provider configuration and the request scoped context
// passed to every component of the authorization endpoint.
package oidc
