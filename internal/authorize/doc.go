// Package authorize implements the decision core of the authorization
// endpoint: flow classification, request validation, credential minting and
// the construction of the redirect URI sent back to the client.
//
// In terms of parameter validation, no error is ever redirected to a
// redirect URI that is not registered for the client. Errors found before the
// redirect URI is checked carry it, but are only redirectable once it is
// known to be registered.
package authorize
