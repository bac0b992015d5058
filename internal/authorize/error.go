package authorize

import (
	"fmt"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type ErrorKind string

const (
	KindInvalidClient           ErrorKind = "invalid_client"
	KindMissingRedirectURI      ErrorKind = "missing_redirect_uri"
	KindInvalidRedirectURI      ErrorKind = "invalid_redirect_uri"
	KindUnsupportedResponseType ErrorKind = "unsupported_response_type"
	KindInvalidRequest          ErrorKind = "invalid_request"
	KindAccessDenied            ErrorKind = "access_denied"
	KindServerError             ErrorKind = "server_error"
)

// Code returns the OAuth error code sent to the client for the kind.
func (k ErrorKind) Code() goidc.ErrorCode {
	switch k {
	case KindInvalidClient:
		return goidc.ErrorCodeInvalidClient
	case KindUnsupportedResponseType:
		return goidc.ErrorCodeUnsupportedResponseType
	case KindAccessDenied:
		return goidc.ErrorCodeAccessDenied
	case KindServerError:
		return goidc.ErrorCodeServerError
	default:
		return goidc.ErrorCodeInvalidRequest
	}
}

// Error is the outcome of a rejected authorization request. It carries what
// the caller needs to report it, either by redirecting to the client or by
// rendering a local error page.
type Error struct {
	Kind        ErrorKind
	Description string
	RedirectURI string
	Grant       goidc.GrantType
	State       string
	// redirectURIIsTrusted is set only when RedirectURI is registered for the
	// client.
	redirectURIIsTrusted bool
	wrapped              error
}

func (err Error) Error() string {
	if err.wrapped == nil {
		return fmt.Sprintf("%s %s", err.Kind.Code(), err.Description)
	}
	return fmt.Sprintf("%s %s: %v", err.Kind.Code(), err.Description, err.wrapped)
}

func (err Error) Unwrap() error {
	return err.wrapped
}

func (err Error) Code() goidc.ErrorCode {
	return err.Kind.Code()
}

// IsRedirectable reports whether the error may be sent to the client by
// redirecting to RedirectURI. Client and redirect URI errors never are, since
// there is no trusted destination to send them to.
func (err Error) IsRedirectable() bool {
	switch err.Kind {
	case KindInvalidClient, KindMissingRedirectURI, KindInvalidRedirectURI:
		return false
	default:
		return err.redirectURIIsTrusted
	}
}

// OIDCError converts err to the error written to the response body when it is
// rendered locally.
func (err Error) OIDCError() goidc.Error {
	return goidc.WrapError(err.Code(), err.Description, err.wrapped)
}

func newError(
	kind ErrorKind,
	desc string,
	req goidc.AuthorizationRequest,
	flow Flow,
	wrapped error,
) Error {
	return Error{
		Kind:        kind,
		Description: desc,
		RedirectURI: req.RedirectURI,
		Grant:       flow.Grant,
		State:       req.State,
		wrapped:     wrapped,
	}
}

// newRedirectionError creates an error that will be redirected to the client
// if the redirect URI of the request is registered for it.
func newRedirectionError(
	kind ErrorKind,
	desc string,
	req goidc.AuthorizationRequest,
	flow Flow,
	client *goidc.Client,
) Error {
	err := newError(kind, desc, req, flow, nil)
	err.redirectURIIsTrusted = client.IsRedirectURIAllowed(req.RedirectURI)
	return err
}

// newServerError hides the cause of failures happening after validation
// behind a generic server_error.
func newServerError(
	req goidc.AuthorizationRequest,
	flow Flow,
	client *goidc.Client,
	cause error,
) Error {
	err := newRedirectionError(KindServerError, descServerError, req, flow, client)
	err.wrapped = cause
	return err
}
