package authorize

import (
	"log/slog"

	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// Validate checks the authorization request against the registered client and
// returns it.
// The checks run in a fixed order and the first failure is returned as an
// [Error]:
//  1. the client must exist;
//  2. authentication requests must have a redirect URI;
//  3. the response type must map to a supported grant;
//  4. implicit authentication requests must have a nonce;
//  5. authentication requests must use the response type of the client;
//  6. the redirect URI must be registered for the client.
func Validate(ctx oidc.Context, req goidc.AuthorizationRequest) (*goidc.Client, error) {
	flow := Classify(req.ResponseType, req.Scopes)

	client, err := ctx.Client(req.ClientID)
	if err != nil {
		ctx.Logger.Debug("invalid client identifier",
			slog.String("client_id", req.ClientID), slog.String("error", err.Error()))
		return nil, newError(KindInvalidClient, descInvalidClient, req, flow, err)
	}

	if flow.IsAuthentication && req.RedirectURI == "" {
		ctx.Logger.Debug("missing redirect uri", slog.String("client_id", client.ID))
		return nil, newError(KindMissingRedirectURI, descRedirectURI, req, flow, nil)
	}

	if flow.Grant == goidc.GrantUnsupported {
		ctx.Logger.Debug("unsupported response type",
			slog.String("client_id", client.ID), slog.String("response_type", string(req.ResponseType)))
		return nil, newRedirectionError(KindUnsupportedResponseType, descUnsupportedResponseType, req, flow, client)
	}

	if flow.IsAuthentication && flow.Grant == goidc.GrantImplicit && req.Nonce == "" {
		ctx.Logger.Debug("missing nonce for implicit authentication", slog.String("client_id", client.ID))
		return nil, newRedirectionError(KindInvalidRequest, descNonceRequired, req, flow, client)
	}

	if flow.IsAuthentication && req.ResponseType != client.ResponseType {
		ctx.Logger.Debug("response type does not match the client",
			slog.String("client_id", client.ID), slog.String("response_type", string(req.ResponseType)))
		return nil, newRedirectionError(KindInvalidRequest, descResponseTypeMismatch, req, flow, client)
	}

	if !client.IsRedirectURIAllowed(req.RedirectURI) {
		ctx.Logger.Debug("redirect uri not registered for the client",
			slog.String("client_id", client.ID), slog.String("redirect_uri", req.RedirectURI))
		return nil, newError(KindInvalidRedirectURI, descRedirectURI, req, flow, nil)
	}

	return client, nil
}
