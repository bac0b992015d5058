package authorize

import (
	"errors"

	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// Authorize validates the request and issues the credential for the user,
// assuming the user already approved it. It returns the URI the user agent
// must be redirected to, or an [Error].
func Authorize(ctx oidc.Context, req goidc.AuthorizationRequest, user goidc.User) (string, error) {
	client, err := Validate(ctx, req)
	if err != nil {
		recordError(ctx, err)
		return "", err
	}

	redirectURI, err := issue(ctx, req, client, user)
	if err != nil {
		recordError(ctx, err)
		return "", err
	}

	return redirectURI, nil
}

func issue(
	ctx oidc.Context,
	req goidc.AuthorizationRequest,
	client *goidc.Client,
	user goidc.User,
) (
	string,
	error,
) {
	outcome, err := Mint(ctx, req, client, user)
	if err != nil {
		return "", err
	}

	flow := Classify(req.ResponseType, req.Scopes)
	redirectURI, err := BuildRedirect(req.RedirectURI, outcome, req.State)
	if err != nil {
		return "", newServerError(req, flow, client, err)
	}

	ctx.RecordOutcome(flow.Grant, outcomeIssued)
	return redirectURI, nil
}

func recordError(ctx oidc.Context, err error) {
	var authzErr Error
	if !errors.As(err, &authzErr) {
		ctx.RecordOutcome(goidc.GrantUnsupported, string(KindServerError))
		return
	}
	ctx.RecordOutcome(authzErr.Grant, string(authzErr.Kind))
}
