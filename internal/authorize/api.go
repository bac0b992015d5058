package authorize

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kaoden/goidc-authorize/internal/oidc"
)

// Handler serves the authorization endpoint.
//
// GET requests carry a new authorization request. Users that are not
// authenticated are shown the login page, and clients requiring consent have
// the consent page rendered unless the user already approved the requested
// scopes. POST requests are the submission of the consent page: the request is
// validated again, the consent challenge must have been issued for the same
// user and request, and the credential is issued only if the user approved it.
func Handler(config *oidc.Configuration) http.HandlerFunc {
	return oidc.Handler(config, handle)
}

func handle(ctx oidc.Context) {
	req := newRequest(ctx.Request)

	client, err := Validate(ctx, req)
	if err != nil {
		handleError(ctx, err)
		return
	}

	user, ok := ctx.User()
	if !ok {
		if err := ctx.RenderLogin(req); err != nil {
			handleError(ctx, err)
		}
		return
	}

	flow := Classify(req.ResponseType, req.Scopes)
	switch {
	case ctx.Request.Method == http.MethodPost:
		if err := verifyConsentChallenge(ctx, *user, client, req, consentChallenge(ctx.Request)); err != nil {
			ctx.Logger.Debug("the consent submission was rejected",
				slog.String("client_id", client.ID), slog.String("error", err.Error()))
			handleError(ctx, newRedirectionError(KindInvalidRequest, descConsentChallenge, req, flow, client))
			return
		}
		if !isConsentGranted(ctx.Request) {
			ctx.Logger.Debug("the user denied the request", slog.String("client_id", client.ID))
			handleError(ctx, newRedirectionError(KindAccessDenied, descAccessDenied, req, flow, client))
			return
		}
		if err := RecordConsent(ctx, *user, client, req.Scopes); err != nil {
			handleError(ctx, newServerError(req, flow, client, err))
			return
		}
	case client.RequireConsent && !HasConsent(ctx, *user, client, req.Scopes):
		challenge, err := newConsentChallenge(ctx, *user, client, req)
		if err != nil {
			handleError(ctx, newServerError(req, flow, client, err))
			return
		}
		if err := ctx.RenderConsent(client, req, challenge); err != nil {
			handleError(ctx, err)
		}
		return
	}

	redirectURI, err := issue(ctx, req, client, *user)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Redirect(redirectURI)
}

// handleError redirects the error to the client when it is safe to do so and
// renders it locally otherwise.
func handleError(ctx oidc.Context, err error) {
	var authzErr Error
	if !errors.As(err, &authzErr) {
		ctx.Logger.Debug("could not complete the authorization request", slog.String("error", err.Error()))
		renderError(ctx, err)
		return
	}

	recordError(ctx, authzErr)
	if !authzErr.IsRedirectable() {
		renderError(ctx, authzErr.OIDCError())
		return
	}

	redirectURI, redirectErr := ErrorRedirect(authzErr)
	if redirectErr != nil {
		renderError(ctx, authzErr.OIDCError())
		return
	}
	ctx.Redirect(redirectURI)
}

func renderError(ctx oidc.Context, err error) {
	if err := ctx.RenderError(err); err != nil {
		ctx.WriteError(err)
	}
}
