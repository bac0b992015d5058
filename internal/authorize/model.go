package authorize

import (
	"net/http"

	"github.com/kaoden/goidc-authorize/internal/strutil"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// newRequest reads the authorization parameters from the query of GET
// requests and from the form body of POST requests.
func newRequest(r *http.Request) goidc.AuthorizationRequest {
	params := r.URL.Query()
	if r.Method == http.MethodPost {
		// A malformed body leaves the form empty and the request is then
		// rejected during validation.
		_ = r.ParseForm()
		params = r.PostForm
	}

	return goidc.AuthorizationRequest{
		ClientID:     params.Get(goidc.ParamClientID),
		RedirectURI:  params.Get(goidc.ParamRedirectURI),
		ResponseType: goidc.ResponseType(params.Get(goidc.ParamResponseType)),
		Scopes:       strutil.SplitWithSpaces(params.Get(goidc.ParamScope)),
		State:        params.Get(goidc.ParamState),
		Nonce:        params.Get(goidc.ParamNonce),
	}
}

func consentChallenge(r *http.Request) string {
	return r.PostFormValue(goidc.ParamConsentChallenge)
}

// isConsentGranted reports whether the consent page was submitted with the
// user's approval.
func isConsentGranted(r *http.Request) bool {
	return r.PostFormValue(paramAllow) == consentAllowValue
}
