package goidc

import (
	"net/url"
	"slices"
)

// Client is a registered client application.
// It is read only from the authorization endpoint's point of view.
type Client struct {
	ID   string `json:"client_id" bson:"_id"`
	Name string `json:"client_name,omitempty" bson:"client_name,omitempty"`
	// ResponseType is the single response type the client was registered
	// for. OpenID authentication requests must use exactly this value.
	ResponseType ResponseType `json:"response_type" bson:"response_type"`
	// RedirectURIs holds the exact redirect URIs the client may use.
	RedirectURIs []string `json:"redirect_uris" bson:"redirect_uris"`
	// RequireConsent indicates whether the user must be asked for consent
	// before credentials are issued to this client.
	RequireConsent bool `json:"require_consent,omitempty" bson:"require_consent,omitempty"`
}

// IsRedirectURIAllowed reports whether redirectURI matches one of the
// registered redirect URIs once its query component is removed.
// The comparison is exact, so no prefix, trailing slash or fragment
// difference is tolerated.
func (c *Client) IsRedirectURIAllowed(redirectURI string) bool {
	if redirectURI == "" {
		return false
	}

	cleanURI, ok := withoutQuery(redirectURI)
	if !ok {
		return false
	}

	return slices.Contains(c.RedirectURIs, cleanURI)
}

func withoutQuery(rawURI string) (string, bool) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", false
	}

	u.RawQuery = ""
	u.ForceQuery = false
	return u.String(), true
}
