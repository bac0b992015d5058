package authorize

const (
	descInvalidClient           = "The client identifier (client_id) is missing or invalid."
	descRedirectURI             = "The request fails due to a missing, invalid, or mismatching redirection URI (redirect_uri)."
	descUnsupportedResponseType = "The authorization server does not support obtaining an authorization code using this method."
	descNonceRequired           = "The nonce parameter is required for implicit authentication requests."
	descResponseTypeMismatch    = "The response_type does not match the one registered for the client."
	descAccessDenied            = "The resource owner or authorization server denied the request."
	descConsentChallenge        = "The consent submission is missing a valid consent challenge."
	descServerError             = "The authorization server encountered an unexpected condition that prevented it from fulfilling the request."
)

const (
	outcomeIssued = "issued"
	// consentAllowValue is the value of the "allow" form field posted by the
	// consent page when the user approves the request.
	consentAllowValue = "Accept"
)

const paramAllow = "allow"

const consentChallengeLifetimeSecs = 600
