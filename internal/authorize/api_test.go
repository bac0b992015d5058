package authorize_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kaoden/goidc-authorize/internal/authorize"
	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/internal/oidctest"
	"github.com/kaoden/goidc-authorize/internal/storage"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_LoginRequired(t *testing.T) {
	// Given.
	config := oidctest.NewContext(t, goidc.ResponseTypeCode).Configuration
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, newRequest(goidc.ResponseTypeCode, "openid")))

	// Then.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, goidc.ErrorCodeLoginRequired, decodeError(t, w).Code)
}

func TestHandler_RendersLogin(t *testing.T) {
	// Given.
	config := oidctest.NewContext(t, goidc.ResponseTypeCode).Configuration
	var rendered goidc.AuthorizationRequest
	config.RenderLoginFunc = func(w http.ResponseWriter, _ *http.Request, req goidc.AuthorizationRequest) error {
		rendered = req
		w.WriteHeader(http.StatusOK)
		return nil
	}
	req := newRequest(goidc.ResponseTypeCode, "openid")
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, req))

	// Then.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, req, rendered)
}

func TestHandler_IssuesCode(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, newRequest(goidc.ResponseTypeCode, "openid")))

	// Then.
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	assert.Regexp(t, hexCode, location.Query().Get("code"))
	assert.Equal(t, "random_state", location.Query().Get("state"))
}

func TestHandler_InvalidClientIsRenderedLocally(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	req := newRequest(goidc.ResponseTypeCode, "openid")
	req.ClientID = "unknown"
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, req))

	// Then.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, goidc.ErrorCodeInvalidClient, decodeError(t, w).Code)
}

func TestHandler_UnregisteredRedirectURIIsRenderedLocally(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	req := newRequest(goidc.ResponseTypeCode, "openid")
	req.RedirectURI = "https://attacker.example/cb"
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, req))

	// Then.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, goidc.ErrorCodeInvalidRequest, decodeError(t, w).Code)
}

func TestHandler_RedirectsErrors(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, newRequest("unknown", "email")))

	// Then.
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	assert.Equal(t, "unsupported_response_type", location.Query().Get("error"))
	assert.Equal(t, "random_state", location.Query().Get("state"))
}

func TestHandler_RendersConsent(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	requireConsent(t, config)
	consentRendered := false
	var renderedChallenge string
	config.RenderConsentFunc = func(w http.ResponseWriter, _ *http.Request, client *goidc.Client, _ goidc.AuthorizationRequest, challenge string) error {
		consentRendered = client.ID == oidctest.ClientID
		renderedChallenge = challenge
		w.WriteHeader(http.StatusOK)
		return nil
	}
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, newRequest(goidc.ResponseTypeCode, "openid")))

	// Then.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, consentRendered)
	assert.NotEmpty(t, renderedChallenge)
	assert.Empty(t, config.GrantManager.(*storage.GrantManager).Codes)
}

func TestHandler_SkipsConsentWhenAlreadyGiven(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	requireConsent(t, config)
	ctx := oidc.NewContext(nil, nil, config)
	require.Nil(t, authorize.RecordConsent(ctx, oidctest.NewUser(t), oidctest.NewClient(t, goidc.ResponseTypeCode), []string{"openid", "email"}))
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newGetRequest(t, newRequest(goidc.ResponseTypeCode, "openid")))

	// Then.
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	assert.NotEmpty(t, location.Query().Get("code"))
}

func TestHandler_ConsentAccepted(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	requireConsent(t, config)
	req := newRequest(goidc.ResponseTypeCode, "openid", "email")
	form := requestForm(req)
	form.Set(goidc.ParamConsentChallenge, renderConsent(t, config, req))
	form.Set("allow", "Accept")
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newPostRequest(t, form))

	// Then.
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	assert.NotEmpty(t, location.Query().Get("code"))

	ctx := oidc.NewContext(nil, nil, config)
	assert.True(t, authorize.HasConsent(ctx, oidctest.NewUser(t), oidctest.NewClient(t, goidc.ResponseTypeCode), []string{"email"}))
}

func TestHandler_ConsentDenied(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	requireConsent(t, config)
	req := newRequest(goidc.ResponseTypeCode, "openid")
	form := requestForm(req)
	form.Set(goidc.ParamConsentChallenge, renderConsent(t, config, req))
	form.Set("allow", "Decline")
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newPostRequest(t, form))

	// Then.
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	assert.Equal(t, "access_denied", location.Query().Get("error"))
	assert.Equal(t, "random_state", location.Query().Get("state"))
	assert.Empty(t, location.Query().Get("code"))
}

func TestHandler_ConsentWithoutChallengeIsRejected(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	requireConsent(t, config)
	form := requestForm(newRequest(goidc.ResponseTypeCode, "openid", "email"))
	form.Set("allow", "Accept")
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newPostRequest(t, form))

	// Then.
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	assert.Equal(t, "invalid_request", location.Query().Get("error"))
	assert.Empty(t, location.Query().Get("code"))
	assert.Empty(t, config.GrantManager.(*storage.GrantManager).Codes)

	ctx := oidc.NewContext(nil, nil, config)
	assert.False(t, authorize.HasConsent(ctx, oidctest.NewUser(t), oidctest.NewClient(t, goidc.ResponseTypeCode), []string{"email"}))
}

func TestHandler_ConsentWithInvalidChallengeIsRejected(t *testing.T) {
	req := newRequest(goidc.ResponseTypeCode, "openid")

	testCases := []struct {
		name      string
		challenge func(t *testing.T, config *oidc.Configuration) string
		form      func(form url.Values)
	}{
		{
			name: "malformed",
			challenge: func(*testing.T, *oidc.Configuration) string {
				return "not_a_challenge"
			},
		},
		{
			name: "signed_with_another_key",
			challenge: func(t *testing.T, config *oidc.Configuration) string {
				other := *config
				other.ConsentChallengeKey = []byte("another_consent_challenge_key_32")
				return renderConsent(t, &other, req)
			},
		},
		{
			name: "issued_for_another_user",
			challenge: func(t *testing.T, config *oidc.Configuration) string {
				other := *config
				other.UserFunc = func(*http.Request) (*goidc.User, bool) {
					return &goidc.User{ID: "another_user_id"}, true
				}
				return renderConsent(t, &other, req)
			},
		},
		{
			name: "issued_for_other_scopes",
			challenge: func(t *testing.T, config *oidc.Configuration) string {
				return renderConsent(t, config, req)
			},
			form: func(form url.Values) {
				form.Set(goidc.ParamScope, "openid email")
			},
		},
		{
			name: "expired",
			challenge: func(t *testing.T, config *oidc.Configuration) string {
				challenge := renderConsent(t, config, req)
				config.NowFunc = func() time.Time {
					return oidctest.Now.Add(time.Hour)
				}
				return challenge
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			// Given.
			config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
			requireConsent(t, config)
			form := requestForm(req)
			form.Set(goidc.ParamConsentChallenge, testCase.challenge(t, config))
			form.Set("allow", "Accept")
			if testCase.form != nil {
				testCase.form(form)
			}
			w := httptest.NewRecorder()

			// When.
			authorize.Handler(config).ServeHTTP(w, newPostRequest(t, form))

			// Then.
			require.Equal(t, http.StatusFound, w.Code)
			location, err := url.Parse(w.Header().Get("Location"))
			require.Nil(t, err)
			assert.Equal(t, "invalid_request", location.Query().Get("error"))
			assert.Empty(t, location.Query().Get("code"))
		})
	}
}

func TestHandler_ConsentChallengeIgnoresScopeOrder(t *testing.T) {
	// Given.
	config := newAuthenticatedConfig(t, goidc.ResponseTypeCode)
	requireConsent(t, config)
	form := requestForm(newRequest(goidc.ResponseTypeCode, "email", "openid"))
	form.Set(goidc.ParamConsentChallenge, renderConsent(t, config, newRequest(goidc.ResponseTypeCode, "openid", "email")))
	form.Set("allow", "Accept")
	w := httptest.NewRecorder()

	// When.
	authorize.Handler(config).ServeHTTP(w, newPostRequest(t, form))

	// Then.
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	assert.NotEmpty(t, location.Query().Get("code"))
}

func TestNewRequest(t *testing.T) {
	// Given.
	form := requestForm(newRequest(goidc.ResponseTypeIDToken, "openid", "email"))

	// When.
	fromQuery := authorize.NewRequest(newGetRequest(t, newRequest(goidc.ResponseTypeIDToken, "openid", "email")))
	fromForm := authorize.NewRequest(newPostRequest(t, form))

	// Then.
	want := newRequest(goidc.ResponseTypeIDToken, "openid", "email")
	assert.Equal(t, want, fromQuery)
	assert.Equal(t, want, fromForm)
}

func TestNewRequest_IgnoresQueryOfPostRequests(t *testing.T) {
	// Given.
	r := httptest.NewRequest(http.MethodPost, "/authorize?client_id=from_query", strings.NewReader("client_id=from_form"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// When.
	req := authorize.NewRequest(r)

	// Then.
	assert.Equal(t, "from_form", req.ClientID)
	assert.Empty(t, req.Scopes)
}

func newAuthenticatedConfig(t *testing.T, responseType goidc.ResponseType) *oidc.Configuration {
	t.Helper()

	config := oidctest.NewContext(t, responseType).Configuration
	user := oidctest.NewUser(t)
	config.UserFunc = func(*http.Request) (*goidc.User, bool) {
		return &user, true
	}
	return config
}

func requireConsent(t *testing.T, config *oidc.Configuration) {
	t.Helper()

	client, err := config.ClientManager.Client(context.Background(), oidctest.ClientID)
	require.Nil(t, err)
	client.RequireConsent = true
}

// renderConsent requests the consent page for req and returns the challenge
// handed to it.
func renderConsent(t *testing.T, config *oidc.Configuration, req goidc.AuthorizationRequest) string {
	t.Helper()

	var challenge string
	renderConfig := *config
	renderConfig.RenderConsentFunc = func(w http.ResponseWriter, _ *http.Request, _ *goidc.Client, _ goidc.AuthorizationRequest, c string) error {
		challenge = c
		w.WriteHeader(http.StatusOK)
		return nil
	}

	w := httptest.NewRecorder()
	authorize.Handler(&renderConfig).ServeHTTP(w, newGetRequest(t, req))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, challenge)
	return challenge
}

func requestForm(req goidc.AuthorizationRequest) url.Values {
	return url.Values{
		goidc.ParamClientID:     {req.ClientID},
		goidc.ParamRedirectURI:  {req.RedirectURI},
		goidc.ParamResponseType: {string(req.ResponseType)},
		goidc.ParamScope:        {strings.Join(req.Scopes, " ")},
		goidc.ParamState:        {req.State},
		goidc.ParamNonce:        {req.Nonce},
	}
}

func newGetRequest(t *testing.T, req goidc.AuthorizationRequest) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, goidc.EndpointAuthorize+"?"+requestForm(req).Encode(), nil)
}

func newPostRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, goidc.EndpointAuthorize, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) goidc.Error {
	t.Helper()

	var oidcErr goidc.Error
	require.Nil(t, json.NewDecoder(w.Body).Decode(&oidcErr))
	return oidcErr
}
