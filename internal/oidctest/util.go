// Package oidctest contains fixtures shared by the tests of the authorization
// endpoint.
package oidctest

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/kaoden/goidc-authorize/internal/joseutil"
	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/internal/storage"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/stretchr/testify/require"
)

const (
	Issuer            string = "https://example.com"
	KeyID             string = "test_rsa256_key"
	ClientID          string = "test_client_id"
	ClientRedirectURI string = "https://client.example/cb"
	UserID            string = "random_user_id"
	// ConsentChallengeKey is the 32 bytes HMAC key of consent challenges.
	ConsentChallengeKey string = "random_consent_challenge_key_32b"
)

var (
	// Now is the fixed time returned by the contexts created with NewContext.
	Now              = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	ServerPrivateJWK = PrivateRS256JWK(nil, KeyID)
)

func NewClient(_ *testing.T, responseType goidc.ResponseType) *goidc.Client {
	return &goidc.Client{
		ID:           ClientID,
		Name:         "Test Client",
		ResponseType: responseType,
		RedirectURIs: []string{ClientRedirectURI},
	}
}

func NewUser(_ *testing.T) goidc.User {
	return goidc.User{
		ID:          UserID,
		Username:    "random_username",
		Email:       "user@example.com",
		LastLoginAt: Now.Add(-5 * time.Minute),
		JoinedAt:    Now.Add(-24 * time.Hour),
	}
}

// NewContext returns a context backed by in memory storages, with the client
// returned by NewClient registered for responseType.
func NewContext(t *testing.T, responseType goidc.ResponseType) oidc.Context {
	config := &oidc.Configuration{
		ClientManager:                 storage.NewClientManager(),
		GrantManager:                  storage.NewGrantManager(),
		ConsentManager:                storage.NewConsentManager(),
		Signer:                        joseutil.NewKeySetSigner(jose.JSONWebKeySet{Keys: []jose.JSONWebKey{ServerPrivateJWK}}, jose.RS256),
		Issuer:                        Issuer,
		AuthorizationCodeLifetimeSecs: goidc.DefaultAuthorizationCodeLifetimeSecs,
		IDTokenLifetimeSecs:           goidc.DefaultIDTokenLifetimeSecs,
		TokenLifetimeSecs:             goidc.DefaultTokenLifetimeSecs,
		ConsentLifetimeSecs:           goidc.DefaultConsentLifetimeSecs,
		ConsentChallengeKey:           []byte(ConsentChallengeKey),
		Logger:                        slog.New(slog.NewTextHandler(io.Discard, nil)),
		NowFunc: func() time.Time {
			return Now
		},
	}

	if err := config.ClientManager.(*storage.ClientManager).Save(context.Background(), NewClient(t, responseType)); err != nil {
		t.Fatalf("could not register the test client: %v", err)
	}

	return oidc.NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/authorize", nil), config)
}

func Grants(_ *testing.T, ctx oidc.Context) *storage.GrantManager {
	return ctx.GrantManager.(*storage.GrantManager)
}

func Consents(_ *testing.T, ctx oidc.Context) *storage.ConsentManager {
	return ctx.ConsentManager.(*storage.ConsentManager)
}

func PrivateRS256JWK(_ *testing.T, keyID string) jose.JSONWebKey {
	privateKey, _ := rsa.GenerateKey(rand.Reader, 2048)
	return jose.JSONWebKey{
		Key:       privateKey,
		KeyID:     keyID,
		Algorithm: string(jose.RS256),
		Use:       joseutil.KeyUsageSignature,
	}
}

// SafeClaims verifies the signature of jws and returns its claims.
func SafeClaims(t *testing.T, jws string, privateJWK jose.JSONWebKey) map[string]any {
	parsedToken, err := jwt.ParseSigned(jws, []jose.SignatureAlgorithm{jose.SignatureAlgorithm(privateJWK.Algorithm)})
	require.Nil(t, err, "invalid JWT")

	var claims map[string]any
	err = parsedToken.Claims(privateJWK.Public().Key, &claims)
	require.Nil(t, err, "could not read claims")

	return claims
}
