// Package token mints the credentials issued by the authorization endpoint.
package token

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/google/uuid"
	"github.com/kaoden/goidc-authorize/internal/hashutil"
	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/internal/strutil"
	"github.com/kaoden/goidc-authorize/internal/timeutil"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// MakeAuthorizationCode creates and saves an authorization code bound to the
// user, client, scopes and nonce of the request.
func MakeAuthorizationCode(
	ctx oidc.Context,
	user goidc.User,
	client *goidc.Client,
	scopes []string,
	nonce string,
	isAuthentication bool,
) (
	*goidc.AuthorizationCode,
	error,
) {
	code, err := strutil.RandomHex(authorizationCodeByteLength)
	if err != nil {
		return nil, fmt.Errorf("could not generate the authorization code: %w", err)
	}

	now := ctx.Now()
	authzCode := &goidc.AuthorizationCode{
		Code:             code,
		UserID:           user.ID,
		ClientID:         client.ID,
		Scopes:           scopes,
		Nonce:            nonce,
		IsAuthentication: isAuthentication,
		CreatedAt:        now,
		ExpiresAt:        now.Add(time.Duration(ctx.AuthorizationCodeLifetimeSecs) * time.Second),
	}

	if err := ctx.SaveAuthorizationCode(authzCode); err != nil {
		return nil, fmt.Errorf("could not save the authorization code: %w", err)
	}

	return authzCode, nil
}

// MakeIDTokenClaims builds the claims of an ID token for the user and runs
// them through the configured processors.
func MakeIDTokenClaims(
	ctx oidc.Context,
	user goidc.User,
	client *goidc.Client,
	nonce string,
) (
	goidc.IDTokenClaims,
	error,
) {
	now := ctx.Now()
	claims := goidc.IDTokenClaims{
		goidc.ClaimIssuer:             ctx.Issuer,
		goidc.ClaimSubject:            ctx.Subject(user),
		goidc.ClaimAudience:           client.ID,
		goidc.ClaimIssuedAt:           timeutil.Timestamp(now),
		goidc.ClaimExpiry:             timeutil.Timestamp(now) + int64(ctx.IDTokenLifetimeSecs),
		goidc.ClaimAuthenticationTime: timeutil.Timestamp(user.AuthTime()),
	}

	if nonce != "" {
		claims[goidc.ClaimNonce] = nonce
	}

	claims, err := ctx.ProcessIDToken(claims, user)
	if err != nil {
		return nil, fmt.Errorf("could not process the id token claims: %w", err)
	}

	return claims, nil
}

// MakeAccessToken creates and saves an access token with its refresh token.
// The at_hash is computed over the exact access token value returned. When
// idTokenClaims is not empty, the record keeps a copy of them including the
// at_hash.
func MakeAccessToken(
	ctx oidc.Context,
	user goidc.User,
	client *goidc.Client,
	scopes []string,
	idTokenClaims goidc.IDTokenClaims,
) (
	*goidc.AccessToken,
	error,
) {
	accessToken, err := strutil.RandomHex(accessTokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("could not generate the access token: %w", err)
	}

	refreshToken, err := strutil.RandomHex(refreshTokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("could not generate the refresh token: %w", err)
	}

	atHash := AccessTokenHash(ctx, accessToken)
	var storedClaims goidc.IDTokenClaims
	if len(idTokenClaims) != 0 {
		storedClaims = idTokenClaims.Clone()
		storedClaims[goidc.ClaimAccessTokenHash] = atHash
	}

	now := ctx.Now()
	token := &goidc.AccessToken{
		ID:              uuid.NewString(),
		Value:           accessToken,
		RefreshToken:    refreshToken,
		UserID:          user.ID,
		ClientID:        client.ID,
		Scopes:          scopes,
		IDTokenClaims:   storedClaims,
		AccessTokenHash: atHash,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(ctx.TokenLifetimeSecs) * time.Second),
	}

	if err := ctx.SaveAccessToken(token); err != nil {
		return nil, fmt.Errorf("could not save the access token: %w", err)
	}

	return token, nil
}

// AccessTokenHash returns the at_hash of accessToken for the algorithm
// ID tokens are signed with.
func AccessTokenHash(ctx oidc.Context, accessToken string) string {
	alg := jose.RS256
	if ctx.Signer != nil && ctx.Signer.Algorithm() != "" {
		alg = jose.SignatureAlgorithm(ctx.Signer.Algorithm())
	}
	return hashutil.HalfHash(accessToken, alg)
}

// SignIDToken serializes the claims into a signed JWT.
func SignIDToken(ctx oidc.Context, claims goidc.IDTokenClaims) (string, error) {
	idToken, err := ctx.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("could not sign the id token: %w", err)
	}
	return idToken, nil
}
