package authorize

import (
	"fmt"
	"log/slog"

	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/internal/token"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// Mint issues and stores the credential of a validated request. Any failure,
// be it in the generation of random values, the storage or the signing of the
// ID token, is reported as a server_error [Error] wrapping the cause.
func Mint(
	ctx oidc.Context,
	req goidc.AuthorizationRequest,
	client *goidc.Client,
	user goidc.User,
) (
	goidc.GrantOutcome,
	error,
) {
	flow := Classify(req.ResponseType, req.Scopes)
	outcome, err := mint(ctx, req, flow, client, user)
	if err != nil {
		ctx.Logger.Error("could not mint the credential",
			slog.String("client_id", client.ID), slog.String("error", err.Error()))
		return goidc.GrantOutcome{}, newServerError(req, flow, client, err)
	}

	return outcome, nil
}

func mint(
	ctx oidc.Context,
	req goidc.AuthorizationRequest,
	flow Flow,
	client *goidc.Client,
	user goidc.User,
) (
	goidc.GrantOutcome,
	error,
) {
	switch flow.Grant {
	case goidc.GrantAuthorizationCode:
		code, err := token.MakeAuthorizationCode(ctx, user, client, req.Scopes, req.Nonce, flow.IsAuthentication)
		if err != nil {
			return goidc.GrantOutcome{}, err
		}
		return goidc.GrantOutcome{Code: code}, nil
	case goidc.GrantImplicit:
		issuance, err := mintImplicit(ctx, req, flow, client, user)
		if err != nil {
			return goidc.GrantOutcome{}, err
		}
		return goidc.GrantOutcome{Token: issuance}, nil
	default:
		return goidc.GrantOutcome{}, fmt.Errorf("no grant for response type %q", req.ResponseType)
	}
}

// mintImplicit always stores an access token, even for the "id_token"
// response type, but only hands it to the client when the response type asks
// for it.
func mintImplicit(
	ctx oidc.Context,
	req goidc.AuthorizationRequest,
	flow Flow,
	client *goidc.Client,
	user goidc.User,
) (
	*goidc.TokenIssuance,
	error,
) {
	var idTokenClaims goidc.IDTokenClaims
	if flow.IsAuthentication {
		var err error
		idTokenClaims, err = token.MakeIDTokenClaims(ctx, user, client, req.Nonce)
		if err != nil {
			return nil, err
		}
	}

	accessToken, err := token.MakeAccessToken(ctx, user, client, req.Scopes, idTokenClaims)
	if err != nil {
		return nil, err
	}

	issuance := &goidc.TokenIssuance{
		RefreshToken:    accessToken.RefreshToken,
		AccessTokenHash: accessToken.AccessTokenHash,
		TokenType:       goidc.TokenTypeBearer,
		ExpiresInSecs:   ctx.TokenLifetimeSecs,
		ExpiresAt:       accessToken.ExpiresAt,
	}

	if req.ResponseType.ReturnsAccessToken() {
		issuance.AccessToken = accessToken.Value
	}

	if !flow.IsAuthentication || !req.ResponseType.Contains(goidc.ResponseTypeIDToken) {
		return issuance, nil
	}

	claims := idTokenClaims
	if req.ResponseType == goidc.ResponseTypeIDTokenAndToken {
		claims = idTokenClaims.Clone()
		claims[goidc.ClaimAccessTokenHash] = accessToken.AccessTokenHash
	}

	idToken, err := token.SignIDToken(ctx, claims)
	if err != nil {
		return nil, err
	}
	issuance.IDToken = idToken

	return issuance, nil
}
