// Package joseutil signs ID tokens with the keys of the provider.
package joseutil

import (
	"context"
	"fmt"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

const KeyUsageSignature = "sig"

func Sign(claims any, signer jose.SigningKey, opts *jose.SignerOptions) (string, error) {
	if opts == nil {
		opts = &jose.SignerOptions{}
	}
	if _, ok := opts.ExtraHeaders[jose.HeaderType]; !ok {
		opts = opts.WithType("JWT")
	}

	joseSigner, err := jose.NewSigner(signer, opts)
	if err != nil {
		return "", err
	}

	jws, err := jwt.Signed(joseSigner).Claims(claims).Serialize()
	if err != nil {
		return "", err
	}

	return jws, nil
}

// JWKSFunc returns the private keys of the provider. It is called on every
// signature so keys can be rotated without restarting.
type JWKSFunc func(ctx context.Context) (jose.JSONWebKeySet, error)

// KeySetSigner implements [goidc.Signer] over a set of private JSON web keys.
// The first private signing key whose algorithm matches Alg is used.
type KeySetSigner struct {
	JWKSFunc JWKSFunc
	Alg      jose.SignatureAlgorithm
}

// NewKeySetSigner returns a signer over a fixed key set.
func NewKeySetSigner(jwks jose.JSONWebKeySet, alg jose.SignatureAlgorithm) KeySetSigner {
	return KeySetSigner{
		JWKSFunc: func(context.Context) (jose.JSONWebKeySet, error) {
			return jwks, nil
		},
		Alg: alg,
	}
}

func (s KeySetSigner) Algorithm() string {
	return string(s.Alg)
}

func (s KeySetSigner) Sign(ctx context.Context, claims goidc.IDTokenClaims) (string, error) {
	jwks, err := s.JWKSFunc(ctx)
	if err != nil {
		return "", fmt.Errorf("could not load the signing keys: %w", err)
	}

	jwk, ok := SigningKey(jwks, s.Alg)
	if !ok {
		return "", goidc.ErrNoSigningKey
	}

	return Sign(
		map[string]any(claims),
		jose.SigningKey{Algorithm: s.Alg, Key: jwk.Key},
		(&jose.SignerOptions{}).WithHeader("kid", jwk.KeyID),
	)
}

// SigningKey returns the first private key in jwks meant for signatures with
// alg. Keys without an explicit usage or algorithm are accepted.
func SigningKey(jwks jose.JSONWebKeySet, alg jose.SignatureAlgorithm) (jose.JSONWebKey, bool) {
	for i := range jwks.Keys {
		jwk := jwks.Keys[i]
		if jwk.IsPublic() {
			continue
		}
		if jwk.Use != "" && jwk.Use != KeyUsageSignature {
			continue
		}
		if jwk.Algorithm != "" && jwk.Algorithm != string(alg) {
			continue
		}
		return jwk, true
	}

	return jose.JSONWebKey{}, false
}
