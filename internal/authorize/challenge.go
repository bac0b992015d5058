package authorize

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/kaoden/goidc-authorize/internal/joseutil"
	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

const consentChallengeAlg = jose.HS256

// consentChallengeClaims bind a consent page to the user it was shown to and
// to the authorization request it was rendered for.
type consentChallengeClaims struct {
	jwt.Claims
	RedirectURI  string             `json:"redirect_uri"`
	ResponseType goidc.ResponseType `json:"response_type"`
	Scope        string             `json:"scope"`
	State        string             `json:"state,omitempty"`
	Nonce        string             `json:"nonce,omitempty"`
}

func newConsentChallenge(
	ctx oidc.Context,
	user goidc.User,
	client *goidc.Client,
	req goidc.AuthorizationRequest,
) (
	string,
	error,
) {
	now := ctx.Now()
	claims := consentChallengeClaims{
		Claims: jwt.Claims{
			Issuer:   ctx.Issuer,
			Subject:  user.ID,
			Audience: jwt.Audience{client.ID},
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(consentChallengeLifetimeSecs * time.Second)),
		},
		RedirectURI:  req.RedirectURI,
		ResponseType: req.ResponseType,
		Scope:        scopeSet(req.Scopes),
		State:        req.State,
		Nonce:        req.Nonce,
	}

	challenge, err := joseutil.Sign(
		claims,
		jose.SigningKey{Algorithm: consentChallengeAlg, Key: ctx.ConsentChallengeKey},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("could not sign the consent challenge: %w", err)
	}
	return challenge, nil
}

func verifyConsentChallenge(
	ctx oidc.Context,
	user goidc.User,
	client *goidc.Client,
	req goidc.AuthorizationRequest,
	challenge string,
) error {
	if challenge == "" {
		return errors.New("the consent challenge is missing")
	}

	parsed, err := jwt.ParseSigned(challenge, []jose.SignatureAlgorithm{consentChallengeAlg})
	if err != nil {
		return fmt.Errorf("could not parse the consent challenge: %w", err)
	}

	var claims consentChallengeClaims
	if err := parsed.Claims(ctx.ConsentChallengeKey, &claims); err != nil {
		return fmt.Errorf("invalid consent challenge signature: %w", err)
	}

	if err := claims.ValidateWithLeeway(jwt.Expected{
		Issuer:      ctx.Issuer,
		Subject:     user.ID,
		AnyAudience: jwt.Audience{client.ID},
		Time:        ctx.Now(),
	}, 0); err != nil {
		return fmt.Errorf("invalid consent challenge: %w", err)
	}

	if claims.RedirectURI != req.RedirectURI ||
		claims.ResponseType != req.ResponseType ||
		claims.Scope != scopeSet(req.Scopes) ||
		claims.State != req.State ||
		claims.Nonce != req.Nonce {
		return errors.New("the consent challenge was issued for another request")
	}

	return nil
}

// scopeSet returns a canonical form of scopes so the order in which they are
// requested is irrelevant.
func scopeSet(scopes []string) string {
	sorted := slices.Clone(scopes)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), " ")
}
