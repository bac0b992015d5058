package provider

import (
	"errors"
	"fmt"
)

func (p *Provider) validate() error {
	return errors.Join(
		validateIssuer(p),
		validateLifetimes(p),
		validateSigner(p),
		validateConsentChallengeKey(p),
	)
}

func validateIssuer(p *Provider) error {
	if p.config.Issuer == "" {
		return errors.New("the issuer is required")
	}
	return nil
}

func validateLifetimes(p *Provider) error {
	lifetimes := map[string]int{
		"authorization code": p.config.AuthorizationCodeLifetimeSecs,
		"id token":           p.config.IDTokenLifetimeSecs,
		"access token":       p.config.TokenLifetimeSecs,
		"consent":            p.config.ConsentLifetimeSecs,
	}

	var errs []error
	for name, secs := range lifetimes {
		if secs <= 0 {
			errs = append(errs, fmt.Errorf("the %s lifetime must be positive", name))
		}
	}
	return errors.Join(errs...)
}

func validateSigner(p *Provider) error {
	if p.config.Signer == nil {
		return fmt.Errorf("the private jwks doesn't contain any signing key for %s", p.idTokenSigAlg)
	}
	return nil
}

func validateConsentChallengeKey(p *Provider) error {
	if len(p.config.ConsentChallengeKey) < consentChallengeKeyMinLength {
		return fmt.Errorf("the consent challenge key must have at least %d bytes", consentChallengeKeyMinLength)
	}
	return nil
}
