package authorize

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaoden/goidc-authorize/internal/oidc"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// HasConsent reports whether the user has an unexpired consent for the client
// covering every requested scope. Storage failures are logged and treated as
// no consent, so the user is asked again.
func HasConsent(ctx oidc.Context, user goidc.User, client *goidc.Client, scopes []string) bool {
	consent, err := ctx.Consent(user.ID, client.ID)
	if err != nil {
		if !errors.Is(err, goidc.ErrNotFound) {
			ctx.Logger.Error("could not load the consent",
				slog.String("client_id", client.ID), slog.String("error", err.Error()))
		}
		return false
	}

	if consent.IsExpired(ctx.Now()) {
		return false
	}

	return consent.Covers(scopes)
}

// RecordConsent saves the scopes the user granted to the client. An existing
// consent has its scopes replaced and its expiry renewed.
func RecordConsent(ctx oidc.Context, user goidc.User, client *goidc.Client, scopes []string) error {
	expiresAt := ctx.Now().Add(time.Duration(ctx.ConsentLifetimeSecs) * time.Second)
	_, created, err := ctx.UpsertConsent(user.ID, client.ID, scopes, expiresAt)
	if err != nil {
		return fmt.Errorf("could not save the consent: %w", err)
	}

	ctx.Logger.Debug("consent recorded",
		slog.String("client_id", client.ID), slog.Bool("created", created))
	return nil
}
