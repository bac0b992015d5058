package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type ConsentManager struct {
	DB *sql.DB
	// NowFunc sets the creation time of new records.
	NowFunc func() time.Time
}

func NewConsentManager(db *sql.DB) ConsentManager {
	return ConsentManager{
		DB:      db,
		NowFunc: time.Now,
	}
}

func (manager ConsentManager) Consent(
	ctx context.Context,
	userID string,
	clientID string,
) (
	*goidc.UserConsent,
	error,
) {
	var (
		consent   goidc.UserConsent
		scopes    string
		createdAt int64
		expiresAt int64
	)
	err := manager.DB.QueryRowContext(ctx, `
SELECT id, user_id, client_id, scopes, created_at, expires_at
FROM user_consents WHERE user_id = ? AND client_id = ?`, userID, clientID).
		Scan(&consent.ID, &consent.UserID, &consent.ClientID, &scopes, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	consent.Scopes = splitScopes(scopes)
	consent.CreatedAt = fromMillis(createdAt)
	consent.ExpiresAt = fromMillis(expiresAt)
	return &consent, nil
}

// Upsert is a single statement, the unique constraint over the user and client
// serializes concurrent calls.
func (manager ConsentManager) Upsert(
	ctx context.Context,
	userID string,
	clientID string,
	scopes []string,
	expiresAt time.Time,
) (
	*goidc.UserConsent,
	bool,
	error,
) {
	id := uuid.NewString()
	consent := goidc.UserConsent{
		UserID:    userID,
		ClientID:  clientID,
		Scopes:    append([]string(nil), scopes...),
		ExpiresAt: fromMillis(toMillis(expiresAt)),
	}

	var createdAt int64
	err := manager.DB.QueryRowContext(ctx, `
INSERT INTO user_consents (id, user_id, client_id, scopes, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, client_id) DO UPDATE SET
    scopes = excluded.scopes,
    expires_at = excluded.expires_at
RETURNING id, created_at`,
		id, userID, clientID, joinScopes(scopes), toMillis(manager.NowFunc()), toMillis(expiresAt)).
		Scan(&consent.ID, &createdAt)
	if err != nil {
		return nil, false, err
	}

	consent.CreatedAt = fromMillis(createdAt)
	return &consent, consent.ID == id, nil
}
