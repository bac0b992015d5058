package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type GrantManager struct {
	DB *sql.DB
}

func NewGrantManager(db *sql.DB) GrantManager {
	return GrantManager{DB: db}
}

func (manager GrantManager) SaveAuthorizationCode(
	ctx context.Context,
	code *goidc.AuthorizationCode,
) error {
	_, err := manager.DB.ExecContext(ctx, `
INSERT INTO authorization_codes
    (code, user_id, client_id, scopes, nonce, is_authentication, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		code.Code, code.UserID, code.ClientID, joinScopes(code.Scopes), code.Nonce,
		code.IsAuthentication, toMillis(code.CreatedAt), toMillis(code.ExpiresAt))
	if isConstraintError(err) {
		return goidc.ErrAlreadyExists
	}
	return err
}

// ConsumeAuthorizationCode deletes and reads the code in a single statement,
// so a code is never handed out twice.
func (manager GrantManager) ConsumeAuthorizationCode(
	ctx context.Context,
	code string,
	now time.Time,
) (
	*goidc.AuthorizationCode,
	error,
) {
	var (
		authzCode goidc.AuthorizationCode
		scopes    string
		createdAt int64
		expiresAt int64
	)
	err := manager.DB.QueryRowContext(ctx, `
DELETE FROM authorization_codes WHERE code = ?
RETURNING code, user_id, client_id, scopes, nonce, is_authentication, created_at, expires_at`, code).
		Scan(&authzCode.Code, &authzCode.UserID, &authzCode.ClientID, &scopes, &authzCode.Nonce,
			&authzCode.IsAuthentication, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	authzCode.Scopes = splitScopes(scopes)
	authzCode.CreatedAt = fromMillis(createdAt)
	authzCode.ExpiresAt = fromMillis(expiresAt)
	if authzCode.IsExpired(now) {
		return nil, goidc.ErrExpired
	}

	return &authzCode, nil
}

func (manager GrantManager) SaveAccessToken(
	ctx context.Context,
	token *goidc.AccessToken,
) error {
	claims := ""
	if len(token.IDTokenClaims) != 0 {
		encoded, err := json.Marshal(token.IDTokenClaims)
		if err != nil {
			return fmt.Errorf("could not encode the id token claims: %w", err)
		}
		claims = string(encoded)
	}

	_, err := manager.DB.ExecContext(ctx, `
INSERT INTO access_tokens
    (id, access_token, refresh_token, user_id, client_id, scopes, id_token_claims, at_hash, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		token.ID, token.Value, token.RefreshToken, token.UserID, token.ClientID, joinScopes(token.Scopes),
		claims, token.AccessTokenHash, toMillis(token.CreatedAt), toMillis(token.ExpiresAt))
	if isConstraintError(err) {
		return goidc.ErrAlreadyExists
	}
	return err
}

func (manager GrantManager) AccessToken(
	ctx context.Context,
	value string,
) (
	*goidc.AccessToken,
	error,
) {
	var (
		token     goidc.AccessToken
		scopes    string
		claims    string
		createdAt int64
		expiresAt int64
	)
	err := manager.DB.QueryRowContext(ctx, `
SELECT id, access_token, refresh_token, user_id, client_id, scopes, id_token_claims, at_hash, created_at, expires_at
FROM access_tokens WHERE access_token = ?`, value).
		Scan(&token.ID, &token.Value, &token.RefreshToken, &token.UserID, &token.ClientID, &scopes,
			&claims, &token.AccessTokenHash, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	if claims != "" {
		if err := json.Unmarshal([]byte(claims), &token.IDTokenClaims); err != nil {
			return nil, fmt.Errorf("could not decode the id token claims: %w", err)
		}
	}
	token.Scopes = splitScopes(scopes)
	token.CreatedAt = fromMillis(createdAt)
	token.ExpiresAt = fromMillis(expiresAt)

	return &token, nil
}
