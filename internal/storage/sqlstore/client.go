package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type ClientManager struct {
	DB *sql.DB
}

func NewClientManager(db *sql.DB) ClientManager {
	return ClientManager{DB: db}
}

func (manager ClientManager) Save(ctx context.Context, client *goidc.Client) error {
	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return fmt.Errorf("could not encode the redirect uris: %w", err)
	}

	_, err = manager.DB.ExecContext(ctx, `
INSERT INTO clients (id, name, response_type, redirect_uris, require_consent)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    response_type = excluded.response_type,
    redirect_uris = excluded.redirect_uris,
    require_consent = excluded.require_consent`,
		client.ID, client.Name, string(client.ResponseType), string(redirectURIs), client.RequireConsent)
	return err
}

func (manager ClientManager) Client(ctx context.Context, id string) (*goidc.Client, error) {
	var (
		client       goidc.Client
		responseType string
		redirectURIs string
	)
	err := manager.DB.QueryRowContext(ctx, `
SELECT id, name, response_type, redirect_uris, require_consent
FROM clients WHERE id = ?`, id).
		Scan(&client.ID, &client.Name, &responseType, &redirectURIs, &client.RequireConsent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	client.ResponseType = goidc.ResponseType(responseType)
	if err := json.Unmarshal([]byte(redirectURIs), &client.RedirectURIs); err != nil {
		return nil, fmt.Errorf("could not decode the redirect uris: %w", err)
	}

	return &client, nil
}

func (manager ClientManager) Delete(ctx context.Context, id string) error {
	_, err := manager.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	return err
}
