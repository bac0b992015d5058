// Package redisstore keeps the credentials minted by the authorization
// endpoint in Redis. Records expire on their own through the key TTL.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix  = "goidc:code:"
	tokenKeyPrefix = "goidc:token:"
)

// minTTL is used for records saved when they are already about to expire,
// since Redis rejects non positive expirations.
const minTTL = time.Second

type GrantManager struct {
	client *redis.Client
	// NowFunc is the reference for the TTL of new keys.
	NowFunc func() time.Time
}

func NewGrantManager(client *redis.Client) *GrantManager {
	return &GrantManager{
		client:  client,
		NowFunc: time.Now,
	}
}

func (m *GrantManager) SaveAuthorizationCode(
	ctx context.Context,
	code *goidc.AuthorizationCode,
) error {
	return m.save(ctx, codeKeyPrefix+code.Code, code, code.ExpiresAt)
}

// ConsumeAuthorizationCode uses GETDEL, so a code is handed out at most once
// even across instances.
func (m *GrantManager) ConsumeAuthorizationCode(
	ctx context.Context,
	code string,
	now time.Time,
) (
	*goidc.AuthorizationCode,
	error,
) {
	data, err := m.client.GetDel(ctx, codeKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goidc.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var authzCode goidc.AuthorizationCode
	if err := json.Unmarshal(data, &authzCode); err != nil {
		return nil, fmt.Errorf("could not decode the authorization code: %w", err)
	}

	if authzCode.IsExpired(now) {
		return nil, goidc.ErrExpired
	}

	return &authzCode, nil
}

func (m *GrantManager) SaveAccessToken(
	ctx context.Context,
	token *goidc.AccessToken,
) error {
	return m.save(ctx, tokenKeyPrefix+token.Value, token, token.ExpiresAt)
}

func (m *GrantManager) AccessToken(
	ctx context.Context,
	value string,
) (
	*goidc.AccessToken,
	error,
) {
	data, err := m.client.Get(ctx, tokenKeyPrefix+value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goidc.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var token goidc.AccessToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("could not decode the access token: %w", err)
	}

	return &token, nil
}

func (m *GrantManager) save(ctx context.Context, key string, record any, expiresAt time.Time) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not encode the record: %w", err)
	}

	ttl := expiresAt.Sub(m.NowFunc())
	if ttl < minTTL {
		ttl = minTTL
	}

	ok, err := m.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return goidc.ErrAlreadyExists
	}

	return nil
}
