package storage

import (
	"context"
	"sync"
	"time"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type GrantManager struct {
	Codes map[string]*goidc.AuthorizationCode
	// Tokens is indexed by the access token value.
	Tokens map[string]*goidc.AccessToken
	mu     sync.RWMutex
}

func NewGrantManager() *GrantManager {
	return &GrantManager{
		Codes:  make(map[string]*goidc.AuthorizationCode),
		Tokens: make(map[string]*goidc.AccessToken),
	}
}

func (m *GrantManager) SaveAuthorizationCode(
	_ context.Context,
	code *goidc.AuthorizationCode,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Codes[code.Code]; exists {
		return goidc.ErrAlreadyExists
	}

	m.Codes[code.Code] = code
	return nil
}

func (m *GrantManager) ConsumeAuthorizationCode(
	_ context.Context,
	code string,
	now time.Time,
) (
	*goidc.AuthorizationCode,
	error,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	authzCode, exists := m.Codes[code]
	if !exists {
		return nil, goidc.ErrNotFound
	}

	// Expired codes are removed as well, they can never be used again.
	delete(m.Codes, code)
	if authzCode.IsExpired(now) {
		return nil, goidc.ErrExpired
	}

	return authzCode, nil
}

func (m *GrantManager) SaveAccessToken(
	_ context.Context,
	token *goidc.AccessToken,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tokens[token.Value]; exists {
		return goidc.ErrAlreadyExists
	}

	m.Tokens[token.Value] = token
	return nil
}

func (m *GrantManager) AccessToken(
	_ context.Context,
	value string,
) (
	*goidc.AccessToken,
	error,
) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, exists := m.Tokens[value]
	if !exists {
		return nil, goidc.ErrNotFound
	}

	return token, nil
}
