package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

type consentKey struct {
	userID   string
	clientID string
}

type ConsentManager struct {
	consents map[consentKey]*goidc.UserConsent
	// NowFunc sets the creation time of new records.
	NowFunc func() time.Time
	mu      sync.RWMutex
}

func NewConsentManager() *ConsentManager {
	return &ConsentManager{
		consents: make(map[consentKey]*goidc.UserConsent),
		NowFunc:  time.Now,
	}
}

func (m *ConsentManager) Consent(
	_ context.Context,
	userID string,
	clientID string,
) (
	*goidc.UserConsent,
	error,
) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	consent, exists := m.consents[consentKey{userID, clientID}]
	if !exists {
		return nil, goidc.ErrNotFound
	}

	c := *consent
	return &c, nil
}

func (m *ConsentManager) Upsert(
	_ context.Context,
	userID string,
	clientID string,
	scopes []string,
	expiresAt time.Time,
) (
	*goidc.UserConsent,
	bool,
	error,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := consentKey{userID, clientID}
	consent, exists := m.consents[key]
	if !exists {
		consent = &goidc.UserConsent{
			ID:        uuid.NewString(),
			UserID:    userID,
			ClientID:  clientID,
			CreatedAt: m.NowFunc(),
		}
		m.consents[key] = consent
	}

	consent.Scopes = slices.Clone(scopes)
	consent.ExpiresAt = expiresAt

	c := *consent
	return &c, !exists, nil
}
