package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConsentManager struct {
	Collection *mongo.Collection
	// NowFunc sets the creation time of new records.
	NowFunc func() time.Time
}

func NewConsentManager(database *mongo.Database) ConsentManager {
	return ConsentManager{
		Collection: database.Collection(collectionConsents),
		NowFunc:    time.Now,
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
	var consent goidc.UserConsent
	if err := manager.Collection.FindOne(ctx, consentFilter(userID, clientID)).Decode(&consent); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	return &consent, nil
}

// Upsert relies on the unique index over the user and client. When two
// concurrent upserts both try to insert, the loser gets a duplicate key error
// and is retried as an update of the record created by the winner.
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
	consent, created, err := manager.upsert(ctx, userID, clientID, scopes, expiresAt)
	if mongo.IsDuplicateKeyError(err) {
		consent, created, err = manager.upsert(ctx, userID, clientID, scopes, expiresAt)
	}
	return consent, created, err
}

func (manager ConsentManager) upsert(
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
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "scopes", Value: scopes},
			{Key: "expires_at", Value: expiresAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: uuid.NewString()},
			{Key: "created_at", Value: manager.NowFunc()},
		}},
	}

	result, err := manager.Collection.UpdateOne(ctx, consentFilter(userID, clientID), update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, err
	}

	consent, err := manager.Consent(ctx, userID, clientID)
	if err != nil {
		return nil, false, err
	}

	return consent, result.UpsertedCount == 1, nil
}

func consentFilter(userID, clientID string) bson.D {
	return bson.D{
		{Key: "user_id", Value: userID},
		{Key: "client_id", Value: clientID},
	}
}
