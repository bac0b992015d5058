package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionClients  = "clients"
	collectionCodes    = "authorization_codes"
	collectionTokens   = "access_tokens"
	collectionConsents = "user_consents"
)

// EnsureIndexes creates the unique indexes of the access tokens and consents
// collections. It is safe to call it more than once.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	if _, err := database.Collection(collectionTokens).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "access_token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("could not create the access token index: %w", err)
	}

	if _, err := database.Collection(collectionConsents).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "client_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("could not create the consent index: %w", err)
	}

	return nil
}
