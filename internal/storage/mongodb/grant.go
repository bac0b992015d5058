package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type GrantManager struct {
	Codes  *mongo.Collection
	Tokens *mongo.Collection
}

func NewGrantManager(database *mongo.Database) GrantManager {
	return GrantManager{
		Codes:  database.Collection(collectionCodes),
		Tokens: database.Collection(collectionTokens),
	}
}

func (manager GrantManager) SaveAuthorizationCode(
	ctx context.Context,
	code *goidc.AuthorizationCode,
) error {
	return insert(ctx, manager.Codes, code)
}

// ConsumeAuthorizationCode deletes the code in the same operation that reads
// it, so concurrent exchanges of the same code cannot both succeed.
func (manager GrantManager) ConsumeAuthorizationCode(
	ctx context.Context,
	code string,
	now time.Time,
) (
	*goidc.AuthorizationCode,
	error,
) {
	filter := bson.D{{Key: "_id", Value: code}}
	var authzCode goidc.AuthorizationCode
	if err := manager.Codes.FindOneAndDelete(ctx, filter).Decode(&authzCode); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	if authzCode.IsExpired(now) {
		return nil, goidc.ErrExpired
	}

	return &authzCode, nil
}

func (manager GrantManager) SaveAccessToken(
	ctx context.Context,
	token *goidc.AccessToken,
) error {
	return insert(ctx, manager.Tokens, token)
}

func (manager GrantManager) AccessToken(
	ctx context.Context,
	value string,
) (
	*goidc.AccessToken,
	error,
) {
	filter := bson.D{{Key: "access_token", Value: value}}
	var token goidc.AccessToken
	if err := manager.Tokens.FindOne(ctx, filter).Decode(&token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	return &token, nil
}

func insert(ctx context.Context, collection *mongo.Collection, document any) error {
	if _, err := collection.InsertOne(ctx, document); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return goidc.ErrAlreadyExists
		}
		return err
	}

	return nil
}
