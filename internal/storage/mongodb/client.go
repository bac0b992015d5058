package mongodb

import (
	"context"
	"errors"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClientManager struct {
	Collection *mongo.Collection
}

func NewClientManager(database *mongo.Database) ClientManager {
	return ClientManager{
		Collection: database.Collection(collectionClients),
	}
}

func (manager ClientManager) Save(ctx context.Context, client *goidc.Client) error {
	shouldReplace := true
	filter := bson.D{{Key: "_id", Value: client.ID}}
	if _, err := manager.Collection.ReplaceOne(ctx, filter, client, &options.ReplaceOptions{Upsert: &shouldReplace}); err != nil {
		return err
	}

	return nil
}

func (manager ClientManager) Client(ctx context.Context, id string) (*goidc.Client, error) {
	filter := bson.D{{Key: "_id", Value: id}}
	var client goidc.Client
	if err := manager.Collection.FindOne(ctx, filter).Decode(&client); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, goidc.ErrNotFound
		}
		return nil, err
	}

	return &client, nil
}

func (manager ClientManager) Delete(ctx context.Context, id string) error {
	filter := bson.D{{Key: "_id", Value: id}}
	if _, err := manager.Collection.DeleteOne(ctx, filter); err != nil {
		return err
	}

	return nil
}
