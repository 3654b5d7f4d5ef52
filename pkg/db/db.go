package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const ReactionsCollection = "reactions"

// Connect connects to MongoDB, pings it and returns the named database.
func Connect(ctx context.Context, uri string, name string) (*mongo.Database, error) {
	// Connect to MongoDB
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Ping MongoDB
	var result bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return client.Database(name), nil
}

// Reactions returns the reactions collection with journaled majority writes,
// so an acknowledged write survives a crash.
func Reactions(database *mongo.Database) *mongo.Collection {
	journal := true
	wc := &writeconcern.WriteConcern{W: "majority", Journal: &journal}
	return database.Collection(ReactionsCollection, options.Collection().SetWriteConcern(wc))
}
