package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func DBinstance() *mongo.Client {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	MongoDb := os.Getenv("MONGODB_URL")
	if MongoDb == "" {
		MongoDb = "mongodb://localhost:27017/kotbilling"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(MongoDb))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("connected to mongodb")
	return client
}

var Client *mongo.Client = DBinstance()

func OpenCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	databaseName := os.Getenv("MONGODB_DATABASE")
	if databaseName == "" {
		databaseName = "kotbilling"
	}
	return client.Database(databaseName).Collection(collectionName)
}

// EnsureIndexes creates the indexes the application relies on for correctness.
// The (platform, platform_order_id) unique index is the source of truth for
// webhook dedup: the pre-insert lookup is only a fast path, a duplicate key
// error on insert is the canonical "already exists" signal.
func EnsureIndexes(ctx context.Context) error {
	orderIndexes := OpenCollection(Client, "order").Indexes()
	_, err := orderIndexes.CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "platform", Value: 1}, {Key: "platform_order_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"platform_order_id": bson.M{"$type": "string"},
				}),
		},
	})
	if err != nil {
		return err
	}

	_, err = OpenCollection(Client, "aggregatorConfig").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "platform", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = OpenCollection(Client, "table").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "table_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
