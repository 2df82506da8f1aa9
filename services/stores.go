package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/balamurugesan03/Kotbilling/database"
	"github.com/balamurugesan03/Kotbilling/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	aggregatorConfigCollection *mongo.Collection = database.OpenCollection(database.Client, "aggregatorConfig")
	orderCollection            *mongo.Collection = database.OpenCollection(database.Client, "order")
	kitchenItemCollection      *mongo.Collection = database.OpenCollection(database.Client, "kitchenItem")
	menuItemCollection         *mongo.Collection = database.OpenCollection(database.Client, "menu")
	counterCollection          *mongo.Collection = database.OpenCollection(database.Client, "counters")
)

// MongoConfigStore implements ConfigStore on the aggregatorConfig collection.
type MongoConfigStore struct{}

func (MongoConfigStore) GetConfig(ctx context.Context, platform string) (*models.AggregatorConfig, error) {
	var config models.AggregatorConfig
	err := aggregatorConfigCollection.FindOne(ctx, bson.M{"platform": platform}).Decode(&config)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (MongoConfigStore) SetConnectionStatus(ctx context.Context, platform, status string) error {
	_, err := aggregatorConfigCollection.UpdateOne(
		ctx,
		bson.M{"platform": platform},
		bson.M{"$set": bson.M{"connection_status": status, "updated_at": time.Now().UTC()}},
	)
	return err
}

// MongoOrderStore implements OrderStore on the order collection.
type MongoOrderStore struct{}

func (MongoOrderStore) FindByPlatformOrder(ctx context.Context, platform, platformOrderID string) (*models.Order, error) {
	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{
		"platform":          platform,
		"platform_order_id": platformOrderID,
	}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (MongoOrderStore) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (MongoOrderStore) Insert(ctx context.Context, order *models.Order) error {
	_, err := orderCollection.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateOrder
	}
	return err
}

// NextOrderNumber draws from an atomically incremented counter document, so
// numbering stays unique and monotonic under concurrent order creation.
// Numbering starts at 1001.
func (MongoOrderStore) NextOrderNumber(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := counterCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "order_number"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return 1000 + counter.Seq, nil
}

func (MongoOrderStore) SetStatus(ctx context.Context, orderID, status string) error {
	_, err := orderCollection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	return err
}

// TransitionToReady is a conditional update: only an order still in pending
// or preparing moves, so concurrent last-item updates race for a single win.
func (MongoOrderStore) TransitionToReady(ctx context.Context, orderID string) (bool, error) {
	result, err := orderCollection.UpdateOne(
		ctx,
		bson.M{
			"order_id": orderID,
			"status":   bson.M{"$in": []string{models.OrderStatusPending, models.OrderStatusPreparing}},
		},
		bson.M{"$set": bson.M{"status": models.OrderStatusReady, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// MongoKitchenStore implements KitchenStore on the kitchenItem collection.
type MongoKitchenStore struct{}

func (MongoKitchenStore) InsertMany(ctx context.Context, items []models.KitchenItem) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	_, err := kitchenItemCollection.InsertMany(ctx, docs)
	return err
}

func (MongoKitchenStore) CountPending(ctx context.Context, orderID string) (int64, error) {
	return kitchenItemCollection.CountDocuments(ctx, bson.M{
		"order_id": orderID,
		"status":   bson.M{"$ne": models.KitchenStatusReady},
	})
}

// MongoMenuResolver implements MenuResolver with a case-insensitive exact
// name match against the menu collection.
type MongoMenuResolver struct{}

func (MongoMenuResolver) ResolveByName(ctx context.Context, name string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := menuItemCollection.FindOne(ctx, bson.M{
		"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"},
	}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
