package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/balamurugesan03/Kotbilling/database"
	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var inventoryCollection *mongo.Collection = database.OpenCollection(database.Client, "inventory")

// GetInventoryItems lists stock, optionally filtered by category or low stock.
// GET /api/inventory (view_inventory).
func GetInventoryItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if c.Query("low_stock") == "true" {
			filter["$expr"] = bson.M{"$lte": bson.A{"$current_stock", "$threshold"}}
		}

		cursor, err := inventoryCollection.Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing inventory"})
			return
		}
		var items []models.InventoryItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing inventory"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// CreateInventoryItem registers a stock item.
// POST /api/inventory (manage_inventory).
func CreateInventoryItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var item models.InventoryItem
		if err := c.BindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&item); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		item.ID = primitive.NewObjectID()
		item.Inventory_item_id = item.ID.Hex()
		item.Created_at = time.Now().UTC()
		item.Updated_at = item.Created_at

		if _, err := inventoryCollection.InsertOne(ctx, item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while creating inventory item"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// AdjustStock applies a signed delta to an item's stock, clamped at zero.
// PATCH /api/inventory/:inventory_item_id/stock (manage_inventory).
func AdjustStock() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Delta float64 `json:"delta"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var item models.InventoryItem
		err := inventoryCollection.FindOne(ctx, bson.M{"inventory_item_id": c.Param("inventory_item_id")}).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "inventory item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching inventory item"})
			return
		}

		item.Current_stock += req.Delta
		if item.Current_stock < 0 {
			item.Current_stock = 0
		}
		item.Updated_at = time.Now().UTC()

		if _, err := inventoryCollection.UpdateOne(ctx,
			bson.M{"inventory_item_id": item.Inventory_item_id},
			bson.M{"$set": bson.M{"current_stock": item.Current_stock, "updated_at": item.Updated_at}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while adjusting stock"})
			return
		}

		response := gin.H{"item": item}
		if item.IsOutOfStock() {
			response["warning"] = "out of stock"
		} else if item.IsLowStock() {
			response["warning"] = "low stock"
		}
		c.JSON(http.StatusOK, response)
	}
}

// UpdateInventoryItem patches the supplied fields of a stock item.
// PATCH /api/inventory/:inventory_item_id (manage_inventory).
func UpdateInventoryItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Name      *string  `json:"name"`
			Unit      *string  `json:"unit"`
			Threshold *float64 `json:"threshold"`
			Price     *float64 `json:"price"`
			Category  *string  `json:"category"`
			Supplier  *string  `json:"supplier"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now().UTC()}
		if req.Name != nil {
			update["name"] = *req.Name
		}
		if req.Unit != nil {
			update["unit"] = *req.Unit
		}
		if req.Threshold != nil {
			update["threshold"] = *req.Threshold
		}
		if req.Price != nil {
			update["price"] = *req.Price
		}
		if req.Category != nil {
			update["category"] = *req.Category
		}
		if req.Supplier != nil {
			update["supplier"] = *req.Supplier
		}

		var item models.InventoryItem
		err := inventoryCollection.FindOneAndUpdate(ctx,
			bson.M{"inventory_item_id": c.Param("inventory_item_id")},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "inventory item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating inventory item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DeleteInventoryItem removes a stock item.
// DELETE /api/inventory/:inventory_item_id (manage_inventory).
func DeleteInventoryItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := inventoryCollection.DeleteOne(ctx, bson.M{"inventory_item_id": c.Param("inventory_item_id")})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while deleting inventory item"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "inventory item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "inventory item deleted"})
	}
}

// GetInventoryStats reports stock health counts and total stock value.
// GET /api/inventory/stats (view_inventory).
func GetInventoryStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := inventoryCollection.Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing inventory stats"})
			return
		}
		var items []models.InventoryItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing inventory stats"})
			return
		}

		lowStock := 0
		outOfStock := 0
		totalValue := 0.0
		for i := range items {
			if items[i].IsOutOfStock() {
				outOfStock++
			} else if items[i].IsLowStock() {
				lowStock++
			}
			totalValue += items[i].Current_stock * items[i].Price
		}
		c.JSON(http.StatusOK, gin.H{
			"total_items":  len(items),
			"low_stock":    lowStock,
			"out_of_stock": outOfStock,
			"total_value":  models.Round2(totalValue),
		})
	}
}
