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

var menuCollection *mongo.Collection = database.OpenCollection(database.Client, "menu")

// GetMenuItems lists the menu, optionally filtered by category or availability.
// GET /api/menu
func GetMenuItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if c.Query("available") == "true" {
			filter["available"] = true
		}

		cursor, err := menuCollection.Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing menu items"})
			return
		}
		var items []models.MenuItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing menu items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetMenuItem fetches one menu item.
// GET /api/menu/:menu_item_id
func GetMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var item models.MenuItem
		err := menuCollection.FindOne(ctx, bson.M{"menu_item_id": c.Param("menu_item_id")}).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "menu item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching menu item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// CreateMenuItem adds a dish to the menu.
// POST /api/menu (manage_menu).
func CreateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var item models.MenuItem
		if err := c.BindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&item); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		item.ID = primitive.NewObjectID()
		item.Menu_item_id = item.ID.Hex()
		item.Created_at = time.Now().UTC()
		item.Updated_at = item.Created_at

		if _, err := menuCollection.InsertOne(ctx, item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while creating menu item"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// UpdateMenuItem patches the supplied fields of a menu item.
// PATCH /api/menu/:menu_item_id (manage_menu).
func UpdateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Name             *string  `json:"name"`
			Category         *string  `json:"category"`
			Price            *float64 `json:"price"`
			Description      *string  `json:"description"`
			Available        *bool    `json:"available"`
			Preparation_time *int     `json:"preparation_time"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now().UTC()}
		if req.Name != nil {
			update["name"] = *req.Name
		}
		if req.Category != nil {
			update["category"] = *req.Category
		}
		if req.Price != nil {
			update["price"] = *req.Price
		}
		if req.Description != nil {
			update["description"] = *req.Description
		}
		if req.Available != nil {
			update["available"] = *req.Available
		}
		if req.Preparation_time != nil {
			update["preparation_time"] = *req.Preparation_time
		}

		var item models.MenuItem
		err := menuCollection.FindOneAndUpdate(ctx,
			bson.M{"menu_item_id": c.Param("menu_item_id")},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "menu item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating menu item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// ToggleMenuItemAvailability flips the 86'd flag on a dish.
// PATCH /api/menu/:menu_item_id/availability (manage_menu).
func ToggleMenuItemAvailability() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var item models.MenuItem
		err := menuCollection.FindOne(ctx, bson.M{"menu_item_id": c.Param("menu_item_id")}).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "menu item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching menu item"})
			return
		}

		item.Available = !item.Available
		item.Updated_at = time.Now().UTC()
		if _, err := menuCollection.UpdateOne(ctx,
			bson.M{"menu_item_id": item.Menu_item_id},
			bson.M{"$set": bson.M{"available": item.Available, "updated_at": item.Updated_at}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating menu item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DeleteMenuItem removes a dish from the menu.
// DELETE /api/menu/:menu_item_id (manage_menu).
func DeleteMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := menuCollection.DeleteOne(ctx, bson.M{"menu_item_id": c.Param("menu_item_id")})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while deleting menu item"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "menu item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "menu item deleted"})
	}
}
