package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/balamurugesan03/Kotbilling/database"
	"github.com/balamurugesan03/Kotbilling/events"
	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var tableCollection *mongo.Collection = database.OpenCollection(database.Client, "table")

// GetTables lists all tables, optionally filtered by section or status.
// GET /api/tables (view_tables).
func GetTables() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if section := c.Query("section"); section != "" {
			filter["section"] = section
		}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		cursor, err := tableCollection.Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "table_number", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing tables"})
			return
		}
		var tables []models.Table
		if err := cursor.All(ctx, &tables); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing tables"})
			return
		}
		c.JSON(http.StatusOK, tables)
	}
}

// CreateTable registers a table in the floor plan.
// POST /api/tables (manage_tables).
func CreateTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var table models.Table
		if err := c.BindJSON(&table); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&table); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		table.ID = primitive.NewObjectID()
		table.Table_id = table.ID.Hex()
		table.Status = models.TableAvailable
		table.Created_at = time.Now().UTC()
		table.Updated_at = table.Created_at

		if _, err := tableCollection.InsertOne(ctx, table); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "table number already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while creating table"})
			return
		}
		c.JSON(http.StatusCreated, table)
	}
}

// UpdateTableStatus sets a table's availability, handling the reservation
// fields when the new status is reserved.
// PATCH /api/tables/:table_id/status (manage_tables).
func UpdateTableStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Status           string `json:"status"`
			Reservation_name string `json:"reservation_name"`
			Reservation_time string `json:"reservation_time"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Status != models.TableAvailable && req.Status != models.TableOccupied && req.Status != models.TableReserved {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid table status"})
			return
		}

		update := bson.M{"status": req.Status, "updated_at": time.Now().UTC()}
		if req.Status == models.TableReserved {
			update["reservation_name"] = req.Reservation_name
			update["reservation_time"] = req.Reservation_time
		} else {
			update["reservation_name"] = ""
			update["reservation_time"] = ""
		}
		if req.Status == models.TableAvailable {
			update["current_order_id"] = nil
		}

		var table models.Table
		err := tableCollection.FindOneAndUpdate(ctx,
			bson.M{"table_id": c.Param("table_id")},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&table)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "table not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating table"})
			return
		}

		Hub.Broadcast(events.EventTableUpdated, table)
		c.JSON(http.StatusOK, table)
	}
}

// DeleteTable removes a table that is not currently occupied.
// DELETE /api/tables/:table_id (manage_tables).
func DeleteTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := tableCollection.DeleteOne(ctx, bson.M{
			"table_id": c.Param("table_id"),
			"status":   bson.M{"$ne": models.TableOccupied},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while deleting table"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "table not found or currently occupied"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "table deleted"})
	}
}

// GetTableStats summarises floor occupancy for the host stand.
// GET /api/tables/stats (view_tables).
func GetTableStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pipeline := mongo.Pipeline{
			{{Key: "$group", Value: bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
			}}},
		}
		cursor, err := tableCollection.Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing table stats"})
			return
		}
		var rows []struct {
			Status string `bson:"_id"`
			Count  int    `bson:"count"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing table stats"})
			return
		}

		stats := gin.H{
			models.TableAvailable: 0,
			models.TableOccupied:  0,
			models.TableReserved:  0,
		}
		total := 0
		for _, row := range rows {
			stats[row.Status] = row.Count
			total += row.Count
		}
		stats["total"] = total
		c.JSON(http.StatusOK, stats)
	}
}
