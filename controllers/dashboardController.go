package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// GetDashboardStats answers the front desk's at-a-glance numbers for today:
// order and revenue totals, split by order type and platform.
// GET /api/dashboard/stats (view_reports).
func GetDashboardStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		today := startOfToday()
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": today}}}},
			{{Key: "$group", Value: bson.M{
				"_id":          "$type",
				"total_orders": bson.M{"$sum": 1},
				"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$payment_status", models.PaymentStatusPaid}}, "$total", 0,
				}}},
			}}},
		}
		cursor, err := orderCollection.Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing dashboard stats"})
			return
		}
		var rows []struct {
			Type        string  `bson:"_id"`
			TotalOrders int     `bson:"total_orders"`
			Revenue     float64 `bson:"revenue"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing dashboard stats"})
			return
		}

		byType := gin.H{
			models.OrderTypeDineIn:   gin.H{"orders": 0, "revenue": 0.0},
			models.OrderTypeTakeaway: gin.H{"orders": 0, "revenue": 0.0},
			models.OrderTypeOnline:   gin.H{"orders": 0, "revenue": 0.0},
		}
		totalOrders := 0
		totalRevenue := 0.0
		for _, row := range rows {
			byType[row.Type] = gin.H{"orders": row.TotalOrders, "revenue": models.Round2(row.Revenue)}
			totalOrders += row.TotalOrders
			totalRevenue += row.Revenue
		}

		pendingKitchen, err := kitchenItemCollection.CountDocuments(ctx, bson.M{
			"status": bson.M{"$in": []string{models.KitchenStatusQueued, models.KitchenStatusCooking}},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing dashboard stats"})
			return
		}
		occupiedTables, err := tableCollection.CountDocuments(ctx, bson.M{"status": models.TableOccupied})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing dashboard stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"date":            today.Format("2006-01-02"),
			"total_orders":    totalOrders,
			"total_revenue":   models.Round2(totalRevenue),
			"by_type":         byType,
			"pending_kitchen": pendingKitchen,
			"occupied_tables": occupiedTables,
		})
	}
}

// GetRunningOrders lists orders still moving through the kitchen, for the
// live board.
// GET /api/dashboard/running (view_reports).
func GetRunningOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := orderCollection.Find(ctx,
			bson.M{"status": bson.M{"$in": []string{
				models.OrderStatusPending, models.OrderStatusPreparing, models.OrderStatusReady,
			}}},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing running orders"})
			return
		}
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing running orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetDailySales returns per-day order counts and revenue for the last n days
// (default 7).
// GET /api/dashboard/sales (view_reports).
func GetDailySales() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		days := 7
		if d := c.Query("days"); d != "" {
			if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 && parsed <= 90 {
				days = parsed
			}
		}
		since := startOfToday().AddDate(0, 0, -(days - 1))

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{
				"created_at":     bson.M{"$gte": since},
				"payment_status": models.PaymentStatusPaid,
			}}},
			{{Key: "$group", Value: bson.M{
				"_id": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
				"orders":  bson.M{"$sum": 1},
				"revenue": bson.M{"$sum": "$total"},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		}
		cursor, err := orderCollection.Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing sales"})
			return
		}
		var rows []struct {
			Date    string  `bson:"_id" json:"date"`
			Orders  int     `bson:"orders" json:"orders"`
			Revenue float64 `bson:"revenue" json:"revenue"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while computing sales"})
			return
		}
		if rows == nil {
			rows = []struct {
				Date    string  `bson:"_id" json:"date"`
				Orders  int     `bson:"orders" json:"orders"`
				Revenue float64 `bson:"revenue" json:"revenue"`
			}{}
		}
		c.JSON(http.StatusOK, gin.H{"since": since.Format("2006-01-02"), "days": days, "sales": rows})
	}
}
