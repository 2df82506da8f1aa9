package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/balamurugesan03/Kotbilling/database"
	"github.com/balamurugesan03/Kotbilling/events"
	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/balamurugesan03/Kotbilling/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var aggregatorConfigCollection *mongo.Collection = database.OpenCollection(database.Client, "aggregatorConfig")

// Hub is the process-wide fan-out for kitchen displays, dashboards and the
// online-orders board.
var Hub = events.NewHub()

var (
	configStore    = services.MongoConfigStore{}
	statusCallback = services.NewStatusCallback(configStore)
	orderIngestor  = services.NewOrderIngestor(
		configStore,
		services.MongoOrderStore{},
		services.MongoKitchenStore{},
		services.MongoMenuResolver{},
		Hub,
		statusCallback,
	)
)

// HandleSwiggyWebhook ingests an order pushed by Swiggy.
// POST /api/aggregator/webhook/swiggy (public, HMAC verified).
func HandleSwiggyWebhook() gin.HandlerFunc {
	return handleWebhook(models.PlatformSwiggy)
}

// HandleZomatoWebhook ingests an order pushed by Zomato.
// POST /api/aggregator/webhook/zomato (public, HMAC verified).
func HandleZomatoWebhook() gin.HandlerFunc {
	return handleWebhook(models.PlatformZomato)
}

func handleWebhook(platform string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "could not read request body"})
			return
		}

		result, err := orderIngestor.Ingest(ctx, platform, rawBody, c.Request.Header)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPlatformDisabled):
				c.JSON(http.StatusForbidden, gin.H{"message": platform + " integration is disabled"})
			case errors.Is(err, services.ErrInvalidSignature):
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid webhook signature"})
			default:
				// Vendors never see internals.
				log.Printf("%s webhook error: %v", platform, err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "webhook processing failed"})
			}
			return
		}

		if result.AlreadyExists {
			c.JSON(http.StatusOK, gin.H{
				"message":  "order already exists",
				"order_id": result.Order.Order_id,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      "order received",
			"order_id":     result.Order.Order_id,
			"order_number": result.Order.Order_number,
		})
	}
}

// GetAllConfigs lists every platform config with credentials masked.
// GET /api/aggregator/config (manage_aggregators).
func GetAllConfigs() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := aggregatorConfigCollection.Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing configs"})
			return
		}
		var configs []models.AggregatorConfig
		if err := cursor.All(ctx, &configs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing configs"})
			return
		}

		masked := make([]models.MaskedConfig, 0, len(configs))
		for i := range configs {
			masked = append(masked, configs[i].Masked())
		}
		c.JSON(http.StatusOK, masked)
	}
}

// GetConfig fetches one platform's config, masked. Platforms that were never
// configured get the defaults.
// GET /api/aggregator/config/:platform (manage_aggregators).
func GetConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		platform := c.Param("platform")
		if !models.IsValidPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid platform"})
			return
		}

		config, err := configStore.GetConfig(ctx, platform)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching config"})
			return
		}
		if config == nil {
			defaults := models.DefaultConfig(platform)
			c.JSON(http.StatusOK, defaults.Masked())
			return
		}
		c.JSON(http.StatusOK, config.Masked())
	}
}

type configUpdateRequest struct {
	Is_enabled        *bool   `json:"is_enabled"`
	Api_key           *string `json:"api_key"`
	Api_secret        *string `json:"api_secret"`
	Store_id          *string `json:"store_id"`
	Webhook_secret    *string `json:"webhook_secret"`
	Auto_accept       *bool   `json:"auto_accept"`
	Default_prep_time *int    `json:"default_prep_time"`
	Platform_base_url *string `json:"platform_base_url"`
}

// UpsertConfig creates or partially updates a platform config. Only supplied
// fields change; omitted credential fields keep their stored values.
// PUT /api/aggregator/config/:platform (manage_aggregators).
func UpsertConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		platform := c.Param("platform")
		if !models.IsValidPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid platform"})
			return
		}

		var req configUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		setFields := bson.M{"platform": platform, "updated_at": now}
		if req.Is_enabled != nil {
			setFields["is_enabled"] = *req.Is_enabled
		}
		if req.Api_key != nil {
			setFields["api_key"] = *req.Api_key
		}
		if req.Api_secret != nil {
			setFields["api_secret"] = *req.Api_secret
		}
		if req.Store_id != nil {
			setFields["store_id"] = *req.Store_id
		}
		if req.Webhook_secret != nil {
			setFields["webhook_secret"] = *req.Webhook_secret
		}
		if req.Auto_accept != nil {
			setFields["auto_accept"] = *req.Auto_accept
		}
		if req.Default_prep_time != nil {
			setFields["default_prep_time"] = *req.Default_prep_time
		}
		if req.Platform_base_url != nil {
			setFields["platform_base_url"] = *req.Platform_base_url
		}

		onInsert := bson.M{"created_at": now, "connection_status": models.ConnectionDisconnected, "menu_overrides": []models.MenuOverride{}}
		if req.Default_prep_time == nil {
			onInsert["default_prep_time"] = 20
		}

		var config models.AggregatorConfig
		err := aggregatorConfigCollection.FindOneAndUpdate(
			ctx,
			bson.M{"platform": platform},
			bson.M{"$set": setFields, "$setOnInsert": onInsert},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&config)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while saving config"})
			return
		}
		c.JSON(http.StatusOK, config.Masked())
	}
}

// TestConnection checks that outbound credentials are present and records the
// derived connection status.
// POST /api/aggregator/config/:platform/test (manage_aggregators).
func TestConnection() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		platform := c.Param("platform")
		if !models.IsValidPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid platform"})
			return
		}

		connected, message, err := statusCallback.TestPlatformConnection(ctx, platform)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while testing connection"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"connected": connected, "message": message})
	}
}

// GetMenuWithOverrides returns the menu with the platform's price and
// availability overlay applied per item.
// GET /api/aggregator/menu/:platform (manage_aggregators).
func GetMenuWithOverrides() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		platform := c.Param("platform")
		if !models.IsValidPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid platform"})
			return
		}

		cursor, err := menuCollection.Find(ctx, bson.M{},
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

		config, err := configStore.GetConfig(ctx, platform)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching config"})
			return
		}
		overrides := map[string]models.MenuOverride{}
		if config != nil {
			for _, o := range config.Menu_overrides {
				overrides[o.Menu_item_id] = o
			}
		}

		type menuRow struct {
			Menu_item_id       string   `json:"menu_item_id"`
			Name               string   `json:"name"`
			Category           string   `json:"category"`
			Base_price         float64  `json:"base_price"`
			Is_veg             bool     `json:"is_veg"`
			Available          bool     `json:"available"`
			Platform_price     *float64 `json:"platform_price"`
			Platform_available bool     `json:"platform_available"`
		}

		rows := make([]menuRow, 0, len(items))
		for _, item := range items {
			row := menuRow{
				Menu_item_id:       item.Menu_item_id,
				Name:               item.Name,
				Category:           item.Category,
				Base_price:         item.Price,
				Is_veg:             item.Is_veg,
				Available:          item.Available,
				Platform_available: true,
			}
			if o, ok := overrides[item.Menu_item_id]; ok {
				row.Platform_price = o.Platform_price
				row.Platform_available = o.Available()
			}
			rows = append(rows, row)
		}
		c.JSON(http.StatusOK, rows)
	}
}

// SaveMenuOverrides replaces the platform's override list.
// PUT /api/aggregator/menu/:platform/overrides (manage_aggregators).
func SaveMenuOverrides() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		platform := c.Param("platform")
		if !models.IsValidPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid platform"})
			return
		}

		var req struct {
			Overrides []models.MenuOverride `json:"overrides"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Overrides == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "overrides must be an array"})
			return
		}
		for _, o := range req.Overrides {
			if o.Menu_item_id == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "override is missing menu_item_id"})
				return
			}
		}

		now := time.Now().UTC()
		_, err := aggregatorConfigCollection.UpdateOne(
			ctx,
			bson.M{"platform": platform},
			bson.M{
				"$set":         bson.M{"menu_overrides": req.Overrides, "platform": platform, "updated_at": now},
				"$setOnInsert": bson.M{"created_at": now, "connection_status": models.ConnectionDisconnected, "default_prep_time": 20},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while saving overrides"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "overrides saved", "count": len(req.Overrides)})
	}
}

// SyncMenuToPlatform records a menu push to the platform. The push itself is
// stubbed until the partner APIs are live; only the sync timestamp is kept.
// POST /api/aggregator/menu/:platform/sync (manage_aggregators).
func SyncMenuToPlatform() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		platform := c.Param("platform")
		if !models.IsValidPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid platform"})
			return
		}

		config, err := configStore.GetConfig(ctx, platform)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching config"})
			return
		}
		if config == nil || !config.Is_enabled {
			c.JSON(http.StatusBadRequest, gin.H{"message": platform + " integration is not enabled"})
			return
		}

		now := time.Now().UTC()
		_, err = aggregatorConfigCollection.UpdateOne(
			ctx,
			bson.M{"platform": platform},
			bson.M{"$set": bson.M{"last_sync_at": now, "updated_at": now}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while recording sync"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      "menu sync initiated for " + platform,
			"last_sync_at": now.Format(time.RFC3339),
		})
	}
}

// GetAggregatorAnalytics aggregates per-platform order stats over an optional
// date range: totals, revenue, average order value, completed and cancelled
// counts, plus a daily trend.
// GET /api/aggregator/analytics (view_aggregator_stats).
func GetAggregatorAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		match := bson.M{"type": models.OrderTypeOnline}
		created := bson.M{}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid from date"})
				return
			}
			created["$gte"] = t
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid to date"})
				return
			}
			created["$lte"] = t.Add(24 * time.Hour)
		}
		if len(created) > 0 {
			match["created_at"] = created
		}

		statsPipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: match}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$platform"},
				{Key: "total_orders", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
				{Key: "avg_order_value", Value: bson.D{{Key: "$avg", Value: "$total"}}},
				{Key: "completed_orders", Value: bson.D{{Key: "$sum", Value: bson.D{
					{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$status", models.OrderStatusCompleted}}}, 1, 0}},
				}}}},
				{Key: "cancelled_orders", Value: bson.D{{Key: "$sum", Value: bson.D{
					{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$status", models.OrderStatusCancelled}}}, 1, 0}},
				}}}},
			}}},
		}

		cursor, err := orderCollection.Aggregate(ctx, statsPipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while aggregating orders"})
			return
		}
		var stats []bson.M
		if err := cursor.All(ctx, &stats); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while aggregating orders"})
			return
		}

		trendPipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: match}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: bson.D{
					{Key: "date", Value: bson.D{{Key: "$dateToString", Value: bson.D{
						{Key: "format", Value: "%Y-%m-%d"},
						{Key: "date", Value: "$created_at"},
					}}}},
					{Key: "platform", Value: "$platform"},
				}},
				{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "_id.date", Value: 1}}}},
		}

		cursor, err = orderCollection.Aggregate(ctx, trendPipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while aggregating trend"})
			return
		}
		var dailyTrend []bson.M
		if err := cursor.All(ctx, &dailyTrend); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while aggregating trend"})
			return
		}

		empty := bson.M{"total_orders": 0, "total_revenue": 0, "avg_order_value": 0, "completed_orders": 0, "cancelled_orders": 0}
		result := gin.H{
			models.PlatformSwiggy: empty,
			models.PlatformZomato: empty,
			"daily_trend":         dailyTrend,
		}
		for _, s := range stats {
			if platform, ok := s["_id"].(string); ok && models.IsValidPlatform(platform) {
				result[platform] = s
			}
		}
		c.JSON(http.StatusOK, result)
	}
}

// NotifyStatusChange lets staff push the current status of a platform order
// back to its platform. The dispatch is best-effort; the response reports the
// local disposition only.
// POST /api/aggregator/orders/:order_id/notify (accept_online_orders).
func NotifyStatusChange() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": c.Param("order_id")}).Decode(&order)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching order"})
			return
		}
		if order.Platform == "" || order.Platform_order_id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "not a platform order"})
			return
		}

		var req struct {
			Extra_data map[string]interface{} `json:"extra_data"`
		}
		// Body is optional.
		_ = c.ShouldBindJSON(&req)

		result := statusCallback.NotifyPlatformStatus(order.Platform, order.Platform_order_id, order.Status, req.Extra_data)
		c.JSON(http.StatusOK, result)
	}
}
