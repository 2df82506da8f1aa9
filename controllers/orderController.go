package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/balamurugesan03/Kotbilling/database"
	"github.com/balamurugesan03/Kotbilling/events"
	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/balamurugesan03/Kotbilling/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	orderCollection       *mongo.Collection = database.OpenCollection(database.Client, "order")
	kitchenItemCollection *mongo.Collection = database.OpenCollection(database.Client, "kitchenItem")
)

var orderStore = services.MongoOrderStore{}

var readyAggregator = services.NewReadyAggregator(orderStore, services.MongoKitchenStore{}, Hub, statusCallback)

// findOrder resolves an order by its id or by its human-facing order number.
func findOrder(ctx context.Context, idOrNumber string) (*models.Order, error) {
	var order models.Order
	filter := bson.M{"order_id": idOrNumber}
	if number, err := strconv.Atoi(idOrNumber); err == nil {
		filter = bson.M{"order_number": number}
	}
	err := orderCollection.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders lists orders, optionally filtered by type and status.
// GET /api/orders
func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if orderType := c.Query("type"); orderType != "" {
			filter["type"] = orderType
		}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		cursor, err := orderCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder fetches one order by id or order number.
// GET /api/orders/:order_id
func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GetOnlineOrders lists platform orders, newest first.
// GET /api/orders/online (view_online_orders).
func GetOnlineOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := orderCollection.Find(ctx,
			bson.M{"type": models.OrderTypeOnline},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing online orders"})
			return
		}
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing online orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

type createOrderRequest struct {
	Type             string             `json:"type"`
	Table_id         *string            `json:"table_id"`
	Items            []models.OrderItem `json:"items"`
	Customer_name    string             `json:"customer_name"`
	Customer_phone   string             `json:"customer_phone"`
	Platform         string             `json:"platform"`
	Delivery_address string             `json:"delivery_address"`
	Discount         float64            `json:"discount"`
}

// CreateOrder creates a staff-entered order (dine-in, takeaway or a manually
// keyed online order), assigns its number, computes totals, creates one
// kitchen item per line and occupies the table for dine-in.
// POST /api/orders (create_order).
func CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req createOrderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Type != models.OrderTypeDineIn && req.Type != models.OrderTypeTakeaway && req.Type != models.OrderTypeOnline {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order type"})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "order has no items"})
			return
		}
		for i := range req.Items {
			req.Items[i].ID = primitive.NewObjectID()
			if req.Items[i].Kitchen_status == "" {
				req.Items[i].Kitchen_status = models.KitchenStatusQueued
			}
			if validationErr := validate.Struct(&req.Items[i]); validationErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
				return
			}
		}

		now := time.Now().UTC()
		order := models.Order{
			ID:               primitive.NewObjectID(),
			Type:             req.Type,
			Status:           models.OrderStatusPending,
			Items:            req.Items,
			Discount:         req.Discount,
			Payment_status:   models.PaymentStatusPending,
			Customer_name:    req.Customer_name,
			Customer_phone:   req.Customer_phone,
			Delivery_address: req.Delivery_address,
			Created_at:       now,
			Updated_at:       now,
		}
		order.Order_id = order.ID.Hex()

		if uid := c.GetString("uid"); uid != "" {
			name := c.GetString("name")
			order.Waiter_id = &uid
			order.Waiter_name = &name
		}

		var table *models.Table
		if req.Type == models.OrderTypeDineIn && req.Table_id != nil {
			var t models.Table
			err := tableCollection.FindOne(ctx, bson.M{"table_id": *req.Table_id}).Decode(&t)
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "table not found"})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching table"})
				return
			}
			table = &t
			order.Table_id = req.Table_id
			order.Table_number = &t.Table_number
		}
		if req.Type == models.OrderTypeOnline {
			order.Platform = req.Platform
			order.Payment_method = "online"
		}

		orderNumber, err := orderStore.NextOrderNumber(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while assigning order number"})
			return
		}
		order.Order_number = orderNumber
		order.ComputeTotals()

		if err := orderStore.Insert(ctx, &order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while creating order"})
			return
		}

		kitchenItems := make([]interface{}, 0, len(order.Items))
		for _, line := range order.Items {
			id := primitive.NewObjectID()
			kitchenItems = append(kitchenItems, models.KitchenItem{
				ID:              id,
				Kitchen_item_id: id.Hex(),
				Order_id:        order.Order_id,
				Order_number:    order.Order_number,
				Order_item_id:   line.ID.Hex(),
				Table_number:    order.Table_number,
				Item_name:       line.Name,
				Quantity:        line.Quantity,
				Status:          models.KitchenStatusQueued,
				Notes:           line.Notes,
				Is_online:       order.Type == models.OrderTypeOnline,
				Platform:        order.Platform,
				Created_at:      now,
				Updated_at:      now,
			})
		}
		if _, err := kitchenItemCollection.InsertMany(ctx, kitchenItems); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while creating kitchen items"})
			return
		}

		if table != nil {
			_, err := tableCollection.UpdateOne(ctx,
				bson.M{"table_id": table.Table_id},
				bson.M{"$set": bson.M{"status": models.TableOccupied, "current_order_id": order.Order_id, "updated_at": now}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while occupying table"})
				return
			}
			Hub.Broadcast(events.EventTableUpdated, gin.H{"table_id": table.Table_id})
		}

		Hub.Broadcast(events.EventNewOrder, order)
		Hub.Broadcast(events.EventKitchenUpdated, gin.H{"type": "new-items", "order_id": order.Order_id})
		c.JSON(http.StatusCreated, order)
	}
}

// UpdateOrderStatus moves an order through its lifecycle. Completing or
// cancelling a dine-in order releases its table; platform orders also push
// the new status back to the originating platform, best-effort.
// PATCH /api/orders/:order_id/status (edit_order / cancel_order).
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Status string `json:"status"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !isValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status"})
			return
		}

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}

		now := time.Now().UTC()
		if _, err := orderCollection.UpdateOne(ctx,
			bson.M{"order_id": order.Order_id},
			bson.M{"$set": bson.M{"status": req.Status, "updated_at": now}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating order"})
			return
		}
		order.Status = req.Status
		order.Updated_at = now

		if (req.Status == models.OrderStatusCompleted || req.Status == models.OrderStatusCancelled) && order.Table_id != nil {
			_, err := tableCollection.UpdateOne(ctx,
				bson.M{"table_id": *order.Table_id},
				bson.M{"$set": bson.M{"status": models.TableAvailable, "current_order_id": nil, "updated_at": now}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while releasing table"})
				return
			}
			Hub.Broadcast(events.EventTableUpdated, gin.H{"table_id": *order.Table_id})
		}

		Hub.Broadcast(events.EventOrderUpdated, order)

		if order.Platform != "" && order.Platform_order_id != "" {
			statusCallback.NotifyPlatformStatus(order.Platform, order.Platform_order_id, order.Status, nil)
		}

		c.JSON(http.StatusOK, order)
	}
}

// AcceptOnlineOrder is the manual counterpart of auto-accept: moves a
// platform order to preparing and notifies the platform.
// POST /api/orders/:order_id/accept (accept_online_orders).
func AcceptOnlineOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		if order.Type != models.OrderTypeOnline {
			c.JSON(http.StatusBadRequest, gin.H{"message": "not an online order"})
			return
		}

		now := time.Now().UTC()
		if _, err := orderCollection.UpdateOne(ctx,
			bson.M{"order_id": order.Order_id},
			bson.M{"$set": bson.M{"status": models.OrderStatusPreparing, "updated_at": now}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while accepting order"})
			return
		}
		order.Status = models.OrderStatusPreparing
		order.Updated_at = now

		Hub.Broadcast(events.EventOrderUpdated, order)
		if order.Platform != "" && order.Platform_order_id != "" {
			statusCallback.NotifyPlatformStatus(order.Platform, order.Platform_order_id, models.OrderStatusPreparing, nil)
		}
		c.JSON(http.StatusOK, order)
	}
}

// AddItemsToOrder appends line items to an existing order, recomputes its
// totals and creates kitchen items for the additions.
// POST /api/orders/:order_id/items (edit_order).
func AddItemsToOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Items []models.OrderItem `json:"items"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no items to add"})
			return
		}

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}

		now := time.Now().UTC()
		for i := range req.Items {
			req.Items[i].ID = primitive.NewObjectID()
			if req.Items[i].Kitchen_status == "" {
				req.Items[i].Kitchen_status = models.KitchenStatusQueued
			}
			if validationErr := validate.Struct(&req.Items[i]); validationErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
				return
			}
		}
		order.Items = append(order.Items, req.Items...)
		order.ComputeTotals()
		order.Updated_at = now

		if _, err := orderCollection.UpdateOne(ctx,
			bson.M{"order_id": order.Order_id},
			bson.M{"$set": bson.M{
				"items":      order.Items,
				"subtotal":   order.Subtotal,
				"tax":        order.Tax,
				"total":      order.Total,
				"updated_at": now,
			}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating order"})
			return
		}

		kitchenItems := make([]interface{}, 0, len(req.Items))
		for _, line := range req.Items {
			id := primitive.NewObjectID()
			kitchenItems = append(kitchenItems, models.KitchenItem{
				ID:              id,
				Kitchen_item_id: id.Hex(),
				Order_id:        order.Order_id,
				Order_number:    order.Order_number,
				Order_item_id:   line.ID.Hex(),
				Table_number:    order.Table_number,
				Item_name:       line.Name,
				Quantity:        line.Quantity,
				Status:          models.KitchenStatusQueued,
				Notes:           line.Notes,
				Is_online:       order.Type == models.OrderTypeOnline,
				Platform:        order.Platform,
				Created_at:      now,
				Updated_at:      now,
			})
		}
		if _, err := kitchenItemCollection.InsertMany(ctx, kitchenItems); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while creating kitchen items"})
			return
		}

		Hub.Broadcast(events.EventOrderUpdated, order)
		Hub.Broadcast(events.EventKitchenUpdated, gin.H{"type": "new-items", "order_id": order.Order_id})
		c.JSON(http.StatusOK, order)
	}
}

// ProcessPayment settles an order: records method and discount, marks it
// paid and completed, recomputes totals and releases the table.
// POST /api/orders/:order_id/payment (process_payment).
func ProcessPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Payment_method string  `json:"payment_method"`
			Discount       float64 `json:"discount"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Payment_method == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "payment_method is required"})
			return
		}

		order, err := findOrder(ctx, c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}

		now := time.Now().UTC()
		order.Payment_method = req.Payment_method
		order.Payment_status = models.PaymentStatusPaid
		order.Status = models.OrderStatusCompleted
		if req.Discount > 0 {
			order.Discount = req.Discount
		}
		order.ComputeTotals()
		order.Updated_at = now

		if _, err := orderCollection.UpdateOne(ctx,
			bson.M{"order_id": order.Order_id},
			bson.M{"$set": bson.M{
				"payment_method": order.Payment_method,
				"payment_status": order.Payment_status,
				"status":         order.Status,
				"discount":       order.Discount,
				"subtotal":       order.Subtotal,
				"tax":            order.Tax,
				"total":          order.Total,
				"updated_at":     now,
			}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while processing payment"})
			return
		}

		if order.Table_id != nil {
			_, err := tableCollection.UpdateOne(ctx,
				bson.M{"table_id": *order.Table_id},
				bson.M{"$set": bson.M{"status": models.TableAvailable, "current_order_id": nil, "updated_at": now}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while releasing table"})
				return
			}
			Hub.Broadcast(events.EventTableUpdated, gin.H{"table_id": *order.Table_id})
		}

		Hub.Broadcast(events.EventOrderUpdated, order)
		c.JSON(http.StatusOK, order)
	}
}

// GetKitchenItems lists the queue the kitchen display works from.
// GET /api/orders/kitchen (view_kitchen).
func GetKitchenItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := kitchenItemCollection.Find(ctx,
			bson.M{"status": bson.M{"$in": []string{models.KitchenStatusQueued, models.KitchenStatusCooking}}},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "priority", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing kitchen items"})
			return
		}
		var items []models.KitchenItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing kitchen items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// UpdateKitchenItemStatus advances one kitchen item through queued → cooking
// → ready, mirrors the change onto the order's line item, and, when this was
// the last item still not ready, derives the order's own "ready" transition.
// PATCH /api/orders/kitchen/:kitchen_item_id/status (update_kitchen_status).
func UpdateKitchenItemStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Status string `json:"status"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Status != models.KitchenStatusQueued && req.Status != models.KitchenStatusCooking && req.Status != models.KitchenStatusReady {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid kitchen status"})
			return
		}

		now := time.Now().UTC()
		var item models.KitchenItem
		err := kitchenItemCollection.FindOneAndUpdate(ctx,
			bson.M{"kitchen_item_id": c.Param("kitchen_item_id")},
			bson.M{"$set": bson.M{"status": req.Status, "updated_at": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "kitchen item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while updating kitchen item"})
			return
		}

		if item.Order_item_id != "" {
			if itemID, err := primitive.ObjectIDFromHex(item.Order_item_id); err == nil {
				_, _ = orderCollection.UpdateOne(ctx,
					bson.M{"order_id": item.Order_id, "items._id": itemID},
					bson.M{"$set": bson.M{"items.$.kitchen_status": req.Status, "updated_at": now}})
			}
		}

		// The order's "ready" is derived: it flips exactly when the last
		// non-ready kitchen item for the order becomes ready.
		if req.Status == models.KitchenStatusReady {
			if _, err := readyAggregator.OnKitchenItemReady(ctx, item.Order_id); err != nil {
				log.Printf("ready aggregation for order %s: %v", item.Order_id, err)
			}
		}

		Hub.Broadcast(events.EventKitchenUpdated, gin.H{"type": "status-change", "item": item})
		c.JSON(http.StatusOK, item)
	}
}

func isValidOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusPreparing, models.OrderStatusReady,
		models.OrderStatusServed, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	return false
}
