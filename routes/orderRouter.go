package routes

import (
	controller "github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/orders",
		middleware.RequirePermission(middleware.PermCreateOrder, middleware.PermViewBilling), controller.GetOrders())
	incomingRoutes.GET("/api/orders/online",
		middleware.RequirePermission(middleware.PermViewOnlineOrders), controller.GetOnlineOrders())
	incomingRoutes.GET("/api/orders/kitchen",
		middleware.RequirePermission(middleware.PermViewKitchen), controller.GetKitchenItems())
	incomingRoutes.PATCH("/api/orders/kitchen/:kitchen_item_id/status",
		middleware.RequirePermission(middleware.PermUpdateKitchenStatus), controller.UpdateKitchenItemStatus())
	incomingRoutes.GET("/api/orders/:order_id",
		middleware.RequirePermission(middleware.PermCreateOrder, middleware.PermViewBilling), controller.GetOrder())
	incomingRoutes.POST("/api/orders",
		middleware.RequirePermission(middleware.PermCreateOrder), controller.CreateOrder())
	incomingRoutes.PATCH("/api/orders/:order_id/status",
		middleware.RequirePermission(middleware.PermEditOrder, middleware.PermCancelOrder), controller.UpdateOrderStatus())
	incomingRoutes.POST("/api/orders/:order_id/accept",
		middleware.RequirePermission(middleware.PermAcceptOnlineOrders), controller.AcceptOnlineOrder())
	incomingRoutes.POST("/api/orders/:order_id/items",
		middleware.RequirePermission(middleware.PermEditOrder), controller.AddItemsToOrder())
	incomingRoutes.POST("/api/orders/:order_id/payment",
		middleware.RequirePermission(middleware.PermProcessPayment), controller.ProcessPayment())
}
