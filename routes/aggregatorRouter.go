package routes

import (
	controller "github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/middleware"
	"github.com/gin-gonic/gin"
)

// AggregatorWebhookRoutes are public: the platforms authenticate with an
// HMAC signature on the body, not with a staff token.
func AggregatorWebhookRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/api/aggregator/webhook/swiggy", controller.HandleSwiggyWebhook())
	incomingRoutes.POST("/api/aggregator/webhook/zomato", controller.HandleZomatoWebhook())
}

func AggregatorRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/aggregator/config",
		middleware.RequirePermission(middleware.PermManageAggregators), controller.GetAllConfigs())
	incomingRoutes.GET("/api/aggregator/config/:platform",
		middleware.RequirePermission(middleware.PermManageAggregators), controller.GetConfig())
	incomingRoutes.PUT("/api/aggregator/config/:platform",
		middleware.RequirePermission(middleware.PermManageAggregators), controller.UpsertConfig())
	incomingRoutes.POST("/api/aggregator/config/:platform/test",
		middleware.RequirePermission(middleware.PermManageAggregators), controller.TestConnection())
	incomingRoutes.GET("/api/aggregator/menu/:platform",
		middleware.RequirePermission(middleware.PermManageAggregators), controller.GetMenuWithOverrides())
	incomingRoutes.PUT("/api/aggregator/menu/:platform/overrides",
		middleware.RequirePermission(middleware.PermManageAggregators), controller.SaveMenuOverrides())
	incomingRoutes.POST("/api/aggregator/menu/:platform/sync",
		middleware.RequirePermission(middleware.PermManageAggregators), controller.SyncMenuToPlatform())
	incomingRoutes.GET("/api/aggregator/analytics",
		middleware.RequirePermission(middleware.PermViewAggregatorStats), controller.GetAggregatorAnalytics())
	incomingRoutes.POST("/api/aggregator/orders/:order_id/notify",
		middleware.RequirePermission(middleware.PermAcceptOnlineOrders), controller.NotifyStatusChange())
}
