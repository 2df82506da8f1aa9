package middleware

import (
	"net/http"

	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/gin-gonic/gin"
)

// Capability names. These gate the administrative surfaces; the public
// webhook endpoints are authenticated by signature instead.
const (
	PermViewDashboard       = "view_dashboard"
	PermViewTables          = "view_tables"
	PermManageTables        = "manage_tables"
	PermCreateOrder         = "create_order"
	PermEditOrder           = "edit_order"
	PermCancelOrder         = "cancel_order"
	PermViewBilling         = "view_billing"
	PermProcessPayment      = "process_payment"
	PermViewKitchen         = "view_kitchen"
	PermUpdateKitchenStatus = "update_kitchen_status"
	PermViewOnlineOrders    = "view_online_orders"
	PermAcceptOnlineOrders  = "accept_online_orders"
	PermViewReports         = "view_reports"
	PermManageMenu          = "manage_menu"
	PermManageInventory     = "manage_inventory"
	PermManageUsers         = "manage_users"
	PermManageSettings      = "manage_settings"
	PermManageAggregators   = "manage_aggregators"
	PermViewAggregatorStats = "view_aggregator_stats"
)

var allPermissions = []string{
	PermViewDashboard, PermViewTables, PermManageTables,
	PermCreateOrder, PermEditOrder, PermCancelOrder,
	PermViewBilling, PermProcessPayment,
	PermViewKitchen, PermUpdateKitchenStatus,
	PermViewOnlineOrders, PermAcceptOnlineOrders,
	PermViewReports, PermManageMenu, PermManageInventory,
	PermManageUsers, PermManageSettings,
	PermManageAggregators, PermViewAggregatorStats,
}

var rolePermissions = map[string][]string{
	models.RoleAdmin: allPermissions,
	models.RoleManager: {
		PermViewDashboard, PermViewTables, PermManageTables,
		PermCreateOrder, PermEditOrder, PermCancelOrder,
		PermViewBilling, PermProcessPayment,
		PermViewKitchen, PermUpdateKitchenStatus,
		PermViewOnlineOrders, PermAcceptOnlineOrders,
		PermViewReports, PermManageMenu, PermManageInventory,
		PermManageAggregators, PermViewAggregatorStats,
	},
	models.RoleCashier: {
		PermViewDashboard, PermViewBilling, PermProcessPayment,
		PermViewOnlineOrders, PermAcceptOnlineOrders,
	},
	models.RoleWaiter: {
		PermViewDashboard, PermViewTables, PermManageTables,
		PermCreateOrder, PermEditOrder,
		PermViewBilling, PermProcessPayment,
	},
	models.RoleKitchen: {
		PermViewKitchen, PermUpdateKitchenStatus, PermViewOnlineOrders,
	},
}

// PermissionsForRole returns the capability list a role carries, so the
// client can shape its UI after login.
func PermissionsForRole(role string) []string {
	permissions := rolePermissions[role]
	out := make([]string, len(permissions))
	copy(out, permissions)
	return out
}

// HasPermission reports whether a role carries a capability.
func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// RequirePermission allows callers whose role carries at least one of the
// given capabilities. Must run after Authentication.
func RequirePermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			c.Abort()
			return
		}
		for _, permission := range permissions {
			if HasPermission(role, permission) {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
		c.Abort()
	}
}
