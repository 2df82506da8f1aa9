package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(models.RoleAdmin, PermManageAggregators))
	assert.True(t, HasPermission(models.RoleAdmin, PermManageUsers))
	assert.True(t, HasPermission(models.RoleManager, PermManageAggregators))
	assert.True(t, HasPermission(models.RoleManager, PermViewAggregatorStats))
	assert.True(t, HasPermission(models.RoleCashier, PermAcceptOnlineOrders))
	assert.True(t, HasPermission(models.RoleKitchen, PermUpdateKitchenStatus))
	assert.True(t, HasPermission(models.RoleKitchen, PermViewOnlineOrders))

	assert.False(t, HasPermission(models.RoleManager, PermManageUsers))
	assert.False(t, HasPermission(models.RoleCashier, PermManageAggregators))
	assert.False(t, HasPermission(models.RoleWaiter, PermUpdateKitchenStatus))
	assert.False(t, HasPermission(models.RoleKitchen, PermProcessPayment))
	assert.False(t, HasPermission("unknown", PermViewDashboard))
	assert.False(t, HasPermission("", PermViewDashboard))
}

func TestPermissionsForRole(t *testing.T) {
	kitchen := PermissionsForRole(models.RoleKitchen)
	assert.ElementsMatch(t, []string{PermViewKitchen, PermUpdateKitchenStatus, PermViewOnlineOrders}, kitchen)

	// The returned slice is a copy; mutating it must not poison the table.
	kitchen[0] = "mutated"
	assert.True(t, HasPermission(models.RoleKitchen, PermViewKitchen))

	assert.Empty(t, PermissionsForRole("unknown"))
}

func permissionRequest(t *testing.T, role string, permissions ...string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded", func(c *gin.Context) {
		if role != "" {
			c.Set("user_role", role)
		}
		c.Next()
	}, RequirePermission(permissions...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRequirePermissionAllows(t *testing.T) {
	recorder := permissionRequest(t, models.RoleManager, PermManageAggregators)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequirePermissionAllowsAnyOf(t *testing.T) {
	recorder := permissionRequest(t, models.RoleKitchen, PermProcessPayment, PermViewKitchen)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequirePermissionForbids(t *testing.T) {
	recorder := permissionRequest(t, models.RoleWaiter, PermManageAggregators)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequirePermissionNeedsRole(t *testing.T) {
	recorder := permissionRequest(t, "", PermViewDashboard)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
