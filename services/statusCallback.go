package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/balamurugesan03/Kotbilling/models"
)

// callbackTimeout bounds each outbound platform call. Delivery is
// at-most-once: a timed-out or failed call is logged and not retried.
const callbackTimeout = 10 * time.Second

// statusActions maps an internal order status to the platform-side action.
// Statuses with no entry (pending, served) produce no outbound call.
var statusActions = map[string]string{
	models.OrderStatusPreparing: "accept",
	models.OrderStatusReady:     "ready",
	models.OrderStatusCompleted: "pickedUp",
	models.OrderStatusCancelled: "cancel",
}

// platformEndpoints holds each platform's path template per logical action.
// {orderId} is substituted with the platform's own order identifier.
var platformEndpoints = map[string]map[string]string{
	models.PlatformSwiggy: {
		"accept":   "/api/v1/orders/{orderId}/accept",
		"ready":    "/api/v1/orders/{orderId}/ready",
		"pickedUp": "/api/v1/orders/{orderId}/picked-up",
		"cancel":   "/api/v1/orders/{orderId}/cancel",
		"menuSync": "/api/v1/menu/sync",
	},
	models.PlatformZomato: {
		"accept":   "/api/v1/orders/{orderId}/accept",
		"ready":    "/api/v1/orders/{orderId}/food-ready",
		"pickedUp": "/api/v1/orders/{orderId}/picked-up",
		"cancel":   "/api/v1/orders/{orderId}/cancel",
		"menuSync": "/api/v1/menu/push",
	},
}

// CallbackResult is the local disposition of a notification attempt. It says
// whether a call was initiated, never whether the remote call succeeded.
type CallbackResult struct {
	Dispatched bool   `json:"dispatched"`
	Action     string `json:"action,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// StatusCallback notifies external platforms of internal order status
// transitions. Calls are fired on detached goroutines so a slow or dead
// platform can never block the staff action or webhook response that
// triggered the notification.
type StatusCallback struct {
	configs ConfigStore
	client  *http.Client
	wg      sync.WaitGroup
}

func NewStatusCallback(configs ConfigStore) *StatusCallback {
	return &StatusCallback{
		configs: configs,
		client:  &http.Client{Timeout: callbackTimeout},
	}
}

// NotifyPlatformStatus maps the status to a platform action and fires the
// HTTP notification in the background. It returns as soon as the call has
// been initiated; the call's outcome is logged, never propagated.
func (s *StatusCallback) NotifyPlatformStatus(platform, platformOrderID, status string, extra map[string]interface{}) CallbackResult {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	config, err := s.configs.GetConfig(ctx, platform)
	if err != nil {
		log.Printf("status callback: %s config lookup failed: %v", platform, err)
		return CallbackResult{Dispatched: false, Reason: "error"}
	}
	if config == nil || !config.Is_enabled || config.Platform_base_url == "" {
		return CallbackResult{Dispatched: false, Reason: "not_configured"}
	}

	action, ok := statusActions[status]
	if !ok {
		return CallbackResult{Dispatched: false, Reason: "unmapped_status"}
	}

	endpoint, ok := platformEndpoints[platform][action]
	if !ok {
		return CallbackResult{Dispatched: false, Reason: "no_endpoint"}
	}
	url := config.Platform_base_url + strings.Replace(endpoint, "{orderId}", platformOrderID, 1)

	payload := map[string]interface{}{
		"order_id":  platformOrderID,
		"status":    action,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		payload[k] = v
	}
	if action == "accept" && config.Default_prep_time > 0 {
		payload["preparation_time"] = config.Default_prep_time
	}

	s.wg.Add(1)
	go s.deliver(platform, action, platformOrderID, url, config.Api_key, config.Store_id, payload)

	return CallbackResult{Dispatched: true, Action: action}
}

func (s *StatusCallback) deliver(platform, action, platformOrderID, url, apiKey, storeID string, payload map[string]interface{}) {
	defer s.wg.Done()

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("status callback: %s %s for %s: marshal failed: %v", platform, action, platformOrderID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("status callback: %s %s for %s: %v", platform, action, platformOrderID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("X-Store-Id", storeID)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("status callback: %s %s for %s failed: %v", platform, action, platformOrderID, err)
		return
	}
	defer resp.Body.Close()
	log.Printf("status callback: %s %s for %s: %s", platform, action, platformOrderID, resp.Status)
}

// Wait blocks until all in-flight notifications have finished. Used on
// shutdown and in tests.
func (s *StatusCallback) Wait() {
	s.wg.Wait()
}

// TestPlatformConnection validates that the credentials required for
// outbound calls are present and records the derived connection status.
func (s *StatusCallback) TestPlatformConnection(ctx context.Context, platform string) (bool, string, error) {
	config, err := s.configs.GetConfig(ctx, platform)
	if err != nil {
		return false, "", err
	}
	if config == nil || config.Api_key == "" {
		return false, "Missing API credentials", nil
	}

	hasCredentials := config.Api_key != "" && config.Store_id != ""
	status := models.ConnectionError
	message := "Missing store ID or API key"
	if hasCredentials {
		status = models.ConnectionConnected
		message = "Credentials configured"
	}

	if err := s.configs.SetConnectionStatus(ctx, platform, status); err != nil {
		return false, "", err
	}
	return hasCredentials, message, nil
}
