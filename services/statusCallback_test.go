package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigStore struct {
	mu       sync.Mutex
	configs  map[string]*models.AggregatorConfig
	statuses map[string]string
}

func (f *fakeConfigStore) GetConfig(ctx context.Context, platform string) (*models.AggregatorConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configs[platform], nil
}

func (f *fakeConfigStore) SetConnectionStatus(ctx context.Context, platform, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[platform] = status
	return nil
}

type capturedRequest struct {
	method  string
	path    string
	headers http.Header
	body    map[string]interface{}
}

func newCaptureServer(t *testing.T) (*httptest.Server, *[]capturedRequest, *sync.Mutex) {
	t.Helper()
	var mu sync.Mutex
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		mu.Lock()
		captured = append(captured, capturedRequest{
			method:  r.Method,
			path:    r.URL.Path,
			headers: r.Header.Clone(),
			body:    body,
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &captured, &mu
}

func TestNotifyPlatformStatusDispatchesAccept(t *testing.T) {
	server, captured, mu := newCaptureServer(t)
	configs := &fakeConfigStore{configs: map[string]*models.AggregatorConfig{
		models.PlatformSwiggy: {
			Platform:          models.PlatformSwiggy,
			Is_enabled:        true,
			Api_key:           "swiggy-key",
			Store_id:          "store-42",
			Default_prep_time: 25,
			Platform_base_url: server.URL,
		},
	}}
	callback := NewStatusCallback(configs)

	result := callback.NotifyPlatformStatus(models.PlatformSwiggy, "SWG-1001", models.OrderStatusPreparing, nil)
	callback.Wait()

	assert.True(t, result.Dispatched)
	assert.Equal(t, "accept", result.Action)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/v1/orders/SWG-1001/accept", req.path)
	assert.Equal(t, "Bearer swiggy-key", req.headers.Get("Authorization"))
	assert.Equal(t, "store-42", req.headers.Get("X-Store-Id"))
	assert.Equal(t, "application/json", req.headers.Get("Content-Type"))
	assert.Equal(t, "SWG-1001", req.body["order_id"])
	assert.Equal(t, "accept", req.body["status"])
	assert.Equal(t, 25.0, req.body["preparation_time"], "accept carries the configured prep time")
	assert.NotEmpty(t, req.body["timestamp"])
}

func TestNotifyPlatformStatusZomatoReadyPath(t *testing.T) {
	server, captured, mu := newCaptureServer(t)
	configs := &fakeConfigStore{configs: map[string]*models.AggregatorConfig{
		models.PlatformZomato: {
			Platform:          models.PlatformZomato,
			Is_enabled:        true,
			Api_key:           "zomato-key",
			Platform_base_url: server.URL,
		},
	}}
	callback := NewStatusCallback(configs)

	result := callback.NotifyPlatformStatus(models.PlatformZomato, "ZOM-7", models.OrderStatusReady, nil)
	callback.Wait()

	assert.True(t, result.Dispatched)
	assert.Equal(t, "ready", result.Action)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/api/v1/orders/ZOM-7/food-ready", req.path)
	_, hasPrepTime := req.body["preparation_time"]
	assert.False(t, hasPrepTime, "only accept carries the prep time")
}

func TestNotifyPlatformStatusExtraData(t *testing.T) {
	server, captured, mu := newCaptureServer(t)
	configs := &fakeConfigStore{configs: map[string]*models.AggregatorConfig{
		models.PlatformSwiggy: {
			Platform:          models.PlatformSwiggy,
			Is_enabled:        true,
			Platform_base_url: server.URL,
		},
	}}
	callback := NewStatusCallback(configs)

	result := callback.NotifyPlatformStatus(models.PlatformSwiggy, "SWG-2", models.OrderStatusCancelled,
		map[string]interface{}{"reason": "out of stock"})
	callback.Wait()

	assert.True(t, result.Dispatched)
	assert.Equal(t, "cancel", result.Action)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *captured, 1)
	assert.Equal(t, "out of stock", (*captured)[0].body["reason"])
}

func TestNotifyPlatformStatusSkipsWhenNotConfigured(t *testing.T) {
	callback := NewStatusCallback(&fakeConfigStore{configs: map[string]*models.AggregatorConfig{
		models.PlatformZomato: {Platform: models.PlatformZomato, Is_enabled: false, Platform_base_url: "http://example.com"},
	}})

	result := callback.NotifyPlatformStatus(models.PlatformSwiggy, "SWG-3", models.OrderStatusReady, nil)
	assert.False(t, result.Dispatched)
	assert.Equal(t, "not_configured", result.Reason)

	result = callback.NotifyPlatformStatus(models.PlatformZomato, "ZOM-3", models.OrderStatusReady, nil)
	assert.False(t, result.Dispatched)
	assert.Equal(t, "not_configured", result.Reason)
}

func TestNotifyPlatformStatusUnmappedStatus(t *testing.T) {
	callback := NewStatusCallback(&fakeConfigStore{configs: map[string]*models.AggregatorConfig{
		models.PlatformSwiggy: {
			Platform:          models.PlatformSwiggy,
			Is_enabled:        true,
			Platform_base_url: "http://example.com",
		},
	}})

	result := callback.NotifyPlatformStatus(models.PlatformSwiggy, "SWG-4", models.OrderStatusServed, nil)
	assert.False(t, result.Dispatched)
	assert.Equal(t, "unmapped_status", result.Reason)
}

func TestTestPlatformConnection(t *testing.T) {
	configs := &fakeConfigStore{configs: map[string]*models.AggregatorConfig{
		models.PlatformSwiggy: {Platform: models.PlatformSwiggy, Api_key: "key", Store_id: "store"},
		models.PlatformZomato: {Platform: models.PlatformZomato, Api_key: "key"},
	}}
	callback := NewStatusCallback(configs)

	connected, message, err := callback.TestPlatformConnection(context.Background(), models.PlatformSwiggy)
	require.NoError(t, err)
	assert.True(t, connected)
	assert.Equal(t, "Credentials configured", message)
	assert.Equal(t, models.ConnectionConnected, configs.statuses[models.PlatformSwiggy])

	connected, _, err = callback.TestPlatformConnection(context.Background(), models.PlatformZomato)
	require.NoError(t, err)
	assert.False(t, connected, "store id is required")
	assert.Equal(t, models.ConnectionError, configs.statuses[models.PlatformZomato])
}
