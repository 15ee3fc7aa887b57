package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ===================== RecomputeBusinessStats Tests =====================

func TestRecomputeBusinessStats_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/stats/biz-1/recompute", r.URL.Path)
		assert.Equal(t, "secret-token", r.Header.Get("X-Internal-Token"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"business_id":   "biz-1",
			"total_reviews": 15,
		})
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "secret-token", 10)
	ctx := context.Background()

	// Act
	result, err := client.RecomputeBusinessStats(ctx, "biz-1")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "biz-1", result.BusinessID)
	assert.Equal(t, 15, result.TotalReviews)
}

func TestRecomputeBusinessStats_Retries5xx(t *testing.T) {
	// Временные 5xx ошибки повторяются до успеха
	// Arrange
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"business_id":   "biz-1",
			"total_reviews": 4,
		})
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "secret-token", 10)
	ctx := context.Background()

	// Act
	result, err := client.RecomputeBusinessStats(ctx, "biz-1")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 4, result.TotalReviews)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRecomputeBusinessStats_ExhaustedRetries(t *testing.T) {
	// Arrange
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "secret-token", 10)
	ctx := context.Background()

	// Act
	result, err := client.RecomputeBusinessStats(ctx, "biz-1")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRecomputeBusinessStats_Unauthorized_NoRetry(t *testing.T) {
	// Клиентские ошибки не повторяются
	// Arrange
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "wrong-token", 10)
	ctx := context.Background()

	// Act
	result, err := client.RecomputeBusinessStats(ctx, "biz-1")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "unexpected status code: 401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRecomputeBusinessStats_ConnectionRefused(t *testing.T) {
	// Arrange
	client := NewStatsClient("http://localhost:59999", "secret-token", 1)
	ctx := context.Background()

	// Act
	result, err := client.RecomputeBusinessStats(ctx, "biz-1")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
}

// ===================== RecomputeAllStats Tests =====================

func TestRecomputeAllStats_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/stats/recompute-all", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Stats recomputed",
			"data":    map[string]interface{}{"recomputed": 42},
		})
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "secret-token", 10)
	ctx := context.Background()

	// Act
	result, err := client.RecomputeAllStats(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 42, result.Recomputed)
}

func TestRecomputeAllStats_InvalidJSON(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json {{{"))
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "secret-token", 10)
	ctx := context.Background()

	// Act
	result, err := client.RecomputeAllStats(ctx)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to decode")
}

// ===================== Ping Tests =====================

func TestStatsClient_Ping_Healthy(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "secret-token", 10)

	// Act & Assert
	assert.NoError(t, client.Ping(context.Background()))
}

func TestStatsClient_Ping_Unhealthy(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewStatsClient(server.URL, "secret-token", 10)

	// Act & Assert
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewStatsClient(t *testing.T) {
	// Arrange & Act
	client := NewStatsClient("http://reviews:8083", "secret-token", 30)

	// Assert
	assert.NotNil(t, client)
	assert.Equal(t, "http://reviews:8083", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
