//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseURL = getEnv("REVIEWS_BASE_URL", "http://localhost:8083")

// Токен живого стенда и бизнес из каталога задаются окружением
var (
	authToken      = os.Getenv("E2E_AUTH_TOKEN")
	testBusinessID = os.Getenv("E2E_BUSINESS_ID")
)

func getAuthHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	if authToken != "" {
		headers.Set("Authorization", "Bearer "+authToken)
	}
	return headers
}

func TestFullReviewFlow(t *testing.T) {
	if testBusinessID == "" {
		t.Skip("E2E_BUSINESS_ID not set")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	// Create
	createReq := entity.CreateReviewRequest{
		BusinessID: testBusinessID,
		Rating:     4,
		Body:       "Solid experience, they showed up right on time.",
		Tags:       []string{"punctuality"},
	}
	body, _ := json.Marshal(createReq)

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/reviews", bytes.NewBuffer(body))
	req.Header = getAuthHeaders()

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created entity.SubmitReviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	reviewID := created.Review.ID.Hex()

	defer func() {
		req, _ := http.NewRequest(http.MethodDelete, baseURL+"/reviews/"+reviewID, nil)
		req.Header = getAuthHeaders()
		resp, _ := client.Do(req)
		if resp != nil {
			resp.Body.Close()
		}
	}()

	// Статистика в ответе уже учитывает свежий отзыв
	assert.GreaterOrEqual(t, created.Stats.TotalReviews, 1)

	// Helpful vote
	voteReq, _ := http.NewRequest(http.MethodPost, baseURL+"/reviews/"+reviewID+"/helpful", nil)
	voteResp, err := client.Do(voteReq)
	require.NoError(t, err)
	defer voteResp.Body.Close()

	assert.Equal(t, http.StatusOK, voteResp.StatusCode)

	// Stats endpoint с перцентилями
	statsReq, _ := http.NewRequest(http.MethodGet, baseURL+"/businesses/"+testBusinessID+"/stats", nil)
	statsResp, err := client.Do(statsReq)
	require.NoError(t, err)
	defer statsResp.Body.Close()

	assert.Equal(t, http.StatusOK, statsResp.StatusCode)

	var stats entity.BusinessStatsResponse
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	assert.GreaterOrEqual(t, stats.TotalReviews, 1)
	assert.Len(t, stats.Percentiles, 4)
}

func TestHealthEndpoint(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(baseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
