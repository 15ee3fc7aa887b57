package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/entity"
)

const (
	internalTokenHeader = "X-Internal-Token"
	clientMaxAttempts   = 3
)

// StatsClient клиент для служебных endpoints Reviews Service
// Используется для пересчёта агрегатов после событий отзывов
type StatsClient struct {
	baseURL       string
	internalToken string
	httpClient    *http.Client
}

// NewStatsClient создает новый клиент для Reviews Service
func NewStatsClient(baseURL, internalToken string, timeoutSec int) *StatsClient {
	return &StatsClient{
		baseURL:       baseURL,
		internalToken: internalToken,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// RecomputeBusinessStats запускает пересчёт агрегатов одного бизнеса
func (c *StatsClient) RecomputeBusinessStats(ctx context.Context, businessID string) (*entity.RecomputeResult, error) {
	url := fmt.Sprintf("%s/internal/stats/%s/recompute", c.baseURL, businessID)

	body, err := c.doWithRetry(ctx, http.MethodPost, url)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute stats for business %s: %w", businessID, err)
	}

	var result entity.RecomputeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode recompute response: %w", err)
	}

	return &result, nil
}

// RecomputeAllStats запускает полный пересчёт всех видимых бизнесов
func (c *StatsClient) RecomputeAllStats(ctx context.Context) (*entity.SweepResult, error) {
	url := c.baseURL + "/internal/stats/recompute-all"

	body, err := c.doWithRetry(ctx, http.MethodPost, url)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute all stats: %w", err)
	}

	// Reviews Service оборачивает результат в success envelope
	var envelope struct {
		Message string             `json:"message"`
		Data    entity.SweepResult `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode sweep response: %w", err)
	}

	return &envelope.Data, nil
}

// Ping проверяет доступность Reviews Service через health endpoint
func (c *StatsClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// doWithRetry выполняет запрос с ограниченным числом повторов
// Повторяем только сетевые ошибки и 5xx, клиентские ошибки возвращаем сразу
func (c *StatsClient) doWithRetry(ctx context.Context, method, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= clientMaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set(internalTokenHeader, c.internalToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()

			if readErr != nil {
				lastErr = readErr
			} else if resp.StatusCode >= http.StatusInternalServerError {
				lastErr = fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
			} else if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			} else {
				return body, nil
			}
		}

		if attempt < clientMaxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", clientMaxAttempts, lastErr)
}
