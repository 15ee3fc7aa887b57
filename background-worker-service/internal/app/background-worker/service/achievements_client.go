package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/entity"
)

// AchievementsClient клиент для служебного endpoint Achievements Service
// Запускает проверку и выдачу значков после событий отзывов
type AchievementsClient struct {
	baseURL       string
	internalToken string
	httpClient    *http.Client
}

// NewAchievementsClient создает новый клиент для Achievements Service
func NewAchievementsClient(baseURL, internalToken string, timeoutSec int) *AchievementsClient {
	return &AchievementsClient{
		baseURL:       baseURL,
		internalToken: internalToken,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// CheckAchievements запускает проверку значков для пользователя
// Endpoint идемпотентный: повторный вызов вернет пустой список NewlyAwarded
func (c *AchievementsClient) CheckAchievements(ctx context.Context, userID string) (*entity.CheckResult, error) {
	payload, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal check request: %w", err)
	}

	var lastErr error

	for attempt := 1; attempt <= clientMaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/achievements/check", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
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
				var result entity.CheckResult
				if err := json.Unmarshal(body, &result); err != nil {
					return nil, fmt.Errorf("failed to decode check response: %w", err)
				}
				return &result, nil
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

	return nil, fmt.Errorf("check achievements failed after %d attempts: %w", clientMaxAttempts, lastErr)
}

// Ping проверяет доступность Achievements Service через health endpoint
func (c *AchievementsClient) Ping(ctx context.Context) error {
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
