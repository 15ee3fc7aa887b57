package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testInternalToken = "test-internal-token"

type MockBadgeService struct {
	mock.Mock
}

func (m *MockBadgeService) CheckAndAward(ctx context.Context, userID string) (*entity.CheckResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckResponse), args.Error(1)
}

func (m *MockBadgeService) GetUserBadges(ctx context.Context, userID string) (*entity.UserBadgesResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserBadgesResponse), args.Error(1)
}

type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) TopReviewers(ctx context.Context, limit int) (*entity.LeaderboardResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeaderboardResponse), args.Error(1)
}

func setupRouter(badgeSvc *MockBadgeService, leaderboardSvc *MockLeaderboardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAchievementHandler(badgeSvc, leaderboardSvc)
	internalAuth := NewInternalAuthMiddleware(testInternalToken)
	return SetupRoutes(h, internalAuth)
}

func TestCheckAchievements_RequiresInternalToken(t *testing.T) {
	badgeSvc := new(MockBadgeService)
	router := setupRouter(badgeSvc, new(MockLeaderboardService))

	body, _ := json.Marshal(entity.CheckRequest{UserID: "user-1"})
	req, _ := http.NewRequest(http.MethodPost, "/achievements/check", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	badgeSvc.AssertNotCalled(t, "CheckAndAward")
}

func TestCheckAchievements_Success(t *testing.T) {
	badgeSvc := new(MockBadgeService)
	router := setupRouter(badgeSvc, new(MockLeaderboardService))

	badgeSvc.On("CheckAndAward", mock.Anything, "user-1").Return(&entity.CheckResponse{
		UserID: "user-1",
		NewlyAwarded: []entity.AwardedBadge{
			{Badge: entity.Badge{ID: "first-review", Group: entity.BadgeGroupMilestone}, AwardedAt: time.Now()},
		},
	}, nil)

	body, _ := json.Marshal(entity.CheckRequest{UserID: "user-1"})
	req, _ := http.NewRequest(http.MethodPost, "/achievements/check", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Token", testInternalToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.NewlyAwarded, 1)
}

func TestCheckAchievements_MissingUserID(t *testing.T) {
	badgeSvc := new(MockBadgeService)
	router := setupRouter(badgeSvc, new(MockLeaderboardService))

	body, _ := json.Marshal(entity.CheckRequest{})
	req, _ := http.NewRequest(http.MethodPost, "/achievements/check", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Token", testInternalToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	badgeSvc.AssertNotCalled(t, "CheckAndAward")
}

func TestGetUserBadges_Success(t *testing.T) {
	badgeSvc := new(MockBadgeService)
	router := setupRouter(badgeSvc, new(MockLeaderboardService))

	badgeSvc.On("GetUserBadges", mock.Anything, "user-1").Return(&entity.UserBadgesResponse{
		UserID: "user-1",
		Badges: []entity.AwardedBadge{},
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/users/user-1/badges", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetLeaderboard_PassesLimit(t *testing.T) {
	leaderboardSvc := new(MockLeaderboardService)
	router := setupRouter(new(MockBadgeService), leaderboardSvc)

	leaderboardSvc.On("TopReviewers", mock.Anything, 5).Return(&entity.LeaderboardResponse{
		Reviewers:   []entity.RankedReviewer{},
		GeneratedAt: time.Now(),
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/leaderboard/reviewers?limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	leaderboardSvc.AssertCalled(t, "TopReviewers", mock.Anything, 5)
}

func TestGetLeaderboard_InvalidLimit(t *testing.T) {
	leaderboardSvc := new(MockLeaderboardService)
	router := setupRouter(new(MockBadgeService), leaderboardSvc)

	req, _ := http.NewRequest(http.MethodGet, "/leaderboard/reviewers?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	leaderboardSvc.AssertNotCalled(t, "TopReviewers")
}
