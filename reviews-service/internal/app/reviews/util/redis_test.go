package util

import (
	"context"
	"testing"
	"time"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// BusinessCacheTestSuite тестовый suite для Redis-кеша бизнесов
type BusinessCacheTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	cache     *RedisClient
}

func TestBusinessCacheSuite(t *testing.T) {
	suite.Run(t, new(BusinessCacheTestSuite))
}

func (s *BusinessCacheTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.cache = NewRedisClientFromExisting(s.client)
}

func (s *BusinessCacheTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *BusinessCacheTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *BusinessCacheTestSuite) testBusiness() *entity.Business {
	return &entity.Business{
		ID:       uuid.New(),
		Name:     "Corner Cafe",
		Category: "cafes",
		Visible:  true,
	}
}

func (s *BusinessCacheTestSuite) TestSetAndGet() {
	ctx := context.Background()
	business := s.testBusiness()

	err := s.cache.SetBusiness(ctx, business, 5*time.Minute)
	s.NoError(err)

	result, err := s.cache.GetBusiness(ctx, business.ID.String())
	s.NoError(err)
	s.NotNil(result)
	s.Equal(business.ID, result.ID)
	s.Equal("cafes", result.Category)
	s.True(result.Visible)
}

func (s *BusinessCacheTestSuite) TestGet_MissIsNotError() {
	ctx := context.Background()

	result, err := s.cache.GetBusiness(ctx, uuid.New().String())

	s.NoError(err)
	s.Nil(result)
}

func (s *BusinessCacheTestSuite) TestTTL_Expiration() {
	ctx := context.Background()
	business := s.testBusiness()

	err := s.cache.SetBusiness(ctx, business, 1*time.Second)
	s.NoError(err)

	s.miniRedis.FastForward(2 * time.Second)

	result, err := s.cache.GetBusiness(ctx, business.ID.String())
	s.NoError(err)
	s.Nil(result)
}

func (s *BusinessCacheTestSuite) TestDelete() {
	ctx := context.Background()
	business := s.testBusiness()

	s.NoError(s.cache.SetBusiness(ctx, business, 5*time.Minute))
	s.NoError(s.cache.DeleteBusiness(ctx, business.ID.String()))

	result, err := s.cache.GetBusiness(ctx, business.ID.String())
	s.NoError(err)
	s.Nil(result)
}

func (s *BusinessCacheTestSuite) TestRedisKeyFormat() {
	ctx := context.Background()
	business := s.testBusiness()

	s.NoError(s.cache.SetBusiness(ctx, business, 5*time.Minute))

	keys, err := s.client.Keys(ctx, "business:*").Result()
	s.NoError(err)
	s.Contains(keys, "business:"+business.ID.String())
}
