package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AwardRepositoryTestSuite тестовый suite для PostgreSQL repository
type AwardRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  AwardRepository
	sqlDB *sql.DB
}

func TestAwardRepositorySuite(t *testing.T) {
	suite.Run(t, new(AwardRepositoryTestSuite))
}

func (s *AwardRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewAwardRepository(s.db)
}

func (s *AwardRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== Insert Tests =====================

func (s *AwardRepositoryTestSuite) TestInsert_NewAward() {
	ctx := context.Background()
	award := &entity.UserBadgeAward{
		UserID:    "user-1",
		BadgeID:   "first-review",
		AwardedAt: time.Now(),
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user_badge_awards"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	awarded, err := s.repo.Insert(ctx, award)

	s.NoError(err)
	s.True(awarded)
	s.NotEqual(uuid.Nil, award.ID)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AwardRepositoryTestSuite) TestInsert_AlreadyHeld() {
	ctx := context.Background()
	award := &entity.UserBadgeAward{
		UserID:    "user-1",
		BadgeID:   "first-review",
		AwardedAt: time.Now(),
	}

	// ON CONFLICT DO NOTHING: ноль затронутых строк - значок уже есть
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user_badge_awards"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	awarded, err := s.repo.Insert(ctx, award)

	s.NoError(err)
	s.False(awarded)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByUserID Tests =====================

func (s *AwardRepositoryTestSuite) TestGetByUserID_Success() {
	ctx := context.Background()
	awardedAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "badge_id", "awarded_at"}).
		AddRow(uuid.New(), "user-1", "first-review", awardedAt).
		AddRow(uuid.New(), "user-1", "reviewer-10", awardedAt)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user_badge_awards" WHERE user_id = $1 ORDER BY awarded_at ASC`)).
		WithArgs("user-1").
		WillReturnRows(rows)

	awards, err := s.repo.GetByUserID(ctx, "user-1")

	s.NoError(err)
	s.Len(awards, 2)
	s.Equal("first-review", awards[0].BadgeID)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AwardRepositoryTestSuite) TestGetByUserID_Empty() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "user_id", "badge_id", "awarded_at"})

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user_badge_awards" WHERE user_id = $1 ORDER BY awarded_at ASC`)).
		WithArgs("user-2").
		WillReturnRows(rows)

	awards, err := s.repo.GetByUserID(ctx, "user-2")

	s.NoError(err)
	s.Empty(awards)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== CountByUserIDs Tests =====================

func (s *AwardRepositoryTestSuite) TestCountByUserIDs_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"user_id", "count"}).
		AddRow("user-1", 3).
		AddRow("user-2", 1)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, count(*) as count FROM "user_badge_awards" WHERE user_id IN ($1,$2) GROUP BY "user_id"`)).
		WithArgs("user-1", "user-2").
		WillReturnRows(rows)

	counts, err := s.repo.CountByUserIDs(ctx, []string{"user-1", "user-2"})

	s.NoError(err)
	s.Equal(3, counts["user-1"])
	s.Equal(1, counts["user-2"])
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AwardRepositoryTestSuite) TestCountByUserIDs_EmptyInput() {
	ctx := context.Background()

	// Пустой вход не должен ходить в базу
	counts, err := s.repo.CountByUserIDs(ctx, nil)

	s.NoError(err)
	s.Empty(counts)
	s.NoError(s.mock.ExpectationsWereMet())
}
