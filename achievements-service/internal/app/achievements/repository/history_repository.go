package repository

import (
	"context"
	"fmt"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type historyRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository создает репозиторий истории отзывов
// Читает ту же коллекцию reviews, в которую пишет reviews-service
func NewHistoryRepository(db *mongo.Database) HistoryRepository {
	return &historyRepository{
		collection: db.Collection("reviews"),
	}
}

// GetUserHistory агрегирует историю отзывов пользователя
// Анонимные отзывы (без author_user_id) в историю не входят
func (r *historyRepository) GetUserHistory(ctx context.Context, userID string) (*entity.UserHistory, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author_user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$business_category",
			"review_count":  bson.M{"$sum": 1},
			"helpful_votes": bson.M{"$sum": "$helpful_votes"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user history: %w", err)
	}
	defer cursor.Close(ctx)

	history := &entity.UserHistory{
		UserID:            userID,
		ReviewsByCategory: make(map[string]int),
	}

	for cursor.Next(ctx) {
		var row struct {
			Category     string `bson:"_id"`
			ReviewCount  int    `bson:"review_count"`
			HelpfulVotes int    `bson:"helpful_votes"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode history row: %w", err)
		}

		history.ReviewCount += row.ReviewCount
		history.HelpfulVotes += row.HelpfulVotes
		if row.Category != "" {
			history.ReviewsByCategory[row.Category] = row.ReviewCount
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("history cursor error: %w", err)
	}

	return history, nil
}

// TopReviewers возвращает лучших авторов по impact score
// Счет вычисляется прямо в агрегации: сортировать и обрезать выборку
// нужно по тому же ключу, по которому ранжирует сервис, иначе автор
// с большим числом голосов может не попасть в top-N
func (r *historyRepository) TopReviewers(ctx context.Context, limit int) ([]entity.UserHistory, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author_user_id": bson.M{"$exists": true, "$ne": ""}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$author_user_id",
			"review_count":  bson.M{"$sum": 1},
			"helpful_votes": bson.M{"$sum": "$helpful_votes"},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"impact_score": bson.M{"$add": bson.A{
				"$review_count",
				bson.M{"$multiply": bson.A{entity.HelpfulVoteWeight, "$helpful_votes"}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "impact_score", Value: -1},
			{Key: "review_count", Value: -1},
		}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top reviewers: %w", err)
	}
	defer cursor.Close(ctx)

	var reviewers []entity.UserHistory
	for cursor.Next(ctx) {
		var row struct {
			UserID       string `bson:"_id"`
			ReviewCount  int    `bson:"review_count"`
			HelpfulVotes int    `bson:"helpful_votes"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode reviewer row: %w", err)
		}

		reviewers = append(reviewers, entity.UserHistory{
			UserID:       row.UserID,
			ReviewCount:  row.ReviewCount,
			HelpfulVotes: row.HelpfulVotes,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("reviewers cursor error: %w", err)
	}

	return reviewers, nil
}
