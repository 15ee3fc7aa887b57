package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"placepulse/pkg/logger"
	"placepulse/reviews-service/internal/app/reviews/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов
// Создает уникальный partial-индекс (business_id, author_user_id),
// который действует только на документы с author_user_id: инвариант
// "один отзыв на пару (бизнес, пользователь)" живет на уровне данных,
// а анонимные отзывы (без поля) под него не попадают
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection("reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dedupIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "business_id", Value: 1},
			{Key: "author_user_id", Value: 1},
		},
		Options: options.Index().
			SetName("business_author_unique_idx").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"author_user_id": bson.M{"$exists": true},
			}),
	}

	businessIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "business_id", Value: 1},
		},
		Options: options.Index().SetName("business_id_idx"),
	}

	authorIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "author_user_id", Value: 1},
		},
		Options: options.Index().SetName("author_user_id_idx"),
	}

	for _, model := range []mongo.IndexModel{dedupIndex, businessIndex, authorIndex} {
		if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
			// Индекс может уже существовать - не прерываем работу
			logger.Warn().Err(err).Msg("Failed to create reviews index")
		}
	}

	return &reviewRepository{
		collection: collection,
	}
}

// Create создает новый отзыв в MongoDB
// Нарушение уникального индекса превращается в ErrDuplicateReview:
// второй из двух гоночных submit-ов того же пользователя получает конфликт,
// а не вторую строку
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	review.CreatedAt = time.Now().UTC()
	review.UpdatedAt = review.CreatedAt

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// GetByID получает отзыв по ID
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	var review entity.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

// GetByBusinessID получает все отзывы бизнеса
// Используется Stats Aggregator-ом как полный текущий набор для пересчёта
func (r *reviewRepository) GetByBusinessID(ctx context.Context, businessID string) ([]entity.Review, error) {
	filter := bson.M{"business_id": businessID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// GetByUserID получает все отзывы авторизованного пользователя
func (r *reviewRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Review, error) {
	filter := bson.M{"author_user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// Update обновляет редактируемые автором поля отзыва
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	review.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": review.ID}
	update := bson.M{
		"$set": bson.M{
			"rating":     review.Rating,
			"title":      review.Title,
			"body":       review.Body,
			"tags":       review.Tags,
			"updated_at": review.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// Delete удаляет отзыв
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrReviewNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// IncrementHelpfulVotes атомарно увеличивает счётчик "полезно"
// и возвращает отзыв с новым значением
func (r *reviewRepository) IncrementHelpfulVotes(ctx context.Context, id string) (*entity.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"helpful_votes": 1}}

	var review entity.Review
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to increment helpful votes: %w", err)
	}

	return &review, nil
}
