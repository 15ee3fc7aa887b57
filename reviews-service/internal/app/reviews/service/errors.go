package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrReviewNotFound   = errors.New("review not found")
	ErrBusinessNotFound = errors.New("business not found or not accepting reviews")
	ErrForbidden        = errors.New("only the author can modify this review")
	ErrDuplicateReview  = errors.New("you have already reviewed this business")

	// Ошибки валидации - тексты уходят пользователю как есть
	ErrInvalidRating = errors.New("rating must be a whole number between 1 and 5")
	ErrBodyTooShort  = errors.New("review text must be at least 10 characters long")
	ErrTooManyImages = errors.New("a review can include at most 5 images")
	ErrImageTooLarge = errors.New("each review image must not exceed 1 MiB")
)
