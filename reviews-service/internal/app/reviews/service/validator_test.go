package service

import (
	"testing"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/stretchr/testify/assert"
)

func validCreateRequest() *entity.CreateReviewRequest {
	return &entity.CreateReviewRequest{
		BusinessID: "9f8c4a2e-1b3d-4c5e-8f7a-0d1e2c3b4a5f",
		Rating:     4,
		Body:       "The plumber arrived on time and fixed everything.",
		Tags:       []string{"punctuality"},
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	assert.NoError(t, ValidateSubmission(validCreateRequest()))
}

func TestValidateSubmission_FractionalRating(t *testing.T) {
	req := validCreateRequest()
	req.Rating = 4.5

	assert.ErrorIs(t, ValidateSubmission(req), ErrInvalidRating)
}

func TestValidateSubmission_RatingOutOfRange(t *testing.T) {
	for _, rating := range []float64{0, 6, -1} {
		req := validCreateRequest()
		req.Rating = rating

		assert.ErrorIs(t, ValidateSubmission(req), ErrInvalidRating)
	}
}

func TestValidateSubmission_BodyTooShort(t *testing.T) {
	req := validCreateRequest()
	req.Body = "too short"

	assert.ErrorIs(t, ValidateSubmission(req), ErrBodyTooShort)
}

func TestValidateSubmission_BodyOnlyWhitespace(t *testing.T) {
	req := validCreateRequest()
	req.Body = "          \t\n   "

	assert.ErrorIs(t, ValidateSubmission(req), ErrBodyTooShort)
}

func TestValidateSubmission_TooManyImages(t *testing.T) {
	req := validCreateRequest()
	for i := 0; i < MaxImages+1; i++ {
		req.Images = append(req.Images, entity.ImageRefRequest{Ref: "blob-ref", SizeBytes: 1024})
	}

	assert.ErrorIs(t, ValidateSubmission(req), ErrTooManyImages)
}

func TestValidateSubmission_ImageTooLarge(t *testing.T) {
	req := validCreateRequest()
	req.Images = []entity.ImageRefRequest{{Ref: "blob-ref", SizeBytes: MaxImageBytes + 1}}

	assert.ErrorIs(t, ValidateSubmission(req), ErrImageTooLarge)
}

func TestValidateSubmission_ImageAtLimit(t *testing.T) {
	req := validCreateRequest()
	req.Images = []entity.ImageRefRequest{{Ref: "blob-ref", SizeBytes: MaxImageBytes}}

	assert.NoError(t, ValidateSubmission(req))
}

func TestValidateUpdate_ZeroRatingMeansUnchanged(t *testing.T) {
	body := "New text that is long enough."
	req := &entity.UpdateReviewRequest{Body: &body}

	assert.NoError(t, ValidateUpdate(req))
}

func TestValidateUpdate_FractionalRating(t *testing.T) {
	req := &entity.UpdateReviewRequest{Rating: 3.5}

	assert.ErrorIs(t, ValidateUpdate(req), ErrInvalidRating)
}

func TestValidateUpdate_ShortBody(t *testing.T) {
	body := "short"
	req := &entity.UpdateReviewRequest{Body: &body}

	assert.ErrorIs(t, ValidateUpdate(req), ErrBodyTooShort)
}

func TestNormalizeTags(t *testing.T) {
	tags := normalizeTags([]string{" Punctuality ", "value", "", "VALUE", "friendliness"})

	assert.Equal(t, []string{"punctuality", "value", "friendliness"}, tags)
}
