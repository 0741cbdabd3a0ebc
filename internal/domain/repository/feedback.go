package repository

import (
	"context"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// FeedbackRepository persists customer feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback model.Feedback) error
	List(ctx context.Context, limit int) ([]model.Feedback, error)
}
