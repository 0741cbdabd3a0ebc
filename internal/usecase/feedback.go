package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/domain/repository"
	"github.com/polkiloo/tableside/internal/lifecycle"
)

const defaultFeedbackPage = 100

// FeedbackUseCase records customer ratings.
type FeedbackUseCase struct {
	feedback repository.FeedbackRepository
	clock    lifecycle.Clock
	validate *validator.Validate
	ids      IDGenerator
}

// NewFeedbackUseCase constructs FeedbackUseCase.
func NewFeedbackUseCase(feedback repository.FeedbackRepository, clock lifecycle.Clock) *FeedbackUseCase {
	return &FeedbackUseCase{
		feedback: feedback,
		clock:    clock,
		validate: validator.New(),
		ids:      NewUUID,
	}
}

// Submit validates and stores feedback. Name and email are optional, the
// rating must be between 1 and 5.
func (u *FeedbackUseCase) Submit(ctx context.Context, fb model.Feedback) (*model.Feedback, error) {
	fb.Name = strings.TrimSpace(fb.Name)
	fb.Email = strings.TrimSpace(fb.Email)
	fb.Comment = strings.TrimSpace(fb.Comment)
	fb.OrderID = strings.TrimSpace(fb.OrderID)

	if err := u.validate.Struct(&fb); err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidFeedback, err.Error())
	}

	fb.ID = u.ids()
	fb.CreatedAt = u.clock.Now()
	if err := u.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// List returns the latest feedback, newest first.
func (u *FeedbackUseCase) List(ctx context.Context, limit int) ([]model.Feedback, error) {
	if limit <= 0 {
		limit = defaultFeedbackPage
	}
	return u.feedback.List(ctx, limit)
}
