package dto

import "github.com/polkiloo/tableside/internal/domain/model"

// FeedbackRequest is submitted from the feedback page.
type FeedbackRequest struct {
	OrderID string `json:"orderId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ToModel converts the request into domain feedback.
func (r FeedbackRequest) ToModel() model.Feedback {
	return model.Feedback{
		OrderID: r.OrderID,
		Name:    r.Name,
		Email:   r.Email,
		Rating:  r.Rating,
		Comment: r.Comment,
	}
}
