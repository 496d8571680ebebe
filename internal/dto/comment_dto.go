package dto

import (
	"time"

	"reviewhub/internal/models"
)

// CreateCommentRequest: payload for creating a comment
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentRequest: partial update payload for a comment
type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

// CommentResponse: comment with the author rendered as a username
type CommentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

func CommentResponseFromModel(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Author:  c.Author.Username,
		Text:    c.Text,
		PubDate: c.PubDate,
	}
}
