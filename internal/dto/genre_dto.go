package dto

import "reviewhub/internal/models"

// CreateGenreRequest: payload for creating a genre
type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// GenreResponse: public representation of a genre
type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreResponseFromModel(g *models.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}
