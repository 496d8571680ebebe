package dto

import "reviewhub/internal/models"

// CreateTitleRequest: payload for creating or replacing a title
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"required,min=1"`
	Category    string   `json:"category" binding:"required"`
}

// UpdateTitleRequest: partial update payload; nil fields are left untouched
type UpdateTitleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

// TitleResponse: title with nested genres, category and aggregated rating
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleResponseFromModel(t *models.Title, rating *int) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for i := range t.Genres {
		genres = append(genres, GenreResponseFromModel(&t.Genres[i]))
	}
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       genres,
	}
	if t.Category != nil {
		cat := CategoryResponseFromModel(t.Category)
		resp.Category = &cat
	}
	return resp
}
