package handlers

import "github.com/rogerio-castellano/product-catalog/internal/models"

type ProductRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision,omitempty"`
}

type ProductResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease.String(),
		DateRevision: p.DateRevision.String(),
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string                   `json:"message"`
	Errors  []ProductValidationError `json:"errors"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}
