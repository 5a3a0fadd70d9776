package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	repo "github.com/rogerio-castellano/product-catalog/internal/repo"
)

const (
	msgInvalidInput    = "invalid input"
	msgInvalidProduct  = "Datos del producto inválidos"
	msgDuplicatedID    = "El ID del producto ya existe"
	msgProductNotFound = "Producto no encontrado"
	msgProductDeleted  = "Producto eliminado exitosamente"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a financial product to the catalog. The revision date is derived from the release date.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} MessageResponse
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidInput)
		return
	}

	validationErrors := validateProduct(req, true)
	if len(validationErrors) > 0 {
		respond(w, r, http.StatusBadRequest, ValidationErrorResponse{Message: msgInvalidProduct, Errors: validationErrors})
		return
	}

	product, err := toModel(req.ID, req)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidInput)
		return
	}

	created, err := productRepo.Create(product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			writeMessage(w, r, http.StatusBadRequest, msgDuplicatedID)
			return
		}
		internalError(w, r, "could not create product", err)
		return
	}

	logger.Info(r.Context(), "product created", "id", created.ID)
	respond(w, r, http.StatusCreated, toResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} MessageResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll()
	if err != nil {
		internalError(w, r, "could not fetch products", err)
		return
	}
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toResponse(p)
	}
	respond(w, r, http.StatusOK, response)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeMessage(w, r, http.StatusNotFound, msgProductNotFound)
			return
		}
		internalError(w, r, "could not fetch product", err)
		return
	}
	respond(w, r, http.StatusOK, toResponse(product))
}

// VerifyProductIDHandler godoc
// @Summary Check whether a product ID is taken
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {boolean} boolean
// @Failure 500 {object} MessageResponse
// @Router /products/verification/{id} [get]
func VerifyProductIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exists, err := productRepo.Exists(id)
	if err != nil {
		internalError(w, r, "could not verify product id", err)
		return
	}
	respond(w, r, http.StatusOK, exists)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Replaces every field but the ID, which is taken from the path.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /products/{id} [put]
// @Security BearerAuth
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidInput)
		return
	}

	validationErrors := validateProduct(req, false)
	if len(validationErrors) > 0 {
		respond(w, r, http.StatusBadRequest, ValidationErrorResponse{Message: msgInvalidProduct, Errors: validationErrors})
		return
	}

	product, err := toModel(id, req)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidInput)
		return
	}

	updated, err := productRepo.Update(product)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeMessage(w, r, http.StatusNotFound, msgProductNotFound)
			return
		}
		internalError(w, r, "could not update product", err)
		return
	}

	logger.Info(r.Context(), "product updated", "id", updated.ID)
	respond(w, r, http.StatusOK, toResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /products/{id} [delete]
// @Security BearerAuth
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := productRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeMessage(w, r, http.StatusNotFound, msgProductNotFound)
			return
		}
		internalError(w, r, "could not delete product", err)
		return
	}

	logger.Info(r.Context(), "product deleted", "id", id)
	writeMessage(w, r, http.StatusOK, msgProductDeleted)
}
