package controllers

import (
	"encoding/json"
	"net/http"

	"inkwell/app/services"
)

// CategoryController handles HTTP requests for categories
type CategoryController struct {
	categoryService *services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService *services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// Index handles GET /api/categories
func (cc *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := cc.categoryService.List()
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]interface{}{"data": categories})
}

// Create handles POST /api/categories (admin only)
func (cc *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	category, err := cc.categoryService.Create(req.Name, req.Description)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendData(w, http.StatusCreated, map[string]interface{}{"data": category})
}
