package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jfcordoba/billetera/internal/api/middleware"
	"github.com/jfcordoba/billetera/internal/models"
	"github.com/jfcordoba/billetera/internal/repository"
)

type CategoriesHandler struct {
	categories *repository.CategoryRepository
	log        zerolog.Logger
}

func NewCategoriesHandler(categories *repository.CategoryRepository, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, log: log}
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}

	categories, err := h.categories.GetByUserID(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"count":      len(categories),
	})
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	category := &models.Category{
		CategoryID: uuid.New(),
		UserID:     uid,
		Name:       req.Name,
	}
	if err := h.categories.Create(r.Context(), category); err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}
	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	category := &models.Category{CategoryID: categoryID, UserID: uid, Name: req.Name}
	if err := h.categories.Update(r.Context(), category); err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}
	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.categories.Delete(r.Context(), categoryID, uid); err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
