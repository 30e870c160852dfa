package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/goal-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"github.com/yukikurage/goal-tracker-api/internal/utils"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	log             *zap.Logger
}

func NewCategoryHandler(categoryService *services.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		log:             log,
	}
}

// CreateCategory adds a category to a board the user may write to
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateCategoryRequest struct {
		Board uint64 `json:"board" binding:"required"`
		Title string `json:"title" binding:"required"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	category, err := h.categoryService.CreateCategory(userID, services.CreateCategoryInput{
		BoardID: req.Board,
		Title:   req.Title,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// ListCategories returns categories on the user's boards.
// Filters: board (one or many), search, ordering.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boardIDs, err := utils.QueryUint64List(c, "board")
	if err != nil {
		apierrors.BadRequest(c, "Invalid board")
		return
	}

	params := utils.GetPaginationParams(c)
	categories, total, err := h.categoryService.ListCategories(services.ListCategoriesInput{
		UserID:   userID,
		BoardIDs: boardIDs,
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryListResponse(categories, params.Response(total)))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	categoryID, ok := idParam(c)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(userID, categoryID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// UpdateCategory renames the category
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	categoryID, ok := idParam(c)
	if !ok {
		return
	}

	type UpdateCategoryRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.Title)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// DeleteCategory soft-deletes the category and archives its goals
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	categoryID, ok := idParam(c)
	if !ok {
		return
	}

	result, err := h.categoryService.DeleteCategory(userID, categoryID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCascadeResultDTO(result))
}
