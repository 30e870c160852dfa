package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/goal-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/permissions"
	"github.com/yukikurage/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// CategoryService handles goal category business logic
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	boardRepo    repository.BoardRepository
	perms        *permissions.Evaluator
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, boardRepo repository.BoardRepository, perms *permissions.Evaluator) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		boardRepo:    boardRepo,
		perms:        perms,
	}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	BoardID uint64
	Title   string
}

// ListCategoriesInput represents filters for listing categories
type ListCategoriesInput struct {
	UserID       uint64
	BoardIDs     []uint64
	WritableOnly bool
	Search       string
	Ordering     string
	Page         int
	PageSize     int
}

// CreateCategory validates the parent board and the caller's role before inserting
func (s *CategoryService) CreateCategory(userID uint64, input CreateCategoryInput) (*models.GoalCategory, error) {
	title, err := requireText("title", input.Title, constants.MaxTitleLength)
	if err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(input.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewValidationError("board", "Board does not exist.")
		}
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	if board.IsDeleted {
		return nil, apierrors.NewValidationError("board", "not allowed in deleted board")
	}
	if err := s.perms.AuthorizeChild(userID, board, "category"); err != nil {
		return nil, err
	}

	category := &models.GoalCategory{
		Title:   title,
		BoardID: board.ID,
		UserID:  userID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return s.GetCategory(userID, category.ID)
}

// ListCategories returns non-deleted categories on the user's boards
func (s *CategoryService) ListCategories(input ListCategoriesInput) ([]models.GoalCategory, int64, error) {
	categories, total, err := s.categoryRepo.List(repository.CategoryFilter{
		UserID:       input.UserID,
		BoardIDs:     input.BoardIDs,
		WritableOnly: input.WritableOnly,
		Search:       input.Search,
		Ordering:     input.Ordering,
		Page:         input.Page,
		PageSize:     input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// GetCategory returns a visible category
func (s *CategoryService) GetCategory(userID, categoryID uint64) (*models.GoalCategory, error) {
	category, err := s.categoryRepo.FindVisible(categoryID, userID)
	if err != nil {
		return nil, notFoundOr(err, "category")
	}
	return category, nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(userID, categoryID uint64, title string) (*models.GoalCategory, error) {
	category, err := s.GetCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, category); err != nil {
		return nil, err
	}

	title, err = requireText("title", title, constants.MaxTitleLength)
	if err != nil {
		return nil, err
	}
	category.Title = title
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory soft-deletes the category and archives its goals
func (s *CategoryService) DeleteCategory(userID, categoryID uint64) (repository.CascadeResult, error) {
	category, err := s.GetCategory(userID, categoryID)
	if err != nil {
		return repository.CascadeResult{}, err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, category); err != nil {
		return repository.CascadeResult{}, err
	}

	result, err := s.categoryRepo.SoftDelete(category.ID)
	if err != nil {
		return repository.CascadeResult{}, fmt.Errorf("failed to delete category: %w", err)
	}
	return result, nil
}
