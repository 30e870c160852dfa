package repository

import (
	"fmt"

	"github.com/yukikurage/goal-tracker-api/internal/database"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

var categoryOrderings = map[string]string{
	"title":    "goal_categories.title ASC",
	"-title":   "goal_categories.title DESC",
	"created":  "goal_categories.created_at ASC",
	"-created": "goal_categories.created_at DESC",
}

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(category *models.GoalCategory) error {
	return r.db.Create(category).Error
}

func (r *GormCategoryRepository) FindByID(id uint64) (*models.GoalCategory, error) {
	var category models.GoalCategory
	if err := r.db.Preload("Board").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindVisible(id, userID uint64) (*models.GoalCategory, error) {
	var category models.GoalCategory
	err := r.db.
		Preload("User").
		Where("goal_categories.is_deleted = ?", false).
		Where("goal_categories.board_id IN (?)", participantBoards(r.db, userID)).
		First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) List(filter CategoryFilter) ([]models.GoalCategory, int64, error) {
	var roles []models.BoardRole
	if filter.WritableOnly {
		roles = models.WriteRoles
	}

	query := r.db.Model(&models.GoalCategory{}).
		Where("goal_categories.is_deleted = ?", false).
		Where("goal_categories.board_id IN (?)", participantBoards(r.db, filter.UserID, roles...))

	if len(filter.BoardIDs) > 0 {
		query = query.Where("goal_categories.board_id IN ?", filter.BoardIDs)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(goal_categories.title) LIKE ?", likePattern(filter.Search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []models.GoalCategory
	err := query.
		Preload("User").
		Order(orderClause(categoryOrderings, filter.Ordering, "title")).
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

func (r *GormCategoryRepository) Update(category *models.GoalCategory) error {
	return r.db.Model(category).Select("title").Updates(category).Error
}

// SoftDelete flips the category flag and archives its goals in one transaction.
func (r *GormCategoryRepository) SoftDelete(id uint64) (CascadeResult, error) {
	var result CascadeResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		category := tx.Model(&models.GoalCategory{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		if category.Error != nil {
			return fmt.Errorf("failed to delete category: %w", category.Error)
		}

		goals := tx.Model(&models.Goal{}).
			Where("category_id = ? AND status <> ?", id, models.GoalStatusArchived).
			Update("status", models.GoalStatusArchived)
		if goals.Error != nil {
			return fmt.Errorf("failed to archive category goals: %w", goals.Error)
		}

		result = CascadeResult{
			CategoriesDeleted: category.RowsAffected,
			GoalsArchived:     goals.RowsAffected,
		}
		return nil
	}, cascadeTxOptions(r.db)...)
	if err != nil {
		return CascadeResult{}, err
	}
	return result, nil
}
