package repository

import (
	"github.com/yukikurage/goal-tracker-api/internal/database"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

const dueDateNullsLast = "CASE WHEN goals.due_date IS NULL THEN 1 ELSE 0 END"

var goalOrderings = map[string]string{
	"-priority": "goals.priority DESC, " + dueDateNullsLast + ", goals.due_date ASC, goals.id ASC",
	"priority":  "goals.priority ASC, " + dueDateNullsLast + ", goals.due_date ASC, goals.id ASC",
	"due_date":  dueDateNullsLast + ", goals.due_date ASC, goals.priority DESC, goals.id ASC",
	"-due_date": dueDateNullsLast + ", goals.due_date DESC, goals.priority DESC, goals.id ASC",
	"title":     "goals.title ASC, goals.id ASC",
	"created":   "goals.created_at ASC, goals.id ASC",
	"-created":  "goals.created_at DESC, goals.id DESC",
}

// GormGoalRepository is a GORM implementation of GoalRepository
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &GormGoalRepository{db: db}
}

func (r *GormGoalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

func (r *GormGoalRepository) FindByID(id uint64) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.Preload("Category").First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// visibleCategories is the subquery of category ids on the user's boards.
func (r *GormGoalRepository) visibleCategories(userID uint64) *gorm.DB {
	return r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.GoalCategory{}).
		Select("id").
		Where("board_id IN (?)", participantBoards(r.db, userID))
}

func (r *GormGoalRepository) FindVisible(id, userID uint64) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.
		Preload("Category").
		Preload("User").
		Where("goals.status <> ?", models.GoalStatusArchived).
		Where("goals.category_id IN (?)", r.visibleCategories(userID)).
		First(&goal, id).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GormGoalRepository) List(filter GoalFilter) ([]models.Goal, int64, error) {
	query := r.db.Model(&models.Goal{}).
		Where("goals.status <> ?", models.GoalStatusArchived).
		Where("goals.category_id IN (?)", r.visibleCategories(filter.UserID))

	if len(filter.CategoryIDs) > 0 {
		query = query.Where("goals.category_id IN ?", filter.CategoryIDs)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("goals.status IN ?", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		query = query.Where("goals.priority IN ?", filter.Priorities)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("goals.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("goals.due_date <= ?", *filter.DueDateTo)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(goals.title) LIKE ?", likePattern(filter.Search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var goals []models.Goal
	err := query.
		Preload("User").
		Order(orderClause(goalOrderings, filter.Ordering, "-priority")).
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&goals).Error
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

// Update saves the editable goal columns
func (r *GormGoalRepository) Update(goal *models.Goal) error {
	return r.db.Model(goal).
		Select("title", "description", "due_date", "status", "priority", "category_id").
		Updates(goal).Error
}

// Archive is the goal's delete. Comments stay attached.
func (r *GormGoalRepository) Archive(id uint64) error {
	return r.db.Model(&models.Goal{}).
		Where("id = ?", id).
		Update("status", models.GoalStatusArchived).Error
}
