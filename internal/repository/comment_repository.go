package repository

import (
	"github.com/yukikurage/goal-tracker-api/internal/database"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

var commentOrderings = map[string]string{
	"-created": "goal_comments.created_at DESC, goal_comments.id DESC",
	"created":  "goal_comments.created_at ASC, goal_comments.id ASC",
	"-updated": "goal_comments.updated_at DESC, goal_comments.id DESC",
	"updated":  "goal_comments.updated_at ASC, goal_comments.id ASC",
}

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(comment *models.GoalComment) error {
	return r.db.Create(comment).Error
}

// visibleGoals is the subquery of goal ids on the user's boards, archived included.
func (r *GormCommentRepository) visibleGoals(userID uint64) *gorm.DB {
	return r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Goal{}).
		Select("goals.id").
		Joins("JOIN goal_categories ON goal_categories.id = goals.category_id").
		Where("goal_categories.board_id IN (?)", participantBoards(r.db, userID))
}

func (r *GormCommentRepository) FindVisible(id, userID uint64) (*models.GoalComment, error) {
	var comment models.GoalComment
	err := r.db.
		Preload("User").
		Preload("Goal.Category").
		Where("goal_comments.goal_id IN (?)", r.visibleGoals(userID)).
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormCommentRepository) List(filter CommentFilter) ([]models.GoalComment, int64, error) {
	query := r.db.Model(&models.GoalComment{}).
		Where("goal_comments.goal_id IN (?)", r.visibleGoals(filter.UserID))

	if filter.GoalID != nil {
		query = query.Where("goal_comments.goal_id = ?", *filter.GoalID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.GoalComment
	err := query.
		Preload("User").
		Order(orderClause(commentOrderings, filter.Ordering, "-created")).
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *GormCommentRepository) Update(comment *models.GoalComment) error {
	return r.db.Model(comment).Select("text").Updates(comment).Error
}

// Delete removes the comment row. Comments are the only hard-deleted entity.
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.GoalComment{}, id).Error
}
