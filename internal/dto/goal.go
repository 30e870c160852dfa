package dto

import (
	"time"

	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"github.com/yukikurage/goal-tracker-api/internal/utils"
)

// CategoryDTO represents a goal category in API responses
type CategoryDTO struct {
	ID        uint64          `json:"id"`
	Title     string          `json:"title"`
	BoardID   uint64          `json:"board"`
	IsDeleted bool            `json:"is_deleted"`
	User      *UserSummaryDTO `json:"user,omitempty"`
	Created   time.Time       `json:"created"`
	Updated   time.Time       `json:"updated"`
}

// CategoryListResponse represents a paginated list of categories
type CategoryListResponse struct {
	Categories []CategoryDTO            `json:"categories"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// GoalDTO represents a goal in API responses
type GoalDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Status      models.GoalStatus   `json:"status"`
	Priority    models.GoalPriority `json:"priority"`
	CategoryID  uint64              `json:"category"`
	User        *UserSummaryDTO     `json:"user,omitempty"`
	Created     time.Time           `json:"created"`
	Updated     time.Time           `json:"updated"`
}

// GoalListResponse represents a paginated list of goals
type GoalListResponse struct {
	Goals      []GoalDTO                `json:"goals"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// GeneratedGoalDTO is an unsaved goal suggestion
type GeneratedGoalDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Priority    models.GoalPriority `json:"priority"`
	CategoryID  uint64              `json:"category"`
}

// CommentDTO represents a goal comment in API responses
type CommentDTO struct {
	ID      uint64          `json:"id"`
	Text    string          `json:"text"`
	GoalID  uint64          `json:"goal"`
	User    *UserSummaryDTO `json:"user,omitempty"`
	Created time.Time       `json:"created"`
	Updated time.Time       `json:"updated"`
}

// CommentListResponse represents a paginated list of comments
type CommentListResponse struct {
	Comments   []CommentDTO             `json:"comments"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

func ToCategoryDTO(category models.GoalCategory) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		Title:     category.Title,
		BoardID:   category.BoardID,
		IsDeleted: category.IsDeleted,
		User:      toUserSummary(category.User),
		Created:   category.CreatedAt,
		Updated:   category.UpdatedAt,
	}
}

func ToCategoryListResponse(categories []models.GoalCategory, pagination utils.PaginationResponse) CategoryListResponse {
	items := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		items[i] = ToCategoryDTO(c)
	}
	return CategoryListResponse{Categories: items, Pagination: pagination}
}

func ToGoalDTO(goal models.Goal) GoalDTO {
	return GoalDTO{
		ID:          goal.ID,
		Title:       goal.Title,
		Description: goal.Description,
		DueDate:     goal.DueDate,
		Status:      goal.Status,
		Priority:    goal.Priority,
		CategoryID:  goal.CategoryID,
		User:        toUserSummary(goal.User),
		Created:     goal.CreatedAt,
		Updated:     goal.UpdatedAt,
	}
}

func ToGoalListResponse(goals []models.Goal, pagination utils.PaginationResponse) GoalListResponse {
	items := make([]GoalDTO, len(goals))
	for i, g := range goals {
		items[i] = ToGoalDTO(g)
	}
	return GoalListResponse{Goals: items, Pagination: pagination}
}

// ToGeneratedGoalDTOs tags each suggestion with the category it was made for
func ToGeneratedGoalDTOs(goals []services.GeneratedGoal, categoryID uint64) []GeneratedGoalDTO {
	items := make([]GeneratedGoalDTO, len(goals))
	for i, g := range goals {
		items[i] = GeneratedGoalDTO{
			Title:       g.Title,
			Description: g.Description,
			DueDate:     g.DueDate,
			Priority:    g.Priority,
			CategoryID:  categoryID,
		}
	}
	return items
}

func ToCommentDTO(comment models.GoalComment) CommentDTO {
	return CommentDTO{
		ID:      comment.ID,
		Text:    comment.Text,
		GoalID:  comment.GoalID,
		User:    toUserSummary(comment.User),
		Created: comment.CreatedAt,
		Updated: comment.UpdatedAt,
	}
}

func ToCommentListResponse(comments []models.GoalComment, pagination utils.PaginationResponse) CommentListResponse {
	items := make([]CommentDTO, len(comments))
	for i, c := range comments {
		items[i] = ToCommentDTO(c)
	}
	return CommentListResponse{Comments: items, Pagination: pagination}
}
