package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/goal-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/permissions"
	"github.com/yukikurage/goal-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoGoalsGenerated     = errors.New("AI did not generate any goals")
)

// GoalService handles goal business logic
type GoalService struct {
	goalRepo     repository.GoalRepository
	categoryRepo repository.CategoryRepository
	perms        *permissions.Evaluator
	suggester    GoalSuggester
}

// NewGoalService creates a new GoalService. suggester may be nil.
func NewGoalService(goalRepo repository.GoalRepository, categoryRepo repository.CategoryRepository, perms *permissions.Evaluator, suggester GoalSuggester) *GoalService {
	return &GoalService{
		goalRepo:     goalRepo,
		categoryRepo: categoryRepo,
		perms:        perms,
		suggester:    suggester,
	}
}

// CreateGoalInput represents input for creating a goal
type CreateGoalInput struct {
	CategoryID  uint64
	Title       string
	Description string
	DueDate     *time.Time
	Status      models.GoalStatus
	Priority    models.GoalPriority
}

// UpdateGoalInput represents input for updating a goal
type UpdateGoalInput struct {
	CategoryID   *uint64
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Status       *models.GoalStatus
	Priority     *models.GoalPriority
}

// ListGoalsInput represents filters for listing goals
type ListGoalsInput struct {
	UserID      uint64
	CategoryIDs []uint64
	Statuses    []models.GoalStatus
	Priorities  []models.GoalPriority
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Search      string
	Ordering    string
	Page        int
	PageSize    int
}

// CreateGoal validates the parent category and the caller's role before inserting
func (s *GoalService) CreateGoal(userID uint64, input CreateGoalInput) (*models.Goal, error) {
	title, err := requireText("title", input.Title, constants.MaxTitleLength)
	if err != nil {
		return nil, err
	}

	if input.Status == 0 {
		input.Status = models.GoalStatusToDo
	}
	if input.Priority == 0 {
		input.Priority = models.GoalPriorityMedium
	}
	if !input.Status.Valid() || input.Status == models.GoalStatusArchived {
		return nil, apierrors.NewValidationError("status", "A new goal cannot be archived.")
	}
	if !input.Priority.Valid() {
		return nil, apierrors.NewValidationError("priority", "Invalid priority.")
	}

	category, err := s.writableCategory(userID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	goal := &models.Goal{
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
		Priority:    input.Priority,
		CategoryID:  category.ID,
		UserID:      userID,
	}
	if err := s.goalRepo.Create(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return s.GetGoal(userID, goal.ID)
}

// ListGoals returns the active goals on the user's boards
func (s *GoalService) ListGoals(input ListGoalsInput) ([]models.Goal, int64, error) {
	goals, total, err := s.goalRepo.List(repository.GoalFilter{
		UserID:      input.UserID,
		CategoryIDs: input.CategoryIDs,
		Statuses:    input.Statuses,
		Priorities:  input.Priorities,
		DueDateFrom: input.DueDateFrom,
		DueDateTo:   input.DueDateTo,
		Search:      input.Search,
		Ordering:    input.Ordering,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, total, nil
}

// GetGoal returns a visible, non-archived goal
func (s *GoalService) GetGoal(userID, goalID uint64) (*models.Goal, error) {
	goal, err := s.goalRepo.FindVisible(goalID, userID)
	if err != nil {
		return nil, notFoundOr(err, "goal")
	}
	return goal, nil
}

// UpdateGoal applies a partial update. Moving the goal to another category
// requires write access on the destination board too.
func (s *GoalService) UpdateGoal(userID, goalID uint64, input UpdateGoalInput) (*models.Goal, error) {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, goal); err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != goal.CategoryID {
		category, err := s.writableCategory(userID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		goal.CategoryID = category.ID
		goal.Category = *category
	}
	if input.Title != nil {
		title, err := requireText("title", *input.Title, constants.MaxTitleLength)
		if err != nil {
			return nil, err
		}
		goal.Title = title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.ClearDueDate {
		goal.DueDate = nil
	} else if input.DueDate != nil {
		goal.DueDate = input.DueDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apierrors.NewValidationError("status", "Invalid status.")
		}
		goal.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apierrors.NewValidationError("priority", "Invalid priority.")
		}
		goal.Priority = *input.Priority
	}

	if err := s.goalRepo.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	updated, err := s.goalRepo.FindVisible(goal.ID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// archived by this update, so no longer visible
		return goal, nil
	}
	if err != nil {
		return nil, notFoundOr(err, "goal")
	}
	return updated, nil
}

// DeleteGoal archives the goal
func (s *GoalService) DeleteGoal(userID, goalID uint64) error {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, goal); err != nil {
		return err
	}

	if err := s.goalRepo.Archive(goal.ID); err != nil {
		return fmt.Errorf("failed to archive goal: %w", err)
	}
	return nil
}

// SuggestGoals asks the configured suggester for goals to add to a category.
// Nothing is persisted.
func (s *GoalService) SuggestGoals(ctx context.Context, userID, categoryID uint64, text string) ([]GeneratedGoal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierrors.NewValidationError("text", blankFieldMessage)
	}

	category, err := s.writableCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	generated, err := s.suggester.SuggestGoals(ctx, category.Title, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate goals: %w", err)
	}

	goals := make([]GeneratedGoal, 0, len(generated))
	for _, g := range generated {
		g.Title = strings.TrimSpace(g.Title)
		if g.Title == "" {
			continue
		}
		if !g.Priority.Valid() {
			g.Priority = models.GoalPriorityMedium
		}
		goals = append(goals, g)
		if len(goals) == constants.MaxAIGeneratedGoals {
			break
		}
	}
	if len(goals) == 0 {
		return nil, ErrAINoGoalsGenerated
	}
	return goals, nil
}

// writableCategory loads a category as the parent of a new or moved goal.
func (s *GoalService) writableCategory(userID, categoryID uint64) (*models.GoalCategory, error) {
	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewValidationError("category", "Category does not exist.")
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category.IsDeleted {
		return nil, apierrors.NewValidationError("category", "not allowed in deleted category")
	}
	if err := s.perms.AuthorizeChild(userID, category, "goal"); err != nil {
		return nil, err
	}
	return category, nil
}
