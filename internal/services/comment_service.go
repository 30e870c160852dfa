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

// CommentService handles goal comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	goalRepo    repository.GoalRepository
	perms       *permissions.Evaluator
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, goalRepo repository.GoalRepository, perms *permissions.Evaluator) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		goalRepo:    goalRepo,
		perms:       perms,
	}
}

// ListCommentsInput represents filters for listing comments
type ListCommentsInput struct {
	UserID   uint64
	GoalID   *uint64
	Ordering string
	Page     int
	PageSize int
}

// CreateComment adds a comment to a goal that is not archived
func (s *CommentService) CreateComment(userID, goalID uint64, text string) (*models.GoalComment, error) {
	text, err := requireText("text", text, constants.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	goal, err := s.goalRepo.FindByID(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewValidationError("goal", "Goal does not exist.")
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	if goal.IsArchived() {
		return nil, apierrors.NewValidationError("goal", "not allowed in deleted goal")
	}
	if err := s.perms.AuthorizeChild(userID, goal, "comment"); err != nil {
		return nil, err
	}

	comment := &models.GoalComment{
		Text:   text,
		GoalID: goal.ID,
		UserID: userID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.GetComment(userID, comment.ID)
}

// ListComments returns comments on goals of the user's boards
func (s *CommentService) ListComments(input ListCommentsInput) ([]models.GoalComment, int64, error) {
	comments, total, err := s.commentRepo.List(repository.CommentFilter{
		UserID:   input.UserID,
		GoalID:   input.GoalID,
		Ordering: input.Ordering,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// GetComment returns a visible comment
func (s *CommentService) GetComment(userID, commentID uint64) (*models.GoalComment, error) {
	comment, err := s.commentRepo.FindVisible(commentID, userID)
	if err != nil {
		return nil, notFoundOr(err, "comment")
	}
	return comment, nil
}

// UpdateComment edits the text. Authors may always edit their own comments.
func (s *CommentService) UpdateComment(userID, commentID uint64, text string) (*models.GoalComment, error) {
	comment, err := s.GetComment(userID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, comment); err != nil {
		return nil, err
	}

	text, err = requireText("text", text, constants.MaxCommentLength)
	if err != nil {
		return nil, err
	}
	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes the comment
func (s *CommentService) DeleteComment(userID, commentID uint64) error {
	comment, err := s.GetComment(userID, commentID)
	if err != nil {
		return err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, comment); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
