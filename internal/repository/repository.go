package repository

import (
	"time"

	"github.com/yukikurage/goal-tracker-api/internal/models"
)

// CascadeResult reports how many descendants a soft-delete transitioned.
// Rows that were already deleted or archived are not counted.
type CascadeResult struct {
	CategoriesDeleted int64 `json:"categories_deleted"`
	GoalsArchived     int64 `json:"goals_archived"`
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// CreateWithOwner creates a board and its owner participant in one transaction
	CreateWithOwner(board *models.Board, ownerID uint64) error

	// FindByID finds a board by ID regardless of visibility or deletion
	FindByID(id uint64) (*models.Board, error)

	// FindVisible finds a non-deleted board the user participates in
	FindVisible(id, userID uint64) (*models.Board, error)

	// List retrieves the non-deleted boards a user participates in
	List(filter BoardFilter) ([]models.Board, int64, error)

	// Update saves the board's own columns and, when participants is non-nil,
	// syncs the participants with it in the same transaction. The acting
	// user's row is left untouched.
	Update(board *models.Board, actorID uint64, participants []models.BoardParticipant) error

	// FindParticipant finds the participant row of a user on a board
	FindParticipant(boardID, userID uint64) (*models.BoardParticipant, error)

	// ListParticipants lists a board's participants with their users
	ListParticipants(boardID uint64) ([]models.BoardParticipant, error)

	// SoftDelete marks the board, its categories and their goals deleted atomically
	SoftDelete(id uint64) (CascadeResult, error)
}

// BoardFilter holds filtering options for listing boards
type BoardFilter struct {
	UserID   uint64
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// CategoryRepository defines the interface for goal category data access
type CategoryRepository interface {
	Create(category *models.GoalCategory) error

	// FindByID finds a category with its board, including deleted ones
	FindByID(id uint64) (*models.GoalCategory, error)

	// FindVisible finds a non-deleted category on a board the user participates in
	FindVisible(id, userID uint64) (*models.GoalCategory, error)

	List(filter CategoryFilter) ([]models.GoalCategory, int64, error)

	Update(category *models.GoalCategory) error

	// SoftDelete marks the category deleted and archives its goals atomically
	SoftDelete(id uint64) (CascadeResult, error)
}

// CategoryFilter holds filtering options for listing categories
type CategoryFilter struct {
	UserID       uint64
	BoardIDs     []uint64
	WritableOnly bool
	Search       string
	Ordering     string
	Page         int
	PageSize     int
}

// GoalRepository defines the interface for goal data access
type GoalRepository interface {
	Create(goal *models.Goal) error

	// FindByID finds a goal with its category, including archived ones
	FindByID(id uint64) (*models.Goal, error)

	// FindVisible finds a non-archived goal on a board the user participates in
	FindVisible(id, userID uint64) (*models.Goal, error)

	List(filter GoalFilter) ([]models.Goal, int64, error)

	Update(goal *models.Goal) error

	// Archive moves the goal to the archived status
	Archive(id uint64) error
}

// GoalFilter holds filtering options for listing goals
type GoalFilter struct {
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

// CommentRepository defines the interface for goal comment data access
type CommentRepository interface {
	Create(comment *models.GoalComment) error

	// FindVisible finds a comment on a board the user participates in.
	// Comments on archived goals stay visible.
	FindVisible(id, userID uint64) (*models.GoalComment, error)

	List(filter CommentFilter) ([]models.GoalComment, int64, error)

	Update(comment *models.GoalComment) error

	// Delete removes the comment row
	Delete(id uint64) error
}

// CommentFilter holds filtering options for listing comments
type CommentFilter struct {
	UserID   uint64
	GoalID   *uint64
	Ordering string
	Page     int
	PageSize int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByUsername(username string) (*models.User, error)

	// FindByUsernames returns the users matching any of the given usernames
	FindByUsernames(usernames []string) ([]models.User, error)

	Update(user *models.User) error
}

// TgUserRepository defines the interface for Telegram account links
type TgUserRepository interface {
	FindByTgUserID(tgUserID int64) (*models.TgUser, error)
	FindByVerificationCode(code string) (*models.TgUser, error)
	Create(tgUser *models.TgUser) error
	Update(tgUser *models.TgUser) error
}
