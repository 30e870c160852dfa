// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/goal-tracker-api/internal/database"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// ErrInjected is returned by updates intercepted with FailUpdatesOn.
var ErrInjected = errors.New("injected update failure")

// FailUpdatesOn makes every UPDATE against table fail with ErrInjected.
func FailUpdatesOn(t *testing.T, db *gorm.DB, table string) {
	t.Helper()

	name := "testutil:fail_updates_" + table
	err := db.Callback().Update().Before("gorm:update").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Callback().Update().Remove(name)
	})
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateBoard inserts a board owned by owner.
func CreateBoard(t *testing.T, db *gorm.DB, title string, owner *models.User) *models.Board {
	t.Helper()
	board := &models.Board{Title: title}
	require.NoError(t, db.Create(board).Error)
	AddParticipant(t, db, board, owner, models.RoleOwner)
	return board
}

// AddParticipant gives user role on board.
func AddParticipant(t *testing.T, db *gorm.DB, board *models.Board, user *models.User, role models.BoardRole) {
	t.Helper()
	require.NoError(t, db.Create(&models.BoardParticipant{
		BoardID: board.ID,
		UserID:  user.ID,
		Role:    role,
	}).Error)
}

// CreateCategory inserts a category on board created by user.
func CreateCategory(t *testing.T, db *gorm.DB, title string, board *models.Board, user *models.User) *models.GoalCategory {
	t.Helper()
	category := &models.GoalCategory{Title: title, BoardID: board.ID, UserID: user.ID}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateGoal inserts a to_do goal of medium priority in category.
func CreateGoal(t *testing.T, db *gorm.DB, title string, category *models.GoalCategory, user *models.User) *models.Goal {
	t.Helper()
	goal := &models.Goal{
		Title:      title,
		CategoryID: category.ID,
		UserID:     user.ID,
		Status:     models.GoalStatusToDo,
		Priority:   models.GoalPriorityMedium,
	}
	require.NoError(t, db.Create(goal).Error)
	return goal
}

// CreateComment inserts a comment on goal written by user.
func CreateComment(t *testing.T, db *gorm.DB, text string, goal *models.Goal, user *models.User) *models.GoalComment {
	t.Helper()
	comment := &models.GoalComment{Text: text, GoalID: goal.ID, UserID: user.ID}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

// SetGoalStatus forces a goal's status without going through services.
func SetGoalStatus(t *testing.T, db *gorm.DB, goal *models.Goal, status models.GoalStatus) {
	t.Helper()
	require.NoError(t, db.Model(goal).Update("status", status).Error)
}

// SetCategoryDeleted forces a category's deleted flag.
func SetCategoryDeleted(t *testing.T, db *gorm.DB, category *models.GoalCategory) {
	t.Helper()
	require.NoError(t, db.Model(category).Update("is_deleted", true).Error)
}

// SetBoardDeleted forces a board's deleted flag.
func SetBoardDeleted(t *testing.T, db *gorm.DB, board *models.Board) {
	t.Helper()
	require.NoError(t, db.Model(board).Update("is_deleted", true).Error)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
