package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type listIndex struct {
	model   interface{}
	table   string
	name    string
	columns []string
}

// listIndexes back the default orderings of the list endpoints.
var listIndexes = []listIndex{
	{&goalRow{}, "goals", "idx_goals_priority_due_date", []string{"priority", "due_date"}},
	{&goalRow{}, "goals", "idx_goals_category_status", []string{"category_id", "status"}},
	{&commentRow{}, "goal_comments", "idx_goal_comments_goal_created", []string{"goal_id", "created_at"}},
	{&categoryRow{}, "goal_categories", "idx_goal_categories_board_deleted", []string{"board_id", "is_deleted"}},
}

// Composite indexes are declared on thin row types so AutoMigrate of the
// real models keeps its single-column indexes unchanged.
type goalRow struct {
	CategoryID uint64 `gorm:"index:idx_goals_category_status,priority:1"`
	Status     int    `gorm:"index:idx_goals_category_status,priority:2"`
	Priority   int    `gorm:"index:idx_goals_priority_due_date,priority:1"`
	DueDate    *int64 `gorm:"index:idx_goals_priority_due_date,priority:2"`
}

func (goalRow) TableName() string { return "goals" }

type commentRow struct {
	GoalID    uint64 `gorm:"index:idx_goal_comments_goal_created,priority:1"`
	CreatedAt int64  `gorm:"index:idx_goal_comments_goal_created,priority:2"`
}

func (commentRow) TableName() string { return "goal_comments" }

type categoryRow struct {
	BoardID   uint64 `gorm:"index:idx_goal_categories_board_deleted,priority:1"`
	IsDeleted bool   `gorm:"index:idx_goal_categories_board_deleted,priority:2"`
}

func (categoryRow) TableName() string { return "goal_categories" }

// AddIndexes creates the composite list indexes that are missing.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	for _, idx := range listIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists", zap.String("index", idx.name))
			continue
		}
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Info("created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.Strings("columns", idx.columns),
		)
	}
	return nil
}

// MigrateDatabase runs AutoMigrate and then adds the list indexes.
func MigrateDatabase(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	if err := AutoMigrate(db); err != nil {
		return err
	}
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	log.Info("database migrations completed")
	return nil
}
