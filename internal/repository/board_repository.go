package repository

import (
	"fmt"

	"github.com/yukikurage/goal-tracker-api/internal/database"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

var boardOrderings = map[string]string{
	"title":    "boards.title ASC",
	"-title":   "boards.title DESC",
	"created":  "boards.created_at ASC",
	"-created": "boards.created_at DESC",
	"updated":  "boards.updated_at ASC",
	"-updated": "boards.updated_at DESC",
}

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// CreateWithOwner creates the board and makes ownerID its owner
func (r *GormBoardRepository) CreateWithOwner(board *models.Board, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		owner := &models.BoardParticipant{
			BoardID: board.ID,
			UserID:  ownerID,
			Role:    models.RoleOwner,
		}
		return tx.Create(owner).Error
	})
}

// FindByID finds a board by ID
func (r *GormBoardRepository) FindByID(id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindVisible finds a non-deleted board the user participates in
func (r *GormBoardRepository) FindVisible(id, userID uint64) (*models.Board, error) {
	var board models.Board
	err := r.db.
		Preload("Participants.User").
		Where("boards.is_deleted = ?", false).
		Where("boards.id IN (?)", participantBoards(r.db, userID)).
		First(&board, id).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// List retrieves the boards a user participates in
func (r *GormBoardRepository) List(filter BoardFilter) ([]models.Board, int64, error) {
	query := r.db.Model(&models.Board{}).
		Where("boards.is_deleted = ?", false).
		Where("boards.id IN (?)", participantBoards(r.db, filter.UserID))

	if filter.Search != "" {
		query = query.Where("LOWER(boards.title) LIKE ?", likePattern(filter.Search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boards []models.Board
	err := query.
		Order(orderClause(boardOrderings, filter.Ordering, "title")).
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&boards).Error
	if err != nil {
		return nil, 0, err
	}

	return boards, total, nil
}

// Update saves the title and, when participants is non-nil, replaces the
// participant list. Both writes share one transaction.
func (r *GormBoardRepository) Update(board *models.Board, actorID uint64, participants []models.BoardParticipant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(board).Select("title").Updates(board).Error; err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}
		if participants == nil {
			return nil
		}
		if err := replaceParticipants(tx, board.ID, actorID, participants); err != nil {
			return fmt.Errorf("failed to update participants: %w", err)
		}
		return nil
	})
}

// replaceParticipants removes participants missing from the list, updates
// changed roles and adds new ones. The actor's own row is never touched.
func replaceParticipants(tx *gorm.DB, boardID, actorID uint64, participants []models.BoardParticipant) error {
	var existing []models.BoardParticipant
	if err := tx.Where("board_id = ? AND user_id <> ?", boardID, actorID).
		Find(&existing).Error; err != nil {
		return err
	}

	current := make(map[uint64]models.BoardParticipant, len(existing))
	for _, p := range existing {
		current[p.UserID] = p
	}

	wanted := make(map[uint64]struct{}, len(participants))
	for _, p := range participants {
		if p.UserID == actorID {
			continue
		}
		wanted[p.UserID] = struct{}{}

		row, ok := current[p.UserID]
		switch {
		case !ok:
			if err := tx.Create(&models.BoardParticipant{
				BoardID: boardID,
				UserID:  p.UserID,
				Role:    p.Role,
			}).Error; err != nil {
				return err
			}
		case row.Role != p.Role:
			if err := tx.Model(&row).Update("role", p.Role).Error; err != nil {
				return err
			}
		}
	}

	var stale []uint64
	for userID := range current {
		if _, ok := wanted[userID]; !ok {
			stale = append(stale, userID)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	return tx.Where("board_id = ? AND user_id IN ?", boardID, stale).
		Delete(&models.BoardParticipant{}).Error
}

// FindParticipant finds a specific board participant
func (r *GormBoardRepository) FindParticipant(boardID, userID uint64) (*models.BoardParticipant, error) {
	var participant models.BoardParticipant
	if err := r.db.Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListParticipants lists all participants of a board
func (r *GormBoardRepository) ListParticipants(boardID uint64) ([]models.BoardParticipant, error) {
	var participants []models.BoardParticipant
	if err := r.db.Preload("User").
		Where("board_id = ?", boardID).
		Order("id ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// SoftDelete flips the board flag, then its categories, then the goals under
// them. Rows already in their final state are left alone.
func (r *GormBoardRepository) SoftDelete(id uint64) (CascadeResult, error) {
	var result CascadeResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Board{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true).Error; err != nil {
			return fmt.Errorf("failed to delete board: %w", err)
		}

		categories := tx.Model(&models.GoalCategory{}).
			Where("board_id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		if categories.Error != nil {
			return fmt.Errorf("failed to delete board categories: %w", categories.Error)
		}

		boardCategories := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.GoalCategory{}).
			Select("id").
			Where("board_id = ?", id)
		goals := tx.Model(&models.Goal{}).
			Where("category_id IN (?)", boardCategories).
			Where("status <> ?", models.GoalStatusArchived).
			Update("status", models.GoalStatusArchived)
		if goals.Error != nil {
			return fmt.Errorf("failed to archive board goals: %w", goals.Error)
		}

		result = CascadeResult{
			CategoriesDeleted: categories.RowsAffected,
			GoalsArchived:     goals.RowsAffected,
		}
		return nil
	}, cascadeTxOptions(r.db)...)
	if err != nil {
		return CascadeResult{}, err
	}
	return result, nil
}
