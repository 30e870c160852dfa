package dto

import (
	"time"

	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/repository"
	"github.com/yukikurage/goal-tracker-api/internal/utils"
)

// ParticipantDTO represents a board participant
type ParticipantDTO struct {
	ID       uint64           `json:"id"`
	UserID   uint64           `json:"user_id"`
	Username string           `json:"user"`
	Role     models.BoardRole `json:"role"`
	Created  time.Time        `json:"created"`
	Updated  time.Time        `json:"updated"`
}

// BoardDTO represents a board with its participants
type BoardDTO struct {
	ID           uint64           `json:"id"`
	Title        string           `json:"title"`
	IsDeleted    bool             `json:"is_deleted"`
	Created      time.Time        `json:"created"`
	Updated      time.Time        `json:"updated"`
	Participants []ParticipantDTO `json:"participants"`
}

// BoardListItemDTO represents a board in list responses
type BoardListItemDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	IsDeleted bool      `json:"is_deleted"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

// BoardListResponse represents a paginated list of boards
type BoardListResponse struct {
	Boards     []BoardListItemDTO       `json:"boards"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// CascadeResultDTO reports what a soft delete transitioned
type CascadeResultDTO struct {
	CategoriesDeleted int64 `json:"categories_deleted"`
	GoalsArchived     int64 `json:"goals_archived"`
}

// ToBoardDTO converts a Board with preloaded participants
func ToBoardDTO(board models.Board) BoardDTO {
	participants := make([]ParticipantDTO, len(board.Participants))
	for i, p := range board.Participants {
		participants[i] = ParticipantDTO{
			ID:       p.ID,
			UserID:   p.UserID,
			Username: p.User.Username,
			Role:     p.Role,
			Created:  p.CreatedAt,
			Updated:  p.UpdatedAt,
		}
	}

	return BoardDTO{
		ID:           board.ID,
		Title:        board.Title,
		IsDeleted:    board.IsDeleted,
		Created:      board.CreatedAt,
		Updated:      board.UpdatedAt,
		Participants: participants,
	}
}

// ToBoardListResponse builds the list payload
func ToBoardListResponse(boards []models.Board, pagination utils.PaginationResponse) BoardListResponse {
	items := make([]BoardListItemDTO, len(boards))
	for i, b := range boards {
		items[i] = BoardListItemDTO{
			ID:        b.ID,
			Title:     b.Title,
			IsDeleted: b.IsDeleted,
			Created:   b.CreatedAt,
			Updated:   b.UpdatedAt,
		}
	}
	return BoardListResponse{Boards: items, Pagination: pagination}
}

func ToCascadeResultDTO(result repository.CascadeResult) CascadeResultDTO {
	return CascadeResultDTO{
		CategoriesDeleted: result.CategoriesDeleted,
		GoalsArchived:     result.GoalsArchived,
	}
}
