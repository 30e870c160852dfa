package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/goal-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"github.com/yukikurage/goal-tracker-api/internal/utils"
	"go.uber.org/zap"
)

type BoardHandler struct {
	boardService *services.BoardService
	log          *zap.Logger
}

func NewBoardHandler(boardService *services.BoardService, log *zap.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		log:          log,
	}
}

// CreateBoard creates a board owned by the current user
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateBoardRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	board, err := h.boardService.CreateBoard(userID, req.Title)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// ListBoards returns the boards the current user participates in
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	boards, total, err := h.boardService.ListBoards(services.ListBoardsInput{
		UserID:   userID,
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardListResponse(boards, params.Response(total)))
}

// GetBoard returns a board with its participants
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := idParam(c)
	if !ok {
		return
	}

	board, err := h.boardService.GetBoard(userID, boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// UpdateBoard changes the title and optionally replaces the participant list
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := idParam(c)
	if !ok {
		return
	}

	type ParticipantRequest struct {
		User string           `json:"user" binding:"required"`
		Role models.BoardRole `json:"role" binding:"required"`
	}
	type UpdateBoardRequest struct {
		Title        *string               `json:"title"`
		Participants *[]ParticipantRequest `json:"participants" binding:"omitempty,dive"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	input := services.UpdateBoardInput{Title: req.Title}
	if req.Participants != nil {
		participants := make([]services.ParticipantInput, len(*req.Participants))
		for i, p := range *req.Participants {
			participants[i] = services.ParticipantInput{Username: p.User, Role: p.Role}
		}
		input.Participants = &participants
	}

	board, err := h.boardService.UpdateBoard(userID, boardID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// DeleteBoard soft-deletes the board with its categories and goals
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := idParam(c)
	if !ok {
		return
	}

	result, err := h.boardService.DeleteBoard(userID, boardID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCascadeResultDTO(result))
}
