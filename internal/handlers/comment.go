package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/goal-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"github.com/yukikurage/goal-tracker-api/internal/utils"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *services.CommentService
	log            *zap.Logger
}

func NewCommentHandler(commentService *services.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		log:            log,
	}
}

// CreateComment comments on a goal that is not archived
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateCommentRequest struct {
		Goal uint64 `json:"goal" binding:"required"`
		Text string `json:"text" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	comment, err := h.commentService.CreateComment(userID, req.Goal, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns comments on the user's boards, optionally for one goal
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	input := services.ListCommentsInput{
		UserID:   userID,
		Ordering: c.Query("ordering"),
	}
	if raw := c.Query("goal"); raw != "" {
		goalID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid goal")
			return
		}
		input.GoalID = &goalID
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	comments, total, err := h.commentService.ListComments(input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentListResponse(comments, params.Response(total)))
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c)
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(userID, commentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c)
	if !ok {
		return
	}

	type UpdateCommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	comment, err := h.commentService.UpdateComment(userID, commentID, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(userID, commentID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
