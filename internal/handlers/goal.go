package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/goal-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"github.com/yukikurage/goal-tracker-api/internal/utils"
	"go.uber.org/zap"
)

type GoalHandler struct {
	goalService *services.GoalService
	log         *zap.Logger
}

func NewGoalHandler(goalService *services.GoalService, log *zap.Logger) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		log:         log,
	}
}

// CreateGoal adds a goal to a category the user may write to
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateGoalRequest struct {
		Category    uint64     `json:"category" binding:"required"`
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	input := services.CreateGoalInput{
		CategoryID:  req.Category,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	var err error
	if req.Status != "" {
		if input.Status, err = models.ParseGoalStatus(req.Status); err != nil {
			respondError(c, h.log, apierrors.NewValidationError("status", err.Error()))
			return
		}
	}
	if req.Priority != "" {
		if input.Priority, err = models.ParseGoalPriority(req.Priority); err != nil {
			respondError(c, h.log, apierrors.NewValidationError("priority", err.Error()))
			return
		}
	}

	goal, err := h.goalService.CreateGoal(userID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGoalDTO(*goal))
}

// ListGoals returns active goals on the user's boards.
// Filters: category, status, priority (each one or many), due_date__gte,
// due_date__lte, search, ordering.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	categoryIDs, err := utils.QueryUint64List(c, "category")
	if err != nil {
		apierrors.BadRequest(c, "Invalid category")
		return
	}

	var statuses []models.GoalStatus
	for _, name := range utils.QueryList(c, "status") {
		status, err := models.ParseGoalStatus(name)
		if err != nil {
			respondError(c, h.log, apierrors.NewValidationError("status", err.Error()))
			return
		}
		statuses = append(statuses, status)
	}

	var priorities []models.GoalPriority
	for _, name := range utils.QueryList(c, "priority") {
		priority, err := models.ParseGoalPriority(name)
		if err != nil {
			respondError(c, h.log, apierrors.NewValidationError("priority", err.Error()))
			return
		}
		priorities = append(priorities, priority)
	}

	dueFrom, ok := dateQuery(c, "due_date__gte")
	if !ok {
		return
	}
	dueTo, ok := dateQuery(c, "due_date__lte")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	goals, total, err := h.goalService.ListGoals(services.ListGoalsInput{
		UserID:      userID,
		CategoryIDs: categoryIDs,
		Statuses:    statuses,
		Priorities:  priorities,
		DueDateFrom: dueFrom,
		DueDateTo:   dueTo,
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
		Page:        params.Page,
		PageSize:    params.Limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalListResponse(goals, params.Response(total)))
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c)
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoal(userID, goalID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(*goal))
}

// UpdateGoal applies the fields present in the body. due_date: null clears the date.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c)
	if !ok {
		return
	}

	type UpdateGoalRequest struct {
		Category    *uint64         `json:"category"`
		Title       *string         `json:"title"`
		Description *string         `json:"description"`
		DueDate     json.RawMessage `json:"due_date"`
		Status      *string         `json:"status"`
		Priority    *string         `json:"priority"`
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	input := services.UpdateGoalInput{
		CategoryID:  req.Category,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := applyDueDate(&input, req.DueDate); err != nil {
		respondError(c, h.log, err)
		return
	}
	if req.Status != nil {
		status, err := models.ParseGoalStatus(*req.Status)
		if err != nil {
			respondError(c, h.log, apierrors.NewValidationError("status", err.Error()))
			return
		}
		input.Status = &status
	}
	if req.Priority != nil {
		priority, err := models.ParseGoalPriority(*req.Priority)
		if err != nil {
			respondError(c, h.log, apierrors.NewValidationError("priority", err.Error()))
			return
		}
		input.Priority = &priority
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(*goal))
}

// DeleteGoal archives the goal
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateGoals asks the AI for goals described in free text. Nothing is saved.
func (h *GoalHandler) GenerateGoals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type GenerateGoalsRequest struct {
		Text     string `json:"text" binding:"required"`
		Category uint64 `json:"category" binding:"required"`
	}

	var req GenerateGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	goals, err := h.goalService.SuggestGoals(c.Request.Context(), userID, req.Category, req.Text)
	switch {
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
		return
	case errors.Is(err, services.ErrAINoGoalsGenerated):
		apierrors.BadRequest(c, err.Error())
		return
	case err != nil:
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goals": dto.ToGeneratedGoalDTOs(goals, req.Category),
	})
}

func applyDueDate(input *services.UpdateGoalInput, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if bytes.Equal(raw, []byte("null")) {
		input.ClearDueDate = true
		return nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return apierrors.NewValidationError("due_date", "Enter a valid date.")
	}
	due, err := parseDate(value)
	if err != nil {
		return apierrors.NewValidationError("due_date", "Enter a valid date.")
	}
	input.DueDate = &due
	return nil
}
