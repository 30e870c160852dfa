package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"go.uber.org/zap"
)

type BotHandler struct {
	botService *services.BotService
	log        *zap.Logger
}

func NewBotHandler(botService *services.BotService, log *zap.Logger) *BotHandler {
	return &BotHandler{
		botService: botService,
		log:        log,
	}
}

// Verify links the Telegram account that received the code to the current user
func (h *BotHandler) Verify(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type VerifyRequest struct {
		VerificationCode string `json:"verification_code"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, invalidBodyMessage)
		return
	}

	account, err := h.botService.Verify(userID, req.VerificationCode)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tg_user_id":  account.TgUserID,
		"tg_chat_id":  account.TgChatID,
		"user_id":     userID,
		"is_verified": account.IsVerified,
	})
}
