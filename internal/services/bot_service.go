package services

import (
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/repository"
	"github.com/yukikurage/goal-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	verificationCompletedMessage = "Verification completed"
	maxCodeAttempts              = 5
)

// Notifier sends a text message to a Telegram chat.
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

// BotService links Telegram accounts to users and serves the bot's queries.
type BotService struct {
	tgUserRepo   repository.TgUserRepository
	goalService  *GoalService
	categoryRepo repository.CategoryRepository
	goalRepo     repository.GoalRepository
	notifier     Notifier
	log          *zap.Logger
}

// NewBotService creates a new BotService. notifier may be nil when no bot
// token is configured; verification then succeeds silently.
func NewBotService(
	tgUserRepo repository.TgUserRepository,
	goalService *GoalService,
	categoryRepo repository.CategoryRepository,
	goalRepo repository.GoalRepository,
	notifier Notifier,
	log *zap.Logger,
) *BotService {
	return &BotService{
		tgUserRepo:   tgUserRepo,
		goalService:  goalService,
		categoryRepo: categoryRepo,
		goalRepo:     goalRepo,
		notifier:     notifier,
		log:          log,
	}
}

// VerifiedUserID returns the linked user of a Telegram account. ok is false
// for unknown or unverified accounts.
func (s *BotService) VerifiedUserID(tgUserID int64) (userID uint64, ok bool, err error) {
	account, err := s.tgUserRepo.FindByTgUserID(tgUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to load telegram account: %w", err)
	}
	if !account.Verified() {
		return 0, false, nil
	}
	return *account.UserID, true, nil
}

// StartVerification stores a fresh code on the account, creating the account
// on first contact, and returns the code to send to the chat.
func (s *BotService) StartVerification(tgUserID, chatID int64) (string, error) {
	code, err := s.freshCode()
	if err != nil {
		return "", err
	}

	account, err := s.tgUserRepo.FindByTgUserID(tgUserID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = &models.TgUser{
			TgUserID:         tgUserID,
			TgChatID:         chatID,
			VerificationCode: code,
		}
		if err := s.tgUserRepo.Create(account); err != nil {
			return "", fmt.Errorf("failed to create telegram account: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("failed to load telegram account: %w", err)
	default:
		account.TgChatID = chatID
		account.VerificationCode = code
		if err := s.tgUserRepo.Update(account); err != nil {
			return "", fmt.Errorf("failed to update telegram account: %w", err)
		}
	}

	return code, nil
}

// freshCode draws codes until one is not held by another pending account.
func (s *BotService) freshCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := utils.GenerateVerificationCode()
		if err != nil {
			return "", err
		}
		_, err = s.tgUserRepo.FindByVerificationCode(code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check verification code: %w", err)
		}
	}
	return "", errors.New("could not allocate a unique verification code")
}

// Verify binds the Telegram account holding code to userID and tells the chat.
func (s *BotService) Verify(userID uint64, code string) (*models.TgUser, error) {
	if code == "" {
		return nil, apierrors.NewValidationError("verification_code", blankFieldMessage)
	}

	account, err := s.tgUserRepo.FindByVerificationCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewValidationError("verification_code", "Incorrect verification code")
		}
		return nil, fmt.Errorf("failed to find verification code: %w", err)
	}

	account.UserID = &userID
	account.IsVerified = true
	account.VerificationCode = ""
	if err := s.tgUserRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to verify telegram account: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendMessage(account.TgChatID, verificationCompletedMessage); err != nil {
			s.log.Warn("failed to notify telegram chat",
				zap.Int64("chat_id", account.TgChatID),
				zap.Error(err),
			)
		}
	}

	return account, nil
}

// ActiveGoals lists every non-archived goal on the user's boards.
func (s *BotService) ActiveGoals(userID uint64) ([]models.Goal, error) {
	goals, _, err := s.goalRepo.List(repository.GoalFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// WritableCategories lists the categories the user may add goals to.
func (s *BotService) WritableCategories(userID uint64) ([]models.GoalCategory, error) {
	categories, _, err := s.categoryRepo.List(repository.CategoryFilter{
		UserID:       userID,
		WritableOnly: true,
		Ordering:     "title",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateGoal creates a goal through the same checks as the HTTP API.
func (s *BotService) CreateGoal(userID, categoryID uint64, title string) (*models.Goal, error) {
	return s.goalService.CreateGoal(userID, CreateGoalInput{
		CategoryID: categoryID,
		Title:      title,
	})
}
