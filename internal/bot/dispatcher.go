package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"go.uber.org/zap"
)

const (
	CommandGoals  = "/goals"
	CommandCreate = "/create"
	CommandCancel = "/cancel"
)

const (
	verifyMessage          = "Hello! Please verify your account with this code %s"
	noGoalsMessage         = "You don't have any planned goals."
	chooseCategoryMessage  = "Choose your category:\n%s"
	noCategoriesMessage    = "You don't have any categories."
	enterTitleMessage      = "Please enter the title of a new goal"
	cancelledMessage       = "Your request has been cancelled"
	wrongCategoryMessage   = "Please choose the correct category"
	goalCreatedMessage     = "Goal %q has been created"
	goalNotCreatedMessage  = "Goal was not created: %s"
	unknownCommandMessage  = "Unknown command. Please try again."
	internalFailureMessage = "Something went wrong. Please try again later."
)

// Backend is what the dispatcher needs from the application.
// services.BotService implements it.
type Backend interface {
	VerifiedUserID(tgUserID int64) (uint64, bool, error)
	StartVerification(tgUserID, chatID int64) (string, error)
	ActiveGoals(userID uint64) ([]models.Goal, error)
	WritableCategories(userID uint64) ([]models.GoalCategory, error)
	CreateGoal(userID, categoryID uint64, title string) (*models.Goal, error)
}

// Sender delivers replies.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Dispatcher runs the per-user conversation: verification for unknown
// accounts, then /goals, /create and /cancel.
type Dispatcher struct {
	backend Backend
	states  StateStore
	sender  Sender
	log     *zap.Logger
}

func NewDispatcher(backend Backend, states StateStore, sender Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		backend: backend,
		states:  states,
		sender:  sender,
		log:     log,
	}
}

// Handle processes one update. Returned errors are infrastructure failures;
// user mistakes are answered in the chat.
func (d *Dispatcher) Handle(ctx context.Context, update Update) error {
	if !update.HasMessage() {
		return nil
	}

	userID, verified, err := d.backend.VerifiedUserID(update.TgUserID)
	if err != nil {
		return d.fail(update, err)
	}
	if !verified {
		code, err := d.backend.StartVerification(update.TgUserID, update.ChatID)
		if err != nil {
			return d.fail(update, err)
		}
		return d.reply(update, fmt.Sprintf(verifyMessage, code))
	}

	state, err := d.states.Load(ctx, update.TgUserID)
	if err != nil {
		return d.fail(update, err)
	}

	text := strings.TrimSpace(update.Text)
	switch text {
	case CommandCancel:
		return d.cancel(ctx, update)
	case CommandGoals:
		return d.listGoals(update, userID)
	case CommandCreate:
		return d.startCreate(ctx, update, userID)
	}

	switch state.Name {
	case StateChoosingCategory:
		return d.chooseCategory(ctx, update, userID, text)
	case StateEnteringTitle:
		return d.createGoal(ctx, update, userID, state.CategoryID, text)
	default:
		return d.reply(update, unknownCommandMessage)
	}
}

func (d *Dispatcher) cancel(ctx context.Context, update Update) error {
	if err := d.states.Reset(ctx, update.TgUserID); err != nil {
		return d.fail(update, err)
	}
	return d.reply(update, cancelledMessage)
}

func (d *Dispatcher) listGoals(update Update, userID uint64) error {
	goals, err := d.backend.ActiveGoals(userID)
	if err != nil {
		return d.fail(update, err)
	}
	if len(goals) == 0 {
		return d.reply(update, noGoalsMessage)
	}

	titles := make([]string, len(goals))
	for i, g := range goals {
		titles[i] = g.Title
	}
	return d.reply(update, strings.Join(titles, "\n"))
}

func (d *Dispatcher) startCreate(ctx context.Context, update Update, userID uint64) error {
	categories, err := d.backend.WritableCategories(userID)
	if err != nil {
		return d.fail(update, err)
	}
	if len(categories) == 0 {
		if err := d.states.Reset(ctx, update.TgUserID); err != nil {
			return d.fail(update, err)
		}
		return d.reply(update, noCategoriesMessage)
	}

	if err := d.states.Save(ctx, update.TgUserID, State{Name: StateChoosingCategory}); err != nil {
		return d.fail(update, err)
	}

	titles := make([]string, len(categories))
	for i, c := range categories {
		titles[i] = c.Title
	}
	return d.reply(update, fmt.Sprintf(chooseCategoryMessage, strings.Join(titles, "\n")))
}

// chooseCategory matches text against category titles exactly. Categories
// arrive ordered by title, so the first match wins among duplicates.
func (d *Dispatcher) chooseCategory(ctx context.Context, update Update, userID uint64, text string) error {
	categories, err := d.backend.WritableCategories(userID)
	if err != nil {
		return d.fail(update, err)
	}

	for _, c := range categories {
		if c.Title != text {
			continue
		}
		next := State{Name: StateEnteringTitle, CategoryID: c.ID}
		if err := d.states.Save(ctx, update.TgUserID, next); err != nil {
			return d.fail(update, err)
		}
		return d.reply(update, enterTitleMessage)
	}
	return d.reply(update, wrongCategoryMessage)
}

func (d *Dispatcher) createGoal(ctx context.Context, update Update, userID, categoryID uint64, title string) error {
	goal, err := d.backend.CreateGoal(userID, categoryID, title)
	if err != nil {
		var validation *apierrors.ValidationError
		if errors.As(err, &validation) && validation.Field == "title" {
			return d.reply(update, enterTitleMessage)
		}
		if apierrors.IsValidation(err) || apierrors.IsPermission(err) || apierrors.IsNotFound(err) {
			if resetErr := d.states.Reset(ctx, update.TgUserID); resetErr != nil {
				return d.fail(update, resetErr)
			}
			return d.reply(update, fmt.Sprintf(goalNotCreatedMessage, err.Error()))
		}
		return d.fail(update, err)
	}

	if err := d.states.Reset(ctx, update.TgUserID); err != nil {
		return d.fail(update, err)
	}
	return d.reply(update, fmt.Sprintf(goalCreatedMessage, goal.Title))
}

func (d *Dispatcher) reply(update Update, text string) error {
	if err := d.sender.SendMessage(update.ChatID, text); err != nil {
		return fmt.Errorf("failed to reply to chat %d: %w", update.ChatID, err)
	}
	return nil
}

// fail tells the user something broke and returns err for the poller to log.
func (d *Dispatcher) fail(update Update, err error) error {
	if sendErr := d.sender.SendMessage(update.ChatID, internalFailureMessage); sendErr != nil {
		d.log.Warn("failed to report failure to chat",
			zap.Int64("chat_id", update.ChatID),
			zap.Error(sendErr),
		)
	}
	return err
}
