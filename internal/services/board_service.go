package services

import (
	"fmt"
	"sort"

	"github.com/yukikurage/goal-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/permissions"
	"github.com/yukikurage/goal-tracker-api/internal/repository"
)

// BoardService handles board business logic
type BoardService struct {
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
	perms     *permissions.Evaluator
}

// NewBoardService creates a new BoardService
func NewBoardService(boardRepo repository.BoardRepository, userRepo repository.UserRepository, perms *permissions.Evaluator) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
		perms:     perms,
	}
}

// ParticipantInput names a participant by username.
type ParticipantInput struct {
	Username string
	Role     models.BoardRole
}

// UpdateBoardInput represents input for updating a board. A nil Participants
// leaves the participant list unchanged.
type UpdateBoardInput struct {
	Title        *string
	Participants *[]ParticipantInput
}

// ListBoardsInput represents filters for listing boards
type ListBoardsInput struct {
	UserID   uint64
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// CreateBoard creates a board and makes the creator its owner
func (s *BoardService) CreateBoard(userID uint64, title string) (*models.Board, error) {
	title, err := requireText("title", title, constants.MaxTitleLength)
	if err != nil {
		return nil, err
	}

	board := &models.Board{Title: title}
	if err := s.boardRepo.CreateWithOwner(board, userID); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return s.GetBoard(userID, board.ID)
}

// ListBoards returns the boards the user participates in
func (s *BoardService) ListBoards(input ListBoardsInput) ([]models.Board, int64, error) {
	boards, total, err := s.boardRepo.List(repository.BoardFilter{
		UserID:   input.UserID,
		Search:   input.Search,
		Ordering: input.Ordering,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, total, nil
}

// GetBoard returns a visible board with its participants
func (s *BoardService) GetBoard(userID, boardID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindVisible(boardID, userID)
	if err != nil {
		return nil, notFoundOr(err, "board")
	}
	return board, nil
}

// UpdateBoard changes the title and, when given, replaces the participants
func (s *BoardService) UpdateBoard(userID, boardID uint64, input UpdateBoardInput) (*models.Board, error) {
	board, err := s.GetBoard(userID, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, board); err != nil {
		return nil, err
	}

	var participants []models.BoardParticipant
	if input.Participants != nil {
		participants, err = s.resolveParticipants(*input.Participants)
		if err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		title, err := requireText("title", *input.Title, constants.MaxTitleLength)
		if err != nil {
			return nil, err
		}
		board.Title = title
	}

	if err := s.boardRepo.Update(board, userID, participants); err != nil {
		return nil, err
	}

	return s.GetBoard(userID, boardID)
}

// DeleteBoard soft-deletes the board and cascades to its categories and goals
func (s *BoardService) DeleteBoard(userID, boardID uint64) (repository.CascadeResult, error) {
	board, err := s.GetBoard(userID, boardID)
	if err != nil {
		return repository.CascadeResult{}, err
	}
	if err := s.perms.Authorize(userID, permissions.OperationMutating, board); err != nil {
		return repository.CascadeResult{}, err
	}

	result, err := s.boardRepo.SoftDelete(board.ID)
	if err != nil {
		return repository.CascadeResult{}, fmt.Errorf("failed to delete board: %w", err)
	}
	return result, nil
}

func (s *BoardService) resolveParticipants(inputs []ParticipantInput) ([]models.BoardParticipant, error) {
	usernames := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if !in.Role.Editable() {
			return nil, apierrors.NewValidationError("participants",
				fmt.Sprintf("%q is not a valid choice. Choose writer or reader.", in.Role))
		}
		if _, dup := seen[in.Username]; dup {
			return nil, apierrors.NewValidationError("participants",
				fmt.Sprintf("User %q is listed more than once.", in.Username))
		}
		seen[in.Username] = struct{}{}
		usernames = append(usernames, in.Username)
	}

	users, err := s.userRepo.FindByUsernames(usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participants: %w", err)
	}
	byName := make(map[string]uint64, len(users))
	for _, u := range users {
		byName[u.Username] = u.ID
	}

	var missing []string
	participants := make([]models.BoardParticipant, 0, len(inputs))
	for _, in := range inputs {
		id, ok := byName[in.Username]
		if !ok {
			missing = append(missing, in.Username)
			continue
		}
		participants = append(participants, models.BoardParticipant{UserID: id, Role: in.Role})
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apierrors.NewValidationError("participants",
			fmt.Sprintf("Unknown users: %v", missing))
	}
	return participants, nil
}
