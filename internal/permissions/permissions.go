// Package permissions decides whether a user may read or mutate an entity by
// resolving the entity to its board and checking the user's participant role.
package permissions

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

// Operation classifies a request as read-only or state-changing.
type Operation int

const (
	OperationSafe Operation = iota
	OperationMutating
)

func (o Operation) String() string {
	if o == OperationSafe {
		return "safe"
	}
	return "mutating"
}

// OperationForMethod maps an HTTP method to its operation class.
func OperationForMethod(method string) Operation {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return OperationSafe
	default:
		return OperationMutating
	}
}

// Resource is implemented by every entity that lives on a board.
type Resource interface {
	ResolveBoardID() uint64
	MutatingRoles() []models.BoardRole
	ResourceName() string
}

// Authored is implemented by entities whose author may always mutate them.
type Authored interface {
	AuthorID() uint64
}

// Allowed is the pure decision. A nil role means the user is not a participant.
func Allowed(userID uint64, role *models.BoardRole, op Operation, res Resource) bool {
	if role == nil {
		return false
	}
	if op == OperationSafe {
		return true
	}
	if authored, ok := res.(Authored); ok && authored.AuthorID() == userID {
		return true
	}
	return role.In(res.MutatingRoles())
}

// ParticipantLookup finds the participant row of a user on a board and
// returns gorm.ErrRecordNotFound when there is none.
type ParticipantLookup interface {
	FindParticipant(boardID, userID uint64) (*models.BoardParticipant, error)
}

// Evaluator applies Allowed against participant rows from the store.
type Evaluator struct {
	participants ParticipantLookup
}

// NewEvaluator creates a new Evaluator
func NewEvaluator(participants ParticipantLookup) *Evaluator {
	return &Evaluator{participants: participants}
}

// RoleOf returns the user's role on a board, or nil if they have none.
func (e *Evaluator) RoleOf(boardID, userID uint64) (*models.BoardRole, error) {
	participant, err := e.participants.FindParticipant(boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	role := participant.Role
	return &role, nil
}

// Authorize returns a NotFoundError when the user has no role on the
// resource's board and a PermissionError when the role is insufficient.
func (e *Evaluator) Authorize(userID uint64, op Operation, res Resource) error {
	role, err := e.RoleOf(res.ResolveBoardID(), userID)
	if err != nil {
		return err
	}
	if role == nil {
		return apierrors.NewNotFoundError(res.ResourceName())
	}
	if !Allowed(userID, role, op, res) {
		return apierrors.NewPermissionError(denyReason(res))
	}
	return nil
}

// AuthorizeChild checks that the user may create a child entity under parent.
// Non-participants get a PermissionError here since they named the parent themselves.
func (e *Evaluator) AuthorizeChild(userID uint64, parent Resource, child string) error {
	role, err := e.RoleOf(parent.ResolveBoardID(), userID)
	if err != nil {
		return err
	}
	if role == nil || !role.In(models.WriteRoles) {
		return apierrors.NewPermissionError(
			fmt.Sprintf("you must be an owner or writer on the board to create a %s", child))
	}
	return nil
}

func denyReason(res Resource) string {
	names := make([]string, 0, len(res.MutatingRoles()))
	for _, r := range res.MutatingRoles() {
		names = append(names, string(r))
	}
	who := strings.Join(names, " or ")
	if _, ok := res.(Authored); ok {
		who = "the author, " + who
	}
	return fmt.Sprintf("only %s may modify this %s", who, res.ResourceName())
}
