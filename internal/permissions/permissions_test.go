package permissions

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

type fakeParticipants struct {
	roles map[[2]uint64]models.BoardRole
	err   error
}

func (f *fakeParticipants) FindParticipant(boardID, userID uint64) (*models.BoardParticipant, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[[2]uint64{boardID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.BoardParticipant{BoardID: boardID, UserID: userID, Role: role}, nil
}

func rolePtr(r models.BoardRole) *models.BoardRole { return &r }

func TestAllowed(t *testing.T) {
	const user uint64 = 1
	board := models.Board{ID: 10}
	category := models.GoalCategory{ID: 20, BoardID: 10, UserID: 99}
	goal := models.Goal{ID: 30, Category: category}
	ownComment := models.GoalComment{ID: 40, UserID: user, Goal: goal}
	otherComment := models.GoalComment{ID: 41, UserID: 99, Goal: goal}

	roles := []*models.BoardRole{nil, rolePtr(models.RoleOwner), rolePtr(models.RoleWriter), rolePtr(models.RoleReader)}

	for _, role := range roles {
		name := "none"
		if role != nil {
			name = string(*role)
		}
		t.Run(name, func(t *testing.T) {
			participant := role != nil
			isOwner := participant && *role == models.RoleOwner
			canWrite := participant && (*role == models.RoleOwner || *role == models.RoleWriter)

			for _, res := range []Resource{board, category, goal, ownComment, otherComment} {
				assert.Equal(t, participant, Allowed(user, role, OperationSafe, res), "safe %s", res.ResourceName())
			}

			assert.Equal(t, isOwner, Allowed(user, role, OperationMutating, board))
			assert.Equal(t, canWrite, Allowed(user, role, OperationMutating, category))
			assert.Equal(t, canWrite, Allowed(user, role, OperationMutating, goal))
			assert.Equal(t, participant, Allowed(user, role, OperationMutating, ownComment))
			assert.Equal(t, canWrite, Allowed(user, role, OperationMutating, otherComment))
		})
	}
}

func TestAllowed_CategoryIgnoresCreator(t *testing.T) {
	category := models.GoalCategory{ID: 1, BoardID: 1, UserID: 5}
	assert.False(t, Allowed(5, rolePtr(models.RoleReader), OperationMutating, category))
	assert.True(t, Allowed(6, rolePtr(models.RoleWriter), OperationMutating, category))
}

func TestEvaluator_Authorize(t *testing.T) {
	lookup := &fakeParticipants{roles: map[[2]uint64]models.BoardRole{
		{10, 1}: models.RoleOwner,
		{10, 2}: models.RoleReader,
	}}
	ev := NewEvaluator(lookup)
	goal := models.Goal{ID: 3, Category: models.GoalCategory{BoardID: 10}}

	require.NoError(t, ev.Authorize(1, OperationMutating, goal))
	require.NoError(t, ev.Authorize(2, OperationSafe, goal))

	err := ev.Authorize(2, OperationMutating, goal)
	require.Error(t, err)
	assert.True(t, apierrors.IsPermission(err))
	assert.Contains(t, err.Error(), "goal")

	err = ev.Authorize(3, OperationSafe, goal)
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestEvaluator_AuthorizeChild(t *testing.T) {
	lookup := &fakeParticipants{roles: map[[2]uint64]models.BoardRole{
		{10, 1}: models.RoleWriter,
		{10, 2}: models.RoleReader,
	}}
	ev := NewEvaluator(lookup)
	board := models.Board{ID: 10}

	require.NoError(t, ev.AuthorizeChild(1, board, "category"))
	assert.True(t, apierrors.IsPermission(ev.AuthorizeChild(2, board, "category")))
	assert.True(t, apierrors.IsPermission(ev.AuthorizeChild(3, board, "category")))
}

func TestEvaluator_LookupFailure(t *testing.T) {
	boom := errors.New("connection reset")
	ev := NewEvaluator(&fakeParticipants{err: boom})

	err := ev.Authorize(1, OperationSafe, models.Board{ID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, apierrors.IsNotFound(err))
}

func TestOperationForMethod(t *testing.T) {
	assert.Equal(t, OperationSafe, OperationForMethod(http.MethodGet))
	assert.Equal(t, OperationSafe, OperationForMethod(http.MethodHead))
	assert.Equal(t, OperationMutating, OperationForMethod(http.MethodPatch))
	assert.Equal(t, OperationMutating, OperationForMethod(http.MethodDelete))
}
