package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/testutil"
	"gorm.io/gorm"
)

func TestBoardRepository_CreateWithOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBoardRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	board := &models.Board{Title: "Sprint"}
	require.NoError(t, repo.CreateWithOwner(board, alice.ID))
	require.NotZero(t, board.ID)

	participant, err := repo.FindParticipant(board.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, participant.Role)
}

func TestBoardRepository_VisibilityIsParticipantScoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBoardRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	board := testutil.CreateBoard(t, db, "Sprint", alice)
	testutil.CreateBoard(t, db, "Private", bob)

	found, err := repo.FindVisible(board.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, found.Participants, 1)
	assert.Equal(t, "alice", found.Participants[0].User.Username)

	_, err = repo.FindVisible(board.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	boards, total, err := repo.List(BoardFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, boards, 1)
	assert.Equal(t, "Sprint", boards[0].Title)

	testutil.SetBoardDeleted(t, db, board)
	_, err = repo.FindVisible(board.ID, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBoardRepository_ListSearchAndOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBoardRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateBoard(t, db, "Beta plans", alice)
	testutil.CreateBoard(t, db, "Alpha plans", alice)
	testutil.CreateBoard(t, db, "Groceries", alice)

	boards, total, err := repo.List(BoardFilter{UserID: alice.ID, Search: "PLANS", Ordering: "-title"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, boards, 2)
	assert.Equal(t, "Beta plans", boards[0].Title)
	assert.Equal(t, "Alpha plans", boards[1].Title)

	page, total, err := repo.List(BoardFilter{UserID: alice.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "Groceries", page[0].Title)
}

func TestBoardRepository_UpdateReplacesParticipants(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBoardRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")
	board := testutil.CreateBoard(t, db, "Sprint", alice)
	testutil.AddParticipant(t, db, board, bob, models.RoleReader)
	testutil.AddParticipant(t, db, board, carol, models.RoleWriter)

	board.Title = "Sprint 2"
	err := repo.Update(board, alice.ID, []models.BoardParticipant{
		{UserID: bob.ID, Role: models.RoleWriter},
		{UserID: dave.ID, Role: models.RoleReader},
		{UserID: alice.ID, Role: models.RoleReader},
	})
	require.NoError(t, err)

	participants, err := repo.ListParticipants(board.ID)
	require.NoError(t, err)

	roles := map[string]models.BoardRole{}
	for _, p := range participants {
		roles[p.User.Username] = p.Role
	}
	assert.Equal(t, map[string]models.BoardRole{
		"alice": models.RoleOwner,
		"bob":   models.RoleWriter,
		"dave":  models.RoleReader,
	}, roles)

	stored, err := repo.FindByID(board.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 2", stored.Title)

	// nil participants keeps the list as it is
	stored.Title = "Sprint 3"
	require.NoError(t, repo.Update(stored, alice.ID, nil))
	participants, err = repo.ListParticipants(board.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 3)
}

func TestCategoryRepository_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	sprint := testutil.CreateBoard(t, db, "Sprint", alice)
	home := testutil.CreateBoard(t, db, "Home", alice)
	testutil.AddParticipant(t, db, home, bob, models.RoleReader)

	testutil.CreateCategory(t, db, "Backlog", sprint, alice)
	testutil.CreateCategory(t, db, "Chores", home, alice)
	gone := testutil.CreateCategory(t, db, "Gone", home, alice)
	testutil.SetCategoryDeleted(t, db, gone)

	all, total, err := repo.List(CategoryFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Backlog", all[0].Title)

	onBoard, _, err := repo.List(CategoryFilter{UserID: alice.ID, BoardIDs: []uint64{home.ID}})
	require.NoError(t, err)
	require.Len(t, onBoard, 1)
	assert.Equal(t, "Chores", onBoard[0].Title)

	bobs, _, err := repo.List(CategoryFilter{UserID: bob.ID})
	require.NoError(t, err)
	require.Len(t, bobs, 1)

	writable, _, err := repo.List(CategoryFilter{UserID: bob.ID, WritableOnly: true})
	require.NoError(t, err)
	assert.Empty(t, writable)
}

func TestGoalRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGoalRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	board := testutil.CreateBoard(t, db, "Sprint", alice)
	backlog := testutil.CreateCategory(t, db, "Backlog", board, alice)
	later := testutil.CreateCategory(t, db, "Later", board, alice)

	low := testutil.CreateGoal(t, db, "Low one", backlog, alice)
	require.NoError(t, db.Model(low).Updates(map[string]interface{}{
		"priority": models.GoalPriorityLow,
		"due_date": testutil.Date(2024, time.March, 1),
	}).Error)
	critical := testutil.CreateGoal(t, db, "Critical one", backlog, alice)
	require.NoError(t, db.Model(critical).Updates(map[string]interface{}{
		"priority": models.GoalPriorityCritical,
		"status":   models.GoalStatusInProgress,
		"due_date": testutil.Date(2024, time.April, 1),
	}).Error)
	laterGoal := testutil.CreateGoal(t, db, "Later one", later, alice)
	archived := testutil.CreateGoal(t, db, "Archived one", later, alice)
	testutil.SetGoalStatus(t, db, archived, models.GoalStatusArchived)

	goals, total, err := repo.List(GoalFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, goals, 3)
	assert.Equal(t, critical.ID, goals[0].ID, "default ordering is by priority descending")
	assert.Equal(t, low.ID, goals[2].ID)

	byDue, _, err := repo.List(GoalFilter{UserID: alice.ID, Ordering: "due_date"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{low.ID, critical.ID, laterGoal.ID}, goalIDs(byDue))

	from := testutil.Date(2024, time.March, 15)
	ranged, _, err := repo.List(GoalFilter{UserID: alice.ID, DueDateFrom: &from})
	require.NoError(t, err)
	assert.Equal(t, []uint64{critical.ID}, goalIDs(ranged))

	inCategory, _, err := repo.List(GoalFilter{UserID: alice.ID, CategoryIDs: []uint64{later.ID}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{laterGoal.ID}, goalIDs(inCategory))

	byStatus, _, err := repo.List(GoalFilter{UserID: alice.ID, Statuses: []models.GoalStatus{models.GoalStatusInProgress}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{critical.ID}, goalIDs(byStatus))

	byPriority, _, err := repo.List(GoalFilter{UserID: alice.ID, Priorities: []models.GoalPriority{models.GoalPriorityLow, models.GoalPriorityMedium}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{low.ID, laterGoal.ID}, goalIDs(byPriority))

	searched, _, err := repo.List(GoalFilter{UserID: alice.ID, Search: "crit"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{critical.ID}, goalIDs(searched))

	none, total, err := repo.List(GoalFilter{UserID: bob.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestGoalRepository_FindVisibleHidesArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGoalRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	board := testutil.CreateBoard(t, db, "Sprint", alice)
	category := testutil.CreateCategory(t, db, "Backlog", board, alice)
	goal := testutil.CreateGoal(t, db, "Write spec", category, alice)

	found, err := repo.FindVisible(goal.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, found.ResolveBoardID())

	require.NoError(t, repo.Archive(goal.ID))
	_, err = repo.FindVisible(goal.ID, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	raw, err := repo.FindByID(goal.ID)
	require.NoError(t, err)
	assert.True(t, raw.IsArchived())
}

func TestCommentRepository_VisibleOnArchivedGoal(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	board := testutil.CreateBoard(t, db, "Sprint", alice)
	category := testutil.CreateCategory(t, db, "Backlog", board, alice)
	goal := testutil.CreateGoal(t, db, "Write spec", category, alice)
	first := testutil.CreateComment(t, db, "first", goal, alice)
	second := testutil.CreateComment(t, db, "second", goal, alice)
	testutil.SetGoalStatus(t, db, goal, models.GoalStatusArchived)

	found, err := repo.FindVisible(first.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, found.ResolveBoardID())

	_, err = repo.FindVisible(first.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	comments, total, err := repo.List(CommentFilter{UserID: alice.ID, GoalID: &goal.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, second.ID, comments[0].ID, "newest first by default")

	require.NoError(t, repo.Delete(first.ID))
	var count int64
	require.NoError(t, db.Model(&models.GoalComment{}).Where("id = ?", first.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTgUserRepository_FindByVerificationCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTgUserRepository(db)

	tgUser := &models.TgUser{TgChatID: 10, TgUserID: 20, VerificationCode: "a1b2c3"}
	require.NoError(t, repo.Create(tgUser))

	found, err := repo.FindByVerificationCode("a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, int64(20), found.TgUserID)

	alice := testutil.CreateUser(t, db, "alice")
	found.UserID = &alice.ID
	found.IsVerified = true
	require.NoError(t, repo.Update(found))

	_, err = repo.FindByVerificationCode("a1b2c3")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	byTg, err := repo.FindByTgUserID(20)
	require.NoError(t, err)
	assert.True(t, byTg.Verified())
}

func goalIDs(goals []models.Goal) []uint64 {
	ids := make([]uint64, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	return ids
}
