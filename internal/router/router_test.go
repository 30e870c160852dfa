package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/goal-tracker-api/internal/dto"
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"github.com/yukikurage/goal-tracker-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type apiError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details"`
}

// session is one logged-in browser: it replays the cookies it was given.
type session struct {
	s       *APITestSuite
	cookies []*http.Cookie
}

func (c *session) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		c.s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.s.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return w
}

type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = testutil.NewTestDB(s.T())

	svc := NewServices(s.db, nil, nil, zap.NewNop())
	s.router = New(NewHandlers(svc, zap.NewNop()), cookie.NewStore([]byte("secret")), zap.NewNop())
}

func (s *APITestSuite) signup(username string) *session {
	client := &session{s: s}
	w := client.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username":        username,
		"password":        "supersecret",
		"password_repeat": "supersecret",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = client.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": "supersecret",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return client
}

func decode[T any](s *APITestSuite, w *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *APITestSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (s *APITestSuite) TestRequiresSession() {
	anonymous := &session{s: s}
	w := anonymous.do(http.MethodGet, "/api/boards", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestBoardWorkflow() {
	alice := s.signup("alice")
	bob := s.signup("bob")

	w := alice.do(http.MethodPost, "/api/boards", map[string]string{"title": "Sprint"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	board := decode[dto.BoardDTO](s, w)
	s.Require().Len(board.Participants, 1)
	s.Equal(models.RoleOwner, board.Participants[0].Role)
	s.Equal("alice", board.Participants[0].Username)

	boardPath := fmt.Sprintf("/api/boards/%d", board.ID)

	// bob cannot see the board until added
	s.Equal(http.StatusNotFound, bob.do(http.MethodGet, boardPath, nil).Code)

	w = alice.do(http.MethodPatch, boardPath, map[string]any{
		"participants": []map[string]string{{"user": "bob", "role": "reader"}},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(decode[dto.BoardDTO](s, w).Participants, 2)

	w = bob.do(http.MethodGet, "/api/boards", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	list := decode[dto.BoardListResponse](s, w)
	s.Require().Len(list.Boards, 1)
	s.Equal(int64(1), list.Pagination.Total)

	w = bob.do(http.MethodPatch, boardPath, map[string]string{"title": "Mine now"})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("FORBIDDEN", decode[apiError](s, w).Code)

	w = alice.do(http.MethodPost, "/api/categories", map[string]any{"board": board.ID, "title": "Backlog"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	category := decode[dto.CategoryDTO](s, w)

	w = bob.do(http.MethodPost, "/api/categories", map[string]any{"board": board.ID, "title": "Sneaky"})
	s.Equal(http.StatusForbidden, w.Code)

	w = alice.do(http.MethodPost, "/api/goals", map[string]any{
		"category": category.ID,
		"title":    "Write spec",
		"priority": "high",
		"due_date": "2030-01-02T00:00:00Z",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	goal := decode[dto.GoalDTO](s, w)
	s.Equal(models.GoalStatusToDo, goal.Status)
	s.Equal(models.GoalPriorityHigh, goal.Priority)
	s.Require().NotNil(goal.DueDate)

	goalPath := fmt.Sprintf("/api/goals/%d", goal.ID)
	w = bob.do(http.MethodPatch, goalPath, map[string]string{"title": "Edited"})
	s.Equal(http.StatusForbidden, w.Code)

	w = alice.do(http.MethodPatch, goalPath, map[string]any{"status": "in_progress", "due_date": nil})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.GoalDTO](s, w)
	s.Equal(models.GoalStatusInProgress, updated.Status)
	s.Nil(updated.DueDate)
	s.Equal("Write spec", updated.Title)

	w = bob.do(http.MethodGet, "/api/goals?status=in_progress&priority=high", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode[dto.GoalListResponse](s, w).Goals, 1)

	w = alice.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(dto.CascadeResultDTO{CategoriesDeleted: 1, GoalsArchived: 1}, decode[dto.CascadeResultDTO](s, w))

	s.Equal(http.StatusNotFound, alice.do(http.MethodGet, goalPath, nil).Code)

	w = alice.do(http.MethodPost, "/api/goals", map[string]any{"category": category.ID, "title": "Too late"})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	body := decode[apiError](s, w)
	s.Equal("VALIDATION_FAILED", body.Code)
	s.Contains(body.Details, "category")
}

func (s *APITestSuite) TestCommentWorkflow() {
	alice := s.signup("alice")
	bob := s.signup("bob")

	var aliceUser, bobUser models.User
	s.Require().NoError(s.db.Where("username = ?", "alice").First(&aliceUser).Error)
	s.Require().NoError(s.db.Where("username = ?", "bob").First(&bobUser).Error)

	board := testutil.CreateBoard(s.T(), s.db, "Sprint", &aliceUser)
	testutil.AddParticipant(s.T(), s.db, board, &bobUser, models.RoleWriter)
	category := testutil.CreateCategory(s.T(), s.db, "Backlog", board, &aliceUser)
	goal := testutil.CreateGoal(s.T(), s.db, "Write spec", category, &aliceUser)

	w := bob.do(http.MethodPost, "/api/comments", map[string]any{"goal": goal.ID, "text": "on it"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	comment := decode[dto.CommentDTO](s, w)
	s.Require().NotNil(comment.User)
	s.Equal("bob", comment.User.Username)

	w = alice.do(http.MethodGet, fmt.Sprintf("/api/comments?goal=%d", goal.ID), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode[dto.CommentListResponse](s, w).Comments, 1)

	w = alice.do(http.MethodDelete, fmt.Sprintf("/api/goals/%d", goal.ID), nil)
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = bob.do(http.MethodPost, "/api/comments", map[string]any{"goal": goal.ID, "text": "again"})
	s.Equal(http.StatusBadRequest, w.Code)

	commentPath := fmt.Sprintf("/api/comments/%d", comment.ID)
	s.Equal(http.StatusOK, alice.do(http.MethodGet, commentPath, nil).Code)
	s.Equal(http.StatusNoContent, bob.do(http.MethodDelete, commentPath, nil).Code)
	s.Equal(http.StatusNotFound, bob.do(http.MethodGet, commentPath, nil).Code)
}

func (s *APITestSuite) TestProfileAndPassword() {
	alice := s.signup("alice")

	w := alice.do(http.MethodPatch, "/api/auth/profile", map[string]string{"first_name": "Alice"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("Alice", decode[dto.UserDTO](s, w).FirstName)

	w = alice.do(http.MethodPut, "/api/auth/update_password", map[string]string{
		"old_password": "wrong-password",
		"new_password": "evenmoresecret",
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.Contains(decode[apiError](s, w).Details, "old_password")

	w = alice.do(http.MethodPut, "/api/auth/update_password", map[string]string{
		"old_password": "supersecret",
		"new_password": "evenmoresecret",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	s.Equal(http.StatusNoContent, alice.do(http.MethodDelete, "/api/auth/profile", nil).Code)
	s.Equal(http.StatusUnauthorized, alice.do(http.MethodGet, "/api/auth/profile", nil).Code)
}

func (s *APITestSuite) TestBotVerify() {
	alice := s.signup("alice")
	svc := NewServices(s.db, nil, nil, zap.NewNop())
	code, err := svc.Bot.StartVerification(1001, 2001)
	s.Require().NoError(err)

	w := alice.do(http.MethodPatch, "/api/bot/verify", map[string]string{"verification_code": "nope00"})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.Contains(decode[apiError](s, w).Details, "verification_code")

	w = alice.do(http.MethodPatch, "/api/bot/verify", map[string]string{"verification_code": code})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	userID, ok, err := svc.Bot.VerifiedUserID(1001)
	s.Require().NoError(err)
	s.True(ok)
	s.NotZero(userID)
}

func (s *APITestSuite) TestGenerateWithoutAIKey() {
	alice := s.signup("alice")
	w := alice.do(http.MethodPost, "/api/boards", map[string]string{"title": "Sprint"})
	board := decode[dto.BoardDTO](s, w)
	w = alice.do(http.MethodPost, "/api/categories", map[string]any{"board": board.ID, "title": "Backlog"})
	category := decode[dto.CategoryDTO](s, w)

	w = alice.do(http.MethodPost, "/api/goals/generate", map[string]any{"category": category.ID, "text": "plan the offsite"})
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
