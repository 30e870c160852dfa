package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/goal-tracker-api/internal/constants"
	"github.com/yukikurage/goal-tracker-api/internal/dto"
	"github.com/yukikurage/goal-tracker-api/internal/repository"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"github.com/yukikurage/goal-tracker-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	authService := services.NewAuthService(repository.NewUserRepository(db))

	return authTestEnv{
		db:          db,
		handler:     NewAuthHandler(authService, zap.NewNop()),
		authService: authService,
	}
}

func newSessionRouter() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := newSessionRouter()
	r.POST("/api/auth/signup", env.handler.Signup)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username":        "newuser",
		"password":        "supersecret",
		"password_repeat": "supersecret",
		"email":           "new@example.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "newuser", response.Username)
	require.Equal(t, "new@example.com", response.Email)
}

func TestAuthHandler_SignupErrors(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := newSessionRouter()
	r.POST("/api/auth/signup", env.handler.Signup)

	tests := []struct {
		name    string
		payload map[string]string
		status  int
		code    string
	}{
		{
			name:    "passwords differ",
			payload: map[string]string{"username": "a", "password": "supersecret", "password_repeat": "different"},
			status:  http.StatusBadRequest,
			code:    "VALIDATION_FAILED",
		},
		{
			name:    "password too short",
			payload: map[string]string{"username": "b", "password": "short", "password_repeat": "short"},
			status:  http.StatusBadRequest,
			code:    "VALIDATION_FAILED",
		},
		{
			name:    "missing repeat",
			payload: map[string]string{"username": "c", "password": "supersecret"},
			status:  http.StatusBadRequest,
			code:    "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/auth/signup", tt.payload)
			require.Equal(t, tt.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, tt.code, body["code"])
		})
	}

	_, err := env.authService.Signup(services.SignupInput{
		Username: "taken", Password: "supersecret", PasswordRepeat: "supersecret",
	})
	require.NoError(t, err)
	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "taken", "password": "supersecret", "password_repeat": "supersecret",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Username:       "existing",
		Password:       "supersecret",
		PasswordRepeat: "supersecret",
	})
	require.NoError(t, err)

	r := newSessionRouter()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "existing",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "existing", response.Username)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "existing",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Signup(services.SignupInput{
		Username:       "current-user",
		Password:       "supersecret",
		PasswordRepeat: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Username, response.Username)
}
