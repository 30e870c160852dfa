package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/goal-tracker-api/internal/constants"
	"github.com/yukikurage/goal-tracker-api/internal/handlers"
	"github.com/yukikurage/goal-tracker-api/internal/middleware"
	"github.com/yukikurage/goal-tracker-api/internal/permissions"
	"github.com/yukikurage/goal-tracker-api/internal/repository"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Board    *handlers.BoardHandler
	Category *handlers.CategoryHandler
	Goal     *handlers.GoalHandler
	Comment  *handlers.CommentHandler
	Bot      *handlers.BotHandler
}

// Services groups the application services built over one database.
type Services struct {
	Auth     *services.AuthService
	Board    *services.BoardService
	Category *services.CategoryService
	Goal     *services.GoalService
	Comment  *services.CommentService
	Bot      *services.BotService
}

// NewServices wires repositories, the permission evaluator and services.
// suggester and notifier may be nil.
func NewServices(db *gorm.DB, suggester services.GoalSuggester, notifier services.Notifier, log *zap.Logger) Services {
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tgUserRepo := repository.NewTgUserRepository(db)

	perms := permissions.NewEvaluator(boardRepo)
	goalService := services.NewGoalService(goalRepo, categoryRepo, perms, suggester)

	return Services{
		Auth:     services.NewAuthService(userRepo),
		Board:    services.NewBoardService(boardRepo, userRepo, perms),
		Category: services.NewCategoryService(categoryRepo, boardRepo, perms),
		Goal:     goalService,
		Comment:  services.NewCommentService(commentRepo, goalRepo, perms),
		Bot:      services.NewBotService(tgUserRepo, goalService, categoryRepo, goalRepo, notifier, log),
	}
}

// NewHandlers builds the HTTP handlers over svc.
func NewHandlers(svc Services, log *zap.Logger) Handlers {
	return Handlers{
		Auth:     handlers.NewAuthHandler(svc.Auth, log),
		Board:    handlers.NewBoardHandler(svc.Board, log),
		Category: handlers.NewCategoryHandler(svc.Category, log),
		Goal:     handlers.NewGoalHandler(svc.Goal, log),
		Comment:  handlers.NewCommentHandler(svc.Comment, log),
		Bot:      handlers.NewBotHandler(svc.Bot, log),
	}
}

// New returns an engine with logging, recovery and sessions installed and
// every route registered.
func New(h Handlers, store sessions.Store, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), gin.Recovery())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	Register(r, h)
	return r
}

// Register mounts the API routes on r.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Goal Tracker API is running",
		})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)

		profile := auth.Group("/profile", middleware.RequireAuth())
		profile.GET("", h.Auth.GetCurrentUser)
		profile.PUT("", h.Auth.UpdateProfile)
		profile.PATCH("", h.Auth.UpdateProfile)
		profile.DELETE("", h.Auth.DeleteProfile)

		auth.PUT("/update_password", middleware.RequireAuth(), h.Auth.UpdatePassword)
	}

	protected := api.Group("", middleware.RequireAuth())

	boards := protected.Group("/boards")
	{
		boards.POST("", h.Board.CreateBoard)
		boards.GET("", h.Board.ListBoards)
		boards.GET("/:id", h.Board.GetBoard)
		boards.PUT("/:id", h.Board.UpdateBoard)
		boards.PATCH("/:id", h.Board.UpdateBoard)
		boards.DELETE("/:id", h.Board.DeleteBoard)
	}

	categories := protected.Group("/categories")
	{
		categories.POST("", h.Category.CreateCategory)
		categories.GET("", h.Category.ListCategories)
		categories.GET("/:id", h.Category.GetCategory)
		categories.PUT("/:id", h.Category.UpdateCategory)
		categories.PATCH("/:id", h.Category.UpdateCategory)
		categories.DELETE("/:id", h.Category.DeleteCategory)
	}

	goals := protected.Group("/goals")
	{
		goals.POST("", h.Goal.CreateGoal)
		goals.GET("", h.Goal.ListGoals)
		goals.POST("/generate", h.Goal.GenerateGoals)
		goals.GET("/:id", h.Goal.GetGoal)
		goals.PUT("/:id", h.Goal.UpdateGoal)
		goals.PATCH("/:id", h.Goal.UpdateGoal)
		goals.DELETE("/:id", h.Goal.DeleteGoal)
	}

	comments := protected.Group("/comments")
	{
		comments.POST("", h.Comment.CreateComment)
		comments.GET("", h.Comment.ListComments)
		comments.GET("/:id", h.Comment.GetComment)
		comments.PUT("/:id", h.Comment.UpdateComment)
		comments.PATCH("/:id", h.Comment.UpdateComment)
		comments.DELETE("/:id", h.Comment.DeleteComment)
	}

	protected.PATCH("/bot/verify", h.Bot.Verify)
}
