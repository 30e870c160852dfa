package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"github.com/yukikurage/goal-tracker-api/internal/logger"
	"github.com/yukikurage/goal-tracker-api/internal/middleware"
	"go.uber.org/zap"
)

const invalidBodyMessage = "Invalid request body"

// respondError answers with the domain error's status, or logs err and
// answers 500 when it is not a domain error.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	if apierrors.Respond(c, err) {
		return
	}
	logger.WithRequestID(c.Request.Context(), log).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	apierrors.InternalError(c, "Internal server error")
}

// currentUser returns the session user or answers 401.
func currentUser(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}

// idParam parses the :id path parameter or answers 400.
func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}

// dateQuery parses an optional date filter or answers 400.
func dateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := parseDate(raw)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid date", map[string][]string{
			key: {"Enter a valid date."},
		})
		return nil, false
	}
	return &t, true
}
