package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/goal-tracker-api/internal/constants"
)

func TestGenerateVerificationCode(t *testing.T) {
	hexCode := regexp.MustCompile(`^[0-9a-f]{6}$`)
	seen := map[string]struct{}{}

	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		assert.Len(t, code, constants.VerificationCodeLength)
		assert.Regexp(t, hexCode, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func testContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	p := GetPaginationParams(testContext(""))
	assert.Equal(t, PaginationParams{Page: 1, Limit: constants.DefaultPageSize}, p)

	p = GetPaginationParams(testContext("page=3&limit=5"))
	assert.Equal(t, PaginationParams{Page: 3, Limit: 5}, p)

	p = GetPaginationParams(testContext("page=-1&limit=1000"))
	assert.Equal(t, PaginationParams{Page: 1, Limit: constants.DefaultPageSize}, p)

	assert.Equal(t, PaginationResponse{Page: 3, Limit: 5, Total: 42}, PaginationParams{Page: 3, Limit: 5}.Response(42))
}

func TestQueryList(t *testing.T) {
	c := testContext("status=done,to_do&status=in_progress&status=")
	assert.Equal(t, []string{"done", "to_do", "in_progress"}, QueryList(c, "status"))
	assert.Empty(t, QueryList(c, "priority"))

	ids, err := QueryUint64List(testContext("category=1,2&category=7"), "category")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 7}, ids)

	_, err = QueryUint64List(testContext("category=abc"), "category")
	assert.Error(t, err)
}
