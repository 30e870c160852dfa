package repository

import (
	"database/sql"
	"strings"

	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

// participantBoards is the subquery of board ids the user has any role on.
func participantBoards(db *gorm.DB, userID uint64, roles ...models.BoardRole) *gorm.DB {
	q := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.BoardParticipant{}).
		Select("board_id").
		Where("user_id = ?", userID)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	return q
}

// likePattern lowercases s and wraps it for a LOWER(column) LIKE comparison.
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// orderClause picks the ORDER BY for a client ordering key, falling back to def.
func orderClause(allowed map[string]string, key, def string) string {
	if clause, ok := allowed[key]; ok {
		return clause
	}
	return allowed[def]
}

// cascadeTxOptions runs cascades at REPEATABLE READ. SQLite only offers
// serializable writers and rejects the option.
func cascadeTxOptions(db *gorm.DB) []*sql.TxOptions {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead}}
}
