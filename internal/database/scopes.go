package database

import (
	"gorm.io/gorm"
)

// Paginate applies limit/offset for a 1-based page. A zero page or page size
// leaves the query unbounded, which the bot relies on for full listings.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
