package models

import "time"

type BoardRole string

const (
	RoleOwner  BoardRole = "owner"
	RoleWriter BoardRole = "writer"
	RoleReader BoardRole = "reader"
)

// WriteRoles may create and modify categories, goals and comments.
var WriteRoles = []BoardRole{RoleOwner, RoleWriter}

// OwnerRoles may modify or delete the board itself.
var OwnerRoles = []BoardRole{RoleOwner}

// Valid reports whether r is one of the known roles.
func (r BoardRole) Valid() bool {
	switch r {
	case RoleOwner, RoleWriter, RoleReader:
		return true
	}
	return false
}

// Editable reports whether r can be granted through a board update.
// Ownership is only ever assigned when the board is created.
func (r BoardRole) Editable() bool {
	return r == RoleWriter || r == RoleReader
}

// In reports whether r is one of roles.
func (r BoardRole) In(roles []BoardRole) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

type BoardParticipant struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	BoardID   uint64    `gorm:"not null;uniqueIndex:idx_board_participants_board_user" json:"board_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_board_participants_board_user;index" json:"user_id"`
	Role      BoardRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
