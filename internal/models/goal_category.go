package models

import "time"

type GoalCategory struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	BoardID   uint64    `gorm:"not null;index" json:"board_id"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Board Board  `gorm:"foreignKey:BoardID" json:"-"`
	Goals []Goal `gorm:"foreignKey:CategoryID" json:"-"`
}

func (c GoalCategory) ResolveBoardID() uint64 { return c.BoardID }

func (GoalCategory) MutatingRoles() []BoardRole { return WriteRoles }

func (GoalCategory) ResourceName() string { return "category" }
