package models

import "time"

type GoalComment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	GoalID    uint64    `gorm:"not null;index" json:"goal_id"`
	Text      string    `gorm:"type:varchar(255);not null" json:"text"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Goal Goal `gorm:"foreignKey:GoalID" json:"-"`
}

// ResolveBoardID walks Comment -> Goal -> Category -> Board.
// Goal.Category must be loaded.
func (c GoalComment) ResolveBoardID() uint64 { return c.Goal.ResolveBoardID() }

func (GoalComment) MutatingRoles() []BoardRole { return WriteRoles }

func (GoalComment) ResourceName() string { return "comment" }

// AuthorID lets the author edit or delete their own comment whatever their board role.
func (c GoalComment) AuthorID() uint64 { return c.UserID }
