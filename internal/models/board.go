package models

import "time"

type Board struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	// Relations
	Participants []BoardParticipant `gorm:"foreignKey:BoardID" json:"participants,omitempty"`
	Categories   []GoalCategory     `gorm:"foreignKey:BoardID" json:"-"`
}

func (b Board) ResolveBoardID() uint64 { return b.ID }

func (Board) MutatingRoles() []BoardRole { return OwnerRoles }

func (Board) ResourceName() string { return "board" }
