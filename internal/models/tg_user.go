package models

import "time"

// TgUser links a Telegram account to an application user once the
// verification code sent to the chat has been confirmed on the web side.
type TgUser struct {
	ID               uint64    `gorm:"primarykey" json:"id"`
	TgChatID         int64     `gorm:"not null" json:"tg_chat_id"`
	TgUserID         int64     `gorm:"not null;uniqueIndex" json:"tg_user_id"`
	UserID           *uint64   `gorm:"index" json:"user_id"`
	VerificationCode string    `gorm:"type:varchar(6);index" json:"-"`
	IsVerified       bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// Verified reports whether the Telegram account may issue commands.
func (u TgUser) Verified() bool {
	return u.IsVerified && u.UserID != nil
}
