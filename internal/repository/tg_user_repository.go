package repository

import (
	"github.com/yukikurage/goal-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTgUserRepository is a GORM implementation of TgUserRepository
type GormTgUserRepository struct {
	db *gorm.DB
}

// NewTgUserRepository creates a new TgUserRepository
func NewTgUserRepository(db *gorm.DB) TgUserRepository {
	return &GormTgUserRepository{db: db}
}

func (r *GormTgUserRepository) FindByTgUserID(tgUserID int64) (*models.TgUser, error) {
	var tgUser models.TgUser
	if err := r.db.Where("tg_user_id = ?", tgUserID).First(&tgUser).Error; err != nil {
		return nil, err
	}
	return &tgUser, nil
}

// FindByVerificationCode only matches accounts still waiting for verification.
func (r *GormTgUserRepository) FindByVerificationCode(code string) (*models.TgUser, error) {
	var tgUser models.TgUser
	if err := r.db.Where("verification_code = ? AND is_verified = ?", code, false).
		First(&tgUser).Error; err != nil {
		return nil, err
	}
	return &tgUser, nil
}

func (r *GormTgUserRepository) Create(tgUser *models.TgUser) error {
	return r.db.Create(tgUser).Error
}

func (r *GormTgUserRepository) Update(tgUser *models.TgUser) error {
	return r.db.Model(tgUser).
		Select("tg_chat_id", "user_id", "verification_code", "is_verified").
		Updates(tgUser).Error
}
