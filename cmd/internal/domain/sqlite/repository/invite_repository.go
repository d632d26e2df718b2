package repository

import (
	"clinicdesk/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

type DefaultInviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *DefaultInviteRepository {
	return &DefaultInviteRepository{db: db}
}

func (i *DefaultInviteRepository) FindByID(id int) (*entity.Invite, error) {
	var invite entity.Invite
	err := i.db.First(&invite, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invite, err
}

func (i *DefaultInviteRepository) FindAll() ([]*entity.Invite, error) {
	var invites []*entity.Invite
	err := i.db.Order("created_at desc").Find(&invites).Error
	return invites, err
}

func (i *DefaultInviteRepository) Save(invite *entity.Invite) error {
	return i.db.Save(invite).Error
}

// DeleteExpiredPending removes pending invites whose expiry has passed and
// returns how many were dropped. Run nightly.
func (i *DefaultInviteRepository) DeleteExpiredPending(nowMillis int64) (int64, error) {
	result := i.db.
		Where("status = ?", entity.InvitePending).
		Where("expires_at < ?", nowMillis).
		Delete(&entity.Invite{})
	return result.RowsAffected, result.Error
}
