package repository

import (
	"clinicdesk/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

type DefaultTherapistRepository struct {
	db *gorm.DB
}

func NewTherapistRepository(db *gorm.DB) *DefaultTherapistRepository {
	return &DefaultTherapistRepository{db: db}
}

func (t *DefaultTherapistRepository) FindByID(id int) (*entity.Therapist, error) {
	var therapist entity.Therapist
	err := t.db.First(&therapist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &therapist, err
}

func (t *DefaultTherapistRepository) FindAll() ([]*entity.Therapist, error) {
	var therapists []*entity.Therapist
	err := t.db.Order("name asc").Find(&therapists).Error
	return therapists, err
}

func (t *DefaultTherapistRepository) Save(therapist *entity.Therapist) error {
	return t.db.Save(therapist).Error
}

func (t *DefaultTherapistRepository) Delete(therapist *entity.Therapist) error {
	return t.db.Delete(therapist).Error
}
