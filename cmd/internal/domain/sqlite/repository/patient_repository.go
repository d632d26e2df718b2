package repository

import (
	"clinicdesk/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

type DefaultPatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *DefaultPatientRepository {
	return &DefaultPatientRepository{db: db}
}

func (p *DefaultPatientRepository) FindByID(id int) (*entity.Patient, error) {
	var patient entity.Patient
	err := p.db.First(&patient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

func (p *DefaultPatientRepository) FindAll() ([]*entity.Patient, error) {
	var patients []*entity.Patient
	err := p.db.Order("name asc").Find(&patients).Error
	return patients, err
}

func (p *DefaultPatientRepository) Save(patient *entity.Patient) error {
	return p.db.Save(patient).Error
}

func (p *DefaultPatientRepository) Delete(patient *entity.Patient) error {
	return p.db.Delete(patient).Error
}
