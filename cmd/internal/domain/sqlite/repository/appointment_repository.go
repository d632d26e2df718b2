package repository

import (
	"clinicdesk/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

type AppointmentFilter struct {
	PatientID   int
	TherapistID int
	From        int64 // inclusive, epoch millis; 0 means unbounded
	To          int64 // exclusive, epoch millis; 0 means unbounded
}

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

func (a *DefaultAppointmentRepository) FindByRecurrenceID(recurrenceID string) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.
		Where("recurrence_id = ?", recurrenceID).
		Order("date asc").
		Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindFiltered(filter AppointmentFilter) ([]*entity.Appointment, error) {
	query := a.db.Model(&entity.Appointment{})
	if filter.PatientID != 0 {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.TherapistID != 0 {
		query = query.Where("therapist_id = ?", filter.TherapistID)
	}
	if filter.From != 0 {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != 0 {
		query = query.Where("date < ?", filter.To)
	}

	var appts []*entity.Appointment
	err := query.Order("date asc, time asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}
