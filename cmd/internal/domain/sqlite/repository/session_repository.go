package repository

import (
	"clinicdesk/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

// SessionTotals aggregates one month of session billing.
type SessionTotals struct {
	Count    int64
	Billed   float64
	Received float64
	Pending  float64
}

type DefaultSessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *DefaultSessionRepository {
	return &DefaultSessionRepository{db: db}
}

func (s *DefaultSessionRepository) FindByID(id int) (*entity.Session, error) {
	var session entity.Session
	err := s.db.First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (s *DefaultSessionRepository) FindByAppointmentID(appointmentID int) (*entity.Session, error) {
	var session entity.Session
	err := s.db.Where("appointment_id = ?", appointmentID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (s *DefaultSessionRepository) FindByTherapistID(therapistID int) ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := s.db.
		Where("therapist_id = ?", therapistID).
		Order("created_at asc").
		Find(&sessions).Error
	return sessions, err
}

func (s *DefaultSessionRepository) FindAll() ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := s.db.Order("created_at asc").Find(&sessions).Error
	return sessions, err
}

// MonthTotals sums session billing for appointments dated within
// [monthStart, monthEnd).
func (s *DefaultSessionRepository) MonthTotals(monthStart, monthEnd int64) (*SessionTotals, error) {
	totals := &SessionTotals{}

	rows, err := s.db.Model(&entity.Session{}).
		Select("sessions.value, sessions.payment_status").
		Joins("JOIN appointments ON appointments.id = sessions.appointment_id").
		Where("appointments.date >= ? AND appointments.date < ?", monthStart, monthEnd).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var value float64
		var status string
		if err := rows.Scan(&value, &status); err != nil {
			return nil, err
		}
		if status == entity.PaymentCancelled {
			continue
		}
		totals.Count++
		totals.Billed += value
		if status == entity.PaymentPaid {
			totals.Received += value
		} else {
			totals.Pending += value
		}
	}
	return totals, rows.Err()
}

func (s *DefaultSessionRepository) Save(session *entity.Session) error {
	return s.db.Save(session).Error
}
