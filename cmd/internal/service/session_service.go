package service

import (
	"clinicdesk/cmd/internal/cache"
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type SessionRepository interface {
	FindByID(id int) (*entity.Session, error)
	FindByAppointmentID(appointmentID int) (*entity.Session, error)
	FindByTherapistID(therapistID int) ([]*entity.Session, error)
	FindAll() ([]*entity.Session, error)
	Save(session *entity.Session) error
}

type SessionPaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=Pending Paid Cancelled"`
}

type SessionResponse struct {
	ID            int     `json:"id"`
	AppointmentID int     `json:"appointment_id"`
	TherapistID   int     `json:"therapist_id"`
	PatientID     int     `json:"patient_id"`
	Type          string  `json:"type"`
	Value         float64 `json:"value"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type DefaultSessionService struct {
	SessionRepo SessionRepository
	Validate    *validator.Validate
	Cache       cache.Invalidator
}

func NewSessionService(sessionRepo SessionRepository, validate *validator.Validate, invalidator cache.Invalidator) *DefaultSessionService {
	return &DefaultSessionService{SessionRepo: sessionRepo, Validate: validate, Cache: invalidator}
}

func (s *DefaultSessionService) GetSessions(therapistID int) ([]*SessionResponse, apierror.ErrorResponse) {
	var sessions []*entity.Session
	var err error
	if therapistID != 0 {
		sessions, err = s.SessionRepo.FindByTherapistID(therapistID)
	} else {
		sessions, err = s.SessionRepo.FindAll()
	}
	if err != nil {
		log.Errorf("failed to list sessions: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*SessionResponse, len(sessions))
	for i, session := range sessions {
		resp[i] = toSessionResponse(session)
	}
	return resp, nil
}

func (s *DefaultSessionService) GetSession(id int) (*SessionResponse, apierror.ErrorResponse) {
	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch session %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if session == nil {
		return nil, apierror.SessionNotFoundError
	}
	return toSessionResponse(session), nil
}

// UpdatePayment transitions a session's payment status. Billing aggregates
// depend on it, so the dashboard cache is dropped on success.
func (s *DefaultSessionService) UpdatePayment(id int, req *SessionPaymentRequest) (*SessionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch session %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if session == nil {
		return nil, apierror.SessionNotFoundError
	}

	session.PaymentStatus = req.PaymentStatus
	session.UpdatedAt = utils.NowUTC()

	if err := s.SessionRepo.Save(session); err != nil {
		log.Errorf("failed to update session %d payment: %v", id, err)
		return nil, apierror.InternalServerError
	}

	s.Cache.InvalidateFinancials()
	return toSessionResponse(session), nil
}

func toSessionResponse(session *entity.Session) *SessionResponse {
	return &SessionResponse{
		ID:            session.ID,
		AppointmentID: session.AppointmentID,
		TherapistID:   session.TherapistID,
		PatientID:     session.PatientID,
		Type:          session.Type,
		Value:         session.Value,
		PaymentStatus: session.PaymentStatus,
		CreatedAt:     utils.FormatEpoch(session.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(session.UpdatedAt),
	}
}
