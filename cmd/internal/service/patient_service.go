package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PatientRepository interface {
	FindByID(id int) (*entity.Patient, error)
	FindAll() ([]*entity.Patient, error)
	Save(patient *entity.Patient) error
	Delete(patient *entity.Patient) error
}

type PatientRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=128"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone" validate:"max=32"`
	BirthDate *string `json:"birth_date" validate:"omitempty,isodate"`
	Notes     *string `json:"notes"`
}

type PatientResponse struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	BirthDate *string `json:"birth_date,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type DefaultPatientService struct {
	PatientRepo PatientRepository
	Validate    *validator.Validate
}

func NewPatientService(patientRepo PatientRepository, validate *validator.Validate) *DefaultPatientService {
	return &DefaultPatientService{PatientRepo: patientRepo, Validate: validate}
}

func (p *DefaultPatientService) GetPatients() ([]*PatientResponse, apierror.ErrorResponse) {
	patients, err := p.PatientRepo.FindAll()
	if err != nil {
		log.Errorf("failed to list patients: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*PatientResponse, len(patients))
	for i, patient := range patients {
		resp[i] = toPatientResponse(patient)
	}
	return resp, nil
}

func (p *DefaultPatientService) GetPatient(id int) (*PatientResponse, apierror.ErrorResponse) {
	patient, err := p.PatientRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch patient %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if patient == nil {
		return nil, apierror.PatientNotFoundError
	}
	return toPatientResponse(patient), nil
}

func (p *DefaultPatientService) CreatePatient(req *PatientRequest) (*PatientResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	birthDate, apierr := parseOptionalDate(req.BirthDate)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	patient := &entity.Patient{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: birthDate,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := p.PatientRepo.Save(patient); err != nil {
		log.Errorf("failed to create patient: %v", err)
		return nil, apierror.InternalServerError
	}
	return toPatientResponse(patient), nil
}

func (p *DefaultPatientService) UpdatePatient(id int, req *PatientRequest) (*PatientResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	patient, err := p.PatientRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch patient %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if patient == nil {
		return nil, apierror.PatientNotFoundError
	}

	birthDate, apierr := parseOptionalDate(req.BirthDate)
	if apierr != nil {
		return nil, apierr
	}

	patient.Name = req.Name
	patient.Email = req.Email
	patient.Phone = req.Phone
	patient.BirthDate = birthDate
	patient.Notes = req.Notes
	patient.UpdatedAt = utils.NowUTC()

	if err := p.PatientRepo.Save(patient); err != nil {
		log.Errorf("failed to update patient %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toPatientResponse(patient), nil
}

func (p *DefaultPatientService) DeletePatient(id int) apierror.ErrorResponse {
	patient, err := p.PatientRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch patient %d: %v", id, err)
		return apierror.InternalServerError
	}
	if patient == nil {
		return apierror.PatientNotFoundError
	}

	if err := p.PatientRepo.Delete(patient); err != nil {
		log.Errorf("failed to delete patient %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func parseOptionalDate(date *string) (*int64, apierror.ErrorResponse) {
	if date == nil || *date == "" {
		return nil, nil
	}
	millis, err := utils.FromDate(*date)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	return &millis, nil
}

func toPatientResponse(patient *entity.Patient) *PatientResponse {
	var birthDate *string
	if patient.BirthDate != nil {
		formatted := utils.FormatDate(*patient.BirthDate)
		birthDate = &formatted
	}
	return &PatientResponse{
		ID:        patient.ID,
		Name:      patient.Name,
		Email:     patient.Email,
		Phone:     patient.Phone,
		BirthDate: birthDate,
		Notes:     patient.Notes,
		CreatedAt: utils.FormatEpoch(patient.CreatedAt),
		UpdatedAt: utils.FormatEpoch(patient.UpdatedAt),
	}
}
