package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type TherapistRepository interface {
	FindByID(id int) (*entity.Therapist, error)
	FindAll() ([]*entity.Therapist, error)
	Save(therapist *entity.Therapist) error
	Delete(therapist *entity.Therapist) error
}

type TherapistRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=128"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=32"`
	Specialty string `json:"specialty" validate:"max=128"`
}

type TherapistResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type DefaultTherapistService struct {
	TherapistRepo TherapistRepository
	Validate      *validator.Validate
}

func NewTherapistService(therapistRepo TherapistRepository, validate *validator.Validate) *DefaultTherapistService {
	return &DefaultTherapistService{TherapistRepo: therapistRepo, Validate: validate}
}

func (t *DefaultTherapistService) GetTherapists() ([]*TherapistResponse, apierror.ErrorResponse) {
	therapists, err := t.TherapistRepo.FindAll()
	if err != nil {
		log.Errorf("failed to list therapists: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*TherapistResponse, len(therapists))
	for i, therapist := range therapists {
		resp[i] = toTherapistResponse(therapist)
	}
	return resp, nil
}

func (t *DefaultTherapistService) GetTherapist(id int) (*TherapistResponse, apierror.ErrorResponse) {
	therapist, err := t.TherapistRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch therapist %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if therapist == nil {
		return nil, apierror.TherapistNotFoundError
	}
	return toTherapistResponse(therapist), nil
}

func (t *DefaultTherapistService) CreateTherapist(req *TherapistRequest) (*TherapistResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	therapist := &entity.Therapist{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := t.TherapistRepo.Save(therapist); err != nil {
		log.Errorf("failed to create therapist: %v", err)
		return nil, apierror.InternalServerError
	}
	return toTherapistResponse(therapist), nil
}

func (t *DefaultTherapistService) UpdateTherapist(id int, req *TherapistRequest) (*TherapistResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	therapist, err := t.TherapistRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch therapist %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if therapist == nil {
		return nil, apierror.TherapistNotFoundError
	}

	therapist.Name = req.Name
	therapist.Email = req.Email
	therapist.Phone = req.Phone
	therapist.Specialty = req.Specialty
	therapist.UpdatedAt = utils.NowUTC()

	if err := t.TherapistRepo.Save(therapist); err != nil {
		log.Errorf("failed to update therapist %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toTherapistResponse(therapist), nil
}

func (t *DefaultTherapistService) DeleteTherapist(id int) apierror.ErrorResponse {
	therapist, err := t.TherapistRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch therapist %d: %v", id, err)
		return apierror.InternalServerError
	}
	if therapist == nil {
		return apierror.TherapistNotFoundError
	}

	if err := t.TherapistRepo.Delete(therapist); err != nil {
		log.Errorf("failed to delete therapist %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func toTherapistResponse(therapist *entity.Therapist) *TherapistResponse {
	return &TherapistResponse{
		ID:        therapist.ID,
		Name:      therapist.Name,
		Email:     therapist.Email,
		Phone:     therapist.Phone,
		Specialty: therapist.Specialty,
		CreatedAt: utils.FormatEpoch(therapist.CreatedAt),
		UpdatedAt: utils.FormatEpoch(therapist.UpdatedAt),
	}
}
