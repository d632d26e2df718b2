package service

import (
	"clinicdesk/cmd/internal/cache"
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/recurrence"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type RecurrenceRequest struct {
	EndDate     string `json:"end_date" validate:"required,isodate"`
	Weekdays    []int  `json:"weekdays" validate:"required,min=1,dive,gte=0,lte=6"`
	Periodicity string `json:"periodicity" validate:"required,oneof=Weekly Biweekly"`
}

type AppointmentRequest struct {
	PatientID       int     `json:"patient_id" validate:"required,gt=0"`
	TherapistID     int     `json:"therapist_id" validate:"required,gt=0"`
	Date            string  `json:"date" validate:"required,isodate"`
	Time            string  `json:"time" validate:"required,hhmm"`
	Location        string  `json:"location" validate:"max=128"`
	Modality        string  `json:"modality" validate:"omitempty,oneof=InPerson Online"`
	Type            string  `json:"type" validate:"max=64"`
	Value           float64 `json:"value" validate:"gte=0"`
	Status          string  `json:"status" validate:"omitempty,oneof=Confirmed Rescheduled Cancelled"`
	Notes           *string `json:"notes"`
	SessionOccurred bool    `json:"session_occurred"`
	Missed          bool    `json:"missed"`

	Recurrence *RecurrenceRequest `json:"recurrence"`
}

type AppointmentUpdateRequest struct {
	Time            *string  `json:"time" validate:"omitempty,hhmm"`
	Date            *string  `json:"date" validate:"omitempty,isodate"`
	Location        *string  `json:"location" validate:"omitempty,max=128"`
	Modality        *string  `json:"modality" validate:"omitempty,oneof=InPerson Online"`
	Type            *string  `json:"type" validate:"omitempty,max=64"`
	Value           *float64 `json:"value" validate:"omitempty,gte=0"`
	Status          *string  `json:"status" validate:"omitempty,oneof=Confirmed Rescheduled Cancelled"`
	Notes           *string  `json:"notes"`
	SessionOccurred *bool    `json:"session_occurred"`
	Missed          *bool    `json:"missed"`

	// WeekdayShift only applies to recurrence-wide updates (?all=true).
	WeekdayShift *int `json:"weekday_shift" validate:"omitempty,gte=0,lte=6"`
}

type AppointmentResponse struct {
	ID              int     `json:"id"`
	RecurrenceID    *string `json:"recurrence_id,omitempty"`
	PatientID       int     `json:"patient_id"`
	TherapistID     int     `json:"therapist_id"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Location        string  `json:"location"`
	Modality        string  `json:"modality"`
	Type            string  `json:"type"`
	Value           float64 `json:"value"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	SessionOccurred bool    `json:"session_occurred"`
	Missed          bool    `json:"missed"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type CreateAppointmentResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Capped       bool                   `json:"capped"`
}

type RecurrencePreviewRequest struct {
	StartDate   string `json:"start_date" validate:"required,isodate"`
	EndDate     string `json:"end_date" validate:"required,isodate"`
	Weekdays    []int  `json:"weekdays" validate:"required,min=1,dive,gte=0,lte=6"`
	Periodicity string `json:"periodicity" validate:"required,oneof=None Weekly Biweekly"`
}

type RecurrencePreviewResponse struct {
	Dates  []string `json:"dates"`
	Count  int      `json:"count"`
	Capped bool     `json:"capped"`
}

type BatchResponse struct {
	Affected int `json:"affected"`
}

type DefaultAppointmentService struct {
	DB         *gorm.DB
	Recurrence *DefaultRecurrenceService
	Validate   *validator.Validate
	Cache      cache.Invalidator
}

func NewAppointmentService(db *gorm.DB, recur *DefaultRecurrenceService, validate *validator.Validate, invalidator cache.Invalidator) *DefaultAppointmentService {
	return &DefaultAppointmentService{DB: db, Recurrence: recur, Validate: validate, Cache: invalidator}
}

func (a *DefaultAppointmentService) GetAppointments(filter repository.AppointmentFilter) ([]*AppointmentResponse, apierror.ErrorResponse) {
	appts, err := repository.NewAppointmentRepository(a.DB).FindFiltered(filter)
	if err != nil {
		log.Errorf("failed to list appointments: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		resp[i] = toAppointmentResponse(appt)
	}
	return resp, nil
}

func (a *DefaultAppointmentService) GetAppointment(id int) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, err := repository.NewAppointmentRepository(a.DB).FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.AppointmentNotFoundError
	}
	return toAppointmentResponse(appt), nil
}

// CreateAppointment persists a one-off appointment, or the whole series
// when a recurrence block is present. Either way each occurrence gets its
// 1:1 session in the same transaction.
func (a *DefaultAppointmentService) CreateAppointment(req *AppointmentRequest) (*CreateAppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if apierr := a.checkReferences(req.PatientID, req.TherapistID); apierr != nil {
		return nil, apierr
	}

	startMillis, err := utils.FromDate(req.Date)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	start := time.UnixMilli(startMillis).UTC()

	status := req.Status
	if status == "" {
		status = entity.StatusConfirmed
	}
	template := &entity.Appointment{
		PatientID:       req.PatientID,
		TherapistID:     req.TherapistID,
		Date:            startMillis,
		Time:            req.Time,
		Location:        req.Location,
		Modality:        req.Modality,
		Type:            req.Type,
		Value:           req.Value,
		Status:          status,
		Notes:           req.Notes,
		SessionOccurred: req.SessionOccurred,
		Missed:          req.Missed,
	}

	if req.Recurrence == nil {
		created, apierr := a.Recurrence.Materialize(nil, template, []time.Time{start})
		if apierr != nil {
			return nil, apierr
		}
		return &CreateAppointmentResponse{Appointments: toAppointmentResponses(created)}, nil
	}

	endMillis, err := utils.FromDate(req.Recurrence.EndDate)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	if endMillis <= startMillis {
		return nil, apierror.InvalidDateRangeError
	}

	plan := recurrence.Plan(start, time.UnixMilli(endMillis).UTC(), toWeekdays(req.Recurrence.Weekdays), recurrence.Periodicity(req.Recurrence.Periodicity))
	if len(plan.Dates) == 0 {
		return nil, apierror.InvalidDateRangeError
	}

	rid := uuid.NewString()
	created, apierr := a.Recurrence.Materialize(&rid, template, plan.Dates)
	if apierr != nil {
		return nil, apierr
	}
	return &CreateAppointmentResponse{Appointments: toAppointmentResponses(created), Capped: plan.Capped}, nil
}

// UpdateAppointment edits one occurrence, or the full recurrence when all
// is set.
func (a *DefaultAppointmentService) UpdateAppointment(id int, req *AppointmentUpdateRequest, all bool) (*BatchResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	appt, err := repository.NewAppointmentRepository(a.DB).FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.AppointmentNotFoundError
	}

	patch := toPatch(req)

	if all {
		if appt.RecurrenceID == nil {
			return nil, apierror.NotRecurringError
		}
		var shift *time.Weekday
		if req.WeekdayShift != nil {
			wd := time.Weekday(*req.WeekdayShift)
			shift = &wd
		}
		count, apierr := a.Recurrence.UpdateRecurrence(*appt.RecurrenceID, patch, shift)
		if apierr != nil {
			return nil, apierr
		}
		return &BatchResponse{Affected: count}, nil
	}

	now := utils.NowUTC()
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		applyPatch(appt, patch)
		if req.Date != nil {
			millis, derr := utils.FromDate(*req.Date)
			if derr != nil {
				return derr
			}
			appt.Date = millis
		}
		normalizeStatusFlags(appt)
		appt.UpdatedAt = now

		if err := tx.Save(appt).Error; err != nil {
			return err
		}
		return mirrorSession(tx, appt, patch, now)
	})
	if err != nil {
		log.Errorf("failed to update appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	a.Cache.InvalidateFinancials()
	return &BatchResponse{Affected: 1}, nil
}

// DeleteAppointment removes one occurrence together with its session, or
// the full recurrence when all is set.
func (a *DefaultAppointmentService) DeleteAppointment(id int, all bool) (*BatchResponse, apierror.ErrorResponse) {
	appt, err := repository.NewAppointmentRepository(a.DB).FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.AppointmentNotFoundError
	}

	if all {
		if appt.RecurrenceID == nil {
			return nil, apierror.NotRecurringError
		}
		count, apierr := a.Recurrence.DeleteRecurrence(*appt.RecurrenceID)
		if apierr != nil {
			return nil, apierr
		}
		return &BatchResponse{Affected: count}, nil
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("appointment_id = ?", appt.ID).Delete(&entity.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(appt).Error
	})
	if err != nil {
		log.Errorf("failed to delete appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	a.Cache.InvalidateFinancials()
	return &BatchResponse{Affected: 1}, nil
}

// PreviewRecurrence runs the shared planner without persisting anything.
// The same code decides the count here and in CreateAppointment, so the
// preview can never drift from what materialization produces.
func (a *DefaultAppointmentService) PreviewRecurrence(req *RecurrencePreviewRequest) (*RecurrencePreviewResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	startMillis, err := utils.FromDate(req.StartDate)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	endMillis, err := utils.FromDate(req.EndDate)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	plan := recurrence.Plan(
		time.UnixMilli(startMillis).UTC(),
		time.UnixMilli(endMillis).UTC(),
		toWeekdays(req.Weekdays),
		recurrence.Periodicity(req.Periodicity),
	)

	dates := make([]string, len(plan.Dates))
	for i, d := range plan.Dates {
		dates[i] = d.Format(time.DateOnly)
	}
	return &RecurrencePreviewResponse{Dates: dates, Count: len(dates), Capped: plan.Capped}, nil
}

func (a *DefaultAppointmentService) checkReferences(patientID, therapistID int) apierror.ErrorResponse {
	patient, err := repository.NewPatientRepository(a.DB).FindByID(patientID)
	if err != nil {
		log.Errorf("failed to fetch patient %d: %v", patientID, err)
		return apierror.InternalServerError
	}
	if patient == nil {
		return apierror.PatientNotFoundError
	}

	therapist, err := repository.NewTherapistRepository(a.DB).FindByID(therapistID)
	if err != nil {
		log.Errorf("failed to fetch therapist %d: %v", therapistID, err)
		return apierror.InternalServerError
	}
	if therapist == nil {
		return apierror.TherapistNotFoundError
	}
	return nil
}

func toWeekdays(days []int) []time.Weekday {
	weekdays := make([]time.Weekday, len(days))
	for i, d := range days {
		weekdays[i] = time.Weekday(d)
	}
	return weekdays
}

func toPatch(req *AppointmentUpdateRequest) *AppointmentPatch {
	return &AppointmentPatch{
		Time:            req.Time,
		Location:        req.Location,
		Modality:        req.Modality,
		Type:            req.Type,
		Value:           req.Value,
		Status:          req.Status,
		Notes:           req.Notes,
		SessionOccurred: req.SessionOccurred,
		Missed:          req.Missed,
	}
}

func toAppointmentResponses(appts []*entity.Appointment) []*AppointmentResponse {
	resp := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		resp[i] = toAppointmentResponse(appt)
	}
	return resp
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              appt.ID,
		RecurrenceID:    appt.RecurrenceID,
		PatientID:       appt.PatientID,
		TherapistID:     appt.TherapistID,
		Date:            utils.FormatDate(appt.Date),
		Time:            appt.Time,
		Location:        appt.Location,
		Modality:        appt.Modality,
		Type:            appt.Type,
		Value:           appt.Value,
		Status:          appt.Status,
		Notes:           appt.Notes,
		SessionOccurred: appt.SessionOccurred,
		Missed:          appt.Missed,
		CreatedAt:       utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(appt.UpdatedAt),
	}
}
