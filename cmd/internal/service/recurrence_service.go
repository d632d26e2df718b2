package service

import (
	"clinicdesk/cmd/internal/cache"
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/recurrence"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"sort"
	"time"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// AppointmentPatch is the editable field set shared by single-occurrence
// edits and recurrence-wide updates. Nil fields are left untouched.
type AppointmentPatch struct {
	Time            *string
	Location        *string
	Modality        *string
	Type            *string
	Value           *float64
	Status          *string
	Notes           *string
	SessionOccurred *bool
	Missed          *bool
}

// DefaultRecurrenceService materializes planned dates into persisted
// appointment+session pairs and applies batch edits/deletes across a
// recurrence. Every operation runs in a single transaction: a half-updated
// recurrence is worse than a clearly failed one.
type DefaultRecurrenceService struct {
	DB    *gorm.DB
	Cache cache.Invalidator
}

func NewRecurrenceService(db *gorm.DB, invalidator cache.Invalidator) *DefaultRecurrenceService {
	return &DefaultRecurrenceService{DB: db, Cache: invalidator}
}

// Materialize persists one appointment+session pair per planned date,
// stamped with recurrenceID (nil for a one-off create). The occurrence cap
// is enforced here again regardless of what the caller planned: this is the
// authoritative boundary, client-side planning is advisory.
func (r *DefaultRecurrenceService) Materialize(recurrenceID *string, template *entity.Appointment, dates []time.Time) ([]*entity.Appointment, apierror.ErrorResponse) {
	if len(dates) == 0 {
		return nil, apierror.InvalidDateRangeError
	}
	if len(dates) > recurrence.MaxOccurrences {
		dates = dates[:recurrence.MaxOccurrences]
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	now := utils.NowUTC()
	var created []*entity.Appointment

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, date := range dates {
			appt := *template
			appt.ID = 0
			appt.RecurrenceID = recurrenceID
			appt.Date = utils.DayMillis(date)
			appt.CreatedAt = now
			appt.UpdatedAt = now
			normalizeStatusFlags(&appt)

			if err := tx.Create(&appt).Error; err != nil {
				return err
			}

			session := deriveSession(&appt, now)
			if err := tx.Create(session).Error; err != nil {
				return err
			}
			created = append(created, &appt)
		}
		return nil
	})
	if err != nil {
		log.Errorf("failed to materialize %d appointments: %v", len(dates), err)
		return nil, apierror.InternalServerError
	}

	r.Cache.InvalidateFinancials()
	return created, nil
}

// UpdateRecurrence applies the patch to every appointment sharing
// recurrenceID. When weekdayShift is set, each occurrence moves to that
// weekday within its own week, so the whole series shifts without
// collapsing. Linked sessions are updated in place, never recreated, and
// the recurrence id itself is never altered.
func (r *DefaultRecurrenceService) UpdateRecurrence(recurrenceID string, patch *AppointmentPatch, weekdayShift *time.Weekday) (int, apierror.ErrorResponse) {
	now := utils.NowUTC()
	count := 0

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var appts []*entity.Appointment
		err := tx.
			Where("recurrence_id = ?", recurrenceID).
			Order("date asc").
			Find(&appts).Error
		if err != nil {
			return err
		}
		if len(appts) == 0 {
			return gorm.ErrRecordNotFound
		}

		for _, appt := range appts {
			applyPatch(appt, patch)
			if weekdayShift != nil {
				date := time.UnixMilli(appt.Date).UTC()
				appt.Date = utils.DayMillis(recurrence.ShiftToWeekday(date, *weekdayShift))
			}
			normalizeStatusFlags(appt)
			appt.UpdatedAt = now

			if err := tx.Save(appt).Error; err != nil {
				return err
			}
			if err := mirrorSession(tx, appt, patch, now); err != nil {
				return err
			}
		}
		count = len(appts)
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apierror.RecurrenceNotFoundError
		}
		log.Errorf("failed to update recurrence %s: %v", recurrenceID, err)
		return 0, apierror.InternalServerError
	}

	r.Cache.InvalidateFinancials()
	return count, nil
}

// DeleteRecurrence removes every appointment sharing recurrenceID together
// with their sessions. A session must never survive its appointment.
func (r *DefaultRecurrenceService) DeleteRecurrence(recurrenceID string) (int, apierror.ErrorResponse) {
	count := 0

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var ids []int
		err := tx.Model(&entity.Appointment{}).
			Where("recurrence_id = ?", recurrenceID).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("appointment_id IN ?", ids).Delete(&entity.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&entity.Appointment{}).Error; err != nil {
			return err
		}
		count = len(ids)
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apierror.RecurrenceNotFoundError
		}
		log.Errorf("failed to delete recurrence %s: %v", recurrenceID, err)
		return 0, apierror.InternalServerError
	}

	r.Cache.InvalidateFinancials()
	return count, nil
}

// normalizeStatusFlags enforces the cross-field invariant in one place: a
// cancelled appointment cannot have occurred nor be missed.
func normalizeStatusFlags(appt *entity.Appointment) {
	if appt.Status == entity.StatusCancelled {
		appt.SessionOccurred = false
		appt.Missed = false
	}
}

func applyPatch(appt *entity.Appointment, patch *AppointmentPatch) {
	if patch == nil {
		return
	}
	if patch.Time != nil {
		appt.Time = *patch.Time
	}
	if patch.Location != nil {
		appt.Location = *patch.Location
	}
	if patch.Modality != nil {
		appt.Modality = *patch.Modality
	}
	if patch.Type != nil {
		appt.Type = *patch.Type
	}
	if patch.Value != nil {
		appt.Value = *patch.Value
	}
	if patch.Status != nil {
		appt.Status = *patch.Status
	}
	if patch.Notes != nil {
		appt.Notes = patch.Notes
	}
	if patch.SessionOccurred != nil {
		appt.SessionOccurred = *patch.SessionOccurred
	}
	if patch.Missed != nil {
		appt.Missed = *patch.Missed
	}
}

// deriveSession builds the 1:1 billing record for a freshly created
// appointment.
func deriveSession(appt *entity.Appointment, now int64) *entity.Session {
	return &entity.Session{
		AppointmentID: appt.ID,
		TherapistID:   appt.TherapistID,
		PatientID:     appt.PatientID,
		Type:          appt.Type,
		Value:         appt.Value,
		PaymentStatus: derivePaymentStatus(appt.Status),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func derivePaymentStatus(appointmentStatus string) string {
	if appointmentStatus == entity.StatusCancelled {
		return entity.PaymentCancelled
	}
	return entity.PaymentPending
}

// mirrorSession updates the billing fields of an appointment's session in
// place after an appointment edit. Paid sessions keep their paid status
// unless the appointment was cancelled.
func mirrorSession(tx *gorm.DB, appt *entity.Appointment, patch *AppointmentPatch, now int64) error {
	if patch == nil || (patch.Type == nil && patch.Value == nil && patch.Status == nil) {
		return nil
	}

	var session entity.Session
	err := tx.Where("appointment_id = ?", appt.ID).First(&session).Error
	if err != nil {
		return err
	}

	session.Type = appt.Type
	session.Value = appt.Value
	if patch.Status != nil {
		if *patch.Status == entity.StatusCancelled {
			session.PaymentStatus = entity.PaymentCancelled
		} else if session.PaymentStatus == entity.PaymentCancelled {
			session.PaymentStatus = entity.PaymentPending
		}
	}
	session.UpdatedAt = now

	return tx.Save(&session).Error
}
