package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/recurrence"
	"clinicdesk/cmd/internal/utils"
	"testing"
	"time"

	"github.com/google/uuid"
)

func mondays(count int) []time.Time {
	dates := make([]time.Time, count)
	start := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC) // a Monday
	for i := range dates {
		dates[i] = start.AddDate(0, 0, 7*i)
	}
	return dates
}

func TestMaterializeCreatesAppointmentSessionPairs(t *testing.T) {
	db := newTestDB(t)
	patientID, therapistID := seedPatientAndTherapist(t, db)
	invalidator := &fakeInvalidator{}
	svc := NewRecurrenceService(db, invalidator)

	rid := uuid.NewString()
	created, apierr := svc.Materialize(&rid, testTemplate(patientID, therapistID), mondays(5))
	if apierr != nil {
		t.Fatalf("materialize failed: %v", apierr)
	}
	if len(created) != 5 {
		t.Fatalf("expected 5 appointments, got %d", len(created))
	}

	prev := int64(0)
	for _, appt := range created {
		if appt.RecurrenceID == nil || *appt.RecurrenceID != rid {
			t.Errorf("appointment %d missing recurrence id", appt.ID)
		}
		if appt.Date <= prev {
			t.Errorf("appointment %d not created in ascending date order", appt.ID)
		}
		prev = appt.Date

		var session entity.Session
		if err := db.Where("appointment_id = ?", appt.ID).First(&session).Error; err != nil {
			t.Errorf("appointment %d has no session: %v", appt.ID, err)
			continue
		}
		if session.Value != appt.Value || session.Type != appt.Type {
			t.Errorf("session %d does not mirror its appointment", session.ID)
		}
		if session.PaymentStatus != entity.PaymentPending {
			t.Errorf("expected pending payment, got %s", session.PaymentStatus)
		}
	}

	if invalidator.calls != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", invalidator.calls)
	}
}

func TestMaterializeEnforcesCap(t *testing.T) {
	db := newTestDB(t)
	patientID, therapistID := seedPatientAndTherapist(t, db)
	svc := NewRecurrenceService(db, &fakeInvalidator{})

	rid := uuid.NewString()
	created, apierr := svc.Materialize(&rid, testTemplate(patientID, therapistID), mondays(recurrence.MaxOccurrences+10))
	if apierr != nil {
		t.Fatalf("materialize failed: %v", apierr)
	}
	if len(created) != recurrence.MaxOccurrences {
		t.Errorf("expected cap at %d appointments, got %d", recurrence.MaxOccurrences, len(created))
	}
	if count := countRows(t, db, &entity.Session{}); count != recurrence.MaxOccurrences {
		t.Errorf("expected %d sessions, got %d", recurrence.MaxOccurrences, count)
	}
}

func TestMaterializeNormalizesCancelledFlags(t *testing.T) {
	db := newTestDB(t)
	patientID, therapistID := seedPatientAndTherapist(t, db)
	svc := NewRecurrenceService(db, &fakeInvalidator{})

	template := testTemplate(patientID, therapistID)
	template.Status = entity.StatusCancelled
	template.SessionOccurred = true
	template.Missed = true

	created, apierr := svc.Materialize(nil, template, mondays(1))
	if apierr != nil {
		t.Fatalf("materialize failed: %v", apierr)
	}
	appt := created[0]
	if appt.SessionOccurred || appt.Missed {
		t.Error("cancelled appointment kept occurred/missed flags")
	}
	if appt.RecurrenceID != nil {
		t.Error("one-off appointment should have no recurrence id")
	}

	var session entity.Session
	if err := db.Where("appointment_id = ?", appt.ID).First(&session).Error; err != nil {
		t.Fatalf("missing session: %v", err)
	}
	if session.PaymentStatus != entity.PaymentCancelled {
		t.Errorf("expected cancelled payment status, got %s", session.PaymentStatus)
	}
}

func TestUpdateRecurrenceAppliesPatchAndWeekdayShift(t *testing.T) {
	db := newTestDB(t)
	patientID, therapistID := seedPatientAndTherapist(t, db)
	svc := NewRecurrenceService(db, &fakeInvalidator{})

	rid := uuid.NewString()
	created, apierr := svc.Materialize(&rid, testTemplate(patientID, therapistID), mondays(5))
	if apierr != nil {
		t.Fatalf("materialize failed: %v", apierr)
	}

	newValue := 200.0
	shift := time.Wednesday
	count, apierr := svc.UpdateRecurrence(rid, &AppointmentPatch{Value: &newValue}, &shift)
	if apierr != nil {
		t.Fatalf("update failed: %v", apierr)
	}
	if count != 5 {
		t.Fatalf("expected 5 affected rows, got %d", count)
	}

	var appts []*entity.Appointment
	if err := db.Where("recurrence_id = ?", rid).Order("date asc").Find(&appts).Error; err != nil {
		t.Fatalf("failed to reload recurrence: %v", err)
	}
	if len(appts) != 5 {
		t.Fatalf("occurrence count changed: got %d", len(appts))
	}
	for i, appt := range appts {
		date := time.UnixMilli(appt.Date).UTC()
		if date.Weekday() != time.Wednesday {
			t.Errorf("appointment %d is on %s, expected Wednesday", appt.ID, date.Weekday())
		}
		// Each occurrence stays in its original week: Monday + 2 days.
		expected := time.UnixMilli(created[i].Date).UTC().AddDate(0, 0, 2)
		if !date.Equal(expected) {
			t.Errorf("appointment %d moved to %s, expected %s", appt.ID, date, expected)
		}
		if appt.Value != newValue {
			t.Errorf("appointment %d value is %v, expected %v", appt.ID, appt.Value, newValue)
		}
		if appt.RecurrenceID == nil || *appt.RecurrenceID != rid {
			t.Errorf("appointment %d lost its recurrence id", appt.ID)
		}

		var session entity.Session
		if err := db.Where("appointment_id = ?", appt.ID).First(&session).Error; err != nil {
			t.Errorf("appointment %d lost its session: %v", appt.ID, err)
			continue
		}
		if session.Value != newValue {
			t.Errorf("session %d value not mirrored: %v", session.ID, session.Value)
		}
	}
}

func TestUpdateRecurrenceNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecurrenceService(db, &fakeInvalidator{})

	value := 100.0
	count, apierr := svc.UpdateRecurrence(uuid.NewString(), &AppointmentPatch{Value: &value}, nil)
	if apierr == nil {
		t.Fatal("expected an error for an unknown recurrence")
	}
	if apierr.Code() != 404 {
		t.Errorf("expected 404, got %d", apierr.Code())
	}
	if count != 0 {
		t.Errorf("expected 0 affected rows, got %d", count)
	}
}

func TestDeleteRecurrenceRemovesAppointmentsAndSessions(t *testing.T) {
	db := newTestDB(t)
	patientID, therapistID := seedPatientAndTherapist(t, db)
	svc := NewRecurrenceService(db, &fakeInvalidator{})

	rid := uuid.NewString()
	if _, apierr := svc.Materialize(&rid, testTemplate(patientID, therapistID), mondays(4)); apierr != nil {
		t.Fatalf("materialize failed: %v", apierr)
	}
	// An unrelated one-off must survive the recurrence delete.
	if _, apierr := svc.Materialize(nil, testTemplate(patientID, therapistID), mondays(1)); apierr != nil {
		t.Fatalf("materialize failed: %v", apierr)
	}

	count, apierr := svc.DeleteRecurrence(rid)
	if apierr != nil {
		t.Fatalf("delete failed: %v", apierr)
	}
	if count != 4 {
		t.Errorf("expected 4 deleted rows, got %d", count)
	}

	var remaining int64
	db.Model(&entity.Appointment{}).Where("recurrence_id = ?", rid).Count(&remaining)
	if remaining != 0 {
		t.Errorf("expected no appointments left in recurrence, found %d", remaining)
	}

	var orphans int64
	db.Model(&entity.Session{}).
		Joins("LEFT JOIN appointments ON appointments.id = sessions.appointment_id").
		Where("appointments.id IS NULL").
		Count(&orphans)
	if orphans != 0 {
		t.Errorf("found %d orphan sessions", orphans)
	}

	if total := countRows(t, db, &entity.Appointment{}); total != 1 {
		t.Errorf("expected the one-off appointment to survive, found %d rows", total)
	}
}

func TestDeleteRecurrenceNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecurrenceService(db, &fakeInvalidator{})

	count, apierr := svc.DeleteRecurrence(uuid.NewString())
	if apierr == nil {
		t.Fatal("expected an error for an unknown recurrence")
	}
	if count != 0 {
		t.Errorf("expected 0 deleted rows, got %d", count)
	}
}

func TestRoundTripPlanThenMaterialize(t *testing.T) {
	db := newTestDB(t)
	patientID, therapistID := seedPatientAndTherapist(t, db)
	svc := NewRecurrenceService(db, &fakeInvalidator{})

	start := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)
	plan := recurrence.Plan(start, end, []time.Weekday{time.Monday}, recurrence.Weekly)

	rid := uuid.NewString()
	created, apierr := svc.Materialize(&rid, testTemplate(patientID, therapistID), plan.Dates)
	if apierr != nil {
		t.Fatalf("materialize failed: %v", apierr)
	}
	if len(created) != len(plan.Dates) {
		t.Fatalf("expected %d persisted appointments, got %d", len(plan.Dates), len(created))
	}
	for i, appt := range created {
		if utils.FormatDate(appt.Date) != plan.Dates[i].Format(time.DateOnly) {
			t.Errorf("appointment %d persisted on %s, planned %s", appt.ID, utils.FormatDate(appt.Date), plan.Dates[i].Format(time.DateOnly))
		}
	}
}
