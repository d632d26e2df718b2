package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/recurrence"
	"clinicdesk/cmd/internal/utils/apierror"
	"testing"
	"time"
)

func newAppointmentService(t *testing.T) (*DefaultAppointmentService, *fakeInvalidator) {
	t.Helper()

	db := newTestDB(t)
	invalidator := &fakeInvalidator{}
	recur := NewRecurrenceService(db, invalidator)
	return NewAppointmentService(db, recur, newTestValidator(t), invalidator), invalidator
}

func createRequest(patientID, therapistID int) *AppointmentRequest {
	return &AppointmentRequest{
		PatientID:   patientID,
		TherapistID: therapistID,
		Date:        "2025-01-06",
		Time:        "14:00",
		Location:    "Room 2",
		Modality:    "InPerson",
		Type:        "Individual",
		Value:       150,
		Status:      entity.StatusConfirmed,
	}
}

func TestCreateOneOffAppointment(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	resp, apierr := svc.CreateAppointment(createRequest(patientID, therapistID))
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	if len(resp.Appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(resp.Appointments))
	}
	if resp.Capped {
		t.Error("one-off create should never report capped")
	}

	appt := resp.Appointments[0]
	if appt.RecurrenceID != nil {
		t.Error("one-off appointment should have no recurrence id")
	}
	if appt.Date != "2025-01-06" {
		t.Errorf("expected date 2025-01-06, got %s", appt.Date)
	}
	if count := countRows(t, svc.DB, &entity.Session{}); count != 1 {
		t.Errorf("expected 1 session, got %d", count)
	}
}

func TestCreateRecurringAppointments(t *testing.T) {
	svc, invalidator := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2025-02-03",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	}

	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	if len(resp.Appointments) != 5 {
		t.Fatalf("expected 5 weekly Mondays, got %d", len(resp.Appointments))
	}
	if resp.Capped {
		t.Error("5 occurrences should not be capped")
	}

	rid := resp.Appointments[0].RecurrenceID
	if rid == nil {
		t.Fatal("recurring appointments must carry a recurrence id")
	}
	for _, appt := range resp.Appointments {
		if appt.RecurrenceID == nil || *appt.RecurrenceID != *rid {
			t.Errorf("appointment %d is not in the same recurrence", appt.ID)
		}
	}
	if invalidator.calls == 0 {
		t.Error("expected a cache invalidation after create")
	}
}

func TestCreateRecurringCapped(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.Date = "2025-01-01"
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2026-06-01",
		Weekdays:    []int{int(time.Monday), int(time.Wednesday)},
		Periodicity: string(recurrence.Weekly),
	}

	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	if len(resp.Appointments) != recurrence.MaxOccurrences {
		t.Errorf("expected %d appointments, got %d", recurrence.MaxOccurrences, len(resp.Appointments))
	}
	if !resp.Capped {
		t.Error("expected the response to report the cap")
	}
}

func TestCreateAppointmentUnknownPatient(t *testing.T) {
	svc, _ := newAppointmentService(t)
	_, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(9999, therapistID)
	_, apierr := svc.CreateAppointment(req)
	if apierr != apierror.PatientNotFoundError {
		t.Fatalf("expected patient not found, got %v", apierr)
	}
	if count := countRows(t, svc.DB, &entity.Appointment{}); count != 0 {
		t.Errorf("expected no appointments persisted, found %d", count)
	}
}

func TestCreateAppointmentRejectsReversedRange(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2025-01-01",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	}

	_, apierr := svc.CreateAppointment(req)
	if apierr == nil || apierr.Code() != 400 {
		t.Fatalf("expected 400 for end before start, got %v", apierr)
	}
}

func TestUpdateSingleOccurrence(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2025-02-03",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	}
	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}

	target := resp.Appointments[1]
	newTime := "16:30"
	batch, apierr := svc.UpdateAppointment(target.ID, &AppointmentUpdateRequest{Time: &newTime}, false)
	if apierr != nil {
		t.Fatalf("update failed: %v", apierr)
	}
	if batch.Affected != 1 {
		t.Errorf("expected 1 affected row, got %d", batch.Affected)
	}

	var appts []*entity.Appointment
	if err := svc.DB.Order("date asc").Find(&appts).Error; err != nil {
		t.Fatalf("failed to reload appointments: %v", err)
	}
	for _, appt := range appts {
		if appt.ID == target.ID {
			if appt.Time != newTime {
				t.Errorf("target time not updated: %s", appt.Time)
			}
			continue
		}
		if appt.Time != "14:00" {
			t.Errorf("sibling %d changed time to %s", appt.ID, appt.Time)
		}
	}
}

func TestUpdateAllRequiresRecurrence(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	resp, apierr := svc.CreateAppointment(createRequest(patientID, therapistID))
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}

	value := 200.0
	_, apierr = svc.UpdateAppointment(resp.Appointments[0].ID, &AppointmentUpdateRequest{Value: &value}, true)
	if apierr != apierror.NotRecurringError {
		t.Fatalf("expected not-recurring error, got %v", apierr)
	}
}

func TestUpdateAllAppliesToWholeRecurrence(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2025-02-03",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	}
	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}

	value := 175.0
	batch, apierr := svc.UpdateAppointment(resp.Appointments[0].ID, &AppointmentUpdateRequest{Value: &value}, true)
	if apierr != nil {
		t.Fatalf("update failed: %v", apierr)
	}
	if batch.Affected != 5 {
		t.Errorf("expected 5 affected rows, got %d", batch.Affected)
	}

	var appts []*entity.Appointment
	if err := svc.DB.Find(&appts).Error; err != nil {
		t.Fatalf("failed to reload appointments: %v", err)
	}
	for _, appt := range appts {
		if appt.Value != value {
			t.Errorf("appointment %d kept value %v", appt.ID, appt.Value)
		}
	}
}

func TestCancelSingleOccurrenceClearsFlagsAndPayment(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.SessionOccurred = true
	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	id := resp.Appointments[0].ID

	cancelled := entity.StatusCancelled
	if _, apierr := svc.UpdateAppointment(id, &AppointmentUpdateRequest{Status: &cancelled}, false); apierr != nil {
		t.Fatalf("cancel failed: %v", apierr)
	}

	var appt entity.Appointment
	if err := svc.DB.First(&appt, id).Error; err != nil {
		t.Fatalf("failed to reload appointment: %v", err)
	}
	if appt.SessionOccurred || appt.Missed {
		t.Error("cancelled appointment kept occurred/missed flags")
	}

	var session entity.Session
	if err := svc.DB.Where("appointment_id = ?", id).First(&session).Error; err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if session.PaymentStatus != entity.PaymentCancelled {
		t.Errorf("expected cancelled payment, got %s", session.PaymentStatus)
	}
}

func TestDeleteSingleOccurrenceRemovesSession(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2025-02-03",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	}
	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}

	batch, apierr := svc.DeleteAppointment(resp.Appointments[2].ID, false)
	if apierr != nil {
		t.Fatalf("delete failed: %v", apierr)
	}
	if batch.Affected != 1 {
		t.Errorf("expected 1 affected row, got %d", batch.Affected)
	}
	if count := countRows(t, svc.DB, &entity.Appointment{}); count != 4 {
		t.Errorf("expected 4 remaining appointments, got %d", count)
	}
	if count := countRows(t, svc.DB, &entity.Session{}); count != 4 {
		t.Errorf("expected 4 remaining sessions, got %d", count)
	}
}

func TestDeleteAllRemovesWholeRecurrence(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	req := createRequest(patientID, therapistID)
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2025-02-03",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	}
	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}

	batch, apierr := svc.DeleteAppointment(resp.Appointments[0].ID, true)
	if apierr != nil {
		t.Fatalf("delete failed: %v", apierr)
	}
	if batch.Affected != 5 {
		t.Errorf("expected 5 affected rows, got %d", batch.Affected)
	}
	if count := countRows(t, svc.DB, &entity.Appointment{}); count != 0 {
		t.Errorf("expected no appointments, got %d", count)
	}
	if count := countRows(t, svc.DB, &entity.Session{}); count != 0 {
		t.Errorf("expected no sessions, got %d", count)
	}
}

func TestPreviewMatchesMaterializedCount(t *testing.T) {
	svc, _ := newAppointmentService(t)
	patientID, therapistID := seedPatientAndTherapist(t, svc.DB)

	preview, apierr := svc.PreviewRecurrence(&RecurrencePreviewRequest{
		StartDate:   "2025-01-06",
		EndDate:     "2025-02-03",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	})
	if apierr != nil {
		t.Fatalf("preview failed: %v", apierr)
	}
	if preview.Count != len(preview.Dates) {
		t.Errorf("count %d does not match %d dates", preview.Count, len(preview.Dates))
	}

	req := createRequest(patientID, therapistID)
	req.Recurrence = &RecurrenceRequest{
		EndDate:     "2025-02-03",
		Weekdays:    []int{int(time.Monday)},
		Periodicity: string(recurrence.Weekly),
	}
	resp, apierr := svc.CreateAppointment(req)
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	if len(resp.Appointments) != preview.Count {
		t.Errorf("preview said %d occurrences, create produced %d", preview.Count, len(resp.Appointments))
	}
}

func TestPreviewRejectsInvalidInput(t *testing.T) {
	svc, _ := newAppointmentService(t)

	_, apierr := svc.PreviewRecurrence(&RecurrencePreviewRequest{
		StartDate:   "2025-01-06",
		EndDate:     "2025-02-03",
		Weekdays:    []int{},
		Periodicity: string(recurrence.Weekly),
	})
	if apierr == nil || apierr.Code() != 400 {
		t.Fatalf("expected 400 for empty weekdays, got %v", apierr)
	}
}
