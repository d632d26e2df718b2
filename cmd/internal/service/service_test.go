package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/domain/sqlite"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/validators"
	"testing"

	"github.com/go-playground/validator/v10"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeInvalidator records cache invalidations instead of touching Redis.
type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) InvalidateFinancials() { f.calls++ }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlitedriver.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := sqlite.Migrate(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()

	validate := validator.New()
	register := map[string]validator.Func{
		"iso8601": validators.IsIso8601,
		"isodate": validators.IsIsoDate,
		"hhmm":    validators.IsClockTime,
	}
	for tag, fn := range register {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			t.Fatalf("failed to register %s validator: %v", tag, err)
		}
	}
	return validate
}

func seedPatientAndTherapist(t *testing.T, db *gorm.DB) (int, int) {
	t.Helper()

	now := utils.NowUTC()
	patient := &entity.Patient{Name: "Ana Souza", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
	therapist := &entity.Therapist{Name: "Dr. Lima", Specialty: "CBT", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(therapist).Error; err != nil {
		t.Fatalf("failed to seed therapist: %v", err)
	}
	return patient.ID, therapist.ID
}

func testTemplate(patientID, therapistID int) *entity.Appointment {
	return &entity.Appointment{
		PatientID:   patientID,
		TherapistID: therapistID,
		Time:        "14:00",
		Location:    "Room 2",
		Modality:    "InPerson",
		Type:        "Individual",
		Value:       150,
		Status:      entity.StatusConfirmed,
	}
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
