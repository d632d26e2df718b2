package entity

// Appointment statuses. A cancelled appointment must have both
// SessionOccurred and Missed cleared.
const (
	StatusConfirmed   = "Confirmed"
	StatusRescheduled = "Rescheduled"
	StatusCancelled   = "Cancelled"
)

type Appointment struct {
	ID           int     `gorm:"primaryKey"`
	RecurrenceID *string `gorm:"size:36;index"` // shared by sibling occurrences, nil for one-offs
	PatientID    int     `gorm:"not null;index"`
	TherapistID  int     `gorm:"not null;index"`
	Date         int64   `gorm:"not null;index"`  // UTC midnight, epoch millis
	Time         string  `gorm:"size:5;not null"` // "HH:MM"
	Location     string  `gorm:"size:128"`
	Modality     string  `gorm:"size:32"`
	Type         string  `gorm:"size:64"`
	Value        float64 `gorm:"not null"`
	Status       string  `gorm:"size:20;not null;default:'Confirmed'"`
	Notes        *string

	SessionOccurred bool `gorm:"not null"`
	Missed          bool `gorm:"not null"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`

	// Relations
	Patient   Patient   `gorm:"foreignKey:PatientID;references:ID"`
	Therapist Therapist `gorm:"foreignKey:TherapistID;references:ID"`
}
