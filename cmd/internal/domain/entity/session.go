package entity

// Session payment statuses.
const (
	PaymentPending   = "Pending"
	PaymentPaid      = "Paid"
	PaymentCancelled = "Cancelled"
)

// Session is the billing record derived from one Appointment, created
// alongside it in the same transaction. The unique index on AppointmentID
// enforces the 1:1 link.
type Session struct {
	ID            int     `gorm:"primaryKey"`
	AppointmentID int     `gorm:"uniqueIndex;not null"`
	TherapistID   int     `gorm:"not null;index"`
	PatientID     int     `gorm:"not null;index"`
	Type          string  `gorm:"size:64"`
	Value         float64 `gorm:"not null"`
	PaymentStatus string  `gorm:"size:20;not null;default:'Pending'"`
	CreatedAt     int64   `gorm:"not null"`
	UpdatedAt     int64   `gorm:"not null"`

	// Relations
	Appointment Appointment `gorm:"foreignKey:AppointmentID;references:ID"`
}
