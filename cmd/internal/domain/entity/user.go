package entity

// User roles.
const (
	RoleAdmin        = "Admin"
	RoleTherapist    = "Therapist"
	RoleReceptionist = "Receptionist"
)

type User struct {
	ID          int    `gorm:"primaryKey"`
	Name        string `gorm:"size:128;not null"`
	Email       string `gorm:"size:254;uniqueIndex;not null"`
	Role        string `gorm:"size:20;not null"`
	TherapistID *int   `gorm:"index"` // set when the user is a therapist
	CreatedAt   int64  `gorm:"not null"`
	UpdatedAt   int64  `gorm:"not null"`
}
