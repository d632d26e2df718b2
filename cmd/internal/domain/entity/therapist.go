package entity

type Therapist struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:254;index"`
	Phone     string `gorm:"size:32"`
	Specialty string `gorm:"size:128"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`
}
