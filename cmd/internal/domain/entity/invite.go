package entity

// Invite statuses.
const (
	InvitePending  = "Pending"
	InviteAccepted = "Accepted"
)

// Invite is a pending registration offer. The matching signed token is
// handed to the invitee out of band; accepting it creates the User.
type Invite struct {
	ID        int    `gorm:"primaryKey"`
	Email     string `gorm:"size:254;not null;index"`
	Role      string `gorm:"size:20;not null"`
	Status    string `gorm:"size:20;not null;default:'Pending'"`
	ExpiresAt int64  `gorm:"not null"` // epoch millis
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`
}
