package entity

// Transaction types.
const (
	TransactionIncome  = "Income"
	TransactionExpense = "Expense"
)

// Transaction is a financial entry outside the session billing flow
// (rent, supplies, one-off income).
type Transaction struct {
	ID          int     `gorm:"primaryKey"`
	TherapistID *int    `gorm:"index"` // nil for clinic-wide entries
	Type        string  `gorm:"size:10;not null"`
	Category    string  `gorm:"size:64"`
	Value       float64 `gorm:"not null"`
	Date        int64   `gorm:"not null;index"` // UTC midnight, epoch millis
	Description string  `gorm:"size:255"`
	CreatedAt   int64   `gorm:"not null"`
	UpdatedAt   int64   `gorm:"not null"`
}
