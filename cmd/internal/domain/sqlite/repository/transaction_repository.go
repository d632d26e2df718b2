package repository

import (
	"clinicdesk/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

// TransactionTotals aggregates one month of standalone financial entries.
type TransactionTotals struct {
	Income  float64
	Expense float64
}

type DefaultTransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{db: db}
}

func (t *DefaultTransactionRepository) FindByID(id int) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := t.db.First(&transaction, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &transaction, err
}

func (t *DefaultTransactionRepository) FindByRange(from, to int64) ([]*entity.Transaction, error) {
	query := t.db.Model(&entity.Transaction{})
	if from != 0 {
		query = query.Where("date >= ?", from)
	}
	if to != 0 {
		query = query.Where("date < ?", to)
	}

	var transactions []*entity.Transaction
	err := query.Order("date asc").Find(&transactions).Error
	return transactions, err
}

// MonthTotals sums income and expense entries dated within
// [monthStart, monthEnd).
func (t *DefaultTransactionRepository) MonthTotals(monthStart, monthEnd int64) (*TransactionTotals, error) {
	totals := &TransactionTotals{}

	rows, err := t.db.Model(&entity.Transaction{}).
		Select("type, value").
		Where("date >= ? AND date < ?", monthStart, monthEnd).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var value float64
		if err := rows.Scan(&kind, &value); err != nil {
			return nil, err
		}
		if kind == entity.TransactionExpense {
			totals.Expense += value
		} else {
			totals.Income += value
		}
	}
	return totals, rows.Err()
}

func (t *DefaultTransactionRepository) Save(transaction *entity.Transaction) error {
	return t.db.Save(transaction).Error
}

func (t *DefaultTransactionRepository) Delete(transaction *entity.Transaction) error {
	return t.db.Delete(transaction).Error
}
