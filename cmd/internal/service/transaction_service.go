package service

import (
	"clinicdesk/cmd/internal/cache"
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type TransactionRepository interface {
	FindByID(id int) (*entity.Transaction, error)
	FindByRange(from, to int64) ([]*entity.Transaction, error)
	Save(transaction *entity.Transaction) error
	Delete(transaction *entity.Transaction) error
}

type TransactionRequest struct {
	TherapistID *int    `json:"therapist_id" validate:"omitempty,gt=0"`
	Type        string  `json:"type" validate:"required,oneof=Income Expense"`
	Category    string  `json:"category" validate:"max=64"`
	Value       float64 `json:"value" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required,isodate"`
	Description string  `json:"description" validate:"max=255"`
}

type TransactionResponse struct {
	ID          int     `json:"id"`
	TherapistID *int    `json:"therapist_id,omitempty"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Value       float64 `json:"value"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type DefaultTransactionService struct {
	TransactionRepo TransactionRepository
	Validate        *validator.Validate
	Cache           cache.Invalidator
}

func NewTransactionService(transactionRepo TransactionRepository, validate *validator.Validate, invalidator cache.Invalidator) *DefaultTransactionService {
	return &DefaultTransactionService{TransactionRepo: transactionRepo, Validate: validate, Cache: invalidator}
}

func (t *DefaultTransactionService) GetTransactions(from, to int64) ([]*TransactionResponse, apierror.ErrorResponse) {
	transactions, err := t.TransactionRepo.FindByRange(from, to)
	if err != nil {
		log.Errorf("failed to list transactions: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		resp[i] = toTransactionResponse(transaction)
	}
	return resp, nil
}

func (t *DefaultTransactionService) CreateTransaction(req *TransactionRequest) (*TransactionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	dateMillis, err := utils.FromDate(req.Date)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	now := utils.NowUTC()
	transaction := &entity.Transaction{
		TherapistID: req.TherapistID,
		Type:        req.Type,
		Category:    req.Category,
		Value:       req.Value,
		Date:        dateMillis,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := t.TransactionRepo.Save(transaction); err != nil {
		log.Errorf("failed to create transaction: %v", err)
		return nil, apierror.InternalServerError
	}

	t.Cache.InvalidateFinancials()
	return toTransactionResponse(transaction), nil
}

func (t *DefaultTransactionService) UpdateTransaction(id int, req *TransactionRequest) (*TransactionResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	transaction, err := t.TransactionRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch transaction %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if transaction == nil {
		return nil, apierror.TransactionNotFoundError
	}

	dateMillis, err := utils.FromDate(req.Date)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	transaction.TherapistID = req.TherapistID
	transaction.Type = req.Type
	transaction.Category = req.Category
	transaction.Value = req.Value
	transaction.Date = dateMillis
	transaction.Description = req.Description
	transaction.UpdatedAt = utils.NowUTC()

	if err := t.TransactionRepo.Save(transaction); err != nil {
		log.Errorf("failed to update transaction %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	t.Cache.InvalidateFinancials()
	return toTransactionResponse(transaction), nil
}

func (t *DefaultTransactionService) DeleteTransaction(id int) apierror.ErrorResponse {
	transaction, err := t.TransactionRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch transaction %d: %v", id, err)
		return apierror.InternalServerError
	}
	if transaction == nil {
		return apierror.TransactionNotFoundError
	}

	if err := t.TransactionRepo.Delete(transaction); err != nil {
		log.Errorf("failed to delete transaction %d: %v", id, err)
		return apierror.InternalServerError
	}

	t.Cache.InvalidateFinancials()
	return nil
}

func toTransactionResponse(transaction *entity.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          transaction.ID,
		TherapistID: transaction.TherapistID,
		Type:        transaction.Type,
		Category:    transaction.Category,
		Value:       transaction.Value,
		Date:        utils.FormatDate(transaction.Date),
		Description: transaction.Description,
		CreatedAt:   utils.FormatEpoch(transaction.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(transaction.UpdatedAt),
	}
}
