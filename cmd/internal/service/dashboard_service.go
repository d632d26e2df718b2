package service

import (
	"clinicdesk/cmd/internal/cache"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/utils/apierror"
	"encoding/json"

	"github.com/labstack/gommon/log"
)

type SessionAggregator interface {
	MonthTotals(monthStart, monthEnd int64) (*repository.SessionTotals, error)
}

type TransactionAggregator interface {
	MonthTotals(monthStart, monthEnd int64) (*repository.TransactionTotals, error)
}

type FinancialSummaryResponse struct {
	Month         string  `json:"month"`
	SessionsCount int64   `json:"sessions_count"`
	Billed        float64 `json:"billed"`
	Received      float64 `json:"received"`
	Pending       float64 `json:"pending"`
	OtherIncome   float64 `json:"other_income"`
	Expenses      float64 `json:"expenses"`
	Net           float64 `json:"net"`
}

// DefaultDashboardService serves the financial read-model: monthly session
// billing plus standalone transactions, cached in Redis until a write
// invalidates it.
type DefaultDashboardService struct {
	Sessions     SessionAggregator
	Transactions TransactionAggregator
	Cache        *cache.Store
}

func NewDashboardService(sessions SessionAggregator, transactions TransactionAggregator, store *cache.Store) *DefaultDashboardService {
	return &DefaultDashboardService{Sessions: sessions, Transactions: transactions, Cache: store}
}

// GetFinancialSummary aggregates one month, read-through cached under the
// "YYYY-MM" key.
func (d *DefaultDashboardService) GetFinancialSummary(month string, monthStart, monthEnd int64) (*FinancialSummaryResponse, apierror.ErrorResponse) {
	if raw, ok := d.Cache.GetFinancial(month); ok {
		var summary FinancialSummaryResponse
		if err := json.Unmarshal(raw, &summary); err == nil {
			return &summary, nil
		}
		log.Errorf("dropping unreadable cached summary for %s", month)
	}

	sessionTotals, err := d.Sessions.MonthTotals(monthStart, monthEnd)
	if err != nil {
		log.Errorf("failed to aggregate sessions for %s: %v", month, err)
		return nil, apierror.InternalServerError
	}
	transactionTotals, err := d.Transactions.MonthTotals(monthStart, monthEnd)
	if err != nil {
		log.Errorf("failed to aggregate transactions for %s: %v", month, err)
		return nil, apierror.InternalServerError
	}

	summary := &FinancialSummaryResponse{
		Month:         month,
		SessionsCount: sessionTotals.Count,
		Billed:        sessionTotals.Billed,
		Received:      sessionTotals.Received,
		Pending:       sessionTotals.Pending,
		OtherIncome:   transactionTotals.Income,
		Expenses:      transactionTotals.Expense,
		Net:           sessionTotals.Received + transactionTotals.Income - transactionTotals.Expense,
	}

	if payload, err := json.Marshal(summary); err == nil {
		d.Cache.SetFinancial(month, payload)
	}
	return summary, nil
}
