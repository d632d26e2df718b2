package routes

import (
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type TransactionService interface {
	GetTransactions(from, to int64) ([]*service.TransactionResponse, apierror.ErrorResponse)
	CreateTransaction(req *service.TransactionRequest) (*service.TransactionResponse, apierror.ErrorResponse)
	UpdateTransaction(id int, req *service.TransactionRequest) (*service.TransactionResponse, apierror.ErrorResponse)
	DeleteTransaction(id int) apierror.ErrorResponse
}

type DefaultTransactionRoute struct {
	TransactionService TransactionService
}

func NewTransactionDefault(transactionService TransactionService) *DefaultTransactionRoute {
	return &DefaultTransactionRoute{TransactionService: transactionService}
}

func (t *DefaultTransactionRoute) GetTransactions(c echo.Context) error {
	var from, to int64
	if raw := c.QueryParam("from"); raw != "" {
		millis, err := utils.FromDate(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("from", "date"))
		}
		from = millis
	}
	if raw := c.QueryParam("to"); raw != "" {
		millis, err := utils.FromDate(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("to", "date"))
		}
		to = millis
	}

	transactions, apierr := t.TransactionService.GetTransactions(from, to)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"transactions": transactions}
	return c.JSON(http.StatusOK, &resp)
}

func (t *DefaultTransactionRoute) CreateTransaction(c echo.Context) error {
	var req service.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	transaction, apierr := t.TransactionService.CreateTransaction(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, transaction)
}

func (t *DefaultTransactionRoute) UpdateTransaction(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	transaction, apierr := t.TransactionService.UpdateTransaction(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, transaction)
}

func (t *DefaultTransactionRoute) DeleteTransaction(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	apierr := t.TransactionService.DeleteTransaction(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
