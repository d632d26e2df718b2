package routes

import (
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type DashboardService interface {
	GetFinancialSummary(month string, monthStart, monthEnd int64) (*service.FinancialSummaryResponse, apierror.ErrorResponse)
}

type DefaultDashboardRoute struct {
	DashboardService DashboardService
}

func NewDashboardDefault(dashboardService DashboardService) *DefaultDashboardRoute {
	return &DefaultDashboardRoute{DashboardService: dashboardService}
}

func (d *DefaultDashboardRoute) GetFinancialSummary(c echo.Context) error {
	monthStr := c.QueryParam("month") // "2025-08"
	if monthStr == "" {
		return c.JSON(400, apierror.NewMissingParamError("month"))
	}

	monthStart, monthEnd, err := parseMonthString(monthStr)
	if err != nil {
		apierr := apierror.NewSimple(400, "Could not understand month format")
		return c.JSON(apierr.Code(), apierr)
	}

	summary, apierr := d.DashboardService.GetFinancialSummary(monthStr, monthStart, monthEnd)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, summary)
}

// parseMonthString takes "YYYY-MM" (e.g., "2025-08") and returns
// the start of that month and the start of the next month as epoch millis.
func parseMonthString(monthString string) (int64, int64, error) {
	t, err := time.Parse("2006-01", monthString)
	if err != nil {
		return 0, 0, errors.New("invalid month format, expected YYYY-MM")
	}

	monthStart := t.UTC() // Ensure UTC always
	monthEnd := monthStart.AddDate(0, 1, 0)
	return monthStart.UnixMilli(), monthEnd.UnixMilli(), nil
}
