package routes

import (
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type SessionService interface {
	GetSessions(therapistID int) ([]*service.SessionResponse, apierror.ErrorResponse)
	GetSession(id int) (*service.SessionResponse, apierror.ErrorResponse)
	UpdatePayment(id int, req *service.SessionPaymentRequest) (*service.SessionResponse, apierror.ErrorResponse)
}

type DefaultSessionRoute struct {
	SessionService SessionService
}

func NewSessionDefault(sessionService SessionService) *DefaultSessionRoute {
	return &DefaultSessionRoute{SessionService: sessionService}
}

func (s *DefaultSessionRoute) GetSessions(c echo.Context) error {
	therapistID := 0
	if raw := c.QueryParam("therapist_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("therapist_id", "int32"))
		}
		therapistID = id
	}

	sessions, apierr := s.SessionService.GetSessions(therapistID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"sessions": sessions}
	return c.JSON(http.StatusOK, &resp)
}

func (s *DefaultSessionRoute) GetSession(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	session, apierr := s.SessionService.GetSession(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *DefaultSessionRoute) UpdatePayment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.SessionPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	session, apierr := s.SessionService.UpdatePayment(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, session)
}
