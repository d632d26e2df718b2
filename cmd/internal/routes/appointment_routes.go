package routes

import (
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	GetAppointments(filter repository.AppointmentFilter) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	GetAppointment(id int) (*service.AppointmentResponse, apierror.ErrorResponse)
	CreateAppointment(req *service.AppointmentRequest) (*service.CreateAppointmentResponse, apierror.ErrorResponse)
	UpdateAppointment(id int, req *service.AppointmentUpdateRequest, all bool) (*service.BatchResponse, apierror.ErrorResponse)
	DeleteAppointment(id int, all bool) (*service.BatchResponse, apierror.ErrorResponse)
	PreviewRecurrence(req *service.RecurrencePreviewRequest) (*service.RecurrencePreviewResponse, apierror.ErrorResponse)
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	filter := repository.AppointmentFilter{}
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("patient_id", "int32"))
		}
		filter.PatientID = id
	}
	if raw := c.QueryParam("therapist_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("therapist_id", "int32"))
		}
		filter.TherapistID = id
	}
	if raw := c.QueryParam("from"); raw != "" {
		millis, err := utils.FromDate(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("from", "date"))
		}
		filter.From = millis
	}
	if raw := c.QueryParam("to"); raw != "" {
		millis, err := utils.FromDate(raw)
		if err != nil {
			return c.JSON(400, apierror.NewInvalidParamTypeError("to", "date"))
		}
		filter.To = millis
	}

	appts, apierr := a.AppointmentService.GetAppointments(filter)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) GetAppointment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	appt, apierr := a.AppointmentService.GetAppointment(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	created, apierr := a.AppointmentService.CreateAppointment(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, created)
}

func (a *DefaultAppointmentRoute) UpdateAppointment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.AppointmentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	all := c.QueryParam("all") == "true"
	result, apierr := a.AppointmentService.UpdateAppointment(id, &req, all)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, result)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	all := c.QueryParam("all") == "true"
	result, apierr := a.AppointmentService.DeleteAppointment(id, all)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, result)
}

// PreviewRecurrence lets the UI show the occurrence count before submitting;
// nothing is persisted.
func (a *DefaultAppointmentRoute) PreviewRecurrence(c echo.Context) error {
	var req service.RecurrencePreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	preview, apierr := a.AppointmentService.PreviewRecurrence(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, preview)
}
