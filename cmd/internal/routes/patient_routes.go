package routes

import (
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type PatientService interface {
	GetPatients() ([]*service.PatientResponse, apierror.ErrorResponse)
	GetPatient(id int) (*service.PatientResponse, apierror.ErrorResponse)
	CreatePatient(req *service.PatientRequest) (*service.PatientResponse, apierror.ErrorResponse)
	UpdatePatient(id int, req *service.PatientRequest) (*service.PatientResponse, apierror.ErrorResponse)
	DeletePatient(id int) apierror.ErrorResponse
}

type DefaultPatientRoute struct {
	PatientService PatientService
}

func NewPatientDefault(patientService PatientService) *DefaultPatientRoute {
	return &DefaultPatientRoute{PatientService: patientService}
}

func (p *DefaultPatientRoute) GetPatients(c echo.Context) error {
	patients, apierr := p.PatientService.GetPatients()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"patients": patients}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPatientRoute) GetPatient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	patient, apierr := p.PatientService.GetPatient(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, patient)
}

func (p *DefaultPatientRoute) CreatePatient(c echo.Context) error {
	var req service.PatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	patient, apierr := p.PatientService.CreatePatient(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, patient)
}

func (p *DefaultPatientRoute) UpdatePatient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.PatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	patient, apierr := p.PatientService.UpdatePatient(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, patient)
}

func (p *DefaultPatientRoute) DeletePatient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	apierr := p.PatientService.DeletePatient(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
