package routes

import (
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type TherapistService interface {
	GetTherapists() ([]*service.TherapistResponse, apierror.ErrorResponse)
	GetTherapist(id int) (*service.TherapistResponse, apierror.ErrorResponse)
	CreateTherapist(req *service.TherapistRequest) (*service.TherapistResponse, apierror.ErrorResponse)
	UpdateTherapist(id int, req *service.TherapistRequest) (*service.TherapistResponse, apierror.ErrorResponse)
	DeleteTherapist(id int) apierror.ErrorResponse
}

type DefaultTherapistRoute struct {
	TherapistService TherapistService
}

func NewTherapistDefault(therapistService TherapistService) *DefaultTherapistRoute {
	return &DefaultTherapistRoute{TherapistService: therapistService}
}

func (t *DefaultTherapistRoute) GetTherapists(c echo.Context) error {
	therapists, apierr := t.TherapistService.GetTherapists()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"therapists": therapists}
	return c.JSON(http.StatusOK, &resp)
}

func (t *DefaultTherapistRoute) GetTherapist(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	therapist, apierr := t.TherapistService.GetTherapist(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, therapist)
}

func (t *DefaultTherapistRoute) CreateTherapist(c echo.Context) error {
	var req service.TherapistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	therapist, apierr := t.TherapistService.CreateTherapist(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, therapist)
}

func (t *DefaultTherapistRoute) UpdateTherapist(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.TherapistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	therapist, apierr := t.TherapistService.UpdateTherapist(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, therapist)
}

func (t *DefaultTherapistRoute) DeleteTherapist(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewSimple(400, "ID is not a number")
		return c.JSON(errResp.Code(), errResp)
	}

	apierr := t.TherapistService.DeleteTherapist(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
