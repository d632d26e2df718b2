package routes

import (
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

type InviteService interface {
	GetInvites() ([]*service.InviteResponse, apierror.ErrorResponse)
	CreateInvite(req *service.CreateInviteRequest) (*service.CreateInviteResponse, apierror.ErrorResponse)
	AcceptInvite(req *service.AcceptInviteRequest) (*service.UserResponse, apierror.ErrorResponse)
}

type DefaultInviteRoute struct {
	InviteService InviteService
}

func NewInviteDefault(inviteService InviteService) *DefaultInviteRoute {
	return &DefaultInviteRoute{InviteService: inviteService}
}

func (i *DefaultInviteRoute) GetInvites(c echo.Context) error {
	invites, apierr := i.InviteService.GetInvites()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"invites": invites}
	return c.JSON(http.StatusOK, &resp)
}

func (i *DefaultInviteRoute) CreateInvite(c echo.Context) error {
	var req service.CreateInviteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	invite, apierr := i.InviteService.CreateInvite(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, invite)
}

func (i *DefaultInviteRoute) AcceptInvite(c echo.Context) error {
	var req service.AcceptInviteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := i.InviteService.AcceptInvite(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, user)
}
