package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
)

type InviteRepository interface {
	FindByID(id int) (*entity.Invite, error)
	FindAll() ([]*entity.Invite, error)
	Save(invite *entity.Invite) error
}

// inviteTTL is how long an invite token stays redeemable.
const inviteTTL = 7 * 24 * time.Hour

type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=Admin Therapist Receptionist"`
}

type AcceptInviteRequest struct {
	Token string `json:"token" validate:"required"`
	Name  string `json:"name" validate:"required,min=2,max=128"`
}

type InviteResponse struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

type CreateInviteResponse struct {
	Invite *InviteResponse `json:"invite"`
	Token  string          `json:"token"`
}

type DefaultInviteService struct {
	InviteRepo InviteRepository
	UserRepo   UserRepository
	Validate   *validator.Validate
	Secret     []byte
}

func NewInviteService(inviteRepo InviteRepository, userRepo UserRepository, validate *validator.Validate, secret string) *DefaultInviteService {
	return &DefaultInviteService{InviteRepo: inviteRepo, UserRepo: userRepo, Validate: validate, Secret: []byte(secret)}
}

func (i *DefaultInviteService) GetInvites() ([]*InviteResponse, apierror.ErrorResponse) {
	invites, err := i.InviteRepo.FindAll()
	if err != nil {
		log.Errorf("failed to list invites: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*InviteResponse, len(invites))
	for idx, invite := range invites {
		resp[idx] = toInviteResponse(invite)
	}
	return resp, nil
}

// CreateInvite records the invite and returns a signed token the clinic
// hands to the invitee. The token is the only credential needed to accept.
func (i *DefaultInviteService) CreateInvite(req *CreateInviteRequest) (*CreateInviteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := i.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := i.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	now := utils.NowUTC()
	expiresAt := time.UnixMilli(now).Add(inviteTTL)
	invite := &entity.Invite{
		Email:     req.Email,
		Role:      req.Role,
		Status:    entity.InvitePending,
		ExpiresAt: expiresAt.UnixMilli(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := i.InviteRepo.Save(invite); err != nil {
		log.Errorf("failed to create invite: %v", err)
		return nil, apierror.InternalServerError
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"invite_id": invite.ID,
		"email":     invite.Email,
		"role":      invite.Role,
		"exp":       expiresAt.Unix(),
	})
	signed, err := token.SignedString(i.Secret)
	if err != nil {
		log.Errorf("failed to sign invite token for %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	return &CreateInviteResponse{Invite: toInviteResponse(invite), Token: signed}, nil
}

// AcceptInvite verifies the token, creates the user, and consumes the
// invite.
func (i *DefaultInviteService) AcceptInvite(req *AcceptInviteRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := i.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	inviteID, apierr := i.parseInviteToken(req.Token)
	if apierr != nil {
		return nil, apierr
	}

	invite, err := i.InviteRepo.FindByID(inviteID)
	if err != nil {
		log.Errorf("failed to fetch invite %d: %v", inviteID, err)
		return nil, apierror.InternalServerError
	}
	if invite == nil {
		return nil, apierror.InviteNotFoundError
	}
	if invite.Status != entity.InvitePending {
		return nil, apierror.InviteNotPendingError
	}
	if invite.ExpiresAt < utils.NowUTC() {
		return nil, apierror.InvalidInviteTokenError
	}

	found, err := i.UserRepo.ExistsByEmail(invite.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Name:      req.Name,
		Email:     invite.Email,
		Role:      invite.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := i.UserRepo.Save(user); err != nil {
		log.Errorf("failed to create user from invite %d: %v", inviteID, err)
		return nil, apierror.InternalServerError
	}

	invite.Status = entity.InviteAccepted
	invite.UpdatedAt = now
	if err := i.InviteRepo.Save(invite); err != nil {
		// The user exists either way; the stale invite is caught by the
		// pending check on any later accept.
		log.Errorf("failed to mark invite %d accepted: %v", inviteID, err)
	}

	return toUserResponse(user), nil
}

func (i *DefaultInviteService) parseInviteToken(raw string) (int, apierror.ErrorResponse) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return i.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, apierror.InvalidInviteTokenError
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apierror.InvalidInviteTokenError
	}
	id, ok := claims["invite_id"].(float64)
	if !ok || id <= 0 {
		return 0, apierror.InvalidInviteTokenError
	}
	return int(id), nil
}

func toInviteResponse(invite *entity.Invite) *InviteResponse {
	return &InviteResponse{
		ID:        invite.ID,
		Email:     invite.Email,
		Role:      invite.Role,
		Status:    invite.Status,
		ExpiresAt: utils.FormatEpoch(invite.ExpiresAt),
		CreatedAt: utils.FormatEpoch(invite.CreatedAt),
	}
}
