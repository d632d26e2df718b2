package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"testing"

	"gorm.io/gorm"
)

func newInviteService(t *testing.T) (*DefaultInviteService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewInviteService(
		repository.NewInviteRepository(db),
		repository.NewUserRepository(db),
		newTestValidator(t),
		"test-secret",
	)
	return svc, db
}

func TestInviteLifecycle(t *testing.T) {
	svc, db := newInviteService(t)

	created, apierr := svc.CreateInvite(&CreateInviteRequest{
		Email: "ana@clinic.test",
		Role:  entity.RoleTherapist,
	})
	if apierr != nil {
		t.Fatalf("create invite failed: %v", apierr)
	}
	if created.Token == "" {
		t.Fatal("expected a signed token")
	}
	if created.Invite.Status != entity.InvitePending {
		t.Errorf("expected pending invite, got %s", created.Invite.Status)
	}

	user, apierr := svc.AcceptInvite(&AcceptInviteRequest{
		Token: created.Token,
		Name:  "Ana Souza",
	})
	if apierr != nil {
		t.Fatalf("accept invite failed: %v", apierr)
	}
	if user.Email != "ana@clinic.test" || user.Role != entity.RoleTherapist {
		t.Errorf("user does not match invite: %+v", user)
	}

	var invite entity.Invite
	if err := db.First(&invite, created.Invite.ID).Error; err != nil {
		t.Fatalf("failed to reload invite: %v", err)
	}
	if invite.Status != entity.InviteAccepted {
		t.Errorf("expected accepted invite, got %s", invite.Status)
	}
}

func TestAcceptInviteTwice(t *testing.T) {
	svc, _ := newInviteService(t)

	created, apierr := svc.CreateInvite(&CreateInviteRequest{
		Email: "lia@clinic.test",
		Role:  entity.RoleReceptionist,
	})
	if apierr != nil {
		t.Fatalf("create invite failed: %v", apierr)
	}

	if _, apierr := svc.AcceptInvite(&AcceptInviteRequest{Token: created.Token, Name: "Lia Prado"}); apierr != nil {
		t.Fatalf("first accept failed: %v", apierr)
	}

	_, apierr = svc.AcceptInvite(&AcceptInviteRequest{Token: created.Token, Name: "Lia Prado"})
	if apierr != apierror.InviteNotPendingError {
		t.Fatalf("expected already-used error, got %v", apierr)
	}
}

func TestAcceptInviteBadToken(t *testing.T) {
	svc, _ := newInviteService(t)

	_, apierr := svc.AcceptInvite(&AcceptInviteRequest{Token: "not-a-jwt", Name: "Mal Ory"})
	if apierr != apierror.InvalidInviteTokenError {
		t.Fatalf("expected invalid token error, got %v", apierr)
	}
}

func TestAcceptInviteWrongSecret(t *testing.T) {
	svc, db := newInviteService(t)

	created, apierr := svc.CreateInvite(&CreateInviteRequest{
		Email: "rui@clinic.test",
		Role:  entity.RoleAdmin,
	})
	if apierr != nil {
		t.Fatalf("create invite failed: %v", apierr)
	}

	other := NewInviteService(
		repository.NewInviteRepository(db),
		repository.NewUserRepository(db),
		svc.Validate,
		"different-secret",
	)
	_, apierr = other.AcceptInvite(&AcceptInviteRequest{Token: created.Token, Name: "Rui Costa"})
	if apierr != apierror.InvalidInviteTokenError {
		t.Fatalf("expected invalid token error, got %v", apierr)
	}
}

func TestAcceptExpiredInvite(t *testing.T) {
	svc, db := newInviteService(t)

	created, apierr := svc.CreateInvite(&CreateInviteRequest{
		Email: "old@clinic.test",
		Role:  entity.RoleTherapist,
	})
	if apierr != nil {
		t.Fatalf("create invite failed: %v", apierr)
	}

	// Backdate the stored expiry; the token itself is still within its JWT
	// exp, so the service-level check is what must reject it.
	err := db.Model(&entity.Invite{}).
		Where("id = ?", created.Invite.ID).
		Update("expires_at", utils.NowUTC()-1000).Error
	if err != nil {
		t.Fatalf("failed to backdate invite: %v", err)
	}

	_, apierr = svc.AcceptInvite(&AcceptInviteRequest{Token: created.Token, Name: "Old Invite"})
	if apierr != apierror.InvalidInviteTokenError {
		t.Fatalf("expected expired token error, got %v", apierr)
	}
}

func TestCreateInviteForExistingUser(t *testing.T) {
	svc, db := newInviteService(t)

	now := utils.NowUTC()
	user := &entity.User{Name: "Ana Souza", Email: "ana@clinic.test", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	_, apierr := svc.CreateInvite(&CreateInviteRequest{Email: "ana@clinic.test", Role: entity.RoleTherapist})
	if apierr != apierror.UserAlreadyExistsError {
		t.Fatalf("expected already-exists error, got %v", apierr)
	}
}

func TestPurgeExpiredPendingInvites(t *testing.T) {
	svc, db := newInviteService(t)

	expired, apierr := svc.CreateInvite(&CreateInviteRequest{Email: "a@clinic.test", Role: entity.RoleTherapist})
	if apierr != nil {
		t.Fatalf("create invite failed: %v", apierr)
	}
	if _, apierr := svc.CreateInvite(&CreateInviteRequest{Email: "b@clinic.test", Role: entity.RoleTherapist}); apierr != nil {
		t.Fatalf("create invite failed: %v", apierr)
	}

	err := db.Model(&entity.Invite{}).
		Where("id = ?", expired.Invite.ID).
		Update("expires_at", utils.NowUTC()-1000).Error
	if err != nil {
		t.Fatalf("failed to backdate invite: %v", err)
	}

	count, err := repository.NewInviteRepository(db).DeleteExpiredPending(utils.NowUTC())
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 purged invite, got %d", count)
	}
	if remaining := countRows(t, db, &entity.Invite{}); remaining != 1 {
		t.Errorf("expected 1 invite left, got %d", remaining)
	}
}
