package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/internal/models/response_models"
	"coivault/internal/repositories"
	mem "coivault/pkg/memcache"
	"coivault/pkg/utils"
)

type AccountServiceInterface interface {
	SignUp(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error)
	SignIn(ctx context.Context, request request_models.SignInRequest) (*response_models.AuthResponse, error)
	// ResolveOrgContext loads the caller and their primary organization.
	// Deleted users get ErrUnauthorized, users without a live membership get
	// ErrNoOrganization.
	ResolveOrgContext(ctx context.Context, userID uuid.UUID) (*OrgContext, error)
	// DeleteAccount soft-deletes the caller and their organization. Only the
	// owner may do this.
	DeleteAccount(ctx context.Context, org OrgContext) error
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	orgRepo     repositories.OrganizationRepository
	audit       AuditService
	jwt         *utils.JWTManager
	cache       mem.ViewCache
	log         *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	orgRepo repositories.OrganizationRepository,
	audit AuditService,
	jwt *utils.JWTManager,
	cache mem.ViewCache,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		orgRepo:     orgRepo,
		audit:       audit,
		jwt:         jwt,
		cache:       cache,
		log:         log.Named("accounts"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) SignUp(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error) {
	request.Name = strings.TrimSpace(request.Name)
	request.Email = normalizeEmail(request.Email)
	request.OrgName = strings.TrimSpace(request.OrgName)
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	taken, err := a.accountRepo.EmailTaken(ctx, request.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: check email: %v", utils.ErrDatabaseError, err)
	}
	if taken {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		Name:         request.Name,
		Email:        request.Email,
		PasswordHash: hashedPassword,
	}
	org, err := a.accountRepo.SignUp(ctx, user, request.OrgName)
	if err != nil {
		return nil, fmt.Errorf("%w: sign up: %v", utils.ErrDatabaseError, err)
	}

	token, err := a.jwt.CreateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	a.log.Info("Account created",
		zap.String("user_id", user.ID.String()),
		zap.String("org_id", org.ID.String()))

	return &response_models.AuthResponse{
		Token:   token,
		UserID:  user.ID.String(),
		OrgID:   org.ID.String(),
		OrgName: org.Name,
	}, nil
}

func (a *AccountService) SignIn(ctx context.Context, request request_models.SignInRequest) (*response_models.AuthResponse, error) {
	startTime := time.Now()

	request.Email = normalizeEmail(request.Email)
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	user, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.jwt.CreateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	resp := &response_models.AuthResponse{
		Token:  token,
		UserID: user.ID.String(),
	}
	membership, err := a.orgRepo.FindPrimaryMembership(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: find membership: %v", utils.ErrDatabaseError, err)
	}
	if membership != nil {
		resp.OrgID = membership.OrgID.String()
		resp.OrgName = membership.Organization.Name
	}

	a.log.Debug("Sign in completed", zap.Duration("took", time.Since(startTime)))
	return resp, nil
}

func (a *AccountService) ResolveOrgContext(ctx context.Context, userID uuid.UUID) (*OrgContext, error) {
	user, err := a.accountRepo.FindById(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrUnauthorized
	}

	membership, err := a.orgRepo.FindPrimaryMembership(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find membership: %v", utils.ErrDatabaseError, err)
	}
	if membership == nil {
		return nil, utils.ErrNoOrganization
	}

	return &OrgContext{
		UserID:  user.ID,
		Email:   user.Email,
		OrgID:   membership.OrgID,
		OrgName: membership.Organization.Name,
		Role:    membership.Role,
	}, nil
}

func (a *AccountService) DeleteAccount(ctx context.Context, org OrgContext) error {
	if !org.IsOwner() {
		return utils.ErrNotOwner
	}

	if err := a.accountRepo.SoftDeleteAccount(ctx, org.UserID, org.OrgID); err != nil {
		return fmt.Errorf("%w: delete account: %v", utils.ErrDatabaseError, err)
	}

	a.audit.Record(ctx, db_models.AuditAccountDeleted, org.OrgID, org.userRef(),
		"Account and organization soft-deleted")
	invalidateOrgViews(a.cache, org.OrgID)

	a.log.Info("Account deleted",
		zap.String("user_id", org.UserID.String()),
		zap.String("org_id", org.OrgID.String()))
	return nil
}
