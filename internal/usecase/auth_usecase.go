package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/service"
	"hospital-frontdesk/pkg/jwt"
	"hospital-frontdesk/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPhoneAlreadyExists = errors.New("phone number already registered")
	ErrUserIDTaken        = errors.New("an account with the same id already exists, use a different name or phone")
	ErrInvalidCredentials = errors.New("invalid phone or password")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	auditService service.AuditService
	hashPassword func(string) (string, error)
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
		hashPassword: password.Hash,
	}
}

// Register creates the account under its derived id (last four phone digits
// plus the first three letters of the name)
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	role := entity.Role(req.Role)
	userID := entity.DeriveUserID(name, phone)

	// Hash outside the transaction, argon2 is deliberately slow
	hashedPassword, err := u.hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByPhone(tx, phone)
	if err != nil {
		u.log.Warnf("Failed to find user by phone: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyExists
	}

	taken, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if taken != nil {
		return nil, ErrUserIDTaken
	}

	user := &entity.User{
		ID:       userID,
		Name:     name,
		Role:     role,
		Phone:    phone,
		Password: hashedPassword,
		Age:      req.Age,
		Gender:   optionalString(req.Gender),
	}
	if user.IsDoctor() {
		user.Degrees = optionalString(req.Degrees)
		user.Specialization = optionalString(req.Specialization)
		user.Experience = req.Experience
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "phone") {
			return nil, ErrPhoneAlreadyExists
		}
		if isDuplicateKeyError(err, "pkey") {
			return nil, ErrUserIDTaken
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, user.ID, entity.AuditActionUserRegister, "user", user.ID, entity.JSON{"role": string(role)}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("User registered: id=%s, role=%s", user.ID, role)
	return &dto.RegisterResponse{Message: "User Registered", ID: user.ID}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Find user by phone (read-only, no transaction needed)
	user, err := u.userRepo.FindByPhone(u.db.WithContext(ctx), strings.TrimSpace(req.Phone))
	if err != nil {
		u.log.Warnf("Failed to find user by phone: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := password.Verify(req.Password, user.Password)
	if err != nil {
		u.log.Warnf("Failed to verify password for user %s: %+v", user.ID, err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, tokenID, err := u.jwtService.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, user.ID, tokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	// A missing audit row must not lock the user out
	_ = u.auditService.Record(ctx, u.db, user.ID, entity.AuditActionUserLogin, entity.JSON{"role": string(user.Role)})

	return &dto.TokenResponse{
		Token:     token,
		Role:      string(user.Role),
		ID:        user.ID,
		ExpiresIn: int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context) error {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return err
	}
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if err := u.tokenStore.Revoke(ctx, userID, tokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	_ = u.auditService.Record(ctx, u.db, userID, entity.AuditActionUserLogout, nil)
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.userRepo.FindByRole(u.db.WithContext(ctx), entity.RoleDoctor)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.UsersToDoctorResponses(doctors),
		Total:   len(doctors),
	}, nil
}
