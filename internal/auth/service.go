package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dermalink/dermalink-backend/internal/users"
	pkgAuth "github.com/dermalink/dermalink-backend/pkg/auth"
	"github.com/dermalink/dermalink-backend/pkg/config"
	"github.com/dermalink/dermalink-backend/pkg/enums"
	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
	"github.com/dermalink/dermalink-backend/pkg/metrics"
	"github.com/google/uuid"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
}

type userService interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*users.User, error)
	Get(ctx context.Context, id uuid.UUID) (*users.User, error)
	AuthenticateWithPassword(ctx context.Context, email, password string) (*users.User, error)
}

type service struct {
	users   userService
	jwtCfg  config.JWTConfig
	metrics *metrics.AuthMetrics
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users     userService
	JWTConfig config.JWTConfig
	Metrics   *metrics.AuthMetrics
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user service is required")
	}
	return &service{
		users:   params.Users,
		jwtCfg:  params.JWTConfig,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	start := time.Now()

	var role enums.UserRole
	if req.Role != "" {
		parsed, err := enums.ParseUserRole(req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		role = parsed
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRegistration()
	s.metrics.ObserveDuration("register", time.Since(start))
	return &RegisterResponse{Email: user.Email}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	start := time.Now()

	user, err := s.users.AuthenticateWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.IncLoginFailure()
		return nil, err
	}
	if user == nil {
		// Unknown email and wrong password share one answer.
		s.metrics.IncLoginFailure()
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := time.Now().UTC()
	accessToken, refreshToken, err := s.mintPair(now, user.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.IncLoginSuccess()
	s.metrics.ObserveDuration("login", time.Since(start))
	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromUser(user),
	}, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseRefreshToken(s.jwtCfg, req.RefreshToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token subject")
	}

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := time.Now().UTC()
	accessToken, refreshToken, err := s.mintPair(now, user.ID)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// mintPair issues both tokens together so a caller never observes partial
// issuance.
func (s *service) mintPair(now time.Time, userID uuid.UUID) (string, string, error) {
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, userID.String())
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refreshToken, err := pkgAuth.MintRefreshToken(s.jwtCfg, now, userID.String())
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}
	return accessToken, refreshToken, nil
}
