package service

import (
	"context"
	"errors"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"
	"koalgroup/internal/token"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// Authenticate returns the active user matching the credentials or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	Blacklist(ctx context.Context, refreshToken string) error
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
}

type authService struct {
	users  repository.UserRepository
	issuer *token.Issuer
	rotate bool
}

// NewAuthService builds the login flow. With rotate set every refresh returns
// a new refresh token and burns the old one.
func NewAuthService(users repository.UserRepository, issuer *token.Issuer, rotate bool) AuthService {
	return &authService{users: users, issuer: issuer, rotate: rotate}
}

// dummyHash keeps the response time of unknown usernames close to that of a
// wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("koal-dummy-password"), bcrypt.DefaultCost)

func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(fromDB(err), ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Access:       pair.Access,
		Refresh:      pair.Refresh,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(pair.AccessTTL.Seconds()),
		Role:         string(user.Role),
		Username:     user.Username,
	}, nil
}

// Refresh reloads the user so that a deactivated account or a role change
// takes effect at the next refresh.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.issuer.ParseRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalid) || errors.Is(err, token.ErrRevoked) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	caller, err := claims.Caller()
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByID(ctx, policy.All(), caller.ID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !s.rotate {
		access, err := s.issuer.IssueAccess(user)
		if err != nil {
			return nil, err
		}
		return &dto.RefreshResponse{Access: access, AccessToken: access, ExpiresIn: s.expiresIn()}, nil
	}

	if err := s.issuer.Revoke(ctx, claims); err != nil {
		return nil, err
	}
	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{
		Access:       pair.Access,
		AccessToken:  pair.Access,
		Refresh:      pair.Refresh,
		RefreshToken: pair.Refresh,
		ExpiresIn:    int(pair.AccessTTL.Seconds()),
	}, nil
}

func (s *authService) expiresIn() int {
	return int(s.issuer.AccessTTL().Seconds())
}

func (s *authService) Blacklist(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.ParseRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalid) || errors.Is(err, token.ErrRevoked) {
			return ErrInvalidCredentials
		}
		return err
	}
	return s.issuer.Revoke(ctx, claims)
}

// Register is the public sign-up. The password confirmation is checked before
// anything else so a mismatch never touches the database.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	if req.Password != req.Password2 {
		return nil, fieldError("password", "Las contraseñas no coinciden.")
	}
	role := model.RoleEmployee
	if req.Role != "" {
		role = model.Role(req.Role)
	}
	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     role,
		IDNumber: blankToNil(req.IDNumber),
		Phone:    blankToNil(req.Phone),
		IsActive: true,
	}
	if err := checkUnique(ctx, s.users, user); err != nil {
		return nil, err
	}
	if err := setPassword(user, req.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fromDB(err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}
