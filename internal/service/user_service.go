package service

import (
	"context"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	List(ctx context.Context, c policy.Caller) ([]dto.UserResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.UserResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, c policy.Caller) ([]dto.UserResponse, error) {
	users, err := listVisible[model.User](ctx, s.repo, policy.Users, c, repository.Filter{})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i])
	}
	return resp, nil
}

func (s *userService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.UserResponse, error) {
	u, err := findVisible[model.User](ctx, s.repo, policy.Users, c, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, c policy.Caller, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := createAllowed(policy.Users, c); err != nil {
		return nil, err
	}
	role := model.RoleEmployee
	if req.Role != "" {
		role = model.Role(req.Role)
	}
	user := &model.User{
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          role,
		IDNumber:      blankToNil(req.IDNumber),
		Phone:         blankToNil(req.Phone),
		FingerprintID: blankToNil(req.FingerprintID),
		IsSuperuser:   req.IsSuperuser,
		IsStaff:       req.IsStaff,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if err := checkUnique(ctx, s.repo, user); err != nil {
		return nil, err
	}
	if err := setPassword(user, req.Password); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fromDB(err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Update applies the fields present in req. Role and the privilege flags can
// only be changed by an admin; a non-admin request that would change them is
// refused as a whole.
func (s *userService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := findMutable[model.User](ctx, s.repo, policy.Users, c, id)
	if err != nil {
		return nil, err
	}
	if !c.IsAdmin() && changesPrivileges(user, req) {
		return nil, ErrForbidden
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = model.Role(*req.Role)
	}
	if req.IDNumber != nil {
		user.IDNumber = blankToNil(req.IDNumber)
	}
	if req.Phone != nil {
		user.Phone = blankToNil(req.Phone)
	}
	if req.FingerprintID != nil {
		user.FingerprintID = blankToNil(req.FingerprintID)
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := checkUnique(ctx, s.repo, user); err != nil {
		return nil, err
	}
	if req.Password != nil {
		if err := setPassword(user, *req.Password); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fromDB(err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Delete is reserved to admins even where the write scope would admit the
// caller's own row.
func (s *userService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.User](ctx, s.repo, policy.Users, c, id); err != nil {
		return err
	}
	if !c.IsAdmin() {
		return ErrForbidden
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func changesPrivileges(u *model.User, req dto.UpdateUserRequest) bool {
	return (req.Role != nil && model.Role(*req.Role) != u.Role) ||
		(req.IsSuperuser != nil && *req.IsSuperuser != u.IsSuperuser) ||
		(req.IsStaff != nil && *req.IsStaff != u.IsStaff) ||
		(req.IsActive != nil && *req.IsActive != u.IsActive)
}

// checkUnique reports every unique column u collides on, keyed by JSON name.
func checkUnique(ctx context.Context, users repository.UserRepository, u *model.User) error {
	checks := []struct {
		field, column string
		value         *string
	}{
		{"username", "username", &u.Username},
		{"id_number", "id_number", u.IDNumber},
		{"fingerprint_id", "fingerprint_id", u.FingerprintID},
	}
	fields := map[string]string{}
	for _, chk := range checks {
		if chk.value == nil {
			continue
		}
		taken, err := users.Taken(ctx, chk.column, *chk.value, u.ID)
		if err != nil {
			return err
		}
		if taken {
			fields[chk.field] = "ya existe un usuario con este valor"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func setPassword(u *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// blankToNil stores empty optional strings as NULL so unique indexes ignore them.
func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            u.ID.String(),
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          string(u.Role),
		IDNumber:      u.IDNumber,
		Phone:         u.Phone,
		FingerprintID: u.FingerprintID,
		IsSuperuser:   u.IsSuperuser,
		IsStaff:       u.IsStaff,
		IsActive:      u.IsActive,
		DateJoined:    formatTimestamp(u.DateJoined),
	}
}
