package services

import (
	"context"
	"strings"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/auth"
	"workshop-backend/internal/models"
	"workshop-backend/internal/repositories"
)

type UserService struct {
	UserRepo   *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		JWTManager: jwtManager,
	}
}

func validRole(role string) bool {
	return role == models.RoleAdministrador || role == models.RoleTecnico
}

// Login verifies credentials and issues a JWT.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.UserRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Do not disclose whether the account exists
		return nil, apperrors.E(apperrors.KindUnauthorized, "invalid credentials")
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.E(apperrors.KindUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		return nil, apperrors.E(apperrors.KindForbidden, "account suspended")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, apperrors.E(apperrors.KindInvalidInput, "name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.E(apperrors.KindInvalidInput, "password must be at least 8 characters")
	}
	if !validRole(req.Role) {
		return nil, apperrors.E(apperrors.KindInvalidInput, "role must be ADMINISTRADOR or TECNICO")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if !validRole(req.Role) {
			return nil, apperrors.E(apperrors.KindInvalidInput, "role must be ADMINISTRADOR or TECNICO")
		}
		user.Role = req.Role
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, apperrors.E(apperrors.KindInvalidInput, "password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.UserRepo.Get(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.UserRepo.List(ctx)
}

// ListTechnicians returns active technicians, for the assignment picker.
func (s *UserService) ListTechnicians(ctx context.Context) ([]*models.User, error) {
	return s.UserRepo.ListByRole(ctx, models.RoleTecnico)
}

func (s *UserService) DeactivateUser(ctx context.Context, id int) error {
	return s.UserRepo.Deactivate(ctx, id)
}
