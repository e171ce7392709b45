package services

import (
	"context"
	"errors"
	"strings"

	"cargo-backend/internal/auth"
	"cargo-backend/internal/models"
	"cargo-backend/internal/repositories"
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

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email and password are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if existing, _ := s.UserRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "agent",
		IsActive:     true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, errors.New("failed to create user: " + err.Error())
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New("account suspended")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email and password are required")
	}
	if req.Role != "admin" && req.Role != "supervisor" && req.Role != "agent" {
		return nil, errors.New("role must be admin, supervisor or agent")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		StaffCode:    req.StaffCode,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, errors.New("failed to create user: " + err.Error())
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	user.Name = req.Name
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.StaffCode = req.StaffCode
	user.Role = req.Role
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, errors.New("failed to update user: " + err.Error())
	}
	return user, nil
}
