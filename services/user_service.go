package services

import (
	"context"
	"strings"
	"unicode"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/common/logger"
	"heritage-backend/models"
	"heritage-backend/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"omitempty,email"`
}

// AddressRequest creates or updates a saved shipping address.
type AddressRequest struct {
	RecipientName string `json:"recipientName" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Street        string `json:"street" binding:"required"`
	Ward          string `json:"ward"`
	District      string `json:"district"`
	Province      string `json:"province" binding:"required"`
}

// UserService handles registration, authentication and profile management.
type UserService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
}

func NewUserService(users repository.UserRepository, addresses repository.AddressRepository) *UserService {
	return &UserService{users: users, addresses: addresses}
}

// validatePassword enforces the minimum password policy: 8+ characters with
// at least one letter and one digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.Validation("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.Validation("password must contain at least one letter and one digit")
	}
	return nil
}

// Register creates a new USER account. Username and email must both be
// unused; the password is stored bcrypt-hashed.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("username already taken")
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleUser,
		Enabled:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.From(err)
	}

	logger.Log.Info("User registered", zap.String("username", username))
	return user, nil
}

// Authenticate checks credentials and returns the user on success. Wrong
// username and wrong password produce the same error so the endpoint does
// not leak which accounts exist.
func (s *UserService) Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error) {
	invalid := apperrors.Validation("invalid username or password")

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.Enabled || user.Locked {
		return nil, apperrors.Validation("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

// GetByID fetches a user by primary key.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// GetAll lists every account.
func (s *UserService) GetAll(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

// UpdateProfile applies editable profile fields. An email change must not
// collide with another account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.Conflict("email already registered")
			}
			user.Email = email
		}
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperrors.Validation("current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal(err)
	}
	user.Password = string(hash)
	return s.users.Update(ctx, user)
}

// GetAddresses lists a user's saved addresses.
func (s *UserService) GetAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.addresses.FindByUserID(ctx, userID)
}

// AddAddress saves a new shipping address for a user.
func (s *UserService) AddAddress(ctx context.Context, userID uint, req *AddressRequest) (*models.Address, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	address := &models.Address{
		UserID:        userID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Street:        req.Street,
		Ward:          req.Ward,
		District:      req.District,
		Province:      req.Province,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress edits a saved address; the address must belong to the user.
func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID uint, req *AddressRequest) (*models.Address, error) {
	address, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, apperrors.NotFound("address", addressID)
	}
	address.RecipientName = req.RecipientName
	address.Phone = req.Phone
	address.Street = req.Street
	address.Ward = req.Ward
	address.District = req.District
	address.Province = req.Province
	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes a saved address; the address must belong to the user.
func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	address, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return err
	}
	if address.UserID != userID {
		return apperrors.NotFound("address", addressID)
	}
	return s.addresses.Delete(ctx, addressID)
}
